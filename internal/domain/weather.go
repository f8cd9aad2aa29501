package domain

import "math"

// Feature keys owned by the live weather reading.
const (
	KeyAirTempCelsius    = "air_temp_celsius"
	KeyAirTempFahrenheit = "air_temp_fahrenheit"
	KeyPrecipitation     = "precipitation_mm_per_hour"
	KeyHumidity          = "humidity_percent"
	KeyWindSpeed         = "wind_speed_kmh"
)

// WeatherReading is a live weather observation for one region. A reading is
// either complete or absent; there are no partial readings.
type WeatherReading struct {
	AirTempCelsius         float64 `json:"air_temp_celsius"`
	AirTempFahrenheit      float64 `json:"air_temp_fahrenheit"`
	PrecipitationMmPerHour float64 `json:"precipitation_mm_per_hour"`
	HumidityPercent        float64 `json:"humidity_percent"`
	WindSpeedKmh           float64 `json:"wind_speed_kmh"`
}

// NewWeatherReading builds a reading from raw Celsius-based values. Celsius
// is rounded to one decimal first and Fahrenheit is derived from the rounded
// value, then rounded itself.
func NewWeatherReading(celsius, precipitation, humidity, windSpeed float64) WeatherReading {
	c := roundTo(celsius, 1)
	return WeatherReading{
		AirTempCelsius:         c,
		AirTempFahrenheit:      CelsiusToFahrenheit(c),
		PrecipitationMmPerHour: precipitation,
		HumidityPercent:        humidity,
		WindSpeedKmh:           windSpeed,
	}
}

// CelsiusToFahrenheit converts and rounds to one decimal place.
func CelsiusToFahrenheit(c float64) float64 {
	return roundTo(c*9/5+32, 1)
}

// features returns the reading as ordered key/value pairs.
func (w WeatherReading) features() []struct {
	key   string
	value float64
} {
	return []struct {
		key   string
		value float64
	}{
		{KeyAirTempCelsius, w.AirTempCelsius},
		{KeyAirTempFahrenheit, w.AirTempFahrenheit},
		{KeyPrecipitation, w.PrecipitationMmPerHour},
		{KeyHumidity, w.HumidityPercent},
		{KeyWindSpeed, w.WindSpeedKmh},
	}
}

// roundTo rounds half away from zero.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
