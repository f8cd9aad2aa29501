package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featuresFromJSON(t *testing.T, s string) *FeatureMap {
	t.Helper()
	var m FeatureMap
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return &m
}

func TestNormalize_PairsAndSingles(t *testing.T) {
	features := featuresFromJSON(t, `{"sea_surface_temp_celsius": 26.5, "sea_surface_temp_fahrenheit": 79.7, "humidity_percent": 80}`)

	cards := Normalize(features, false)

	require.Len(t, cards, 2)
	paired := cards[0]
	assert.Equal(t, CardPaired, paired.Kind)
	assert.Equal(t, "Sea Surface Temp", paired.Label)
	assert.Equal(t, "🌊", paired.Icon)
	assert.Equal(t, "26.5", paired.Celsius.Display)
	assert.Equal(t, "79.7", paired.Fahrenheit.Display)
	assert.Nil(t, paired.Value)

	single := cards[1]
	assert.Equal(t, CardSingle, single.Kind)
	assert.Equal(t, "Humidity (%)", single.Label)
	assert.Equal(t, "80", single.Value.Display)
}

func TestNormalize_HideEmptyDropsFullyEmptyPair(t *testing.T) {
	features := featuresFromJSON(t, `{"x_celsius": "data_not_found", "x_fahrenheit": -999}`)

	assert.Empty(t, Normalize(features, true))

	cards := Normalize(features, false)
	require.Len(t, cards, 1)
	assert.True(t, cards[0].Celsius.Empty)
	assert.True(t, cards[0].Fahrenheit.Empty)
	assert.Equal(t, EmptyPlaceholder, cards[0].Celsius.Display)
	assert.Equal(t, EmptyPlaceholder, cards[0].Fahrenheit.Display)
}

func TestNormalize_HideEmptyKeepsHalfEmptyPair(t *testing.T) {
	features := featuresFromJSON(t, `{"soil_temp_celsius": 12, "soil_temp_fahrenheit": "data_not_found"}`)

	cards := Normalize(features, true)

	require.Len(t, cards, 1)
	assert.Equal(t, "🌡️", cards[0].Icon)
	assert.Equal(t, "12", cards[0].Celsius.Display)
	assert.True(t, cards[0].Fahrenheit.Empty)
}

func TestNormalize_AirTempIsNotPaired(t *testing.T) {
	features := featuresFromJSON(t, `{"air_temp_celsius": 21, "air_temp_fahrenheit": 69.8, "temp_2m_celsius": 20}`)

	cards := Normalize(features, false)

	require.Len(t, cards, 2)
	for _, c := range cards {
		assert.Equal(t, CardSingle, c.Kind)
	}
	assert.Equal(t, "air_temp_celsius", cards[0].Key)
	assert.Equal(t, "temp_2m_celsius", cards[1].Key)
}

func TestNormalize_SkipsStructuralAndNestedKeys(t *testing.T) {
	features := featuresFromJSON(t, `{
		"sources": {"marine": "NOAA"},
		"lat": 1, "lon": 2, "latitude": 1, "longitude": 2,
		"details": {"a": 1},
		"history": [1, 2],
		"pm25_air_quality": 12.34,
		"missing": null
	}`)

	for _, hideEmpty := range []bool{false, true} {
		cards := Normalize(features, hideEmpty)
		require.Len(t, cards, 1, "hideEmpty=%v", hideEmpty)
		assert.Equal(t, "pm25_air_quality", cards[0].Key)
		assert.Equal(t, "PM2.5 Air Quality (µg/m³)", cards[0].Label)
		assert.Equal(t, "12.3", cards[0].Value.Display)
	}
}

func TestNormalize_NullSingleValueHasNoCard(t *testing.T) {
	features := featuresFromJSON(t, `{"n": null, "dust_index": "data_not_found"}`)

	cards := Normalize(features, false)

	require.Len(t, cards, 1)
	assert.Equal(t, "dust_index", cards[0].Key)
	assert.True(t, cards[0].Value.Empty)
	assert.Equal(t, EmptyPlaceholder, cards[0].Value.Display)
}

func TestNormalize_PairsComeFirstInKeyOrder(t *testing.T) {
	features := featuresFromJSON(t, `{
		"humidity_percent": 70,
		"soil_temp_celsius": 10,
		"wind_speed_kmh": 5,
		"sea_surface_temp_celsius": 28,
		"sea_surface_temp_fahrenheit": 82.4
	}`)

	cards := Normalize(features, false)

	keys := make([]string, len(cards))
	for i, c := range cards {
		keys[i] = c.Key
	}
	assert.Equal(t, []string{"soil_temp_celsius", "sea_surface_temp_celsius", "humidity_percent", "wind_speed_kmh"}, keys)
	assert.Equal(t, EmptyPlaceholder, cards[0].Fahrenheit.Display, "missing counterpart renders as a dash")
}

func TestNormalize_NilFeatures(t *testing.T) {
	assert.Empty(t, Normalize(nil, false))
}
