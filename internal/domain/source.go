package domain

import "context"

// NarrativeSource retrieves a region's narrative record.
type NarrativeSource interface {
	// FetchNarrative returns a *NotFoundError when the region has no
	// narrative yet.
	FetchNarrative(ctx context.Context, regionID string) (NarrativeRecord, error)
}

// WeatherSource retrieves a region's live weather. It never fails: any
// problem yields nil so the caller can continue without weather.
type WeatherSource interface {
	FetchWeather(ctx context.Context, regionID string) *WeatherReading
}

type liveWeatherKey struct{}

// WithLiveWeather marks ctx as requiring a live weather lookup, so cached
// readings must not be served.
func WithLiveWeather(ctx context.Context) context.Context {
	return context.WithValue(ctx, liveWeatherKey{}, true)
}

// WantsLiveWeather reports whether ctx was marked by WithLiveWeather.
func WantsLiveWeather(ctx context.Context) bool {
	live, _ := ctx.Value(liveWeatherKey{}).(bool)
	return live
}
