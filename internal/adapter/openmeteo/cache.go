package openmeteo

import (
	"context"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

// CachedWeather wraps a WeatherSource with a per-region TTL cache.
type CachedWeather struct {
	inner   domain.WeatherSource
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedWeather creates a cache decorator around a weather source.
func NewCachedWeather(inner domain.WeatherSource, ttl time.Duration, metrics *observability.Metrics) *CachedWeather {
	return &CachedWeather{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

// FetchWeather serves a cached reading when one is fresh. A context marked
// with domain.WithLiveWeather always reaches the inner source and refreshes
// the cache entry.
func (c *CachedWeather) FetchWeather(ctx context.Context, regionID string) *domain.WeatherReading {
	key := "wx:" + regionID
	if domain.WantsLiveWeather(ctx) {
		c.metrics.WeatherCache.WithLabelValues("bypass").Inc()
		return c.store(key, c.inner.FetchWeather(ctx, regionID))
	}
	if v, ok := c.cache.Get(key); ok {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		reading := v.(domain.WeatherReading)
		return &reading
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	return c.store(key, c.inner.FetchWeather(ctx, regionID))
}

// store caches successes only so a failed lookup is retried next cycle. A
// failed live lookup leaves the previous entry in place.
func (c *CachedWeather) store(key string, reading *domain.WeatherReading) *domain.WeatherReading {
	if reading != nil {
		c.cache.SetDefault(key, *reading)
	}
	return reading
}
