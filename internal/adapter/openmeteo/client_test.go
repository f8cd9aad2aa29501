package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 0, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_FetchWeather_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "-18.28", q.Get("latitude"))
		assert.Equal(t, "147.69", q.Get("longitude"))
		assert.Equal(t, currentFields, q.Get("current"))
		assert.Equal(t, "celsius", q.Get("temperature_unit"))
		assert.Equal(t, "kmh", q.Get("wind_speed_unit"))
		assert.Equal(t, "mm", q.Get("precipitation_unit"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"latitude":-18.25,"current":{"time":"2025-10-05T12:00","temperature_2m":-3.45,"relative_humidity_2m":71,"precipitation":0.4,"wind_speed_10m":18.2}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reading := c.FetchWeather(context.Background(), "great_barrier_reef")
	require.NotNil(t, reading)

	assert.InDelta(t, -3.5, reading.AirTempCelsius, 1e-9)
	assert.InDelta(t, 25.7, reading.AirTempFahrenheit, 1e-9)
	assert.Equal(t, 0.4, reading.PrecipitationMmPerHour)
	assert.Equal(t, 71.0, reading.HumidityPercent)
	assert.Equal(t, 18.2, reading.WindSpeedKmh)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("success")), 0)
}

func TestClient_FetchWeather_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"invalid json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{"missing current", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"latitude":1}`))
		}},
		{"partial current", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"current":{"temperature_2m":20,"relative_humidity_2m":50,"precipitation":0}}`))
		}},
		{"null field", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"current":{"temperature_2m":null,"relative_humidity_2m":50,"precipitation":0,"wind_speed_10m":3}}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := testClient(srv.URL)
			assert.Nil(t, c.FetchWeather(context.Background(), "beijing"))
			assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("error")), 0)
		})
	}
}

func TestClient_FetchWeather_UnknownRegionMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	assert.Nil(t, c.FetchWeather(context.Background(), "atlantis"))
	assert.Equal(t, int32(0), calls.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("unknown_region")), 0)
}

func TestClient_FetchWeather_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, testClient(srv.URL).FetchWeather(ctx, "beijing"))
}

func TestClient_FetchWeather_DeadlineExceeded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := testClient(srv.URL)
	assert.Equal(t, RequestTimeout, c.timeout)
	c.timeout = 50 * time.Millisecond

	start := time.Now()
	reading := c.FetchWeather(context.Background(), "sahara_desert")

	assert.Nil(t, reading)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("error")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("success")), 0)
}

func TestClient_FetchWeather_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":20,"relative_humidity_2m":50,"precipitation":0,"wind_speed_10m":3}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NotNil(t, c.FetchWeather(context.Background(), "beijing"))

	// The bucket is empty; a deadline shorter than the refill fails fast.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Nil(t, c.FetchWeather(ctx, "beijing"))
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.WeatherRequests.WithLabelValues("throttled")), 0)
}

// --- mock for cache tests ---

type countingWeather struct {
	calls   int
	reading *domain.WeatherReading
}

func (m *countingWeather) FetchWeather(_ context.Context, _ string) *domain.WeatherReading {
	m.calls++
	return m.reading
}

// --- CachedWeather tests ---

func TestCachedWeather_CacheHit(t *testing.T) {
	w := domain.NewWeatherReading(20, 0, 50, 3)
	inner := &countingWeather{reading: &w}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedWeather(inner, time.Minute, metrics)

	r1 := cached.FetchWeather(context.Background(), "beijing")
	r2 := cached.FetchWeather(context.Background(), "beijing")

	require.NotNil(t, r1)
	require.NotNil(t, r2)
	assert.Equal(t, *r1, *r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.WeatherCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.WeatherCache.WithLabelValues("miss")), 0)
}

func TestCachedWeather_LiveRequestBypassesCache(t *testing.T) {
	first := domain.NewWeatherReading(20, 0, 50, 3)
	inner := &countingWeather{reading: &first}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedWeather(inner, time.Minute, metrics)

	require.NotNil(t, cached.FetchWeather(context.Background(), "beijing"))

	second := domain.NewWeatherReading(25, 1, 40, 8)
	inner.reading = &second
	got := cached.FetchWeather(domain.WithLiveWeather(context.Background()), "beijing")
	require.NotNil(t, got)
	assert.Equal(t, 25.0, got.AirTempCelsius)
	assert.Equal(t, 2, inner.calls)

	got = cached.FetchWeather(context.Background(), "beijing")
	require.NotNil(t, got)
	assert.Equal(t, 25.0, got.AirTempCelsius, "live reading replaces the cached one")
	assert.Equal(t, 2, inner.calls)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.WeatherCache.WithLabelValues("bypass")), 0)

	inner.reading = nil
	assert.Nil(t, cached.FetchWeather(domain.WithLiveWeather(context.Background()), "beijing"))
	got = cached.FetchWeather(context.Background(), "beijing")
	require.NotNil(t, got, "a failed live lookup keeps the previous entry")
	assert.Equal(t, 25.0, got.AirTempCelsius)
}

func TestCachedWeather_KeyedByRegion(t *testing.T) {
	w := domain.NewWeatherReading(20, 0, 50, 3)
	inner := &countingWeather{reading: &w}
	cached := NewCachedWeather(inner, time.Minute, observability.NewMetricsForTesting())

	cached.FetchWeather(context.Background(), "beijing")
	cached.FetchWeather(context.Background(), "himalayas")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedWeather_FailuresNotCached(t *testing.T) {
	inner := &countingWeather{}
	cached := NewCachedWeather(inner, time.Minute, observability.NewMetricsForTesting())

	assert.Nil(t, cached.FetchWeather(context.Background(), "beijing"))
	assert.Nil(t, cached.FetchWeather(context.Background(), "beijing"))
	assert.Equal(t, 2, inner.calls)
}

func TestCachedWeather_CallersCannotMutateCache(t *testing.T) {
	w := domain.NewWeatherReading(20, 0, 50, 3)
	inner := &countingWeather{reading: &w}
	cached := NewCachedWeather(inner, time.Minute, observability.NewMetricsForTesting())

	first := cached.FetchWeather(context.Background(), "beijing")
	first.HumidityPercent = 0

	second := cached.FetchWeather(context.Background(), "beijing")
	assert.Equal(t, 50.0, second.HumidityPercent)
}
