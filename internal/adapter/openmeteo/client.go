package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
	"golang.org/x/time/rate"
)

// RequestTimeout bounds each weather lookup, including time spent waiting
// on the rate limiter.
const RequestTimeout = 5 * time.Second

const currentFields = "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m"

var errMissingCurrent = errors.New("response has no complete current block")

// Client implements domain.WeatherSource using the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client allowing ratePerSecond requests per
// second with an equal burst. A non-positive rate disables throttling.
func NewClient(baseURL string, ratePerSecond float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSecond > 0 {
		burst := int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		limiter:    limiter,
		timeout:    RequestTimeout,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchWeather returns current conditions at the region's coordinates, or nil
// on any failure. Failures are logged, never returned.
func (c *Client) FetchWeather(ctx context.Context, regionID string) *domain.WeatherReading {
	region, ok := domain.LookupRegion(regionID)
	if !ok {
		c.metrics.WeatherRequests.WithLabelValues("unknown_region").Inc()
		c.logger.Warn("no coordinates for region", "region_id", regionID)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.WeatherRequests.WithLabelValues("throttled").Inc()
		c.logger.Warn("weather fetch throttled", "region_id", regionID, "error", err)
		return nil
	}

	start := time.Now()
	reading, err := c.fetch(ctx, region.Coordinates)
	c.metrics.WeatherDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		c.logger.Warn("weather fetch failed", "region_id", regionID, "error", err)
		return nil
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return reading
}

func (c *Client) fetch(ctx context.Context, coords domain.Coordinates) (*domain.WeatherReading, error) {
	params := url.Values{
		"latitude":           {strconv.FormatFloat(coords.Lat, 'f', -1, 64)},
		"longitude":          {strconv.FormatFloat(coords.Lon, 'f', -1, 64)},
		"current":            {currentFields},
		"temperature_unit":   {"celsius"},
		"wind_speed_unit":    {"kmh"},
		"precipitation_unit": {"mm"},
	}
	u := c.baseURL + "/v1/forecast?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var forecast response
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	cur := forecast.Current
	if cur == nil || cur.Temperature == nil || cur.Humidity == nil || cur.Precipitation == nil || cur.WindSpeed == nil {
		return nil, errMissingCurrent
	}
	reading := domain.NewWeatherReading(*cur.Temperature, *cur.Precipitation, *cur.Humidity, *cur.WindSpeed)
	return &reading, nil
}

// Open-Meteo API response types.

type response struct {
	Current *current `json:"current"`
}

type current struct {
	Temperature   *float64 `json:"temperature_2m"`
	Humidity      *float64 `json:"relative_humidity_2m"`
	Precipitation *float64 `json:"precipitation"`
	WindSpeed     *float64 `json:"wind_speed_10m"`
}
