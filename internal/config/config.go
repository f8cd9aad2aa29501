package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	NarrativeAPIBase string
	NarrativeTimeout time.Duration

	WeatherAPIBase   string
	WeatherCacheTTL  time.Duration
	WeatherRateLimit float64

	DefaultRegion      string
	HTTPAddr           string
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration

	// Snapshot publishing is enabled when at least one broker is configured.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
	SnapshotsEnabled   bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	narrativeTimeout, err := parseMillisOrDuration("NARRATIVE_API_TIMEOUT", "10000")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("WEATHER_CACHE_TTL", "30s"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid WEATHER_CACHE_TTL")
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("WEATHER_RATE_LIMIT", "5"), 64)
	if err != nil || rateLimit < 0 {
		return nil, errors.New("invalid WEATHER_RATE_LIMIT")
	}

	var brokers []string
	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		NarrativeAPIBase:   sharedcfg.EnvOrDefault("NARRATIVE_API_BASE", "https://yy7g8joeug.execute-api.us-east-1.amazonaws.com"),
		NarrativeTimeout:   narrativeTimeout,
		WeatherAPIBase:     sharedcfg.EnvOrDefault("WEATHER_API_BASE", "https://api.open-meteo.com"),
		WeatherCacheTTL:    cacheTTL,
		WeatherRateLimit:   rateLimit,
		DefaultRegion:      sharedcfg.EnvOrDefault("DEFAULT_REGION", domain.DefaultRegionID),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "region-snapshots"),
		SnapshotsEnabled:   len(brokers) > 0,
	}

	if cfg.NarrativeAPIBase == "" {
		return nil, errors.New("NARRATIVE_API_BASE is required")
	}
	if cfg.WeatherAPIBase == "" {
		return nil, errors.New("WEATHER_API_BASE is required")
	}
	if _, ok := domain.LookupRegion(cfg.DefaultRegion); !ok {
		return nil, fmt.Errorf("DEFAULT_REGION %q is not a known region", cfg.DefaultRegion)
	}
	if cfg.SnapshotsEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// parseMillisOrDuration accepts a bare integer (milliseconds) or a Go duration string.
func parseMillisOrDuration(key, def string) (time.Duration, error) {
	raw := strings.TrimSpace(sharedcfg.EnvOrDefault(key, def))
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("invalid %s: must be positive", key)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
