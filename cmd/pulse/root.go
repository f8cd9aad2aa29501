package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/couchcryptid/gaia-pulse-service/internal/adapter/narrative"
	"github.com/couchcryptid/gaia-pulse-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/gaia-pulse-service/internal/config"
	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "pulse",
		Short: "Gaia Pulse - live environmental narratives per region",
		Long: `Pulse fetches the latest environmental narrative for a region, overlays
live weather from Open-Meteo, and serves the merged view to the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")

	root.AddCommand(newServeCmd(), newShowCmd(), newRegionsCmd())
	return root
}

// buildSources wires the narrative client and the cached, rate-limited
// weather client from configuration.
func buildSources(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.NarrativeSource, domain.WeatherSource) {
	narratives := narrative.NewClient(cfg.NarrativeAPIBase, cfg.NarrativeTimeout, metrics, logger)

	var weather domain.WeatherSource = openmeteo.NewClient(cfg.WeatherAPIBase, cfg.WeatherRateLimit, metrics, logger)
	if cfg.WeatherCacheTTL > 0 {
		weather = openmeteo.NewCachedWeather(weather, cfg.WeatherCacheTTL, metrics)
		logger.Debug("weather cache enabled", "ttl", cfg.WeatherCacheTTL)
	}
	return narratives, weather
}

