package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/gaia-pulse-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/gaia-pulse-service/internal/adapter/kafka"
	"github.com/couchcryptid/gaia-pulse-service/internal/config"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
	"github.com/couchcryptid/gaia-pulse-service/internal/pipeline"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr   string
		region string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the refresh loop and the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if region != "" {
				cfg.DefaultRegion = region
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().StringVar(&region, "region", "", "initially selected region (overrides DEFAULT_REGION)")
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	narratives, weather := buildSources(cfg, metrics, logger)

	var opts []pipeline.Option
	var publisher *kafkaadapter.Publisher
	if cfg.SnapshotsEnabled {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSnapshotTopic, logger)
		opts = append(opts, pipeline.WithPublisher(publisher))
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	orch := pipeline.New(narratives, weather, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, orch, cfg.CORSAllowedOrigins, logger)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := orch.Select(cfg.DefaultRegion); err != nil {
		return err
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	orch.Stop()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
