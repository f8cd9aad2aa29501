package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/gaia-pulse-service/internal/config"
	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
	"github.com/couchcryptid/gaia-pulse-service/internal/pipeline"
	"github.com/couchcryptid/gaia-pulse-service/internal/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newShowCmd() *cobra.Command {
	var (
		hideEmpty bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "show <region>",
		Short: "Fetch a region once and print its merged view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regionID := args[0]
			if _, ok := domain.LookupRegion(regionID); !ok {
				return fmt.Errorf("%w: %q (see `pulse regions`)", pipeline.ErrUnknownRegion, regionID)
			}
			if err := checkFormat(format); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := observability.NewLoggerTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			metrics := observability.NewMetrics()
			narratives, weather := buildSources(cfg, metrics, logger)
			orch := pipeline.New(narratives, weather, logger, metrics)

			record, err := orch.Fetch(cmd.Context(), regionID)
			if err != nil {
				return errors.New(domain.UserMessage(err))
			}
			return writeView(cmd.OutOrStdout(), format, record, domain.BuildView(record, regionID, hideEmpty))
		},
	}
	cmd.Flags().BoolVar(&hideEmpty, "hide-empty", false, "omit metrics without a reading")
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text, json or yaml", format)
	}
}

// writeView prints the view. JSON output also carries the merged record with
// its upstream fields; YAML and text show the view only.
func writeView(w io.Writer, format string, record domain.NarrativeRecord, view domain.View) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Record domain.NarrativeRecord `json:"record"`
			View   domain.View            `json:"view"`
		}{record, view})
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, render.View(view, ""))
		return err
	}
}
