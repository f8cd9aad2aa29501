package main

import (
	"encoding/json"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRegionsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the known regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			regions := domain.Regions()
			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(regions)
			case formatYAML:
				return yaml.NewEncoder(out).Encode(regions)
			default:
				_, err := out.Write([]byte(render.Regions(regions)))
				return err
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text, json or yaml")
	return cmd
}
