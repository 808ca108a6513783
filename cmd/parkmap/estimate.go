package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/azybler/parkmap/pkg/capacity"
	"github.com/azybler/parkmap/pkg/geo"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate parking capacity for one polyline",
	Long: `Print the estimated number of parking spaces along a polyline.

Example:
  estimate --coords "41.0,28.85;41.00541,28.85" --side both`,
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.String("coords", "", "semicolon-separated lat,lng points")
	f.String("side", capacity.BothSides, "parking side; only \"both\" doubles the estimate")
	f.Float64("spacing", 0, "meters of curb per car (0 = config value)")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("coords")
	side, _ := cmd.Flags().GetString("side")
	spacing, _ := cmd.Flags().GetFloat64("spacing")

	coords, err := parseCoords(raw)
	if err != nil {
		return err
	}
	if spacing == 0 {
		spacing = cfg.Estimate.SpacingMeters
	}
	if spacing < 0 {
		return eris.Errorf("estimate: --spacing must be positive (got %v)", spacing)
	}

	n, err := capacity.New(spacing).Estimate(coords, side)
	if err != nil {
		return eris.Wrap(err, "estimate")
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

func parseCoords(s string) ([]geo.LatLng, error) {
	var coords []geo.LatLng
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ll, err := geo.ParseLatLng(part)
		if err != nil {
			return nil, eris.Wrapf(err, "parse point %q", part)
		}
		coords = append(coords, ll)
	}
	return coords, nil
}
