package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/parking"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw a saved dataset as an HTML map",
	Long: `Draw a dataset written by collect as an interactive map. With --near, only the
street closest to the point is drawn.

Examples:
  render --in parking_data.json --out parking_map.html
  render --in parking_data.json --out street.html --near 41.0,28.85 --radius 100`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.String("in", "parking_data.json", "dataset to read")
	f.String("out", "parking_map.html", "map output path")
	f.String("near", "", "only draw the street nearest to lat,lng")
	f.Float64("radius", 200, "search radius in meters for --near")
	f.Bool("no-satellite", false, "use OpenStreetMap as the default base layer")
	f.Bool("no-color", false, "draw every street in one colour")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	near, _ := cmd.Flags().GetString("near")
	radius, _ := cmd.Flags().GetFloat64("radius")
	noSatellite, _ := cmd.Flags().GetBool("no-satellite")
	noColor, _ := cmd.Flags().GetBool("no-color")

	ds, err := parking.LoadFile(in)
	if err != nil {
		return err
	}

	streets := ds.Streets
	if near != "" {
		p, err := geo.ParseLatLng(near)
		if err != nil {
			return eris.Wrap(err, "render: --near")
		}
		s, dist, err := parking.NewIndex(ds.Streets).Nearest(p, radius)
		if err != nil {
			return eris.Wrapf(err, "render: within %.0f m of %s", radius, near)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d spaces (%.0f m away)\n", s.DisplayName(), s.EstimatedCapacity, dist)
		streets = []parking.Street{s}
	}

	opts := renderOptions(cfg)
	if noSatellite {
		opts.Satellite = false
	}
	if noColor {
		opts.ColorByCapacity = false
	}

	b := ds.Metadata.AreaBounds
	if near != "" {
		b = geo.Bounds{}
	}
	if err := writeMap(out, streets, b, opts); err != nil {
		return err
	}
	zap.L().Info("map written", zap.String("path", out), zap.Int("streets", len(streets)))
	return nil
}
