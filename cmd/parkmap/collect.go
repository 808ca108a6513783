package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/capacity"
	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/osm"
	"github.com/azybler/parkmap/pkg/parking"
	"github.com/azybler/parkmap/pkg/render"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch streets for an area and estimate their parking capacity",
	Long: `Fetch street ways for an area from Overpass (or a local .osm.pbf extract),
estimate parking capacity per street and write the dataset and map.

Examples:
  # Area by bounding box
  collect --bbox 40.99,28.84,41.01,28.86

  # Area by name, resolved through Nominatim
  collect --region "Bahçelievler, Istanbul, Turkey"

  # Offline, from an extract
  collect --pbf istanbul.osm.pbf --bbox 40.99,28.84,41.01,28.86`,
	RunE: runCollect,
}

func init() {
	f := collectCmd.Flags()
	f.String("bbox", "", "bounding box: minLat,minLng,maxLat,maxLng")
	f.String("region", "", "place name to resolve through Nominatim")
	f.String("pbf", "", "read ways from this .osm.pbf file instead of Overpass")
	f.String("out-json", "parking_data.json", "dataset output path")
	f.String("out-html", "parking_map.html", "map output path (empty to skip)")
	f.Float64("spacing", 0, "meters of curb per car (0 = config value)")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "collect"))

	bbox, _ := cmd.Flags().GetString("bbox")
	region, _ := cmd.Flags().GetString("region")
	pbfPath, _ := cmd.Flags().GetString("pbf")
	outJSON, _ := cmd.Flags().GetString("out-json")
	outHTML, _ := cmd.Flags().GetString("out-html")
	spacing, _ := cmd.Flags().GetFloat64("spacing")

	var b geo.Bounds
	switch {
	case bbox != "":
		parsed, err := geo.ParseBounds(bbox)
		if err != nil {
			return eris.Wrap(err, "collect: --bbox")
		}
		b = parsed
	case region != "":
		resolved, err := newNominatim(cfg).Bounds(ctx, region)
		if err != nil {
			return eris.Wrapf(err, "collect: resolve %q", region)
		}
		log.Info("resolved region", zap.String("region", region), zap.Any("bounds", resolved))
		b = resolved
	case pbfPath == "":
		return eris.New("collect: one of --bbox or --region is required")
	}

	var src osm.Source = newOverpass(cfg)
	if pbfPath != "" {
		src = osm.PBF{Path: pbfPath}
	}

	if spacing == 0 {
		spacing = cfg.Estimate.SpacingMeters
	}
	if spacing < 0 {
		return eris.Errorf("collect: --spacing must be positive (got %v)", spacing)
	}

	start := time.Now()
	streets, err := parking.NewCollector(src, capacity.New(spacing)).Collect(ctx, b)
	if err != nil {
		return err
	}

	ds := parking.NewDataset(streets, b, time.Now().UTC())
	if err := ds.SaveFile(outJSON); err != nil {
		return err
	}
	log.Info("dataset written", zap.String("path", outJSON), zap.Duration("elapsed", time.Since(start)))

	if outHTML != "" {
		if err := writeMap(outHTML, streets, b, renderOptions(cfg)); err != nil {
			return err
		}
		log.Info("map written", zap.String("path", outHTML))
	}

	printSummary(cmd, parking.Summarize(streets))
	return nil
}

func writeMap(path string, streets []parking.Street, b geo.Bounds, opts render.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := render.Map(f, streets, b, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close %s", path)
	}
	return nil
}

func printSummary(cmd *cobra.Command, s parking.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Streets:          %d\n", s.TotalStreets)
	fmt.Fprintf(out, "Parking spaces:   %d\n", s.TotalCapacity)
	fmt.Fprintf(out, "Paid / free:      %d / %d\n", s.PaidStreets, s.FreeStreets)
	for _, t := range sortedKeys(s.CapacityByType) {
		fmt.Fprintf(out, "  %-16s %d\n", t, s.CapacityByType[t])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
