package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/api"
	"github.com/azybler/parkmap/pkg/capacity"
	"github.com/azybler/parkmap/pkg/parking"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the map generation web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		port = p
	}

	sink, mapsDir, err := newSink(ctx, cfg)
	if err != nil {
		return err
	}

	collector := parking.NewCollector(newOverpass(cfg), capacity.New(cfg.Estimate.SpacingMeters))
	handlers := api.NewHandlers(collector, sink, renderOptions(cfg), cfg.Server.MaxDelta)

	sc := api.DefaultConfig(fmt.Sprintf(":%d", port))
	sc.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second
	sc.WriteTimeout = time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second
	sc.RequestTimeout = time.Duration(cfg.Server.RequestTimeoutSecs) * time.Second
	sc.MaxConcurrent = cfg.Server.MaxConcurrent
	sc.CORSOrigin = cfg.Server.CORSOrigin
	sc.MapsDir = mapsDir

	zap.L().Info("starting server",
		zap.Int("port", port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("overpass", cfg.Overpass.URL),
	)
	return api.ListenAndServe(ctx, api.NewServer(sc, handlers))
}
