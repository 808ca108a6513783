package main

import (
	"context"
	"time"

	"github.com/azybler/parkmap/internal/config"
	"github.com/azybler/parkmap/pkg/osm"
	"github.com/azybler/parkmap/pkg/render"
	"github.com/azybler/parkmap/pkg/storage"
)

func newOverpass(c *config.Config) *osm.Overpass {
	return osm.NewOverpass(
		osm.WithEndpoint(c.Overpass.URL),
		osm.WithTimeout(c.Overpass.Timeout()),
		osm.WithUserAgent(c.Overpass.UserAgent),
	)
}

func newNominatim(c *config.Config) *osm.Nominatim {
	return osm.NewNominatim(
		osm.WithEndpoint(c.Nominatim.URL),
		osm.WithUserAgent(c.Overpass.UserAgent),
	)
}

func renderOptions(c *config.Config) render.Options {
	opts := render.DefaultOptions()
	opts.Zoom = c.Render.Zoom
	opts.Satellite = c.Render.Satellite
	opts.ColorByCapacity = c.Render.ColorByCapacity
	return opts
}

// newSink builds the configured artifact sink. mapsDir is non-empty when
// the server should serve the artifacts itself.
func newSink(ctx context.Context, c *config.Config) (storage.Sink, string, error) {
	switch c.Storage.Driver {
	case config.DriverMinio:
		m := c.Storage.Minio
		s, err := storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
			URLExpiry: time.Duration(m.URLExpiryHours) * time.Hour,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		return storage.NewDir(c.Storage.Dir, c.Storage.URLPrefix), c.Storage.Dir, nil
	}
}
