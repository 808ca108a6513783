// Package osm fetches street geometry from OpenStreetMap: the Overpass API,
// local .osm.pbf extracts, and Nominatim for place-name lookups.
package osm

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/paulmach/osm"

	"github.com/azybler/parkmap/pkg/geo"
)

var (
	// ErrUnexpectedStatus is returned when an upstream API answers with a
	// non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected upstream status")

	// ErrRegionNotFound is returned when a place name has no match.
	ErrRegionNotFound = errors.New("region not found")
)

// Way is a street centerline with its tags.
type Way struct {
	ID       osm.WayID
	Tags     osm.Tags
	Geometry []geo.LatLng
}

// Source yields the street ways intersecting a bounding box.
type Source interface {
	Ways(ctx context.Context, b geo.Bounds) ([]Way, error)
}

// IsStreet returns true for ways carrying a highway tag.
func IsStreet(tags osm.Tags) bool {
	return tags.Find("highway") != ""
}

// tagsFromMap converts a JSON tag object into osm.Tags sorted by key.
func tagsFromMap(m map[string]string) osm.Tags {
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key })
	return tags
}

// client holds the HTTP settings shared by the Overpass and Nominatim
// clients.
type client struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// Option configures an API client.
type Option func(*client)

// WithEndpoint overrides the API base URL.
func WithEndpoint(url string) Option {
	return func(c *client) {
		c.endpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header; both OSM services require one.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the server-side query timeout (Overpass) and the HTTP
// client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

func newClient(endpoint string, opts []Option) client {
	c := client{
		endpoint:  endpoint,
		userAgent: "parkmap/1.0",
		timeout:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.httpClient == nil {
		// Query timeout plus transfer time.
		c.httpClient = &http.Client{Timeout: c.timeout + 15*time.Second}
	}
	return c
}
