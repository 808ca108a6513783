package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/metrics"
)

// DefaultOverpassURL is the public Overpass API interpreter.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// maxOverpassBody caps the decoded response size.
const maxOverpassBody = 256 << 20

// Overpass queries the Overpass API for highway ways.
type Overpass struct {
	client
}

// NewOverpass creates an Overpass client.
func NewOverpass(opts ...Option) *Overpass {
	return &Overpass{client: newClient(DefaultOverpassURL, opts)}
}

// StreetQuery builds the Overpass QL query for every highway way in the
// bounds, followed by the nodes those ways reference.
func StreetQuery(b geo.Bounds, timeout time.Duration) string {
	bbox := strings.Join([]string{
		formatDeg(b.MinLat), formatDeg(b.MinLng),
		formatDeg(b.MaxLat), formatDeg(b.MaxLng),
	}, ",")

	return fmt.Sprintf(`[out:json][timeout:%d];
(
  way["highway"](%s);
);
out body;
>;
out skel qt;`, int(timeout.Seconds()), bbox)
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type overpassResponse struct {
	Remark   string            `json:"remark"`
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

// Ways implements Source.
func (o *Overpass) Ways(ctx context.Context, b geo.Bounds) ([]Way, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("data", StreetQuery(b, o.timeout))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "osm: build overpass request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", o.userAgent)

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "osm: overpass request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: overpass %s: %s", ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed overpassResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOverpassBody)).Decode(&parsed); err != nil {
		return nil, eris.Wrap(err, "osm: decode overpass response")
	}
	metrics.OverpassRequestDuration.Observe(time.Since(start).Seconds())

	if parsed.Remark != "" {
		zap.L().Warn("osm: overpass remark", zap.String("remark", parsed.Remark))
	}

	ways := assembleWays(parsed.Elements)
	zap.L().Debug("osm: overpass query complete",
		zap.Int("elements", len(parsed.Elements)),
		zap.Int("ways", len(ways)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ways, nil
}

// assembleWays resolves way node references against the node elements of
// the same response. References with no node element are dropped.
func assembleWays(elements []overpassElement) []Way {
	nodes := make(map[osm.NodeID]geo.LatLng)
	for _, el := range elements {
		if el.Type == "node" {
			nodes[osm.NodeID(el.ID)] = geo.LatLng{Lat: el.Lat, Lng: el.Lon}
		}
	}

	var ways []Way
	var missing int
	for _, el := range elements {
		if el.Type != "way" {
			continue
		}
		tags := tagsFromMap(el.Tags)
		if !IsStreet(tags) {
			continue
		}

		geometry := make([]geo.LatLng, 0, len(el.Nodes))
		for _, ref := range el.Nodes {
			ll, ok := nodes[osm.NodeID(ref)]
			if !ok {
				missing++
				continue
			}
			geometry = append(geometry, ll)
		}

		ways = append(ways, Way{
			ID:       osm.WayID(el.ID),
			Tags:     tags,
			Geometry: geometry,
		})
	}

	if missing > 0 {
		zap.L().Warn("osm: unresolved way node references", zap.Int("count", missing))
	}
	return ways
}
