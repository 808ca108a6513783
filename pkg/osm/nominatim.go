package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/azybler/parkmap/pkg/geo"
)

// DefaultNominatimURL is the public Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim resolves place names to bounding boxes.
type Nominatim struct {
	client
}

// NewNominatim creates a Nominatim client.
func NewNominatim(opts ...Option) *Nominatim {
	return &Nominatim{client: newClient(DefaultNominatimURL, opts)}
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	// south, north, west, east as decimal strings
	BoundingBox []string `json:"boundingbox"`
}

// Bounds returns the bounding box of the best match for region, e.g.
// "Bahçelievler, Istanbul, Turkey".
func (n *Nominatim) Bounds(ctx context.Context, region string) (geo.Bounds, error) {
	params := url.Values{}
	params.Set("q", region)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", strings.TrimRight(n.endpoint, "/"), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return geo.Bounds{}, eris.Wrap(err, "osm: build nominatim request")
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return geo.Bounds{}, eris.Wrap(err, "osm: nominatim request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Bounds{}, fmt.Errorf("%w: nominatim %s", ErrUnexpectedStatus, resp.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return geo.Bounds{}, eris.Wrap(err, "osm: decode nominatim response")
	}
	if len(places) == 0 {
		return geo.Bounds{}, fmt.Errorf("%w: %q", ErrRegionNotFound, region)
	}

	return parseBoundingBox(places[0].BoundingBox)
}

func parseBoundingBox(bb []string) (geo.Bounds, error) {
	if len(bb) != 4 {
		return geo.Bounds{}, fmt.Errorf("%w: boundingbox has %d values", geo.ErrInvalidCoordinate, len(bb))
	}
	var v [4]float64
	for i, s := range bb {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return geo.Bounds{}, fmt.Errorf("%w: boundingbox[%d]: %v", geo.ErrInvalidCoordinate, i, err)
		}
		v[i] = f
	}
	b := geo.Bounds{MinLat: v[0], MaxLat: v[1], MinLng: v[2], MaxLng: v[3]}
	if err := b.Validate(); err != nil {
		return geo.Bounds{}, err
	}
	return b, nil
}
