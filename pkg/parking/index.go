package parking

import (
	"errors"
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/azybler/parkmap/pkg/geo"
)

// ErrNoStreetNearby is returned when no street lies within the search radius.
var ErrNoStreetNearby = errors.New("no street nearby")

// Index is an R-tree over street bounding boxes. Points are stored as
// [lng, lat].
type Index struct {
	tree    rtree.RTreeG[int]
	streets []Street
}

// NewIndex indexes streets. Streets without coordinates are not indexed.
func NewIndex(streets []Street) *Index {
	idx := &Index{streets: streets}
	for i, s := range streets {
		if len(s.Coordinates) == 0 {
			continue
		}
		lo, hi := envelope(s.Coordinates)
		idx.tree.Insert(lo, hi, i)
	}
	return idx
}

// Len returns the number of indexed streets.
func (idx *Index) Len() int {
	return idx.tree.Len()
}

func envelope(path []geo.LatLng) (lo, hi [2]float64) {
	lo = [2]float64{math.Inf(1), math.Inf(1)}
	hi = [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, c := range path {
		lo[0], hi[0] = math.Min(lo[0], c.Lng), math.Max(hi[0], c.Lng)
		lo[1], hi[1] = math.Min(lo[1], c.Lat), math.Max(hi[1], c.Lat)
	}
	return lo, hi
}

// candidates returns indexes of streets whose envelope overlaps the box, in
// input order.
func (idx *Index) candidates(lo, hi [2]float64) []int {
	var ids []int
	idx.tree.Search(lo, hi, func(_, _ [2]float64, i int) bool {
		ids = append(ids, i)
		return true
	})
	sort.Ints(ids)
	return ids
}

// Within returns the streets with at least one coordinate inside b, in
// input order.
func (idx *Index) Within(b geo.Bounds) []Street {
	lo := [2]float64{b.MinLng, b.MinLat}
	hi := [2]float64{b.MaxLng, b.MaxLat}

	var out []Street
	for _, i := range idx.candidates(lo, hi) {
		for _, c := range idx.streets[i].Coordinates {
			if b.Contains(c) {
				out = append(out, idx.streets[i])
				break
			}
		}
	}
	return out
}

// Nearest returns the street closest to p and its distance in meters.
func (idx *Index) Nearest(p geo.LatLng, maxMeters float64) (Street, float64, error) {
	dLat, dLng := geo.MetersToDegrees(maxMeters, p.Lat)
	lo := [2]float64{p.Lng - dLng, p.Lat - dLat}
	hi := [2]float64{p.Lng + dLng, p.Lat + dLat}

	best := -1
	bestDist := math.Inf(1)
	for _, i := range idx.candidates(lo, hi) {
		if d := distanceToPath(p, idx.streets[i].Coordinates); d < bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 || bestDist > maxMeters {
		return Street{}, 0, ErrNoStreetNearby
	}
	return idx.streets[best], bestDist, nil
}

func distanceToPath(p geo.LatLng, path []geo.LatLng) float64 {
	if len(path) == 1 {
		return geo.EquirectangularDist(p, path[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(path); i++ {
		if d, _ := geo.PointToSegmentDist(p, path[i-1], path[i]); d < best {
			best = d
		}
	}
	return best
}
