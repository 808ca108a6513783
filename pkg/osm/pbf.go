package osm

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/geo"
)

// PBF reads street ways from a local .osm.pbf extract.
type PBF struct {
	Path string
}

// Ways implements Source. Zero bounds keep every street in the file.
func (p PBF) Ways(ctx context.Context, b geo.Bounds) ([]Way, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "osm: open %s", p.Path)
	}
	defer f.Close()

	return ReadPBF(ctx, f, b)
}

// pbfWay holds way data collected during pass 1.
type pbfWay struct {
	ID      osm.WayID
	Tags    osm.Tags
	NodeIDs []osm.NodeID
}

// ReadPBF scans a PBF stream twice: ways first, then the coordinates of the
// nodes they reference. The reader must be seekable to rewind for pass 2.
func ReadPBF(ctx context.Context, rs io.ReadSeeker, b geo.Bounds) ([]Way, error) {
	// Pass 1: street ways and the node IDs they reference.
	referenced := make(map[osm.NodeID]struct{})
	var raw []pbfWay

	scanner := osmpbf.New(ctx, rs, runtime.GOMAXPROCS(0))
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || !IsStreet(w.Tags) {
			continue
		}

		ids := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			ids[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		raw = append(raw, pbfWay{ID: w.ID, Tags: w.Tags, NodeIDs: ids})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, eris.Wrap(err, "osm: pbf pass 1 (ways)")
	}
	scanner.Close()

	zap.L().Info("osm: pbf pass 1 complete",
		zap.Int("ways", len(raw)),
		zap.Int("referenced_nodes", len(referenced)),
	)

	// Pass 2: coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, eris.Wrap(err, "osm: seek for pbf pass 2")
	}

	coords := make(map[osm.NodeID]geo.LatLng, len(referenced))

	scanner = osmpbf.New(ctx, rs, runtime.GOMAXPROCS(0))
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; needed {
			coords[n.ID] = geo.LatLng{Lat: n.Lat, Lng: n.Lon}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, eris.Wrap(err, "osm: pbf pass 2 (nodes)")
	}
	scanner.Close()

	ways := resolvePBFWays(raw, coords, b)
	zap.L().Info("osm: pbf pass 2 complete",
		zap.Int("nodes", len(coords)),
		zap.Int("ways_in_bounds", len(ways)),
	)
	return ways, nil
}

// resolvePBFWays attaches coordinates to ways and keeps those with at least
// one node inside b, matching Overpass bbox semantics. Zero bounds keep all.
func resolvePBFWays(raw []pbfWay, coords map[osm.NodeID]geo.LatLng, b geo.Bounds) []Way {
	useBounds := !b.IsZero()

	var ways []Way
	for _, rw := range raw {
		geometry := make([]geo.LatLng, 0, len(rw.NodeIDs))
		inside := !useBounds
		for _, id := range rw.NodeIDs {
			ll, ok := coords[id]
			if !ok {
				continue
			}
			if !inside && b.Contains(ll) {
				inside = true
			}
			geometry = append(geometry, ll)
		}
		if !inside {
			continue
		}
		ways = append(ways, Way{ID: rw.ID, Tags: rw.Tags, Geometry: geometry})
	}
	return ways
}
