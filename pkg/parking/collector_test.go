package parking

import (
	"context"
	"errors"
	"testing"

	paulosm "github.com/paulmach/osm"

	"github.com/azybler/parkmap/pkg/capacity"
	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/osm"
)

// mockSource implements osm.Source for testing.
type mockSource struct {
	ways   []osm.Way
	err    error
	bounds geo.Bounds
}

func (m *mockSource) Ways(ctx context.Context, b geo.Bounds) ([]osm.Way, error) {
	m.bounds = b
	return m.ways, m.err
}

func TestCollect(t *testing.T) {
	src := &mockSource{
		ways: []osm.Way{
			{ID: 1, Tags: paulosm.Tags{{Key: "highway", Value: "residential"}}, Geometry: line600m},
			{ID: 2, Tags: paulosm.Tags{{Key: "highway", Value: "service"}}, Geometry: line600m[:1]},
			{ID: 3, Tags: paulosm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "parking:side", Value: "single"},
			}, Geometry: line600m},
		},
	}
	b := geo.Around(41.0, 28.85, 0.01)

	streets, err := NewCollector(src, capacity.Estimator{}).Collect(context.Background(), b)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if src.bounds != b {
		t.Errorf("source queried with %+v, want %+v", src.bounds, b)
	}

	// Way 2 has a single point and is skipped.
	if len(streets) != 2 {
		t.Fatalf("len(streets) = %d, want 2", len(streets))
	}
	if streets[0].EstimatedCapacity != 200 || streets[1].EstimatedCapacity != 100 {
		t.Errorf("capacities = %d, %d, want 200, 100", streets[0].EstimatedCapacity, streets[1].EstimatedCapacity)
	}
}

func TestCollect_SourceError(t *testing.T) {
	upstream := errors.New("boom")
	src := &mockSource{err: upstream}

	_, err := NewCollector(src, capacity.Estimator{}).Collect(context.Background(), geo.Around(41.0, 28.85, 0.01))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		src  osm.Source
		want string
	}{
		{osm.NewOverpass(), "overpass"},
		{osm.PBF{Path: "x.osm.pbf"}, "pbf"},
		{&osm.PBF{Path: "x.osm.pbf"}, "pbf"},
		{&mockSource{}, "other"},
	}
	for _, tt := range tests {
		if got := sourceLabel(tt.src); got != tt.want {
			t.Errorf("sourceLabel(%T) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
