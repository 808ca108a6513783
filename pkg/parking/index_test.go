package parking

import (
	"errors"
	"testing"

	"github.com/azybler/parkmap/pkg/geo"
)

func indexFixture() []Street {
	return []Street{
		{Name: "north-south", Coordinates: []geo.LatLng{{Lat: 41.000, Lng: 28.850}, {Lat: 41.010, Lng: 28.850}}},
		{Name: "east-west", Coordinates: []geo.LatLng{{Lat: 41.020, Lng: 28.840}, {Lat: 41.020, Lng: 28.860}}},
		{Name: "far away", Coordinates: []geo.LatLng{{Lat: 42.000, Lng: 29.000}, {Lat: 42.001, Lng: 29.000}}},
		{Name: "no geometry"},
	}
}

func TestIndexLen(t *testing.T) {
	if got := NewIndex(indexFixture()).Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestIndexWithin(t *testing.T) {
	idx := NewIndex(indexFixture())

	got := idx.Within(geo.Around(41.005, 28.85, 0.01))
	if len(got) != 1 || got[0].Name != "north-south" {
		t.Errorf("Within(small box) = %v, want [north-south]", names(got))
	}

	got = idx.Within(geo.Bounds{MinLat: 40.99, MaxLat: 41.03, MinLng: 28.83, MaxLng: 28.87})
	if len(got) != 2 || got[0].Name != "north-south" || got[1].Name != "east-west" {
		t.Errorf("Within(wide box) = %v, want [north-south east-west]", names(got))
	}

	// Envelope overlaps but no vertex is inside.
	got = idx.Within(geo.Bounds{MinLat: 41.019, MaxLat: 41.021, MinLng: 28.849, MaxLng: 28.851})
	if len(got) != 0 {
		t.Errorf("Within(mid-segment box) = %v, want none", names(got))
	}
}

func TestIndexNearest(t *testing.T) {
	idx := NewIndex(indexFixture())

	s, dist, err := idx.Nearest(geo.LatLng{Lat: 41.005, Lng: 28.8505}, 200)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if s.Name != "north-south" {
		t.Errorf("Nearest = %q, want north-south", s.Name)
	}
	if dist > 50 {
		t.Errorf("dist = %f m, want < 50", dist)
	}

	_, _, err = idx.Nearest(geo.LatLng{Lat: 41.5, Lng: 28.5}, 200)
	if !errors.Is(err, ErrNoStreetNearby) {
		t.Errorf("error = %v, want ErrNoStreetNearby", err)
	}
}

func names(streets []Street) []string {
	out := make([]string, len(streets))
	for i, s := range streets {
		out[i] = s.Name
	}
	return out
}

func TestIndexNearest_SinglePoint(t *testing.T) {
	idx := NewIndex([]Street{{Name: "dot", Coordinates: []geo.LatLng{{Lat: 10, Lng: 20}}}})

	s, dist, err := idx.Nearest(geo.LatLng{Lat: 10.0001, Lng: 20}, 50)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if s.Name != "dot" {
		t.Errorf("Nearest = %q, want dot", s.Name)
	}
	if dist < 10 || dist > 12 {
		t.Errorf("dist = %f m, want ~11", dist)
	}
}
