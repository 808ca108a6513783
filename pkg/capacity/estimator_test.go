package capacity

import (
	"errors"
	"math"
	"testing"

	"github.com/azybler/parkmap/pkg/geo"
)

// northSouth returns a two-point segment spanning deg degrees of latitude.
func northSouth(deg float64) []geo.LatLng {
	return []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: deg, Lng: 0}}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name   string
		coords []geo.LatLng
		side   string
		want   int
	}{
		{
			name:   "600 m single side",
			coords: northSouth(0.00541), // 600.51 m
			side:   "single",
			want:   100,
		},
		{
			name:   "600 m both sides",
			coords: northSouth(0.00541),
			side:   "both",
			want:   200,
		},
		{
			name:   "0.0054 degrees is 599.4 m and truncates",
			coords: northSouth(0.0054),
			side:   "single",
			want:   99,
		},
		{
			name:   "side comparison is case-sensitive",
			coords: northSouth(0.00541),
			side:   "Both",
			want:   100,
		},
		{
			name:   "empty side is single",
			coords: northSouth(0.00541),
			side:   "",
			want:   100,
		},
		{
			name:   "degenerate segment",
			coords: []geo.LatLng{{Lat: 41.0, Lng: 28.85}, {Lat: 41.0, Lng: 28.85}},
			side:   "both",
			want:   0,
		},
		{
			name:   "shorter than one vehicle",
			coords: northSouth(0.00005), // 5.55 m
			side:   "both",
			want:   0,
		},
		{
			name: "planar length ignores latitude",
			// 0.0061 degrees east at 60N is ~339 m on the ground but 677 m here.
			coords: []geo.LatLng{{Lat: 60, Lng: 10}, {Lat: 60, Lng: 10.0061}},
			side:   "single",
			want:   112,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimator{}.Estimate(tt.coords, tt.side)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Estimate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		coords []geo.LatLng
	}{
		{"nil", nil},
		{"empty", []geo.LatLng{}},
		{"single point", []geo.LatLng{{Lat: 41.0, Lng: 28.85}}},
		{"NaN latitude", []geo.LatLng{{Lat: math.NaN(), Lng: 0}, {Lat: 0, Lng: 0}}},
		{"infinite longitude", []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: 0, Lng: math.Inf(-1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimator{}.Estimate(tt.coords, "both")
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Estimate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestEstimate_BothDoublesSingle(t *testing.T) {
	paths := [][]geo.LatLng{
		northSouth(0.00541),
		northSouth(0.0001),
		{{Lat: 40.99, Lng: 28.80}, {Lat: 41.00, Lng: 28.81}, {Lat: 41.01, Lng: 28.80}},
		{{Lat: -33.86, Lng: 151.20}, {Lat: -33.87, Lng: 151.21}},
	}

	e := New(DefaultSpacingMeters)
	for i, p := range paths {
		single, err := e.Estimate(p, "single")
		if err != nil {
			t.Fatalf("path %d: %v", i, err)
		}
		both, err := e.Estimate(p, "both")
		if err != nil {
			t.Fatalf("path %d: %v", i, err)
		}
		if single < 0 {
			t.Errorf("path %d: single = %d, want >= 0", i, single)
		}
		if both != 2*single {
			t.Errorf("path %d: both = %d, want %d", i, both, 2*single)
		}
	}
}

func TestEstimate_MidpointInvariant(t *testing.T) {
	const span = 0.00541
	direct := northSouth(span)
	withMid := []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: span / 2, Lng: 0}, {Lat: span, Lng: 0}}

	a, err := Estimator{}.Estimate(direct, "single")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Estimator{}.Estimate(withMid, "single")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("with midpoint = %d, without = %d, want equal", b, a)
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	coords := []geo.LatLng{{Lat: 41.0, Lng: 28.85}, {Lat: 41.003, Lng: 28.851}, {Lat: 41.004, Lng: 28.856}}
	first, err := Estimator{}.Estimate(coords, "both")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		got, _ := Estimator{}.Estimate(coords, "both")
		if got != first {
			t.Fatalf("call %d = %d, want %d", i, got, first)
		}
	}
}

func TestSpacing(t *testing.T) {
	tests := []struct {
		name    string
		spacing float64
		want    int
	}{
		{"zero value uses default", 0, 100},
		{"negative uses default", -3, 100},
		{"five meters", 5, 120},
		{"six meters", 6, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.spacing).Estimate(northSouth(0.00541), "single")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Estimate() = %d, want %d", got, tt.want)
			}
		})
	}
}
