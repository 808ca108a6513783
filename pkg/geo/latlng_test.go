package geo

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestLatLngValidate(t *testing.T) {
	tests := []struct {
		name    string
		ll      LatLng
		wantErr bool
	}{
		{"valid", LatLng{Lat: 41.0, Lng: 28.85}, false},
		{"poles and antimeridian", LatLng{Lat: -90, Lng: 180}, false},
		{"lat out of range", LatLng{Lat: 91, Lng: 0}, true},
		{"lng out of range", LatLng{Lat: 0, Lng: -180.5}, true},
		{"NaN", LatLng{Lat: math.NaN(), Lng: 0}, true},
		{"Inf", LatLng{Lat: 0, Lng: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ll.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("Validate() error = %v, want ErrInvalidCoordinate", err)
			}
		})
	}
}

func TestLatLngJSON(t *testing.T) {
	data, err := json.Marshal([]LatLng{{Lat: 41.01, Lng: 28.85}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[[41.01,28.85]]" {
		t.Errorf("marshal = %s, want [[41.01,28.85]]", data)
	}

	var ll LatLng
	if err := json.Unmarshal([]byte("[1,2,3]"), &ll); err == nil {
		t.Error("expected error for a three-element pair")
	}
}

func TestBounds(t *testing.T) {
	b := Around(41.0, 28.85, 0.01)

	if math.Abs(b.MinLat-40.99) > 1e-9 || math.Abs(b.MaxLat-41.01) > 1e-9 {
		t.Errorf("lat range = [%f, %f], want [40.99, 41.01]", b.MinLat, b.MaxLat)
	}
	if !b.Contains(LatLng{Lat: 41.0, Lng: 28.85}) {
		t.Error("bounds should contain their center point")
	}
	if b.Contains(LatLng{Lat: 41.02, Lng: 28.85}) {
		t.Error("bounds should not contain a point north of the box")
	}
	c := b.Center()
	if math.Abs(c.Lat-41.0) > 1e-9 || math.Abs(c.Lng-28.85) > 1e-9 {
		t.Errorf("Center() = %+v, want {41 28.85}", c)
	}
	if b.IsZero() {
		t.Error("IsZero() = true for populated bounds")
	}
	if !(Bounds{}).IsZero() {
		t.Error("IsZero() = false for zero bounds")
	}
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("40.9916649,28.8059569,41.027953,28.8857606")
	if err != nil {
		t.Fatalf("ParseBounds: %v", err)
	}
	if b.MinLat != 40.9916649 || b.MaxLng != 28.8857606 {
		t.Errorf("ParseBounds = %+v", b)
	}

	for _, in := range []string{"", "1,2,3", "41,29,40,28", "a,b,c,d"} {
		if _, err := ParseBounds(in); err == nil {
			t.Errorf("ParseBounds(%q) expected error", in)
		}
	}
}

func TestParseLatLng(t *testing.T) {
	ll, err := ParseLatLng("41.0,28.85")
	if err != nil {
		t.Fatalf("ParseLatLng: %v", err)
	}
	if ll.Lat != 41.0 || ll.Lng != 28.85 {
		t.Errorf("ParseLatLng = %+v", ll)
	}
	if _, err := ParseLatLng("95,0"); err == nil {
		t.Error("expected error for latitude 95")
	}
}
