package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned for coordinates that are not finite or
// fall outside the WGS84 range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// LatLng is a WGS84 position in degrees.
// It encodes to JSON as a [lat, lng] pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Validate reports whether the position is finite and within range.
func (ll LatLng) Validate() error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return fmt.Errorf("%w: must be finite numbers", ErrInvalidCoordinate)
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return fmt.Errorf("%w: out of range", ErrInvalidCoordinate)
	}
	return nil
}

func (ll LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{ll.Lat, ll.Lng})
}

func (ll *LatLng) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: expected [lat, lng], got %d values", ErrInvalidCoordinate, len(pair))
	}
	ll.Lat, ll.Lng = pair[0], pair[1]
	return nil
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `json:"max_lat" mapstructure:"max_lat"`
	MinLng float64 `json:"min_lon" mapstructure:"min_lon"`
	MaxLng float64 `json:"max_lon" mapstructure:"max_lon"`
}

// Around returns the square box extending delta degrees from the point in
// every direction.
func Around(lat, lng, delta float64) Bounds {
	return Bounds{
		MinLat: lat - delta,
		MaxLat: lat + delta,
		MinLng: lng - delta,
		MaxLng: lng + delta,
	}
}

// IsZero returns true if the bounds are unset.
func (b Bounds) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounds (edges included).
func (b Bounds) Contains(ll LatLng) bool {
	return ll.Lat >= b.MinLat && ll.Lat <= b.MaxLat && ll.Lng >= b.MinLng && ll.Lng <= b.MaxLng
}

// Center returns the midpoint of the box.
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// Validate checks that both corners are valid and correctly ordered.
func (b Bounds) Validate() error {
	if err := (LatLng{Lat: b.MinLat, Lng: b.MinLng}).Validate(); err != nil {
		return err
	}
	if err := (LatLng{Lat: b.MaxLat, Lng: b.MaxLng}).Validate(); err != nil {
		return err
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return fmt.Errorf("%w: min corner exceeds max corner", ErrInvalidCoordinate)
	}
	return nil
}

// ParseBounds parses "minLat,minLng,maxLat,maxLng".
func ParseBounds(s string) (Bounds, error) {
	var b Bounds
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &b.MinLat, &b.MinLng, &b.MaxLat, &b.MaxLng); err != nil {
		return Bounds{}, fmt.Errorf("%w: expected minLat,minLng,maxLat,maxLng: %v", ErrInvalidCoordinate, err)
	}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (LatLng, error) {
	var ll LatLng
	if _, err := fmt.Sscanf(s, "%f,%f", &ll.Lat, &ll.Lng); err != nil {
		return LatLng{}, fmt.Errorf("%w: expected lat,lng: %v", ErrInvalidCoordinate, err)
	}
	if err := ll.Validate(); err != nil {
		return LatLng{}, err
	}
	return ll, nil
}
