// Package capacity estimates on-street parking capacity from street geometry.
package capacity

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/azybler/parkmap/pkg/geo"
)

const (
	// MetersPerDegree is the flat conversion applied to planar degree lengths.
	MetersPerDegree = 111_000.0

	// DefaultSpacingMeters is the curb length reserved per parked vehicle.
	DefaultSpacingMeters = 6.0

	// BothSides is the parking:side value that doubles the estimate.
	// Compared literally; "Both" does not match.
	BothSides = "both"
)

// ErrInvalidInput is returned when the coordinate sequence cannot describe a
// street segment.
var ErrInvalidInput = errors.New("invalid input")

// Estimator converts a street polyline into an estimated count of parking
// spaces. The zero value uses DefaultSpacingMeters.
//
// Estimator is a value type with no internal state and is safe for
// concurrent use.
type Estimator struct {
	// SpacingMeters is the curb length per vehicle. Values <= 0 fall back
	// to DefaultSpacingMeters.
	SpacingMeters float64
}

// New returns an Estimator using the given per-vehicle spacing.
func New(spacingMeters float64) Estimator {
	return Estimator{SpacingMeters: spacingMeters}
}

// Spacing returns the effective per-vehicle spacing in meters.
func (e Estimator) Spacing() float64 {
	if e.SpacingMeters <= 0 {
		return DefaultSpacingMeters
	}
	return e.SpacingMeters
}

// Estimate returns the parking capacity of the polyline.
//
// The length is the planar length of the path in degrees (longitude and
// latitude treated as Cartesian axes) scaled by MetersPerDegree, divided by
// the spacing and truncated. The result is doubled when parkingSide is
// exactly "both". Fewer than two points, or any non-finite coordinate,
// yields ErrInvalidInput.
func (e Estimator) Estimate(coords []geo.LatLng, parkingSide string) (int, error) {
	if len(coords) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 coordinates, got %d", ErrInvalidInput, len(coords))
	}

	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		if !finite(c.Lat) || !finite(c.Lng) {
			return 0, fmt.Errorf("%w: coordinate %d is not finite", ErrInvalidInput, i)
		}
		ls[i] = orb.Point{c.Lng, c.Lat}
	}

	lengthMeters := planar.Length(ls) * MetersPerDegree
	spots := int(lengthMeters / e.Spacing())

	if parkingSide == BothSides {
		spots *= 2
	}
	return spots, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
