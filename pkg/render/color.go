package render

import (
	"fmt"
	"math"
)

// FullCapacity is the estimate at which a street is drawn fully green.
const FullCapacity = 50.0

type rgb struct{ r, g, b float64 }

// red -> yellow -> green, evenly spaced over [0, 1].
var capacityStops = []rgb{
	{255, 0, 0},
	{255, 255, 0},
	{0, 128, 0},
}

// CapacityColor maps an estimate to a hex colour on the red-yellow-green
// scale, saturating at FullCapacity.
func CapacityColor(capacity int) string {
	t := math.Max(0, math.Min(1, float64(capacity)/FullCapacity))
	return interpolate(capacityStops, t)
}

func interpolate(stops []rgb, t float64) string {
	segments := float64(len(stops) - 1)
	pos := t * segments
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		i = len(stops) - 2
	}
	f := pos - float64(i)

	a, b := stops[i], stops[i+1]
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(a.r+(b.r-a.r)*f)),
		int(math.Round(a.g+(b.g-a.g)*f)),
		int(math.Round(a.b+(b.b-a.b)*f)),
	)
}
