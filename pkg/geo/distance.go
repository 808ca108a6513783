package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// degToMeters converts degree-scaled equirectangular distances to meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b LatLng) float64 {
	lat1r := a.Lat * math.Pi / 180
	lat2r := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// EquirectangularDist returns an approximate distance in meters. Close to
// Haversine over street-scale distances; use it for ranking candidates.
func EquirectangularDist(a, b LatLng) float64 {
	x := (b.Lng - a.Lng) * math.Cos((a.Lat+b.Lat)/2*math.Pi/180)
	y := b.Lat - a.Lat
	return math.Sqrt(x*x+y*y) * degToMeters
}

// PathLength returns the great-circle length of a polyline in meters.
func PathLength(path []LatLng) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += Haversine(path[i-1], path[i])
	}
	return total
}

// MetersToDegrees returns the latitude and longitude spans, in degrees, of a
// distance in meters measured at the given latitude.
func MetersToDegrees(meters, lat float64) (dLat, dLng float64) {
	dLat = meters / degToMeters
	cos := math.Cos(lat * math.Pi / 180)
	if cos < 1e-9 {
		return dLat, 180
	}
	return dLat, dLat / cos
}

// PointToSegmentDist computes the perpendicular distance in meters from p to
// segment ab, and the projection ratio along ab clamped to [0, 1].
func PointToSegmentDist(p, a, b LatLng) (dist float64, ratio float64) {
	// Equirectangular projection; fine for street-length segments.
	cosLat := math.Cos((a.Lat + b.Lat) / 2 * math.Pi / 180)

	ax, ay := a.Lng*cosLat, a.Lat
	bx, by := b.Lng*cosLat, b.Lat
	px, py := p.Lng*cosLat, p.Lat

	// Compare unprojected coordinates: cosLat scaling can make identical
	// points differ by ~1e-15.
	if a == b {
		ex, ey := px-ax, py-ay
		return math.Sqrt(ex*ex+ey*ey) * degToMeters, 0
	}

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy

	var t float64
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	ex := px - (ax + t*dx)
	ey := py - (ay + t*dy)
	return math.Sqrt(ex*ex+ey*ey) * degToMeters, t
}
