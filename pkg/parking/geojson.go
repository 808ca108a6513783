package parking

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts streets to GeoJSON. Streets become LineString
// features, or Point features when they have a single coordinate.
func FeatureCollection(streets []Street) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range streets {
		if len(s.Coordinates) == 0 {
			continue
		}

		var g orb.Geometry
		if len(s.Coordinates) == 1 {
			g = orb.Point{s.Coordinates[0].Lng, s.Coordinates[0].Lat}
		} else {
			ls := make(orb.LineString, len(s.Coordinates))
			for i, c := range s.Coordinates {
				ls[i] = orb.Point{c.Lng, c.Lat}
			}
			g = ls
		}

		f := geojson.NewFeature(g)
		if s.WayID != 0 {
			f.ID = s.WayID
		}
		f.Properties["name"] = s.Name
		f.Properties["street_type"] = s.StreetType
		f.Properties["parking_side"] = s.ParkingData.ParkingSide
		f.Properties["surface"] = s.ParkingData.Surface
		f.Properties["fee"] = s.ParkingData.Restrictions.Fee
		f.Properties["estimated_capacity"] = s.EstimatedCapacity
		fc.Append(f)
	}
	return fc
}
