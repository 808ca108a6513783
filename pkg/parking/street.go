// Package parking turns OSM street ways into parking capacity records and
// handles their dataset, GeoJSON and spatial-index forms.
package parking

import (
	"github.com/azybler/parkmap/pkg/capacity"
	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/osm"
)

// Tag defaults applied when a way does not carry the tag.
const (
	UnknownStreet  = "Unknown Street"
	UnknownType    = "unknown"
	DefaultSide    = capacity.BothSides
	UnknownSurface = "unknown"
	DefaultFee     = "no"
)

// Street is one street segment with its estimated parking capacity.
type Street struct {
	WayID             int64        `json:"way_id,omitempty"`
	Name              string       `json:"name"`
	Coordinates       []geo.LatLng `json:"coordinates"`
	StreetType        string       `json:"street_type"`
	ParkingData       ParkingData  `json:"parking_data"`
	EstimatedCapacity int          `json:"estimated_capacity"`
}

// ParkingData holds the tag-derived parking attributes of a street.
type ParkingData struct {
	StreetType   string       `json:"street_type"`
	ParkingSide  string       `json:"parking_side"`
	Surface      string       `json:"surface"`
	Restrictions Restrictions `json:"restrictions"`
}

// Restrictions are the parking:* restriction tags. Time and MaxStay are nil
// when the way does not carry them.
type Restrictions struct {
	Fee     string  `json:"fee"`
	Time    *string `json:"time"`
	MaxStay *string `json:"maxstay"`
}

// Paid reports whether the street is tagged parking:fee=yes.
func (s Street) Paid() bool {
	return s.ParkingData.Restrictions.Fee == "yes"
}

// DisplayName is the name shown on the map; unnamed streets are labelled as
// a generic parking area.
func (s Street) DisplayName() string {
	if s.Name == "" || s.Name == UnknownStreet {
		return "Parking Area"
	}
	return s.Name
}

// FromWay builds a Street from an OSM way, applying tag defaults and the
// capacity estimate for the way's parking side.
func FromWay(w osm.Way, est capacity.Estimator) (Street, error) {
	data := ParkingData{
		StreetType:  tagOr(w, "highway", UnknownType),
		ParkingSide: tagOr(w, "parking:side", DefaultSide),
		Surface:     tagOr(w, "surface", UnknownSurface),
		Restrictions: Restrictions{
			Fee:     tagOr(w, "parking:fee", DefaultFee),
			Time:    optionalTag(w, "parking:time"),
			MaxStay: optionalTag(w, "parking:maxstay"),
		},
	}

	spots, err := est.Estimate(w.Geometry, data.ParkingSide)
	if err != nil {
		return Street{}, err
	}

	return Street{
		WayID:             int64(w.ID),
		Name:              tagOr(w, "name", UnknownStreet),
		Coordinates:       w.Geometry,
		StreetType:        data.StreetType,
		ParkingData:       data,
		EstimatedCapacity: spots,
	}, nil
}

func tagOr(w osm.Way, key, def string) string {
	if v := w.Tags.Find(key); v != "" {
		return v
	}
	return def
}

func optionalTag(w osm.Way, key string) *string {
	if !w.Tags.HasTag(key) {
		return nil
	}
	v := w.Tags.Find(key)
	return &v
}
