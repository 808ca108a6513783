package parking

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"

	"github.com/azybler/parkmap/pkg/geo"
)

func TestFeatureCollection(t *testing.T) {
	streets := sampleStreets()
	streets = append(streets,
		Street{Name: "dot", Coordinates: []geo.LatLng{{Lat: 41.0, Lng: 28.9}}},
		Street{Name: "empty"},
	)

	fc := FeatureCollection(streets)
	if len(fc.Features) != 3 {
		t.Fatalf("len(Features) = %d, want 3", len(fc.Features))
	}

	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("first geometry is %T, want orb.LineString", fc.Features[0].Geometry)
	}
	if ls[0] != (orb.Point{28.85, 41.0}) {
		t.Errorf("first point = %v, want [28.85 41] (lon, lat)", ls[0])
	}
	if got := fc.Features[0].Properties["estimated_capacity"]; got != 200 {
		t.Errorf("estimated_capacity = %v, want 200", got)
	}
	if _, ok := fc.Features[2].Geometry.(orb.Point); !ok {
		t.Errorf("single-coordinate street geometry is %T, want orb.Point", fc.Features[2].Geometry)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "FeatureCollection" || decoded.Features[0].Geometry.Type != "LineString" {
		t.Errorf("unexpected GeoJSON: %s", data)
	}
}
