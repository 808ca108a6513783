// Package render draws parking estimates as an interactive Leaflet map.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/rotisserie/eris"

	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/parking"
)

//go:embed templates
var templateFS embed.FS

var (
	mapTmpl   = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))
	popupTmpl = template.Must(template.New("popup").Parse(
		`<b>{{.Name}}</b><br>` +
			`Type: {{.Type}}<br>` +
			`Estimated Capacity: {{.Capacity}} cars<br>` +
			`Parking Side: {{.Side}}<br>` +
			`Fee: {{if .Paid}}Yes{{else}}No{{end}}<br>` +
			`Time Restrictions: {{.Time}}<br>` +
			`Max Stay: {{.MaxStay}}<br>` +
			`Length: {{printf "%.0f" .LengthMeters}} m`))
)

// Options controls map appearance.
type Options struct {
	Title           string
	Zoom            int
	ColorByCapacity bool
	Satellite       bool
}

// DefaultOptions returns the standard settings: zoom 15, satellite base
// layer, capacity colouring.
func DefaultOptions() Options {
	return Options{
		Title:           "Street Parking Capacity",
		Zoom:            15,
		ColorByCapacity: true,
		Satellite:       true,
	}
}

type tile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

var (
	esriTile = tile{
		Name:        "Satellite",
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "Esri, DigitalGlobe, GeoEye, i-cubed, USDA FSA, USGS, AEX, Getmapping, Aerogrid, IGN, IGP, swisstopo, and the GIS User Community",
	}
	osmTile = tile{
		Name:        "OpenStreetMap",
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	}
	positronTile = tile{
		Name:        "CartoDB Positron",
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
	}
)

// tiles lists base layers, the default one first.
func tiles(satellite bool) []tile {
	if satellite {
		return []tile{esriTile, osmTile, positronTile}
	}
	return []tile{osmTile, positronTile}
}

type polyline struct {
	Locations [][2]float64 `json:"locations"`
	Color     string       `json:"color"`
	Popup     string       `json:"popup"`
}

type popupData struct {
	Name         string
	Type         string
	Capacity     int
	Side         string
	Paid         bool
	Time         string
	MaxStay      string
	LengthMeters float64
}

type page struct {
	Title       string
	Center      geo.LatLng
	Zoom        int
	Tiles       []tile
	Streets     []polyline
	SummaryText string
}

// Map writes a standalone HTML page showing streets. The view is centred on
// b, or on the streets when b is zero.
func Map(w io.Writer, streets []parking.Street, b geo.Bounds, opts Options) error {
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultOptions().Zoom
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	lines := make([]polyline, 0, len(streets))
	drawn := make([]parking.Street, 0, len(streets))
	for _, s := range streets {
		if len(s.Coordinates) == 0 {
			continue
		}
		pl, err := toPolyline(s, opts.ColorByCapacity)
		if err != nil {
			return err
		}
		lines = append(lines, pl)
		drawn = append(drawn, s)
	}

	center := b.Center()
	if b.IsZero() {
		center = centerOf(streets)
	}

	sum := parking.Summarize(drawn)
	p := page{
		Title:       opts.Title,
		Center:      center,
		Zoom:        opts.Zoom,
		Tiles:       tiles(opts.Satellite),
		Streets:     lines,
		SummaryText: fmt.Sprintf("%d streets, ~%d parking spaces", sum.TotalStreets, sum.TotalCapacity),
	}
	if err := mapTmpl.Execute(w, p); err != nil {
		return eris.Wrap(err, "render: execute map template")
	}
	return nil
}

func toPolyline(s parking.Street, colorByCapacity bool) (polyline, error) {
	locs := make([][2]float64, len(s.Coordinates))
	for i, c := range s.Coordinates {
		locs[i] = [2]float64{c.Lat, c.Lng}
	}

	r := s.ParkingData.Restrictions
	data := popupData{
		Name:         s.DisplayName(),
		Type:         s.StreetType,
		Capacity:     s.EstimatedCapacity,
		Side:         orNA(s.ParkingData.ParkingSide),
		Paid:         s.Paid(),
		Time:         orNone(r.Time),
		MaxStay:      orNone(r.MaxStay),
		LengthMeters: geo.PathLength(s.Coordinates),
	}
	var buf bytes.Buffer
	if err := popupTmpl.Execute(&buf, data); err != nil {
		return polyline{}, eris.Wrap(err, "render: execute popup template")
	}

	color := "blue"
	if colorByCapacity {
		color = CapacityColor(s.EstimatedCapacity)
	}
	return polyline{Locations: locs, Color: color, Popup: buf.String()}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNone(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}

func centerOf(streets []parking.Street) geo.LatLng {
	var b geo.Bounds
	first := true
	for _, s := range streets {
		for _, c := range s.Coordinates {
			if first {
				b = geo.Bounds{MinLat: c.Lat, MaxLat: c.Lat, MinLng: c.Lng, MaxLng: c.Lng}
				first = false
				continue
			}
			b.MinLat, b.MaxLat = math.Min(b.MinLat, c.Lat), math.Max(b.MaxLat, c.Lat)
			b.MinLng, b.MaxLng = math.Min(b.MinLng, c.Lng), math.Max(b.MaxLng, c.Lng)
		}
	}
	return b.Center()
}
