package api

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/parking"
	"github.com/azybler/parkmap/pkg/render"
	"github.com/azybler/parkmap/pkg/storage"
)

// DefaultDelta is the half-width in degrees used when a request omits delta.
const DefaultDelta = 0.01

//go:embed static/index.html
var indexHTML []byte

// Collector returns the streets inside a bounding box.
type Collector interface {
	Collect(ctx context.Context, b geo.Bounds) ([]parking.Street, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	collector Collector
	sink      storage.Sink
	render    render.Options
	maxDelta  float64
	now       func() time.Time
}

// NewHandlers creates handlers that collect through c and publish through
// sink. Requests with a delta above maxDelta are rejected.
func NewHandlers(c Collector, sink storage.Sink, opts render.Options, maxDelta float64) *Handlers {
	return &Handlers{
		collector: c,
		sink:      sink,
		render:    opts,
		maxDelta:  maxDelta,
		now:       time.Now,
	}
}

// MapFileName is the base artifact name for an area; callers add the
// extension.
func MapFileName(lat, lng, delta float64) string {
	return fmt.Sprintf("parking_map_%.5f_%.5f_d%.3f", lat, lng, delta)
}

type area struct {
	lat, lng, delta float64
}

func (a area) bounds() geo.Bounds {
	return geo.Around(a.lat, a.lng, a.delta)
}

// HandleMap handles POST /api/v1/maps.
func (h *Handlers) HandleMap(w http.ResponseWriter, r *http.Request) {
	a, ok := h.parseArea(w, r)
	if !ok {
		return
	}

	streets, ok := h.collect(w, r, a)
	if !ok {
		return
	}

	ds := parking.NewDataset(streets, a.bounds(), h.now().UTC())

	var page, data bytes.Buffer
	if err := render.Map(&page, streets, a.bounds(), h.render); err != nil {
		zap.L().Error("api: render map", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	if err := ds.WriteJSON(&data); err != nil {
		zap.L().Error("api: encode dataset", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	name := MapFileName(a.lat, a.lng, a.delta)
	mapURL, err := h.sink.Put(r.Context(), name+".html", "text/html; charset=utf-8", page.Bytes())
	if err != nil {
		zap.L().Error("api: store map", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	dataURL, err := h.sink.Put(r.Context(), name+".json", "application/json", data.Bytes())
	if err != nil {
		zap.L().Error("api: store dataset", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	writeJSON(w, "application/json", MapResponse{
		Lat:           a.lat,
		Lng:           a.lng,
		Delta:         a.delta,
		MapURL:        mapURL,
		DataURL:       dataURL,
		TotalStreets:  ds.Metadata.TotalStreets,
		TotalCapacity: ds.Metadata.TotalCapacity,
	})
}

// HandleStreets handles POST /api/v1/streets. Overpass returns whole ways,
// so streets with no vertex inside the box are trimmed.
func (h *Handlers) HandleStreets(w http.ResponseWriter, r *http.Request) {
	a, ok := h.parseArea(w, r)
	if !ok {
		return
	}

	streets, ok := h.collect(w, r, a)
	if !ok {
		return
	}

	inside := parking.NewIndex(streets).Within(a.bounds())
	writeJSON(w, "application/geo+json", parking.FeatureCollection(inside))
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "application/json", HealthResponse{Status: "ok"})
}

// HandleIndex serves the coordinate picker page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (h *Handlers) parseArea(w http.ResponseWriter, r *http.Request) (area, bool) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return area{}, false
	}

	var req AreaRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return area{}, false
	}
	if req.Lat == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "lat")
		return area{}, false
	}
	if req.Lng == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "lng")
		return area{}, false
	}

	a := area{lat: *req.Lat, lng: *req.Lng, delta: DefaultDelta}
	if req.Delta != nil {
		a.delta = *req.Delta
	}

	if field := invalidCoordField(a.lat, a.lng); field != "" {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", field)
		return area{}, false
	}
	if math.IsNaN(a.delta) || a.delta <= 0 || a.delta > h.maxDelta {
		writeError(w, http.StatusBadRequest, "invalid_delta", "delta")
		return area{}, false
	}
	// A valid point can still give a box past a pole or the antimeridian.
	if b := a.bounds(); b.Validate() != nil {
		field := "lng"
		if b.MinLat < -90 || b.MaxLat > 90 {
			field = "lat"
		}
		writeError(w, http.StatusBadRequest, "invalid_coordinates", field)
		return area{}, false
	}
	return a, true
}

func (h *Handlers) collect(w http.ResponseWriter, r *http.Request, a area) ([]parking.Street, bool) {
	streets, err := h.collector.Collect(r.Context(), a.bounds())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
			return nil, false
		}
		zap.L().Warn("api: collect streets",
			zap.Float64("lat", a.lat),
			zap.Float64("lng", a.lng),
			zap.Float64("delta", a.delta),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "upstream_error", "")
		return nil, false
	}
	return streets, true
}

func invalidCoordField(lat, lng float64) string {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return "lat"
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return "lng"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
