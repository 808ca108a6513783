package api

// AreaRequest is the JSON body for POST /api/v1/maps and
// POST /api/v1/streets. Delta defaults to DefaultDelta.
type AreaRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Delta *float64 `json:"delta,omitempty"`
}

// MapResponse is the JSON response for a generated map.
type MapResponse struct {
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Delta         float64 `json:"delta"`
	MapURL        string  `json:"map_url"`
	DataURL       string  `json:"data_url"`
	TotalStreets  int     `json:"total_streets"`
	TotalCapacity int     `json:"total_capacity"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
