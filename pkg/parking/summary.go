package parking

// Summary aggregates a set of streets.
type Summary struct {
	TotalStreets   int            `json:"total_streets"`
	TotalCapacity  int            `json:"total_capacity"`
	PaidStreets    int            `json:"paid_streets"`
	FreeStreets    int            `json:"free_streets"`
	CapacityByType map[string]int `json:"capacity_by_type"`
}

// Summarize totals capacity overall and per street type.
func Summarize(streets []Street) Summary {
	sum := Summary{CapacityByType: make(map[string]int)}
	for _, s := range streets {
		sum.TotalStreets++
		sum.TotalCapacity += s.EstimatedCapacity
		sum.CapacityByType[s.StreetType] += s.EstimatedCapacity
		if s.Paid() {
			sum.PaidStreets++
		} else {
			sum.FreeStreets++
		}
	}
	return sum
}
