package parking

import "testing"

func TestSummarize(t *testing.T) {
	sum := Summarize(sampleStreets())

	if sum.TotalStreets != 2 || sum.TotalCapacity != 218 {
		t.Errorf("totals = %d streets / %d spaces, want 2 / 218", sum.TotalStreets, sum.TotalCapacity)
	}
	if sum.PaidStreets != 1 || sum.FreeStreets != 1 {
		t.Errorf("paid/free = %d/%d, want 1/1", sum.PaidStreets, sum.FreeStreets)
	}
	if sum.CapacityByType["secondary"] != 200 || sum.CapacityByType["service"] != 18 {
		t.Errorf("CapacityByType = %v", sum.CapacityByType)
	}

	empty := Summarize(nil)
	if empty.TotalStreets != 0 || empty.CapacityByType == nil {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}
