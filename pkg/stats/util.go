package stats

import (
	"math"
)

func value(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func ptr(v float64) *float64 {
	return &v
}

// round2 matches the two decimals the dashboard shows
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
