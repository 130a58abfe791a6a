package core

import (
	"math"
	"time"

	"ems.com/ems/attendance/model"
)

// TotalHours sums the durations of complete pairs, rounded to two decimals.
// Open pairs contribute nothing.
func TotalHours(pairs []model.TimePair) float64 {
	var total time.Duration
	for _, p := range pairs {
		if !p.Complete() {
			continue
		}
		if d := p.Out.Sub(*p.In); d > 0 {
			total += d
		}
	}
	return RoundHours(total.Hours())
}

func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
