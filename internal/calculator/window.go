package calculator

import (
	"math"

	"SqueezeScan/internal/model"
)

// WindowHighLow scans the trailing n bars and returns the highest high and
// lowest low. Returns zeros for an empty series.
func WindowHighLow(bars []model.Bar, n int) (high, low float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	window := model.Tail(bars, n)
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range window {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}

// MeanBarRange returns the average high-low spread over the trailing n bars,
// or 0 for an empty series.
func MeanBarRange(bars []model.Bar, n int) float64 {
	window := model.Tail(bars, n)
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range window {
		sum += b.Range()
	}
	return sum / float64(len(window))
}
