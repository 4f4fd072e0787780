package calculator

import (
	"math"

	"SqueezeScan/internal/model"
)

// TrueRange returns the largest of the three single-day movement measures:
// high-low, |high - prevClose|, |low - prevClose|.
func TrueRange(bar model.Bar, prevClose float64) float64 {
	hl := bar.High - bar.Low
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)

	tr := hl
	if hc > tr {
		tr = hc
	}
	if lc > tr {
		tr = lc
	}
	return tr
}

// ATR computes the plain trailing average of the last `period` true ranges.
// This is an unweighted average, not Wilder smoothing. Requires period+1 bars;
// returns 0 when data is insufficient.
func ATR(bars []model.Bar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 0
	}
	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += TrueRange(bars[i], bars[i-1].Close)
	}
	return sum / float64(period)
}
