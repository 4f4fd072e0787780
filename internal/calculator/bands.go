package calculator

import (
	"math"

	"SqueezeScan/internal/model"
)

// Bands holds a volatility envelope: a middle line with an upper and lower
// bound around it.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// BollingerBands computes mean +/- 2 population standard deviations over the
// trailing `period` closes. Returns a zeroed result when data is insufficient.
func BollingerBands(bars []model.Bar, period int) Bands {
	if period <= 0 || len(bars) < period {
		return Bands{}
	}

	closes := model.Closes(model.Tail(bars, period))
	middle := SMA(closes, period)

	sumSq := 0.0
	for _, c := range closes {
		diff := c - middle
		sumSq += diff * diff
	}
	band := 2.0 * math.Sqrt(sumSq/float64(period))

	return Bands{Upper: middle + band, Middle: middle, Lower: middle - band}
}

// KeltnerChannels computes an EMA middle line +/- atrMult x ATR over the
// trailing `period` bars. The middle line is fed exactly `period` closes, so
// the EMA seed never advances and it equals the simple mean; do not change
// this in isolation, or every squeeze boundary shifts. Returns a zeroed
// result when data is insufficient.
func KeltnerChannels(bars []model.Bar, period int, atrMult float64) Bands {
	if period <= 0 || len(bars) < period {
		return Bands{}
	}

	closes := model.Closes(model.Tail(bars, period))
	middle := EMA(closes, period)
	band := atrMult * ATR(bars, period)

	return Bands{Upper: middle + band, Middle: middle, Lower: middle - band}
}
