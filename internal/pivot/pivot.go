// Package pivot decides whether a symbol is coiling sideways in an abnormally
// tight range relative to its own history, as opposed to merely having nested
// volatility bands.
package pivot

import (
	"math"

	"SqueezeScan/internal/calculator"
	"SqueezeScan/internal/model"
	"SqueezeScan/internal/squeeze"
)

const (
	// HistoryLookback is how many trailing bars the volatility baseline needs.
	HistoryLookback = 60
	// MinCompressionPercent is the qualification floor (strict) for range compression.
	MinCompressionPercent = 30.0
	// MaxNetMovePercent is the ceiling (strict) on net move for a sideways window.
	MaxNetMovePercent = 40.0
	// ExtremeLow and ExtremeHigh bound the acceptable close position, both strict.
	ExtremeLow  = 0.2
	ExtremeHigh = 0.8
	// TightBarFactor caps the current bar's range relative to the window mean.
	TightBarFactor = 1.3
)

// Fail reasons, reported in precedence order for diagnostic stability.
const (
	ReasonInsufficientHistory     = "insufficient history"
	ReasonInsufficientCompression = "insufficient compression"
	ReasonTrending                = "trending, not sideways"
	ReasonAtExtreme               = "price at range extreme"
	ReasonBrokeOut                = "already broke out"
	ReasonMultipleCriteria        = "multiple criteria unmet"
)

// HistoricalVolatility slides a moveDays-wide window across the trailing
// lookbackDays bars and returns the mean of (high-low)/low*100 over all
// window positions: the symbol's normal N-day move. Returns 0 when fewer
// than lookbackDays bars exist; callers must short-circuit on that.
func HistoricalVolatility(bars []model.Bar, moveDays, lookbackDays int) float64 {
	if moveDays <= 0 || len(bars) < lookbackDays || moveDays > lookbackDays {
		return 0
	}

	window := model.Tail(bars, lookbackDays)
	sum := 0.0
	count := 0
	for i := 0; i+moveDays <= len(window); i++ {
		high := math.Inf(-1)
		low := math.Inf(1)
		for _, b := range window[i : i+moveDays] {
			if b.High > high {
				high = b.High
			}
			if b.Low < low {
				low = b.Low
			}
		}
		if low > 0 {
			sum += (high - low) / low * 100
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// DetectSetup qualifies the trailing `days` bars as a tight, sideways,
// non-extreme, non-breaking-out coil relative to the symbol's own 60-day
// volatility baseline.
func DetectSetup(bars []model.Bar, days int) model.PivotQualification {
	if len(bars) < HistoryLookback || len(bars) < days || days < 2 {
		return model.PivotQualification{FailReason: ReasonInsufficientHistory}
	}

	window := model.Tail(bars, days)
	windowHigh, windowLow := calculator.WindowHighLow(window, len(window))
	windowRange := windowHigh - windowLow

	q := model.PivotQualification{}
	if windowLow > 0 {
		q.CurrentRangePercent = windowRange / windowLow * 100
	}

	baseline := HistoricalVolatility(bars, days, HistoryLookback)
	if baseline == 0 {
		return model.PivotQualification{FailReason: ReasonInsufficientHistory}
	}
	q.ContractionPercent = (baseline - q.CurrentRangePercent) / baseline * 100

	// Directional flips: sign changes of day-over-day closes, ignoring flat days.
	flips := 0
	prevSign := 0
	for i := 1; i < len(window); i++ {
		change := window[i].Close - window[i-1].Close
		sign := 0
		if change > 0 {
			sign = 1
		} else if change < 0 {
			sign = -1
		}
		if sign == 0 {
			continue
		}
		if prevSign != 0 && sign != prevSign {
			flips++
		}
		prevSign = sign
	}

	closeStart := window[0].Close
	closeEnd := window[len(window)-1].Close
	if windowRange > 0 {
		q.NetMovePercent = math.Abs(closeEnd-closeStart) / windowRange * 100
		q.PriceInRange = (closeEnd - windowLow) / windowRange
	} else {
		q.PriceInRange = 0.5
	}

	q.IsSideways = flips >= 1 && q.NetMovePercent < MaxNetMovePercent
	q.NotAtExtremes = q.PriceInRange > ExtremeLow && q.PriceInRange < ExtremeHigh

	currentBar := window[len(window)-1]
	meanRange := calculator.MeanBarRange(window, len(window))
	q.CurrentBarTight = currentBar.Range() <= TightBarFactor*meanRange

	q.Qualifies = q.ContractionPercent > MinCompressionPercent &&
		q.IsSideways && q.NotAtExtremes && q.CurrentBarTight

	if !q.Qualifies {
		q.FailReason = failReason(bars, q)
	}
	return q
}

// failReason picks the first applicable reason; the ordering is part of the
// diagnostic contract and must not be rearranged.
func failReason(bars []model.Bar, q model.PivotQualification) string {
	switch {
	case q.ContractionPercent <= MinCompressionPercent:
		return ReasonInsufficientCompression
	case q.NetMovePercent >= MaxNetMovePercent:
		return ReasonTrending
	case !q.NotAtExtremes:
		return ReasonAtExtreme
	case squeeze.HasRecentExpansion(bars, squeeze.ExpansionLookback):
		return ReasonBrokeOut
	default:
		return ReasonMultipleCriteria
	}
}
