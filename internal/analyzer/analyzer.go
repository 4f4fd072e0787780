// Package analyzer runs the full contraction pipeline for one symbol:
// fetch daily bars, evaluate the 5-day and 13-day lookbacks, and assemble
// immutable result records with full diagnostics.
package analyzer

import (
	"context"
	"fmt"

	"SqueezeScan/internal/calculator"
	"SqueezeScan/internal/collector"
	"SqueezeScan/internal/model"
	"SqueezeScan/internal/pivot"
	"SqueezeScan/internal/squeeze"
)

const (
	// DefaultHistoryDays is how many calendar days of bars each analysis fetches.
	DefaultHistoryDays = 120
	// MinBars is the floor below which a symbol produces no results at all.
	MinBars = 60
	// SnapshotWindow is the bar window for ATR, price position and day counts.
	SnapshotWindow = 20
)

// LookbackPeriods are the consolidation windows evaluated per symbol, in
// output order.
var LookbackPeriods = []int{5, 13}

// Analyzer evaluates symbols against the squeeze and pivot detectors.
type Analyzer struct {
	Fetcher     collector.Fetcher
	HistoryDays int
}

// New creates an Analyzer with the default history depth.
func New(fetcher collector.Fetcher) *Analyzer {
	return &Analyzer{Fetcher: fetcher, HistoryDays: DefaultHistoryDays}
}

// AnalyzeSymbol produces zero, one, or two ContractionResults for the symbol:
// one per lookback period the series can support. A series shorter than
// MinBars is sparse data, not an error, and yields no results.
func (a *Analyzer) AnalyzeSymbol(ctx context.Context, symbol string) ([]model.ContractionResult, error) {
	bars, err := a.Fetcher.FetchDailyBars(ctx, symbol, a.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(bars) < MinBars {
		return nil, nil
	}

	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	change := last.Close - prev.Close
	changePercent := 0.0
	if prev.Close != 0 {
		changePercent = change / prev.Close * 100
	}

	results := make([]model.ContractionResult, 0, len(LookbackPeriods))
	for _, period := range LookbackPeriods {
		if len(bars) < period {
			continue
		}

		qual := pivot.DetectSetup(bars, period)
		status, bandwidth := squeeze.Status(bars, period)
		score := squeeze.Score(bars, squeeze.DefaultPeriod)

		high, low := calculator.WindowHighLow(bars, SnapshotWindow)
		pricePosition := 50.0
		if high > low {
			pricePosition = (last.Close - low) / (high - low) * 100
		}

		results = append(results, model.ContractionResult{
			Symbol:        symbol,
			CurrentPrice:  last.Close,
			Change:        change,
			ChangePercent: changePercent,
			Period:        period,
			CurrentVolume: last.Volume,

			ATR:              calculator.ATR(bars, SnapshotWindow),
			ContractionScore: score,
			Level:            LevelForScore(period, score),
			DaysSinceHigh:    daysSinceExtreme(bars, SnapshotWindow, true),
			DaysSinceLow:     daysSinceExtreme(bars, SnapshotWindow, false),
			PricePosition:    pricePosition,

			SqueezeStatus:    status,
			BandwidthPercent: bandwidth,
			Pivot:            qual,
		})
	}
	return results, nil
}

// LevelForScore maps a contraction score to its coarse level using the
// period-specific thresholds (5-day: 200/100, 13-day: 250/125).
func LevelForScore(period int, score float64) model.ContractionLevel {
	extreme, high := 200.0, 100.0
	if period == 13 {
		extreme, high = 250.0, 125.0
	}
	switch {
	case score >= extreme:
		return model.LevelExtreme
	case score >= high:
		return model.LevelHigh
	default:
		return model.LevelModerate
	}
}

// daysSinceExtreme counts bars back from the last bar to the window's highest
// high (or lowest low). Ties resolve to the most recent occurrence; 0 means
// the last bar set the extreme.
func daysSinceExtreme(bars []model.Bar, window int, wantHigh bool) int {
	w := model.Tail(bars, window)
	if len(w) == 0 {
		return 0
	}
	bestIdx := len(w) - 1
	bestVal := w[bestIdx].High
	if !wantHigh {
		bestVal = w[bestIdx].Low
	}
	for i := len(w) - 2; i >= 0; i-- {
		if wantHigh && w[i].High > bestVal {
			bestVal, bestIdx = w[i].High, i
		} else if !wantHigh && w[i].Low < bestVal {
			bestVal, bestIdx = w[i].Low, i
		}
	}
	return len(w) - 1 - bestIdx
}
