package pivot

import (
	"math"
	"testing"

	"SqueezeScan/internal/model"
)

func bar(high, low, close float64) model.Bar {
	return model.Bar{High: high, Low: low, Close: close}
}

// wideHistory builds n bars spanning high-low with closes alternating around
// the middle, so the 60-day baseline is wide and the series is choppy.
func wideHistory(n int, high, low float64) []model.Bar {
	mid := (high + low) / 2
	bars := make([]model.Bar, n)
	for i := range bars {
		c := mid - 1
		if i%2 == 1 {
			c = mid + 1
		}
		bars[i] = bar(high, low, c)
	}
	return bars
}

func TestHistoricalVolatility_UniformWindows(t *testing.T) {
	bars := make([]model.Bar, 60)
	for i := range bars {
		bars[i] = bar(110, 100, 105)
	}
	got := HistoricalVolatility(bars, 5, 60)
	if math.Abs(got-10.0) > 1e-9 {
		t.Errorf("expected 10%% baseline, got %v", got)
	}
}

func TestHistoricalVolatility_InsufficientData(t *testing.T) {
	bars := make([]model.Bar, 59)
	for i := range bars {
		bars[i] = bar(110, 100, 105)
	}
	if got := HistoricalVolatility(bars, 5, 60); got != 0 {
		t.Errorf("expected 0 for short history, got %v", got)
	}
}

func TestDetectSetup_Qualifying(t *testing.T) {
	bars := wideHistory(65, 110, 100)
	bars = append(bars,
		bar(103, 100, 101.4),
		bar(103, 100, 101.6),
		bar(103, 100, 101.4),
		bar(103, 100, 101.6),
		bar(103, 100, 101.5),
	)

	q := DetectSetup(bars, 5)
	if !q.Qualifies {
		t.Fatalf("expected qualification, got fail reason %q (%+v)", q.FailReason, q)
	}
	if math.Abs(q.CurrentRangePercent-3.0) > 1e-9 {
		t.Errorf("expected current range 3%%, got %v", q.CurrentRangePercent)
	}
	if q.ContractionPercent <= MinCompressionPercent {
		t.Errorf("expected compression above threshold, got %v", q.ContractionPercent)
	}
	if !q.IsSideways || !q.NotAtExtremes || !q.CurrentBarTight {
		t.Errorf("expected all criteria met: %+v", q)
	}
	if math.Abs(q.PriceInRange-0.5) > 1e-9 {
		t.Errorf("expected price mid-range, got %v", q.PriceInRange)
	}
}

func TestDetectSetup_InsufficientCompression(t *testing.T) {
	// Current window is as wide as the history: zero compression.
	bars := wideHistory(70, 110, 100)
	q := DetectSetup(bars, 5)
	if q.Qualifies {
		t.Fatal("expected failure for uncompressed range")
	}
	if q.FailReason != ReasonInsufficientCompression {
		t.Errorf("expected %q, got %q", ReasonInsufficientCompression, q.FailReason)
	}
}

func TestDetectSetup_CompressionBoundary(t *testing.T) {
	// With a 110/100 history the baseline is (55*10+x)/56 for a current
	// window of range x, so x=7.0 lands just under the 30% floor and x=6.9
	// just over it.
	build := func(rng float64) []model.Bar {
		bars := wideHistory(65, 110, 100)
		closes := []float64{103.0, 103.4, 103.1, 103.5, 103.3}
		for _, c := range closes {
			bars = append(bars, bar(100+rng, 100, c))
		}
		return bars
	}

	under := DetectSetup(build(7.0), 5)
	if under.Qualifies {
		t.Fatalf("compression %v must not qualify", under.ContractionPercent)
	}
	if under.ContractionPercent >= MinCompressionPercent {
		t.Fatalf("fixture broken: expected compression below 30, got %v", under.ContractionPercent)
	}
	if under.FailReason != ReasonInsufficientCompression {
		t.Errorf("expected %q, got %q", ReasonInsufficientCompression, under.FailReason)
	}

	over := DetectSetup(build(6.9), 5)
	if over.ContractionPercent <= MinCompressionPercent {
		t.Fatalf("fixture broken: expected compression above 30, got %v", over.ContractionPercent)
	}
	if !over.Qualifies {
		t.Errorf("compression %v must qualify, got fail reason %q", over.ContractionPercent, over.FailReason)
	}
}

// tightWindow appends a 5-bar window spanning 100-110 with the given closes
// onto a wide (120-100) history, keeping compression comfortably above the
// threshold so the later criteria decide the outcome.
func tightWindow(closes [5]float64) []model.Bar {
	bars := wideHistory(65, 120, 100)
	for _, c := range closes {
		bars = append(bars, bar(110, 100, c))
	}
	return bars
}

func TestDetectSetup_NetMoveBoundary(t *testing.T) {
	// Window range is 10, so closeEnd-closeStart of 4.0 is exactly 40%.
	trending := DetectSetup(tightWindow([5]float64{100.0, 101, 100.5, 102, 104.0}), 5)
	if trending.Qualifies {
		t.Fatal("net move of exactly 40% must fail the sideways check")
	}
	if trending.FailReason != ReasonTrending {
		t.Errorf("expected %q, got %q", ReasonTrending, trending.FailReason)
	}

	sideways := DetectSetup(tightWindow([5]float64{100.0, 101, 100.5, 102, 103.999}), 5)
	if !sideways.Qualifies {
		t.Errorf("net move of 39.99%% must pass, got fail reason %q", sideways.FailReason)
	}
}

func TestDetectSetup_PriceInRangeBoundary(t *testing.T) {
	tests := []struct {
		name      string
		closes    [5]float64
		qualifies bool
	}{
		{"exactly 0.2", [5]float64{101, 101.5, 101.2, 101.8, 102.0}, false},
		{"just above 0.2", [5]float64{101, 101.5, 101.2, 101.8, 102.001}, true},
		{"exactly 0.8", [5]float64{107.5, 107.8, 107.6, 107.9, 108.0}, false},
		{"just below 0.8", [5]float64{107.5, 107.8, 107.6, 107.9, 107.999}, true},
	}
	for _, tt := range tests {
		q := DetectSetup(tightWindow(tt.closes), 5)
		if q.Qualifies != tt.qualifies {
			t.Errorf("%s: qualifies=%v, want %v (reason %q, priceInRange %v)",
				tt.name, q.Qualifies, tt.qualifies, q.FailReason, q.PriceInRange)
		}
		if !tt.qualifies && q.FailReason != ReasonAtExtreme {
			t.Errorf("%s: expected %q, got %q", tt.name, ReasonAtExtreme, q.FailReason)
		}
	}
}

// breakoutFixture builds a series that passes compression, sideways and
// extremes but whose last bar is both untight and (optionally) large enough
// to count as a recent expansion against the tight bars preceding it.
func breakoutFixture(lastRange float64) []model.Bar {
	bars := wideHistory(57, 110, 100)
	for i := 0; i < 12; i++ {
		c := 101.4
		if i%2 == 1 {
			c = 101.6
		}
		bars = append(bars, bar(103, 100, c))
	}
	bars = append(bars, bar(100+lastRange, 100, 101.8))
	return bars
}

func TestDetectSetup_AlreadyBrokeOut(t *testing.T) {
	// Last bar range 4.5 = 1.5x the tight mean of 3: a breakout.
	q := DetectSetup(breakoutFixture(4.5), 5)
	if q.Qualifies {
		t.Fatal("expected failure for breakout bar")
	}
	if q.FailReason != ReasonBrokeOut {
		t.Errorf("expected %q, got %q (%+v)", ReasonBrokeOut, q.FailReason, q)
	}
}

func TestDetectSetup_MultipleCriteriaUnmet(t *testing.T) {
	// Last bar range 4.4 fails the tightness cap but stays below the 1.5x
	// expansion threshold, so no specific reason applies.
	q := DetectSetup(breakoutFixture(4.4), 5)
	if q.Qualifies {
		t.Fatal("expected failure for untight bar")
	}
	if q.FailReason != ReasonMultipleCriteria {
		t.Errorf("expected %q, got %q (%+v)", ReasonMultipleCriteria, q.FailReason, q)
	}
}

func TestDetectSetup_NoFlipsIsNotSideways(t *testing.T) {
	q := DetectSetup(tightWindow([5]float64{101, 101.5, 102, 102.5, 103}), 5)
	if q.Qualifies {
		t.Fatal("monotonic closes must not qualify")
	}
	if q.IsSideways {
		t.Error("zero flips must fail the sideways check")
	}
	if q.FailReason != ReasonMultipleCriteria {
		t.Errorf("expected %q, got %q", ReasonMultipleCriteria, q.FailReason)
	}
}

func TestDetectSetup_InsufficientHistory(t *testing.T) {
	q := DetectSetup(wideHistory(50, 110, 100), 5)
	if q.Qualifies {
		t.Fatal("short history must not qualify")
	}
	if q.FailReason != ReasonInsufficientHistory {
		t.Errorf("expected %q, got %q", ReasonInsufficientHistory, q.FailReason)
	}
}

func TestDetectSetup_HalvedRangeScenario(t *testing.T) {
	// History moves ~10% per 5 days; the current 5-day window moves 5%.
	bars := wideHistory(65, 110, 100)
	bars = append(bars,
		bar(105, 100, 102.4),
		bar(105, 100, 102.6),
		bar(105, 100, 102.4),
		bar(105, 100, 102.6),
		bar(105, 100, 102.5),
	)

	q := DetectSetup(bars, 5)
	if math.Abs(q.CurrentRangePercent-5.0) > 1e-9 {
		t.Errorf("expected current range 5%%, got %v", q.CurrentRangePercent)
	}

	baseline := HistoricalVolatility(bars, 5, HistoryLookback)
	want := (baseline - 5.0) / baseline * 100
	if math.Abs(q.ContractionPercent-want) > 1e-9 {
		t.Errorf("expected compression %v, got %v", want, q.ContractionPercent)
	}
	if q.ContractionPercent < 45 || q.ContractionPercent > 55 {
		t.Errorf("expected roughly halved range (~50%% compression), got %v", q.ContractionPercent)
	}
	if !q.Qualifies {
		t.Errorf("expected qualification, got fail reason %q", q.FailReason)
	}
}
