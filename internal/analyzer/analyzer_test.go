package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"SqueezeScan/internal/collector"
	"SqueezeScan/internal/model"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		period int
		score  float64
		want   model.ContractionLevel
	}{
		{5, 99.99, model.LevelModerate},
		{5, 100, model.LevelHigh},
		{5, 199.99, model.LevelHigh},
		{5, 200, model.LevelExtreme},
		{13, 124.99, model.LevelModerate},
		{13, 125, model.LevelHigh},
		{13, 249.99, model.LevelHigh},
		{13, 250, model.LevelExtreme},
		{5, 0, model.LevelModerate},
	}
	for _, tt := range tests {
		if got := LevelForScore(tt.period, tt.score); got != tt.want {
			t.Errorf("LevelForScore(%d, %v) = %s, want %s", tt.period, tt.score, got, tt.want)
		}
	}
}

func TestAnalyzeSymbol_TwoPeriodsInOrder(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.Bar{"AAPL": collector.GenerateBars(100, 70)},
	}
	a := New(mock)

	results, err := a.AnalyzeSymbol(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results (5d and 13d), got %d", len(results))
	}
	if results[0].Period != 5 || results[1].Period != 13 {
		t.Errorf("expected periods [5 13], got [%d %d]", results[0].Period, results[1].Period)
	}
	for _, r := range results {
		if r.Symbol != "AAPL" {
			t.Errorf("expected symbol AAPL, got %q", r.Symbol)
		}
		if r.CurrentPrice <= 0 {
			t.Errorf("period %d: expected positive price, got %v", r.Period, r.CurrentPrice)
		}
		if r.ATR <= 0 {
			t.Errorf("period %d: expected positive ATR, got %v", r.Period, r.ATR)
		}
		if r.PricePosition < 0 || r.PricePosition > 100 {
			t.Errorf("period %d: price position out of range: %v", r.Period, r.PricePosition)
		}
		if r.SqueezeStatus != model.SqueezeOn && r.SqueezeStatus != model.SqueezeOff {
			t.Errorf("period %d: bad squeeze status %q", r.Period, r.SqueezeStatus)
		}
	}
}

func TestAnalyzeSymbol_DaysSinceExtremes(t *testing.T) {
	// GenerateBars ramps upward, so the 20-bar high is the last bar and the
	// 20-bar low is the oldest bar in the window.
	mock := &collector.MockFetcher{
		Bars: map[string][]model.Bar{"TSLA": collector.GenerateBars(200, 70)},
	}
	results, err := New(mock).AnalyzeSymbol(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].DaysSinceHigh != 0 {
		t.Errorf("expected high on last bar, got DaysSinceHigh=%d", results[0].DaysSinceHigh)
	}
	if results[0].DaysSinceLow != SnapshotWindow-1 {
		t.Errorf("expected low at window start, got DaysSinceLow=%d", results[0].DaysSinceLow)
	}
}

func TestAnalyzeSymbol_SparseDataYieldsNothing(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.Bar{"THIN": collector.GenerateBars(100, 59)},
	}
	results, err := New(mock).AnalyzeSymbol(context.Background(), "THIN")
	if err != nil {
		t.Fatalf("sparse data must not be an error, got: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results below the bar floor, got %d", len(results))
	}
}

func TestAnalyzeSymbol_NoDataYieldsNothing(t *testing.T) {
	mock := &collector.MockFetcher{Bars: map[string][]model.Bar{}}
	results, err := New(mock).AnalyzeSymbol(context.Background(), "GHOST")
	if err != nil {
		t.Fatalf("missing symbol must not be an error, got: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestAnalyzeSymbol_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	mock := &collector.MockFetcher{Err: boom}
	_, err := New(mock).AnalyzeSymbol(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped cause, got: %v", err)
	}
	if !strings.Contains(err.Error(), "AAPL") {
		t.Errorf("expected symbol in error, got: %v", err)
	}
}
