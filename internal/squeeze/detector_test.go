package squeeze

import (
	"math"
	"testing"

	"SqueezeScan/internal/model"
)

// coilBars builds bars whose closes alternate +-wiggle around base with a
// wide high-low spread, which keeps Keltner wide while Bollinger stays tight:
// a squeeze.
func coilBars(count int, base, wiggle, spread float64) []model.Bar {
	bars := make([]model.Bar, count)
	for i := range bars {
		c := base - wiggle
		if i%2 == 1 {
			c = base + wiggle
		}
		bars[i] = model.Bar{High: c + spread, Low: c - spread, Close: c}
	}
	return bars
}

// trendBars builds a steady ramp with tight daily spreads, which blows
// Bollinger out past Keltner: no squeeze.
func trendBars(count int, start, step float64) []model.Bar {
	bars := make([]model.Bar, count)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = model.Bar{High: c + 0.1, Low: c - 0.1, Close: c}
	}
	return bars
}

func TestDetect_SqueezeOn(t *testing.T) {
	bars := coilBars(30, 100, 0.5, 5)
	state := Detect(bars, 20)
	if !state.On {
		t.Fatal("expected squeeze on for tight closes inside wide channels")
	}
	// closes alternate 99.5/100.5: population stddev 0.5, band 1, width 2.
	if math.Abs(state.BandwidthPercent-2.0) > 1e-9 {
		t.Errorf("expected bandwidth 2%%, got %v", state.BandwidthPercent)
	}
}

func TestDetect_SqueezeOff(t *testing.T) {
	bars := trendBars(30, 80, 2)
	state := Detect(bars, 20)
	if state.On {
		t.Error("expected squeeze off for trending closes with tight spreads")
	}
}

func TestHasRecentExpansion_Boundary(t *testing.T) {
	build := func(lastRange float64) []model.Bar {
		bars := make([]model.Bar, 30)
		for i := range bars {
			bars[i] = model.Bar{High: 100.5, Low: 99.5, Close: 100}
		}
		bars[29] = model.Bar{High: 100 + lastRange/2, Low: 100 - lastRange/2, Close: 100}
		return bars
	}

	// Mean range of the 10 bars preceding the last two is 1.0.
	if !HasRecentExpansion(build(1.5), 10) {
		t.Error("range exactly 1.5x the mean must count as expansion")
	}
	if HasRecentExpansion(build(1.49), 10) {
		t.Error("range at 1.49x the mean must not count as expansion")
	}
}

func TestStatus_ExpansionForcesOff(t *testing.T) {
	bars := coilBars(30, 100, 0.5, 1)
	if !Detect(bars, 20).On {
		t.Fatal("fixture must be squeeze-on before the breakout bar")
	}

	// Replace the last bar with a breakout-sized range (3.0 vs mean 2.0).
	bars[29] = model.Bar{High: 101.5, Low: 98.5, Close: 100.5}
	status, _ := Status(bars, 20)
	if status != model.SqueezeOff {
		t.Errorf("recent expansion must force status OFF, got %s", status)
	}
}

func TestStatus_FollowsDetectWithoutExpansion(t *testing.T) {
	on := coilBars(30, 100, 0.5, 5)
	if status, _ := Status(on, 20); status != model.SqueezeOn {
		t.Errorf("expected ON, got %s", status)
	}
	off := trendBars(30, 80, 2)
	if status, _ := Status(off, 20); status != model.SqueezeOff {
		t.Errorf("expected OFF, got %s", status)
	}
}

func TestScore_MonotonicInBandwidth(t *testing.T) {
	tight := coilBars(30, 100, 0.5, 5) // bandwidth 2%
	loose := coilBars(30, 100, 1.0, 5) // bandwidth 4%

	scoreTight := Score(tight, 20)
	scoreLoose := Score(loose, 20)

	if math.Abs(scoreTight-50.0) > 1e-9 {
		t.Errorf("expected score 50 for 2%% bandwidth, got %v", scoreTight)
	}
	if math.Abs(scoreLoose-25.0) > 1e-9 {
		t.Errorf("expected score 25 for 4%% bandwidth, got %v", scoreLoose)
	}
	if scoreTight <= scoreLoose {
		t.Errorf("tighter bandwidth must score higher: %v vs %v", scoreTight, scoreLoose)
	}
}

func TestScore_ZeroWhenOff(t *testing.T) {
	if got := Score(trendBars(30, 80, 2), 20); got != 0 {
		t.Errorf("expected 0 for squeeze-off series, got %v", got)
	}
}
