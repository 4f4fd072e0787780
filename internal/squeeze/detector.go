package squeeze

import (
	"math"

	"SqueezeScan/internal/calculator"
	"SqueezeScan/internal/model"
)

const (
	// DefaultPeriod is the band window used when no lookback-specific period applies.
	DefaultPeriod = 20
	// KeltnerATRMult is the channel width multiplier.
	KeltnerATRMult = 1.5
	// ExpansionLookback is how many bars of history the breakout check averages over.
	ExpansionLookback = 10
	// ExpansionFactor marks a bar range as a breakout relative to the recent mean.
	ExpansionFactor = 1.5
)

// Detect runs the Bollinger-inside-Keltner test. The squeeze is on only when
// both Bollinger bounds sit strictly inside the Keltner bounds.
func Detect(bars []model.Bar, period int) model.SqueezeState {
	bb := calculator.BollingerBands(bars, period)
	kc := calculator.KeltnerChannels(bars, period, KeltnerATRMult)

	state := model.SqueezeState{
		On: bb.Upper < kc.Upper && bb.Lower > kc.Lower,
	}
	if bb.Middle != 0 {
		state.BandwidthPercent = (bb.Upper - bb.Lower) / bb.Middle * 100
	}
	return state
}

// HasRecentExpansion reports whether either of the last two bars already broke
// out: a bar range at or above ExpansionFactor times the mean range of the
// `lookback` bars preceding those two.
func HasRecentExpansion(bars []model.Bar, lookback int) bool {
	if len(bars) < lookback+2 {
		return false
	}

	base := bars[len(bars)-lookback-2 : len(bars)-2]
	sum := 0.0
	for _, b := range base {
		sum += b.Range()
	}
	mean := sum / float64(len(base))
	if mean == 0 {
		return false
	}

	for _, b := range bars[len(bars)-2:] {
		if b.Range() >= ExpansionFactor*mean {
			return true
		}
	}
	return false
}

// Status combines the squeeze test with the breakout check: a recent
// expansion forces the status off, since the setup is no longer forming.
func Status(bars []model.Bar, period int) (model.SqueezeStatus, float64) {
	state := Detect(bars, period)
	if HasRecentExpansion(bars, ExpansionLookback) {
		return model.SqueezeOff, state.BandwidthPercent
	}
	if state.On {
		return model.SqueezeOn, state.BandwidthPercent
	}
	return model.SqueezeOff, state.BandwidthPercent
}

// Score rates an active squeeze by tightness: 0 when the squeeze is off,
// otherwise (1/bandwidth)*100 rounded to two decimals, so tighter bandwidth
// scores higher.
func Score(bars []model.Bar, period int) float64 {
	status, bandwidth := Status(bars, period)
	if status != model.SqueezeOn || bandwidth == 0 {
		return 0
	}
	return math.Round(1/bandwidth*100*100) / 100
}
