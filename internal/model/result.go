package model

// ContractionLevel classifies how tight a squeeze is.
type ContractionLevel string

const (
	LevelExtreme  ContractionLevel = "EXTREME"
	LevelHigh     ContractionLevel = "HIGH"
	LevelModerate ContractionLevel = "MODERATE"
)

// SqueezeStatus is the on/off state of the volatility squeeze.
type SqueezeStatus string

const (
	SqueezeOn  SqueezeStatus = "ON"
	SqueezeOff SqueezeStatus = "OFF"
)

// SqueezeState is the outcome of the Bollinger-inside-Keltner test for one
// series/period combination.
type SqueezeState struct {
	On               bool    `json:"on"`
	BandwidthPercent float64 `json:"bandwidthPercent"`
}

// PivotQualification carries the sideways-consolidation check and its full
// diagnostics, so callers can see why a symbol failed, not just that it did.
type PivotQualification struct {
	Qualifies           bool    `json:"qualifies"`
	ContractionPercent  float64 `json:"contractionPercent"`
	CurrentRangePercent float64 `json:"currentRangePercent"`
	NetMovePercent      float64 `json:"netMovePercent"`
	PriceInRange        float64 `json:"priceInRange"`
	IsSideways          bool    `json:"isSideways"`
	NotAtExtremes       bool    `json:"notAtExtremes"`
	CurrentBarTight     bool    `json:"currentBarTight"`
	FailReason          string  `json:"failReason,omitempty"`
}

// ContractionResult is one evaluated (symbol, lookback period) pair.
// Built once per analysis call and never mutated afterward.
type ContractionResult struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"currentPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Period        int     `json:"period"`
	CurrentVolume float64 `json:"currentVolume"`

	ATR              float64          `json:"atr"`
	ContractionScore float64          `json:"contractionScore"`
	Level            ContractionLevel `json:"contractionLevel"`
	DaysSinceHigh    int              `json:"daysSinceHigh"`
	DaysSinceLow     int              `json:"daysSinceLow"`
	PricePosition    float64          `json:"pricePosition"`

	SqueezeStatus    SqueezeStatus      `json:"squeezeStatus"`
	BandwidthPercent float64            `json:"bandwidthPercent"`
	Pivot            PivotQualification `json:"pivot"`
}
