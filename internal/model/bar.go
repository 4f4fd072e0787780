package model

import "time"

// Bar represents a single daily OHLCV bar.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range returns the high-low spread of the bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// Closes extracts the close prices from a bar series.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Tail returns the trailing n bars of the series (the whole series if shorter).
func Tail(bars []Bar, n int) []Bar {
	if len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}
