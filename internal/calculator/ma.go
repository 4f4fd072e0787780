package calculator

// SMA computes the simple moving average of the trailing `period` values.
// Returns 0 when fewer than `period` values are supplied.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period)
}

// EMA computes an exponential moving average seeded with the simple average
// of the first `period` values; the recursion only runs for values past the
// seed window, so given exactly `period` values the result is a plain mean.
// Returns 0 when fewer than `period` values are supplied.
func EMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)

	k := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*k + ema
	}
	return ema
}
