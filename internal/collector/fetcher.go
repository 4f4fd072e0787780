package collector

import (
	"context"

	"SqueezeScan/internal/model"
)

// Fetcher retrieves daily bars for one symbol, covering roughly `days`
// calendar days back, in ascending time order.
//
// Contract: "no data for this symbol" (delisted, sparse history, empty
// provider payload) is a soft failure reported as an empty slice with a nil
// error. A non-nil error means the transport or decoding failed.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error)
	Name() string
}
