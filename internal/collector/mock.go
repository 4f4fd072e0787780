package collector

import (
	"context"
	"sync"
	"time"

	"SqueezeScan/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Safe for concurrent fetches.
type MockFetcher struct {
	Bars   map[string][]model.Bar // per-symbol canned series
	Err    error                  // returned for every fetch when set
	ErrFor map[string]error       // per-symbol fetch errors
	Price  float64                // base price for generated bars when Bars is empty

	mu      sync.Mutex
	fetched []string
}

func (m *MockFetcher) Name() string { return "mock" }

// Fetched returns the symbols fetched so far.
func (m *MockFetcher) Fetched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.Bar, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, symbol)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.ErrFor[symbol]; ok {
		return nil, err
	}
	if m.Bars != nil {
		return m.Bars[symbol], nil
	}
	return GenerateBars(m.Price, days), nil
}

// GenerateBars builds a mildly drifting synthetic daily series around basePrice.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
