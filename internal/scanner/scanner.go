// Package scanner drives the symbol analyzer over arbitrary symbol lists in
// bounded batches, emitting a live event stream with per-symbol failure
// isolation and an inter-batch delay that respects provider rate limits.
package scanner

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"SqueezeScan/internal/analyzer"
	"SqueezeScan/internal/model"
)

const (
	// DefaultConcurrency is the batch width: how many symbols are in flight
	// between rate-limit pauses.
	DefaultConcurrency = 8
	// DefaultBatchDelay is the pause between batches.
	DefaultBatchDelay = 30 * time.Millisecond
	// progressEvery is the progress event cadence after the first symbol.
	progressEvery = 10
)

// Config holds per-scanner settings. Each Scanner owns its own copy, so
// independent scanners (and tests) never share state.
type Config struct {
	Concurrency int
	BatchDelay  time.Duration
	EventBuffer int
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = DefaultBatchDelay
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 16
	}
	return c
}

// Scanner runs scans. Every Scan call yields a fresh, independent stream with
// its own progress counters; a Scanner is safe for concurrent Scan calls.
type Scanner struct {
	analyzer *analyzer.Analyzer
	cfg      Config
}

// New creates a Scanner around the given analyzer.
func New(a *analyzer.Analyzer, cfg Config) *Scanner {
	return &Scanner{analyzer: a, cfg: cfg.withDefaults()}
}

// Scan analyzes the given symbols and returns a finite, single-consumption
// event stream: progress events at the first and every tenth symbol, zero to
// two results per symbol, one error event per failed symbol, and exactly one
// terminal complete event before the channel closes. Cancelling ctx stops
// fetching and analysis promptly; no work continues past that point.
func (s *Scanner) Scan(ctx context.Context, symbols []string) <-chan model.ScanEvent {
	syms := Normalize(symbols)
	events := make(chan model.ScanEvent, s.cfg.EventBuffer)

	go func() {
		defer close(events)

		total := len(syms)
		current := 0

		for start := 0; start < total; start += s.cfg.Concurrency {
			end := start + s.cfg.Concurrency
			if end > total {
				end = total
			}
			batch := syms[start:end]

			// Analyze the batch in parallel, then flush events in input
			// order, so the stream is indistinguishable from sequential
			// processing while fetches overlap.
			results := make([][]model.ContractionResult, len(batch))
			errs := make([]error, len(batch))
			var wg sync.WaitGroup
			for i, sym := range batch {
				wg.Add(1)
				go func(i int, sym string) {
					defer wg.Done()
					results[i], errs[i] = s.analyzer.AnalyzeSymbol(ctx, sym)
				}(i, sym)
			}
			wg.Wait()

			if ctx.Err() != nil {
				return
			}

			for i, sym := range batch {
				current++
				if current == 1 || current%progressEvery == 0 {
					if !s.emit(ctx, events, model.ProgressEvent(sym, current, total)) {
						return
					}
				}
				if errs[i] != nil {
					log.Printf("[WARN] scan %s: %v", sym, errs[i])
					if !s.emit(ctx, events, model.ErrorEvent(sym, errs[i])) {
						return
					}
					continue
				}
				for j := range results[i] {
					if !s.emit(ctx, events, model.ResultEvent(&results[i][j])) {
						return
					}
				}
			}

			if end < total {
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.cfg.BatchDelay):
				}
			}
		}

		s.emit(ctx, events, model.CompleteEvent())
	}()

	return events
}

func (s *Scanner) emit(ctx context.Context, events chan<- model.ScanEvent, ev model.ScanEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Normalize trims and uppercases the symbols, dropping entries that are empty
// after trimming.
func Normalize(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
