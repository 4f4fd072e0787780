package recorder

import (
	"time"

	"SqueezeScan/internal/model"
)

// ScanRecord summarizes one completed scan run.
type ScanRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Symbols    int
	Results    int
	Errors     int
}

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordScan(rec *ScanRecord) error
	RecordResult(scanID string, r *model.ContractionResult) error
	Close() error
}
