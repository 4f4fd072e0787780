package recorder

import "SqueezeScan/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *ScanRecord) error { return nil }

func (n *NoopRecorder) RecordResult(_ string, _ *model.ContractionResult) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
