package model

// EventType tags the variants of a ScanEvent.
type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
	EventComplete EventType = "complete"
)

// Progress reports how far a scan has advanced through its symbol list.
type Progress struct {
	Symbol  string `json:"symbol"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

// SymbolError reports a single symbol's analysis failure.
type SymbolError struct {
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

// ScanEvent is the tagged variant emitted by the scan orchestrator. Exactly
// one of the payload fields is set, according to Type; Complete carries none.
type ScanEvent struct {
	Type     EventType          `json:"type"`
	Progress *Progress          `json:"progress,omitempty"`
	Result   *ContractionResult `json:"result,omitempty"`
	Error    *SymbolError       `json:"error,omitempty"`
}

// ProgressEvent builds a progress event.
func ProgressEvent(symbol string, current, total int) ScanEvent {
	return ScanEvent{Type: EventProgress, Progress: &Progress{Symbol: symbol, Current: current, Total: total}}
}

// ResultEvent builds a result event.
func ResultEvent(r *ContractionResult) ScanEvent {
	return ScanEvent{Type: EventResult, Result: r}
}

// ErrorEvent builds an error event for one failed symbol.
func ErrorEvent(symbol string, err error) ScanEvent {
	return ScanEvent{Type: EventError, Error: &SymbolError{Symbol: symbol, Message: err.Error()}}
}

// CompleteEvent builds the terminal event of a scan stream.
func CompleteEvent() ScanEvent {
	return ScanEvent{Type: EventComplete}
}
