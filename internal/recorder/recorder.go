package recorder

import "time"

// RunRecord captures the outcome of processing one symbol in one run.
type RunRecord struct {
	Symbol     string
	Source     string // "cache" or "provider"
	Bars       int
	FirstDate  time.Time
	LastDate   time.Time
	LastClose  float64
	Indicators string
	Err        string
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
