package model

import "time"

// Summary aggregates a whole run. It is built incrementally by the
// aggregator and immutable once finalized after all workers join.
type Summary struct {
	RunID     string
	Action    string
	Processed int64
	Skipped   int64
	Succeeded int64
	Failed    int64
	WouldAct  int64
	Started   time.Time
	Elapsed   time.Duration
}
