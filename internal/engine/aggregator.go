package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/steve-rackham/azfleet/internal/model"
)

// Aggregator accumulates per-target outcomes produced by concurrent
// workers. Counters are atomic, so recording never loses updates and
// snapshots never block workers.
type Aggregator struct {
	runID   string
	action  string
	started time.Time

	processed atomic.Int64
	skipped   atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	wouldAct  atomic.Int64

	mu       sync.Mutex
	outcomes []model.Outcome

	finalizeOnce sync.Once
	elapsed      time.Duration
}

// NewAggregator creates an aggregator for one run and starts the elapsed
// clock.
func NewAggregator(runID, action string) *Aggregator {
	return &Aggregator{
		runID:   runID,
		action:  action,
		started: time.Now(),
	}
}

// Record adds one outcome. Safe to call concurrently from any worker; each
// worker calls it exactly once per target.
func (a *Aggregator) Record(outcome model.Outcome) {
	a.processed.Add(1)

	switch outcome.Status {
	case model.StatusSkipped:
		a.skipped.Add(1)
	case model.StatusSucceeded:
		a.succeeded.Add(1)
	case model.StatusWouldAct:
		a.wouldAct.Add(1)
	default:
		a.failed.Add(1)
	}

	a.mu.Lock()
	a.outcomes = append(a.outcomes, outcome)
	a.mu.Unlock()
}

// Snapshot returns the totals at this instant, without waiting for
// outstanding workers.
func (a *Aggregator) Snapshot() model.Summary {
	return a.summary(time.Since(a.started))
}

// Finalize freezes the elapsed duration and returns the summary. It must
// only be called after all workers have joined; repeated calls return the
// same summary.
func (a *Aggregator) Finalize() model.Summary {
	a.finalizeOnce.Do(func() {
		a.elapsed = time.Since(a.started)
	})
	return a.summary(a.elapsed)
}

// Outcomes returns the recorded outcomes in arrival order.
func (a *Aggregator) Outcomes() []model.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.Outcome, len(a.outcomes))
	copy(out, a.outcomes)
	return out
}

func (a *Aggregator) summary(elapsed time.Duration) model.Summary {
	return model.Summary{
		RunID:     a.runID,
		Action:    a.action,
		Processed: a.processed.Load(),
		Skipped:   a.skipped.Load(),
		Succeeded: a.succeeded.Load(),
		Failed:    a.failed.Load(),
		WouldAct:  a.wouldAct.Load(),
		Started:   a.started,
		Elapsed:   elapsed,
	}
}
