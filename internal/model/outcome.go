package model

import "time"

// Verdict is the idempotency decision for one target.
type Verdict string

const (
	// VerdictSkip means the target already satisfies the request.
	VerdictSkip Verdict = "skip"
	// VerdictAct means the target's state differs and action is needed.
	VerdictAct Verdict = "act"
	// VerdictReject means the action is not applicable to the target's
	// observed state or variant; it is reported, never attempted.
	VerdictReject Verdict = "reject"
)

// Decision pairs a verdict with its human-readable reason. It is computed
// purely from an observation and consumed immediately by the engine. State
// carries the observed-state annotation for reject reporting.
type Decision struct {
	Verdict Verdict
	Reason  string
	State   string
}

// Skip builds a skip decision.
func Skip(reason string) Decision { return Decision{Verdict: VerdictSkip, Reason: reason} }

// Act builds an act decision.
func Act(reason string) Decision { return Decision{Verdict: VerdictAct, Reason: reason} }

// Reject builds a reject decision.
func Reject(reason string) Decision { return Decision{Verdict: VerdictReject, Reason: reason} }

// RejectState builds a reject decision annotated with the observed state
// that made the action inapplicable.
func RejectState(state, reason string) Decision {
	return Decision{Verdict: VerdictReject, Reason: reason, State: state}
}

const (
	// StatusSkipped indicates the target already satisfied the request.
	StatusSkipped = "skipped"
	// StatusSucceeded marks a completed action.
	StatusSucceeded = "succeeded"
	// StatusFailed marks a probe, precondition, or action failure.
	StatusFailed = "failed"
	// StatusWouldAct indicates dry-run would have acted on the target.
	StatusWouldAct = "would_act"
)

// Outcome is the terminal per-target result. Exactly one outcome is produced
// for every target in the input collection, written once by its owning
// worker.
type Outcome struct {
	Target    Target
	Status    string
	Detail    string
	Err       error
	Duration  time.Duration
	Timestamp time.Time
}
