package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/steve-rackham/azfleet/internal/action"
	"github.com/steve-rackham/azfleet/internal/logger"
	"github.com/steve-rackham/azfleet/internal/model"
	azfleeterrors "github.com/steve-rackham/azfleet/pkg/errors"
)

// RunContext contains runtime state shared across workers for one run.
type RunContext struct {
	Context     context.Context
	RunID       string
	Request     model.Request
	Targets     []model.Target
	DryRun      bool
	MaxInFlight int           // 0 means unbounded
	Timeout     time.Duration // per target, 0 means none
	Logger      *logger.Logger
	Sink        Sink
}

// Result is the terminal product of one run: the aggregate summary plus one
// outcome per completed target.
type Result struct {
	Summary  model.Summary
	Outcomes []model.Outcome
}

// Run reconciles every target against the requested action under bounded
// concurrency. Per-target failures never abort the run; the returned error
// is non-nil only for pre-spawn rejections (unknown action, invalid
// request, empty collection) or context cancellation, in which case the
// result still reflects the outcomes that completed.
func Run(rc *RunContext) (*Result, error) {
	if rc == nil {
		return nil, fmt.Errorf("run context is nil")
	}
	if len(rc.Targets) == 0 {
		return nil, azfleeterrors.NewValidationError("targets", "target collection is empty", nil)
	}

	handler, err := action.Get(rc.Request.Action)
	if err != nil {
		return nil, err
	}
	if v, ok := handler.(action.Validator); ok {
		if err := v.ValidateRequest(rc.Request); err != nil {
			return nil, err
		}
	}

	ctx := rc.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var pool chan struct{}
	if rc.MaxInFlight > 0 {
		pool = make(chan struct{}, rc.MaxInFlight)
	}

	if rc.Logger != nil {
		rc.Logger.WithRun(rc.RunID, rc.Request.Label()).
			WithFields(map[string]any{"targets": len(rc.Targets), "dry_run": rc.DryRun}).
			Debug("run starting")
	}

	agg := NewAggregator(rc.RunID, rc.Request.Label())

	var wg sync.WaitGroup
	for i := range rc.Targets {
		target := rc.Targets[i]
		wg.Add(1)
		go func(target model.Target) {
			defer wg.Done()

			outcome := runTarget(ctx, rc, handler, pool, target)
			if outcome == nil {
				// Cancelled before the target was touched; a partial
				// summary reflects only completed outcomes.
				return
			}
			agg.Record(*outcome)
		}(target)
	}
	wg.Wait()

	res := &Result{Summary: agg.Finalize(), Outcomes: agg.Outcomes()}

	if rc.Logger != nil {
		rc.Logger.WithRun(rc.RunID, rc.Request.Label()).
			WithFields(map[string]any{
				"processed": res.Summary.Processed,
				"skipped":   res.Summary.Skipped,
				"succeeded": res.Summary.Succeeded,
				"failed":    res.Summary.Failed,
			}).
			Info("run finished")
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// runTarget drives one target through probe, decide, and execute. It
// returns nil only when cancellation prevented the target from being
// probed at all.
func runTarget(ctx context.Context, rc *RunContext, h action.Handler, pool chan struct{}, target model.Target) *model.Outcome {
	if ctx.Err() != nil {
		return nil
	}

	targetCtx := ctx
	var cancel context.CancelFunc
	if rc.Timeout > 0 {
		targetCtx, cancel = context.WithTimeout(ctx, rc.Timeout)
		defer cancel()
	}

	if pool != nil {
		select {
		case pool <- struct{}{}:
			defer func() { <-pool }()
		case <-targetCtx.Done():
			return nil
		}
	}

	start := time.Now()
	emit(rc, target, PhaseProbing, "")

	obs, err := h.Probe(targetCtx, target)
	if err != nil {
		probeErr := azfleeterrors.NewProbeError(target.Key(), err)
		emit(rc, target, PhaseFailed, probeErr.Error())
		return failedOutcome(target, probeErr, start)
	}

	decision := h.Decide(target, obs)
	switch decision.Verdict {
	case model.VerdictSkip:
		emit(rc, target, PhaseSkipped, decision.Reason)
		return &model.Outcome{
			Target:    target,
			Status:    model.StatusSkipped,
			Detail:    decision.Reason,
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		}

	case model.VerdictReject:
		stateErr := azfleeterrors.NewStateError(target.Key(), decision.State, decision.Reason)
		emit(rc, target, PhaseFailed, stateErr.Error())
		return failedOutcome(target, stateErr, start)

	case model.VerdictAct:
		if rc.DryRun {
			emit(rc, target, PhaseWouldAct, decision.Reason)
			return &model.Outcome{
				Target:    target,
				Status:    model.StatusWouldAct,
				Detail:    decision.Reason,
				Duration:  time.Since(start),
				Timestamp: time.Now(),
			}
		}

		emit(rc, target, ActivePhase(rc.Request.Action), decision.Reason)
		detail, err := h.Execute(targetCtx, target, obs)
		if err != nil {
			actionErr := azfleeterrors.NewActionError(target.Key(), rc.Request.Label(), err)
			emit(rc, target, PhaseFailed, actionErr.Error())
			return failedOutcome(target, actionErr, start)
		}

		emit(rc, target, PhaseSucceeded, detail)
		return &model.Outcome{
			Target:    target,
			Status:    model.StatusSucceeded,
			Detail:    detail,
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		}
	}

	err = fmt.Errorf("unknown verdict %q", decision.Verdict)
	emit(rc, target, PhaseFailed, err.Error())
	return failedOutcome(target, err, start)
}

func failedOutcome(target model.Target, err error, start time.Time) *model.Outcome {
	return &model.Outcome{
		Target:    target,
		Status:    model.StatusFailed,
		Detail:    err.Error(),
		Err:       err,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	}
}

func emit(rc *RunContext, target model.Target, phase Phase, message string) {
	if rc.Sink == nil {
		return
	}
	rc.Sink.HandleEvent(Event{
		Target:  target,
		Action:  rc.Request.Action,
		Phase:   phase,
		Message: message,
	})
}
