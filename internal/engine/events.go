package engine

import (
	"github.com/steve-rackham/azfleet/internal/logger"
	"github.com/steve-rackham/azfleet/internal/model"
)

// Phase labels one step of a target's progress through the engine.
type Phase string

const (
	// PhaseProbing is emitted before the target's state is read.
	PhaseProbing Phase = "probing"
	// PhaseSkipped is emitted when the target already satisfies the request.
	PhaseSkipped Phase = "skipped"
	// PhaseWouldAct is emitted in place of the acting phase during dry runs.
	PhaseWouldAct Phase = "would act"
	// PhaseSucceeded is emitted after a completed action.
	PhaseSucceeded Phase = "succeeded"
	// PhaseFailed is emitted for probe, precondition, and action failures.
	PhaseFailed Phase = "failed"
)

// ActivePhase returns the acting-phase label for an action, e.g. "starting"
// for a power-start run.
func ActivePhase(a model.Action) Phase {
	return Phase(a.ActiveVerb())
}

// Event is one per-target progress notification. Each worker emits its own
// target's events in order; ordering across targets is not defined.
type Event struct {
	Target  model.Target
	Action  model.Action
	Phase   Phase
	Message string
}

// Sink consumes progress events. Implementations must be safe for
// concurrent use: many workers emit at once and rely on the sink to
// serialize output.
type Sink interface {
	HandleEvent(Event)
}

// LoggerSink writes each event as a structured log entry. zerolog
// serializes each entry into a single write, so concurrent events never
// interleave within a line.
type LoggerSink struct {
	logger *logger.Logger
}

// NewLoggerSink creates a sink backed by the structured logger.
func NewLoggerSink(log *logger.Logger) *LoggerSink {
	return &LoggerSink{logger: log}
}

// HandleEvent renders the event as one log entry.
func (s *LoggerSink) HandleEvent(evt Event) {
	if s == nil || s.logger == nil {
		return
	}

	log := s.logger.
		WithTarget(evt.Target.Name, evt.Target.ResourceGroup).
		WithFields(map[string]any{"phase": string(evt.Phase)})

	msg := evt.Message
	if msg == "" {
		msg = string(evt.Phase)
	}

	switch evt.Phase {
	case PhaseFailed:
		log.Error(nil, msg)
	case PhaseProbing:
		log.Debug(msg)
	default:
		log.Info(msg)
	}
}

// MultiSink fans each event out to every sink in order.
type MultiSink []Sink

// HandleEvent forwards the event to each sink.
func (m MultiSink) HandleEvent(evt Event) {
	for _, s := range m {
		if s != nil {
			s.HandleEvent(evt)
		}
	}
}
