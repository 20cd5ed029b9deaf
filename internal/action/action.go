package action

import (
	"context"

	"github.com/steve-rackham/azfleet/internal/model"
)

// Handler reconciles one action family across a fleet, one target at a
// time. The engine drives every target through the same three phases:
// Probe reads the target's current state from the provider, Decide maps
// that state to a verdict (pure, no I/O), and Execute applies the
// mutation for targets Decide marked Act.
//
// Run parameters (agent kind, workspace, warn window) are fixed at
// construction so Decide stays deterministic for a given observation.
type Handler interface {
	// Action reports which catalog action this handler serves.
	Action() model.Action

	// Probe fetches the target's current state. It must not mutate the
	// provider; a probe failure skips the target without affecting others.
	Probe(ctx context.Context, target model.Target) (model.Observation, error)

	// Decide derives a verdict from a completed observation. It must not
	// perform I/O and must return the same verdict for the same inputs.
	Decide(target model.Target, obs model.Observation) model.Decision

	// Execute applies the state change for a target Decide marked Act and
	// returns a short detail line for reporting.
	Execute(ctx context.Context, target model.Target, obs model.Observation) (string, error)
}

// Validator is implemented by handlers that can reject a malformed request
// before any worker is spawned, e.g. an agent kind outside the catalog.
type Validator interface {
	ValidateRequest(req model.Request) error
}
