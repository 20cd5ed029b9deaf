// Package poweraction converges VM power state: start brings deallocated
// VMs to running, stop deallocates running VMs. A VM observed in any other
// state is rejected, never acted on.
package poweraction

import (
	"context"
	"fmt"

	"github.com/steve-rackham/azfleet/internal/action"
	"github.com/steve-rackham/azfleet/internal/catalog"
	"github.com/steve-rackham/azfleet/internal/model"
)

// Provider is the compute surface the handler needs.
type Provider interface {
	PowerState(ctx context.Context, target model.Target) (model.PowerState, string, error)
	StartVM(ctx context.Context, target model.Target) (string, error)
	DeallocateVM(ctx context.Context, target model.Target) (string, error)
}

type powerHandler struct {
	provider Provider
	action   model.Action
}

// New creates a power handler for one direction, power-start or power-stop.
func New(provider Provider, direction model.Action) action.Handler {
	return &powerHandler{provider: provider, action: direction}
}

var _ action.Handler = (*powerHandler)(nil)

func (h *powerHandler) Action() model.Action { return h.action }

func (h *powerHandler) Probe(ctx context.Context, target model.Target) (model.Observation, error) {
	state, detail, err := h.provider.PowerState(ctx, target)
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{Power: state, PowerDetail: detail}, nil
}

func (h *powerHandler) Decide(target model.Target, obs model.Observation) model.Decision {
	spec, ok := catalog.Power(h.action)
	if !ok {
		return model.Reject(fmt.Sprintf("no power transition for %s", h.action))
	}

	switch obs.Power {
	case spec.Target:
		return model.Skip(fmt.Sprintf("already %s", spec.Target))
	case spec.From:
		return model.Act(fmt.Sprintf("%s, %s requested", obs.Power, h.action.ActiveVerb()))
	default:
		detail := obs.PowerDetail
		if detail == "" {
			detail = string(obs.Power)
		}
		return model.RejectState(detail,
			fmt.Sprintf("power state %q does not permit %s", detail, h.action))
	}
}

func (h *powerHandler) Execute(ctx context.Context, target model.Target, obs model.Observation) (string, error) {
	switch h.action {
	case model.ActionPowerStart:
		return h.provider.StartVM(ctx, target)
	case model.ActionPowerStop:
		return h.provider.DeallocateVM(ctx, target)
	default:
		return "", fmt.Errorf("no power transition for %s", h.action)
	}
}
