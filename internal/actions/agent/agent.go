// Package agentaction reconciles monitoring agent extensions across a VM
// fleet. The extension parameters come from the catalog; the handler only
// probes attached extensions and installs the missing one.
package agentaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/steve-rackham/azfleet/internal/action"
	"github.com/steve-rackham/azfleet/internal/catalog"
	"github.com/steve-rackham/azfleet/internal/model"
	azfleeterrors "github.com/steve-rackham/azfleet/pkg/errors"
)

// Provider is the compute surface the handler needs.
type Provider interface {
	ListExtensions(ctx context.Context, target model.Target) ([]string, error)
	InstallExtension(ctx context.Context, target model.Target, spec catalog.ExtensionSpec, ws model.WorkspaceRef) (string, error)
}

type agentHandler struct {
	provider  Provider
	kind      model.AgentKind
	workspace model.WorkspaceRef
}

// New creates the agent-install handler for one run.
func New(provider Provider, kind model.AgentKind, workspace model.WorkspaceRef) action.Handler {
	return &agentHandler{provider: provider, kind: kind, workspace: workspace}
}

var _ action.Handler = (*agentHandler)(nil)
var _ action.Validator = (*agentHandler)(nil)

func (h *agentHandler) Action() model.Action { return model.ActionAgentInstall }

// ValidateRequest rejects agent kinds outside the catalog and monitor
// installs without workspace settings, before any worker spawns.
func (h *agentHandler) ValidateRequest(req model.Request) error {
	if !catalog.KnownAgentKind(req.AgentKind) {
		return azfleeterrors.NewUnsupportedActionError(
			string(model.ActionAgentInstall),
			fmt.Sprintf("unknown agent kind %q (known: %s)", req.AgentKind, strings.Join(catalog.AgentKinds(), ", ")),
		)
	}
	if catalog.KindNeedsWorkspace(req.AgentKind) && (req.Workspace.ID == "" || req.Workspace.Key == "") {
		return azfleeterrors.NewValidationError(
			"agent.workspace",
			fmt.Sprintf("%s agents require a workspace id and key", req.AgentKind),
			nil,
		)
	}
	return nil
}

func (h *agentHandler) Probe(ctx context.Context, target model.Target) (model.Observation, error) {
	extensions, err := h.provider.ListExtensions(ctx, target)
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{Extensions: extensions}, nil
}

func (h *agentHandler) Decide(target model.Target, obs model.Observation) model.Decision {
	spec, ok := catalog.Extension(h.kind, target.OS)
	if !ok {
		return model.RejectState(string(target.OS),
			fmt.Sprintf("no %s agent for %s", h.kind, target.OS))
	}
	if obs.HasExtension(spec.Type) {
		return model.Skip(fmt.Sprintf("%s already attached", spec.Type))
	}
	return model.Act(fmt.Sprintf("%s not attached", spec.Type))
}

func (h *agentHandler) Execute(ctx context.Context, target model.Target, obs model.Observation) (string, error) {
	spec, ok := catalog.Extension(h.kind, target.OS)
	if !ok {
		return "", fmt.Errorf("no %s agent for %s", h.kind, target.OS)
	}
	return h.provider.InstallExtension(ctx, target, spec, h.workspace)
}
