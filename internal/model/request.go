package model

import (
	"fmt"
	"time"
)

// Action is one member of the closed set of reconciliation actions.
type Action string

const (
	// ActionAgentInstall installs a monitoring agent extension on each VM.
	ActionAgentInstall Action = "agent-install"
	// ActionPowerStart brings each VM from deallocated to running.
	ActionPowerStart Action = "power-start"
	// ActionPowerStop deallocates each running VM.
	ActionPowerStop Action = "power-stop"
	// ActionExportNSG exports network security group definitions.
	ActionExportNSG Action = "export-nsg"
	// ActionCredsScan flags application credentials nearing expiry.
	ActionCredsScan Action = "creds-scan"
)

// AgentKind selects which monitoring agent an agent-install run deploys.
type AgentKind string

const (
	// AgentMonitor is the Log Analytics monitoring agent.
	AgentMonitor AgentKind = "monitor"
	// AgentDependency is the Service Map dependency agent.
	AgentDependency AgentKind = "dependency"
)

// ActiveVerb returns the progress-line verb for the acting phase.
func (a Action) ActiveVerb() string {
	switch a {
	case ActionAgentInstall:
		return "installing"
	case ActionPowerStart:
		return "starting"
	case ActionPowerStop:
		return "stopping"
	case ActionExportNSG:
		return "exporting"
	case ActionCredsScan:
		return "scanning"
	default:
		return "acting"
	}
}

// WorkspaceRef carries the Log Analytics workspace an agent reports to.
// The key is a secret and must never appear in progress lines or logs.
type WorkspaceRef struct {
	ID  string
	Key string
}

// Request is the action requested for a run plus its action-specific
// parameters. It is built once and shared read-only across all workers.
type Request struct {
	Action     Action
	AgentKind  AgentKind     // agent-install only
	Workspace  WorkspaceRef  // agent-install only
	WarnWithin time.Duration // creds-scan only
}

// Label renders the request for summaries and progress lines.
func (r Request) Label() string {
	if r.Action == ActionAgentInstall {
		return fmt.Sprintf("%s (%s)", r.Action, r.AgentKind)
	}
	return string(r.Action)
}
