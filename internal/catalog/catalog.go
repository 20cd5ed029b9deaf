// Package catalog maps logical actions to the provider parameters each
// target variant requires. Agents and variants are added as table entries,
// not new control flow.
package catalog

import (
	"sort"

	"github.com/steve-rackham/azfleet/internal/model"
)

// ExtensionSpec is the provider parameter set for installing one agent kind
// on one OS variant.
type ExtensionSpec struct {
	Publisher        string
	Type             string
	Version          string
	NeedsWorkspace   bool
	AutoUpgradeMinor bool
}

type agentVariant struct {
	kind model.AgentKind
	os   model.OSKind
}

var extensions = map[agentVariant]ExtensionSpec{
	{model.AgentMonitor, model.OSWindows}: {
		Publisher:        "Microsoft.EnterpriseCloud.Monitoring",
		Type:             "MicrosoftMonitoringAgent",
		Version:          "1.0",
		NeedsWorkspace:   true,
		AutoUpgradeMinor: true,
	},
	{model.AgentMonitor, model.OSLinux}: {
		Publisher:        "Microsoft.EnterpriseCloud.Monitoring",
		Type:             "OmsAgentForLinux",
		Version:          "1.13",
		NeedsWorkspace:   true,
		AutoUpgradeMinor: true,
	},
	{model.AgentDependency, model.OSWindows}: {
		Publisher:        "Microsoft.Azure.Monitoring.DependencyAgent",
		Type:             "DependencyAgentWindows",
		Version:          "9.10",
		AutoUpgradeMinor: true,
	},
	{model.AgentDependency, model.OSLinux}: {
		Publisher:        "Microsoft.Azure.Monitoring.DependencyAgent",
		Type:             "DependencyAgentLinux",
		Version:          "9.10",
		AutoUpgradeMinor: true,
	},
}

// Extension resolves the extension parameters for an agent kind on an OS
// variant. The second return is false when the pair is outside the catalog.
func Extension(kind model.AgentKind, os model.OSKind) (ExtensionSpec, bool) {
	spec, ok := extensions[agentVariant{kind, os}]
	return spec, ok
}

// KnownAgentKind reports whether any variant entry exists for the kind.
func KnownAgentKind(kind model.AgentKind) bool {
	for variant := range extensions {
		if variant.kind == kind {
			return true
		}
	}
	return false
}

// KindNeedsWorkspace reports whether any variant of the kind requires
// workspace settings.
func KindNeedsWorkspace(kind model.AgentKind) bool {
	for variant, spec := range extensions {
		if variant.kind == kind && spec.NeedsWorkspace {
			return true
		}
	}
	return false
}

// AgentKinds lists the catalog's agent kinds, sorted, for error messages.
func AgentKinds() []string {
	seen := make(map[string]struct{})
	for variant := range extensions {
		seen[string(variant.kind)] = struct{}{}
	}
	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// PowerSpec describes the legal transition for a power action: the state it
// converges to and the only state it may act from.
type PowerSpec struct {
	Target model.PowerState
	From   model.PowerState
}

var powerTransitions = map[model.Action]PowerSpec{
	model.ActionPowerStart: {Target: model.PowerRunning, From: model.PowerDeallocated},
	model.ActionPowerStop:  {Target: model.PowerDeallocated, From: model.PowerRunning},
}

// Power resolves the transition table entry for a power action.
func Power(action model.Action) (PowerSpec, bool) {
	spec, ok := powerTransitions[action]
	return spec, ok
}

// ExportSpec describes one exportable resource kind.
type ExportSpec struct {
	// FileSuffix is appended to the target name for the artifact file.
	FileSuffix string
}

var exporters = map[string]ExportSpec{
	"nsg": {FileSuffix: ".nsg.json"},
}

// Exporter resolves an export resource kind. Unrecognized kinds are
// rejected, never guessed at.
func Exporter(kind string) (ExportSpec, bool) {
	spec, ok := exporters[kind]
	return spec, ok
}
