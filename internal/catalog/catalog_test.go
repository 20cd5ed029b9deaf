package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steve-rackham/azfleet/internal/model"
)

func TestExtensionCoversEveryAgentVariant(t *testing.T) {
	t.Parallel()

	for _, kind := range []model.AgentKind{model.AgentMonitor, model.AgentDependency} {
		for _, os := range []model.OSKind{model.OSWindows, model.OSLinux} {
			spec, ok := Extension(kind, os)
			require.True(t, ok, "missing catalog entry for %s/%s", kind, os)
			require.NotEmpty(t, spec.Publisher)
			require.NotEmpty(t, spec.Type)
			require.NotEmpty(t, spec.Version)
		}
	}
}

func TestExtensionRejectsUnknownVariant(t *testing.T) {
	t.Parallel()

	_, ok := Extension(model.AgentMonitor, model.OSUnknown)
	require.False(t, ok)

	_, ok = Extension(model.AgentKind("antivirus"), model.OSWindows)
	require.False(t, ok)
}

func TestOnlyMonitorAgentNeedsWorkspace(t *testing.T) {
	t.Parallel()

	monitor, ok := Extension(model.AgentMonitor, model.OSLinux)
	require.True(t, ok)
	require.True(t, monitor.NeedsWorkspace)

	dependency, ok := Extension(model.AgentDependency, model.OSLinux)
	require.True(t, ok)
	require.False(t, dependency.NeedsWorkspace)
}

func TestKnownAgentKind(t *testing.T) {
	t.Parallel()

	require.True(t, KnownAgentKind(model.AgentMonitor))
	require.True(t, KnownAgentKind(model.AgentDependency))
	require.False(t, KnownAgentKind(model.AgentKind("antivirus")))
}

func TestAgentKindsSorted(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"dependency", "monitor"}, AgentKinds())
}

func TestPowerTransitions(t *testing.T) {
	t.Parallel()

	start, ok := Power(model.ActionPowerStart)
	require.True(t, ok)
	require.Equal(t, model.PowerDeallocated, start.From)
	require.Equal(t, model.PowerRunning, start.Target)

	stop, ok := Power(model.ActionPowerStop)
	require.True(t, ok)
	require.Equal(t, model.PowerRunning, stop.From)
	require.Equal(t, model.PowerDeallocated, stop.Target)

	_, ok = Power(model.ActionExportNSG)
	require.False(t, ok)
}

func TestExporterClosedSet(t *testing.T) {
	t.Parallel()

	spec, ok := Exporter("nsg")
	require.True(t, ok)
	require.Equal(t, ".nsg.json", spec.FileSuffix)

	_, ok = Exporter("route-table")
	require.False(t, ok)
}
