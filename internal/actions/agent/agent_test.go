package agentaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steve-rackham/azfleet/internal/catalog"
	"github.com/steve-rackham/azfleet/internal/model"
	azfleeterrors "github.com/steve-rackham/azfleet/pkg/errors"
)

type fakeProvider struct {
	extensions []string
	probeErr   error

	installedSpec catalog.ExtensionSpec
	installedWS   model.WorkspaceRef
	installCalls  int
	installErr    error
}

func (f *fakeProvider) ListExtensions(ctx context.Context, target model.Target) ([]string, error) {
	return f.extensions, f.probeErr
}

func (f *fakeProvider) InstallExtension(ctx context.Context, target model.Target, spec catalog.ExtensionSpec, ws model.WorkspaceRef) (string, error) {
	f.installCalls++
	f.installedSpec = spec
	f.installedWS = ws
	if f.installErr != nil {
		return "", f.installErr
	}
	return spec.Type + " provisioning Succeeded", nil
}

func windowsTarget() model.Target {
	return model.Target{Name: "vm-01", ResourceGroup: "rg-fleet", Location: "westeurope", OS: model.OSWindows}
}

func TestDecideSkipsWhenAgentAttached(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, model.AgentMonitor, model.WorkspaceRef{ID: "ws", Key: "secret"})

	// Providers suffix extension identifiers with versions; membership is a
	// substring match.
	obs := model.Observation{Extensions: []string{"MicrosoftMonitoringAgent-1.0.18067.0"}}
	decision := h.Decide(windowsTarget(), obs)

	require.Equal(t, model.VerdictSkip, decision.Verdict)
	require.Contains(t, decision.Reason, "MicrosoftMonitoringAgent")
}

func TestDecideActsWhenAgentMissing(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, model.AgentDependency, model.WorkspaceRef{})

	obs := model.Observation{Extensions: []string{"CustomScriptExtension"}}
	decision := h.Decide(windowsTarget(), obs)

	require.Equal(t, model.VerdictAct, decision.Verdict)
	require.Contains(t, decision.Reason, "DependencyAgentWindows")
}

func TestDecideRejectsUnknownOS(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, model.AgentMonitor, model.WorkspaceRef{ID: "ws", Key: "secret"})

	target := windowsTarget()
	target.OS = model.OSUnknown
	decision := h.Decide(target, model.Observation{})

	require.Equal(t, model.VerdictReject, decision.Verdict)
	require.Equal(t, "unknown", decision.State)
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, model.AgentMonitor, model.WorkspaceRef{ID: "ws", Key: "secret"}).(interface {
		ValidateRequest(model.Request) error
	})

	err := h.ValidateRequest(model.Request{Action: model.ActionAgentInstall, AgentKind: model.AgentKind("antivirus")})
	var unsupported *azfleeterrors.UnsupportedActionError
	require.ErrorAs(t, err, &unsupported)
	require.Contains(t, unsupported.Detail, "antivirus")
	require.Contains(t, unsupported.Detail, "dependency, monitor")

	err = h.ValidateRequest(model.Request{Action: model.ActionAgentInstall, AgentKind: model.AgentMonitor})
	var validation *azfleeterrors.ValidationError
	require.ErrorAs(t, err, &validation)

	require.NoError(t, h.ValidateRequest(model.Request{
		Action:    model.ActionAgentInstall,
		AgentKind: model.AgentMonitor,
		Workspace: model.WorkspaceRef{ID: "ws", Key: "secret"},
	}))
	require.NoError(t, h.ValidateRequest(model.Request{
		Action:    model.ActionAgentInstall,
		AgentKind: model.AgentDependency,
	}))
}

func TestProbeSurfacesProviderError(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{probeErr: errors.New("vm not found")}, model.AgentMonitor, model.WorkspaceRef{})

	_, err := h.Probe(context.Background(), windowsTarget())
	require.EqualError(t, err, "vm not found")
}

func TestExecuteInstallsCatalogSpec(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	ws := model.WorkspaceRef{ID: "ws-id", Key: "ws-key"}
	h := New(provider, model.AgentMonitor, ws)

	detail, err := h.Execute(context.Background(), windowsTarget(), model.Observation{})
	require.NoError(t, err)
	require.Contains(t, detail, "MicrosoftMonitoringAgent")

	require.Equal(t, 1, provider.installCalls)
	require.Equal(t, "Microsoft.EnterpriseCloud.Monitoring", provider.installedSpec.Publisher)
	require.Equal(t, ws, provider.installedWS)
}

func TestExecuteSurfacesProviderError(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{installErr: errors.New("VMExtensionProvisioningError")}
	h := New(provider, model.AgentDependency, model.WorkspaceRef{})

	_, err := h.Execute(context.Background(), windowsTarget(), model.Observation{})
	require.EqualError(t, err, "VMExtensionProvisioningError")
}
