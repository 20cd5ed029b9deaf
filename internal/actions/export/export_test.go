package exportaction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steve-rackham/azfleet/internal/model"
)

type fakeProvider struct {
	exists     bool
	definition []byte
	err        error
}

func (f *fakeProvider) GetSecurityGroup(ctx context.Context, target model.Target) (bool, []byte, error) {
	return f.exists, f.definition, f.err
}

func nsgTarget() model.Target {
	return model.Target{Name: "nsg-01", ResourceGroup: "rg-fleet"}
}

func TestDecide(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, t.TempDir())

	decision := h.Decide(nsgTarget(), model.Observation{Exists: true, Definition: []byte("{}")})
	require.Equal(t, model.VerdictAct, decision.Verdict)

	decision = h.Decide(nsgTarget(), model.Observation{Exists: false})
	require.Equal(t, model.VerdictReject, decision.Verdict)
	require.Equal(t, "missing", decision.State)
}

func TestProbeSurfacesProviderError(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{err: errors.New("network client timeout")}, t.TempDir())

	_, err := h.Probe(context.Background(), nsgTarget())
	require.EqualError(t, err, "network client timeout")
}

func TestExecuteWritesArtifactAndReportsDrift(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := New(&fakeProvider{}, dir)
	obs := model.Observation{Exists: true, Definition: []byte("allow: 22\ndeny: all\n")}

	detail, err := h.Execute(context.Background(), nsgTarget(), obs)
	require.NoError(t, err)
	require.Contains(t, detail, "rg-fleet_nsg-01.nsg.json")
	require.Contains(t, detail, "(new)")

	written, err := os.ReadFile(filepath.Join(dir, "rg-fleet_nsg-01.nsg.json"))
	require.NoError(t, err)
	require.Equal(t, obs.Definition, written)

	detail, err = h.Execute(context.Background(), nsgTarget(), obs)
	require.NoError(t, err)
	require.Contains(t, detail, "(no drift)")

	changed := model.Observation{Exists: true, Definition: []byte("allow: 8443\ndeny: all\n")}
	detail, err = h.Execute(context.Background(), nsgTarget(), changed)
	require.NoError(t, err)
	require.Contains(t, detail, "drift")
	require.Contains(t, detail, "+1/-1")
}

func TestExecuteKeepsResourceGroupsApart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h := New(&fakeProvider{}, dir)
	obs := model.Observation{Exists: true, Definition: []byte("{}")}

	_, err := h.Execute(context.Background(), model.Target{Name: "nsg-app", ResourceGroup: "rg-1"}, obs)
	require.NoError(t, err)
	_, err = h.Execute(context.Background(), model.Target{Name: "nsg-app", ResourceGroup: "rg-2"}, obs)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
