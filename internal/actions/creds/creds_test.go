package credsaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steve-rackham/azfleet/internal/model"
)

type fakeProvider struct {
	creds []model.Credential
	err   error
}

func (f *fakeProvider) ApplicationCredentials(ctx context.Context, objectID string) ([]model.Credential, error) {
	return f.creds, f.err
}

var asOf = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func appTarget() model.Target {
	return model.Target{Name: "ingest", ResourceGroup: "app-1", ID: "obj-1"}
}

func TestDecideSkipsWhenNothingExpires(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, 30*24*time.Hour, asOf)
	obs := model.Observation{Credentials: []model.Credential{
		{DisplayName: "ci secret", Kind: model.CredentialPassword, ExpiresAt: asOf.Add(90 * 24 * time.Hour)},
	}}

	decision := h.Decide(appTarget(), obs)
	require.Equal(t, model.VerdictSkip, decision.Verdict)
	require.Contains(t, decision.Reason, "2026-08-31")
}

func TestDecideActsOnExpiringCredentials(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, 30*24*time.Hour, asOf)
	obs := model.Observation{Credentials: []model.Credential{
		{DisplayName: "ci secret", Kind: model.CredentialPassword, ExpiresAt: asOf.Add(10 * 24 * time.Hour)},
		{DisplayName: "mtls cert", Kind: model.CredentialCertificate, ExpiresAt: asOf.Add(-24 * time.Hour)},
		{DisplayName: "fresh", Kind: model.CredentialPassword, ExpiresAt: asOf.Add(60 * 24 * time.Hour)},
	}}

	decision := h.Decide(appTarget(), obs)
	require.Equal(t, model.VerdictAct, decision.Verdict)
	require.Contains(t, decision.Reason, "2 credential(s)")
}

func TestDefaultWarnWindowIsThirtyDays(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, 0, asOf)

	inWindow := model.Observation{Credentials: []model.Credential{
		{DisplayName: "soon", ExpiresAt: asOf.Add(29 * 24 * time.Hour)},
	}}
	require.Equal(t, model.VerdictAct, h.Decide(appTarget(), inWindow).Verdict)

	outside := model.Observation{Credentials: []model.Credential{
		{DisplayName: "later", ExpiresAt: asOf.Add(31 * 24 * time.Hour)},
	}}
	require.Equal(t, model.VerdictSkip, h.Decide(appTarget(), outside).Verdict)
}

func TestExecuteFlagsExpiringCredentials(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{}, 30*24*time.Hour, asOf)
	obs := model.Observation{Credentials: []model.Credential{
		{DisplayName: "ci secret", Kind: model.CredentialPassword, ExpiresAt: asOf.Add(10 * 24 * time.Hour)},
		{KeyID: "key-2", Kind: model.CredentialCertificate, ExpiresAt: asOf.Add(-24 * time.Hour)},
	}}

	detail, err := h.Execute(context.Background(), appTarget(), obs)
	require.NoError(t, err)
	require.Contains(t, detail, "flagged")
	require.Contains(t, detail, "ci secret (password) expires 2026-08-11")
	require.Contains(t, detail, "key-2 (certificate) expired 2026-07-31")
}

func TestProbeSurfacesProviderError(t *testing.T) {
	t.Parallel()

	h := New(&fakeProvider{err: errors.New("graph returned 403 Forbidden")}, 0, asOf)

	_, err := h.Probe(context.Background(), appTarget())
	require.EqualError(t, err, "graph returned 403 Forbidden")
}
