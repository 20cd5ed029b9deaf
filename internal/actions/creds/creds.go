// Package credsaction scans application registrations for credentials
// nearing expiry and flags them in the run report. It never mutates the
// provider.
package credsaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/steve-rackham/azfleet/internal/action"
	"github.com/steve-rackham/azfleet/internal/model"
)

// Provider is the Graph surface the handler needs.
type Provider interface {
	ApplicationCredentials(ctx context.Context, objectID string) ([]model.Credential, error)
}

const defaultWarnWindow = 30 * 24 * time.Hour

type credsHandler struct {
	provider   Provider
	warnWithin time.Duration
	asOf       time.Time
}

// New creates the creds-scan handler. A warnWithin of zero defaults to 30
// days. The asOf instant fixes the expiry evaluation for the whole run so
// decisions stay deterministic.
func New(provider Provider, warnWithin time.Duration, asOf time.Time) action.Handler {
	if warnWithin <= 0 {
		warnWithin = defaultWarnWindow
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return &credsHandler{provider: provider, warnWithin: warnWithin, asOf: asOf}
}

var _ action.Handler = (*credsHandler)(nil)

func (h *credsHandler) Action() model.Action { return model.ActionCredsScan }

func (h *credsHandler) Probe(ctx context.Context, target model.Target) (model.Observation, error) {
	creds, err := h.provider.ApplicationCredentials(ctx, target.ID)
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{Credentials: creds}, nil
}

func (h *credsHandler) Decide(target model.Target, obs model.Observation) model.Decision {
	cutoff := h.asOf.Add(h.warnWithin).Format("2006-01-02")
	expiring := obs.ExpiringWithin(h.asOf, h.warnWithin)
	if len(expiring) == 0 {
		return model.Skip(fmt.Sprintf("no credentials expire before %s", cutoff))
	}
	return model.Act(fmt.Sprintf("%d credential(s) expire before %s", len(expiring), cutoff))
}

func (h *credsHandler) Execute(ctx context.Context, target model.Target, obs model.Observation) (string, error) {
	expiring := obs.ExpiringWithin(h.asOf, h.warnWithin)
	parts := make([]string, 0, len(expiring))
	for _, cred := range expiring {
		parts = append(parts, describeCredential(cred, h.asOf))
	}
	return "flagged " + strings.Join(parts, "; "), nil
}

func describeCredential(cred model.Credential, asOf time.Time) string {
	name := cred.DisplayName
	if name == "" {
		name = cred.KeyID
	}
	when := cred.ExpiresAt.Format("2006-01-02")
	if cred.ExpiresAt.Before(asOf) {
		return fmt.Sprintf("%s (%s) expired %s", name, cred.Kind, when)
	}
	return fmt.Sprintf("%s (%s) expires %s", name, cred.Kind, when)
}
