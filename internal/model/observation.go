package model

import (
	"strings"
	"time"
)

// PowerState is the coarse power status of a VM, reduced from the provider's
// instance-view status code.
type PowerState string

const (
	// PowerDeallocated means the VM is stopped and deallocated.
	PowerDeallocated PowerState = "deallocated"
	// PowerRunning means the VM is running.
	PowerRunning PowerState = "running"
	// PowerTransitioning means the VM is mid-transition (starting, stopping,
	// deallocating). Acting on it is unsafe.
	PowerTransitioning PowerState = "transitioning"
	// PowerUnknown means no power status was reported.
	PowerUnknown PowerState = "unknown"
)

// CredentialKind distinguishes application password secrets from
// certificate credentials.
type CredentialKind string

const (
	// CredentialPassword is a client secret.
	CredentialPassword CredentialKind = "password"
	// CredentialCertificate is a key credential.
	CredentialCertificate CredentialKind = "certificate"
)

// Credential is one secret or certificate attached to an application
// registration, with its expiry.
type Credential struct {
	DisplayName string
	KeyID       string
	Kind        CredentialKind
	ExpiresAt   time.Time
}

// Observation is the authoritative current state of one target, captured by
// a single probe. Only the fields relevant to the probed action family are
// populated; an observation is created fresh per probe and never cached
// across runs.
type Observation struct {
	// Extensions holds the extension types currently attached to a VM.
	Extensions []string

	// Power is the reduced power state; PowerDetail keeps the raw provider
	// code suffix for reporting (e.g. "starting").
	Power       PowerState
	PowerDetail string

	// Exists reports whether the probed resource definition was found.
	// Definition holds its serialized form when it was.
	Exists     bool
	Definition []byte

	// Credentials holds the expiry records of a scanned application.
	Credentials []Credential
}

// HasExtension reports whether an extension matching the canonical type is
// attached. Providers suffix extension type names with versions, so
// membership is a case-insensitive substring match, not equality.
func (o Observation) HasExtension(canonical string) bool {
	if canonical == "" {
		return false
	}
	needle := strings.ToLower(canonical)
	for _, ext := range o.Extensions {
		if strings.Contains(strings.ToLower(ext), needle) {
			return true
		}
	}
	return false
}

// ExpiringWithin returns the credentials expiring before now+window,
// including those already expired.
func (o Observation) ExpiringWithin(now time.Time, window time.Duration) []Credential {
	cutoff := now.Add(window)
	var expiring []Credential
	for _, cred := range o.Credentials {
		if cred.ExpiresAt.Before(cutoff) {
			expiring = append(expiring, cred)
		}
	}
	return expiring
}
