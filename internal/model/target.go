package model

import "fmt"

// OSKind is the operating-system variant of a VM target. It selects which
// extension parameters an agent install uses.
type OSKind string

const (
	// OSWindows marks a Windows VM.
	OSWindows OSKind = "windows"
	// OSLinux marks a Linux VM.
	OSLinux OSKind = "linux"
	// OSUnknown marks a VM whose OS could not be determined.
	OSUnknown OSKind = "unknown"
)

// Target identifies one remote resource being reconciled. The collection of
// targets is built by discovery before the engine starts and is read-only to
// the core.
type Target struct {
	Name          string
	ResourceGroup string
	ID            string
	Location      string
	OS            OSKind
	Tags          map[string]string
}

// Key returns the unique identity of a target within a run.
func (t Target) Key() string {
	return fmt.Sprintf("%s/%s", t.ResourceGroup, t.Name)
}

// DedupeTargets removes duplicate targets (same resource group and name),
// preserving first-seen order.
func DedupeTargets(targets []Target) []Target {
	seen := make(map[string]struct{}, len(targets))
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		key := t.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
