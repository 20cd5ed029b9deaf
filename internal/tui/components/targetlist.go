package components

import (
	"time"

	"github.com/steve-rackham/azfleet/internal/engine"
)

// TargetEntry represents a single target for rendering.
type TargetEntry struct {
	Key     string
	Phase   engine.Phase
	Message string
	Elapsed time.Duration
}

// TargetList renders the targets of a run with their current phase.
type TargetList struct {
	entries []TargetEntry
}

// NewTargetList constructs a target list component.
func NewTargetList(entries []TargetEntry) TargetList {
	return TargetList{entries: entries}
}

// Entries returns the ordered target entries.
func (l TargetList) Entries() []TargetEntry {
	clone := make([]TargetEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
