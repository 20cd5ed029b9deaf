package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steve-rackham/azfleet/internal/engine"
	"github.com/steve-rackham/azfleet/internal/model"
)

// EventMsg carries one engine progress event into the program.
type EventMsg struct {
	Event engine.Event
}

type tickMsg struct{}

// targetState is the last reported progress of one target.
type targetState struct {
	phase   engine.Phase
	message string
	started time.Time
	elapsed time.Duration
}

// Model contains the Bubbletea state for a reconciliation run.
type Model struct {
	label          string
	targets        map[string]targetState
	order          []string
	total          int
	completed      int
	failed         int
	finished       bool
	cancelled      bool
	nonInteractive bool
}

// NewModel constructs a TUI model tracking every target of the run.
func NewModel(label string, targets []model.Target, nonInteractive bool) Model {
	m := Model{
		label:          label,
		targets:        make(map[string]targetState),
		order:          make([]string, 0, len(targets)),
		nonInteractive: nonInteractive,
	}

	for _, t := range targets {
		m.ensureTarget(t.Key())
	}

	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// TotalTargets returns the number of targets tracked by the model.
func (m Model) TotalTargets() int {
	return m.total
}

// CompletedTargets returns the number of targets that reached a terminal
// phase.
func (m Model) CompletedTargets() int {
	return m.completed
}

// IsFinished reports whether the run has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

func (m *Model) ensureTarget(key string) {
	if key == "" {
		return
	}
	if _, exists := m.targets[key]; !exists {
		m.targets[key] = targetState{}
		m.order = append(m.order, key)
		m.total++
	}
}

func (m *Model) markFinishedIfComplete() {
	if m.total > 0 && m.completed >= m.total {
		m.finished = true
	}
}

// terminalPhase reports whether a phase ends a target's progress.
func terminalPhase(p engine.Phase) bool {
	switch p {
	case engine.PhaseSkipped, engine.PhaseWouldAct, engine.PhaseSucceeded, engine.PhaseFailed:
		return true
	}
	return false
}
