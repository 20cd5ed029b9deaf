package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steve-rackham/azfleet/internal/engine"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case EventMsg:
		evt := msg.Event
		if evt.Target.Name == "" {
			return m, nil
		}

		key := evt.Target.Key()
		m.ensureTarget(key)
		state := m.targets[key]
		alreadyDone := terminalPhase(state.phase)

		state.phase = evt.Phase
		state.message = evt.Message
		if evt.Phase == engine.PhaseProbing {
			state.started = time.Now()
		} else if terminalPhase(evt.Phase) && !state.started.IsZero() {
			state.elapsed = time.Since(state.started)
		}
		m.targets[key] = state

		if terminalPhase(evt.Phase) && !alreadyDone {
			m.completed++
			if evt.Phase == engine.PhaseFailed {
				m.failed++
			}
			m.markFinishedIfComplete()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, nil
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
