package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/steve-rackham/azfleet/internal/engine"
	"github.com/steve-rackham/azfleet/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("azfleet • %s", m.title()))
	sections = append(sections, title)

	progress := components.NewProgress(m.total).View(m.completed)
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	listComp := components.NewTargetList(m.entries())
	entries := listComp.Entries()
	if len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Targets"))
		sections = append(sections, renderTargetEntries(entries))
	}

	summary := components.NewSummary(components.SummaryData{
		Total:     m.total,
		Completed: m.completed,
		Failed:    m.failed,
		Finished:  m.finished,
		Cancelled: m.cancelled,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) entries() []components.TargetEntry {
	entries := make([]components.TargetEntry, 0, len(m.order))
	for _, key := range m.order {
		state := m.targets[key]
		entries = append(entries, components.TargetEntry{
			Key:     key,
			Phase:   state.phase,
			Message: state.message,
			Elapsed: state.elapsed,
		})
	}
	return entries
}

func renderTargetEntries(entries []components.TargetEntry) string {
	var lines []string
	for _, entry := range entries {
		icon := PhaseIcon(entry.Phase)
		line := fmt.Sprintf(" %s %s", icon, entry.Key)
		if strings.TrimSpace(entry.Message) != "" {
			line = fmt.Sprintf("%s — %s", line, entry.Message)
		}
		if entry.Elapsed > 0 {
			line = fmt.Sprintf("%s (%s)", line, entry.Elapsed.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) title() string {
	if strings.TrimSpace(m.label) != "" {
		return m.label
	}
	return "Run"
}

// PhaseIcon returns the glyph representing a target phase.
func PhaseIcon(phase engine.Phase) string {
	switch phase {
	case engine.PhaseSucceeded:
		return successStyle.Render("✓")
	case engine.PhaseFailed:
		return failureStyle.Render("✗")
	case engine.PhaseSkipped:
		return skippedStyle.Render("⊘")
	case engine.PhaseWouldAct:
		return wouldActStyle.Render("✱")
	case "":
		return pendingStyle.Render("…")
	default:
		return runningStyle.Render("⏳")
	}
}
