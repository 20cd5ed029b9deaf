package components

import (
	"fmt"
	"strings"
)

// SummaryData aggregates counts for rendering the run summary.
type SummaryData struct {
	Total     int
	Completed int
	Failed    int
	Finished  bool
	Cancelled bool
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Targets: %d/%d completed", s.data.Completed, s.data.Total))
	}

	if s.data.Cancelled {
		lines = append(lines, "Run cancelled")
	} else if s.data.Finished && s.data.Total > 0 {
		switch {
		case s.data.Failed > 0:
			lines = append(lines, fmt.Sprintf("Run finished, %d target(s) failed", s.data.Failed))
		case s.data.Completed == s.data.Total:
			lines = append(lines, "Run finished successfully")
		default:
			lines = append(lines, "Run finished with pending targets")
		}
	}

	return strings.Join(lines, "\n")
}
