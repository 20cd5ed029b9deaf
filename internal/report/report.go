// Package report renders the terminal report for a completed run: a table
// of per-target outcomes followed by the aggregate summary line.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/steve-rackham/azfleet/internal/engine"
	"github.com/steve-rackham/azfleet/internal/model"
)

// Render writes the outcome table and summary line. Outcomes are sorted by
// target key so the report is stable across runs.
func Render(w io.Writer, res *engine.Result) {
	if res == nil {
		return
	}

	outcomes := append([]model.Outcome(nil), res.Outcomes...)
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Target.Key() < outcomes[j].Target.Key()
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"TARGET", "STATUS", "DURATION", "DETAIL"})
	for _, outcome := range outcomes {
		t.AppendRow(table.Row{
			outcome.Target.Key(),
			coloredStatus(outcome.Status),
			outcome.Duration.Round(time.Millisecond),
			outcome.Detail,
		})
	}
	t.Render()

	fmt.Fprintln(w, SummaryLine(res.Summary))
}

// SummaryLine renders the aggregate counters on one line, e.g.
// "power-stop: 12 processed, 7 skipped, 4 succeeded, 1 failed in 3.21s".
func SummaryLine(s model.Summary) string {
	line := fmt.Sprintf("%s: %d processed, %d skipped, %d succeeded, %d failed",
		s.Action, s.Processed, s.Skipped, s.Succeeded, s.Failed)
	if s.WouldAct > 0 {
		line += fmt.Sprintf(", %d would act", s.WouldAct)
	}
	return fmt.Sprintf("%s in %s", line, s.Elapsed.Round(10*time.Millisecond))
}

func coloredStatus(status string) string {
	switch status {
	case model.StatusSucceeded:
		return text.FgGreen.Sprint(status)
	case model.StatusFailed:
		return text.FgRed.Sprint(status)
	case model.StatusWouldAct:
		return text.FgYellow.Sprint(status)
	default:
		return status
	}
}
