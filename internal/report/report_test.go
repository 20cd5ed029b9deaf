package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steve-rackham/azfleet/internal/engine"
	"github.com/steve-rackham/azfleet/internal/model"
)

func TestRender_SortsOutcomesByTargetKey(t *testing.T) {
	t.Parallel()

	res := &engine.Result{
		Summary: model.Summary{
			RunID:     "run-1",
			Action:    "power-stop",
			Processed: 3,
			Skipped:   1,
			Succeeded: 1,
			Failed:    1,
			Elapsed:   1410 * time.Millisecond,
		},
		Outcomes: []model.Outcome{
			{
				Target:   model.Target{Name: "vm-web-02", ResourceGroup: "rg-prod"},
				Status:   model.StatusSucceeded,
				Detail:   "deallocated",
				Duration: 42 * time.Second,
			},
			{
				Target:   model.Target{Name: "vm-db-01", ResourceGroup: "rg-data"},
				Status:   model.StatusFailed,
				Detail:   "stop rejected: power state \"starting\" does not permit power-stop",
				Duration: 900 * time.Millisecond,
			},
			{
				Target:   model.Target{Name: "vm-web-01", ResourceGroup: "rg-prod"},
				Status:   model.StatusSkipped,
				Detail:   "already deallocated",
				Duration: 130 * time.Millisecond,
			},
		},
	}

	var buf bytes.Buffer
	Render(&buf, res)
	out := buf.String()

	require.Contains(t, out, "TARGET")
	require.Contains(t, out, "rg-data/vm-db-01")
	require.Contains(t, out, "rg-prod/vm-web-01")
	require.Contains(t, out, "rg-prod/vm-web-02")
	require.Less(t, strings.Index(out, "rg-data/vm-db-01"), strings.Index(out, "rg-prod/vm-web-01"))
	require.Less(t, strings.Index(out, "rg-prod/vm-web-01"), strings.Index(out, "rg-prod/vm-web-02"))

	require.Contains(t, out, "succeeded")
	require.Contains(t, out, "failed")
	require.Contains(t, out, "skipped")
	require.Contains(t, out, "already deallocated")
	require.Contains(t, out, "power-stop: 3 processed, 1 skipped, 1 succeeded, 1 failed in 1.41s")
}

func TestRender_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Render(&buf, nil)
	require.Empty(t, buf.String())
}

func TestSummaryLine(t *testing.T) {
	t.Parallel()

	s := model.Summary{
		Action:    "agent-install",
		Processed: 10,
		Skipped:   6,
		Succeeded: 3,
		Failed:    1,
		Elapsed:   2 * time.Minute,
	}
	require.Equal(t, "agent-install: 10 processed, 6 skipped, 3 succeeded, 1 failed in 2m0s", SummaryLine(s))

	s.WouldAct = 4
	s.Succeeded = 0
	s.Failed = 0
	require.Equal(t, "agent-install: 10 processed, 6 skipped, 0 succeeded, 0 failed, 4 would act in 2m0s", SummaryLine(s))
}
