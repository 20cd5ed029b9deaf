package engine

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steve-rackham/azfleet/internal/logger"
	"github.com/steve-rackham/azfleet/internal/model"
)

func TestLoggerSink_WritesStructuredEntry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := logger.New(logger.Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	sink := NewLoggerSink(log)
	sink.HandleEvent(Event{
		Target:  model.Target{Name: "vm-01", ResourceGroup: "rg-fleet"},
		Action:  model.ActionPowerStop,
		Phase:   PhaseFailed,
		Message: "stop failed on rg-fleet/vm-01: quota exceeded",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "error", entry["level"])
	require.Equal(t, "vm-01", entry["target"])
	require.Equal(t, "rg-fleet", entry["resource_group"])
	require.Equal(t, "failed", entry["phase"])
	require.Contains(t, entry["message"], "quota exceeded")
}

func TestLoggerSink_DefaultsMessageToPhase(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := logger.New(logger.Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	NewLoggerSink(log).HandleEvent(Event{
		Target: model.Target{Name: "vm-02", ResourceGroup: "rg-fleet"},
		Action: model.ActionPowerStop,
		Phase:  PhaseProbing,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "probing", entry["message"])
	require.Equal(t, "debug", entry["level"])
}

func TestMultiSink_ForwardsToAll(t *testing.T) {
	t.Parallel()

	first := newRecordingSink()
	second := newRecordingSink()
	multi := MultiSink{first, nil, second}

	multi.HandleEvent(Event{
		Target: model.Target{Name: "vm-03"},
		Phase:  PhaseSkipped,
	})

	require.Equal(t, []Phase{PhaseSkipped}, first.phasesFor("vm-03"))
	require.Equal(t, []Phase{PhaseSkipped}, second.phasesFor("vm-03"))
}
