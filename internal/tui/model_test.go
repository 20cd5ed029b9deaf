package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steve-rackham/azfleet/internal/model"
)

func TestNewModelSeedsTargets(t *testing.T) {
	targets := []model.Target{
		{Name: "vm-a", ResourceGroup: "rg-1"},
		{Name: "vm-b", ResourceGroup: "rg-1"},
		{Name: "vm-a", ResourceGroup: "rg-2"},
	}

	m := NewModel("power-stop", targets, false)
	require.Equal(t, 3, m.TotalTargets())
	require.Equal(t, 0, m.CompletedTargets())
	require.False(t, m.IsFinished())
	require.Equal(t, []string{"rg-1/vm-a", "rg-1/vm-b", "rg-2/vm-a"}, m.order)
}

func TestNewModelIgnoresDuplicates(t *testing.T) {
	targets := []model.Target{
		{Name: "vm-a", ResourceGroup: "rg-1"},
		{Name: "vm-a", ResourceGroup: "rg-1"},
	}

	m := NewModel("power-stop", targets, false)
	require.Equal(t, 1, m.TotalTargets())
}

func TestEnsureTargetIgnoresEmptyKey(t *testing.T) {
	m := NewModel("power-stop", nil, false)
	m.ensureTarget("")
	require.Equal(t, 0, m.TotalTargets())
}

func TestInitReturnsTick(t *testing.T) {
	m := NewModel("power-stop", nil, false)
	require.NotNil(t, m.Init())
}
