package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnified_IdenticalContent(t *testing.T) {
	t.Parallel()

	content := []byte(`{"name":"nsg-01","rules":[]}`)
	require.Empty(t, Unified(content, content, "previous", "current"))
}

func TestUnified_ShowsChangedLines(t *testing.T) {
	t.Parallel()

	previous := []byte("allow: 22\nallow: 443\ndeny: all\n")
	current := []byte("allow: 22\nallow: 8443\ndeny: all\n")

	result := Unified(previous, current, "nsg-01.nsg.json", "current")
	require.Contains(t, result, "--- nsg-01.nsg.json")
	require.Contains(t, result, "+++ current")
	require.Contains(t, result, "-")
	require.Contains(t, result, "+")
	require.Contains(t, result, "443")
	require.Contains(t, result, "8443")
}

func TestUnified_TruncatesHugeDiffs(t *testing.T) {
	t.Parallel()

	previous := []byte(strings.Repeat("old line\n", 11000))
	current := []byte(strings.Repeat("new line\n", 11000))

	result := Unified(previous, current, "previous", "current")
	require.Contains(t, result, truncateMessage)
	require.LessOrEqual(t, len(strings.Split(result, "\n")), maxDiffLines+3)
}

func TestStats(t *testing.T) {
	t.Parallel()

	unified := strings.Join([]string{
		"--- previous\t2026-01-01 00:00:00",
		"+++ current\t2026-01-01 00:00:00",
		"@@ -1,3 +1,3 @@",
		" allow: 22",
		"-allow: 443",
		"+allow: 8443",
		"+allow: 9443",
		" deny: all",
		"",
	}, "\n")

	added, removed := Stats(unified)
	require.Equal(t, 2, added)
	require.Equal(t, 1, removed)

	added, removed = Stats("")
	require.Zero(t, added)
	require.Zero(t, removed)
}
