// Package diff renders unified diffs between resource definition exports,
// so drift against the previous snapshot is visible per target.
package diff

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// Unified compares the previous export against the current one and returns
// a unified diff. It returns the empty string when the contents are
// identical and truncates diffs exceeding 10,000 lines.
func Unified(previous, current []byte, previousLabel, currentLabel string) string {
	if bytes.Equal(previous, current) {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(previous), string(current), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf bytes.Buffer
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(&buf, "--- %s\t%s\n", previousLabel, timestamp)
	fmt.Fprintf(&buf, "+++ %s\t%s\n", currentLabel, timestamp)

	previousLines := strings.Split(string(previous), "\n")
	currentLines := strings.Split(string(current), "\n")
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", len(previousLines), len(currentLines))

	for _, d := range diffs {
		lines := splitDiffLines(d.Text)
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			prefix = " "
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range lines {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		return strings.Join(lines[:maxDiffLines], "\n") + "\n" + truncateMessage + "\n"
	}
	return result
}

// Stats counts the added and removed lines of a unified diff, ignoring the
// file headers.
func Stats(unified string) (added, removed int) {
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
