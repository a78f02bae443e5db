package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestHumanDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now.Add(-2 * time.Hour), "Today"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"older", time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), "Sep 30, 2022"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanDateFrom(tt.input, now))
		})
	}
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"seconds", now.Add(-30 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-72 * time.Hour), "Feb 4, 2026"},
		{"future", now.Add(time.Hour), "Today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestampFrom(tt.input, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc…", Truncate("abcdef", 4))
	assert.Equal(t, "abc", Truncate("abc", 4))
	assert.Equal(t, "épé…", Truncate("épéeé", 4))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "one two\nthree\nfour", wrapText("one two three four", 9))
	assert.Equal(t, "a b\n\nc", wrapText("a b\n\nc", 10))
	assert.Equal(t, "x", wrapText("  x  ", 0))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Exhausted Fallback", Label("exhausted_fallback"))
	assert.Equal(t, "Knowledge Base", Label("knowledge_base"))
	assert.Equal(t, "Full", Label("full"))
}

func TestRenderTable(t *testing.T) {
	got := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{"x", "yy"}}))
	assert.Equal(t, "A  B\n─  ──\nx  yy\n", got)

	empty := stripANSI(RenderTable([]string{"A"}, nil))
	assert.Equal(t, "A\n─\n(none)\n", empty)

	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderStepBar(t *testing.T) {
	tests := []struct {
		name               string
		done, total, width int
		want               string
	}{
		{"partial", 3, 7, 7, "[███░░░░] 3/7"},
		{"finished", 4, 4, 4, "[████] 4/4"},
		{"over clamps", 9, 4, 4, "[████] 4/4"},
		{"no steps", 0, 0, 4, "[░░░░] 0/0"},
		{"tiny width", 1, 2, 1, "[█░] 1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderStepBar(tt.done, tt.total, tt.width)))
		})
	}
}
