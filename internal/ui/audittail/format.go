package audittail

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"saferoot/pkg/pathguard"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatTime renders the event timestamp for display.
func formatTime(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.UTC().Format("15:04:05")
}

// formatInput collapses whitespace and truncates raw input for display.
// Control characters are already quote-escaped by the %q in the reducer;
// the table shows the raw text with whitespace normalized.
func formatInput(input string) string {
	normalized := strings.Join(strings.Fields(input), " ")
	if normalized == "" {
		return `""`
	}
	const limit = 60
	if len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// formatKind renders a kind with optional coloring.
func formatKind(kind pathguard.Kind, noColor bool) string {
	text := kind.String()
	if noColor {
		return text
	}
	return kindStyle(kind).Render(text)
}

// kindStyle selects a style for a rejection kind. Traversal and boundary
// escapes are the loud ones; token hygiene failures stay muted.
func kindStyle(kind pathguard.Kind) lipgloss.Style {
	color := lipgloss.Color("244")
	switch kind {
	case pathguard.KindTraversalAttempt, pathguard.KindOutOfBounds:
		color = lipgloss.Color("196")
	case pathguard.KindInvalidCharacter:
		color = lipgloss.Color("220")
	case pathguard.KindNotFound, pathguard.KindNotAFile:
		color = lipgloss.Color("39")
	case pathguard.KindEmpty, pathguard.KindTooLong:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
