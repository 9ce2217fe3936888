package audittail

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the tail header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	elapsed := ""
	if !state.StartedAt.IsZero() {
		elapsed = now.Sub(state.StartedAt).Round(100 * time.Millisecond).String()
	}
	line := "Rejections"
	if state.Origin != "" {
		line += " | " + state.Origin
	}
	if elapsed != "" {
		line += " | Elapsed: " + elapsed
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the kind counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Total: " + fmtInt(counts.Total) +
		" Traversal: " + fmtInt(counts.Traversal) +
		" OutOfBounds: " + fmtInt(counts.OutOfBounds) +
		" NotFound: " + fmtInt(counts.NotFound) +
		" NotAFile: " + fmtInt(counts.NotAFile) +
		" BadChar: " + fmtInt(counts.InvalidCharacter) +
		" Empty: " + fmtInt(counts.Empty) +
		" TooLong: " + fmtInt(counts.TooLong)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last: "+state.LastEvent, noColor, lipgloss.Color("244"))
}
