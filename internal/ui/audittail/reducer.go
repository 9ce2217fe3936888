package audittail

import (
	"fmt"

	"saferoot/internal/audit"
	"saferoot/pkg/pathguard"
)

// maxRows bounds how many rejections the tail keeps in memory. Counts
// keep accumulating after older rows scroll away.
const maxRows = 500

// Reduce applies one rejection event to the tail state.
func Reduce(state State, event audit.Event) State {
	row := rowFromEvent(state.NextSeq, event)
	state.NextSeq++
	state.Rows = append(state.Rows, row)
	if len(state.Rows) > maxRows {
		trimmed := make([]Row, maxRows)
		copy(trimmed, state.Rows[len(state.Rows)-maxRows:])
		state.Rows = trimmed
	}
	state.Counts = count(state.Counts, event.Kind)
	state.LastEvent = formatLastEvent(event)
	return state
}

// count increments the bucket for one kind.
func count(counts KindCounts, kind pathguard.Kind) KindCounts {
	counts.Total++
	switch kind {
	case pathguard.KindEmpty:
		counts.Empty++
	case pathguard.KindTooLong:
		counts.TooLong++
	case pathguard.KindInvalidCharacter:
		counts.InvalidCharacter++
	case pathguard.KindTraversalAttempt:
		counts.Traversal++
	case pathguard.KindNotFound:
		counts.NotFound++
	case pathguard.KindOutOfBounds:
		counts.OutOfBounds++
	case pathguard.KindNotAFile:
		counts.NotAFile++
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event audit.Event) string {
	return fmt.Sprintf("%s rejected %q (%s)", event.Source, event.RawInput, event.Kind)
}
