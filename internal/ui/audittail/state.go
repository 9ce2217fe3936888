package audittail

import (
	"time"

	"saferoot/internal/audit"
	"saferoot/pkg/pathguard"
)

// Row holds UI state for a single rejection.
type Row struct {
	Seq      int
	ID       string
	Source   string
	Kind     pathguard.Kind
	RawInput string
	At       time.Time
}

// KindCounts aggregates rejections by kind.
type KindCounts struct {
	Total            int
	Empty            int
	TooLong          int
	InvalidCharacter int
	Traversal        int
	NotFound         int
	OutOfBounds      int
	NotAFile         int
}

// State captures the live tail state.
type State struct {
	Origin    string
	StartedAt time.Time
	LastEvent string
	NextSeq   int
	Rows      []Row
	Counts    KindCounts
}

// rowFromEvent converts an audit event into a display row.
func rowFromEvent(seq int, event audit.Event) Row {
	return Row{
		Seq:      seq,
		ID:       event.ID,
		Source:   event.Source,
		Kind:     event.Kind,
		RawInput: event.RawInput,
		At:       event.At,
	}
}
