package audittail

import (
	"strings"
	"testing"
	"time"

	"saferoot/internal/audit"
	"saferoot/pkg/pathguard"
)

// TestReduceAppendsRows verifies rejections accumulate in order with
// sequence numbers and counts.
func TestReduceAppendsRows(t *testing.T) {
	state := State{}
	state = Reduce(state, rejection("files", "../../etc/passwd", pathguard.KindTraversalAttempt))
	state = Reduce(state, rejection("templates", "bad name", pathguard.KindInvalidCharacter))
	state = Reduce(state, rejection("files", "gone.png", pathguard.KindNotFound))

	if len(state.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(state.Rows))
	}
	if state.Rows[0].Seq != 0 || state.Rows[2].Seq != 2 {
		t.Fatalf("unexpected sequence numbers: %+v", state.Rows)
	}
	if state.Counts.Total != 3 || state.Counts.Traversal != 1 ||
		state.Counts.InvalidCharacter != 1 || state.Counts.NotFound != 1 {
		t.Fatalf("unexpected counts: %+v", state.Counts)
	}
	if !strings.Contains(state.LastEvent, "gone.png") {
		t.Fatalf("last event = %q", state.LastEvent)
	}
}

// TestReduceTrimsOldRows verifies the row window is bounded while counts
// keep accumulating.
func TestReduceTrimsOldRows(t *testing.T) {
	state := State{}
	for i := 0; i < maxRows+10; i++ {
		state = Reduce(state, rejection("files", "x", pathguard.KindNotFound))
	}
	if len(state.Rows) != maxRows {
		t.Fatalf("expected %d rows, got %d", maxRows, len(state.Rows))
	}
	if state.Counts.Total != maxRows+10 {
		t.Fatalf("expected total %d, got %d", maxRows+10, state.Counts.Total)
	}
	if state.Rows[0].Seq != 10 {
		t.Fatalf("expected oldest seq 10, got %d", state.Rows[0].Seq)
	}
}

// TestFormatInput verifies whitespace collapse and truncation.
func TestFormatInput(t *testing.T) {
	if got := formatInput("a\tb\nc"); got != "a b c" {
		t.Fatalf("formatInput = %q", got)
	}
	if got := formatInput(""); got != `""` {
		t.Fatalf("formatInput empty = %q", got)
	}
	long := strings.Repeat("z", 100)
	got := formatInput(long)
	if len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Fatalf("formatInput long = %q (len %d)", got, len(got))
	}
}

// rejection builds an audit event for testing.
func rejection(source, raw string, kind pathguard.Kind) audit.Event {
	return audit.Event{
		ID:       "id-" + source,
		Source:   source,
		RawInput: raw,
		Kind:     kind,
		At:       time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}
