package audittail

import "saferoot/internal/audit"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventAttach signals the tail is connected to an event origin.
	EventAttach EventKind = iota
	// EventRejection delivers one rejection record.
	EventRejection
	// EventDetach signals the event stream has ended.
	EventDetach
)

// Event carries a UI update payload.
type Event struct {
	Kind      EventKind
	Origin    string
	Rejection audit.Event
}
