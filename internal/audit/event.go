// Package audit collects path and token rejection events for security
// monitoring. Recording is fire-and-forget: a full buffer drops events
// rather than stalling the request that triggered the rejection.
package audit

import (
	"time"

	"saferoot/pkg/pathguard"
)

// Event describes a single rejected validation attempt. It carries the
// raw input and the internal rejection kind; resolved paths never appear
// because none exists on rejection.
type Event struct {
	ID       string
	Source   string
	RawInput string
	Kind     pathguard.Kind
	At       time.Time
}

// Sink receives events from the trail's delivery goroutine, one at a time.
type Sink interface {
	Record(event Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event Event)

// Record forwards the event to the wrapped function.
func (f SinkFunc) Record(event Event) {
	f(event)
}
