package audit

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"saferoot/pkg/pathguard"
)

// defaultBuffer is the event queue size when the config leaves it zero.
const defaultBuffer = 256

// Config wires sinks and tuning for a trail.
type Config struct {
	// Buffer is the event queue size; zero means defaultBuffer.
	Buffer int
	// Sinks receive delivered events in order. May be empty.
	Sinks []Sink
	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

// Trail fans rejection events out to sinks on a dedicated goroutine so
// validators stay non-blocking. Safe for concurrent use.
type Trail struct {
	events    chan Event
	sinks     []Sink
	quit      chan struct{}
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
	dropped   atomic.Uint64
	now       func() time.Time
}

// New starts a trail delivering to the configured sinks.
func New(cfg Config) *Trail {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	t := &Trail{
		events: make(chan Event, buffer),
		sinks:  cfg.Sinks,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		now:    now,
	}
	go t.deliver()
	return t
}

// Record queues a rejection event, dropping it if the trail is closed or
// the buffer is full. It never blocks.
func (t *Trail) Record(source, raw string, kind pathguard.Kind) {
	if t.closed.Load() {
		t.dropped.Add(1)
		return
	}
	event := Event{
		ID:       uuid.NewString(),
		Source:   source,
		RawInput: raw,
		Kind:     kind,
		At:       t.now(),
	}
	select {
	case t.events <- event:
	default:
		t.dropped.Add(1)
	}
}

// Observer returns a pathguard observer that tags events with a source.
func (t *Trail) Observer(source string) pathguard.Observer {
	return pathguard.ObserverFunc(func(raw string, kind pathguard.Kind) {
		t.Record(source, raw, kind)
	})
}

// Dropped reports how many events were discarded.
func (t *Trail) Dropped() uint64 {
	return t.dropped.Load()
}

// Close stops intake, drains queued events, and waits for delivery to end.
func (t *Trail) Close() {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		close(t.quit)
	})
	<-t.done
}

// deliver drains the queue into each sink until the trail is closed, then
// flushes whatever is still buffered.
func (t *Trail) deliver() {
	defer close(t.done)
	for {
		select {
		case event := <-t.events:
			t.dispatch(event)
		case <-t.quit:
			for {
				select {
				case event := <-t.events:
					t.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

// dispatch hands one event to every sink.
func (t *Trail) dispatch(event Event) {
	for _, sink := range t.sinks {
		sink.Record(event)
	}
}
