package audittail

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"saferoot/internal/audit"
)

// Controller runs the tail UI and implements audit.Sink, so it can be
// wired straight into a trail next to the persistent sinks.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a tail controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_ = program.Start()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// Attach announces the event origin shown in the header.
func (c *Controller) Attach(origin string) {
	c.send(Event{Kind: EventAttach, Origin: origin})
}

// Record forwards one rejection to the UI. It never blocks.
func (c *Controller) Record(event audit.Event) {
	c.send(Event{Kind: EventRejection, Rejection: event})
}

// Detach marks the end of the stream without closing the UI.
func (c *Controller) Detach() {
	c.send(Event{Kind: EventDetach})
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
