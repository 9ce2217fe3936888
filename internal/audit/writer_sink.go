package audit

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// WriterSink renders events as single-line records on a writer, typically
// the daemon's stderr.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink builds a sink over a writer.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Record writes one line per event; write failures are ignored because
// auditing must never fail the caller.
func (s *WriterSink) Record(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "%s rejection id=%s source=%s kind=%s input=%q\n",
		event.At.UTC().Format(time.RFC3339), event.ID, event.Source, event.Kind, event.RawInput)
}
