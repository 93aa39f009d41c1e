package sse

import (
	"fmt"
	"io"
	"strings"

	"github.com/agwire/agwire/event"
)

// Writer emits SSE frames to an underlying stream. It is used by tests and
// by server-side consumers of the event model; the client never writes SSE.
// Writer is not safe for concurrent use.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteEvent encodes ev and writes it as a single-frame "data:" payload.
func (w *Writer) WriteEvent(ev event.Event) error {
	data, err := event.Encode(ev)
	if err != nil {
		return err
	}
	return w.WriteFrame(Frame{Data: data})
}

// WriteFrame writes one frame. Multi-line data is split across consecutive
// "data:" lines, matching how the scanner rejoins them.
func (w *Writer) WriteFrame(f Frame) error {
	var b strings.Builder
	if f.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", f.ID)
	}
	if f.Event != "" {
		fmt.Fprintf(&b, "event: %s\n", f.Event)
	}
	if f.Retry > 0 {
		fmt.Fprintf(&b, "retry: %d\n", f.Retry.Milliseconds())
	}
	for _, line := range strings.Split(string(f.Data), "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w.w, b.String())
	return err
}

// WriteComment writes a comment line, used as a keep-alive.
func (w *Writer) WriteComment(comment string) error {
	_, err := fmt.Fprintf(w.w, ": %s\n\n", comment)
	return err
}
