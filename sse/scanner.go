// Package sse implements Server-Sent Events framing: a scanner that splits a
// byte stream into frames and a writer that emits them.
//
// A frame is one or more "data:" lines (joined with newlines when there are
// several), optionally preceded by "id:", "event:", or "retry:" fields, and
// terminated by a blank line. Comment lines starting with ":", notably
// keep-alive pings, are discarded silently.
package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// Frame is one complete SSE message.
type Frame struct {
	// ID is the value of the frame's "id:" field, empty if absent. The
	// transport replays the last seen ID as Last-Event-ID on reconnect.
	ID string
	// Event is the value of the frame's "event:" field, empty if absent.
	Event string
	// Data is the joined payload of the frame's "data:" lines.
	Data []byte
	// Retry is the server's reconnection hint from the "retry:" field,
	// 0 if absent. Parsed but not applied; the client uses its own
	// backoff policy.
	Retry time.Duration
}

// HasData reports whether the frame carried any data lines.
func (f Frame) HasData() bool { return f.Data != nil }

// Scanner reads SSE frames from a byte stream.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next reads until one complete frame has arrived and returns it. Frames
// without data lines (comment-only, field-only) are skipped. Next returns
// the reader's error once the stream ends; a frame left incomplete at EOF
// is discarded, as the SSE specification requires.
func (s *Scanner) Next() (Frame, error) {
	var (
		frame    Frame
		dataSeen bool
		data     strings.Builder
	)

	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			return Frame{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		// Blank line terminates the frame.
		if line == "" {
			if dataSeen {
				frame.Data = []byte(data.String())
				return frame, nil
			}
			// Field- or comment-only frame; keep scanning.
			frame = Frame{}
			continue
		}

		// Comment line, including keep-alive pings.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := splitField(line)
		switch field {
		case "data":
			if dataSeen {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			dataSeen = true
		case "id":
			frame.ID = value
		case "event":
			frame.Event = value
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				frame.Retry = time.Duration(ms) * time.Millisecond
			}
		default:
			// Unknown fields are ignored per the SSE specification.
		}
	}
}

// splitField splits "field: value", stripping the single optional space
// after the colon. A line without a colon is a field with an empty value.
func splitField(line string) (string, string) {
	field, value, found := strings.Cut(line, ":")
	if !found {
		return line, ""
	}
	value = strings.TrimPrefix(value, " ")
	return field, value
}
