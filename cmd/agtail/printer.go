package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/agwire/agwire"
	"github.com/agwire/agwire/run"
)

// printer renders flush snapshots incrementally: streamed message content is
// written as it grows rather than reprinted per snapshot.
type printer struct {
	w         io.Writer
	showState bool

	mu        sync.Mutex
	printed   map[string]int // runID/messageID -> content bytes already written
	announced map[string]bool
	openKey   string
}

func newPrinter(w io.Writer, showState bool) *printer {
	return &printer{
		w:         w,
		showState: showState,
		printed:   make(map[string]int),
		announced: make(map[string]bool),
	}
}

func (p *printer) flush(v *run.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range v.Messages {
		p.printMessage(v.RunID, &v.Messages[i])
	}
	for i := range v.ToolCalls {
		p.printToolCall(v.RunID, &v.ToolCalls[i])
	}

	if v.Finished {
		p.breakLine()
		if v.Failure != nil {
			fmt.Fprintf(p.w, "run %s failed: %s\n", v.RunID, v.Failure.Message)
		} else {
			fmt.Fprintf(p.w, "run %s finished (%d messages)\n", v.RunID, len(v.Messages))
		}
		if p.showState && len(v.State) > 0 && string(v.State) != "{}" {
			fmt.Fprintf(p.w, "state: %s\n", v.State)
		}
	}
}

func (p *printer) printMessage(runID string, m *agwire.Message) {
	key := runID + "/" + m.ID
	done := p.printed[key]
	if done >= len(m.Content) && p.announced[key] {
		return
	}

	if !p.announced[key] {
		p.breakLine()
		fmt.Fprintf(p.w, "[%s] ", m.Role)
		p.announced[key] = true
	}
	if done < len(m.Content) {
		fmt.Fprint(p.w, m.Content[done:])
		p.printed[key] = len(m.Content)
		p.openKey = key
	}
	if !m.Streaming {
		p.breakLine()
	}
}

func (p *printer) printToolCall(runID string, tc *agwire.ToolCall) {
	key := runID + "/call/" + tc.ID
	if tc.Status == agwire.ToolCallCompleted || tc.Status == agwire.ToolCallError {
		if !p.announced[key] {
			p.breakLine()
			fmt.Fprintf(p.w, "[tool] %s(%s) -> %s\n", tc.Name, tc.Arguments, tc.Status)
			p.announced[key] = true
		}
	}
	resultKey := key + "/result"
	if tc.Result != "" && !p.announced[resultKey] {
		p.breakLine()
		fmt.Fprintf(p.w, "[tool] %s result: %s\n", tc.Name, tc.Result)
		p.announced[resultKey] = true
	}
}

// breakLine terminates any partially printed streamed line.
func (p *printer) breakLine() {
	if p.openKey != "" {
		fmt.Fprintln(p.w)
		p.openKey = ""
	}
}
