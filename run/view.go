package run

import (
	"encoding/json"

	"github.com/agwire/agwire"
)

// Step is one entry in a run's informational step log. Steps do not nest and
// do not gate other events; an unmatched finish is ignored.
type Step struct {
	Name     string `json:"name"`
	Finished bool   `json:"finished"`
}

// ThinkingBlock is one reasoning phase of a run, opened by THINKING_START and
// filled by the thinking content deltas.
type ThinkingBlock struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Failure describes how a run ended when it ended with RUN_ERROR.
type Failure struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// View is a point-in-time snapshot of one run's read model. Snapshots are
// detached from the accumulator; consumers treat them as read-only and
// re-render on each flush.
type View struct {
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`

	// Messages is the ordered message list, including force-closed
	// streaming messages once the run ends.
	Messages []agwire.Message `json:"messages"`

	// ToolCalls is the tool call table in arrival order.
	ToolCalls []agwire.ToolCall `json:"toolCalls,omitempty"`

	// State is the reconciled application state document.
	State json.RawMessage `json:"state,omitempty"`

	Steps    []Step          `json:"steps,omitempty"`
	Thinking []ThinkingBlock `json:"thinking,omitempty"`

	// Result carries the producer-defined run result from RUN_FINISHED.
	Result json.RawMessage `json:"result,omitempty"`

	// Failure is set when the run ended with RUN_ERROR.
	Failure *Failure `json:"failure,omitempty"`

	// Finished reports whether the run has ended; the final flush of a run
	// always carries Finished snapshots.
	Finished bool `json:"finished"`
}

// Message returns the message with the given id, nil if absent.
func (v *View) Message(id string) *agwire.Message {
	for i := range v.Messages {
		if v.Messages[i].ID == id {
			return &v.Messages[i]
		}
	}
	return nil
}

// ToolCall returns the tool call with the given id, nil if absent.
func (v *View) ToolCall(id string) *agwire.ToolCall {
	for i := range v.ToolCalls {
		if v.ToolCalls[i].ID == id {
			return &v.ToolCalls[i]
		}
	}
	return nil
}
