// Package event defines the AG-UI wire event model: the tagged union of
// protocol events, their validation rules, and the JSON codec that moves
// them on and off the wire.
//
// Every event carries a "type" discriminator in upper snake case (e.g.
// TEXT_MESSAGE_CONTENT) and an optional millisecond timestamp. Output is
// always camelCase; on input several identifier fields are also accepted in
// snake_case to interoperate with producers written in other languages.
package event

import (
	"encoding/json"

	"github.com/agwire/agwire"
	"github.com/agwire/agwire/state"
)

// Type identifies the kind of event, using the protocol's wire spelling.
type Type string

// Run lifecycle events
const (
	TypeRunStarted   Type = "RUN_STARTED"
	TypeRunFinished  Type = "RUN_FINISHED"
	TypeRunError     Type = "RUN_ERROR"
	TypeStepStarted  Type = "STEP_STARTED"
	TypeStepFinished Type = "STEP_FINISHED"
)

// Text message events
const (
	TypeTextMessageStart   Type = "TEXT_MESSAGE_START"
	TypeTextMessageContent Type = "TEXT_MESSAGE_CONTENT"
	TypeTextMessageEnd     Type = "TEXT_MESSAGE_END"

	// TypeTextMessageChunk is the self-contained variant used by producers
	// that do not stream token by token.
	TypeTextMessageChunk Type = "TEXT_MESSAGE_CHUNK"
)

// Thinking events
const (
	TypeThinkingStart   Type = "THINKING_START"
	TypeThinkingContent Type = "THINKING_CONTENT"
	TypeThinkingEnd     Type = "THINKING_END"

	TypeThinkingTextMessageStart   Type = "THINKING_TEXT_MESSAGE_START"
	TypeThinkingTextMessageContent Type = "THINKING_TEXT_MESSAGE_CONTENT"
	TypeThinkingTextMessageEnd     Type = "THINKING_TEXT_MESSAGE_END"
)

// Tool call events
const (
	TypeToolCallStart  Type = "TOOL_CALL_START"
	TypeToolCallArgs   Type = "TOOL_CALL_ARGS"
	TypeToolCallEnd    Type = "TOOL_CALL_END"
	TypeToolCallChunk  Type = "TOOL_CALL_CHUNK"
	TypeToolCallResult Type = "TOOL_CALL_RESULT"
)

// State events
const (
	TypeStateSnapshot    Type = "STATE_SNAPSHOT"
	TypeStateDelta       Type = "STATE_DELTA"
	TypeMessagesSnapshot Type = "MESSAGES_SNAPSHOT"
	TypeActivitySnapshot Type = "ACTIVITY_SNAPSHOT"
	TypeActivityDelta    Type = "ACTIVITY_DELTA"
)

// Pass-through events
const (
	TypeRaw    Type = "RAW"
	TypeCustom Type = "CUSTOM"
)

// Event is the interface implemented by all wire events. Concrete types
// embed [Base]; consumers dispatch with a type switch.
type Event interface {
	// Type returns the wire discriminator.
	Type() Type

	// Timestamp returns the event timestamp in Unix milliseconds, 0 if unset.
	Timestamp() int64

	// Validate checks required fields and value constraints, returning a
	// *agwire.ValidationError on violation.
	Validate() error
}

// Base carries the fields common to every event.
type Base struct {
	EventType   Type  `json:"type"`
	TimestampMs int64 `json:"timestamp,omitempty"`
}

// Type returns the wire discriminator.
func (b *Base) Type() Type { return b.EventType }

// Timestamp returns the event timestamp in Unix milliseconds, 0 if unset.
func (b *Base) Timestamp() int64 { return b.TimestampMs }

// RunStarted signals the start of one agent run on a thread.
type RunStarted struct {
	Base
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// RunFinished signals the successful end of a run.
type RunFinished struct {
	Base
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
	// Result is an optional producer-defined run result.
	Result json.RawMessage `json:"result,omitempty"`
}

// RunError signals that a run terminated with an error.
type RunError struct {
	Base
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StepStarted marks the start of a named step inside a run.
type StepStarted struct {
	Base
	StepName string `json:"stepName"`
}

// StepFinished marks the end of a named step.
type StepFinished struct {
	Base
	StepName string `json:"stepName"`
}

// TextMessageStart opens a streaming text message.
type TextMessageStart struct {
	Base
	MessageID string      `json:"messageId"`
	Role      agwire.Role `json:"role"`
}

// TextMessageContent carries one content delta for the open message.
type TextMessageContent struct {
	Base
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// TextMessageEnd closes a streaming text message.
type TextMessageEnd struct {
	Base
	MessageID string `json:"messageId"`
}

// TextMessageChunk is a self-contained message fragment that bypasses the
// Start/Content/End lifecycle.
type TextMessageChunk struct {
	Base
	MessageID string      `json:"messageId,omitempty"`
	Role      agwire.Role `json:"role,omitempty"`
	Delta     string      `json:"delta,omitempty"`
}

// ThinkingStart opens a reasoning phase.
type ThinkingStart struct {
	Base
	Title string `json:"title,omitempty"`
}

// ThinkingContent carries one reasoning delta.
type ThinkingContent struct {
	Base
	Delta string `json:"delta"`
}

// ThinkingEnd closes a reasoning phase.
type ThinkingEnd struct {
	Base
}

// ThinkingTextMessageStart opens a streamed thinking text message.
type ThinkingTextMessageStart struct {
	Base
}

// ThinkingTextMessageContent carries one thinking text delta.
type ThinkingTextMessageContent struct {
	Base
	Delta string `json:"delta"`
}

// ThinkingTextMessageEnd closes a streamed thinking text message.
type ThinkingTextMessageEnd struct {
	Base
}

// ToolCallStart opens a streaming tool call.
type ToolCallStart struct {
	Base
	ToolCallID      string `json:"toolCallId"`
	ToolCallName    string `json:"toolCallName"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
}

// ToolCallArgs carries one argument-string delta for the open tool call.
type ToolCallArgs struct {
	Base
	ToolCallID string `json:"toolCallId"`
	Delta      string `json:"delta"`
}

// ToolCallEnd closes a streaming tool call.
type ToolCallEnd struct {
	Base
	ToolCallID string `json:"toolCallId"`
}

// ToolCallChunk is a self-contained tool call fragment that bypasses the
// Start/Args/End lifecycle.
type ToolCallChunk struct {
	Base
	ToolCallID      string `json:"toolCallId,omitempty"`
	ToolCallName    string `json:"toolCallName,omitempty"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
	Delta           string `json:"delta,omitempty"`
}

// ToolCallResult attaches an execution result to a tool call.
type ToolCallResult struct {
	Base
	MessageID  string      `json:"messageId"`
	ToolCallID string      `json:"toolCallId"`
	Content    string      `json:"content"`
	Role       agwire.Role `json:"role,omitempty"`
}

// StateSnapshot replaces the run's application state wholesale.
type StateSnapshot struct {
	Base
	Snapshot json.RawMessage `json:"snapshot"`
}

// StateDelta applies an ordered list of RFC 6902 operations to the run's
// application state.
type StateDelta struct {
	Base
	Delta []state.Operation `json:"delta"`
}

// MessagesSnapshot replaces the run's message history wholesale.
type MessagesSnapshot struct {
	Base
	Messages []agwire.Message `json:"messages"`
}

// ActivitySnapshot replaces the content of an activity message.
type ActivitySnapshot struct {
	Base
	MessageID    string          `json:"messageId"`
	ActivityType string          `json:"activityType"`
	Content      json.RawMessage `json:"content"`
}

// ActivityDelta patches the content of an activity message.
type ActivityDelta struct {
	Base
	MessageID    string            `json:"messageId"`
	ActivityType string            `json:"activityType"`
	Patch        []state.Operation `json:"patch"`
}

// Raw passes an arbitrary producer event through unmodified.
type Raw struct {
	Base
	Event json.RawMessage `json:"event"`
}

// Custom carries a producer-defined extension event.
type Custom struct {
	Base
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}
