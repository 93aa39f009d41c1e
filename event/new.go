package event

import (
	"encoding/json"

	"github.com/agwire/agwire"
	"github.com/agwire/agwire/state"
)

// Constructors for producing well-formed events. Decoded events come out of
// [Decode] already typed; these exist for tests, producers, and the sse
// writer.

// NewRunStarted builds a RUN_STARTED event.
func NewRunStarted(threadID, runID string) *RunStarted {
	return &RunStarted{Base: Base{EventType: TypeRunStarted}, ThreadID: threadID, RunID: runID}
}

// NewRunFinished builds a RUN_FINISHED event.
func NewRunFinished(threadID, runID string) *RunFinished {
	return &RunFinished{Base: Base{EventType: TypeRunFinished}, ThreadID: threadID, RunID: runID}
}

// NewRunError builds a RUN_ERROR event.
func NewRunError(message, code string) *RunError {
	return &RunError{Base: Base{EventType: TypeRunError}, Message: message, Code: code}
}

// NewStepStarted builds a STEP_STARTED event.
func NewStepStarted(stepName string) *StepStarted {
	return &StepStarted{Base: Base{EventType: TypeStepStarted}, StepName: stepName}
}

// NewStepFinished builds a STEP_FINISHED event.
func NewStepFinished(stepName string) *StepFinished {
	return &StepFinished{Base: Base{EventType: TypeStepFinished}, StepName: stepName}
}

// NewTextMessageStart builds a TEXT_MESSAGE_START event.
func NewTextMessageStart(messageID string, role agwire.Role) *TextMessageStart {
	if role == "" {
		role = agwire.RoleAssistant
	}
	return &TextMessageStart{Base: Base{EventType: TypeTextMessageStart}, MessageID: messageID, Role: role}
}

// NewTextMessageContent builds a TEXT_MESSAGE_CONTENT event.
func NewTextMessageContent(messageID, delta string) *TextMessageContent {
	return &TextMessageContent{Base: Base{EventType: TypeTextMessageContent}, MessageID: messageID, Delta: delta}
}

// NewTextMessageEnd builds a TEXT_MESSAGE_END event.
func NewTextMessageEnd(messageID string) *TextMessageEnd {
	return &TextMessageEnd{Base: Base{EventType: TypeTextMessageEnd}, MessageID: messageID}
}

// NewTextMessageChunk builds a TEXT_MESSAGE_CHUNK event.
func NewTextMessageChunk(messageID string, role agwire.Role, delta string) *TextMessageChunk {
	return &TextMessageChunk{Base: Base{EventType: TypeTextMessageChunk}, MessageID: messageID, Role: role, Delta: delta}
}

// NewThinkingStart builds a THINKING_START event.
func NewThinkingStart(title string) *ThinkingStart {
	return &ThinkingStart{Base: Base{EventType: TypeThinkingStart}, Title: title}
}

// NewThinkingContent builds a THINKING_CONTENT event.
func NewThinkingContent(delta string) *ThinkingContent {
	return &ThinkingContent{Base: Base{EventType: TypeThinkingContent}, Delta: delta}
}

// NewThinkingEnd builds a THINKING_END event.
func NewThinkingEnd() *ThinkingEnd {
	return &ThinkingEnd{Base: Base{EventType: TypeThinkingEnd}}
}

// NewThinkingTextMessageStart builds a THINKING_TEXT_MESSAGE_START event.
func NewThinkingTextMessageStart() *ThinkingTextMessageStart {
	return &ThinkingTextMessageStart{Base: Base{EventType: TypeThinkingTextMessageStart}}
}

// NewThinkingTextMessageContent builds a THINKING_TEXT_MESSAGE_CONTENT event.
func NewThinkingTextMessageContent(delta string) *ThinkingTextMessageContent {
	return &ThinkingTextMessageContent{Base: Base{EventType: TypeThinkingTextMessageContent}, Delta: delta}
}

// NewThinkingTextMessageEnd builds a THINKING_TEXT_MESSAGE_END event.
func NewThinkingTextMessageEnd() *ThinkingTextMessageEnd {
	return &ThinkingTextMessageEnd{Base: Base{EventType: TypeThinkingTextMessageEnd}}
}

// NewToolCallStart builds a TOOL_CALL_START event.
func NewToolCallStart(toolCallID, toolCallName, parentMessageID string) *ToolCallStart {
	return &ToolCallStart{
		Base:            Base{EventType: TypeToolCallStart},
		ToolCallID:      toolCallID,
		ToolCallName:    toolCallName,
		ParentMessageID: parentMessageID,
	}
}

// NewToolCallArgs builds a TOOL_CALL_ARGS event.
func NewToolCallArgs(toolCallID, delta string) *ToolCallArgs {
	return &ToolCallArgs{Base: Base{EventType: TypeToolCallArgs}, ToolCallID: toolCallID, Delta: delta}
}

// NewToolCallEnd builds a TOOL_CALL_END event.
func NewToolCallEnd(toolCallID string) *ToolCallEnd {
	return &ToolCallEnd{Base: Base{EventType: TypeToolCallEnd}, ToolCallID: toolCallID}
}

// NewToolCallResult builds a TOOL_CALL_RESULT event.
func NewToolCallResult(messageID, toolCallID, content string) *ToolCallResult {
	return &ToolCallResult{
		Base:       Base{EventType: TypeToolCallResult},
		MessageID:  messageID,
		ToolCallID: toolCallID,
		Content:    content,
		Role:       agwire.RoleTool,
	}
}

// NewStateSnapshot builds a STATE_SNAPSHOT event.
func NewStateSnapshot(snapshot json.RawMessage) *StateSnapshot {
	return &StateSnapshot{Base: Base{EventType: TypeStateSnapshot}, Snapshot: snapshot}
}

// NewStateDelta builds a STATE_DELTA event.
func NewStateDelta(ops ...state.Operation) *StateDelta {
	if ops == nil {
		ops = []state.Operation{}
	}
	return &StateDelta{Base: Base{EventType: TypeStateDelta}, Delta: ops}
}

// NewMessagesSnapshot builds a MESSAGES_SNAPSHOT event.
func NewMessagesSnapshot(messages []agwire.Message) *MessagesSnapshot {
	if messages == nil {
		messages = []agwire.Message{}
	}
	return &MessagesSnapshot{Base: Base{EventType: TypeMessagesSnapshot}, Messages: messages}
}

// NewActivitySnapshot builds an ACTIVITY_SNAPSHOT event.
func NewActivitySnapshot(messageID, activityType string, content json.RawMessage) *ActivitySnapshot {
	return &ActivitySnapshot{
		Base:         Base{EventType: TypeActivitySnapshot},
		MessageID:    messageID,
		ActivityType: activityType,
		Content:      content,
	}
}

// NewActivityDelta builds an ACTIVITY_DELTA event.
func NewActivityDelta(messageID, activityType string, patch []state.Operation) *ActivityDelta {
	return &ActivityDelta{
		Base:         Base{EventType: TypeActivityDelta},
		MessageID:    messageID,
		ActivityType: activityType,
		Patch:        patch,
	}
}

// NewRaw builds a RAW pass-through event.
func NewRaw(payload json.RawMessage) *Raw {
	return &Raw{Base: Base{EventType: TypeRaw}, Event: payload}
}

// NewCustom builds a CUSTOM extension event.
func NewCustom(name string, value json.RawMessage) *Custom {
	return &Custom{Base: Base{EventType: TypeCustom}, Name: name, Value: value}
}
