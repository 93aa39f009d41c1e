package agwire

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleTool      Role = "tool"
	RoleActivity  Role = "activity"
)

// Message represents a single message in a conversation, both on the wire
// (MESSAGES_SNAPSHOT payloads) and in the reconciled read model exposed by
// the run package.
type Message struct {
	// ID is the unique identifier for the message. Optional for tool
	// messages on the wire.
	ID   string `json:"id,omitempty"`
	Role Role   `json:"role"`
	// Content holds the message text. For assistant messages it accumulates
	// from streaming deltas; for tool messages it holds the tool result.
	Content string `json:"content,omitempty"`
	// ToolCalls contains tool invocation requests attached to an assistant
	// message.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolCallID references the tool call a tool message responds to.
	// Only populated when Role is RoleTool.
	ToolCallID string `json:"toolCallId,omitempty"`
	// Error marks a tool message as a failed execution.
	// Only populated when Role is RoleTool.
	Error string `json:"error,omitempty"`
	// ActivityType identifies the payload shape of an activity message.
	// Only populated when Role is RoleActivity.
	ActivityType string `json:"activityType,omitempty"`
	// Streaming reports whether the message is still receiving deltas.
	// Read-model only; never set on wire snapshots.
	Streaming bool `json:"isStreaming,omitempty"`
}

// ToolCallStatus tracks a tool call through its streaming lifecycle.
type ToolCallStatus string

const (
	// ToolCallPending means TOOL_CALL_START arrived but no arguments yet.
	ToolCallPending ToolCallStatus = "pending"

	// ToolCallStreaming means at least one TOOL_CALL_ARGS delta arrived.
	ToolCallStreaming ToolCallStatus = "streaming"

	// ToolCallCompleted means TOOL_CALL_END arrived.
	ToolCallCompleted ToolCallStatus = "completed"

	// ToolCallError means the run ended before the tool call closed.
	ToolCallError ToolCallStatus = "error"
)

// ToolCall represents a tool invocation request streamed by an agent.
type ToolCall struct {
	// ID is the unique identifier for the tool call.
	ID string `json:"id"`
	// Name is the tool being invoked.
	Name string `json:"name"`
	// Arguments is the JSON argument string, accumulated from
	// TOOL_CALL_ARGS deltas in arrival order.
	Arguments string `json:"arguments"`
	// Status tracks the streaming lifecycle of the call.
	Status ToolCallStatus `json:"status"`
	// Result holds the tool execution result once a TOOL_CALL_RESULT
	// event attaches one.
	Result string `json:"result,omitempty"`
	// ParentMessageID links the call to the assistant message that
	// produced it, when the producer provides one.
	ParentMessageID string `json:"parentMessageId,omitempty"`
}

// ToolResult represents the outcome of executing a tool call, produced by
// the mcp bridge and sent back to the agent as a tool message.
type ToolResult struct {
	// ToolCallID references the tool call this result responds to.
	ToolCallID string `json:"toolCallId"`
	// Content is the result payload.
	Content string `json:"content"`
	// Error is set when the execution failed.
	Error string `json:"error,omitempty"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	c := m
	if len(m.ToolCalls) > 0 {
		c.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		copy(c.ToolCalls, m.ToolCalls)
	}
	return c
}

// ToolMessage builds the tool message answering the given tool call.
func (r ToolResult) ToolMessage() Message {
	return Message{
		ID:         GenerateMessageID(),
		Role:       RoleTool,
		Content:    r.Content,
		ToolCallID: r.ToolCallID,
		Error:      r.Error,
	}
}
