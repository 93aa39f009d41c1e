package event

import "github.com/agwire/agwire"

// required reports a missing required string field.
func required(field, value string) error {
	if value == "" {
		return &agwire.ValidationError{Field: field, Msg: "required"}
	}
	return nil
}

// nonEmptyDelta rejects empty streaming deltas at decode time.
func nonEmptyDelta(delta string) error {
	if delta == "" {
		return &agwire.ValidationError{Field: "delta", Msg: "must not be empty"}
	}
	return nil
}

// Validate checks required fields and value constraints.
func (e *RunStarted) Validate() error {
	if err := required("threadId", e.ThreadID); err != nil {
		return err
	}
	return required("runId", e.RunID)
}

// Validate checks required fields and value constraints.
func (e *RunFinished) Validate() error {
	if err := required("threadId", e.ThreadID); err != nil {
		return err
	}
	return required("runId", e.RunID)
}

// Validate checks required fields and value constraints.
func (e *RunError) Validate() error {
	return required("message", e.Message)
}

// Validate checks required fields and value constraints.
func (e *StepStarted) Validate() error {
	return required("stepName", e.StepName)
}

// Validate checks required fields and value constraints.
func (e *StepFinished) Validate() error {
	return required("stepName", e.StepName)
}

// Validate checks required fields and value constraints.
func (e *TextMessageStart) Validate() error {
	if err := required("messageId", e.MessageID); err != nil {
		return err
	}
	return required("role", string(e.Role))
}

// Validate checks required fields and value constraints.
func (e *TextMessageContent) Validate() error {
	if err := required("messageId", e.MessageID); err != nil {
		return err
	}
	return nonEmptyDelta(e.Delta)
}

// Validate checks required fields and value constraints.
func (e *TextMessageEnd) Validate() error {
	return required("messageId", e.MessageID)
}

// Validate checks required fields and value constraints. All chunk fields
// are optional; a chunk with neither id nor delta is still well formed.
func (e *TextMessageChunk) Validate() error { return nil }

// Validate checks required fields and value constraints.
func (e *ThinkingStart) Validate() error { return nil }

// Validate checks required fields and value constraints.
func (e *ThinkingContent) Validate() error {
	return nonEmptyDelta(e.Delta)
}

// Validate checks required fields and value constraints.
func (e *ThinkingEnd) Validate() error { return nil }

// Validate checks required fields and value constraints.
func (e *ThinkingTextMessageStart) Validate() error { return nil }

// Validate checks required fields and value constraints.
func (e *ThinkingTextMessageContent) Validate() error {
	return nonEmptyDelta(e.Delta)
}

// Validate checks required fields and value constraints.
func (e *ThinkingTextMessageEnd) Validate() error { return nil }

// Validate checks required fields and value constraints.
func (e *ToolCallStart) Validate() error {
	if err := required("toolCallId", e.ToolCallID); err != nil {
		return err
	}
	return required("toolCallName", e.ToolCallName)
}

// Validate checks required fields and value constraints.
func (e *ToolCallArgs) Validate() error {
	if err := required("toolCallId", e.ToolCallID); err != nil {
		return err
	}
	return required("delta", e.Delta)
}

// Validate checks required fields and value constraints.
func (e *ToolCallEnd) Validate() error {
	return required("toolCallId", e.ToolCallID)
}

// Validate checks required fields and value constraints.
func (e *ToolCallChunk) Validate() error { return nil }

// Validate checks required fields and value constraints.
func (e *ToolCallResult) Validate() error {
	if err := required("messageId", e.MessageID); err != nil {
		return err
	}
	if err := required("toolCallId", e.ToolCallID); err != nil {
		return err
	}
	return required("content", e.Content)
}

// Validate checks required fields and value constraints.
func (e *StateSnapshot) Validate() error {
	if len(e.Snapshot) == 0 {
		return &agwire.ValidationError{Field: "snapshot", Msg: "required"}
	}
	return nil
}

// Validate checks required fields and value constraints.
func (e *StateDelta) Validate() error {
	if e.Delta == nil {
		return &agwire.ValidationError{Field: "delta", Msg: "required"}
	}
	for _, op := range e.Delta {
		switch op.Op {
		case "add", "remove", "replace", "move", "copy", "test":
		default:
			return &agwire.ValidationError{Field: "delta", Msg: "unknown patch op " + op.Op}
		}
	}
	return nil
}

// Validate checks required fields and value constraints.
func (e *MessagesSnapshot) Validate() error {
	if e.Messages == nil {
		return &agwire.ValidationError{Field: "messages", Msg: "required"}
	}
	return nil
}

// Validate checks required fields and value constraints.
func (e *ActivitySnapshot) Validate() error {
	if err := required("messageId", e.MessageID); err != nil {
		return err
	}
	if err := required("activityType", e.ActivityType); err != nil {
		return err
	}
	if len(e.Content) == 0 {
		return &agwire.ValidationError{Field: "content", Msg: "required"}
	}
	return nil
}

// Validate checks required fields and value constraints.
func (e *ActivityDelta) Validate() error {
	if err := required("messageId", e.MessageID); err != nil {
		return err
	}
	if err := required("activityType", e.ActivityType); err != nil {
		return err
	}
	if e.Patch == nil {
		return &agwire.ValidationError{Field: "patch", Msg: "required"}
	}
	return nil
}

// Validate checks required fields and value constraints.
func (e *Raw) Validate() error {
	if len(e.Event) == 0 {
		return &agwire.ValidationError{Field: "event", Msg: "required"}
	}
	return nil
}

// Validate checks required fields and value constraints.
func (e *Custom) Validate() error {
	return required("name", e.Name)
}
