package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agwire/agwire"
)

// Decode parses one event payload (the joined data of an SSE frame).
//
// It reads the "type" discriminator, dispatches to the matching concrete
// type, and validates required fields. Malformed JSON or an unknown
// discriminator yields a *agwire.DecodingError; a well-formed payload that
// violates a field constraint yields a *agwire.ValidationError. Neither is
// fatal to the stream; the transport decides whether to surface or skip.
func Decode(data []byte) (Event, error) {
	var probe struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &agwire.DecodingError{Msg: "malformed event JSON", Err: err}
	}
	if probe.Type == "" {
		return nil, &agwire.DecodingError{Msg: "missing type discriminator"}
	}

	ev := newEvent(probe.Type)
	if ev == nil {
		return nil, &agwire.DecodingError{Msg: fmt.Sprintf("unknown event type %q", probe.Type)}
	}

	if err := json.Unmarshal(normalizeKeys(data), ev); err != nil {
		return nil, &agwire.DecodingError{Msg: fmt.Sprintf("malformed %s payload", probe.Type), Err: err}
	}

	// Producers may omit the role on message starts; the protocol default
	// is assistant.
	if start, ok := ev.(*TextMessageStart); ok && start.Role == "" {
		start.Role = agwire.RoleAssistant
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Encode serializes an event to its camelCase JSON wire form. Null-valued
// optional fields are omitted.
func Encode(ev Event) ([]byte, error) {
	if ev.Type() == "" {
		return nil, &agwire.ValidationError{Field: "type", Msg: "required"}
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	return data, nil
}

// newEvent returns a zero value of the concrete type for the discriminator,
// or nil when the discriminator is unknown.
func newEvent(t Type) Event {
	switch t {
	case TypeRunStarted:
		return &RunStarted{}
	case TypeRunFinished:
		return &RunFinished{}
	case TypeRunError:
		return &RunError{}
	case TypeStepStarted:
		return &StepStarted{}
	case TypeStepFinished:
		return &StepFinished{}
	case TypeTextMessageStart:
		return &TextMessageStart{}
	case TypeTextMessageContent:
		return &TextMessageContent{}
	case TypeTextMessageEnd:
		return &TextMessageEnd{}
	case TypeTextMessageChunk:
		return &TextMessageChunk{}
	case TypeThinkingStart:
		return &ThinkingStart{}
	case TypeThinkingContent:
		return &ThinkingContent{}
	case TypeThinkingEnd:
		return &ThinkingEnd{}
	case TypeThinkingTextMessageStart:
		return &ThinkingTextMessageStart{}
	case TypeThinkingTextMessageContent:
		return &ThinkingTextMessageContent{}
	case TypeThinkingTextMessageEnd:
		return &ThinkingTextMessageEnd{}
	case TypeToolCallStart:
		return &ToolCallStart{}
	case TypeToolCallArgs:
		return &ToolCallArgs{}
	case TypeToolCallEnd:
		return &ToolCallEnd{}
	case TypeToolCallChunk:
		return &ToolCallChunk{}
	case TypeToolCallResult:
		return &ToolCallResult{}
	case TypeStateSnapshot:
		return &StateSnapshot{}
	case TypeStateDelta:
		return &StateDelta{}
	case TypeMessagesSnapshot:
		return &MessagesSnapshot{}
	case TypeActivitySnapshot:
		return &ActivitySnapshot{}
	case TypeActivityDelta:
		return &ActivityDelta{}
	case TypeRaw:
		return &Raw{}
	case TypeCustom:
		return &Custom{}
	}
	return nil
}

// normalizeKeys rewrites top-level snake_case keys to camelCase so payloads
// from producers in other languages (thread_id, run_id, step_name, ...)
// unmarshal into the camelCase struct tags. A camelCase key always wins over
// its snake_case alias. On any parse trouble the input is returned as is and
// the caller's unmarshal reports the error.
func normalizeKeys(data []byte) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return data
	}

	changed := false
	for key, value := range fields {
		if !strings.Contains(key, "_") {
			continue
		}
		camel := snakeToCamel(key)
		if _, exists := fields[camel]; exists {
			delete(fields, key)
			changed = true
			continue
		}
		delete(fields, key)
		fields[camel] = value
		changed = true
	}
	if !changed {
		return data
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(fields); err != nil {
		return data
	}
	return buf.Bytes()
}

// snakeToCamel converts snake_case to camelCase ("thread_id" -> "threadId").
func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
