package run

import (
	"bytes"
	"fmt"

	"encoding/json"

	"github.com/agwire/agwire"
	"github.com/agwire/agwire/event"
	"github.com/agwire/agwire/state"
)

// Accumulator holds the evolving read model of one run. It is created on
// RUN_STARTED, fed every subsequent event in arrival order, and finalized by
// RUN_FINISHED or RUN_ERROR. Exactly one goroutine may call Apply.
type Accumulator struct {
	threadID string
	runID    string

	openMessageID  string
	openToolCallID string

	messages  []agwire.Message
	toolCalls []agwire.ToolCall
	msgIndex  map[string]int
	callIndex map[string]int

	state    json.RawMessage
	steps    []Step
	thinking []ThinkingBlock

	result   json.RawMessage
	failure  *Failure
	finished bool
}

// NewAccumulator creates an accumulator for one (threadID, runID) pair with
// empty state.
func NewAccumulator(threadID, runID string) *Accumulator {
	return &Accumulator{
		threadID:  threadID,
		runID:     runID,
		state:     json.RawMessage(state.EmptyDocument),
		msgIndex:  make(map[string]int),
		callIndex: make(map[string]int),
	}
}

// ThreadID returns the thread this run belongs to.
func (a *Accumulator) ThreadID() string { return a.threadID }

// RunID returns the run identifier.
func (a *Accumulator) RunID() string { return a.runID }

// Finished reports whether the run has ended.
func (a *Accumulator) Finished() bool { return a.finished }

// Apply advances the read model by one event. On a lifecycle or state-sync
// violation it returns the typed error and leaves the model exactly as it
// was; the accumulator stays usable for subsequent events.
func (a *Accumulator) Apply(ev event.Event) error {
	if a.finished {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleRunLifecycle,
			Msg:  fmt.Sprintf("event %s after run %s finished", ev.Type(), a.runID),
		}
	}

	switch e := ev.(type) {
	case *event.RunStarted:
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleRunLifecycle,
			Msg:  fmt.Sprintf("RUN_STARTED for run %s while run %s is open on thread %s", e.RunID, a.runID, a.threadID),
		}
	case *event.RunFinished:
		a.finish(e.Result, nil)
	case *event.RunError:
		a.finish(nil, &Failure{Message: e.Message, Code: e.Code})

	case *event.StepStarted:
		a.steps = append(a.steps, Step{Name: e.StepName})
	case *event.StepFinished:
		a.finishStep(e.StepName)

	case *event.TextMessageStart:
		return a.startMessage(e.MessageID, e.Role)
	case *event.TextMessageContent:
		return a.appendMessage(e.MessageID, e.Delta)
	case *event.TextMessageEnd:
		return a.endMessage(e.MessageID)
	case *event.TextMessageChunk:
		a.applyMessageChunk(e)

	case *event.ThinkingStart:
		a.thinking = append(a.thinking, ThinkingBlock{Title: e.Title})
	case *event.ThinkingContent:
		a.appendThinking(e.Delta)
	case *event.ThinkingTextMessageContent:
		a.appendThinking(e.Delta)
	case *event.ThinkingEnd, *event.ThinkingTextMessageStart, *event.ThinkingTextMessageEnd:
		// Phase markers only; content carries the model.

	case *event.ToolCallStart:
		return a.startToolCall(e)
	case *event.ToolCallArgs:
		return a.appendToolCall(e.ToolCallID, e.Delta)
	case *event.ToolCallEnd:
		return a.endToolCall(e.ToolCallID)
	case *event.ToolCallChunk:
		a.applyToolCallChunk(e)
	case *event.ToolCallResult:
		a.attachToolResult(e)

	case *event.StateSnapshot:
		a.state = bytes.Clone(e.Snapshot)
	case *event.StateDelta:
		next, err := state.Apply(a.state, e.Delta)
		if err != nil {
			return err
		}
		a.state = next
	case *event.MessagesSnapshot:
		a.replaceMessages(e.Messages)

	case *event.ActivitySnapshot:
		a.applyActivitySnapshot(e)
	case *event.ActivityDelta:
		return a.applyActivityDelta(e)

	case *event.Raw, *event.Custom:
		// Pass-through events do not touch the read model.
	}
	return nil
}

// View returns a detached snapshot of the current read model.
func (a *Accumulator) View() *View {
	v := &View{
		ThreadID: a.threadID,
		RunID:    a.runID,
		Messages: make([]agwire.Message, 0, len(a.messages)),
		Finished: a.finished,
		Failure:  a.failure,
	}
	for _, m := range a.messages {
		v.Messages = append(v.Messages, m.Clone())
	}
	if len(a.toolCalls) > 0 {
		v.ToolCalls = make([]agwire.ToolCall, len(a.toolCalls))
		copy(v.ToolCalls, a.toolCalls)
	}
	if len(a.steps) > 0 {
		v.Steps = make([]Step, len(a.steps))
		copy(v.Steps, a.steps)
	}
	if len(a.thinking) > 0 {
		v.Thinking = make([]ThinkingBlock, len(a.thinking))
		copy(v.Thinking, a.thinking)
	}
	v.State = bytes.Clone(a.state)
	v.Result = bytes.Clone(a.result)
	return v
}

func (a *Accumulator) startMessage(id string, role agwire.Role) error {
	if a.openMessageID != "" || a.openToolCallID != "" {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleMessageLifecycle,
			Msg:  fmt.Sprintf("TEXT_MESSAGE_START %s while %s is still streaming", id, a.openID()),
		}
	}
	if role == "" {
		role = agwire.RoleAssistant
	}
	a.openMessageID = id
	a.msgIndex[id] = len(a.messages)
	a.messages = append(a.messages, agwire.Message{ID: id, Role: role, Streaming: true})
	return nil
}

func (a *Accumulator) appendMessage(id, delta string) error {
	if id != a.openMessageID || id == "" {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleMessageLifecycle,
			Msg:  fmt.Sprintf("TEXT_MESSAGE_CONTENT for %s but open message is %q", id, a.openMessageID),
		}
	}
	a.messages[a.msgIndex[id]].Content += delta
	return nil
}

func (a *Accumulator) endMessage(id string) error {
	if id != a.openMessageID || id == "" {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleMessageLifecycle,
			Msg:  fmt.Sprintf("TEXT_MESSAGE_END for %s but open message is %q", id, a.openMessageID),
		}
	}
	a.messages[a.msgIndex[id]].Streaming = false
	a.openMessageID = ""
	return nil
}

// applyMessageChunk handles the self-contained variant: it bypasses the
// open/close lifecycle entirely. A chunk whose id matches an existing message
// extends it; otherwise it lands as a complete message.
func (a *Accumulator) applyMessageChunk(e *event.TextMessageChunk) {
	id := e.MessageID
	if id != "" {
		if i, ok := a.msgIndex[id]; ok {
			a.messages[i].Content += e.Delta
			return
		}
	} else {
		id = agwire.GenerateMessageID()
	}
	role := e.Role
	if role == "" {
		role = agwire.RoleAssistant
	}
	a.msgIndex[id] = len(a.messages)
	a.messages = append(a.messages, agwire.Message{ID: id, Role: role, Content: e.Delta})
}

func (a *Accumulator) appendThinking(delta string) {
	if len(a.thinking) == 0 {
		a.thinking = append(a.thinking, ThinkingBlock{})
	}
	a.thinking[len(a.thinking)-1].Content += delta
}

func (a *Accumulator) startToolCall(e *event.ToolCallStart) error {
	if a.openMessageID != "" || a.openToolCallID != "" {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleToolCallLifecycle,
			Msg:  fmt.Sprintf("TOOL_CALL_START %s while %s is still streaming", e.ToolCallID, a.openID()),
		}
	}
	a.openToolCallID = e.ToolCallID
	a.callIndex[e.ToolCallID] = len(a.toolCalls)
	a.toolCalls = append(a.toolCalls, agwire.ToolCall{
		ID:              e.ToolCallID,
		Name:            e.ToolCallName,
		Status:          agwire.ToolCallPending,
		ParentMessageID: e.ParentMessageID,
	})
	return nil
}

func (a *Accumulator) appendToolCall(id, delta string) error {
	if id != a.openToolCallID || id == "" {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleToolCallLifecycle,
			Msg:  fmt.Sprintf("TOOL_CALL_ARGS for %s but open tool call is %q", id, a.openToolCallID),
		}
	}
	tc := &a.toolCalls[a.callIndex[id]]
	tc.Arguments += delta
	tc.Status = agwire.ToolCallStreaming
	return nil
}

func (a *Accumulator) endToolCall(id string) error {
	if id != a.openToolCallID || id == "" {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleToolCallLifecycle,
			Msg:  fmt.Sprintf("TOOL_CALL_END for %s but open tool call is %q", id, a.openToolCallID),
		}
	}
	a.toolCalls[a.callIndex[id]].Status = agwire.ToolCallCompleted
	a.openToolCallID = ""
	return nil
}

func (a *Accumulator) applyToolCallChunk(e *event.ToolCallChunk) {
	id := e.ToolCallID
	if id != "" {
		if i, ok := a.callIndex[id]; ok {
			tc := &a.toolCalls[i]
			tc.Arguments += e.Delta
			if e.ToolCallName != "" {
				tc.Name = e.ToolCallName
			}
			return
		}
	} else {
		id = agwire.GenerateToolCallID()
	}
	a.callIndex[id] = len(a.toolCalls)
	a.toolCalls = append(a.toolCalls, agwire.ToolCall{
		ID:              id,
		Name:            e.ToolCallName,
		Arguments:       e.Delta,
		Status:          agwire.ToolCallCompleted,
		ParentMessageID: e.ParentMessageID,
	})
}

// attachToolResult records the result on the named tool call, whatever its
// status, and appends the corresponding tool message to the history.
func (a *Accumulator) attachToolResult(e *event.ToolCallResult) {
	if i, ok := a.callIndex[e.ToolCallID]; ok {
		a.toolCalls[i].Result = e.Content
	}
	role := e.Role
	if role == "" {
		role = agwire.RoleTool
	}
	id := e.MessageID
	if id == "" {
		id = agwire.GenerateMessageID()
	}
	a.msgIndex[id] = len(a.messages)
	a.messages = append(a.messages, agwire.Message{
		ID:         id,
		Role:       role,
		Content:    e.Content,
		ToolCallID: e.ToolCallID,
	})
}

// replaceMessages handles MESSAGES_SNAPSHOT: the history is replaced
// wholesale and any in-flight stream pointer is abandoned, since the
// snapshot is the producer's authoritative resync.
func (a *Accumulator) replaceMessages(msgs []agwire.Message) {
	a.messages = make([]agwire.Message, 0, len(msgs))
	a.msgIndex = make(map[string]int, len(msgs))
	for _, m := range msgs {
		a.msgIndex[m.ID] = len(a.messages)
		a.messages = append(a.messages, m.Clone())
	}
	a.openMessageID = ""
	a.openToolCallID = ""
}

func (a *Accumulator) applyActivitySnapshot(e *event.ActivitySnapshot) {
	content := string(e.Content)
	if i, ok := a.msgIndex[e.MessageID]; ok && a.messages[i].Role == agwire.RoleActivity {
		a.messages[i].ActivityType = e.ActivityType
		a.messages[i].Content = content
		return
	}
	a.msgIndex[e.MessageID] = len(a.messages)
	a.messages = append(a.messages, agwire.Message{
		ID:           e.MessageID,
		Role:         agwire.RoleActivity,
		ActivityType: e.ActivityType,
		Content:      content,
	})
}

func (a *Accumulator) applyActivityDelta(e *event.ActivityDelta) error {
	i, ok := a.msgIndex[e.MessageID]
	if !ok || a.messages[i].Role != agwire.RoleActivity {
		return &agwire.ProtocolViolationError{
			Rule: agwire.RuleMessageLifecycle,
			Msg:  fmt.Sprintf("ACTIVITY_DELTA for unknown activity message %s", e.MessageID),
		}
	}
	doc := json.RawMessage(a.messages[i].Content)
	if len(doc) == 0 {
		doc = json.RawMessage(state.EmptyDocument)
	}
	next, err := state.Apply(doc, e.Patch)
	if err != nil {
		return err
	}
	a.messages[i].Content = string(next)
	if e.ActivityType != "" {
		a.messages[i].ActivityType = e.ActivityType
	}
	return nil
}

func (a *Accumulator) finishStep(name string) {
	for i := len(a.steps) - 1; i >= 0; i-- {
		if a.steps[i].Name == name && !a.steps[i].Finished {
			a.steps[i].Finished = true
			return
		}
	}
}

// finish force-closes anything still streaming and seals the run. An open
// tool call completes on a clean finish and errors on RUN_ERROR.
func (a *Accumulator) finish(result json.RawMessage, failure *Failure) {
	if a.openMessageID != "" {
		a.messages[a.msgIndex[a.openMessageID]].Streaming = false
		a.openMessageID = ""
	}
	if a.openToolCallID != "" {
		tc := &a.toolCalls[a.callIndex[a.openToolCallID]]
		if failure != nil {
			tc.Status = agwire.ToolCallError
		} else {
			tc.Status = agwire.ToolCallCompleted
		}
		a.openToolCallID = ""
	}
	a.result = bytes.Clone(result)
	a.failure = failure
	a.finished = true
}

func (a *Accumulator) openID() string {
	if a.openMessageID != "" {
		return "message " + a.openMessageID
	}
	return "tool call " + a.openToolCallID
}
