package run

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agwire/agwire"
	"github.com/agwire/agwire/event"
	"github.com/agwire/agwire/state"
)

func feed(t *testing.T, a *Accumulator, evs ...event.Event) {
	t.Helper()
	for _, ev := range evs {
		require.NoError(t, a.Apply(ev))
	}
}

func TestMessageStreaming(t *testing.T) {
	t.Run("deltas concatenate in arrival order", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewTextMessageStart("m1", agwire.RoleAssistant),
			event.NewTextMessageContent("m1", "Hello, "),
			event.NewTextMessageContent("m1", "world!"),
			event.NewTextMessageEnd("m1"),
		)

		v := a.View()
		require.Len(t, v.Messages, 1)
		assert.Equal(t, "m1", v.Messages[0].ID)
		assert.Equal(t, agwire.RoleAssistant, v.Messages[0].Role)
		assert.Equal(t, "Hello, world!", v.Messages[0].Content)
		assert.False(t, v.Messages[0].Streaming)
	})

	t.Run("message streams until end arrives", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewTextMessageStart("m1", agwire.RoleAssistant),
			event.NewTextMessageContent("m1", "partial"),
		)
		assert.True(t, a.View().Messages[0].Streaming)
	})

	t.Run("content for a different id is rejected", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a, event.NewTextMessageStart("m1", agwire.RoleAssistant))

		err := a.Apply(event.NewTextMessageContent("m2", "oops"))
		var perr *agwire.ProtocolViolationError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, agwire.RuleMessageLifecycle, perr.Rule)

		// The rejected delta leaves the open message untouched.
		assert.Empty(t, a.View().Messages[0].Content)
	})

	t.Run("second start while one is open is rejected", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a, event.NewTextMessageStart("m1", agwire.RoleAssistant))

		err := a.Apply(event.NewTextMessageStart("m2", agwire.RoleAssistant))
		var perr *agwire.ProtocolViolationError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, agwire.RuleMessageLifecycle, perr.Rule)
	})

	t.Run("chunk bypasses the lifecycle", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewTextMessageChunk("c1", agwire.RoleAssistant, "one"),
			event.NewTextMessageChunk("c1", "", " two"),
			event.NewTextMessageChunk("", agwire.RoleUser, "other"),
		)

		v := a.View()
		require.Len(t, v.Messages, 2)
		assert.Equal(t, "one two", v.Messages[0].Content)
		assert.Equal(t, agwire.RoleUser, v.Messages[1].Role)
		assert.NotEmpty(t, v.Messages[1].ID)
	})
}

func TestMessageConcatenationProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	properties.Property("finalized content equals joined deltas", prop.ForAll(
		func(deltas []string) bool {
			a := NewAccumulator("t1", "r1")
			if a.Apply(event.NewTextMessageStart("m1", agwire.RoleAssistant)) != nil {
				return false
			}
			for _, d := range deltas {
				if a.Apply(event.NewTextMessageContent("m1", d)) != nil {
					return false
				}
			}
			if a.Apply(event.NewTextMessageEnd("m1")) != nil {
				return false
			}
			return a.View().Messages[0].Content == strings.Join(deltas, "")
		},
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool { return s != "" })),
	))

	properties.TestingRun(t)
}

func TestToolCallLifecycle(t *testing.T) {
	t.Run("start args end yields a completed call", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewToolCallStart("tc1", "search", ""),
			event.NewToolCallArgs("tc1", `{"q":1}`),
			event.NewToolCallEnd("tc1"),
		)

		v := a.View()
		require.Len(t, v.ToolCalls, 1)
		assert.Equal(t, agwire.ToolCall{
			ID:        "tc1",
			Name:      "search",
			Arguments: `{"q":1}`,
			Status:    agwire.ToolCallCompleted,
		}, v.ToolCalls[0])
	})

	t.Run("status transitions pending streaming completed", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")

		feed(t, a, event.NewToolCallStart("tc1", "search", ""))
		assert.Equal(t, agwire.ToolCallPending, a.View().ToolCalls[0].Status)

		feed(t, a, event.NewToolCallArgs("tc1", `{"q"`))
		assert.Equal(t, agwire.ToolCallStreaming, a.View().ToolCalls[0].Status)

		feed(t, a, event.NewToolCallArgs("tc1", `:1}`), event.NewToolCallEnd("tc1"))
		tc := a.View().ToolCalls[0]
		assert.Equal(t, agwire.ToolCallCompleted, tc.Status)
		assert.Equal(t, `{"q":1}`, tc.Arguments)
	})

	t.Run("orphan args are rejected", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		err := a.Apply(event.NewToolCallArgs("tc1", `{"q":1}`))
		var perr *agwire.ProtocolViolationError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, agwire.RuleToolCallLifecycle, perr.Rule)
		assert.Empty(t, a.View().ToolCalls)
	})

	t.Run("start while a message streams is rejected", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a, event.NewTextMessageStart("m1", agwire.RoleAssistant))

		err := a.Apply(event.NewToolCallStart("tc1", "search", ""))
		var perr *agwire.ProtocolViolationError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, agwire.RuleToolCallLifecycle, perr.Rule)
	})

	t.Run("result attaches regardless of status and appends a tool message", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewToolCallStart("tc1", "search", ""),
			event.NewToolCallArgs("tc1", `{"q":1}`),
			event.NewToolCallResult("rm1", "tc1", "42 results"),
		)

		v := a.View()
		assert.Equal(t, "42 results", v.ToolCalls[0].Result)
		assert.Equal(t, agwire.ToolCallStreaming, v.ToolCalls[0].Status)

		require.Len(t, v.Messages, 1)
		assert.Equal(t, agwire.RoleTool, v.Messages[0].Role)
		assert.Equal(t, "tc1", v.Messages[0].ToolCallID)
		assert.Equal(t, "42 results", v.Messages[0].Content)
	})

	t.Run("chunk bypasses the lifecycle", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			&event.ToolCallChunk{Base: event.Base{EventType: event.TypeToolCallChunk}, ToolCallID: "tc1", ToolCallName: "lookup", Delta: `{"id"`},
			&event.ToolCallChunk{Base: event.Base{EventType: event.TypeToolCallChunk}, ToolCallID: "tc1", Delta: `:7}`},
		)

		v := a.View()
		require.Len(t, v.ToolCalls, 1)
		assert.Equal(t, "lookup", v.ToolCalls[0].Name)
		assert.Equal(t, `{"id":7}`, v.ToolCalls[0].Arguments)
		assert.Equal(t, agwire.ToolCallCompleted, v.ToolCalls[0].Status)
	})
}

func TestStateSynchronization(t *testing.T) {
	t.Run("snapshot replaces wholesale", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a, event.NewStateSnapshot(json.RawMessage(`{"count":1}`)))
		assert.JSONEq(t, `{"count":1}`, string(a.View().State))
	})

	t.Run("delta applies in order", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewStateSnapshot(json.RawMessage(`{"count":1}`)),
			event.NewStateDelta(
				state.Operation{Op: state.OpReplace, Path: "/count", Value: json.RawMessage(`2`)},
				state.Operation{Op: state.OpAdd, Path: "/name", Value: json.RawMessage(`"agwire"`)},
			),
		)
		assert.JSONEq(t, `{"count":2,"name":"agwire"}`, string(a.View().State))
	})

	t.Run("failing delta leaves state untouched", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a, event.NewStateSnapshot(json.RawMessage(`{"count":1}`)))

		err := a.Apply(event.NewStateDelta(
			state.Operation{Op: state.OpReplace, Path: "/count", Value: json.RawMessage(`2`)},
			state.Operation{Op: state.OpRemove, Path: "/missing"},
		))
		var serr *agwire.StateSyncError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, 1, serr.OpIndex)
		assert.Equal(t, "/missing", serr.Path)

		// Atomic: the first op must not have landed either.
		assert.JSONEq(t, `{"count":1}`, string(a.View().State))
	})
}

func TestMessagesSnapshotReplacesHistory(t *testing.T) {
	a := NewAccumulator("t1", "r1")
	feed(t, a,
		event.NewTextMessageStart("m1", agwire.RoleAssistant),
		event.NewTextMessageContent("m1", "stale"),
		event.NewMessagesSnapshot([]agwire.Message{
			{ID: "u1", Role: agwire.RoleUser, Content: "question"},
			{ID: "a1", Role: agwire.RoleAssistant, Content: "answer"},
		}),
	)

	v := a.View()
	require.Len(t, v.Messages, 2)
	assert.Equal(t, "u1", v.Messages[0].ID)
	assert.Equal(t, "a1", v.Messages[1].ID)

	// The snapshot abandons the in-flight stream: a new start is legal.
	require.NoError(t, a.Apply(event.NewTextMessageStart("m2", agwire.RoleAssistant)))
}

func TestActivityMessages(t *testing.T) {
	t.Run("snapshot upserts an activity message", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewActivitySnapshot("act1", "plan", json.RawMessage(`{"steps":[]}`)),
			event.NewActivitySnapshot("act1", "plan", json.RawMessage(`{"steps":["a"]}`)),
		)

		v := a.View()
		require.Len(t, v.Messages, 1)
		assert.Equal(t, agwire.RoleActivity, v.Messages[0].Role)
		assert.Equal(t, "plan", v.Messages[0].ActivityType)
		assert.JSONEq(t, `{"steps":["a"]}`, v.Messages[0].Content)
	})

	t.Run("delta patches the content atomically", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewActivitySnapshot("act1", "plan", json.RawMessage(`{"steps":["a"]}`)),
			event.NewActivityDelta("act1", "plan", []state.Operation{
				{Op: state.OpAdd, Path: "/steps/-", Value: json.RawMessage(`"b"`)},
			}),
		)
		assert.JSONEq(t, `{"steps":["a","b"]}`, a.View().Messages[0].Content)
	})

	t.Run("delta for an unknown message is rejected", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		err := a.Apply(event.NewActivityDelta("nope", "plan", []state.Operation{
			{Op: state.OpAdd, Path: "/x", Value: json.RawMessage(`1`)},
		}))
		var perr *agwire.ProtocolViolationError
		require.ErrorAs(t, err, &perr)
	})
}

func TestStepsAreInformational(t *testing.T) {
	a := NewAccumulator("t1", "r1")
	feed(t, a,
		event.NewStepStarted("plan"),
		event.NewStepStarted("search"),
		event.NewStepFinished("plan"),
		// Unmatched finish is ignored rather than rejected.
		event.NewStepFinished("unknown"),
	)

	v := a.View()
	require.Len(t, v.Steps, 2)
	assert.Equal(t, Step{Name: "plan", Finished: true}, v.Steps[0])
	assert.Equal(t, Step{Name: "search", Finished: false}, v.Steps[1])
}

func TestThinkingBlocks(t *testing.T) {
	a := NewAccumulator("t1", "r1")
	feed(t, a,
		event.NewThinkingStart("planning"),
		event.NewThinkingTextMessageStart(),
		event.NewThinkingTextMessageContent("let me "),
		event.NewThinkingTextMessageContent("think"),
		event.NewThinkingTextMessageEnd(),
		event.NewThinkingEnd(),
	)

	v := a.View()
	require.Len(t, v.Thinking, 1)
	assert.Equal(t, "planning", v.Thinking[0].Title)
	assert.Equal(t, "let me think", v.Thinking[0].Content)
	assert.Empty(t, v.Messages)
}

func TestRunFinalization(t *testing.T) {
	t.Run("finish force-closes an open message", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewTextMessageStart("m1", agwire.RoleAssistant),
			event.NewTextMessageContent("m1", "cut off"),
			event.NewRunFinished("t1", "r1"),
		)

		v := a.View()
		assert.True(t, v.Finished)
		assert.False(t, v.Messages[0].Streaming)
		assert.Nil(t, v.Failure)
	})

	t.Run("error marks an open tool call failed", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a,
			event.NewToolCallStart("tc1", "search", ""),
			event.NewToolCallArgs("tc1", `{"q"`),
			event.NewRunError("provider exploded", "502"),
		)

		v := a.View()
		assert.True(t, v.Finished)
		require.NotNil(t, v.Failure)
		assert.Equal(t, "provider exploded", v.Failure.Message)
		assert.Equal(t, "502", v.Failure.Code)
		assert.Equal(t, agwire.ToolCallError, v.ToolCalls[0].Status)
	})

	t.Run("events after the run ends are rejected", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		feed(t, a, event.NewRunFinished("t1", "r1"))

		err := a.Apply(event.NewTextMessageStart("m1", agwire.RoleAssistant))
		var perr *agwire.ProtocolViolationError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, agwire.RuleRunLifecycle, perr.Rule)
	})

	t.Run("result carries through to the view", func(t *testing.T) {
		a := NewAccumulator("t1", "r1")
		ev := event.NewRunFinished("t1", "r1")
		ev.Result = json.RawMessage(`{"answer":42}`)
		feed(t, a, ev)
		assert.JSONEq(t, `{"answer":42}`, string(a.View().Result))
	})
}

func TestViewIsDetached(t *testing.T) {
	a := NewAccumulator("t1", "r1")
	feed(t, a,
		event.NewTextMessageStart("m1", agwire.RoleAssistant),
		event.NewTextMessageContent("m1", "before"),
	)

	v := a.View()
	feed(t, a, event.NewTextMessageContent("m1", " after"))

	assert.Equal(t, "before", v.Messages[0].Content)
	assert.Equal(t, "before after", a.View().Messages[0].Content)
}
