package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agwire/agwire"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		ops  []Operation
		want string
	}{
		{
			name: "add to object",
			doc:  `{"a":1}`,
			ops:  []Operation{{Op: OpAdd, Path: "/b", Value: json.RawMessage(`2`)}},
			want: `{"a":1,"b":2}`,
		},
		{
			name: "replace value",
			doc:  `{"a":1}`,
			ops:  []Operation{{Op: OpReplace, Path: "/a", Value: json.RawMessage(`"x"`)}},
			want: `{"a":"x"}`,
		},
		{
			name: "remove key",
			doc:  `{"a":1,"b":2}`,
			ops:  []Operation{{Op: OpRemove, Path: "/b"}},
			want: `{"a":1}`,
		},
		{
			name: "move value",
			doc:  `{"a":1}`,
			ops:  []Operation{{Op: OpMove, Path: "/b", From: "/a"}},
			want: `{"b":1}`,
		},
		{
			name: "copy value",
			doc:  `{"a":1}`,
			ops:  []Operation{{Op: OpCopy, Path: "/b", From: "/a"}},
			want: `{"a":1,"b":1}`,
		},
		{
			name: "test passes",
			doc:  `{"a":1}`,
			ops:  []Operation{{Op: OpTest, Path: "/a", Value: json.RawMessage(`1`)}},
			want: `{"a":1}`,
		},
		{
			name: "append to array",
			doc:  `{"xs":[1]}`,
			ops:  []Operation{{Op: OpAdd, Path: "/xs/-", Value: json.RawMessage(`2`)}},
			want: `{"xs":[1,2]}`,
		},
		{
			name: "ops apply in order",
			doc:  `{}`,
			ops: []Operation{
				{Op: OpAdd, Path: "/a", Value: json.RawMessage(`1`)},
				{Op: OpReplace, Path: "/a", Value: json.RawMessage(`2`)},
			},
			want: `{"a":2}`,
		},
		{
			name: "nil doc treated as empty object",
			doc:  "",
			ops:  []Operation{{Op: OpAdd, Path: "/a", Value: json.RawMessage(`1`)}},
			want: `{"a":1}`,
		},
		{
			name: "empty patch is a no-op",
			doc:  `{"a":1}`,
			ops:  nil,
			want: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(json.RawMessage(tt.doc), tt.ops)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestApplyReportsFailingOp(t *testing.T) {
	doc := json.RawMessage(`{"a":1}`)
	ops := []Operation{
		{Op: OpReplace, Path: "/a", Value: json.RawMessage(`2`)},
		{Op: OpTest, Path: "/a", Value: json.RawMessage(`2`)},
		{Op: OpRemove, Path: "/missing"},
	}

	got, err := Apply(doc, ops)
	assert.Nil(t, got)

	var serr *agwire.StateSyncError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 2, serr.OpIndex)
	assert.Equal(t, "/missing", serr.Path)

	// Input document untouched.
	assert.JSONEq(t, `{"a":1}`, string(doc))
}

func TestApplyRejectsUnknownOp(t *testing.T) {
	_, err := Apply(EmptyDocument, []Operation{{Op: "merge", Path: "/a"}})
	var serr *agwire.StateSyncError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, serr.OpIndex)
}

// genOps yields patch sequences that build up disjoint top-level keys, so
// every generated sequence is applicable to the empty document.
func genOps() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 31)).Map(func(keys []int) []Operation {
		ops := make([]Operation, 0, len(keys))
		seen := make(map[int]bool)
		for _, k := range keys {
			path := fmt.Sprintf("/k%d", k)
			if seen[k] {
				ops = append(ops, Operation{Op: OpReplace, Path: path, Value: json.RawMessage(`true`)})
			} else {
				ops = append(ops, Operation{Op: OpAdd, Path: path, Value: json.RawMessage(`false`)})
				seen[k] = true
			}
		}
		return ops
	})
}

func TestApplyProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("batch equals sequential application", prop.ForAll(
		func(ops []Operation) bool {
			batch, err := Apply(EmptyDocument, ops)
			if err != nil {
				return false
			}
			seq := EmptyDocument
			for _, op := range ops {
				seq, err = Apply(seq, []Operation{op})
				if err != nil {
					return false
				}
			}
			return string(batch) == string(seq)
		},
		genOps(),
	))

	properties.Property("a failing op rejects the whole delta", prop.ForAll(
		func(ops []Operation) bool {
			// Sabotage the tail: removing a path that can never exist.
			bad := append(append([]Operation{}, ops...), Operation{Op: OpRemove, Path: "/never/there"})
			_, err := Apply(EmptyDocument, bad)
			var serr *agwire.StateSyncError
			return errors.As(err, &serr) && serr.OpIndex == len(ops)
		},
		genOps(),
	))

	properties.TestingRun(t)
}
