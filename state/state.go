// Package state applies RFC 6902 JSON Patch deltas to JSON documents.
//
// The AG-UI protocol synchronizes application state by streaming a
// STATE_SNAPSHOT (a full replacement document) followed by any number of
// STATE_DELTA events, each carrying an ordered list of patch operations.
// This package implements the strict merge policy those deltas require:
// a delta applies atomically, and a failing operation rejects the whole
// delta, leaving the document at its pre-delta value.
package state

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/agwire/agwire"
)

// Patch operation names defined by RFC 6902.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpCopy    = "copy"
	OpTest    = "test"
)

// Operation is a single RFC 6902 patch operation.
type Operation struct {
	// Op is the operation name: add, remove, replace, move, copy, or test.
	Op string `json:"op"`
	// Path is a JSON Pointer to the target location.
	Path string `json:"path"`
	// Value is the operand for add, replace, and test.
	Value json.RawMessage `json:"value,omitempty"`
	// From is the source location for move and copy.
	From string `json:"from,omitempty"`
}

// EmptyDocument is the state value before any snapshot arrives.
var EmptyDocument = json.RawMessage(`{}`)

// Apply applies ops to doc in order and returns the patched document.
//
// Application is atomic: if any operation fails, the returned document is
// nil and the error is a [agwire.StateSyncError] naming the failing
// operation's index and path. The input document is never modified.
// A nil doc is treated as an empty object.
func Apply(doc json.RawMessage, ops []Operation) (json.RawMessage, error) {
	working := doc
	if len(working) == 0 {
		working = EmptyDocument
	}

	// One operation at a time so a failure can name the offending index.
	// Commitment happens only by returning; the caller's document is
	// untouched until then.
	for i, op := range ops {
		single, err := json.Marshal([]Operation{op})
		if err != nil {
			return nil, &agwire.StateSyncError{OpIndex: i, Path: op.Path, Err: err}
		}
		patch, err := jsonpatch.DecodePatch(single)
		if err != nil {
			return nil, &agwire.StateSyncError{OpIndex: i, Path: op.Path, Err: err}
		}
		working, err = patch.Apply(working)
		if err != nil {
			return nil, &agwire.StateSyncError{OpIndex: i, Path: op.Path, Err: err}
		}
	}
	return working, nil
}
