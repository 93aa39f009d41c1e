// Package store persists the read models produced by the run package.
//
// An [Adapter] is a minimal key/value backend; [MemoryAdapter] keeps
// everything in process and [SQLiteAdapter] survives restarts. [ViewStore]
// layers the domain on top: it files finished run views under their thread
// so a consumer can reload conversation history after a reconnect or a
// process restart.
package store

import (
	"context"
	"encoding/json"
)

// Adapter is a persistence backend for JSON documents keyed by string.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Get retrieves a value by key. Returns nil, false, nil when absent.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Set stores a value by key, replacing any existing value.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in unspecified order.
	Keys(ctx context.Context) ([]string, error)

	// Len returns the number of stored keys.
	Len(ctx context.Context) (int, error)

	// Clear removes all data.
	Clear(ctx context.Context) error
}
