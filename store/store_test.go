package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adapters returns a fresh instance of every backend under test.
func adapters(t *testing.T) map[string]Adapter {
	t.Helper()

	sqlite, err := NewSQLiteAdapter(context.Background(), filepath.Join(t.TempDir(), "agwire.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Adapter{
		"memory": NewMemoryAdapter(),
		"sqlite": sqlite,
	}
}

func TestAdapterGetSet(t *testing.T) {
	ctx := context.Background()
	for name, adapter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`"value1"`)))

			raw, ok, err := adapter.Get(ctx, "key1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, json.RawMessage(`"value1"`), raw)

			// Overwrite replaces.
			require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`"value2"`)))
			raw, _, err = adapter.Get(ctx, "key1")
			require.NoError(t, err)
			assert.Equal(t, json.RawMessage(`"value2"`), raw)

			_, ok, err = adapter.Get(ctx, "nonexistent")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestAdapterDelete(t *testing.T) {
	ctx := context.Background()
	for name, adapter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, adapter.Set(ctx, "key1", json.RawMessage(`1`)))
			require.NoError(t, adapter.Delete(ctx, "key1"))

			_, ok, err := adapter.Get(ctx, "key1")
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting an absent key is fine.
			require.NoError(t, adapter.Delete(ctx, "nonexistent"))
		})
	}
}

func TestAdapterKeysLenClear(t *testing.T) {
	ctx := context.Background()
	for name, adapter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := adapter.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)

			require.NoError(t, adapter.Set(ctx, "a", json.RawMessage(`1`)))
			require.NoError(t, adapter.Set(ctx, "b", json.RawMessage(`2`)))

			keys, err = adapter.Keys(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"a", "b"}, keys)

			n, err := adapter.Len(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			require.NoError(t, adapter.Clear(ctx))
			n, err = adapter.Len(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestAdapterConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	for name, adapter := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					key := string(rune('a' + i))
					assert.NoError(t, adapter.Set(ctx, key, json.RawMessage(`true`)))
					_, _, err := adapter.Get(ctx, key)
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()

			n, err := adapter.Len(ctx)
			require.NoError(t, err)
			assert.Equal(t, 8, n)
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "agwire.db")

	first, err := NewSQLiteAdapter(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "key1", json.RawMessage(`"persisted"`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteAdapter(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	raw, ok, err := second.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, json.RawMessage(`"persisted"`), raw)
}
