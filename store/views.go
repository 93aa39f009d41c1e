package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agwire/agwire/run"
)

const viewPrefix = "view/"

// storedView wraps a run view with the metadata needed to order history.
type storedView struct {
	SavedAt time.Time `json:"savedAt"`
	View    *run.View `json:"view"`
}

// ViewStore files finished run views by thread on top of an [Adapter].
// Typical wiring saves every finished view from a processor flush:
//
//	vs := store.NewViewStore(adapter)
//	proc.OnFlush(func(v *run.View) {
//	    if v.Finished {
//	        vs.Save(ctx, v)
//	    }
//	})
type ViewStore struct {
	adapter Adapter
	now     func() time.Time
}

// NewViewStore creates a view store on the given backend.
func NewViewStore(adapter Adapter) *ViewStore {
	return &ViewStore{adapter: adapter, now: time.Now}
}

// Save persists one run view, replacing any earlier save of the same run.
func (s *ViewStore) Save(ctx context.Context, v *run.View) error {
	if v.ThreadID == "" || v.RunID == "" {
		return fmt.Errorf("save view: thread and run ids are required")
	}
	data, err := json.Marshal(storedView{SavedAt: s.now().UTC(), View: v})
	if err != nil {
		return fmt.Errorf("save view %s/%s: %w", v.ThreadID, v.RunID, err)
	}
	return s.adapter.Set(ctx, viewKey(v.ThreadID, v.RunID), data)
}

// Get retrieves one run's view. The second return is false when absent.
func (s *ViewStore) Get(ctx context.Context, threadID, runID string) (*run.View, bool, error) {
	data, ok, err := s.adapter.Get(ctx, viewKey(threadID, runID))
	if err != nil || !ok {
		return nil, false, err
	}
	var sv storedView
	if err := json.Unmarshal(data, &sv); err != nil {
		return nil, false, fmt.Errorf("load view %s/%s: %w", threadID, runID, err)
	}
	return sv.View, true, nil
}

// Thread returns all saved views for a thread, oldest save first.
func (s *ViewStore) Thread(ctx context.Context, threadID string) ([]*run.View, error) {
	keys, err := s.adapter.Keys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := viewPrefix + threadID + "/"
	var saved []storedView
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		data, ok, err := s.adapter.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var sv storedView
		if err := json.Unmarshal(data, &sv); err != nil {
			return nil, fmt.Errorf("load view %s: %w", k, err)
		}
		saved = append(saved, sv)
	}

	sort.Slice(saved, func(i, j int) bool { return saved[i].SavedAt.Before(saved[j].SavedAt) })
	views := make([]*run.View, len(saved))
	for i, sv := range saved {
		views[i] = sv.View
	}
	return views, nil
}

// Delete removes one run's saved view.
func (s *ViewStore) Delete(ctx context.Context, threadID, runID string) error {
	return s.adapter.Delete(ctx, viewKey(threadID, runID))
}

func viewKey(threadID, runID string) string {
	return viewPrefix + threadID + "/" + runID
}
