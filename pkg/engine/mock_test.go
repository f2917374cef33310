package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/autoprop/pkg/core"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memRepo keeps documents in memory. Patch merges into Metadata without touching Raw.
type memRepo struct {
	mu      sync.Mutex
	docs    map[string]core.Document
	patches []string
	reasons []string
	failGet map[string]error
	events  chan core.Event
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[string]core.Document), failGet: make(map[string]error)}
}

func (r *memRepo) put(id, raw string, meta core.Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if meta == nil {
		meta = core.Metadata{}
	}
	r.docs[id] = core.Document{ID: id, Raw: raw, Metadata: meta}
}

func (r *memRepo) Get(_ context.Context, id string) (core.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failGet[id]; err != nil {
		return core.Document{}, err
	}
	d, ok := r.docs[id]
	if !ok {
		return core.Document{}, core.ErrNotFound
	}
	meta := make(core.Metadata, len(d.Metadata))
	for k, v := range d.Metadata {
		meta[k] = v
	}
	d.Metadata = meta
	return d, nil
}

func (r *memRepo) List(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memRepo) Patch(ctx context.Context, id string, patch core.Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return core.ErrNotFound
	}
	for k, v := range patch {
		d.Metadata[k] = v
	}
	r.docs[id] = d
	r.patches = append(r.patches, id)
	if reason, ok := ctx.Value(core.ChangeReasonKey).(string); ok {
		r.reasons = append(r.reasons, reason)
	}
	return nil
}

func (r *memRepo) Initialize(context.Context) error { return nil }

func (r *memRepo) Watch(_ context.Context, _ string) (<-chan core.Event, error) {
	if r.events == nil {
		return nil, errors.New("no events")
	}
	return r.events, nil
}

func (r *memRepo) patchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

func (r *memRepo) meta(id string) core.Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id].Metadata
}

type staticText map[string]string

func (s staticText) CurrentText(_ context.Context, id string) (string, bool) {
	t, ok := s[id]
	return t, ok
}
