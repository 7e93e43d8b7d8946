package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	ids     *store.IDSource
	entries map[string]store.Entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:     store.NewIDSource(),
		entries: make(map[string]store.Entry),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// AddEntry stores a copy of e under a new ID.
func (s *Store) AddEntry(ctx context.Context, e store.Entry) (store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.ids.Next()
	e.Normalize()
	s.entries[e.ID] = e
	return e, nil
}

// UpdateEntry replaces an existing entry.
func (s *Store) UpdateEntry(ctx context.Context, e store.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; !ok {
		return fmt.Errorf("memstore: entry %q: %w", e.ID, internalerr.ErrNotFound)
	}
	e.Normalize()
	s.entries[e.ID] = e
	return nil
}

// GetEntry returns an entry by ID.
func (s *Store) GetEntry(ctx context.Context, id string) (store.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	return e, ok, nil
}

// ListEntries returns all entries, newest first.
func (s *Store) ListEntries(ctx context.Context) ([]store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]store.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	store.SortNewestFirst(out)
	return out, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// Replace swaps the stored entries for entries in one step.
func (s *Store) Replace(ctx context.Context, entries []store.Entry) ([]store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]store.Entry, len(entries))
	out := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		e.ID = s.ids.Next()
		e.Normalize()
		next[e.ID] = e
		out = append(out, e)
	}
	s.entries = next
	return out, nil
}

var _ store.Store = (*Store)(nil)
