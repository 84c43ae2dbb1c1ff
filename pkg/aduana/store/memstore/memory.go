package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/aduana/pkg/aduana/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string][]store.Record
	runs      map[string][]store.RunSummary
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		snapshots: make(map[string][]store.Record),
		runs:      make(map[string][]store.RunSummary),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ReplaceSnapshot implements store.Store.
func (s *Store) ReplaceSnapshot(ctx context.Context, project string, recs []store.Record, sum store.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[project] = append([]store.Record(nil), recs...)
	s.runs[project] = append(s.runs[project], sum)
	return nil
}

// Snapshot implements store.Store.
func (s *Store) Snapshot(ctx context.Context, project string) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]store.Record(nil), s.snapshots[project]...), nil
}

// LastRun implements store.Store.
func (s *Store) LastRun(ctx context.Context, project string) (store.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.runs[project]
	if len(runs) == 0 {
		return store.RunSummary{}, false, nil
	}
	return runs[len(runs)-1], true, nil
}
