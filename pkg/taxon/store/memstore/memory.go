package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
	"github.com/cognicore/taxon/pkg/taxon/snapshot"
	"github.com/cognicore/taxon/pkg/taxon/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]snapshot.Snapshot
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{snapshots: make(map[string]snapshot.Snapshot)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveSnapshot implements store.Store.
func (s *Store) SaveSnapshot(ctx context.Context, snap snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.ID] = copySnapshot(snap, true)
	return nil
}

// GetSnapshot implements store.Store.
func (s *Store) GetSnapshot(ctx context.Context, id string) (snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return snapshot.Snapshot{}, internalerr.ErrNotFound
	}
	return copySnapshot(snap, true), nil
}

// LatestSnapshot implements store.Store.
func (s *Store) LatestSnapshot(ctx context.Context, name string) (snapshot.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	named := s.named(name)
	if len(named) == 0 {
		return snapshot.Snapshot{}, false, nil
	}
	return copySnapshot(named[0], true), true, nil
}

// ListSnapshots implements store.Store.
func (s *Store) ListSnapshots(ctx context.Context, name string, limit int) ([]snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	named := s.named(name)
	if limit > 0 && len(named) > limit {
		named = named[:limit]
	}
	out := make([]snapshot.Snapshot, len(named))
	for i, snap := range named {
		out[i] = copySnapshot(snap, false)
	}
	return out, nil
}

// DeleteSnapshot implements store.Store.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	return nil
}

// named returns snapshots saved under name, newest first. ULIDs sort by time.
func (s *Store) named(name string) []snapshot.Snapshot {
	var out []snapshot.Snapshot
	for _, snap := range s.snapshots {
		if snap.Name == name {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func copySnapshot(snap snapshot.Snapshot, withPaths bool) snapshot.Snapshot {
	if withPaths {
		snap.Paths = append([]string(nil), snap.Paths...)
	} else {
		snap.Paths = nil
	}
	return snap
}
