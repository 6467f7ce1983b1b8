package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/waymark/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory snapshot store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Snapshot),
	}
}

// Save persists a copy of the snapshot in memory.
func (s *Store) Save(ctx context.Context, profileID string, snap domain.Snapshot) error {
	copied := domain.Snapshot{Active: slices.Clone(snap.Active)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[profileID] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, profileID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[profileID]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}

	// Copy on read so callers can't mutate the stored slice.
	return domain.Snapshot{Active: slices.Clone(snap.Active)}, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profileID)
	return nil
}

// List returns stored profile IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
