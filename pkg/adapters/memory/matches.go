package memory

import (
	"context"
	"sync"

	"github.com/aretw0/waymark/pkg/domain"
)

// MatchStore implements ports.MatchStore with a map guarded by a RWMutex.
type MatchStore struct {
	mu      sync.RWMutex
	regions map[domain.ObjectKey]domain.Region
}

// NewMatchStore creates an empty match cache.
func NewMatchStore() *MatchStore {
	return &MatchStore{
		regions: make(map[domain.ObjectKey]domain.Region),
	}
}

// Record stores the latest match region for key.
func (m *MatchStore) Record(ctx context.Context, key domain.ObjectKey, region domain.Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions[key] = region
	return nil
}

// Last returns the latest region recorded for key.
func (m *MatchStore) Last(ctx context.Context, key domain.ObjectKey) (domain.Region, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.regions[key]
	return r, ok, nil
}

// Forget drops the region recorded for key.
func (m *MatchStore) Forget(ctx context.Context, key domain.ObjectKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.regions, key)
	return nil
}

// Len returns the number of cached keys.
func (m *MatchStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.regions)
}
