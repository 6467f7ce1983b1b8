package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/waymark/pkg/domain"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, profileID string, snap domain.Snapshot) error {
	return nil
}
func (m *MockStore) Load(ctx context.Context, profileID string) (domain.Snapshot, error) {
	return domain.Snapshot{}, nil
}
func (m *MockStore) Delete(ctx context.Context, profileID string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	// 1. Create and Delete many profiles
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("profile-%d", i)
		_ = mgr.Save(ctx, id, domain.Snapshot{})
		_ = mgr.Delete(ctx, id)
	}

	// 2. Count locks remaining in map
	lockCount := len(mgr.locks)

	// 3. Assert Leak
	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
