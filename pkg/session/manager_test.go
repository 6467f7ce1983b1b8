package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/waymark/pkg/adapters/memory"
	"github.com/aretw0/waymark/pkg/adapters/redis"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]domain.Snapshot
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, profileID string, snap domain.Snapshot) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]domain.Snapshot)
	}
	s.data[profileID] = snap
	return nil
}

func (s *SlowStore) Load(ctx context.Context, profileID string) (domain.Snapshot, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[profileID]; ok {
		return snap, nil
	}
	return domain.Snapshot{}, domain.ErrSnapshotNotFound
}

func (s *SlowStore) Delete(ctx context.Context, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profileID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Read-modify-write without locking would lose appends.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Update(ctx, id, func(snap *domain.Snapshot) error {
				snap.Active = append(snap.Active, "S")
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, snap.Active, concurrentWrites)
}

func TestManager_LoadOrInit(t *testing.T) {
	// Verify atomic creation
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	// Launch 2 routines trying to init same profile
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := manager.LoadOrInit(ctx, id, []string{"HOME"})
			assert.NoError(t, err)
			assert.Equal(t, []string{"HOME"}, snap.Active)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"HOME"}, snap.Active)

	// Existing snapshots are not reset.
	require.NoError(t, manager.Save(ctx, id, domain.Snapshot{Active: []string{"WORLD"}}))
	snap, err = manager.LoadOrInit(ctx, id, []string{"HOME"})
	require.NoError(t, err)
	assert.Equal(t, []string{"WORLD"}, snap.Active)
}

func TestManager_UpdateError(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	boom := errors.New("rejected")

	err := manager.Update(ctx, "p", func(*domain.Snapshot) error { return boom })
	assert.ErrorIs(t, err, boom)

	_, err = manager.Load(ctx, "p")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "a failed update saves nothing")
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := redis.NewLocker(client, "waymark:")
	store := redis.NewFromClient(client)

	a := session.NewManager(store, session.WithLocker(locker), session.WithLockTTL(time.Second))
	b := session.NewManager(store, session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, m := range []*session.Manager{a, b, a, b} {
		wg.Add(1)
		go func(m *session.Manager) {
			defer wg.Done()
			err := m.Update(ctx, "shared", func(snap *domain.Snapshot) error {
				snap.Active = append(snap.Active, "X")
				return nil
			})
			assert.NoError(t, err)
		}(m)
	}
	wg.Wait()

	snap, err := a.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, snap.Active, 4)

	ids, err := b.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "shared")
}
