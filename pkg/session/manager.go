package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Manager serializes access to persisted memory snapshots by profile, so several
// runners sharing a store never interleave read-modify-write cycles.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given snapshot store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(profileID) after unlocking.
func (m *Manager) acquire(profileID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[profileID]
	if !exists {
		entry = &lockEntry{}
		m.locks[profileID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(profileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[profileID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, profileID)
	}
}

// Load retrieves the snapshot of a profile.
func (m *Manager) Load(ctx context.Context, profileID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, profileID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, profileID)
		return err
	})
	return snap, err
}

// LoadOrInit loads a snapshot. If none exists, it persists one holding initial.
func (m *Manager) LoadOrInit(ctx context.Context, profileID string, initial []string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, profileID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, profileID)
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			return fmt.Errorf("failed to check snapshot existence: %w", err)
		}

		snap = domain.Snapshot{Active: append([]string{}, initial...)}

		// Persist immediately to reserve the profile
		if err := m.store.Save(ctx, profileID, snap); err != nil {
			return fmt.Errorf("failed to initialize snapshot: %w", err)
		}
		return nil
	})
	return snap, err
}

// Update loads a snapshot (empty when missing), applies fn and saves the result
// while holding the profile lock.
func (m *Manager) Update(ctx context.Context, profileID string, fn func(*domain.Snapshot) error) error {
	return m.WithLock(ctx, profileID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, profileID)
		if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		if err := fn(&snap); err != nil {
			return err
		}
		return m.store.Save(ctx, profileID, snap)
	})
}

// Save persists the snapshot.
func (m *Manager) Save(ctx context.Context, profileID string, snap domain.Snapshot) error {
	return m.WithLock(ctx, profileID, func(ctx context.Context) error {
		return m.store.Save(ctx, profileID, snap)
	})
}

// Delete removes the snapshot from the store.
func (m *Manager) Delete(ctx context.Context, profileID string) error {
	return m.WithLock(ctx, profileID, func(ctx context.Context) error {
		return m.store.Delete(ctx, profileID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes a function while holding the lock for the profile.
func (m *Manager) WithLock(ctx context.Context, profileID string, fn func(context.Context) error) error {
	entry := m.acquire(profileID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(profileID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, profileID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"profile_id", profileID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
