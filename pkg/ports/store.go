package ports

import (
	"context"
	"time"

	"github.com/aretw0/waymark/pkg/domain"
)

// MatchStore keeps the last known match region of every state object.
// It is the cache behind declarative search regions and must outlive state activity:
// a match recorded while its owner was active stays readable after the owner exits.
type MatchStore interface {
	// Record stores the region of the latest match for key.
	Record(ctx context.Context, key domain.ObjectKey, region domain.Region) error

	// Last returns the most recent region for key. The boolean is false on a miss.
	Last(ctx context.Context, key domain.ObjectKey) (domain.Region, bool, error)

	// Forget removes any recorded region for key.
	Forget(ctx context.Context, key domain.ObjectKey) error
}

// SnapshotStore persists StateMemory snapshots so a run can resume where it stopped.
type SnapshotStore interface {
	// Save persists the snapshot for a given profile ID.
	Save(ctx context.Context, profileID string, snap domain.Snapshot) error

	// Load retrieves the snapshot for a given profile ID.
	// Returns domain.ErrSnapshotNotFound if none exists.
	Load(ctx context.Context, profileID string) (domain.Snapshot, error)

	// Delete removes the snapshot for a given profile ID.
	Delete(ctx context.Context, profileID string) error

	// List returns the stored profile IDs.
	List(ctx context.Context) ([]string, error)
}

// UnlockFunc releases a lock taken through DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes snapshot writes for one profile across processes
// sharing a SnapshotStore. Lock blocks until the key is held or ctx ends; the
// lock expires after ttl if the holder never unlocks.
type DistributedLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
