package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunMatchStoreContract runs a suite of tests to verify that a MatchStore implementation
// adheres to the defined interface contract.
func RunMatchStoreContract(t *testing.T, store MatchStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000")
	key := domain.ObjectKey{State: "PromptState-" + suffix, Object: "ClaudePrompt"}

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := store.Last(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "unrecorded key must miss")
	})

	t.Run("Record and Last", func(t *testing.T) {
		r := domain.NewRegion(100, 100, 50, 50)
		require.NoError(t, store.Record(ctx, key, r))

		got, ok, err := store.Last(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, r, got)
	})

	t.Run("Latest Wins", func(t *testing.T) {
		r := domain.NewRegion(5, 6, 7, 8)
		require.NoError(t, store.Record(ctx, key, r))

		got, ok, err := store.Last(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, r, got)
	})

	t.Run("Keys Are Isolated", func(t *testing.T) {
		other := domain.ObjectKey{State: key.State, Object: "Other"}
		_, ok, err := store.Last(ctx, other)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Forget", func(t *testing.T) {
		require.NoError(t, store.Forget(ctx, key))
		_, ok, err := store.Last(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		// Forgetting twice is not an error.
		require.NoError(t, store.Forget(ctx, key))
	})
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	profileID := "contract-test-profile-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.Snapshot{Active: []string{"HOME", "TOOLBAR"}}
		require.NoError(t, store.Save(ctx, profileID, snap), "Save should not return error")

		loaded, err := store.Load(ctx, profileID)
		require.NoError(t, err, "Load should not return error")
		assert.ElementsMatch(t, snap.Active, loaded.Active)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+profileID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, profileID, domain.Snapshot{Active: []string{"HOME"}}))
		require.NoError(t, store.Delete(ctx, profileID), "Delete should not return error")

		_, err := store.Load(ctx, profileID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := profileID + "-1"
		id2 := profileID + "-2"
		_ = store.Save(ctx, id1, domain.Snapshot{Active: []string{"A"}})
		_ = store.Save(ctx, id2, domain.Snapshot{Active: []string{"B"}})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
