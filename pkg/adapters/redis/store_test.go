package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/waymark/pkg/adapters/redis"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	profileID := "profile-ttl"

	err := store.Save(ctx, profileID, domain.Snapshot{Active: []string{"HOME"}})
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, profileID)

	// Expire the key in miniredis.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, profileID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// The index is pruned against wall-clock time, so wait past the TTL.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "my-profile", domain.Snapshot{Active: []string{"HOME"}})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-profile"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "my-profile")
}

func TestRedisMatchStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunMatchStoreContract(t, redis.NewMatchStore(client, "test:"))
}

func TestRedisMatchStore_SharedBetweenRunners(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	writer := redis.NewMatchStore(client, "shared:")
	reader := redis.NewMatchStore(client, "shared:")

	key := domain.ObjectKey{State: "PromptState", Object: "ClaudePrompt"}
	require.NoError(t, writer.Record(ctx, key, domain.NewRegion(100, 100, 50, 50)))

	got, ok, err := reader.Last(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.NewRegion(100, 100, 50, 50), got)
	assert.True(t, mr.Exists("shared:matches"))
}

func TestRedisMatchStore_ConnectionError(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewMatchStore(client, "")
	mr.Close()

	_, _, err := store.Last(context.Background(), domain.ObjectKey{State: "S", Object: "O"})
	assert.Error(t, err)
}
