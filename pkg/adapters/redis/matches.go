package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/waymark/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// MatchStore implements ports.MatchStore on a single Redis hash.
// Several runners pointing at the same hash share their last-known match locations.
type MatchStore struct {
	client *backend.Client
	key    string
}

// NewMatchStore creates a match store using the hash at prefix+"matches".
func NewMatchStore(client *backend.Client, prefix string) *MatchStore {
	if prefix == "" {
		prefix = "waymark:"
	}
	return &MatchStore{
		client: client,
		key:    prefix + "matches",
	}
}

func field(key domain.ObjectKey) string {
	b, _ := json.Marshal(key)
	return string(b)
}

// Record stores the latest region for key.
func (m *MatchStore) Record(ctx context.Context, key domain.ObjectKey, region domain.Region) error {
	data, err := json.Marshal(region)
	if err != nil {
		return fmt.Errorf("failed to marshal region: %w", err)
	}
	if err := m.client.HSet(ctx, m.key, field(key), data).Err(); err != nil {
		return fmt.Errorf("failed to record match for %s: %w", key, err)
	}
	return nil
}

// Last returns the latest region recorded for key.
func (m *MatchStore) Last(ctx context.Context, key domain.ObjectKey) (domain.Region, bool, error) {
	val, err := m.client.HGet(ctx, m.key, field(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Region{}, false, nil
		}
		return domain.Region{}, false, fmt.Errorf("failed to read match for %s: %w", key, err)
	}

	var r domain.Region
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return domain.Region{}, false, fmt.Errorf("failed to unmarshal region: %w", err)
	}
	return r, true, nil
}

// Forget removes the region recorded for key.
func (m *MatchStore) Forget(ctx context.Context, key domain.ObjectKey) error {
	return m.client.HDel(ctx, m.key, field(key)).Err()
}
