package region

import (
	"context"
	"fmt"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
)

// Recorder writes match regions into the store so dependent objects can find them.
// Recording does not depend on whether the owning state is active.
type Recorder struct {
	store ports.MatchStore
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store ports.MatchStore) *Recorder {
	return &Recorder{store: store}
}

// Record stores the region of every match in result. When an object matched
// more than once, the best scoring match wins.
func (r *Recorder) Record(ctx context.Context, result domain.ActionResult) error {
	if !result.Success {
		return nil
	}

	best := make(map[domain.ObjectKey]domain.Match, len(result.Matches))
	var order []domain.ObjectKey
	for _, m := range result.Matches {
		prev, seen := best[m.Object]
		if !seen {
			order = append(order, m.Object)
		}
		if !seen || m.Score > prev.Score {
			best[m.Object] = m
		}
	}

	for _, key := range order {
		if err := r.store.Record(ctx, key, best[key].Region); err != nil {
			return fmt.Errorf("failed to record match of %s: %w", key, err)
		}
	}
	return nil
}
