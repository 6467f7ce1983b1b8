package statemem

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
)

// ChangeFunc is called after a state enters or leaves the active set, with the
// context of the call that changed it. It runs outside the memory lock.
type ChangeFunc func(ctx context.Context, id int64, active bool)

// Memory holds the set of states currently believed to be on screen.
// It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	active map[int64]struct{}

	onChange ChangeFunc
	logger   *slog.Logger
}

// Option configures the Memory.
type Option func(*Memory)

// WithChangeFunc registers a listener for activation changes.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(m *Memory) {
		m.onChange = fn
	}
}

// WithLogger configures a logger for the Memory.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Memory) {
		m.logger = logger
	}
}

// New creates an empty Memory.
func New(opts ...Option) *Memory {
	m := &Memory{
		active: make(map[int64]struct{}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add marks id as active. NullStateID is ignored.
func (m *Memory) Add(ctx context.Context, id int64) {
	if id == domain.NullStateID {
		return
	}
	m.mu.Lock()
	_, exists := m.active[id]
	m.active[id] = struct{}{}
	m.mu.Unlock()

	if !exists {
		m.logger.Debug("state activated", "state_id", id)
		m.notify(ctx, id, true)
	}
}

// Remove marks id as inactive.
func (m *Memory) Remove(ctx context.Context, id int64) {
	m.mu.Lock()
	_, exists := m.active[id]
	delete(m.active, id)
	m.mu.Unlock()

	if exists {
		m.logger.Debug("state deactivated", "state_id", id)
		m.notify(ctx, id, false)
	}
}

// IsActive reports whether id is in the active set.
func (m *Memory) IsActive(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.active[id]
	return ok
}

// Active returns the active ids in ascending order.
func (m *Memory) Active() []int64 {
	m.mu.RLock()
	out := make([]int64, 0, len(m.active))
	for id := range m.active {
		out = append(out, id)
	}
	m.mu.RUnlock()

	slices.Sort(out)
	return out
}

// ActiveSet returns a copy of the active set.
func (m *Memory) ActiveSet() map[int64]struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]struct{}, len(m.active))
	for id := range m.active {
		out[id] = struct{}{}
	}
	return out
}

// Len returns the number of active states.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Clear deactivates every state.
func (m *Memory) Clear(ctx context.Context) {
	for _, id := range m.Active() {
		m.Remove(ctx, id)
	}
}

// ApplyMatches re-activates the owner of every match in result.
// lookup maps a state name to its id; unknown owners are skipped.
func (m *Memory) ApplyMatches(ctx context.Context, result domain.ActionResult, lookup func(name string) (int64, bool)) {
	if !result.Success {
		return
	}
	for _, match := range result.Matches {
		id, ok := lookup(match.Object.State)
		if !ok {
			m.logger.Warn("match owner is not registered", "state", match.Object.State)
			continue
		}
		m.Add(ctx, id)
	}
}

// Snapshot returns the active states by name, sorted by id.
// States that name cannot resolve are dropped.
func (m *Memory) Snapshot(name func(id int64) (string, bool)) domain.Snapshot {
	snap := domain.Snapshot{Active: []string{}}
	for _, id := range m.Active() {
		if n, ok := name(id); ok {
			snap.Active = append(snap.Active, n)
		}
	}
	return snap
}

// Restore replaces the active set with the states of snap.
// Unknown names are skipped and returned.
func (m *Memory) Restore(ctx context.Context, snap domain.Snapshot, lookup func(name string) (int64, bool)) []string {
	var unknown []string
	wanted := make(map[int64]struct{}, len(snap.Active))
	for _, n := range snap.Active {
		id, ok := lookup(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		wanted[id] = struct{}{}
	}

	for _, id := range m.Active() {
		if _, keep := wanted[id]; !keep {
			m.Remove(ctx, id)
		}
	}
	ids := make([]int64, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		m.Add(ctx, id)
	}
	return unknown
}

func (m *Memory) notify(ctx context.Context, id int64, active bool) {
	if m.onChange != nil {
		m.onChange(ctx, id, active)
	}
}
