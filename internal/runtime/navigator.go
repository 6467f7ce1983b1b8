package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/graph"
	"github.com/aretw0/waymark/pkg/statemem"
	"github.com/google/uuid"
)

// Navigator moves the application from its active states to a target state by
// executing transitions along the best available path.
type Navigator struct {
	graph  *graph.Graph
	memory *statemem.Memory
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Navigator.
type Option func(*Navigator)

// WithLogger configures a logger for the Navigator.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithLifecycleHooks registers observers for navigation and transition events.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Navigator) {
		n.hooks = hooks
	}
}

// NewNavigator creates a Navigator over g that reads and updates mem.
func NewNavigator(g *graph.Graph, mem *statemem.Memory, opts ...Option) *Navigator {
	n := &Navigator{
		graph:  g,
		memory: mem,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OpenState navigates to the named state.
// While a blocking state is active, only paths leaving it are considered.
//
// It returns false when the state is unknown, unreachable, or every candidate
// path failed. Errors are reserved for fatal failures of transition code and
// for context cancellation; memory keeps the progress made before them.
func (n *Navigator) OpenState(ctx context.Context, name string) (bool, error) {
	nav := &navigation{
		id:      uuid.NewString(),
		target:  name,
		started: time.Now(),
	}
	log := n.logger.With("navigation_id", nav.id, "target", name)

	targetID, ok := n.graph.ID(name)
	if !ok {
		log.Warn("target state is not registered")
		return false, nil
	}

	n.emitNavigationStart(ctx, nav)

	if n.memory.IsActive(targetID) {
		log.Debug("target state already active")
		return n.finish(ctx, nav, true, nil)
	}

	paths := n.graph.FindAllPaths(n.starts(), targetID)
	if paths.IsEmpty() {
		log.Warn("no path to target state", "active", n.activeNames())
		return n.finish(ctx, nav, false, nil)
	}

	failed := make(map[int64]struct{})
	for !paths.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return n.finish(ctx, nav, false, err)
		}

		best, _ := paths.Best()
		nav.attempts++
		log.Debug("trying path", "path", n.describe(best), "score", best.Score, "attempt", nav.attempts)

		before := n.memory.ActiveSet()
		failedAt, err := n.traverse(ctx, nav, best)
		if err != nil {
			return n.finish(ctx, nav, false, err)
		}
		if failedAt == domain.NullStateID {
			log.Info("target state opened", "attempts", nav.attempts)
			return n.finish(ctx, nav, true, nil)
		}

		failed[failedAt] = struct{}{}
		paths = paths.Clean(n.starts(), failedAt)

		// Hops that succeeded before the failure moved the active set; plan again from there.
		if paths.IsEmpty() && !sameSet(before, n.memory.ActiveSet()) {
			paths = n.replan(targetID, failed)
		}
	}

	log.Warn("all paths to target state failed", "attempts", nav.attempts, "active", n.activeNames())
	return n.finish(ctx, nav, false, nil)
}

// OpenStates opens each state in order and stops at the first failure.
func (n *Navigator) OpenStates(ctx context.Context, names ...string) (bool, error) {
	for _, name := range names {
		ok, err := n.OpenState(ctx, name)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// CloseState removes the named state from memory without running any transition.
// It reports whether the state was active.
func (n *Navigator) CloseState(ctx context.Context, name string) bool {
	id, ok := n.graph.ID(name)
	if !ok {
		n.logger.Warn("cannot close unregistered state", "state", name)
		return false
	}
	if !n.memory.IsActive(id) {
		return false
	}
	n.memory.Remove(ctx, id)
	return true
}

// replan finds fresh paths from the current active states that avoid every failed state.
func (n *Navigator) replan(target int64, failed map[int64]struct{}) domain.Paths {
	if n.memory.IsActive(target) {
		return domain.Paths{}
	}
	starts := n.starts()
	paths := n.graph.FindAllPaths(starts, target)
	for id := range failed {
		paths = paths.Clean(starts, id)
	}
	return paths
}

// starts returns the states a path may begin from: the active set, narrowed to
// its blocking states when any is active, since those must be left first.
func (n *Navigator) starts() map[int64]struct{} {
	active := n.memory.ActiveSet()
	blocking := make(map[int64]struct{})
	for id := range active {
		if s, ok := n.graph.StateByID(id); ok && s.Blocking {
			blocking[id] = struct{}{}
		}
	}
	if len(blocking) > 0 {
		return blocking
	}
	return active
}

func (n *Navigator) activeNames() []string {
	var names []string
	for _, id := range n.memory.Active() {
		if name, ok := n.graph.Name(id); ok {
			names = append(names, name)
		}
	}
	return names
}

func (n *Navigator) describe(p domain.Path) string {
	out := ""
	for i, id := range p.States {
		if i > 0 {
			out += " -> "
		}
		name, _ := n.graph.Name(id)
		out += name
	}
	return out
}

func sameSet(a, b map[int64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
