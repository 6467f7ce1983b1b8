package waymark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/waymark/internal/presentation/graph"
	"github.com/aretw0/waymark/internal/runtime"
	"github.com/aretw0/waymark/pkg/action"
	"github.com/aretw0/waymark/pkg/adapters/memory"
	"github.com/aretw0/waymark/pkg/adapters/mock"
	"github.com/aretw0/waymark/pkg/config"
	"github.com/aretw0/waymark/pkg/domain"
	stategraph "github.com/aretw0/waymark/pkg/graph"
	"github.com/aretw0/waymark/pkg/ports"
	"github.com/aretw0/waymark/pkg/region"
	"github.com/aretw0/waymark/pkg/registry"
	"github.com/aretw0/waymark/pkg/session"
	"github.com/aretw0/waymark/pkg/statemem"
)

// Engine is the high-level entry point for the Waymark library.
// It owns one state graph, its StateMemory and everything needed to navigate it.
type Engine struct {
	mu sync.Mutex

	graph     *stategraph.Graph
	memory    *statemem.Memory
	registry  *registry.Registry
	resolver  *region.Resolver
	finder    *action.Finder
	navigator *runtime.Navigator
	sessions  *session.Manager

	action       ports.Action
	matches      ports.MatchStore
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	allowUnbound bool

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
// Calling it more than once merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAction sets the backend that finds and acts on objects.
// Defaults to a mock on which nothing is visible.
func WithAction(a ports.Action) Option {
	return func(e *Engine) {
		e.action = a
	}
}

// WithMatchStore sets where the last match of every object is kept.
// Defaults to an in-memory store.
func WithMatchStore(s ports.MatchStore) Option {
	return func(e *Engine) {
		e.matches = s
	}
}

// WithSessions sets the manager used by SaveMemory and RestoreMemory.
// Defaults to an in-memory snapshot store.
func WithSessions(m *session.Manager) Option {
	return func(e *Engine) {
		e.sessions = m
	}
}

// WithUnboundActions lets definitions name actions the registry cannot resolve.
// They are bound to an always-successful function.
func WithUnboundActions() Option {
	return func(e *Engine) {
		e.allowUnbound = true
	}
}

// New initializes a new Waymark Engine with an empty graph.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if e.action == nil {
		e.action = mock.New()
	}
	if e.matches == nil {
		e.matches = memory.NewMatchStore()
	}
	if e.sessions == nil {
		e.sessions = session.NewManager(memory.NewStore(), session.WithLogger(e.logger))
	}

	e.graph = stategraph.New()
	e.memory = statemem.New(
		statemem.WithLogger(e.logger),
		statemem.WithChangeFunc(e.stateChanged),
	)
	e.registry = registry.NewRegistry()
	e.resolver = region.NewResolver(e.matches,
		region.WithLogger(e.logger),
		region.WithLifecycleHooks(e.hooks),
	)
	e.finder = action.NewFinder(e.action, e.resolver, region.NewRecorder(e.matches), e.memory, e.graph,
		action.WithLogger(e.logger),
	)
	e.navigator = runtime.NewNavigator(e.graph, e.memory,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	)

	e.registerFactories()
	return e
}

// registerFactories binds the object actions definitions can name, such as
// "click:WORLD.searchButton" or "type:PROMPT.input=hello".
func (e *Engine) registerFactories() {
	lookup := func(arg string) (domain.ObjectKey, error) {
		key, err := registry.ParseObjectKey(arg)
		if err != nil {
			return key, err
		}
		if _, ok := e.graph.Object(key); !ok {
			return key, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
		}
		return key, nil
	}
	object := func(build func(domain.ObjectKey) domain.TransitionFunc) registry.Factory {
		return func(arg string) (domain.TransitionFunc, error) {
			key, err := lookup(arg)
			if err != nil {
				return nil, err
			}
			return build(key), nil
		}
	}

	e.registry.RegisterFactory("click", object(e.finder.Click))
	e.registry.RegisterFactory("vanish", object(e.finder.Vanish))
	e.registry.RegisterFactory("type", func(arg string) (domain.TransitionFunc, error) {
		target, text, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected State.Object=text, got %q", arg)
		}
		key, err := lookup(target)
		if err != nil {
			return nil, err
		}
		return e.finder.Type(key, text), nil
	})
	e.registry.RegisterFactory("exists", func(arg string) (domain.TransitionFunc, error) {
		if arg == "" {
			return nil, errors.New("missing state name")
		}
		if _, ok := e.graph.ID(arg); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrStateNotFound, arg)
		}
		return e.finder.Exists(arg), nil
	})
}

func (e *Engine) stateChanged(ctx context.Context, id int64, active bool) {
	name, _ := e.graph.Name(id)
	evt := &domain.StateEvent{
		EventBase: domain.EventBase{Timestamp: time.Now()},
		StateID:   id,
		StateName: name,
	}

	if active {
		evt.Type = domain.EventStateActivated
		if e.hooks.OnStateActivated != nil {
			e.hooks.OnStateActivated(ctx, evt)
		}
		return
	}
	evt.Type = domain.EventStateDeactivated
	if e.hooks.OnStateDeactivated != nil {
		e.hooks.OnStateDeactivated(ctx, evt)
	}
}

// Load registers the states and transitions of def and activates its initial states.
func (e *Engine) Load(def *config.Definition) error {
	opts := []config.ApplyOption{config.WithLogger(e.logger)}
	if e.allowUnbound {
		opts = append(opts, config.AllowUnbound())
	}
	if err := config.Apply(def, e.graph, e.registry, opts...); err != nil {
		return err
	}
	if e.Name == "" {
		e.Name = def.Name
	}
	return e.Activate(def.Initial...)
}

// LoadFile reads a YAML or JSON definition and loads it.
func (e *Engine) LoadFile(path string) error {
	def, err := config.Load(path)
	if err != nil {
		return err
	}
	return e.Load(def)
}

// Graph returns the underlying state graph.
func (e *Engine) Graph() *stategraph.Graph {
	return e.graph
}

// Registry returns the registry that definitions bind actions through.
// Functions must be registered before Load.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// States returns every registered state in registration order.
func (e *Engine) States() []domain.State {
	return e.graph.States()
}

// Finder returns the finder used by object actions.
func (e *Engine) Finder() *action.Finder {
	return e.finder
}

// Memory returns the StateMemory of the engine.
func (e *Engine) Memory() *statemem.Memory {
	return e.memory
}

// Activate marks the named states active without navigating.
// Activation hooks fire with a background context.
func (e *Engine) Activate(names ...string) error {
	for _, name := range names {
		id, ok := e.graph.ID(name)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrStateNotFound, name)
		}
		e.memory.Add(context.Background(), id)
	}
	return nil
}

// Active returns the names of the active states, sorted by id.
func (e *Engine) Active() []string {
	return e.memory.Snapshot(e.graph.Name).Active
}

// OpenState navigates to the named state. Calls are serialized.
func (e *Engine) OpenState(ctx context.Context, name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.OpenState(ctx, name)
}

// OpenStates opens each state in order and stops at the first failure.
func (e *Engine) OpenStates(ctx context.Context, names ...string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.OpenStates(ctx, names...)
}

// CloseState removes the named state from memory. It reports whether it was active.
func (e *Engine) CloseState(ctx context.Context, name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.CloseState(ctx, name)
}

// FindPaths returns every path from the active states to the named state, best first.
func (e *Engine) FindPaths(to string) (domain.Paths, error) {
	id, ok := e.graph.ID(to)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStateNotFound, to)
	}
	return e.graph.FindAllPaths(e.memory.ActiveSet(), id), nil
}

// Names translates the ids of a path into state names.
func (e *Engine) Names(p domain.Path) []string {
	names := make([]string, 0, len(p.States))
	for _, id := range p.States {
		if name, ok := e.graph.Name(id); ok {
			names = append(names, name)
		}
	}
	return names
}

// Mermaid renders the graph with the active states highlighted.
// When path is not empty its states are highlighted too and its last state is the target.
func (e *Engine) Mermaid(path ...string) string {
	overlay := &graph.GraphOverlay{ActiveStates: e.Active(), Path: path}
	if len(path) > 0 {
		overlay.Target = path[len(path)-1]
	}
	return graph.GenerateMermaid(e.graph.States(), e.graph.AllTransitions(), overlay)
}

// Sessions returns the manager holding memory snapshots.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// SaveMemory persists the active states under profileID.
func (e *Engine) SaveMemory(ctx context.Context, profileID string) error {
	return e.sessions.Save(ctx, profileID, e.memory.Snapshot(e.graph.Name))
}

// RestoreMemory replaces the active states with the snapshot saved under profileID.
// It returns the saved names that are no longer registered.
func (e *Engine) RestoreMemory(ctx context.Context, profileID string) ([]string, error) {
	snap, err := e.sessions.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	unknown := e.memory.Restore(ctx, snap, e.graph.ID)
	if len(unknown) > 0 {
		e.logger.Warn("snapshot names unregistered states", "profile", profileID, "unknown", unknown)
	}
	return unknown, nil
}
