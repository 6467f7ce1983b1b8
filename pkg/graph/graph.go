package graph

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/waymark/internal/validator"
	"github.com/aretw0/waymark/pkg/domain"
)

// edge is a registered transition with its resolved endpoints.
type edge struct {
	t    domain.Transition
	from int64
	to   int64
	seq  int
}

// Graph is the registry of states and the transitions between them.
// State ids are assigned on first registration and never change.
type Graph struct {
	mu sync.RWMutex

	nextID int64
	byID   map[int64]*domain.State
	byName map[string]int64
	order  []int64

	outgoing map[int64][]edge
	incoming map[int64][]edge
	arrivals map[int64]domain.TransitionFunc
	seq      int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nextID:   domain.NullStateID + 1,
		byID:     make(map[int64]*domain.State),
		byName:   make(map[string]int64),
		outgoing: make(map[int64][]edge),
		incoming: make(map[int64][]edge),
		arrivals: make(map[int64]domain.TransitionFunc),
	}
}

// RegisterState adds s to the graph and returns its id.
// Registering a name twice returns the original id and leaves the first definition in place.
func (g *Graph) RegisterState(s domain.State) (int64, error) {
	if s.Name == "" {
		return domain.NullStateID, fmt.Errorf("state name cannot be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.byName[s.Name]; ok {
		return id, nil
	}

	seen := make(map[string]struct{}, len(s.Objects))
	objects := make([]domain.StateObject, len(s.Objects))
	for i, o := range s.Objects {
		if o.Name == "" {
			return domain.NullStateID, fmt.Errorf("state %s: object %d has no name", s.Name, i)
		}
		if _, dup := seen[o.Name]; dup {
			return domain.NullStateID, fmt.Errorf("state %s: duplicate object %s", s.Name, o.Name)
		}
		seen[o.Name] = struct{}{}
		if o.OwnerState != "" && o.OwnerState != s.Name {
			return domain.NullStateID, fmt.Errorf("state %s: object %s is owned by %s", s.Name, o.Name, o.OwnerState)
		}
		o.OwnerState = s.Name
		objects[i] = o
	}

	id := g.nextID
	g.nextID++

	stored := s
	stored.ID = id
	stored.Objects = objects
	g.byID[id] = &stored
	g.byName[s.Name] = id
	g.order = append(g.order, id)

	return id, nil
}

// RegisterTransition adds a directed edge. Both endpoints, and every state the
// transition activates or exits, must already be registered.
func (g *Graph) RegisterTransition(t domain.Transition) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, ok := g.byName[t.From]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTransitionState, t.From)
	}
	to, ok := g.byName[t.To]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTransitionState, t.To)
	}
	for _, name := range append(slices.Clone(t.Activate), t.Exit...) {
		if _, ok := g.byName[name]; !ok {
			return fmt.Errorf("%w: %s (%s -> %s)", domain.ErrUnknownTransitionState, name, t.From, t.To)
		}
	}

	g.seq++
	e := edge{t: t, from: from, to: to, seq: g.seq}
	g.outgoing[from] = insertByPriority(g.outgoing[from], e)
	g.incoming[to] = insertByPriority(g.incoming[to], e)
	return nil
}

func insertByPriority(edges []edge, e edge) []edge {
	edges = append(edges, e)
	slices.SortStableFunc(edges, func(a, b edge) int {
		if a.t.Priority != b.t.Priority {
			return b.t.Priority - a.t.Priority
		}
		return a.seq - b.seq
	})
	return edges
}

// SetArrival sets the verification run after entering the named state.
func (g *Graph) SetArrival(name string, fn domain.TransitionFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrStateNotFound, name)
	}
	g.arrivals[id] = fn
	return nil
}

// TransitionSet returns the outgoing edges and arrival check of a state.
func (g *Graph) TransitionSet(name string) (domain.TransitionSet, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.byName[name]
	if !ok {
		return domain.TransitionSet{}, false
	}
	return domain.TransitionSet{
		State:    name,
		Outgoing: transitions(g.outgoing[id]),
		Arrival:  g.arrivals[id],
	}, true
}

// StateByName returns a copy of the named state.
func (g *Graph) StateByName(name string) (domain.State, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.byName[name]
	if !ok {
		return domain.State{}, false
	}
	return *g.byID[id], true
}

// StateByID returns a copy of the state with the given id.
func (g *Graph) StateByID(id int64) (domain.State, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.byID[id]
	if !ok {
		return domain.State{}, false
	}
	return *s, true
}

// ID returns the id of the named state.
func (g *Graph) ID(name string) (int64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.byName[name]
	return id, ok
}

// Name returns the name of the state with the given id.
func (g *Graph) Name(id int64) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.byID[id]
	if !ok {
		return "", false
	}
	return s.Name, true
}

// States returns every state in registration order.
func (g *Graph) States() []domain.State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.State, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.byID[id])
	}
	return out
}

// Len returns the number of registered states.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Transitions returns the edges from one state to another, highest priority first.
func (g *Graph) Transitions(from, to int64) []domain.Transition {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []domain.Transition
	for _, e := range g.outgoing[from] {
		if e.to == to {
			out = append(out, e.t)
		}
	}
	return out
}

// Outgoing returns the edges leaving a state, highest priority first.
func (g *Graph) Outgoing(id int64) []domain.Transition {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return transitions(g.outgoing[id])
}

// Incoming returns the edges entering a state, highest priority first.
func (g *Graph) Incoming(id int64) []domain.Transition {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return transitions(g.incoming[id])
}

// AllTransitions returns every edge, grouped by origin in registration order.
func (g *Graph) AllTransitions() []domain.Transition {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []domain.Transition
	for _, id := range g.order {
		out = append(out, transitions(g.outgoing[id])...)
	}
	return out
}

func transitions(edges []edge) []domain.Transition {
	out := make([]domain.Transition, len(edges))
	for i, e := range edges {
		out[i] = e.t
	}
	return out
}

// Objects returns every state object in state registration order.
func (g *Graph) Objects() []domain.StateObject {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []domain.StateObject
	for _, id := range g.order {
		out = append(out, g.byID[id].Objects...)
	}
	return out
}

// Object looks up a state object by its key.
func (g *Graph) Object(key domain.ObjectKey) (domain.StateObject, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.byName[key.State]
	if !ok {
		return domain.StateObject{}, false
	}
	return g.byID[id].Object(key.Object)
}

// Validate reports every inconsistency found in the registered definitions.
func (g *Graph) Validate() error {
	return validator.Validate(g.States(), g.AllTransitions())
}
