package mock

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/aretw0/waymark/pkg/domain"
)

// DefaultScore is the similarity reported for every scripted match.
const DefaultScore = 0.95

// Call records one Perform invocation.
type Call struct {
	Config domain.ActionConfig
	Target domain.ObjectKey
}

// StateLookup returns a registered state by name.
type StateLookup func(name string) (domain.State, bool)

// Action is a scripted ports.Action for mock runs and tests.
// Objects are visible only where they have been placed.
type Action struct {
	mu      sync.Mutex
	visible map[domain.ObjectKey]domain.Region
	hidden  map[domain.ObjectKey]bool
	errs    map[domain.ObjectKey]error
	calls   []Call
	showAll bool
	states  StateLookup
	rng     *rand.Rand
}

// New creates an Action on which nothing is visible.
func New() *Action {
	return &Action{
		visible: make(map[domain.ObjectKey]domain.Region),
		hidden:  make(map[domain.ObjectKey]bool),
		errs:    make(map[domain.ObjectKey]error),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// ShowAll makes every object that was not placed or hidden visible wherever
// it is searched for. Simulations use it to walk a graph without a screen.
func (a *Action) ShowAll() *Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.showAll = true
	return a
}

// WithStates makes show-all searches honour the Probability of the owning
// state: an object of a state at 0 is never found, at 100 always, and in
// between on that share of searches. Objects of unknown states are always found.
func (a *Action) WithStates(lookup StateLookup) *Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.states = lookup
	return a
}

// Seed makes probability draws reproducible.
func (a *Action) Seed(seed uint64) *Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng = rand.New(rand.NewPCG(seed, seed))
	return a
}

// Place makes the object visible at region.
func (a *Action) Place(key domain.ObjectKey, region domain.Region) *Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.visible[key] = region
	delete(a.hidden, key)
	return a
}

// Hide makes the object invisible.
func (a *Action) Hide(key domain.ObjectKey) *Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.visible, key)
	a.hidden[key] = true
	return a
}

// FailWith makes every action on the object return err. A nil err clears it.
func (a *Action) FailWith(key domain.ObjectKey, err error) *Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		delete(a.errs, key)
	} else {
		a.errs[key] = err
	}
	return a
}

// Perform implements ports.Action.
func (a *Action) Perform(ctx context.Context, cfg domain.ActionConfig, target domain.StateObject) (domain.ActionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ActionResult{}, err
	}

	key := target.Key()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls = append(a.calls, Call{Config: cfg, Target: key})

	if err, ok := a.errs[key]; ok {
		return domain.ActionResult{}, err
	}

	region, ok := a.visible[key]
	if !ok && a.showAll && !a.hidden[key] && a.exists(target.OwnerState) {
		region, ok = anywhere(cfg, target), true
	}
	if ok && cfg.SearchRegion != nil && cfg.SearchRegion.Defined() && !cfg.SearchRegion.Contains(region) {
		ok = false
	}

	if cfg.Kind == domain.ActionVanish {
		return domain.ActionResult{Success: !ok}, nil
	}
	if !ok {
		return domain.ActionResult{Success: false}, nil
	}

	return domain.ActionResult{
		Success: true,
		Matches: []domain.Match{{
			Object: key,
			Kind:   target.Kind,
			Region: region,
			Score:  DefaultScore,
		}},
	}, nil
}

// exists draws against the owner's Probability. Callers hold a.mu.
func (a *Action) exists(owner string) bool {
	if a.states == nil {
		return true
	}
	s, ok := a.states(owner)
	if !ok {
		return true
	}
	switch {
	case s.Probability >= 100:
		return true
	case s.Probability <= 0:
		return false
	default:
		return a.rng.IntN(100) < s.Probability
	}
}

func anywhere(cfg domain.ActionConfig, target domain.StateObject) domain.Region {
	if cfg.SearchRegion != nil && cfg.SearchRegion.Defined() {
		return *cfg.SearchRegion
	}
	if r, ok := target.StaticRegion(); ok {
		return r
	}
	return domain.NewRegion(0, 0, 1, 1)
}

// Calls returns a copy of the recorded invocations.
func (a *Action) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Call, len(a.calls))
	copy(out, a.calls)
	return out
}

// Reset forgets the recorded invocations.
func (a *Action) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = nil
}
