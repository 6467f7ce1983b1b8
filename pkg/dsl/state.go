package dsl

import (
	"fmt"

	"github.com/aretw0/waymark/pkg/domain"
)

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	state       domain.State
	arrival     domain.TransitionFunc
	transitions []domain.Transition
	builder     *Builder
	errs        []error
}

// Cost sets the path cost of entering the state.
func (s *StateBuilder) Cost(cost int) *StateBuilder {
	s.state.PathCost = cost
	return s
}

// Probability sets the mock existence probability.
func (s *StateBuilder) Probability(p int) *StateBuilder {
	s.state.Probability = p
	s.state.BaseProbability = p
	return s
}

// Blocking marks the state as one that must be handled first.
func (s *StateBuilder) Blocking() *StateBuilder {
	s.state.Blocking = true
	return s
}

// Image adds an image object, optionally restricted to a fixed search region.
func (s *StateBuilder) Image(name string, searchRegion ...domain.Region) *StateBuilder {
	obj := domain.StateObject{Name: name, Kind: domain.KindImage}
	if len(searchRegion) > 0 {
		r := searchRegion[0]
		obj.Region = &r
	}
	return s.object(obj)
}

// Region adds a region object.
func (s *StateBuilder) Region(name string, r domain.Region) *StateBuilder {
	return s.object(domain.StateObject{Name: name, Kind: domain.KindRegion, Region: &r})
}

// Location adds a location object.
func (s *StateBuilder) Location(name string, l domain.Location) *StateBuilder {
	return s.object(domain.StateObject{Name: name, Kind: domain.KindLocation, Location: &l})
}

// Text adds a string object.
func (s *StateBuilder) Text(name, text string) *StateBuilder {
	return s.object(domain.StateObject{Name: name, Kind: domain.KindString, Text: text})
}

func (s *StateBuilder) object(obj domain.StateObject) *StateBuilder {
	obj.OwnerState = s.state.Name
	s.state.Objects = append(s.state.Objects, obj)
	return s
}

// On makes the search region of the most recently added object depend on the
// last match of state.object, shifted by adj. The target is assumed to be an image.
func (s *StateBuilder) On(state, object string, adj domain.Adjustment) *StateBuilder {
	return s.OnKind(domain.KindImage, state, object, adj)
}

// OnKind is On for targets that are not images.
func (s *StateBuilder) OnKind(kind domain.ObjectKind, state, object string, adj domain.Adjustment) *StateBuilder {
	if len(s.state.Objects) == 0 {
		s.errs = append(s.errs, fmt.Errorf("state %s: On(%s.%s) needs an object to attach to", s.state.Name, state, object))
		return s
	}
	last := &s.state.Objects[len(s.state.Objects)-1]
	last.SearchRegionOnObject = &domain.SearchRegionOnObject{
		TargetType:       kind,
		TargetStateName:  state,
		TargetObjectName: object,
		Adjustments:      adj,
	}
	return s
}

// Arrival sets the check run after the state has been entered.
func (s *StateBuilder) Arrival(fn domain.TransitionFunc) *StateBuilder {
	s.arrival = fn
	return s
}

// Go adds a transition from this state to another.
func (s *StateBuilder) Go(to string, fn domain.TransitionFunc, opts ...TransitionOption) *StateBuilder {
	t := domain.Transition{From: s.state.Name, To: to, Run: fn}
	for _, opt := range opts {
		opt(&t)
	}
	s.transitions = append(s.transitions, t)
	return s
}

// Add is a shorthand for continuing the chain with another state.
func (s *StateBuilder) Add(name string) *StateBuilder {
	return s.builder.Add(name)
}

// TransitionOption configures a transition added with Go.
type TransitionOption func(*domain.Transition)

// Priority orders transitions sharing endpoints. Higher runs first.
func Priority(p int) TransitionOption {
	return func(t *domain.Transition) {
		t.Priority = p
	}
}

// StaysVisible keeps the origin active after the transition.
func StaysVisible() TransitionOption {
	return func(t *domain.Transition) {
		t.StaysVisible = true
	}
}

// Activate lists states that the transition also opens.
func Activate(states ...string) TransitionOption {
	return func(t *domain.Transition) {
		t.Activate = append(t.Activate, states...)
	}
}

// Exit lists states that the transition closes.
func Exit(states ...string) TransitionOption {
	return func(t *domain.Transition) {
		t.Exit = append(t.Exit, states...)
	}
}

// Named records the action name, used by exports and logs.
func Named(action string) TransitionOption {
	return func(t *domain.Transition) {
		t.Action = action
	}
}
