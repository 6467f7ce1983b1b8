package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/graph"
)

// Builder manages the graph construction.
type Builder struct {
	states []*StateBuilder
	byName map[string]*StateBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		byName: make(map[string]*StateBuilder),
	}
}

// Add creates a new state in the graph.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(name string) *StateBuilder {
	if sb, ok := b.byName[name]; ok {
		return sb
	}
	sb := &StateBuilder{
		state: domain.State{
			Name:            name,
			PathCost:        domain.DefaultPathCost,
			Probability:     domain.DefaultProbability,
			BaseProbability: domain.DefaultProbability,
		},
		builder: b,
	}
	b.states = append(b.states, sb)
	b.byName[name] = sb
	return sb
}

// Build registers everything in a new graph and validates it.
func (b *Builder) Build() (*graph.Graph, error) {
	g := graph.New()
	if err := b.BuildInto(g); err != nil {
		return nil, err
	}
	return g, nil
}

// BuildInto registers states in the order they were added, then their
// transitions, and validates the result.
func (b *Builder) BuildInto(g *graph.Graph) error {
	var errs []error
	for _, sb := range b.states {
		errs = append(errs, sb.errs...)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	for _, sb := range b.states {
		if _, err := g.RegisterState(sb.state); err != nil {
			return fmt.Errorf("failed to register state %s: %w", sb.state.Name, err)
		}
	}

	for _, sb := range b.states {
		if sb.arrival != nil {
			if err := g.SetArrival(sb.state.Name, sb.arrival); err != nil {
				return err
			}
		}
		for _, t := range sb.transitions {
			if err := g.RegisterTransition(t); err != nil {
				return fmt.Errorf("failed to register transition: %w", err)
			}
		}
	}

	return g.Validate()
}
