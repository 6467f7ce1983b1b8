package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/graph"
	"github.com/aretw0/waymark/pkg/registry"
)

// ApplyOption configures Apply.
type ApplyOption func(*applier)

type applier struct {
	allowUnbound bool
	logger       *slog.Logger
}

// AllowUnbound binds actions missing from the registry to domain.Always instead
// of failing. Simulations use it to walk a graph without a matching backend.
// Names a factory rejects, such as "click:" with an unknown object, still fail.
func AllowUnbound() ApplyOption {
	return func(a *applier) {
		a.allowUnbound = true
	}
}

// WithLogger configures a logger for Apply.
func WithLogger(logger *slog.Logger) ApplyOption {
	return func(a *applier) {
		a.logger = logger
	}
}

// Apply validates the definition and registers its states and transitions in g,
// binding action and arrival names through reg.
func Apply(def *Definition, g *graph.Graph, reg *registry.Registry, opts ...ApplyOption) error {
	a := &applier{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(a)
	}

	if err := def.Validate(); err != nil {
		return fmt.Errorf("invalid definition: %w", err)
	}

	for _, sd := range def.States {
		if _, err := g.RegisterState(sd.State()); err != nil {
			return err
		}
	}

	for _, sd := range def.States {
		if sd.Arrival == "" {
			continue
		}
		fn, err := a.bind(reg, sd.Arrival)
		if err != nil {
			return fmt.Errorf("state %s arrival: %w", sd.Name, err)
		}
		if err := g.SetArrival(sd.Name, fn); err != nil {
			return err
		}
	}

	for _, td := range def.Transitions {
		t := td.Transition()
		if td.Action != "" {
			fn, err := a.bind(reg, td.Action)
			if err != nil {
				return fmt.Errorf("transition %s -> %s: %w", td.From, td.To, err)
			}
			t.Run = fn
		}
		if err := g.RegisterTransition(t); err != nil {
			return err
		}
	}

	return nil
}

func (a *applier) bind(reg *registry.Registry, name string) (domain.TransitionFunc, error) {
	fn, err := reg.Lookup(name)
	if err == nil {
		return fn, nil
	}
	if !a.allowUnbound || !errors.Is(err, registry.ErrFunctionNotFound) {
		return nil, err
	}
	a.logger.Debug("binding unknown action to always", "action", name)
	return domain.Always, nil
}
