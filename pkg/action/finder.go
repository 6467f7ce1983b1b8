package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
	"github.com/aretw0/waymark/pkg/region"
	"github.com/aretw0/waymark/pkg/statemem"
)

// States looks up registered states. *graph.Graph satisfies it.
type States interface {
	ID(name string) (int64, bool)
	StateByName(name string) (domain.State, bool)
	Object(key domain.ObjectKey) (domain.StateObject, bool)
}

// Finder runs actions against state objects. Before each action it resolves the
// object's search region; after a successful one it records the matches and
// re-activates their owning states.
type Finder struct {
	action   ports.Action
	resolver *region.Resolver
	recorder *region.Recorder
	memory   *statemem.Memory
	states   States
	logger   *slog.Logger
}

// Option configures the Finder.
type Option func(*Finder)

// WithLogger configures a logger for the Finder.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// NewFinder wires a Finder.
func NewFinder(act ports.Action, resolver *region.Resolver, recorder *region.Recorder, memory *statemem.Memory, states States, opts ...Option) *Finder {
	f := &Finder{
		action:   act,
		resolver: resolver,
		recorder: recorder,
		memory:   memory,
		states:   states,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find searches for obj.
func (f *Finder) Find(ctx context.Context, obj domain.StateObject) (domain.ActionResult, error) {
	return f.Do(ctx, domain.ActionConfig{Kind: domain.ActionFind}, obj)
}

// Do performs cfg on obj inside its resolved search region.
// An object whose search region cannot be resolved is skipped with an
// unsuccessful result and no error.
func (f *Finder) Do(ctx context.Context, cfg domain.ActionConfig, obj domain.StateObject) (domain.ActionResult, error) {
	reg, src, err := f.resolver.Resolve(ctx, obj)
	if err != nil {
		if errors.Is(err, domain.ErrNoSearchRegion) {
			f.logger.Debug("skipping action without search region", "object", obj.Key().String(), "action", string(cfg.Kind))
			return domain.ActionResult{Success: false}, nil
		}
		return domain.ActionResult{}, err
	}

	if cfg.SearchRegion == nil && src != region.SourceScreen {
		cfg.SearchRegion = &reg
	}

	result, err := f.action.Perform(ctx, cfg, obj)
	if err != nil {
		return domain.ActionResult{}, fmt.Errorf("%s %s: %w", cfg.Kind, obj.Key(), err)
	}

	if result.Success && cfg.Kind != domain.ActionVanish {
		if err := f.recorder.Record(ctx, result); err != nil {
			return result, err
		}
		f.memory.ApplyMatches(ctx, result, f.states.ID)
	}

	f.logger.Debug("action performed",
		"action", string(cfg.Kind),
		"object", obj.Key().String(),
		"success", result.Success,
		"matches", len(result.Matches),
	)
	return result, nil
}

// Exists returns an arrival check that succeeds when any image or region object
// of the named state is found. A state with nothing to search always passes.
func (f *Finder) Exists(stateName string) domain.TransitionFunc {
	return func(ctx context.Context) (bool, error) {
		s, ok := f.states.StateByName(stateName)
		if !ok {
			return false, fmt.Errorf("%w: %s", domain.ErrStateNotFound, stateName)
		}

		searched := false
		for _, obj := range s.Objects {
			if obj.Kind != domain.KindImage && obj.Kind != domain.KindRegion {
				continue
			}
			searched = true
			res, err := f.Find(ctx, obj)
			if err != nil {
				return false, err
			}
			if res.Success {
				return true, nil
			}
		}
		return !searched, nil
	}
}

// Click returns a transition that finds and clicks the referenced object.
func (f *Finder) Click(key domain.ObjectKey) domain.TransitionFunc {
	return f.on(key, domain.ActionConfig{Kind: domain.ActionClick})
}

// Type returns a transition that types text into the referenced object.
func (f *Finder) Type(key domain.ObjectKey, text string) domain.TransitionFunc {
	return f.on(key, domain.ActionConfig{Kind: domain.ActionType, Text: text})
}

// Vanish returns a transition that succeeds once the referenced object is gone.
func (f *Finder) Vanish(key domain.ObjectKey) domain.TransitionFunc {
	return f.on(key, domain.ActionConfig{Kind: domain.ActionVanish})
}

func (f *Finder) on(key domain.ObjectKey, cfg domain.ActionConfig) domain.TransitionFunc {
	return func(ctx context.Context) (bool, error) {
		obj, ok := f.states.Object(key)
		if !ok {
			return false, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
		}
		res, err := f.Do(ctx, cfg, obj)
		if err != nil {
			return false, err
		}
		return res.Success, nil
	}
}
