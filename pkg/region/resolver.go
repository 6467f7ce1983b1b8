package region

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
)

// Source tells where a resolved search region came from.
type Source string

const (
	// SourceStatic is the object's own hand-authored region.
	SourceStatic Source = "static"
	// SourceFallback is the static region used because the dependency has no match yet.
	SourceFallback Source = "fallback"
	// SourceDependency is a region derived from the last match of another object.
	SourceDependency Source = "dependency"
	// SourceScreen means the object has no region of its own and is searched everywhere.
	SourceScreen Source = "screen"
)

// Resolver computes the search region of a state object.
// It reads the match store on every call and never caches computed regions.
type Resolver struct {
	store  ports.MatchStore
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger configures a logger for the Resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observers for resolved regions.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Resolver) {
		r.hooks = hooks
	}
}

// NewResolver creates a Resolver reading from store.
func NewResolver(store ports.MatchStore, opts ...Option) *Resolver {
	r := &Resolver{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the region in which obj should be searched.
// An object without dependency or static region resolves to the zero Region with
// SourceScreen. A dependency without a recorded match falls back to the static
// region; with neither available it returns domain.ErrNoSearchRegion.
func (r *Resolver) Resolve(ctx context.Context, obj domain.StateObject) (domain.Region, Source, error) {
	static, hasStatic := obj.StaticRegion()

	if !obj.HasDependency() {
		if !hasStatic {
			return r.emit(ctx, obj, domain.Region{}, SourceScreen), SourceScreen, nil
		}
		return r.emit(ctx, obj, static, SourceStatic), SourceStatic, nil
	}

	dep := obj.SearchRegionOnObject
	match, ok, err := r.store.Last(ctx, dep.Key())
	if err != nil {
		return domain.Region{}, "", fmt.Errorf("failed to read last match of %s: %w", dep.Key(), err)
	}

	if !ok {
		if !hasStatic {
			r.logger.Debug("dependency not matched yet", "object", obj.Key().String(), "target", dep.Key().String())
			return domain.Region{}, "", fmt.Errorf("%s: %w", obj.Key(), domain.ErrNoSearchRegion)
		}
		return r.emit(ctx, obj, static, SourceFallback), SourceFallback, nil
	}

	adjusted := match.Adjust(dep.Adjustments)
	return r.emit(ctx, obj, adjusted, SourceDependency), SourceDependency, nil
}

func (r *Resolver) emit(ctx context.Context, obj domain.StateObject, reg domain.Region, src Source) domain.Region {
	r.logger.Debug("search region resolved", "object", obj.Key().String(), "region", reg.String(), "source", string(src))
	if r.hooks.OnRegionResolved != nil {
		r.hooks.OnRegionResolved(ctx, &domain.RegionEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventRegionResolved,
			},
			Object: obj.Key(),
			Region: reg,
			Source: string(src),
		})
	}
	return reg
}
