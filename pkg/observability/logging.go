package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/waymark/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write every event to logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigationStart: func(ctx context.Context, e *domain.NavigationEvent) {
			logger.InfoContext(ctx, "navigation_start",
				"navigation_id", e.NavigationID,
				"target", e.Target,
			)
		},
		OnNavigationEnd: func(ctx context.Context, e *domain.NavigationEvent) {
			logger.InfoContext(ctx, "navigation_end",
				"navigation_id", e.NavigationID,
				"target", e.Target,
				"success", e.Success,
				"attempts", e.Attempts,
				"duration", e.Duration,
			)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "transition",
				"navigation_id", e.NavigationID,
				"from", e.From,
				"to", e.To,
				"success", e.Success,
			)
		},
		OnStateActivated: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_activated", "state", e.StateName)
		},
		OnStateDeactivated: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_deactivated", "state", e.StateName)
		},
	}
}
