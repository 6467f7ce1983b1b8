package runtime

import (
	"context"
	"time"

	"github.com/aretw0/waymark/pkg/domain"
)

func (n *Navigator) finish(ctx context.Context, nav *navigation, success bool, err error) (bool, error) {
	if n.hooks.OnNavigationEnd != nil {
		n.hooks.OnNavigationEnd(ctx, &domain.NavigationEvent{
			EventBase: domain.EventBase{
				Timestamp:    time.Now(),
				Type:         domain.EventNavigationEnd,
				NavigationID: nav.id,
			},
			Target:   nav.target,
			Success:  success,
			Attempts: nav.attempts,
			Duration: time.Since(nav.started),
		})
	}
	return success, err
}

func (n *Navigator) emitNavigationStart(ctx context.Context, nav *navigation) {
	if n.hooks.OnNavigationStart != nil {
		n.hooks.OnNavigationStart(ctx, &domain.NavigationEvent{
			EventBase: domain.EventBase{
				Timestamp:    time.Now(),
				Type:         domain.EventNavigationStart,
				NavigationID: nav.id,
			},
			Target: nav.target,
		})
	}
}

func (n *Navigator) emitTransition(ctx context.Context, nav *navigation, from, to string, success bool, d time.Duration) {
	if n.hooks.OnTransition != nil {
		n.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: domain.EventBase{
				Timestamp:    time.Now(),
				Type:         domain.EventTransition,
				NavigationID: nav.id,
			},
			From:     from,
			To:       to,
			Success:  success,
			Duration: d,
		})
	}
}
