package ports

import (
	"context"

	"github.com/aretw0/waymark/pkg/domain"
)

// Action is the external matching backend (screen capture plus pattern matching).
// Implementations block until the primitive completes.
type Action interface {
	Perform(ctx context.Context, cfg domain.ActionConfig, target domain.StateObject) (domain.ActionResult, error)
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func(ctx context.Context, cfg domain.ActionConfig, target domain.StateObject) (domain.ActionResult, error)

// Perform calls f.
func (f ActionFunc) Perform(ctx context.Context, cfg domain.ActionConfig, target domain.StateObject) (domain.ActionResult, error) {
	return f(ctx, cfg, target)
}
