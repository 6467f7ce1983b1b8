package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/internal/presentation/tui"
	"github.com/aretw0/waymark/pkg/domain"
)

// PrintHooks returns lifecycle hooks that narrate navigation to w.
func PrintHooks(w io.Writer) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			if e.Success {
				fmt.Fprintf(w, "  %s %s -> %s\n", tui.Success("✓"), e.From, e.To)
				return
			}
			fmt.Fprintf(w, "  %s %s -> %s\n", tui.Failure("✗"), e.From, e.To)
		},
	}
}

// PrintPaths writes every path to target, best first, and reports how many there are.
func PrintPaths(w io.Writer, eng *waymark.Engine, target string) (int, error) {
	paths, err := eng.FindPaths(target)
	if err != nil {
		return 0, err
	}
	for i, p := range paths {
		line := fmt.Sprintf("%4d  %s", p.Score, strings.Join(eng.Names(p), " -> "))
		if i == 0 {
			line = tui.Highlight(line)
		}
		fmt.Fprintln(w, line)
	}
	return len(paths), nil
}

// Simulate prints the plan to target, navigates there and prints the outcome.
func Simulate(ctx context.Context, w io.Writer, eng *waymark.Engine, target string) (bool, error) {
	fmt.Fprintf(w, "Active: %s\n", strings.Join(eng.Active(), ", "))
	fmt.Fprintf(w, "Paths to %s:\n", target)
	n, err := PrintPaths(w, eng, target)
	if err != nil {
		return false, err
	}
	if n == 0 {
		fmt.Fprintln(w, tui.Faint("  (none)"))
	}

	fmt.Fprintln(w, "Navigation:")
	ok, err := eng.OpenState(ctx, target)
	if err != nil {
		return false, err
	}

	result := tui.Success("opened")
	if !ok {
		result = tui.Failure("not reached")
	}
	fmt.Fprintf(w, "%s %s. Active: %s\n", target, result, strings.Join(eng.Active(), ", "))
	return ok, nil
}
