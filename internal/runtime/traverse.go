package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/waymark/pkg/domain"
)

// navigation carries the bookkeeping of one OpenState call.
type navigation struct {
	id       string
	target   string
	started  time.Time
	attempts int
}

// traverse walks p hop by hop. It returns the start state of the first hop that
// failed, or NullStateID when the whole path succeeded.
func (n *Navigator) traverse(ctx context.Context, nav *navigation, p domain.Path) (int64, error) {
	for i := 0; i < p.Hops(); i++ {
		if err := ctx.Err(); err != nil {
			return p.States[i], err
		}

		from, to := p.States[i], p.States[i+1]
		ok, err := n.hop(ctx, nav, from, to)
		if err != nil {
			return from, err
		}
		if !ok {
			return from, nil
		}
	}
	return domain.NullStateID, nil
}

// hop executes the highest-priority transition from one state to the next and
// verifies the arrival. Memory changes only after the hop has fully succeeded.
func (n *Navigator) hop(ctx context.Context, nav *navigation, from, to int64) (bool, error) {
	fromName, _ := n.graph.Name(from)
	toName, _ := n.graph.Name(to)
	log := n.logger.With("navigation_id", nav.id, "from", fromName, "to", toName)
	start := time.Now()

	candidates := n.graph.Transitions(from, to)
	if len(candidates) == 0 {
		log.Warn("no transition registered for hop")
		n.emitTransition(ctx, nav, fromName, toName, false, time.Since(start))
		return false, nil
	}
	t := candidates[0]

	ok, err := t.Execute(ctx)
	if err != nil {
		n.emitTransition(ctx, nav, fromName, toName, false, time.Since(start))
		return false, fmt.Errorf("transition %s -> %s: %w", fromName, toName, err)
	}
	if !ok {
		log.Warn("transition failed")
		n.emitTransition(ctx, nav, fromName, toName, false, time.Since(start))
		return false, nil
	}

	arrived, err := n.verify(ctx, toName)
	if err != nil {
		n.emitTransition(ctx, nav, fromName, toName, false, time.Since(start))
		return false, fmt.Errorf("arrival at %s: %w", toName, err)
	}
	if !arrived {
		log.Warn("arrival verification failed")
		n.emitTransition(ctx, nav, fromName, toName, false, time.Since(start))
		return false, nil
	}

	var extras []int64
	for _, name := range t.Activate {
		id, ok := n.graph.ID(name)
		if !ok || id == to {
			continue
		}
		seen, err := n.verify(ctx, name)
		if err != nil {
			return false, fmt.Errorf("arrival at %s: %w", name, err)
		}
		if !seen {
			log.Debug("expected state did not appear", "state", name)
			continue
		}
		extras = append(extras, id)
	}

	n.memory.Add(ctx, to)
	for _, id := range extras {
		n.memory.Add(ctx, id)
	}
	if !t.StaysVisible {
		n.memory.Remove(ctx, from)
	}
	for _, name := range t.Exit {
		if id, ok := n.graph.ID(name); ok && id != to {
			n.memory.Remove(ctx, id)
		}
	}

	log.Info("transition succeeded", "duration", time.Since(start))
	n.emitTransition(ctx, nav, fromName, toName, true, time.Since(start))
	return true, nil
}

func (n *Navigator) verify(ctx context.Context, name string) (bool, error) {
	set, ok := n.graph.TransitionSet(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrStateNotFound, name)
	}
	return set.VerifyArrival(ctx)
}
