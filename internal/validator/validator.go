package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/region"
)

// Error aggregates every problem found in a graph definition.
type Error struct {
	Problems []error
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("found %d errors:\n- %s", len(e.Problems), strings.Join(msgs, "\n- "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return e.Problems
}

// Validate checks states and transitions for broken references, invalid costs
// and cyclic search-region dependencies. It returns nil or an *Error.
func Validate(states []domain.State, transitions []domain.Transition) error {
	var problems []error

	byName := make(map[string]domain.State, len(states))
	var objects []domain.StateObject
	for _, s := range states {
		if s.Name == "" {
			problems = append(problems, errors.New("state with empty name"))
			continue
		}
		if _, dup := byName[s.Name]; dup {
			problems = append(problems, fmt.Errorf("duplicate state %s", s.Name))
			continue
		}
		if s.PathCost < 0 {
			problems = append(problems, fmt.Errorf("state %s: negative path cost %d", s.Name, s.PathCost))
		}
		byName[s.Name] = s
		for _, o := range s.Objects {
			if o.OwnerState == "" {
				o.OwnerState = s.Name
			}
			objects = append(objects, o)
		}
	}

	for _, t := range transitions {
		for _, name := range []string{t.From, t.To} {
			if _, ok := byName[name]; !ok {
				problems = append(problems, fmt.Errorf("transition %s -> %s: %w: %s", t.From, t.To, domain.ErrUnknownTransitionState, name))
			}
		}
		for _, name := range append(append([]string{}, t.Activate...), t.Exit...) {
			if _, ok := byName[name]; !ok {
				problems = append(problems, fmt.Errorf("transition %s -> %s: %w: %s", t.From, t.To, domain.ErrUnknownTransitionState, name))
			}
		}
	}

	for _, o := range objects {
		dep := o.SearchRegionOnObject
		if dep == nil {
			continue
		}
		owner, ok := byName[dep.TargetStateName]
		if !ok {
			problems = append(problems, fmt.Errorf("object %s: %w: %s", o.Key(), domain.ErrObjectNotFound, dep.Key()))
			continue
		}
		target, ok := owner.Object(dep.TargetObjectName)
		if !ok {
			problems = append(problems, fmt.Errorf("object %s: %w: %s", o.Key(), domain.ErrObjectNotFound, dep.Key()))
			continue
		}
		if target.Kind != dep.TargetType {
			problems = append(problems, fmt.Errorf("object %s: target %s is %s, not %s", o.Key(), dep.Key(), target.Kind, dep.TargetType))
		}
	}

	if err := region.DetectCycles(objects); err != nil {
		problems = append(problems, err)
	}

	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}
