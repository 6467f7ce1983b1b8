package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNavigationStart  EventType = "navigation_start"
	EventNavigationEnd    EventType = "navigation_end"
	EventTransition       EventType = "transition"
	EventStateActivated   EventType = "state_activated"
	EventStateDeactivated EventType = "state_deactivated"
	EventRegionResolved   EventType = "region_resolved"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// NavigationID correlates every event emitted by one OpenState call.
	NavigationID string `json:"navigation_id,omitempty"`
}

// NavigationEvent marks the start or end of an OpenState call.
type NavigationEvent struct {
	EventBase
	Target   string        `json:"target"`
	Success  bool          `json:"success"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
}

// TransitionEvent reports a single hop.
type TransitionEvent struct {
	EventBase
	From     string        `json:"from"`
	To       string        `json:"to"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
}

// StateEvent reports a change in StateMemory.
type StateEvent struct {
	EventBase
	StateID   int64  `json:"state_id"`
	StateName string `json:"state_name"`
}

// RegionEvent reports the outcome of a search-region resolution.
type RegionEvent struct {
	EventBase
	Object ObjectKey `json:"object"`
	Region Region    `json:"region"`
	Source string    `json:"source"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNavigationStart  func(context.Context, *NavigationEvent)
	OnNavigationEnd    func(context.Context, *NavigationEvent)
	OnTransition       func(context.Context, *TransitionEvent)
	OnStateActivated   func(context.Context, *StateEvent)
	OnStateDeactivated func(context.Context, *StateEvent)
	OnRegionResolved   func(context.Context, *RegionEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNavigationStart:  chain(h.OnNavigationStart, other.OnNavigationStart),
		OnNavigationEnd:    chain(h.OnNavigationEnd, other.OnNavigationEnd),
		OnTransition:       chain(h.OnTransition, other.OnTransition),
		OnStateActivated:   chain(h.OnStateActivated, other.OnStateActivated),
		OnStateDeactivated: chain(h.OnStateDeactivated, other.OnStateDeactivated),
		OnRegionResolved:   chain(h.OnRegionResolved, other.OnRegionResolved),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
