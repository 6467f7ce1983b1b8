package domain

import "context"

// TransitionFunc performs or verifies a transition.
// A false result is an ordinary failure; an error is fatal and aborts navigation.
type TransitionFunc func(ctx context.Context) (bool, error)

// Always is a TransitionFunc that always succeeds.
func Always(context.Context) (bool, error) { return true, nil }

// Never is a TransitionFunc that always fails.
func Never(context.Context) (bool, error) { return false, nil }

// Transition is a directed edge between two states.
type Transition struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Priority orders edges sharing endpoints. Higher runs first.
	Priority int `json:"priority,omitempty"`

	// StaysVisible keeps the origin active after a successful transition.
	StaysVisible bool `json:"staysVisible,omitempty"`

	// Activate lists extra states the transition is expected to open.
	Activate []string `json:"activate,omitempty"`

	// Exit lists states the transition closes.
	Exit []string `json:"exit,omitempty"`

	// Action names the registry entry bound to Run (used by file definitions).
	Action string `json:"action,omitempty"`

	Run TransitionFunc `json:"-"`
}

// Execute runs the transition, treating a nil Run as success.
func (t Transition) Execute(ctx context.Context) (bool, error) {
	if t.Run == nil {
		return true, nil
	}
	return t.Run(ctx)
}

// TransitionSet groups the outgoing edges of a state with its arrival check.
type TransitionSet struct {
	State    string
	Outgoing []Transition

	// Arrival confirms that the state is really on screen after entering it.
	Arrival TransitionFunc
}

// VerifyArrival runs the arrival check, treating a nil check as success.
func (s TransitionSet) VerifyArrival(ctx context.Context) (bool, error) {
	if s.Arrival == nil {
		return true, nil
	}
	return s.Arrival(ctx)
}
