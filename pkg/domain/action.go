package domain

// ActionKind names the primitive requested from the matching backend.
type ActionKind string

const (
	ActionFind   ActionKind = "find"
	ActionClick  ActionKind = "click"
	ActionType   ActionKind = "type"
	ActionVanish ActionKind = "vanish"
)

// ActionConfig parameterizes a call to the external Action collaborator.
type ActionConfig struct {
	Kind ActionKind `json:"kind"`

	// SearchRegion restricts where the backend looks. Nil means the whole screen.
	SearchRegion *Region `json:"searchRegion,omitempty"`

	// Text is typed for ActionType.
	Text string `json:"text,omitempty"`
}

// Match is one hit reported by the matching backend.
type Match struct {
	Object ObjectKey  `json:"object"`
	Kind   ObjectKind `json:"kind"`
	Region Region     `json:"region"`
	Score  float64    `json:"score"`
}

// ActionResult is what the backend returns for a single action.
type ActionResult struct {
	Success bool    `json:"success"`
	Matches []Match `json:"matches,omitempty"`
}

// Best returns the highest scoring match.
func (r ActionResult) Best() (Match, bool) {
	if len(r.Matches) == 0 {
		return Match{}, false
	}
	best := r.Matches[0]
	for _, m := range r.Matches[1:] {
		if m.Score > best.Score {
			best = m
		}
	}
	return best, true
}
