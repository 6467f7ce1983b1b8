package domain

// NullStateID is the UNKNOWN/NULL sentinel. It is never stored as active.
const NullStateID int64 = 0

// DefaultPathCost is used when a state declares no cost.
const DefaultPathCost = 1

// DefaultProbability is the existence probability of a state that declares none.
const DefaultProbability = 100

// State is a recognizable configuration of the automated application.
// Its identity is fixed at registration; whether it is active lives in StateMemory.
type State struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// Objects are the images, regions, locations and strings that identify the state.
	Objects []StateObject `json:"objects,omitempty"`

	// PathCost is added to the score of every path that enters this state.
	PathCost int `json:"pathCost"`

	// Probability is the chance (0-100) that a mock show-all search finds the
	// state's objects. See mock.Action.WithStates.
	Probability     int `json:"probability"`
	BaseProbability int `json:"baseProbability"`

	// Blocking states must be dealt with before other states can be acted on.
	Blocking bool `json:"blocking,omitempty"`
}

// Object returns the object with the given name.
func (s *State) Object(name string) (StateObject, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return StateObject{}, false
}

// ResetProbability restores the base existence probability.
func (s *State) ResetProbability() {
	s.Probability = s.BaseProbability
}

// Snapshot is a serializable view of StateMemory.
type Snapshot struct {
	Active []string `json:"active"`
}
