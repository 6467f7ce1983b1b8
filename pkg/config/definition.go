package config

import (
	"github.com/aretw0/waymark/pkg/domain"
)

// Definition is the serializable description of a state graph.
type Definition struct {
	Name        string          `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Initial     []string        `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`
	States      []StateDef      `json:"states" yaml:"states" mapstructure:"states"`
	Transitions []TransitionDef `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// StateDef describes one state and its objects.
type StateDef struct {
	Name        string      `json:"name" yaml:"name" mapstructure:"name"`
	PathCost    *int        `json:"pathCost,omitempty" yaml:"pathCost,omitempty" mapstructure:"pathCost"`
	Probability *int        `json:"probability,omitempty" yaml:"probability,omitempty" mapstructure:"probability"`
	Blocking    bool        `json:"blocking,omitempty" yaml:"blocking,omitempty" mapstructure:"blocking"`
	Objects     []ObjectDef `json:"objects,omitempty" yaml:"objects,omitempty" mapstructure:"objects"`

	// Arrival names the registry function that verifies the state is on screen.
	Arrival string `json:"arrival,omitempty" yaml:"arrival,omitempty" mapstructure:"arrival"`
}

// ObjectDef describes one state object.
type ObjectDef struct {
	Name     string            `json:"name" yaml:"name" mapstructure:"name"`
	Kind     domain.ObjectKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	Region   *domain.Region    `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	Location *domain.Location  `json:"location,omitempty" yaml:"location,omitempty" mapstructure:"location"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`

	SearchRegionOnObject *domain.SearchRegionOnObject `json:"searchRegionOnObject,omitempty" yaml:"searchRegionOnObject,omitempty" mapstructure:"searchRegionOnObject"`
}

// TransitionDef describes one directed edge.
type TransitionDef struct {
	From         string   `json:"from" yaml:"from" mapstructure:"from"`
	To           string   `json:"to" yaml:"to" mapstructure:"to"`
	Priority     int      `json:"priority,omitempty" yaml:"priority,omitempty" mapstructure:"priority"`
	StaysVisible bool     `json:"staysVisible,omitempty" yaml:"staysVisible,omitempty" mapstructure:"staysVisible"`
	Activate     []string `json:"activate,omitempty" yaml:"activate,omitempty" mapstructure:"activate"`
	Exit         []string `json:"exit,omitempty" yaml:"exit,omitempty" mapstructure:"exit"`

	// Action names the registry function run by the transition. Empty always succeeds.
	Action string `json:"action,omitempty" yaml:"action,omitempty" mapstructure:"action"`
}

// State converts the definition into a domain state. Costs default to
// domain.DefaultPathCost and probabilities to domain.DefaultProbability.
func (d StateDef) State() domain.State {
	cost := domain.DefaultPathCost
	if d.PathCost != nil {
		cost = *d.PathCost
	}
	probability := domain.DefaultProbability
	if d.Probability != nil {
		probability = *d.Probability
	}
	s := domain.State{
		Name:            d.Name,
		PathCost:        cost,
		Probability:     probability,
		BaseProbability: probability,
		Blocking:        d.Blocking,
	}
	for _, o := range d.Objects {
		s.Objects = append(s.Objects, domain.StateObject{
			Name:                 o.Name,
			OwnerState:           d.Name,
			Kind:                 o.Kind,
			Region:               o.Region,
			Location:             o.Location,
			Text:                 o.Text,
			SearchRegionOnObject: o.SearchRegionOnObject,
		})
	}
	return s
}

// Transition converts the definition into an unbound domain transition.
func (d TransitionDef) Transition() domain.Transition {
	return domain.Transition{
		From:         d.From,
		To:           d.To,
		Priority:     d.Priority,
		StaysVisible: d.StaysVisible,
		Activate:     d.Activate,
		Exit:         d.Exit,
		Action:       d.Action,
	}
}
