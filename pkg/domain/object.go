package domain

import (
	"fmt"
	"strings"
)

// ObjectKind tags the variant carried by a StateObject.
type ObjectKind int

const (
	KindImage ObjectKind = iota
	KindRegion
	KindLocation
	KindString
)

var kindNames = map[ObjectKind]string{
	KindImage:    "IMAGE",
	KindRegion:   "REGION",
	KindLocation: "LOCATION",
	KindString:   "STRING",
}

func (k ObjectKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ObjectKind(%d)", int(k))
}

// ParseObjectKind accepts the serialized names case-insensitively.
func ParseObjectKind(s string) (ObjectKind, error) {
	clean := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == clean {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}

func (k ObjectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ObjectKind) UnmarshalText(data []byte) error {
	parsed, err := ParseObjectKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ObjectKey identifies a state object across the whole graph.
type ObjectKey struct {
	State  string `json:"state"`
	Object string `json:"object"`
}

func (k ObjectKey) String() string {
	return k.State + "." + k.Object
}

// SearchRegionOnObject declares that an object's search region is computed
// from the last match of another object, possibly owned by another state.
type SearchRegionOnObject struct {
	TargetType       ObjectKind `json:"targetType" yaml:"targetType" mapstructure:"targetType"`
	TargetStateName  string     `json:"targetStateName" yaml:"targetStateName" mapstructure:"targetStateName"`
	TargetObjectName string     `json:"targetObjectName" yaml:"targetObjectName" mapstructure:"targetObjectName"`
	Adjustments      Adjustment `json:"adjustments" yaml:"adjustments" mapstructure:"adjustments"`
}

// Key returns the cache key of the referenced object.
func (s SearchRegionOnObject) Key() ObjectKey {
	return ObjectKey{State: s.TargetStateName, Object: s.TargetObjectName}
}

// StateObject is a detectable or actionable element owned by one State.
// Kind selects which of Region, Location and Text is meaningful.
type StateObject struct {
	Name       string     `json:"name"`
	OwnerState string     `json:"ownerState"`
	Kind       ObjectKind `json:"kind"`

	// Region is the fixed search region for images, or the region itself for KindRegion.
	Region   *Region   `json:"region,omitempty"`
	Location *Location `json:"location,omitempty"`
	Text     string    `json:"text,omitempty"`

	SearchRegionOnObject *SearchRegionOnObject `json:"searchRegionOnObject,omitempty"`
}

// Key returns the object's cache key.
func (o StateObject) Key() ObjectKey {
	return ObjectKey{State: o.OwnerState, Object: o.Name}
}

// StaticRegion returns the hand-authored region of the object, if any.
func (o StateObject) StaticRegion() (Region, bool) {
	switch o.Kind {
	case KindImage, KindRegion:
		if o.Region != nil && o.Region.Defined() {
			return *o.Region, true
		}
	case KindLocation:
		if o.Location != nil {
			return o.Location.Region(), true
		}
	case KindString:
	}
	return Region{}, false
}

// HasDependency reports whether the object declares a SearchRegionOnObject.
func (o StateObject) HasDependency() bool {
	return o.SearchRegionOnObject != nil
}

func (o StateObject) String() string {
	return o.Kind.String() + ":" + o.Key().String()
}
