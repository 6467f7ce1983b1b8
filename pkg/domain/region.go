package domain

import "fmt"

// Region is a screen rectangle in pixels.
type Region struct {
	X int `json:"x" yaml:"x" mapstructure:"x"`
	Y int `json:"y" yaml:"y" mapstructure:"y"`
	W int `json:"w" yaml:"w" mapstructure:"w"`
	H int `json:"h" yaml:"h" mapstructure:"h"`
}

// NewRegion is a shorthand constructor.
func NewRegion(x, y, w, h int) Region {
	return Region{X: x, Y: y, W: w, H: h}
}

// Defined reports whether the region has a positive area.
func (r Region) Defined() bool {
	return r.W > 0 && r.H > 0
}

// Contains reports whether other lies completely inside r.
func (r Region) Contains(other Region) bool {
	return other.X >= r.X &&
		other.Y >= r.Y &&
		other.X+other.W <= r.X+r.W &&
		other.Y+other.H <= r.Y+r.H
}

// Center returns the middle point of the region.
func (r Region) Center() Location {
	return Location{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Adjust applies the offsets of a to r and returns the result.
// Absolute dimensions, when set, replace the computed width or height.
func (r Region) Adjust(a Adjustment) Region {
	out := Region{
		X: r.X + a.AddX,
		Y: r.Y + a.AddY,
		W: r.W + a.AddW,
		H: r.H + a.AddH,
	}
	if a.AbsoluteW > 0 {
		out.W = a.AbsoluteW
	}
	if a.AbsoluteH > 0 {
		out.H = a.AbsoluteH
	}
	return out
}

func (r Region) String() string {
	return fmt.Sprintf("R[%d,%d %dx%d]", r.X, r.Y, r.W, r.H)
}

// Location is a single screen point.
type Location struct {
	X int `json:"x" yaml:"x" mapstructure:"x"`
	Y int `json:"y" yaml:"y" mapstructure:"y"`
}

// Region returns the 1x1 region at the location.
func (l Location) Region() Region {
	return Region{X: l.X, Y: l.Y, W: 1, H: 1}
}

// Adjustment describes how a dependent search region is derived from a match.
// AbsoluteW and AbsoluteH override the computed size when greater than zero.
type Adjustment struct {
	AddX      int `json:"addX" yaml:"addX" mapstructure:"addX"`
	AddY      int `json:"addY" yaml:"addY" mapstructure:"addY"`
	AddW      int `json:"addW" yaml:"addW" mapstructure:"addW"`
	AddH      int `json:"addH" yaml:"addH" mapstructure:"addH"`
	AbsoluteW int `json:"absoluteW,omitempty" yaml:"absoluteW,omitempty" mapstructure:"absoluteW"`
	AbsoluteH int `json:"absoluteH,omitempty" yaml:"absoluteH,omitempty" mapstructure:"absoluteH"`
}
