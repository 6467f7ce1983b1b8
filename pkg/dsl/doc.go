/*
Package dsl provides a fluent builder for constructing waymark state graphs in Go.

It is the programmatic alternative to YAML or JSON definitions, useful for tests
and for automations whose transitions are plain Go functions.

Example usage:

	b := dsl.New()

	b.Add("HOME").
		Cost(1).
		Image("worldButton").
		Go("WORLD", clickWorld)

	b.Add("WORLD").
		Cost(10).
		Image("searchButton").
		Arrival(worldVisible).
		Go("ISLAND", search).
		Go("HOME", goHome)

	b.Add("ISLAND").
		Cost(10).
		Image("islandName").
		On("WORLD", "searchButton", domain.Adjustment{AddY: 40, AddH: 20})

	g, err := b.Build()
*/
package dsl
