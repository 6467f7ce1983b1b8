/*
Package waymark is a state-graph navigation engine for GUI automation.

An automated application is modelled as a graph of states (screens, dialogs, panels) joined by
transitions (the clicks and keystrokes that move between them). Several states can be visible at
once; the set of visible states lives in StateMemory. Asking the engine to open a state finds every
path from the active states to the target, tries the cheapest one hop by hop, verifies each arrival
and falls back to the next path when a hop fails.

# Concept

The engine never looks at the screen itself. Finding and acting on images, regions and text is
delegated to a ports.Action backend, and the last place each object was found is kept in a
ports.MatchStore. Objects can declare that their search region is derived from another object's
last match, so that a search is narrowed to where it makes sense.

# Key Features

  - Cheapest-path navigation: paths are scored by the cost of the states they enter.
  - Retry on failure: paths through a failed state are discarded and the next one is tried.
  - Declarative search regions: an object's region can follow the last match of another object.
  - Definitions in Go (pkg/dsl) or in YAML and JSON files (pkg/config).
  - Observability through lifecycle hooks, slog and Prometheus.

# Usage

	eng := waymark.New(waymark.WithAction(backend))
	if err := eng.LoadFile("app.yaml"); err != nil {
		log.Fatal(err)
	}

	ok, err := eng.OpenState(ctx, "ISLAND")
	if err != nil {
		log.Fatal(err) // a transition failed fatally or ctx was cancelled
	}
	if !ok {
		log.Println("ISLAND could not be reached from", eng.Active())
	}

Actions are bound by name. Besides "always" and "never" and anything registered with
Registry().Register before loading, definitions can use:

	click:STATE.object
	type:STATE.object=text
	vanish:STATE.object
	exists:STATE
*/
package waymark
