/*
Package graph is the registry of states and transitions and the path finder over them.

States are registered once by name and receive a stable id. Transitions are directed
edges between registered states; several edges may share endpoints and are tried in
priority order.

	g := graph.New()
	home, _ := g.RegisterState(domain.State{Name: "HOME", PathCost: 1})
	world, _ := g.RegisterState(domain.State{Name: "WORLD", PathCost: 10})
	_ = g.RegisterTransition(domain.Transition{From: "HOME", To: "WORLD", Run: clickWorld})

	paths := g.FindAllPaths(map[int64]struct{}{home: {}}, world)
*/
package graph
