package graph

import (
	"slices"

	"github.com/aretw0/waymark/pkg/domain"
)

// FindAllPaths enumerates every simple path from any state in from to target.
// A path's score is the sum of the path costs of the states it enters.
// Starts equal to target yield nothing; an active target needs no path.
func (g *Graph) FindAllPaths(from map[int64]struct{}, target int64) domain.Paths {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.byID[target]; !ok {
		return domain.Paths{}
	}

	starts := make([]int64, 0, len(from))
	for id := range from {
		if _, ok := g.byID[id]; ok && id != target {
			starts = append(starts, id)
		}
	}
	slices.Sort(starts)

	var found domain.Paths
	for _, start := range starts {
		visited := map[int64]bool{start: true}
		g.walk(start, target, []int64{start}, 0, visited, &found)
	}
	return found.Sort()
}

func (g *Graph) walk(current, target int64, trail []int64, score int, visited map[int64]bool, found *domain.Paths) {
	for _, next := range g.neighbours(current) {
		if visited[next] {
			continue
		}
		nextScore := score + g.byID[next].PathCost
		if next == target {
			*found = append(*found, domain.Path{
				States: append(slices.Clone(trail), next),
				Score:  nextScore,
			})
			continue
		}
		visited[next] = true
		g.walk(next, target, append(trail, next), nextScore, visited, found)
		visited[next] = false
	}
}

// neighbours lists distinct destinations of current in edge order.
func (g *Graph) neighbours(current int64) []int64 {
	edges := g.outgoing[current]
	out := make([]int64, 0, len(edges))
	for _, e := range edges {
		if !slices.Contains(out, e.to) {
			out = append(out, e.to)
		}
	}
	return out
}
