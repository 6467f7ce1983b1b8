package graph_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/graph"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func set(ids ...int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// buildGraph registers states named by cost and the given edges.
func buildGraph(t *testing.T, costs map[string]int, names []string, edges [][2]string) (*graph.Graph, map[string]int64) {
	t.Helper()
	g := graph.New()
	ids := make(map[string]int64, len(names))
	for _, n := range names {
		id, err := g.RegisterState(domain.State{Name: n, PathCost: costs[n]})
		if err != nil {
			t.Fatalf("RegisterState(%s): %v", n, err)
		}
		ids[n] = id
	}
	for _, e := range edges {
		if err := g.RegisterTransition(domain.Transition{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("RegisterTransition(%v): %v", e, err)
		}
	}
	return g, ids
}

func TestFindAllPaths_HomeWorldIsland(t *testing.T) {
	g, ids := buildGraph(t,
		map[string]int{"HOME": 1, "WORLD": 10, "ISLAND": 10},
		[]string{"HOME", "WORLD", "ISLAND"},
		[][2]string{{"HOME", "WORLD"}, {"WORLD", "ISLAND"}},
	)

	got := g.FindAllPaths(set(ids["HOME"]), ids["ISLAND"])
	want := domain.Paths{{States: []int64{ids["HOME"], ids["WORLD"], ids["ISLAND"]}, Score: 20}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindAllPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAllPaths_Ordering(t *testing.T) {
	// A -> B -> D (cost 5+1), A -> C -> D (cost 1+1), A -> D (cost 1), B -> C
	g, ids := buildGraph(t,
		map[string]int{"A": 1, "B": 5, "C": 1, "D": 1},
		[]string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"A", "C"}, {"A", "D"}, {"B", "D"}, {"C", "D"}, {"B", "C"}},
	)
	a, b, c, d := ids["A"], ids["B"], ids["C"], ids["D"]

	got := g.FindAllPaths(set(a), d)
	want := domain.Paths{
		{States: []int64{a, d}, Score: 1},
		{States: []int64{a, c, d}, Score: 2},
		{States: []int64{a, b, d}, Score: 6},
		{States: []int64{a, b, c, d}, Score: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindAllPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAllPaths_MultipleStarts(t *testing.T) {
	g, ids := buildGraph(t,
		map[string]int{"A": 1, "B": 1, "T": 3},
		[]string{"A", "B", "T"},
		[][2]string{{"B", "T"}, {"A", "T"}},
	)

	got := g.FindAllPaths(set(ids["B"], ids["A"]), ids["T"])
	want := domain.Paths{
		{States: []int64{ids["A"], ids["T"]}, Score: 3},
		{States: []int64{ids["B"], ids["T"]}, Score: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ties must keep ascending start order (-want +got):\n%s", diff)
	}
}

func TestFindAllPaths_EdgeCases(t *testing.T) {
	g, ids := buildGraph(t,
		map[string]int{"A": 1, "B": 1, "C": 1},
		[]string{"A", "B", "C"},
		[][2]string{{"A", "B"}, {"B", "A"}},
	)

	tests := []struct {
		name   string
		from   map[int64]struct{}
		target int64
	}{
		{"Unreachable", set(ids["A"]), ids["C"]},
		{"Unknown Target", set(ids["A"]), 99},
		{"Start Is Target", set(ids["A"]), ids["A"]},
		{"No Active States", set(), ids["B"]},
		{"Null Start", set(domain.NullStateID), ids["B"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.FindAllPaths(tt.from, tt.target)
			if !got.IsEmpty() {
				t.Errorf("expected no paths, got %v", got)
			}
			if got.BestScore() != 0 {
				t.Errorf("BestScore() = %d, want 0", got.BestScore())
			}
		})
	}
}

func TestFindAllPaths_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 7).Draw(rt, "states")
		g := graph.New()
		costs := make(map[int64]int, n)
		for i := 0; i < n; i++ {
			cost := rapid.IntRange(0, 20).Draw(rt, fmt.Sprintf("cost%d", i))
			id, err := g.RegisterState(domain.State{Name: fmt.Sprintf("S%d", i), PathCost: cost})
			if err != nil {
				rt.Fatalf("RegisterState: %v", err)
			}
			costs[id] = cost
		}

		edges := rapid.IntRange(0, n*n).Draw(rt, "edges")
		for i := 0; i < edges; i++ {
			from := rapid.IntRange(0, n-1).Draw(rt, fmt.Sprintf("from%d", i))
			to := rapid.IntRange(0, n-1).Draw(rt, fmt.Sprintf("to%d", i))
			_ = g.RegisterTransition(domain.Transition{From: fmt.Sprintf("S%d", from), To: fmt.Sprintf("S%d", to)})
		}

		start := int64(rapid.IntRange(1, n).Draw(rt, "start"))
		target := int64(rapid.IntRange(1, n).Draw(rt, "target"))

		paths := g.FindAllPaths(set(start), target)
		for i, p := range paths {
			seen := make(map[int64]bool)
			for _, id := range p.States {
				if seen[id] {
					rt.Fatalf("path %v repeats state %d", p, id)
				}
				seen[id] = true
			}
			if p.Start() != start || p.End() != target {
				rt.Fatalf("path %v does not run %d -> %d", p, start, target)
			}
			score := 0
			for _, id := range p.States[1:] {
				score += costs[id]
			}
			if score != p.Score {
				rt.Fatalf("path %v has score %d, want %d", p, p.Score, score)
			}
			if i > 0 && paths[i-1].Score > p.Score {
				rt.Fatalf("paths not sorted: %v", paths)
			}
		}
		if len(paths.Dedupe()) != len(paths) {
			rt.Fatalf("duplicate paths: %v", paths)
		}
	})
}
