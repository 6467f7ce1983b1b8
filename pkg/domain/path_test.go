package domain

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func set(ids ...int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func TestPaths_Empty(t *testing.T) {
	var ps Paths
	if !ps.IsEmpty() {
		t.Error("expected empty paths")
	}
	if got := ps.BestScore(); got != 0 {
		t.Errorf("BestScore() = %d, want 0", got)
	}
	if _, ok := ps.Best(); ok {
		t.Error("Best() should report no path")
	}
}

func TestPaths_Sort(t *testing.T) {
	ps := Paths{
		{States: []int64{1, 2, 3}, Score: 20},
		{States: []int64{1, 4}, Score: 5},
		{States: []int64{1, 5, 3}, Score: 20},
		{States: []int64{1, 6}, Score: 1},
	}

	sorted := ps.Sort()

	want := Paths{
		{States: []int64{1, 6}, Score: 1},
		{States: []int64{1, 4}, Score: 5},
		{States: []int64{1, 2, 3}, Score: 20},
		{States: []int64{1, 5, 3}, Score: 20},
	}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
	if ps[0].Score != 20 {
		t.Error("Sort() must not mutate the receiver")
	}
	if got := ps.BestScore(); got != 1 {
		t.Errorf("BestScore() = %d, want 1", got)
	}
}

func TestPaths_Clean(t *testing.T) {
	ps := Paths{
		{States: []int64{1, 2, 3}, Score: 20},
		{States: []int64{4, 3}, Score: 10},
		{States: []int64{5, 2, 3}, Score: 30},
		{States: []int64{1, 6, 3}, Score: 40},
	}
	before := make(Paths, len(ps))
	for i, p := range ps {
		before[i] = Path{States: slices.Clone(p.States), Score: p.Score}
	}

	tests := []struct {
		name   string
		active map[int64]struct{}
		failed int64
		want   Paths
	}{
		{
			name:   "Drop Paths Through Failed State",
			active: set(1, 4, 5),
			failed: 2,
			want: Paths{
				{States: []int64{4, 3}, Score: 10},
				{States: []int64{1, 6, 3}, Score: 40},
			},
		},
		{
			name:   "Drop Paths Not Starting In Active",
			active: set(1),
			failed: NullStateID,
			want: Paths{
				{States: []int64{1, 2, 3}, Score: 20},
				{States: []int64{1, 6, 3}, Score: 40},
			},
		},
		{
			name:   "Failed Start State Removes Everything From It",
			active: set(1),
			failed: 1,
			want:   Paths{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ps.Clean(tt.active, tt.failed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Clean() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if diff := cmp.Diff(before, ps); diff != "" {
		t.Errorf("Clean() mutated the receiver (-before +after):\n%s", diff)
	}
}

func TestPaths_Dedupe(t *testing.T) {
	ps := Paths{
		{States: []int64{1, 2}, Score: 3},
		{States: []int64{1, 2}, Score: 7},
		{States: []int64{1, 3}, Score: 3},
	}
	got := ps.Dedupe()
	want := Paths{
		{States: []int64{1, 2}, Score: 3},
		{States: []int64{1, 3}, Score: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dedupe() mismatch (-want +got):\n%s", diff)
	}
}

func TestPath_Accessors(t *testing.T) {
	p := Path{States: []int64{3, 7, 9}, Score: 12}
	if p.Start() != 3 || p.End() != 9 {
		t.Errorf("Start/End = %d/%d", p.Start(), p.End())
	}
	if p.Hops() != 2 {
		t.Errorf("Hops() = %d, want 2", p.Hops())
	}
	if !p.Contains(7) || p.Contains(8) {
		t.Error("Contains() mismatch")
	}
	if got := p.String(); got != "3->7->9 (score 12)" {
		t.Errorf("String() = %q", got)
	}
	var empty Path
	if empty.Start() != NullStateID || empty.Hops() != 0 {
		t.Error("empty path accessors")
	}
}
