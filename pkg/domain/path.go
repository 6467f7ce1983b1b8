package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Path is an ordered sequence of state ids from an active state to a target.
// Lower scores are better.
type Path struct {
	States []int64 `json:"states"`
	Score  int     `json:"score"`
}

// Start returns the first state of the path, or NullStateID when empty.
func (p Path) Start() int64 {
	if len(p.States) == 0 {
		return NullStateID
	}
	return p.States[0]
}

// End returns the last state of the path, or NullStateID when empty.
func (p Path) End() int64 {
	if len(p.States) == 0 {
		return NullStateID
	}
	return p.States[len(p.States)-1]
}

// Contains reports whether id appears anywhere in the path.
func (p Path) Contains(id int64) bool {
	return slices.Contains(p.States, id)
}

// Equal compares the state sequences, ignoring the score.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.States, other.States)
}

// Hops returns the number of transitions along the path.
func (p Path) Hops() int {
	if len(p.States) < 2 {
		return 0
	}
	return len(p.States) - 1
}

func (p Path) String() string {
	parts := make([]string, len(p.States))
	for i, id := range p.States {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "->") + " (score " + strconv.Itoa(p.Score) + ")"
}

// Paths is a collection of candidate paths.
// Methods never mutate the receiver; callers rebind to the returned value.
type Paths []Path

// IsEmpty reports whether there are no candidate paths.
func (ps Paths) IsEmpty() bool {
	return len(ps) == 0
}

// Len returns the number of candidate paths.
func (ps Paths) Len() int {
	return len(ps)
}

// Add returns the collection with p appended.
func (ps Paths) Add(p ...Path) Paths {
	out := make(Paths, 0, len(ps)+len(p))
	out = append(out, ps...)
	return append(out, p...)
}

// Sort orders paths by ascending score, keeping discovery order among ties.
func (ps Paths) Sort() Paths {
	out := slices.Clone(ps)
	slices.SortStableFunc(out, func(a, b Path) int {
		return a.Score - b.Score
	})
	return out
}

// BestScore returns the lowest score, or 0 when the collection is empty.
// Use IsEmpty to tell "no paths" apart from a real score of 0.
func (ps Paths) BestScore() int {
	if len(ps) == 0 {
		return 0
	}
	best := ps[0].Score
	for _, p := range ps[1:] {
		if p.Score < best {
			best = p.Score
		}
	}
	return best
}

// Best returns the first path with the lowest score.
func (ps Paths) Best() (Path, bool) {
	if len(ps) == 0 {
		return Path{}, false
	}
	best := ps[0]
	for _, p := range ps[1:] {
		if p.Score < best.Score {
			best = p
		}
	}
	return best, true
}

// Dedupe drops paths whose state sequence was already seen.
func (ps Paths) Dedupe() Paths {
	out := make(Paths, 0, len(ps))
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		key := pathKey(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Clean drops every path that does not start in an active state or that
// passes through failed. Pass NullStateID as failed to filter on activity only.
func (ps Paths) Clean(active map[int64]struct{}, failed int64) Paths {
	out := make(Paths, 0, len(ps))
	for _, p := range ps {
		if _, ok := active[p.Start()]; !ok {
			continue
		}
		if failed != NullStateID && p.Contains(failed) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func pathKey(p Path) string {
	var sb strings.Builder
	for _, id := range p.States {
		sb.WriteString(strconv.FormatInt(id, 10))
		sb.WriteByte(',')
	}
	return sb.String()
}
