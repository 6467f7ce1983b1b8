package region

import (
	"fmt"
	"strings"

	"github.com/aretw0/waymark/pkg/domain"
)

// DetectCycles returns domain.ErrCyclicDependency when the search-region
// dependencies of objects form a cycle. References to objects outside the
// list are ignored.
func DetectCycles(objects []domain.StateObject) error {
	deps := make(map[domain.ObjectKey]domain.ObjectKey, len(objects))
	var keys []domain.ObjectKey
	for _, o := range objects {
		if o.SearchRegionOnObject == nil {
			continue
		}
		deps[o.Key()] = o.SearchRegionOnObject.Key()
		keys = append(keys, o.Key())
	}

	done := make(map[domain.ObjectKey]bool, len(deps))
	for _, start := range keys {
		if err := follow(start, deps, done); err != nil {
			return err
		}
	}
	return nil
}

// follow walks the dependency chain from start. Each object has at most one
// dependency, so the walk is a simple chain.
func follow(start domain.ObjectKey, deps map[domain.ObjectKey]domain.ObjectKey, done map[domain.ObjectKey]bool) error {
	onChain := make(map[domain.ObjectKey]bool)
	var chain []domain.ObjectKey

	for cur, ok := start, true; ok && !done[cur]; cur, ok = next(deps, cur) {
		if onChain[cur] {
			return fmt.Errorf("%w: %s", domain.ErrCyclicDependency, describe(chain, cur))
		}
		onChain[cur] = true
		chain = append(chain, cur)
	}

	for _, k := range chain {
		done[k] = true
	}
	return nil
}

func next(deps map[domain.ObjectKey]domain.ObjectKey, cur domain.ObjectKey) (domain.ObjectKey, bool) {
	k, ok := deps[cur]
	return k, ok
}

func describe(chain []domain.ObjectKey, repeat domain.ObjectKey) string {
	var parts []string
	started := false
	for _, k := range chain {
		if k == repeat {
			started = true
		}
		if started {
			parts = append(parts, k.String())
		}
	}
	parts = append(parts, repeat.String())
	return strings.Join(parts, " -> ")
}
