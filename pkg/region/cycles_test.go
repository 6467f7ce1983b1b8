package region_test

import (
	"testing"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func on(state, name, targetState, targetName string) domain.StateObject {
	o := domain.StateObject{Name: name, OwnerState: state, Kind: domain.KindImage}
	if targetState != "" {
		o.SearchRegionOnObject = &domain.SearchRegionOnObject{
			TargetType:       domain.KindImage,
			TargetStateName:  targetState,
			TargetObjectName: targetName,
		}
	}
	return o
}

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name    string
		objects []domain.StateObject
		cycle   string
	}{
		{
			name: "Chain",
			objects: []domain.StateObject{
				on("A", "a", "B", "b"),
				on("B", "b", "C", "c"),
				on("C", "c", "", ""),
			},
		},
		{
			name: "Shared Target",
			objects: []domain.StateObject{
				on("A", "a", "C", "c"),
				on("B", "b", "C", "c"),
				on("C", "c", "", ""),
			},
		},
		{
			name:    "External Reference",
			objects: []domain.StateObject{on("A", "a", "Elsewhere", "x")},
		},
		{
			name:    "Self Reference",
			objects: []domain.StateObject{on("A", "a", "A", "a")},
			cycle:   "A.a -> A.a",
		},
		{
			name: "Three Step Loop",
			objects: []domain.StateObject{
				on("Z", "z", "A", "a"),
				on("A", "a", "B", "b"),
				on("B", "b", "C", "c"),
				on("C", "c", "A", "a"),
			},
			cycle: "A.a -> B.b -> C.c -> A.a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := region.DetectCycles(tt.objects)
			if tt.cycle == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrCyclicDependency)
			assert.Contains(t, err.Error(), tt.cycle)
		})
	}
}
