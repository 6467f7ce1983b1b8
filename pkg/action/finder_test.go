package action_test

import (
	"context"
	"testing"

	"github.com/aretw0/waymark/pkg/action"
	"github.com/aretw0/waymark/pkg/adapters/memory"
	"github.com/aretw0/waymark/pkg/adapters/mock"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/graph"
	"github.com/aretw0/waymark/pkg/region"
	"github.com/aretw0/waymark/pkg/statemem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	promptKey = domain.ObjectKey{State: "PromptState", Object: "ClaudePrompt"}
	iconKey   = domain.ObjectKey{State: "WorkingState", Object: "ClaudeIcon"}
)

type fixture struct {
	g      *graph.Graph
	mem    *statemem.Memory
	store  *memory.MatchStore
	screen *mock.Action
	finder *action.Finder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := graph.New()
	_, err := g.RegisterState(domain.State{Name: "PromptState", Objects: []domain.StateObject{
		{Name: "ClaudePrompt", Kind: domain.KindImage},
	}})
	require.NoError(t, err)
	_, err = g.RegisterState(domain.State{Name: "WorkingState", Objects: []domain.StateObject{
		{Name: "ClaudeIcon", Kind: domain.KindImage, SearchRegionOnObject: &domain.SearchRegionOnObject{
			TargetType:       domain.KindImage,
			TargetStateName:  "PromptState",
			TargetObjectName: "ClaudePrompt",
			Adjustments:      domain.Adjustment{AddX: 3, AddY: 10, AddW: 30, AddH: 55},
		}},
		{Name: "status", Kind: domain.KindString, Text: "working"},
	}})
	require.NoError(t, err)
	_, err = g.RegisterState(domain.State{Name: "Blank"})
	require.NoError(t, err)

	store := memory.NewMatchStore()
	mem := statemem.New()
	screen := mock.New()
	finder := action.NewFinder(screen, region.NewResolver(store), region.NewRecorder(store), mem, g)
	return &fixture{g: g, mem: mem, store: store, screen: screen, finder: finder}
}

func TestFinder_CrossStateDependency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.screen.Place(promptKey, domain.NewRegion(100, 100, 50, 50))
	f.screen.Place(iconKey, domain.NewRegion(110, 120, 10, 10))

	prompt, _ := f.g.Object(promptKey)
	icon, _ := f.g.Object(iconKey)

	// Without a recorded prompt match the icon is skipped.
	res, err := f.finder.Find(ctx, icon)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, f.screen.Calls(), "skipped objects never reach the backend")

	res, err = f.finder.Find(ctx, prompt)
	require.NoError(t, err)
	require.True(t, res.Success)

	promptID, _ := f.g.ID("PromptState")
	assert.True(t, f.mem.IsActive(promptID), "a match re-activates its owner")

	// The prompt state leaves the screen; its match stays usable.
	f.mem.Remove(ctx, promptID)

	res, err = f.finder.Find(ctx, icon)
	require.NoError(t, err)
	assert.True(t, res.Success)

	calls := f.screen.Calls()
	require.Len(t, calls, 2)
	require.NotNil(t, calls[1].Config.SearchRegion)
	assert.Equal(t, domain.NewRegion(103, 110, 80, 105), *calls[1].Config.SearchRegion)
	assert.Nil(t, calls[0].Config.SearchRegion, "objects without regions search the whole screen")

	workingID, _ := f.g.ID("WorkingState")
	assert.True(t, f.mem.IsActive(workingID))
	assert.False(t, f.mem.IsActive(promptID))

	last, ok, err := f.store.Last(ctx, iconKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.NewRegion(110, 120, 10, 10), last)
}

func TestFinder_Exists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ok, err := f.finder.Exists("PromptState")(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	f.screen.Place(promptKey, domain.NewRegion(1, 1, 1, 1))
	ok, err = f.finder.Exists("PromptState")(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.finder.Exists("Blank")(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "nothing to search means nothing to disprove")

	_, err = f.finder.Exists("Atlantis")(ctx)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestFinder_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ok, err := f.finder.Click(promptKey)(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	f.screen.Place(promptKey, domain.NewRegion(5, 5, 5, 5))
	ok, err = f.finder.Click(promptKey)(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.finder.Type(promptKey, "hello")(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	calls := f.screen.Calls()
	assert.Equal(t, "hello", calls[len(calls)-1].Config.Text)

	ok, err = f.finder.Vanish(promptKey)(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.finder.Click(domain.ObjectKey{State: "PromptState", Object: "missing"})(ctx)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestFinder_BackendErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.screen.FailWith(promptKey, assert.AnError)

	prompt, _ := f.g.Object(promptKey)
	_, err := f.finder.Find(context.Background(), prompt)
	assert.ErrorIs(t, err, assert.AnError)
}
