package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/waymark/internal/runtime"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/graph"
	"github.com/aretw0/waymark/pkg/statemem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs the transitions that ran, in order.
type recorder struct {
	mu  sync.Mutex
	ran []string
}

func (r *recorder) fn(label string, result bool, err error) domain.TransitionFunc {
	return func(context.Context) (bool, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.ran = append(r.ran, label)
		return result, err
	}
}

type world struct {
	g   *graph.Graph
	mem *statemem.Memory
	nav *runtime.Navigator
	rec *recorder
	ids map[string]int64
}

// newWorld builds HOME -> WORLD -> ISLAND, WORLD -> HOME and ISLAND -> WORLD, each state costing 10.
// Transitions listed in fail return false.
func newWorld(t *testing.T, fail map[string]bool, opts ...runtime.Option) *world {
	t.Helper()
	g := graph.New()
	ids := make(map[string]int64)
	for _, name := range []string{"HOME", "WORLD", "ISLAND"} {
		id, err := g.RegisterState(domain.State{Name: name, PathCost: 10})
		require.NoError(t, err)
		ids[name] = id
	}

	rec := &recorder{}
	for _, e := range [][2]string{{"HOME", "WORLD"}, {"WORLD", "ISLAND"}, {"WORLD", "HOME"}, {"ISLAND", "WORLD"}} {
		label := e[0] + "->" + e[1]
		require.NoError(t, g.RegisterTransition(domain.Transition{
			From: e[0], To: e[1], Run: rec.fn(label, !fail[label], nil),
		}))
	}

	mem := statemem.New()
	return &world{g: g, mem: mem, nav: runtime.NewNavigator(g, mem, opts...), rec: rec, ids: ids}
}

func (w *world) active() []string {
	var names []string
	for _, id := range w.mem.Active() {
		n, _ := w.g.Name(id)
		names = append(names, n)
	}
	return names
}

func TestOpenState_HomeToIsland(t *testing.T) {
	w := newWorld(t, nil)
	w.mem.Add(context.Background(), w.ids["HOME"])

	paths := w.g.FindAllPaths(w.mem.ActiveSet(), w.ids["ISLAND"])
	require.Equal(t, 1, paths.Len())
	assert.Equal(t, 20, paths.BestScore())

	ok, err := w.nav.OpenState(context.Background(), "ISLAND")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"HOME->WORLD", "WORLD->ISLAND"}, w.rec.ran)
	assert.Equal(t, []string{"ISLAND"}, w.active())
}

func TestOpenState_FirstHopFails(t *testing.T) {
	w := newWorld(t, map[string]bool{"HOME->WORLD": true})
	w.mem.Add(context.Background(), w.ids["HOME"])

	ok, err := w.nav.OpenState(context.Background(), "ISLAND")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"HOME->WORLD"}, w.rec.ran)
	assert.Equal(t, []string{"HOME"}, w.active(), "WORLD and ISLAND must not become active")
}

func TestOpenState_SecondHopFailsKeepsProgress(t *testing.T) {
	w := newWorld(t, map[string]bool{"WORLD->ISLAND": true})
	w.mem.Add(context.Background(), w.ids["HOME"])

	ok, err := w.nav.OpenState(context.Background(), "ISLAND")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"HOME->WORLD", "WORLD->ISLAND"}, w.rec.ran)
	assert.Equal(t, []string{"WORLD"}, w.active())
}

func TestOpenState_AlreadyActive(t *testing.T) {
	w := newWorld(t, nil)
	w.mem.Add(context.Background(), w.ids["ISLAND"])

	ok, err := w.nav.OpenState(context.Background(), "ISLAND")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, w.rec.ran)

	// Repeated calls stay idempotent.
	ok, _ = w.nav.OpenState(context.Background(), "ISLAND")
	assert.True(t, ok)
	assert.Empty(t, w.rec.ran)
}

func TestOpenState_UnknownAndUnreachable(t *testing.T) {
	w := newWorld(t, nil)

	ok, err := w.nav.OpenState(context.Background(), "ATLANTIS")
	require.NoError(t, err)
	assert.False(t, ok)

	// Nothing active, so nothing is reachable.
	ok, err = w.nav.OpenState(context.Background(), "WORLD")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, w.rec.ran)
}

func TestOpenState_RetriesAlternatePath(t *testing.T) {
	g := graph.New()
	for _, s := range []domain.State{
		{Name: "HOME", PathCost: 1},
		{Name: "TOOLBAR", PathCost: 1},
		{Name: "SETTINGS", PathCost: 5},
	} {
		_, err := g.RegisterState(s)
		require.NoError(t, err)
	}

	rec := &recorder{}
	require.NoError(t, g.RegisterTransition(domain.Transition{From: "HOME", To: "SETTINGS", Run: rec.fn("home", false, nil)}))
	require.NoError(t, g.RegisterTransition(domain.Transition{From: "TOOLBAR", To: "SETTINGS", Run: rec.fn("toolbar", true, nil)}))

	mem := statemem.New()
	home, _ := g.ID("HOME")
	toolbar, _ := g.ID("TOOLBAR")
	settings, _ := g.ID("SETTINGS")
	mem.Add(context.Background(), home)
	mem.Add(context.Background(), toolbar)

	ok, err := runtime.NewNavigator(g, mem).OpenState(context.Background(), "SETTINGS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"home", "toolbar"}, rec.ran, "equal scores keep ascending start order")
	assert.Equal(t, []int64{home, settings}, mem.Active())
}

func TestOpenState_BlockingStateMustBeLeftFirst(t *testing.T) {
	build := func(t *testing.T, dismiss bool) (*graph.Graph, *statemem.Memory, *recorder) {
		t.Helper()
		g := graph.New()
		for _, s := range []domain.State{
			{Name: "HOME", PathCost: 1},
			{Name: "DIALOG", PathCost: 1, Blocking: true},
			{Name: "WORLD", PathCost: 1},
		} {
			_, err := g.RegisterState(s)
			require.NoError(t, err)
		}
		rec := &recorder{}
		require.NoError(t, g.RegisterTransition(domain.Transition{From: "HOME", To: "WORLD", Run: rec.fn("HOME->WORLD", true, nil)}))
		if dismiss {
			require.NoError(t, g.RegisterTransition(domain.Transition{From: "DIALOG", To: "HOME", Run: rec.fn("DIALOG->HOME", true, nil)}))
		}

		mem := statemem.New()
		for _, name := range []string{"HOME", "DIALOG"} {
			id, _ := g.ID(name)
			mem.Add(context.Background(), id)
		}
		return g, mem, rec
	}

	t.Run("Dismissed before navigating on", func(t *testing.T) {
		g, mem, rec := build(t, true)
		ok, err := runtime.NewNavigator(g, mem).OpenState(context.Background(), "WORLD")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"DIALOG->HOME", "HOME->WORLD"}, rec.ran)

		world, _ := g.ID("WORLD")
		assert.Equal(t, []int64{world}, mem.Active())
	})

	t.Run("No way out", func(t *testing.T) {
		g, mem, rec := build(t, false)
		ok, err := runtime.NewNavigator(g, mem).OpenState(context.Background(), "WORLD")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, rec.ran, "the open HOME->WORLD edge is not used while DIALOG blocks")
	})
}

func TestOpenState_ArrivalVerification(t *testing.T) {
	w := newWorld(t, nil)
	w.mem.Add(context.Background(), w.ids["HOME"])
	require.NoError(t, w.g.SetArrival("WORLD", domain.Never))

	ok, err := w.nav.OpenState(context.Background(), "WORLD")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"HOME->WORLD"}, w.rec.ran)
	assert.Equal(t, []string{"HOME"}, w.active())
}

func TestOpenState_FatalErrorPropagates(t *testing.T) {
	g := graph.New()
	_, _ = g.RegisterState(domain.State{Name: "A", PathCost: 1})
	_, _ = g.RegisterState(domain.State{Name: "B", PathCost: 1})
	boom := errors.New("screen capture failed")
	require.NoError(t, g.RegisterTransition(domain.Transition{From: "A", To: "B", Run: func(context.Context) (bool, error) {
		return false, boom
	}}))

	mem := statemem.New()
	a, _ := g.ID("A")
	mem.Add(context.Background(), a)

	ok, err := runtime.NewNavigator(g, mem).OpenState(context.Background(), "B")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int64{a}, mem.Active())
}

func TestOpenState_ContextCancelled(t *testing.T) {
	w := newWorld(t, nil)
	w.mem.Add(context.Background(), w.ids["HOME"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := w.nav.OpenState(ctx, "ISLAND")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.rec.ran)
}

func TestOpenState_TransitionSemantics(t *testing.T) {
	g := graph.New()
	for _, name := range []string{"HOME", "MENU", "SIDEBAR", "BANNER"} {
		_, err := g.RegisterState(domain.State{Name: name, PathCost: 1})
		require.NoError(t, err)
	}
	require.NoError(t, g.RegisterTransition(domain.Transition{
		From:         "HOME",
		To:           "MENU",
		StaysVisible: true,
		Activate:     []string{"SIDEBAR"},
		Exit:         []string{"BANNER"},
	}))

	mem := statemem.New()
	ids := map[string]int64{}
	for _, name := range []string{"HOME", "MENU", "SIDEBAR", "BANNER"} {
		ids[name], _ = g.ID(name)
	}
	mem.Add(context.Background(), ids["HOME"])
	mem.Add(context.Background(), ids["BANNER"])

	ok, err := runtime.NewNavigator(g, mem).OpenState(context.Background(), "MENU")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mem.IsActive(ids["HOME"]), "StaysVisible keeps the origin")
	assert.True(t, mem.IsActive(ids["MENU"]))
	assert.True(t, mem.IsActive(ids["SIDEBAR"]), "activated states are added after verification")
	assert.False(t, mem.IsActive(ids["BANNER"]), "exited states are removed")
}

func TestOpenState_ActivatedStateMustVerify(t *testing.T) {
	g := graph.New()
	for _, name := range []string{"HOME", "MENU", "SIDEBAR"} {
		_, _ = g.RegisterState(domain.State{Name: name, PathCost: 1})
	}
	require.NoError(t, g.RegisterTransition(domain.Transition{From: "HOME", To: "MENU", Activate: []string{"SIDEBAR"}}))
	require.NoError(t, g.SetArrival("SIDEBAR", domain.Never))

	mem := statemem.New()
	home, _ := g.ID("HOME")
	menu, _ := g.ID("MENU")
	mem.Add(context.Background(), home)

	ok, err := runtime.NewNavigator(g, mem).OpenState(context.Background(), "MENU")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{menu}, mem.Active())
}

func TestOpenState_Hooks(t *testing.T) {
	var starts, ends []*domain.NavigationEvent
	var hops []*domain.TransitionEvent
	hooks := domain.LifecycleHooks{
		OnNavigationStart: func(_ context.Context, e *domain.NavigationEvent) { starts = append(starts, e) },
		OnNavigationEnd:   func(_ context.Context, e *domain.NavigationEvent) { ends = append(ends, e) },
		OnTransition:      func(_ context.Context, e *domain.TransitionEvent) { hops = append(hops, e) },
	}

	w := newWorld(t, nil, runtime.WithLifecycleHooks(hooks))
	w.mem.Add(context.Background(), w.ids["HOME"])

	ok, err := w.nav.OpenState(context.Background(), "ISLAND")
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, starts, 1)
	require.Len(t, ends, 1)
	assert.NotEmpty(t, starts[0].NavigationID)
	assert.Equal(t, starts[0].NavigationID, ends[0].NavigationID)
	assert.True(t, ends[0].Success)
	assert.Equal(t, 1, ends[0].Attempts)

	require.Len(t, hops, 2)
	assert.Equal(t, "HOME", hops[0].From)
	assert.Equal(t, "ISLAND", hops[1].To)
	assert.Equal(t, starts[0].NavigationID, hops[1].NavigationID)
}

func TestOpenStates_And_CloseState(t *testing.T) {
	w := newWorld(t, nil)
	w.mem.Add(context.Background(), w.ids["HOME"])
	ctx := context.Background()

	ok, err := w.nav.OpenStates(ctx, "WORLD", "ISLAND")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"ISLAND"}, w.active())

	assert.True(t, w.nav.CloseState(ctx, "ISLAND"))
	assert.False(t, w.nav.CloseState(ctx, "ISLAND"))
	assert.False(t, w.nav.CloseState(ctx, "ATLANTIS"))
	assert.Empty(t, w.active())

	ok, err = w.nav.OpenStates(ctx, "WORLD")
	require.NoError(t, err)
	assert.False(t, ok, "nothing active after closing everything")
}
