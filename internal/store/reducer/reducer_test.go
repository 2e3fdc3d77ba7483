package reducer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(m *slot.Mirror) store.Store { return New(m) })
}

var t0 = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func TestReduceIsPure(t *testing.T) {
	start := Reduce(State{}, AddTodo("a", t0))
	start = Reduce(start, AddTodo("b", t0))
	snapshot := model.Clone(start.Todos)

	for _, a := range []Action{
		ToggleTodo(start.Todos[0].ID),
		UpdateTodo(start.Todos[1].ID, "renamed"),
		DeleteTodo(start.Todos[0].ID),
		ClearCompleted(),
		Hydrate(nil),
	} {
		_ = Reduce(start, a)
		assert.Equal(t, snapshot, start.Todos, "action %s modified its input", a.Type())
	}
}

func TestToggleActionTogglesWithoutTouchingTitle(t *testing.T) {
	s := Reduce(State{}, AddTodo("write tests", t0))
	id := s.Todos[0].ID

	s = Reduce(s, ToggleTodo(id))
	require.True(t, s.Todos[0].Completed)
	assert.Equal(t, "write tests", s.Todos[0].Title)

	s = Reduce(s, ToggleTodo(id))
	assert.False(t, s.Todos[0].Completed)
	assert.Equal(t, "write tests", s.Todos[0].Title)
}

func TestReduceEdgeCases(t *testing.T) {
	s := Reduce(State{}, AddTodo("   ", t0))
	assert.Empty(t, s.Todos)

	add := AddTodo("once", t0)
	s = Reduce(s, add)
	s = Reduce(s, add)
	assert.Len(t, s.Todos, 1, "replayed add must not duplicate an id")

	before := s
	s = Reduce(s, unknownAction{})
	assert.Equal(t, before, s)
}

type unknownAction struct{}

func (unknownAction) Type() string { return "todos/unknown" }

func TestDispatchNotifiesOnlyOnChange(t *testing.T) {
	st := New(nil)
	var seen []int
	st.Subscribe(func(items []model.Item) { seen = append(seen, len(items)) })

	st.Dispatch(AddTodo("a", t0))
	st.Dispatch(ToggleTodo("nope"))
	st.Dispatch(ClearCompleted())
	st.Dispatch(unknownAction{})
	st.Dispatch(ToggleTodo(st.GetState().Todos[0].ID))
	st.Dispatch(ClearCompleted())

	assert.Equal(t, []int{1, 1, 0}, seen)
}

func TestHydrateFromSlot(t *testing.T) {
	mem := slot.NewMemory()
	items := []model.Item{
		{ID: "1", Title: "from disk", CreatedAt: t0},
		{ID: "2", Title: "done already", Completed: true, CreatedAt: t0},
	}
	b, err := slot.Encode(items)
	require.NoError(t, err)
	require.NoError(t, mem.Set(store.Reducer.SlotKey(), b))

	st := New(slot.NewMirror(mem, store.Reducer.SlotKey(), zerolog.Nop()))
	got := st.GetState().Todos
	require.Len(t, got, 2)
	assert.Equal(t, "from disk", got[0].Title)
	assert.True(t, got[1].Completed)
}
