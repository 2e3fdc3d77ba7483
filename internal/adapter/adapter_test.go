package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
)

func build(t *testing.T, s slot.Slot, persist bool) *Adapter {
	t.Helper()
	a, err := Build(context.Background(), s, Options{Persist: persist, Log: zerolog.Nop()})
	require.NoError(t, err)
	return a
}

func titles(items []model.Item) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestDefaultsToObservable(t *testing.T) {
	a := build(t, nil, false)
	assert.Equal(t, store.Observable, a.Active())
	assert.Equal(t, store.Variants(), a.Variants())
}

func TestVariantsAreIndependent(t *testing.T) {
	a := build(t, nil, false)

	a.Add("observable item")
	require.NoError(t, a.Switch(store.Provider))
	assert.Empty(t, a.Items())
	a.Add("provider item 1")
	a.Add("provider item 2")

	require.NoError(t, a.Switch(store.Reducer))
	assert.Empty(t, a.Items())
	a.Add("reducer item")
	a.Toggle(a.Items()[0].ID)
	a.ClearCompleted()
	assert.Empty(t, a.Items())

	require.NoError(t, a.Switch(store.Observable))
	assert.Equal(t, []string{"observable item"}, titles(a.Items()))
	require.NoError(t, a.Switch(store.Provider))
	assert.Equal(t, []string{"provider item 1", "provider item 2"}, titles(a.Items()))

	assert.Equal(t, 1, a.Count(store.Observable))
	assert.Equal(t, 2, a.Count(store.Provider))
	assert.Equal(t, 0, a.Count(store.Reducer))
}

func TestSwitchUnknownKeepsActive(t *testing.T) {
	a := build(t, nil, false)
	require.NoError(t, a.Switch(store.Reducer))
	err := a.Switch("mobx")
	require.ErrorIs(t, err, store.ErrUnknownVariant)
	assert.Equal(t, store.Reducer, a.Active())
}

func TestCycle(t *testing.T) {
	a := build(t, nil, false)
	assert.Equal(t, store.Provider, a.Cycle())
	assert.Equal(t, store.Reducer, a.Cycle())
	assert.Equal(t, store.Observable, a.Cycle())
}

func TestOperationsThroughAdapter(t *testing.T) {
	a := build(t, nil, false)
	for _, v := range a.Variants() {
		require.NoError(t, a.Switch(v))
		a.Add("one")
		a.Add("two")
		a.Add("  ")
		require.Len(t, a.Items(), 2, v)

		id := a.Items()[0].ID
		a.Update(id, "uno")
		a.Toggle(id)
		done, pending := a.Stats()
		assert.Equal(t, 1, done, v)
		assert.Equal(t, 1, pending, v)

		a.Remove("missing")
		a.Remove(a.Items()[1].ID)
		assert.Equal(t, []string{"uno"}, titles(a.Items()), v)
		assert.True(t, a.Items()[0].Completed, v)
	}
}

func TestSubscribeFollowsActive(t *testing.T) {
	a := build(t, nil, false)
	type event struct {
		v store.Variant
		n int
	}
	var got []event
	a.Subscribe(func(v store.Variant, items []model.Item) { got = append(got, event{v, len(items)}) })

	a.Add("x")
	require.NoError(t, a.Switch(store.Reducer))
	a.Add("y")
	a.Add("z")
	require.NoError(t, a.Switch(store.Reducer))

	assert.Equal(t, []event{
		{store.Observable, 1},
		{store.Reducer, 0},
		{store.Reducer, 1},
		{store.Reducer, 2},
	}, got)
}

func TestPersistedVariantsUseSeparateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")

	a := build(t, slot.NewFile(path), true)
	a.Add("kept in observable")
	require.NoError(t, a.Switch(store.Reducer))
	a.Add("kept in reducer")

	b := build(t, slot.NewFile(path), true)
	assert.Equal(t, []string{"kept in observable"}, titles(b.Items()))
	require.NoError(t, b.Switch(store.Reducer))
	assert.Equal(t, []string{"kept in reducer"}, titles(b.Items()))
	require.NoError(t, b.Switch(store.Provider))
	assert.Empty(t, b.Items())
}

func TestNewRejectsUnknownActive(t *testing.T) {
	_, err := Build(context.Background(), nil, Options{Active: "nope", Log: zerolog.Nop()})
	require.ErrorIs(t, err, store.ErrUnknownVariant)
}
