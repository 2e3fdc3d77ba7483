// Package storetest checks that a store.Store implementation behaves like
// the others. Each variant runs the same suite from its own tests.
package storetest

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
)

// Factory builds a fresh store mirrored to m. m may be nil.
type Factory func(m *slot.Mirror) store.Store

func titles(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

// Run exercises the shared contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("add appends pending item", func(t *testing.T) {
		s := newStore(nil)
		s.Add("Buy milk")
		s.Add("  Walk dog ")
		items := s.Items()
		require.Len(t, items, 2)
		assert.Equal(t, []string{"Buy milk", "Walk dog"}, titles(items))
		for _, it := range items {
			assert.False(t, it.Completed)
			assert.NotEmpty(t, it.ID)
			assert.False(t, it.CreatedAt.IsZero())
		}
		assert.NotEqual(t, items[0].ID, items[1].ID)
	})

	t.Run("blank add is a no-op", func(t *testing.T) {
		s := newStore(nil)
		s.Add("keep")
		s.Add("")
		s.Add("   \t")
		assert.Equal(t, []string{"keep"}, titles(s.Items()))
	})

	t.Run("toggle twice restores", func(t *testing.T) {
		s := newStore(nil)
		s.Add("a")
		id := s.Items()[0].ID
		s.Toggle(id)
		assert.True(t, s.Items()[0].Completed)
		s.Toggle(id)
		assert.False(t, s.Items()[0].Completed)
		assert.Equal(t, "a", s.Items()[0].Title)
	})

	t.Run("update replaces title", func(t *testing.T) {
		s := newStore(nil)
		s.Add("a")
		id := s.Items()[0].ID
		s.Update(id, "b")
		assert.Equal(t, []string{"b"}, titles(s.Items()))
		s.Update(id, "  ")
		assert.Equal(t, []string{"b"}, titles(s.Items()))
		s.Update("missing", "c")
		assert.Equal(t, []string{"b"}, titles(s.Items()))
	})

	t.Run("unknown ids are ignored", func(t *testing.T) {
		s := newStore(nil)
		s.Add("a")
		s.Add("b")
		before := s.Items()
		s.Toggle("missing")
		s.Remove("missing")
		assert.Equal(t, before, s.Items())
	})

	t.Run("remove deletes one", func(t *testing.T) {
		s := newStore(nil)
		s.Add("a")
		s.Add("b")
		s.Add("c")
		s.Remove(s.Items()[1].ID)
		assert.Equal(t, []string{"a", "c"}, titles(s.Items()))
	})

	t.Run("clear completed keeps order", func(t *testing.T) {
		s := newStore(nil)
		for _, title := range []string{"a", "b", "c", "d", "e"} {
			s.Add(title)
		}
		items := s.Items()
		s.Toggle(items[1].ID)
		s.Toggle(items[3].ID)
		s.ClearCompleted()
		assert.Equal(t, []string{"a", "c", "e"}, titles(s.Items()))
		for _, it := range s.Items() {
			assert.False(t, it.Completed)
		}
	})

	t.Run("items is a copy", func(t *testing.T) {
		s := newStore(nil)
		s.Add("a")
		items := s.Items()
		items[0].Title = "mutated"
		assert.Equal(t, "a", s.Items()[0].Title)
	})

	t.Run("subscribers see effective changes only", func(t *testing.T) {
		s := newStore(nil)
		var calls []int
		unsub := s.Subscribe(func(items []model.Item) { calls = append(calls, len(items)) })
		s.Add("a")
		s.Add(" ")
		s.Toggle("missing")
		s.Add("b")
		s.Remove(s.Items()[0].ID)
		assert.Equal(t, []int{1, 2, 1}, calls)

		unsub()
		s.Add("c")
		assert.Len(t, calls, 3)
	})

	t.Run("mirrors to slot and reloads", func(t *testing.T) {
		mem := slot.NewMemory()
		newMirror := func() *slot.Mirror { return slot.NewMirror(mem, "test-key", zerolog.Nop()) }

		s := newStore(newMirror())
		s.Add("a")
		s.Add("b")
		s.Toggle(s.Items()[1].ID)

		reloaded := newStore(newMirror())
		got := reloaded.Items()
		require.Len(t, got, 2)
		assert.Equal(t, []string{"a", "b"}, titles(got))
		assert.False(t, got[0].Completed)
		assert.True(t, got[1].Completed)
		assert.Equal(t, s.Items()[0].ID, got[0].ID)

		reloaded.ClearCompleted()
		assert.Len(t, newStore(newMirror()).Items(), 1)
	})

	t.Run("odd stored date does not lose items", func(t *testing.T) {
		mem := slot.NewMemory()
		require.NoError(t, mem.Set("test-key", []byte(`{"state":{"todos":[
			{"id":"a","title":"one","completed":false,"createdAt":"2025-05-04T09:30:00.000Z"},
			{"id":"b","title":"two","completed":true,"createdAt":"2025-06-01"},
			{"id":"c","title":"three","completed":false,"createdAt":"not a date"}
		]},"version":0}`)))
		newMirror := func() *slot.Mirror { return slot.NewMirror(mem, "test-key", zerolog.Nop()) }

		s := newStore(newMirror())
		require.Equal(t, []string{"one", "two", "three"}, titles(s.Items()))
		s.Add("four")

		got := newStore(newMirror()).Items()
		assert.Equal(t, []string{"one", "two", "three", "four"}, titles(got))
		assert.True(t, got[1].Completed)
		assert.True(t, got[2].CreatedAt.IsZero())
	})
}
