package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/adapter"
	"github.com/idilsaglam/tada/internal/form"
	"github.com/idilsaglam/tada/internal/store"
)

func newModel(t *testing.T) (Model, *adapter.Adapter) {
	t.Helper()
	a, err := adapter.Build(context.Background(), nil, adapter.Options{Log: zerolog.Nop()})
	require.NoError(t, err)
	s, err := form.DefaultSchema()
	require.NoError(t, err)
	m := New(a, s, zerolog.Nop())
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}), a
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	tabK  = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	right = tea.KeyMsg{Type: tea.KeyRight}
	ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	ctrlT = tea.KeyMsg{Type: tea.KeyCtrlT}
)

func addItem(t *testing.T, m Model, title string) Model {
	t.Helper()
	return send(t, m, runes("a"), runes(title), enter)
}

func TestAddToggleEditDelete(t *testing.T) {
	m, a := newModel(t)

	m = addItem(t, m, "Buy milk")
	m = addItem(t, m, "Walk dog")
	require.Len(t, a.Items(), 2)
	assert.Equal(t, "Walk dog", a.Items()[1].Title)
	assert.False(t, m.list.adding)

	// cursor sits on the newest item
	m = send(t, m, space)
	assert.True(t, a.Items()[1].Completed)
	assert.Contains(t, m.View(), "✔")

	m = send(t, m, runes("e"), tea.KeyMsg{Type: tea.KeyCtrlU}, runes("Walk cat"), enter)
	assert.Equal(t, "Walk cat", a.Items()[1].Title)

	m = send(t, m, runes("d"))
	require.Len(t, a.Items(), 1)
	assert.Equal(t, "Buy milk", a.Items()[0].Title)
}

func TestUndoDelete(t *testing.T) {
	m, a := newModel(t)
	m = send(t, m, runes("u"))
	assert.Equal(t, "Nothing to undo", m.list.status)

	m = addItem(t, m, "keep")
	m = addItem(t, m, "oops")
	m = send(t, m, space, runes("d"))
	require.Len(t, a.Items(), 1)

	m = send(t, m, runes("u"))
	items := a.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "oops", items[1].Title)
	assert.True(t, items[1].Completed)
	assert.Equal(t, "Restored oops", m.list.status)

	// single level only
	m = send(t, m, runes("u"))
	assert.Len(t, a.Items(), 2)
	assert.Equal(t, "Nothing to undo", m.list.status)
}

func TestUndoForgottenAfterStoreSwitch(t *testing.T) {
	m, a := newModel(t)
	m = addItem(t, m, "gone")
	m = send(t, m, runes("d"), runes("s"), runes("u"))
	assert.Equal(t, store.Provider, a.Active())
	assert.Empty(t, a.Items())
	assert.Equal(t, "Nothing to undo", m.list.status)
}

func TestEmptyTitleShowsInlineError(t *testing.T) {
	m, a := newModel(t)
	m = send(t, m, runes("a"), runes("   "), enter)
	assert.True(t, m.list.adding)
	assert.Equal(t, "Title cannot be empty", m.list.inputErr)
	assert.Contains(t, m.View(), "Title cannot be empty")
	assert.Empty(t, a.Items())

	m = send(t, m, esc)
	assert.False(t, m.list.adding)
}

func TestClearCompletedKey(t *testing.T) {
	m, a := newModel(t)
	m = addItem(t, m, "one")
	m = addItem(t, m, "two")
	m = send(t, m, space, runes("c"))
	require.Len(t, a.Items(), 1)
	assert.Equal(t, "one", a.Items()[0].Title)
	assert.Equal(t, "Cleared 1 completed", m.list.status)

	m = send(t, m, runes("c"))
	assert.Equal(t, "Nothing completed to clear", m.list.status)
}

func TestSwitchStoreKeepsCollectionsApart(t *testing.T) {
	m, a := newModel(t)
	m = addItem(t, m, "observable only")

	m = send(t, m, runes("s"))
	assert.Equal(t, store.Provider, a.Active())
	assert.Empty(t, m.list.list.Items())
	assert.Contains(t, m.View(), "Context Provider")

	m = send(t, m, runes("s"), runes("s"))
	assert.Equal(t, store.Observable, a.Active())
	assert.Len(t, m.list.list.Items(), 1)
}

func TestTabSwitching(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, tabK)
	assert.Equal(t, tabForm, m.tab)
	assert.Contains(t, m.View(), "Form example")

	// letters go to the form, not the list shortcuts
	m = send(t, m, runes("q"))
	assert.Equal(t, tabForm, m.tab)
	assert.Equal(t, "q", m.form.form.Value("username"))

	m = send(t, m, esc)
	assert.Equal(t, tabList, m.tab)
	m = send(t, m, ctrlT)
	assert.Equal(t, tabForm, m.tab)
}

func TestTabKeyWhileAddingStaysOnList(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, runes("a"), tabK)
	assert.Equal(t, tabList, m.tab)
	assert.True(t, m.list.adding)
}

func TestFormSubmitFlow(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, ctrlT)

	m = send(t, m, ctrlS)
	errs := m.form.form.Errors()
	assert.Equal(t, "Please enter a username", errs["username"])
	assert.Contains(t, m.View(), "Please enter a phone number")
	assert.Equal(t, 0, m.form.focus, "focus jumps to the first bad field")

	m = send(t, m, runes("Li Lei"), tabK, runes("lilei@example.com"), tabK, runes("13800138000"))
	// age, city, interests, start, end
	m = send(t, m, tabK, tabK, right, tabK, tabK, tabK, tabK)
	assert.Equal(t, "Beijing", m.form.form.Value("city"))
	require.Equal(t, "agree", m.form.current().Name)
	m = send(t, m, space)
	assert.Equal(t, "true", m.form.form.Value("agree"))

	m = send(t, m, enter)
	assert.Empty(t, m.form.form.Errors())
	assert.Equal(t, "Form submitted", m.form.ack)
	assert.Empty(t, m.form.form.Value("username"))
	assert.Empty(t, m.form.inputs[0].Value())
	assert.Equal(t, 0, m.form.focus)
}

func TestFormEnterAdvances(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, ctrlT, enter, down)
	assert.Equal(t, 2, m.form.focus)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewShowsHeaderCounts(t *testing.T) {
	m, _ := newModel(t)
	m = addItem(t, m, "a")
	m = addItem(t, m, "b")
	m = send(t, m, space)
	view := m.View()
	assert.Contains(t, view, "Todo List")
	assert.True(t, strings.Contains(view, "1/2"), "progress bar shows done/total")
}

func TestCycleOption(t *testing.T) {
	opts := []string{"a", "b"}
	assert.Equal(t, "a", cycleOption(opts, "", 1))
	assert.Equal(t, "b", cycleOption(opts, "a", 1))
	assert.Equal(t, "", cycleOption(opts, "b", 1))
	assert.Equal(t, "b", cycleOption(opts, "", -1))
}
