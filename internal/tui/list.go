package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/tada/internal/adapter"
	"github.com/idilsaglam/tada/internal/model"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	it model.Item
}

func (i listItem) FilterValue() string { return i.it.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, ok := item.(listItem)
	if !ok {
		return
	}
	stamp := ""
	if !li.it.CreatedAt.IsZero() {
		stamp = li.it.CreatedAt.Local().Format("Jan 02 15:04")
	}

	// prefix(2) + box(1) + spaces(2) + stamp
	room := m.Width() - 5 - len(stamp) - 2
	if room < 8 {
		room = 8
	}
	text := ansi.Truncate(li.it.Title, room, "...")

	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := text
	if li.it.Completed {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s", boxStyled, textStyled)
	if stamp != "" {
		line += "  " + mutedStyle.Render(stamp)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type listKeys struct {
	add, edit, toggle, remove, undo, clear, store key.Binding
}

func newListKeys() listKeys {
	return listKeys{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear done")),
		store:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "switch store")),
	}
}

func (k listKeys) bindings() []key.Binding {
	return []key.Binding{k.add, k.edit, k.toggle, k.remove, k.undo, k.clear, k.store}
}

// listView is the todo tab. It never keeps its own copy of the truth: after
// every operation it re-reads the active store through the adapter.
type listView struct {
	store *adapter.Adapter
	list  list.Model
	keys  listKeys

	// Inline add / edit share one text input
	adding   bool
	editing  bool
	editID   string
	ti       textinput.Model
	inputErr string

	// Undo support (single-level). A restored item goes to the end.
	undoItem *model.Item

	status string
}

func newListView(a *adapter.Adapter) listView {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	// quitting is the shell's decision
	l.KeyMap.Quit.SetEnabled(false)

	keys := newListKeys()
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	v := listView{store: a, list: l, keys: keys, ti: ti}
	v.refresh()
	return v
}

// refresh reloads the list from the active store, keeping the cursor on the
// same position where possible.
func (v *listView) refresh() tea.Cmd {
	items := v.store.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it: it})
	}
	idx := v.list.Index()
	cmd := v.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		v.list.Select(idx)
	}
	return cmd
}

func (v *listView) setSize(w, h int) {
	// header (2 lines) + status + optional input bar (4)
	listHeight := h - 3
	if v.adding || v.editing {
		listHeight -= 4
	}
	if listHeight < 3 {
		listHeight = 3
	}
	v.list.SetSize(w, listHeight)
	v.ti.Width = w - 6
}

// capturing reports whether keys currently belong to a text field.
func (v listView) capturing() bool {
	return v.adding || v.editing || v.list.SettingFilter()
}

func (v listView) selected() (model.Item, bool) {
	li, ok := v.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.it, true
}

func (v listView) Update(msg tea.Msg) (listView, tea.Cmd) {
	if v.adding || v.editing {
		return v.updateInput(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && !v.list.SettingFilter() {
		switch {
		case key.Matches(km, v.keys.toggle):
			if it, ok := v.selected(); ok {
				v.store.Toggle(it.ID)
				return v, v.refresh()
			}
			return v, nil
		case key.Matches(km, v.keys.remove):
			if it, ok := v.selected(); ok {
				v.store.Remove(it.ID)
				v.undoItem = &it
				v.status = "Deleted " + it.Title + " (u to undo)"
				return v, v.refresh()
			}
			return v, nil
		case key.Matches(km, v.keys.undo):
			if v.undoItem == nil {
				v.status = "Nothing to undo"
				return v, nil
			}
			it := *v.undoItem
			v.undoItem = nil
			v.store.Add(it.Title)
			if it.Completed {
				if items := v.store.Items(); len(items) > 0 {
					v.store.Toggle(items[len(items)-1].ID)
				}
			}
			v.status = "Restored " + it.Title
			cmd := v.refresh()
			v.list.Select(len(v.list.Items()) - 1)
			return v, cmd
		case key.Matches(km, v.keys.add):
			v.adding = true
			v.inputErr = ""
			v.ti.SetValue("")
			v.ti.Placeholder = "New item title..."
			return v, v.ti.Focus()
		case key.Matches(km, v.keys.edit):
			if it, ok := v.selected(); ok {
				v.editing = true
				v.editID = it.ID
				v.inputErr = ""
				v.ti.SetValue(it.Title)
				v.ti.CursorEnd()
				v.ti.Placeholder = "Edit item title..."
				return v, v.ti.Focus()
			}
			return v, nil
		case key.Matches(km, v.keys.clear):
			done, _ := v.store.Stats()
			if done == 0 {
				v.status = "Nothing completed to clear"
				return v, nil
			}
			v.store.ClearCompleted()
			v.status = fmt.Sprintf("Cleared %d completed", done)
			return v, v.refresh()
		case key.Matches(km, v.keys.store):
			next := v.store.Cycle()
			v.undoItem = nil
			v.status = "Switched to " + next.Label()
			v.list.ResetFilter()
			return v, v.refresh()
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v listView) updateInput(msg tea.Msg) (listView, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			title := strings.TrimSpace(v.ti.Value())
			if title == "" {
				v.inputErr = "Title cannot be empty"
				return v, nil
			}
			added := v.adding
			if added {
				v.store.Add(title)
				v.status = "Added " + title
				v.list.ResetFilter()
			} else {
				v.store.Update(v.editID, title)
				v.status = "Updated " + title
			}
			v.closeInput()
			cmd := v.refresh()
			if added {
				v.list.Select(len(v.list.Items()) - 1)
			}
			return v, cmd
		case "esc":
			v.closeInput()
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.ti, cmd = v.ti.Update(msg)
	return v, cmd
}

func (v *listView) closeInput() {
	v.adding = false
	v.editing = false
	v.editID = ""
	v.inputErr = ""
	v.ti.SetValue("")
	v.ti.Blur()
}

func (v listView) header() string {
	done, pending := v.store.Stats()
	head := fmt.Sprintf("%s %s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		accentStyle.Render("["+v.store.Active().Label()+"]"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), done+pending,
	)
	return head + "\n" + mutedStyle.Render(progressBar(done, done+pending, 28))
}

func (v listView) View() string {
	var b strings.Builder
	b.WriteString(v.header())
	b.WriteString("\n")
	if len(v.list.Items()) == 0 {
		b.WriteString(mutedStyle.Render("no items - press a to add one"))
		b.WriteString("\n")
	}
	b.WriteString(v.list.View())
	if v.adding || v.editing {
		title := "Add new item"
		if v.editing {
			title = "Edit item"
		}
		if v.inputErr != "" {
			title += " - " + errorStyle.Render(v.inputErr)
		}
		b.WriteString("\n")
		b.WriteString(panelString(title + "\n" + v.ti.View()))
	}
	if v.status != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(v.status))
	}
	return b.String()
}
