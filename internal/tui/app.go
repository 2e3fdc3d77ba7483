// Package tui is the terminal shell: a tab bar over the todo list and the
// form example, both driven by Bubble Tea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/tada/internal/adapter"
	"github.com/idilsaglam/tada/internal/form"
)

type tab int

const (
	tabList tab = iota
	tabForm
)

var tabNames = []string{"Todo List", "Form example"}

// Model is the root Bubble Tea model.
type Model struct {
	tab    tab
	list   listView
	form   formView
	width  int
	height int
	log    zerolog.Logger
}

func New(a *adapter.Adapter, s *form.Schema, log zerolog.Logger) Model {
	return Model{
		list: newListView(a),
		form: newFormView(s),
		log:  log,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(a *adapter.Adapter, s *form.Schema, log zerolog.Logger) error {
	p := tea.NewProgram(New(a, s, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			return m.switchTab(), nil
		}
		if m.tab == tabList && !m.list.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "tab", "shift+tab":
				return m.switchTab(), nil
			}
		}
		if m.tab == tabForm && msg.String() == "esc" {
			return m.switchTab(), nil
		}
	}

	var cmd tea.Cmd
	switch m.tab {
	case tabForm:
		m.form, cmd = m.form.Update(msg)
	default:
		wasEditing := m.list.adding || m.list.editing
		m.list, cmd = m.list.Update(msg)
		if wasEditing != (m.list.adding || m.list.editing) {
			m.resize()
		}
	}
	return m, cmd
}

func (m Model) switchTab() Model {
	if m.tab == tabList {
		m.tab = tabForm
	} else {
		m.tab = tabList
	}
	m.log.Debug().Str("tab", tabNames[m.tab]).Msg("switch tab")
	return m
}

// resize hands the inner area (minus border, padding and tab bar) to the
// views.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	w, h := m.width-4, m.height-4
	m.list.setSize(w, h)
	m.form.setWidth(w)
}

func (m Model) tabBar() string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.tab {
			parts = append(parts, activeTabStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	return strings.Join(parts, " ") + "  " + helpStyle.Render("ctrl+t switch")
}

func (m Model) View() string {
	var content string
	if m.tab == tabForm {
		content = m.form.View()
	} else {
		content = m.list.View()
	}
	return panelString(m.tabBar() + "\n\n" + content)
}
