package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/form"
)

// formView renders a form.Schema. Text-like fields get a text input; select
// fields cycle with left/right and checkboxes flip with space.
type formView struct {
	form   *form.Form
	inputs []textinput.Model
	focus  int
	ack    string
	width  int
}

func newFormView(s *form.Schema) formView {
	v := formView{form: form.New(s)}
	for _, f := range s.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 120
		v.inputs = append(v.inputs, ti)
	}
	v.focusOn(0)
	return v
}

func (v formView) fields() []form.Field { return v.form.Schema().Fields }

func (v formView) current() form.Field { return v.fields()[v.focus] }

func usesInput(f form.Field) bool {
	return f.Kind != form.KindSelect && f.Kind != form.KindCheckbox
}

// focusOn moves keyboard focus to field i, wrapping around.
func (v *formView) focusOn(i int) tea.Cmd {
	n := len(v.inputs)
	if n == 0 {
		return nil
	}
	v.focus = (i%n + n) % n
	var cmd tea.Cmd
	for j := range v.inputs {
		if j == v.focus && usesInput(v.fields()[j]) {
			cmd = v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	return cmd
}

func (v *formView) setWidth(w int) {
	v.width = w
	for i := range v.inputs {
		v.inputs[i].Width = w - 6
	}
}

func (v formView) Update(msg tea.Msg) (formView, tea.Cmd) {
	if len(v.inputs) == 0 {
		return v, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		return v, cmd
	}

	f := v.current()
	switch km.String() {
	case "tab", "down":
		return v, v.focusOn(v.focus + 1)
	case "shift+tab", "up":
		return v, v.focusOn(v.focus - 1)
	case "ctrl+s":
		return v.submit()
	case "enter":
		if v.focus == len(v.inputs)-1 {
			return v.submit()
		}
		return v, v.focusOn(v.focus + 1)
	}

	switch f.Kind {
	case form.KindSelect:
		switch km.String() {
		case "left", "h":
			v.form.Set(f.Name, cycleOption(f.Options, v.form.Value(f.Name), -1))
		case "right", "l", " ":
			v.form.Set(f.Name, cycleOption(f.Options, v.form.Value(f.Name), 1))
		}
		return v, nil
	case form.KindCheckbox:
		if km.String() == " " || km.String() == "x" {
			if form.Checked(v.form.Value(f.Name)) {
				v.form.Set(f.Name, "")
			} else {
				v.form.Set(f.Name, "true")
			}
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	v.form.Set(f.Name, v.inputs[v.focus].Value())
	v.ack = ""
	return v, cmd
}

// cycleOption steps through "" followed by options.
func cycleOption(options []string, cur string, step int) string {
	all := append([]string{""}, options...)
	idx := 0
	for i, o := range all {
		if o == cur {
			idx = i
			break
		}
	}
	n := len(all)
	return all[((idx+step)%n+n)%n]
}

func (v formView) submit() (formView, tea.Cmd) {
	if _, errs := v.form.Submit(); len(errs) > 0 {
		v.ack = ""
		for i, f := range v.fields() {
			if _, bad := errs[f.Name]; bad {
				return v, v.focusOn(i)
			}
		}
		return v, nil
	}
	for i := range v.inputs {
		v.inputs[i].SetValue("")
	}
	v.ack = "Form submitted"
	return v, v.focusOn(0)
}

func (v formView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.form.Schema().Title))
	b.WriteString("\n\n")
	errs := v.form.Errors()
	for i, f := range v.fields() {
		marker := "  "
		if i == v.focus {
			marker = selectedStyle.Render("> ")
		}
		label := f.Label
		if f.Required() {
			label += " *"
		}
		b.WriteString(marker + labelStyle.Render(label) + "\n")
		b.WriteString("  " + v.fieldView(i, f) + "\n")
		if msg, bad := errs[f.Name]; bad {
			b.WriteString("  " + errorStyle.Render(msg) + "\n")
		}
	}
	if v.ack != "" {
		b.WriteString("\n" + successStyle.Render("✔ "+v.ack) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab/↑/↓ move • ←/→ choose • space tick • ctrl+s submit • esc back"))
	return b.String()
}

func (v formView) fieldView(i int, f form.Field) string {
	val := v.form.Value(f.Name)
	switch f.Kind {
	case form.KindSelect:
		if val == "" {
			val = mutedStyle.Render("(none)")
		}
		return fmt.Sprintf("‹ %s ›  %s", val, mutedStyle.Render(strings.Join(f.Options, " / ")))
	case form.KindCheckbox:
		if form.Checked(val) {
			return successStyle.Render(boxChecked)
		}
		return mutedStyle.Render(boxUnchecked)
	case form.KindMultiSelect:
		return v.inputs[i].View() + "  " + mutedStyle.Render(strings.Join(f.Options, ", "))
	}
	return v.inputs[i].View()
}
