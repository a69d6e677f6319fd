package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is an ordered set of text inputs with one focused field.
type form struct {
	fields []textinput.Model
	labels []string
	focus  int
}

type fieldSpec struct {
	label   string
	secret  bool
	limit   int
	initial string
}

func newForm(specs ...fieldSpec) form {
	f := form{}
	for _, s := range specs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = s.label
		ti.CharLimit = s.limit
		ti.Cursor.SetMode(cursor.CursorStatic)
		if s.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(s.initial)
		ti.CursorEnd()
		f.fields = append(f.fields, ti)
		f.labels = append(f.labels, s.label)
	}
	if len(f.fields) > 0 {
		f.fields[0].Focus()
	}
	return f
}

func (f *form) value(i int) string { return f.fields[i].Value() }

func (f *form) last() bool { return f.focus == len(f.fields)-1 }

func (f *form) move(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].Focus()
}

// update forwards msg to the focused input and reports whether its value
// changed.
func (f *form) update(msg tea.Msg) (bool, tea.Cmd) {
	if len(f.fields) == 0 {
		return false, nil
	}
	before := f.fields[f.focus].Value()
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return before != f.fields[f.focus].Value(), cmd
}

func (f *form) view(m *Model) string {
	var b strings.Builder
	for i, ti := range f.fields {
		label := m.deps.Theme.Muted.Render(f.labels[i])
		if i == f.focus {
			label = m.deps.Theme.Accent.Render(f.labels[i])
		}
		b.WriteString(label + "\n" + ti.View() + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
