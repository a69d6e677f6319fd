package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/gqltodo/internal/model"
	"github.com/idilsaglam/gqltodo/internal/ui"
)

// todoItem adapts model.Todo to list.Item.
type todoItem struct {
	todo model.Todo
}

func (i todoItem) Title() string       { return i.todo.TitleText() }
func (i todoItem) Description() string { return i.todo.ContentText() }
func (i todoItem) FilterValue() string { return i.todo.TitleText() + " " + i.todo.ContentText() }

func toItems(todos []model.Todo) []list.Item {
	out := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		out = append(out, todoItem{todo: t})
	}
	return out
}

// itemDelegate renders one todo per line: id, title and a muted content hint.
type itemDelegate struct {
	theme ui.Theme
}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	title := it.todo.TitleText()
	if strings.TrimSpace(title) == "" {
		title = d.theme.Muted.Render("(untitled)")
	}
	line := fmt.Sprintf("%s %s", d.theme.Muted.Render("#"+it.todo.ID), title)
	if c := ui.SingleLine(it.todo.ContentText()); c != "" {
		line += "  " + d.theme.Muted.Render(c)
	}
	if width := m.Width() - 2; width > 0 {
		line = ui.Fit(line, width)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.theme.Selected.Render(d.theme.Cursor) + " "
		line = lipgloss.NewStyle().Bold(true).Render(line)
	}
	fmt.Fprint(w, prefix+line)
}
