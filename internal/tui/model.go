// Package tui is the interactive Bubble Tea front end. Form visibility and
// drafts live in the shared state.Store; network work runs as tea.Cmds.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/gqltodo/internal/auth"
	"github.com/idilsaglam/gqltodo/internal/model"
	"github.com/idilsaglam/gqltodo/internal/state"
	"github.com/idilsaglam/gqltodo/internal/todos"
	"github.com/idilsaglam/gqltodo/internal/ui"
)

type tab int

const (
	tabTodos tab = iota
	tabProfile
	tabSignIn
	tabSignUp
)

func (t tab) String() string {
	switch t {
	case tabTodos:
		return "Todos"
	case tabProfile:
		return "Profile"
	case tabSignIn:
		return "Sign in"
	case tabSignUp:
		return "Sign up"
	}
	return "?"
}

// Deps is everything the model talks to.
type Deps struct {
	Store    *state.Store
	Todos    *todos.Controller
	Auth     *auth.Service
	Theme    ui.Theme
	Endpoint string
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps
	keys keyMap

	tab  tab
	list list.Model

	count   int
	loaded  bool
	loading bool
	busy    bool

	todoForm *form
	authForm form
	confirm  *model.Todo

	alert  []string // business errors from the last mutation
	errMsg string   // transport or validation failure
	flash  string

	width, height int
}

// New builds the model. The first tab depends on the session in the store.
func New(deps Deps) *Model {
	l := list.New(nil, itemDelegate{theme: deps.Theme}, 80, 16)
	l.Title = "Todos"
	l.Styles.Title = deps.Theme.Title
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("todo", "todos")
	l.FilterInput.Prompt = "/ "
	l.DisableQuitKeybindings()

	m := &Model{deps: deps, keys: defaultKeys(), list: l, width: 80, height: 24}
	if m.signedIn() {
		m.tab = tabTodos
	} else {
		m.setTab(tabSignIn)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.signedIn() {
		m.loading = true
		return m.loadCmd()
	}
	return nil
}

func (m *Model) signedIn() bool { return m.deps.Store.State().Session.Authenticated }

func (m *Model) tabs() []tab {
	if m.signedIn() {
		return []tab{tabTodos, tabProfile}
	}
	return []tab{tabSignIn, tabSignUp}
}

func (m *Model) setTab(t tab) {
	m.tab = t
	m.errMsg, m.alert = "", nil
	switch t {
	case tabSignIn:
		m.authForm = newForm(
			fieldSpec{label: "Email", limit: 254},
			fieldSpec{label: "Password", secret: true, limit: 128},
		)
	case tabSignUp:
		m.authForm = newForm(
			fieldSpec{label: "Username", limit: 64},
			fieldSpec{label: "Email", limit: 254},
			fieldSpec{label: "Password", secret: true, limit: 128},
			fieldSpec{label: "Confirm password", secret: true, limit: 128},
		)
	}
}

func (m *Model) cycleTab(delta int) {
	tabs := m.tabs()
	idx := 0
	for i, t := range tabs {
		if t == m.tab {
			idx = i
		}
	}
	m.setTab(tabs[(idx+delta+len(tabs))%len(tabs)])
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(max(msg.Width-6, 20), max(msg.Height-12, 3))
		return m, nil

	case listingMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.loaded = true
		m.count = msg.listing.Count
		return m, m.list.SetItems(toItems(msg.listing.Todos))

	case mutationMsg:
		m.busy = false
		m.confirm = nil
		m.report(msg.err)
		if msg.err == nil {
			m.flash = "todo " + msg.verb
		}
		m.syncForm()
		return m, nil

	case authMsg:
		return m.handleAuth(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// report routes err to the alert line or the error line.
func (m *Model) report(err error) {
	m.alert, m.errMsg = nil, ""
	if err == nil {
		return
	}
	m.flash = ""
	var pe *todos.PayloadError
	if errors.As(err, &pe) {
		m.alert = pe.Messages
		return
	}
	m.errMsg = err.Error()
}

// syncForm drops the local form once the store closed it.
func (m *Model) syncForm() {
	if m.deps.Store.State().UI.FormMode == state.FormNone {
		m.todoForm = nil
	}
}

func (m *Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.flow == "signout" {
		m.list.SetItems(nil)
		m.loaded, m.count = false, 0
		m.setTab(tabSignIn)
		m.flash = "signed out"
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil
	}
	if msg.err != nil {
		m.report(msg.err)
		return m, nil
	}
	m.setTab(tabTodos)
	m.flash = "signed in"
	m.loading = true
	return m, m.loadCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	if m.confirm != nil {
		switch {
		case key.Matches(msg, m.keys.Yes):
			id := m.confirm.ID
			m.busy = true
			return m, m.deleteCmd(id)
		case key.Matches(msg, m.keys.No):
			m.confirm = nil
		}
		return m, nil
	}
	if m.todoForm != nil {
		return m.handleTodoForm(msg)
	}
	switch m.tab {
	case tabSignIn, tabSignUp:
		return m.handleAuthForm(msg)
	case tabProfile:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.cycleTab(1)
		case key.Matches(msg, m.keys.Prev):
			m.cycleTab(-1)
		case key.Matches(msg, m.keys.SignOut):
			m.busy = true
			return m, m.signOutCmd()
		}
		return m, nil
	}
	return m.handleTodos(msg)
}

func (m *Model) handleTodos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.cycleTab(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.cycleTab(-1)
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.deps.Store.OpenCreateForm()
		m.openTodoForm()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.deps.Store.OpenUpdateForm(t)
			m.openTodoForm()
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.confirm = &t
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadCmd()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m *Model) openTodoForm() {
	draft := m.deps.Store.State().UI
	f := newForm(
		fieldSpec{label: "Title", limit: 200, initial: draft.TitleDraft},
		fieldSpec{label: "Content", limit: 2000, initial: draft.ContentDraft},
	)
	m.todoForm = &f
	m.flash, m.errMsg, m.alert = "", "", nil
}

func (m *Model) handleTodoForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.todoForm
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.deps.Store.Cancel()
		m.todoForm = nil
		m.errMsg, m.alert = "", nil
		return m, nil
	case key.Matches(msg, m.keys.Next, m.keys.Down):
		f.move(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev, m.keys.Up):
		f.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if !f.last() {
			f.move(1)
			return m, nil
		}
		m.busy = true
		m.errMsg, m.alert = "", nil
		return m, m.submitCmd(m.deps.Store.State().UI.FormMode == state.FormUpdate)
	}
	changed, cmd := f.update(msg)
	if changed {
		if f.focus == 0 {
			m.deps.Store.SetTitleDraft(f.value(0))
		} else {
			m.deps.Store.SetContentDraft(f.value(1))
		}
	}
	return m, cmd
}

func (m *Model) handleAuthForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.authForm
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.cycleTab(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.cycleTab(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		f.move(1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		f.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if !f.last() {
			f.move(1)
			return m, nil
		}
		m.busy = true
		m.errMsg, m.alert, m.flash = "", nil, ""
		if m.tab == tabSignIn {
			return m, m.signInCmd(f.value(0), f.value(1))
		}
		return m, m.signUpCmd(auth.SignUpInput{
			Username:             f.value(0),
			Email:                f.value(1),
			Password:             f.value(2),
			PasswordConfirmation: f.value(3),
		})
	}
	_, cmd := f.update(msg)
	return m, cmd
}

func (m *Model) View() string {
	t := m.deps.Theme
	var lines []string
	lines = append(lines, m.tabBar(), "")

	switch m.tab {
	case tabTodos:
		lines = append(lines, m.todosView()...)
	case tabProfile:
		lines = append(lines, m.profileView()...)
	case tabSignIn, tabSignUp:
		lines = append(lines, m.authForm.view(m))
	}

	lines = append(lines, "")
	for _, a := range m.alert {
		lines = append(lines, t.Pending.Render("! "+a))
	}
	if m.errMsg != "" {
		lines = append(lines, t.Error.Render(t.SymFail+" "+m.errMsg))
	}
	if m.flash != "" {
		lines = append(lines, t.Success.Render(t.SymOK+" "+m.flash))
	}
	if m.busy {
		lines = append(lines, t.Pending.Render("working…"))
	}
	lines = append(lines, t.Help.Render(m.helpLine()))
	return ui.Panel(t, lines)
}

func (m *Model) tabBar() string {
	t := m.deps.Theme
	var parts []string
	for _, tb := range m.tabs() {
		if tb == m.tab {
			parts = append(parts, t.Title.Render("["+tb.String()+"]"))
		} else {
			parts = append(parts, t.Muted.Render(" "+tb.String()+" "))
		}
	}
	who := t.Muted.Render("signed out")
	if u := m.deps.Store.State().Session.User; u != nil {
		who = t.Accent.Render(u.Email)
	}
	return strings.Join(parts, " ") + "   " + who
}

func (m *Model) todosView() []string {
	t := m.deps.Theme
	if m.loading && !m.loaded {
		return []string{t.Pending.Render("loading todos…")}
	}
	out := []string{m.list.View(), t.Muted.Render(fmt.Sprintf("%d todos on the server", m.count))}
	if m.todoForm != nil {
		title := "New todo"
		if sel := m.deps.Store.State().UI.SelectedTodo; sel != nil {
			title = "Edit #" + sel.ID
		}
		out = append(out, "", t.Title.Render(title), m.todoForm.view(m))
	}
	if m.confirm != nil {
		out = append(out, "", t.Error.Render(fmt.Sprintf("Delete #%s %q? (y/n)", m.confirm.ID, m.confirm.TitleText())))
	}
	return out
}

func (m *Model) profileView() []string {
	t := m.deps.Theme
	sess := m.deps.Store.State().Session
	if sess.User == nil {
		return []string{t.Muted.Render("no user")}
	}
	out := []string{
		t.Muted.Render("email   ") + sess.User.Email,
		t.Muted.Render("id      ") + sess.User.ID,
	}
	if m.deps.Endpoint != "" {
		out = append(out, t.Muted.Render("server  ")+m.deps.Endpoint)
	}
	return out
}

func (m *Model) helpLine() string {
	switch {
	case m.confirm != nil:
		return "y confirm • n cancel"
	case m.todoForm != nil:
		return "enter next/submit • tab switch field • esc cancel"
	}
	switch m.tab {
	case tabTodos:
		return "a add • e edit • d delete • r refresh • / filter • tab switch • q quit"
	case tabProfile:
		return "s sign out • tab switch • q quit"
	}
	return "enter next/submit • ↑/↓ field • tab switch • esc quit"
}

// Run starts the program in the alternate screen and feeds refetched
// listings back into it.
func Run(deps Deps) error {
	p := tea.NewProgram(New(deps), tea.WithAltScreen())
	unsubscribe := deps.Todos.OnRefetch(func(l todos.Listing, err error) {
		p.Send(listingMsg{listing: l, err: err})
	})
	defer unsubscribe()
	_, err := p.Run()
	return err
}
