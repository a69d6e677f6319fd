package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/gqltodo/internal/auth"
	"github.com/idilsaglam/gqltodo/internal/model"
	"github.com/idilsaglam/gqltodo/internal/todos"
)

// listingMsg carries a loaded or refetched Todos query.
type listingMsg struct {
	listing todos.Listing
	err     error
}

// mutationMsg reports a finished todo mutation.
type mutationMsg struct {
	verb string
	todo *model.Todo
	err  error
}

// authMsg reports a finished sign-in, sign-up or sign-out.
type authMsg struct {
	flow string
	err  error
}

func (m *Model) loadCmd() tea.Cmd {
	ctrl := m.deps.Todos
	return func() tea.Msg {
		l, err := ctrl.Load(context.Background())
		return listingMsg{listing: l, err: err}
	}
}

func (m *Model) submitCmd(update bool) tea.Cmd {
	ctrl := m.deps.Todos
	return func() tea.Msg {
		if update {
			t, err := ctrl.SubmitUpdate(context.Background())
			return mutationMsg{verb: "updated", todo: t, err: err}
		}
		t, err := ctrl.SubmitCreate(context.Background())
		return mutationMsg{verb: "created", todo: t, err: err}
	}
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	ctrl := m.deps.Todos
	return func() tea.Msg {
		t, err := ctrl.Delete(context.Background(), id)
		return mutationMsg{verb: "deleted", todo: t, err: err}
	}
}

func (m *Model) signInCmd(email, password string) tea.Cmd {
	svc := m.deps.Auth
	return func() tea.Msg {
		return authMsg{flow: "signin", err: svc.SignIn(context.Background(), email, password)}
	}
}

func (m *Model) signUpCmd(in auth.SignUpInput) tea.Cmd {
	svc := m.deps.Auth
	return func() tea.Msg {
		return authMsg{flow: "signup", err: svc.SignUp(context.Background(), in)}
	}
}

func (m *Model) signOutCmd() tea.Cmd {
	svc := m.deps.Auth
	return func() tea.Msg {
		return authMsg{flow: "signout", err: svc.SignOut(context.Background())}
	}
}
