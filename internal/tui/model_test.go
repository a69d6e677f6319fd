package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/gqltodo/internal/auth"
	"github.com/idilsaglam/gqltodo/internal/gql"
	"github.com/idilsaglam/gqltodo/internal/gql/gqltest"
	"github.com/idilsaglam/gqltodo/internal/model"
	"github.com/idilsaglam/gqltodo/internal/state"
	"github.com/idilsaglam/gqltodo/internal/todos"
	"github.com/idilsaglam/gqltodo/internal/ui"
)

const listBody = `{"todos":[{"id":"1","title":"Buy milk","content":"2 litres"},{"id":"2","title":"Call mom","content":null}],"todoCount":2}`

type env struct {
	exec  *gqltest.Executor
	store *state.Store
	h     *harness
}

func start(t *testing.T, signedIn bool, configure func(*gqltest.Executor)) *env {
	t.Helper()
	exec := gqltest.New().Respond(gql.Todos, listBody)
	if configure != nil {
		configure(exec)
	}
	client := gqltest.Client(exec)
	store := state.NewStore(state.Initial())
	if signedIn {
		store.SetUser(&model.User{ID: "9", Email: "me@x.y"})
	}
	deps := Deps{
		Store:    store,
		Todos:    todos.New(client, store, todos.ResetOnSuccess),
		Auth:     auth.NewService(client, store, auth.NewVault(t.TempDir(), "")),
		Theme:    ui.ThemeByName("mono"),
		Endpoint: "http://test/graphql",
	}
	return &env{exec: exec, store: store, h: newHarness(New(deps))}
}

func TestStartsOnSignInWhenSignedOut(t *testing.T) {
	e := start(t, false, nil)
	assert.Equal(t, tabSignIn, e.h.model.tab)
	assert.Contains(t, e.h.view(), "[Sign in]")
	assert.Empty(t, e.exec.Calls())

	e.h.press(tea.KeyTab)
	assert.Equal(t, tabSignUp, e.h.model.tab)
	e.h.press(tea.KeyShiftTab)
	assert.Equal(t, tabSignIn, e.h.model.tab)
}

func TestSignInLoadsTodos(t *testing.T) {
	e := start(t, false, func(x *gqltest.Executor) {
		x.Respond(gql.SignInUser, `{"signIn":{"user":{"id":"9","email":"me@x.y"}}}`)
	})
	e.h.typeText("me@x.y")
	e.h.press(tea.KeyEnter)
	e.h.typeText("secret")
	e.h.press(tea.KeyEnter)

	assert.True(t, e.store.State().Session.Authenticated)
	assert.Equal(t, tabTodos, e.h.model.tab)
	assert.Equal(t, []gql.Operation{gql.SignInUser, gql.Todos}, e.exec.Operations())
	v := e.h.view()
	assert.Contains(t, v, "Buy milk")
	assert.Contains(t, v, "me@x.y")
}

func TestSignUpValidationShownInline(t *testing.T) {
	e := start(t, false, nil)
	e.h.press(tea.KeyTab)
	for _, s := range []string{"me", "me@x.y", "secret", "other1"} {
		e.h.typeText(s)
		e.h.press(tea.KeyEnter)
	}
	assert.Empty(t, e.exec.Calls())
	assert.Contains(t, e.h.view(), auth.ErrPasswordMismatch.Error())
}

func TestCreateTodoResetsFormOnSuccess(t *testing.T) {
	e := start(t, true, func(x *gqltest.Executor) {
		x.Respond(gql.CreateTodo, `{"createTodo":{"errors":[],"todo":{"id":"3","title":"Walk dog","content":""}}}`)
	})
	require.True(t, e.h.model.loaded)

	e.h.typeText("a")
	require.NotNil(t, e.h.model.todoForm)
	assert.Equal(t, state.FormCreate, e.store.State().UI.FormMode)

	e.h.typeText("Walk dog")
	assert.Equal(t, "Walk dog", e.store.State().UI.TitleDraft)
	e.h.press(tea.KeyEnter)
	e.h.typeText("now")
	assert.Equal(t, "now", e.store.State().UI.ContentDraft)
	e.h.press(tea.KeyEnter)

	assert.Nil(t, e.h.model.todoForm)
	assert.Equal(t, state.UIState{}, e.store.State().UI)
	assert.Equal(t, []gql.Operation{gql.Todos, gql.CreateTodo, gql.Todos}, e.exec.Operations())
	assert.Contains(t, e.h.view(), "todo created")
}

func TestCreateTodoRejectionShowsAlertAndKeepsForm(t *testing.T) {
	e := start(t, true, func(x *gqltest.Executor) {
		x.Respond(gql.CreateTodo, `{"createTodo":{"errors":["Title has already been taken"],"todo":null}}`)
	})
	e.h.typeText("a")
	e.h.typeText("Buy milk")
	e.h.press(tea.KeyEnter)
	e.h.typeText("2 litres")
	e.h.press(tea.KeyEnter)

	require.NotNil(t, e.h.model.todoForm)
	assert.Equal(t, []string{"Title has already been taken"}, e.h.model.alert)
	assert.Equal(t, "Buy milk", e.store.State().UI.TitleDraft)
	assert.Contains(t, e.h.view(), "! Title has already been taken")
	assert.Equal(t, 1, e.exec.Count(gql.Todos), "no refetch after rejection")
}

func TestCreateEmptyTitleIsLocal(t *testing.T) {
	e := start(t, true, nil)
	e.h.typeText("a")
	e.h.press(tea.KeyEnter)
	e.h.press(tea.KeyEnter)

	assert.Equal(t, 0, e.exec.Count(gql.CreateTodo))
	assert.Equal(t, todos.ErrEmptyTitle.Error(), e.h.model.errMsg)
}

func TestCreateBlankContentIsLocal(t *testing.T) {
	e := start(t, true, nil)
	e.h.typeText("a")
	e.h.typeText("Buy milk")
	e.h.press(tea.KeyEnter)
	e.h.typeText("   ")
	e.h.press(tea.KeyEnter)

	assert.Equal(t, 0, e.exec.Count(gql.CreateTodo))
	assert.Equal(t, todos.ErrEmptyContent.Error(), e.h.model.errMsg)
	require.NotNil(t, e.h.model.todoForm)
	assert.Equal(t, "Buy milk", e.store.State().UI.TitleDraft)
}

func TestEditWithoutContentIsLocal(t *testing.T) {
	e := start(t, true, nil)
	e.h.press(tea.KeyDown)
	e.h.typeText("e")
	sel := e.store.State().UI.SelectedTodo
	require.NotNil(t, sel)
	require.Equal(t, "2", sel.ID)

	e.h.press(tea.KeyEnter)
	e.h.press(tea.KeyEnter)
	assert.Equal(t, 0, e.exec.Count(gql.UpdateTodo))
	assert.Equal(t, todos.ErrEmptyContent.Error(), e.h.model.errMsg)
	assert.Equal(t, state.FormUpdate, e.store.State().UI.FormMode)
}

func TestEscCancelsForm(t *testing.T) {
	e := start(t, true, nil)
	e.h.typeText("a")
	e.h.typeText("draft")
	e.h.press(tea.KeyEsc)

	assert.Nil(t, e.h.model.todoForm)
	assert.Equal(t, state.UIState{}, e.store.State().UI)
}

func TestEditSeedsDraftsFromSelection(t *testing.T) {
	e := start(t, true, func(x *gqltest.Executor) {
		x.Respond(gql.UpdateTodo, `{"updateTodo":{"errors":[],"todo":{"id":"1","title":"Buy oat milk","content":"2 litres"}}}`)
	})
	e.h.typeText("e")

	draft := e.store.State().UI
	assert.Equal(t, state.FormUpdate, draft.FormMode)
	require.NotNil(t, draft.SelectedTodo)
	assert.Equal(t, "1", draft.SelectedTodo.ID)
	assert.Equal(t, "Buy milk", draft.TitleDraft)
	assert.Equal(t, "2 litres", draft.ContentDraft)
	assert.Contains(t, e.h.view(), "Edit #1")

	e.h.press(tea.KeyEnter)
	e.h.press(tea.KeyEnter)
	assert.Equal(t, 1, e.exec.Count(gql.UpdateTodo))
	assert.Equal(t, state.FormNone, e.store.State().UI.FormMode)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	e := start(t, true, func(x *gqltest.Executor) {
		x.Respond(gql.DeleteTodo, `{"deleteTodo":{"errors":[],"todo":{"id":"1","title":"Buy milk","content":null}}}`)
	})
	e.h.typeText("d")
	require.NotNil(t, e.h.model.confirm)
	assert.Contains(t, e.h.view(), "(y/n)")

	e.h.typeText("n")
	assert.Nil(t, e.h.model.confirm)
	assert.Equal(t, 0, e.exec.Count(gql.DeleteTodo))

	e.h.typeText("d")
	e.h.typeText("y")
	assert.Equal(t, 1, e.exec.Count(gql.DeleteTodo))
	assert.Equal(t, 2, e.exec.Count(gql.Todos))
	assert.Contains(t, e.h.view(), "todo deleted")
}

func TestLoadFailureShowsError(t *testing.T) {
	e := start(t, true, func(x *gqltest.Executor) {
		x.Fail(gql.Todos, errors.New("connection refused"))
	})
	assert.False(t, e.h.model.loaded)
	assert.Contains(t, e.h.view(), "connection refused")

	e.exec.Respond(gql.Todos, listBody)
	e.h.typeText("r")
	assert.True(t, e.h.model.loaded)
	assert.Equal(t, 2, e.h.model.count)
}

func TestProfileSignOut(t *testing.T) {
	e := start(t, true, func(x *gqltest.Executor) {
		x.Respond(gql.SignOutUser, `{"signOut":{"success":true}}`)
	})
	e.h.press(tea.KeyTab)
	assert.Equal(t, tabProfile, e.h.model.tab)
	assert.Contains(t, e.h.view(), "http://test/graphql")

	e.h.typeText("s")
	assert.False(t, e.store.State().Session.Authenticated)
	assert.Equal(t, tabSignIn, e.h.model.tab)
	assert.Contains(t, e.h.view(), "signed out")
}

func TestQuit(t *testing.T) {
	e := start(t, true, nil)
	e.h.typeText("q")
	assert.True(t, e.h.quit)
}
