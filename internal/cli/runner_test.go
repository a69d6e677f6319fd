package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/gqltodo/internal/app"
	"github.com/idilsaglam/gqltodo/internal/auth"
	"github.com/idilsaglam/gqltodo/internal/config"
	"github.com/idilsaglam/gqltodo/internal/gql"
	"github.com/idilsaglam/gqltodo/internal/gql/gqltest"
	"github.com/idilsaglam/gqltodo/internal/logging"
	"github.com/idilsaglam/gqltodo/internal/model"
	"github.com/idilsaglam/gqltodo/internal/tui"
)

const listBody = `{"todos":[{"id":"1","title":"Buy milk","content":"2 litres"},{"id":"2","title":"Call mom","content":null},{"id":"3","title":"Pay rent","content":"before friday"}],"todoCount":3}`

type cliEnv struct {
	exec     *gqltest.Executor
	app      *app.App
	out, err bytes.Buffer
	input    string
	password []string
	uiRan    bool
}

func newEnv(t *testing.T) *cliEnv {
	t.Helper()
	logging.SetOutput(io.Discard)
	t.Cleanup(func() { logging.SetOutput(nil) })
	cfg := config.Defaults(map[string]string{"HOME": t.TempDir()})
	cfg.CredentialsDir = t.TempDir()
	cfg.Theme = "mono"
	exec := gqltest.New().Respond(gql.Todos, listBody)
	a, err := app.New(cfg, app.WithExecutor(exec), app.WithSpawner(gqltest.SyncSpawner))
	require.NoError(t, err)
	return &cliEnv{exec: exec, app: a}
}

func (e *cliEnv) run(args ...string) int {
	e.out.Reset()
	e.err.Reset()
	return Run(args, Options{
		App: e.app,
		In:  strings.NewReader(e.input),
		Out: &e.out,
		Err: &e.err,
		ReadPassword: func(string) (string, error) {
			if len(e.password) == 0 {
				return "", errors.New("no password")
			}
			p := e.password[0]
			e.password = e.password[1:]
			return p, nil
		},
		Interactive: func() bool { return true },
		RunUI: func(tui.Deps) error {
			e.uiRan = true
			return nil
		},
	})
}

func TestHelpAndUnknown(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, exitUsage, e.run())
	assert.Contains(t, e.out.String(), "Subcommands:")

	assert.Equal(t, exitOK, e.run("help"))
	assert.Equal(t, exitUsage, e.run("frobnicate"))
	assert.Contains(t, e.err.String(), "unknown subcommand: frobnicate")
}

func TestRunWithoutApp(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"ls"}, Options{Out: &out, Err: &errOut})
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut.String(), "client not configured")
}

func TestList(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, exitOK, e.run("ls"))
	out := e.out.String()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Call mom")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "2 litres")
}

func TestListFiltered(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, exitOK, e.run("ls", "milk"))
	out := e.out.String()
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "Call mom")

	require.Equal(t, exitOK, e.run("ls", "zzzz"))
	assert.Contains(t, e.out.String(), "no todos match zzzz")
}

func TestListTransportError(t *testing.T) {
	e := newEnv(t)
	e.exec.Fail(gql.Todos, errors.New("connection refused"))
	assert.Equal(t, exitError, e.run("ls"))
	assert.Contains(t, e.err.String(), "connection refused")
	assert.Contains(t, e.err.String(), "Hint:")
}

func TestFilterTodosKeepsServerOrder(t *testing.T) {
	items := []model.Todo{
		{ID: "1", Title: model.StringPtr("read book")},
		{ID: "2", Title: model.StringPtr("write")},
		{ID: "3", Title: model.StringPtr("buy bread"), Content: model.StringPtr("rye")},
	}
	got := filterTodos(items, "rd")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Equal(t, items, filterTodos(items, ""))
}

func TestAdd(t *testing.T) {
	e := newEnv(t)
	e.exec.Respond(gql.CreateTodo, `{"createTodo":{"errors":[],"todo":{"id":"4","title":"Buy milk now","content":"2 l"}}}`)

	require.Equal(t, exitOK, e.run("add", "Buy", "-c", "2 l", "milk", "now"))
	assert.Contains(t, e.out.String(), "added #4 Buy milk now")

	calls := e.exec.Calls()
	require.Equal(t, gql.CreateTodo, calls[0].Operation)
	input := calls[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "Buy milk now", input["title"])
	assert.Equal(t, "2 l", input["content"])
	assert.Equal(t, "", e.app.Store.State().UI.TitleDraft)
}

func TestAddUsageAndValidation(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, exitUsage, e.run("add"))
	assert.Equal(t, exitUsage, e.run("add", "   "))
	assert.Contains(t, e.err.String(), "title is required")
	assert.Equal(t, exitUsage, e.run("add", "Buy", "milk", "-c", "   "))
	assert.Equal(t, exitUsage, e.run("add", "Buy", "milk"))
	assert.Contains(t, e.err.String(), "content is required")
	assert.Empty(t, e.exec.Calls())
}

func TestAddRejected(t *testing.T) {
	e := newEnv(t)
	e.exec.Respond(gql.CreateTodo, `{"createTodo":{"errors":["Title is too long","Content is invalid"],"todo":null}}`)
	assert.Equal(t, exitError, e.run("add", "x", "-c", "y"))
	assert.Contains(t, e.err.String(), "add: Title is too long")
	assert.Contains(t, e.err.String(), "add: Content is invalid")
}

func TestEdit(t *testing.T) {
	e := newEnv(t)
	e.exec.Respond(gql.UpdateTodo, `{"updateTodo":{"errors":[],"todo":{"id":"3","title":"Pay rent now","content":"before friday"}}}`)

	require.Equal(t, exitOK, e.run("edit", "3", "-t", "Pay rent now"))
	assert.Contains(t, e.out.String(), "updated #3 Pay rent now")

	var update gql.Request
	for _, c := range e.exec.Calls() {
		if c.Operation == gql.UpdateTodo {
			update = c
		}
	}
	input := update.Variables["input"].(map[string]interface{})
	assert.Equal(t, int64(3), input["id"])
	assert.Equal(t, "Pay rent now", input["title"])
	assert.Equal(t, "before friday", input["content"], "content keeps its current value")
}

func TestEditTodoWithoutContentNeedsContent(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, exitUsage, e.run("edit", "2", "-t", "Call dad"))
	assert.Contains(t, e.err.String(), "content is required")
	assert.Equal(t, 0, e.exec.Count(gql.UpdateTodo))
}

func TestEditErrors(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, exitUsage, e.run("edit"))
	assert.Equal(t, exitUsage, e.run("edit", "2"))
	assert.Equal(t, exitUsage, e.run("edit", "99", "-t", "x"))
	assert.Contains(t, e.err.String(), "no todo with id 99")
	assert.Equal(t, 0, e.exec.Count(gql.UpdateTodo))
}

func TestRemoveConfirmation(t *testing.T) {
	e := newEnv(t)
	e.exec.Respond(gql.DeleteTodo, `{"deleteTodo":{"errors":[],"todo":{"id":"1","title":"Buy milk","content":null}}}`)

	e.input = "n\n"
	assert.Equal(t, exitOK, e.run("rm", "1"))
	assert.Contains(t, e.out.String(), "cancelled")
	assert.Equal(t, 0, e.exec.Count(gql.DeleteTodo))

	e.input = "y\n"
	assert.Equal(t, exitOK, e.run("rm", "1"))
	assert.Contains(t, e.out.String(), "removed #1 Buy milk")

	e.input = ""
	assert.Equal(t, exitOK, e.run("rm", "-y", "1"))
	assert.Equal(t, 2, e.exec.Count(gql.DeleteTodo))
}

func TestSignInFlow(t *testing.T) {
	e := newEnv(t)
	e.exec.Respond(gql.SignInUser, `{"signIn":{"user":{"id":"9","email":"me@x.y"}}}`).
		RespondHeader(gql.SignInUser, "Authorization", "Bearer opaque-token")

	assert.Equal(t, exitUsage, e.run("whoami"))

	e.password = []string{"secret"}
	require.Equal(t, exitOK, e.run("signin", "me@x.y"))
	assert.Contains(t, e.out.String(), "signed in as me@x.y")
	assert.Equal(t, "opaque-token", e.app.Vault.Token())

	require.Equal(t, exitOK, e.run("whoami"))
	assert.Contains(t, e.out.String(), "me@x.y")
	assert.Contains(t, e.out.String(), "opaque")

	require.Equal(t, exitOK, e.run("status"))
	assert.Contains(t, e.out.String(), "signed in (file)")
	assert.Contains(t, e.out.String(), "fake")
}

func TestSignInPromptsForEmail(t *testing.T) {
	e := newEnv(t)
	e.input = "\n"
	e.password = []string{"pw"}
	assert.Equal(t, exitUsage, e.run("signin"))
	assert.Contains(t, e.err.String(), auth.ErrMissingFields.Error())
	assert.Empty(t, e.exec.Calls())
}

func TestSignUpMismatch(t *testing.T) {
	e := newEnv(t)
	e.input = "me\nme@x.y\n"
	e.password = []string{"secret1", "secret2"}
	assert.Equal(t, exitUsage, e.run("signup"))
	assert.Contains(t, e.err.String(), auth.ErrPasswordMismatch.Error())
	assert.Empty(t, e.exec.Calls())
}

func TestSignOut(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, exitOK, e.run("signout"))
	assert.Contains(t, e.out.String(), "not signed in")

	require.NoError(t, e.app.Vault.Save("tok", &model.User{ID: "1", Email: "a@b"}))
	e.exec.Respond(gql.SignOutUser, `{"signOut":{"success":true}}`)
	assert.Equal(t, exitOK, e.run("signout"))
	assert.Contains(t, e.out.String(), "signed out")
	assert.Equal(t, "", e.app.Vault.Token())
}

func TestConfigPrintsYAML(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, exitOK, e.run("config"))
	assert.Contains(t, e.out.String(), "endpoint: "+config.DefaultEndpoint)
	assert.Contains(t, e.out.String(), "theme: mono")
}

func TestUI(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, exitOK, e.run("ui"))
	assert.True(t, e.uiRan)
}

func TestParseInterspersed(t *testing.T) {
	fs := newFlagSet("x")
	c := fs.String("c", "", "")
	pos, err := parseInterspersed(fs, []string{"a", "-c", "v", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, pos)
	assert.Equal(t, "v", *c)

	_, err = parseInterspersed(newFlagSet("y"), []string{"-nope"})
	assert.Error(t, err)
}
