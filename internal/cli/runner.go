// Package cli routes subcommands to the todo and auth controllers and prints
// their outcome. Run returns the process exit code.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/idilsaglam/gqltodo/internal/app"
	"github.com/idilsaglam/gqltodo/internal/gql"
	"github.com/idilsaglam/gqltodo/internal/logging"
	"github.com/idilsaglam/gqltodo/internal/todos"
	"github.com/idilsaglam/gqltodo/internal/tui"
	"github.com/idilsaglam/gqltodo/internal/ui"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Options carries the wired client and the terminal the command talks to.
// Zero values fall back to the process's stdio.
type Options struct {
	App     *app.App
	Context context.Context

	In       io.Reader
	Out, Err io.Writer

	// ReadPassword reads a secret without echo.
	ReadPassword func(prompt string) (string, error)
	// Interactive reports whether a full-screen UI can run.
	Interactive func() bool
	// RunUI starts the interactive UI.
	RunUI func(tui.Deps) error
}

type runner struct {
	app *app.App
	ctx context.Context
	p   *ui.Printer
	in  *bufio.Reader
	opt Options
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Context == nil {
		opt.Context = context.Background()
	}
	if opt.In == nil {
		opt.In = os.Stdin
	}
	in := bufio.NewReader(opt.In)
	if opt.ReadPassword == nil {
		opt.ReadPassword = defaultReadPassword(opt.In, in, opt.Err)
	}
	if opt.Interactive == nil {
		opt.Interactive = stdioIsTerminal
	}
	if opt.RunUI == nil {
		opt.RunUI = tui.Run
	}
	theme := ui.ThemeByName("classic")
	if opt.App != nil {
		theme = opt.App.Theme
	}
	r := &runner{
		app: opt.App,
		ctx: opt.Context,
		p:   ui.NewPrinter(opt.Out, opt.Err, theme),
		in:  in,
		opt: opt,
	}

	if len(args) == 0 {
		r.help()
		return exitUsage
	}
	cmd, a := args[0], args[1:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		r.help()
		return exitOK
	}
	if r.app == nil {
		r.p.Fail("client not configured")
		return exitError
	}

	switch cmd {
	case "ls":
		return r.list(a)
	case "add":
		return r.add(a)
	case "edit":
		return r.edit(a)
	case "rm":
		return r.remove(a)
	case "signin":
		return r.signIn(a)
	case "signup":
		return r.signUp(a)
	case "signout":
		return r.signOut()
	case "whoami":
		return r.whoAmI()
	case "status":
		return r.status()
	case "config":
		return r.printConfig()
	case "ui":
		return r.interactive()
	}

	r.p.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.p.Err)
	r.help()
	return exitUsage
}

func (r *runner) help() {
	fmt.Fprint(r.p.Out, `todo - a terminal client for a GraphQL todo API

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls [pattern]                     List todos, fuzzy filtered by pattern
  add <title...> -c content        Create a todo
  edit <id> [-t title] [-c content]
                                   Update a todo
  rm <id> [-y]                     Delete a todo (asks first unless -y)
  signin [email]                   Sign in (password is prompted)
  signup                           Create an account
  signout                          Sign out and forget the stored token
  whoami                           Show the signed-in user
  status                           Show endpoint, transport and session
  config                           Print the effective configuration as YAML
  ui                               Start the interactive UI

Flags:
  --endpoint URL   --transport http|fasthttp   --timeout 10s
  --reset success|optimistic   --theme classic|neon|mono
  --config FILE   --credentials-dir DIR   --log-file FILE   --trace

Examples:
  todo signin me@example.com
  todo add Buy milk -c "2 litres"
  todo ls milk
  todo rm 3 -y
`)
}

// parseInterspersed lets flags appear before, between or after positionals.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// fail prints err and maps it to an exit code. Local validation problems are
// usage errors; anything that reached the server is a runtime error.
func (r *runner) fail(prefix string, err error) int {
	var pe *todos.PayloadError
	if errors.As(err, &pe) {
		for _, msg := range pe.Messages {
			r.p.Fail(prefix + ": " + msg)
		}
		return exitError
	}
	r.p.Fail(prefix + ": " + err.Error())
	var te *gql.TransportError
	if errors.As(err, &te) {
		logging.Error(fmt.Errorf("%s: %w", prefix, err))
		fmt.Fprintln(r.p.Err, r.p.Theme.Muted.Render("Hint: check --endpoint ("+r.app.Config.Endpoint+") or run `todo status`"))
		return exitError
	}
	if isValidation(err) {
		return exitUsage
	}
	return exitError
}

func (r *runner) prompt(label string) (string, error) {
	fmt.Fprint(r.p.Out, label)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
