package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/gqltodo/internal/auth"
	"github.com/idilsaglam/gqltodo/internal/config"
	"github.com/idilsaglam/gqltodo/internal/tui"
)

func (r *runner) signIn(args []string) int {
	if len(args) > 1 {
		r.p.Fail("usage: todo signin [email]")
		return exitUsage
	}
	var email string
	if len(args) == 1 {
		email = args[0]
	} else {
		var err error
		if email, err = r.prompt("Email: "); err != nil {
			r.p.Fail("signin: " + err.Error())
			return exitError
		}
	}
	password, err := r.opt.ReadPassword("Password: ")
	if err != nil {
		r.p.Fail("signin: " + err.Error())
		return exitError
	}
	if err := r.app.Auth.SignIn(r.ctx, email, password); err != nil {
		return r.fail("signin", err)
	}
	r.p.OK("signed in as " + r.currentEmail())
	return exitOK
}

func (r *runner) signUp(args []string) int {
	if len(args) != 0 {
		r.p.Fail("usage: todo signup")
		return exitUsage
	}
	var in auth.SignUpInput
	var err error
	if in.Username, err = r.prompt("Username: "); err != nil {
		r.p.Fail("signup: " + err.Error())
		return exitError
	}
	if in.Email, err = r.prompt("Email: "); err != nil {
		r.p.Fail("signup: " + err.Error())
		return exitError
	}
	if in.Password, err = r.opt.ReadPassword("Password: "); err != nil {
		r.p.Fail("signup: " + err.Error())
		return exitError
	}
	if in.PasswordConfirmation, err = r.opt.ReadPassword("Confirm password: "); err != nil {
		r.p.Fail("signup: " + err.Error())
		return exitError
	}
	if err := r.app.Auth.SignUp(r.ctx, in); err != nil {
		return r.fail("signup", err)
	}
	r.p.OK("account created, signed in as " + r.currentEmail())
	return exitOK
}

func (r *runner) signOut() int {
	creds, err := r.app.Vault.Get()
	if err != nil {
		r.p.Fail("signout: " + err.Error())
		return exitError
	}
	if creds == nil {
		r.p.Line(r.p.Theme.Muted.Render("not signed in"))
		return exitOK
	}
	if err := r.app.Auth.SignOut(r.ctx); err != nil {
		r.p.Fail("signout: " + err.Error())
		r.p.OK("local session cleared")
		return exitError
	}
	if creds.Source == "env" {
		r.p.OK("signed out (token still set in TODO_GQL_TOKEN)")
		return exitOK
	}
	r.p.OK("signed out")
	return exitOK
}

func (r *runner) currentEmail() string {
	if u := r.app.Store.State().Session.User; u != nil && u.Email != "" {
		return u.Email
	}
	return "(unknown)"
}

func (r *runner) whoAmI() int {
	sess := r.app.Store.State().Session
	if !sess.Authenticated || sess.User == nil {
		r.p.Fail(auth.ErrNotSignedIn.Error() + ". Run: todo signin")
		return exitUsage
	}
	t := r.p.Theme
	lines := []string{
		t.Title.Render("Signed in"),
		t.Muted.Render("email  ") + sess.User.Email,
		t.Muted.Render("id     ") + sess.User.ID,
	}
	if tok := r.app.Vault.Token(); tok != "" {
		if claims, err := auth.ParseClaims(tok); err == nil {
			if claims.Subject != "" {
				lines = append(lines, t.Muted.Render("sub    ")+claims.Subject)
			}
			if claims.ExpiresAt != nil {
				exp := claims.ExpiresAt.UTC().Format(time.RFC3339)
				if claims.Expired(time.Now()) {
					exp += " " + t.Error.Render("(expired)")
				}
				lines = append(lines, t.Muted.Render("expires ")+exp)
			}
		} else {
			lines = append(lines, t.Muted.Render("token  opaque (cannot introspect locally)"))
		}
	}
	r.p.Panel(lines)
	return exitOK
}

func (r *runner) status() int {
	cfg := r.app.Config
	t := r.p.Theme
	file := cfg.File
	if file == "" {
		file = "(none)"
	}
	lines := []string{
		t.Title.Render("Status"),
		t.Muted.Render("endpoint   ") + cfg.Endpoint,
		t.Muted.Render("transport  ") + r.app.Client.Transport(),
		t.Muted.Render("timeout    ") + cfg.Timeout.String(),
		t.Muted.Render("reset      ") + string(r.app.Todos.Policy()),
		t.Muted.Render("config     ") + file,
	}
	creds, err := r.app.Vault.Get()
	switch {
	case err != nil:
		lines = append(lines, t.Error.Render("session    "+err.Error()))
	case creds == nil:
		lines = append(lines, t.Muted.Render("session    ")+"not signed in")
	default:
		lines = append(lines, t.Muted.Render("session    ")+"signed in ("+creds.Source+")")
		if creds.ExpiresAt != nil {
			lines = append(lines, t.Muted.Render("expires    ")+creds.ExpiresAt.UTC().Format(time.RFC3339))
		} else {
			lines = append(lines, t.Muted.Render("expires    ")+"(unknown)")
		}
	}
	lines = append(lines, t.Muted.Render("env override: TODO_GQL_TOKEN"))
	r.p.Panel(lines)
	return exitOK
}

func (r *runner) printConfig() int {
	out, err := config.Marshal(r.app.Config)
	if err != nil {
		r.p.Fail("config: " + err.Error())
		return exitError
	}
	fmt.Fprint(r.p.Out, strings.TrimRight(string(out), "\n")+"\n")
	return exitOK
}

func (r *runner) interactive() int {
	if !r.opt.Interactive() {
		r.p.Fail("ui needs an interactive terminal")
		return exitUsage
	}
	err := r.opt.RunUI(tui.Deps{
		Store:    r.app.Store,
		Todos:    r.app.Todos,
		Auth:     r.app.Auth,
		Theme:    r.app.Theme,
		Endpoint: r.app.Config.Endpoint,
	})
	if err != nil {
		r.p.Fail("ui: " + err.Error())
		return exitError
	}
	return exitOK
}
