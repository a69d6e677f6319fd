package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/idilsaglam/gqltodo/internal/auth"
	"github.com/idilsaglam/gqltodo/internal/model"
	"github.com/idilsaglam/gqltodo/internal/todos"
	"github.com/idilsaglam/gqltodo/internal/ui"
)

const lineWidth = 72

func isValidation(err error) bool {
	for _, target := range []error{
		todos.ErrEmptyTitle, todos.ErrEmptyContent, todos.ErrMissingID, todos.ErrNoSelection,
		auth.ErrMissingFields, auth.ErrPasswordMismatch, auth.ErrPasswordTooShort,
		auth.ErrNotSignedIn,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (r *runner) list(args []string) int {
	listing, err := r.app.Todos.Load(r.ctx)
	if err != nil {
		return r.fail("ls", err)
	}
	pattern := strings.TrimSpace(strings.Join(args, " "))
	shown := filterTodos(listing.Todos, pattern)

	t := r.p.Theme
	header := fmt.Sprintf("%s  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Accent.Render("on server"), listing.Count,
		t.Muted.Render("shown"), len(shown),
	)
	lines := []string{header, ""}
	lines = append(lines, todoLines(t, shown, pattern)...)
	lines = append(lines, "", t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	r.p.Panel(lines)
	return exitOK
}

// filterTodos keeps the todos whose title or content fuzzily matches
// pattern, in server order. Plain substring matching is the fallback.
func filterTodos(items []model.Todo, pattern string) []model.Todo {
	if pattern == "" {
		return items
	}
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.TitleText() + " " + it.ContentText()
	}
	ranks := fuzzy.RankFindNormalizedFold(pattern, labels)
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		out := make([]model.Todo, 0, len(matches))
		for i, it := range items {
			if _, ok := matches[i]; ok {
				out = append(out, it)
			}
		}
		return out
	}
	lower := strings.ToLower(pattern)
	var out []model.Todo
	for i, it := range items {
		if strings.Contains(strings.ToLower(labels[i]), lower) || it.ID == pattern {
			out = append(out, it)
		}
	}
	return out
}

func todoLines(t ui.Theme, items []model.Todo, pattern string) []string {
	if len(items) == 0 {
		if pattern != "" {
			return []string{t.Muted.Render("no todos match " + pattern)}
		}
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		id := t.Muted.Render(fmt.Sprintf("%4s", "#"+it.ID))
		title := it.TitleText()
		if strings.TrimSpace(title) == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%s %s %s", id, t.Bullet, title)
		if c := ui.SingleLine(it.ContentText()); c != "" {
			line += "  " + t.Muted.Render(c)
		}
		out = append(out, ui.Fit(line, lineWidth))
	}
	return out
}

func (r *runner) add(args []string) int {
	fs := newFlagSet("add")
	content := fs.String("c", "", "content")
	words, err := parseInterspersed(fs, args)
	if err != nil || len(words) == 0 {
		r.p.Fail("usage: todo add <title...> -c content")
		return exitUsage
	}
	store := r.app.Store
	store.OpenCreateForm()
	store.SetTitleDraft(strings.Join(words, " "))
	store.SetContentDraft(*content)

	todo, err := r.app.Todos.SubmitCreate(r.ctx)
	if err != nil {
		return r.fail("add", err)
	}
	r.p.OK(fmt.Sprintf("added #%s %s", todo.ID, todo.TitleText()))
	return exitOK
}

func (r *runner) edit(args []string) int {
	fs := newFlagSet("edit")
	title := fs.String("t", "", "new title")
	content := fs.String("c", "", "new content")
	pos, err := parseInterspersed(fs, args)
	if err != nil || len(pos) != 1 {
		r.p.Fail("usage: todo edit <id> [-t title] [-c content]")
		return exitUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		r.p.Fail("edit: nothing to change, pass -t and/or -c")
		return exitUsage
	}

	current, code := r.find(pos[0])
	if current == nil {
		return code
	}
	store := r.app.Store
	store.OpenUpdateForm(*current)
	if set["t"] {
		store.SetTitleDraft(*title)
	}
	if set["c"] {
		store.SetContentDraft(*content)
	}

	todo, err := r.app.Todos.SubmitUpdate(r.ctx)
	if err != nil {
		return r.fail("edit", err)
	}
	r.p.OK(fmt.Sprintf("updated #%s %s", todo.ID, todo.TitleText()))
	return exitOK
}

// find loads the list and returns the todo with id.
func (r *runner) find(id string) (*model.Todo, int) {
	listing, err := r.app.Todos.Load(r.ctx)
	if err != nil {
		return nil, r.fail("load", err)
	}
	for i := range listing.Todos {
		if listing.Todos[i].ID == id {
			return &listing.Todos[i], exitOK
		}
	}
	r.p.Fail("no todo with id " + id)
	fmt.Fprintln(r.p.Err, r.p.Theme.Muted.Render("Hint: run `todo ls` to see valid ids"))
	return nil, exitUsage
}

func (r *runner) remove(args []string) int {
	fs := newFlagSet("rm")
	yes := fs.Bool("y", false, "do not ask for confirmation")
	pos, err := parseInterspersed(fs, args)
	if err != nil || len(pos) != 1 {
		r.p.Fail("usage: todo rm <id> [-y]")
		return exitUsage
	}
	id := pos[0]
	if !*yes {
		answer, err := r.prompt(fmt.Sprintf("Delete #%s? [y/N] ", id))
		if err != nil {
			r.p.Fail("rm: " + err.Error())
			return exitError
		}
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			r.p.Line(r.p.Theme.Muted.Render("cancelled"))
			return exitOK
		}
	}
	todo, err := r.app.Todos.Delete(r.ctx, id)
	if err != nil {
		return r.fail("rm", err)
	}
	msg := "removed #" + id
	if todo != nil && todo.TitleText() != "" {
		msg += " " + todo.TitleText()
	}
	r.p.OK(msg)
	return exitOK
}
