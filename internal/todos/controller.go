// Package todos drives the todo forms: it validates drafts held in the state
// store, sends the matching mutation and decides when the form is reset.
package todos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/gqltodo/internal/gql"
	"github.com/idilsaglam/gqltodo/internal/model"
	"github.com/idilsaglam/gqltodo/internal/state"
)

var (
	// ErrEmptyTitle is returned when the title draft is blank.
	ErrEmptyTitle = errors.New("title is required")
	// ErrEmptyContent is returned when the content draft is blank.
	ErrEmptyContent = errors.New("content is required")
	// ErrNoSelection is returned by SubmitUpdate outside the update form.
	ErrNoSelection = errors.New("no todo selected")
	// ErrMissingID is returned by Delete for a blank id.
	ErrMissingID = errors.New("todo id is required")
)

// ResetPolicy decides when a submitted form is cleared.
type ResetPolicy string

const (
	// ResetOnSuccess clears the form once the server confirms the mutation.
	ResetOnSuccess ResetPolicy = "success"
	// ResetOptimistic clears the form as soon as the mutation is sent.
	ResetOptimistic ResetPolicy = "optimistic"
)

// PayloadError carries the business errors the server put in a payload.
type PayloadError struct {
	Operation gql.Operation
	Messages  []string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Operation, strings.Join(e.Messages, "; "))
}

// Listing is the mapped Todos query.
type Listing struct {
	Todos []model.Todo
	Count int
}

// Controller sends todo operations on behalf of the forms in the store.
type Controller struct {
	client *gql.Client
	store  *state.Store
	policy ResetPolicy

	createState, updateState, deleteState *gql.MutationState
	create, update, remove                gql.ExecuteFunc
}

// New builds a controller. An unknown policy falls back to ResetOnSuccess.
func New(client *gql.Client, store *state.Store, policy ResetPolicy) *Controller {
	if policy != ResetOptimistic {
		policy = ResetOnSuccess
	}
	c := &Controller{client: client, store: store, policy: policy}
	c.createState, c.create = client.Mutation(gql.CreateTodo)
	c.updateState, c.update = client.Mutation(gql.UpdateTodo)
	c.deleteState, c.remove = client.Mutation(gql.DeleteTodo)
	return c
}

// Policy returns the reset policy in use.
func (c *Controller) Policy() ResetPolicy { return c.policy }

// Busy reports whether any todo mutation is in flight.
func (c *Controller) Busy() bool {
	return c.createState.Fetching() || c.updateState.Fetching() || c.deleteState.Fetching()
}

// Load runs the Todos query.
func (c *Controller) Load(ctx context.Context) (Listing, error) {
	return listing(c.client.Query(ctx, gql.Todos, nil))
}

// OnRefetch calls fn with every refetched listing. The returned func
// unregisters it.
func (c *Controller) OnRefetch(fn func(Listing, error)) func() {
	return c.client.OnRefetch(func(res gql.QueryResult) {
		if res.Operation != gql.Todos {
			return
		}
		fn(listing(res))
	})
}

func listing(res gql.QueryResult) (Listing, error) {
	if res.Err != nil {
		return Listing{}, res.Err
	}
	out := Listing{Todos: res.Data.TodosData}
	if res.Data.HeaderData != nil {
		out.Count = res.Data.HeaderData.TodoCount
	} else {
		out.Count = len(out.Todos)
	}
	return out, nil
}

// SubmitCreate sends the create form's drafts.
func (c *Controller) SubmitCreate(ctx context.Context) (*model.Todo, error) {
	ui := c.store.State().UI
	title, err := checkDrafts(ui)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, c.create, gql.CreateTodoVars(title, ui.ContentDraft))
}

// checkDrafts returns the trimmed title once both drafts hold text.
func checkDrafts(ui state.UIState) (string, error) {
	title := strings.TrimSpace(ui.TitleDraft)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if strings.TrimSpace(ui.ContentDraft) == "" {
		return "", ErrEmptyContent
	}
	return title, nil
}

// SubmitUpdate sends the update form's drafts for the selected todo.
func (c *Controller) SubmitUpdate(ctx context.Context) (*model.Todo, error) {
	ui := c.store.State().UI
	if ui.FormMode != state.FormUpdate || ui.SelectedTodo == nil {
		return nil, ErrNoSelection
	}
	title, err := checkDrafts(ui)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, c.update, gql.UpdateTodoVars(ui.SelectedTodo.ID, title, ui.ContentDraft))
}

// Delete removes the todo with id. The list refetch follows from the adapter.
func (c *Controller) Delete(ctx context.Context, id string) (*model.Todo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingID
	}
	return outcome(c.remove(ctx, gql.DeleteTodoVars(id)))
}

func (c *Controller) submit(ctx context.Context, run gql.ExecuteFunc, vars gql.Variables) (*model.Todo, error) {
	if c.policy == ResetOptimistic {
		c.store.Cancel()
	}
	todo, err := outcome(run(ctx, vars))
	if err == nil && c.policy == ResetOnSuccess {
		c.store.Cancel()
	}
	return todo, err
}

func outcome(res gql.MutationResult) (*model.Todo, error) {
	if res.Err != nil {
		return nil, res.Err
	}
	p := res.Payload()
	if p == nil {
		return nil, &gql.TransportError{Operation: res.Operation, Err: errors.New("empty payload")}
	}
	if p.Failed() {
		return nil, &PayloadError{Operation: res.Operation, Messages: p.Errors}
	}
	return p.Todo, nil
}
