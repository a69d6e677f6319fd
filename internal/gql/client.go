package gql

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/idilsaglam/gqltodo/internal/logging/events"
)

// Outcome classifies a finished execution for observers.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeTransportError Outcome = "transport_error"
	OutcomePayloadError   Outcome = "payload_error"
)

// Observer is told about every execution the client performs.
type Observer interface {
	Observe(op Operation, outcome Outcome, took time.Duration)
}

// Client runs tagged operations through an Executor and maps the results.
// Query and mutation calls block until the response is mapped; refetches
// triggered by mutations run through the spawner and report to OnRefetch
// listeners.
type Client struct {
	exec     Executor
	observer Observer
	spawn    func(func())

	mu        sync.Mutex
	lastVars  map[Operation]Variables
	listeners map[int]func(QueryResult)
	nextID    int
}

// Option configures a Client.
type Option func(*Client)

// WithObserver reports executions to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithSpawner replaces the goroutine launcher used for refetches.
func WithSpawner(spawn func(func())) Option {
	return func(c *Client) { c.spawn = spawn }
}

// NewClient wraps exec.
func NewClient(exec Executor, opts ...Option) *Client {
	c := &Client{
		exec:      exec,
		spawn:     func(fn func()) { go fn() },
		lastVars:  make(map[Operation]Variables),
		listeners: make(map[int]func(QueryResult)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transport names the executor in use.
func (c *Client) Transport() string { return c.exec.Name() }

// QueryResult is the outcome of a query. Err is set on transport failure and
// Data is nil in that case.
type QueryResult struct {
	Operation Operation
	Data      *QueryData
	Fetching  bool
	Err       error
	Refetch   func(ctx context.Context) QueryResult
}

// Query runs op and maps its result. It never panics on bad input: a
// mutation tag or an unknown tag comes back as Err.
func (c *Client) Query(ctx context.Context, op Operation, vars Variables) QueryResult {
	c.mu.Lock()
	c.lastVars[op] = vars
	c.mu.Unlock()
	return c.query(ctx, op, vars)
}

func (c *Client) query(ctx context.Context, op Operation, vars Variables) QueryResult {
	res := QueryResult{
		Operation: op,
		Refetch: func(ctx context.Context) QueryResult {
			return c.query(ctx, op, vars)
		},
	}
	if _, ok := op.def(); !ok || op.Kind() != KindQuery {
		res.Err = fmt.Errorf("gql: %s is not a query", op)
		return res
	}

	resp, took, err := c.execute(ctx, op, vars)
	if err != nil {
		res.Err = err
		c.observe(op, OutcomeTransportError, took)
		return res
	}
	data, err := mapQuery(op, resp.Data)
	if err != nil {
		res.Err = &TransportError{Operation: op, Err: err}
		c.observe(op, OutcomeTransportError, took)
		return res
	}
	res.Data = data
	c.observe(op, OutcomeOK, took)
	return res
}

func mapQuery(op Operation, raw json.RawMessage) (*QueryData, error) {
	switch op {
	case Todos:
		return mapTodos(raw)
	}
	return &QueryData{Raw: raw}, nil
}

// OnRefetch registers fn for results of refetches triggered by mutations.
// The returned func unregisters it.
func (c *Client) OnRefetch(fn func(QueryResult)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// MutationResult is the outcome of a mutation. Err carries transport
// failures; business errors live inside the operation's data field.
type MutationResult struct {
	Operation   Operation
	Raw         json.RawMessage
	Err         error
	CreateData  *PayloadData
	UpdateData  *PayloadData
	DeleteData  *PayloadData
	AuthData    *AuthData
	SignOutData *SignOutData
}

// Payload returns whichever todo payload the operation produced.
func (r MutationResult) Payload() *PayloadData {
	switch {
	case r.CreateData != nil:
		return r.CreateData
	case r.UpdateData != nil:
		return r.UpdateData
	case r.DeleteData != nil:
		return r.DeleteData
	}
	return nil
}

// BusinessErrors returns the server's rejection messages, if any.
func (r MutationResult) BusinessErrors() []string {
	if p := r.Payload(); p != nil {
		return p.Errors
	}
	return nil
}

// MutationState tracks the latest execution of one mutation handle.
type MutationState struct {
	mu       sync.Mutex
	fetching bool
	last     *MutationResult
}

// Fetching reports whether an execution is in flight.
func (s *MutationState) Fetching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetching
}

// Last returns the most recent result.
func (s *MutationState) Last() (MutationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return MutationResult{}, false
	}
	return *s.last, true
}

// ExecuteFunc runs a prepared mutation with vars.
type ExecuteFunc func(ctx context.Context, vars Variables) MutationResult

// Mutation prepares op and returns its state together with the function that
// runs it. The variables must match the operation's input type.
func (c *Client) Mutation(op Operation) (*MutationState, ExecuteFunc) {
	state := &MutationState{}
	exec := func(ctx context.Context, vars Variables) MutationResult {
		state.mu.Lock()
		state.fetching = true
		state.mu.Unlock()

		res := c.mutate(ctx, op, vars)

		state.mu.Lock()
		state.fetching = false
		state.last = &res
		state.mu.Unlock()
		return res
	}
	return state, exec
}

func (c *Client) mutate(ctx context.Context, op Operation, vars Variables) MutationResult {
	res := MutationResult{Operation: op}
	if _, ok := op.def(); !ok || op.Kind() != KindMutation {
		res.Err = fmt.Errorf("gql: %s is not a mutation", op)
		return res
	}

	resp, took, err := c.execute(ctx, op, vars)
	if err != nil {
		res.Err = err
		c.observe(op, OutcomeTransportError, took)
		return res
	}
	res.Raw = resp.Data
	if err := mapMutation(op, resp, &res); err != nil {
		res.Err = &TransportError{Operation: op, Err: err}
		c.observe(op, OutcomeTransportError, took)
		return res
	}
	if len(res.BusinessErrors()) > 0 {
		c.observe(op, OutcomePayloadError, took)
		return res
	}
	c.observe(op, OutcomeOK, took)
	c.refetchAfter(ctx, op)
	return res
}

func mapMutation(op Operation, resp Response, res *MutationResult) error {
	var err error
	switch op {
	case CreateTodo:
		res.CreateData, err = mapTodoPayload(resp.Data, "createTodo")
	case UpdateTodo:
		res.UpdateData, err = mapTodoPayload(resp.Data, "updateTodo")
	case DeleteTodo:
		res.DeleteData, err = mapTodoPayload(resp.Data, "deleteTodo")
	case SignInUser:
		res.AuthData, err = mapAuth(resp.Data, "signIn", resp)
	case SignUpUser:
		res.AuthData, err = mapAuth(resp.Data, "signUp", resp)
	case SignOutUser:
		res.SignOutData, err = mapSignOut(resp.Data)
	}
	return err
}

// refetchAfter re-runs the queries op invalidates. It does not wait for them.
func (c *Client) refetchAfter(ctx context.Context, op Operation) {
	targets := op.Refetches()
	if len(targets) == 0 {
		return
	}
	bg := context.WithoutCancel(ctx)
	for _, target := range targets {
		target := target
		c.mu.Lock()
		vars := c.lastVars[target]
		c.mu.Unlock()
		events.GQL.Refetch(op.String(), target.String())
		c.spawn(func() {
			res := c.query(bg, target, vars)
			c.mu.Lock()
			fns := make([]func(QueryResult), 0, len(c.listeners))
			for _, fn := range c.listeners {
				fns = append(fns, fn)
			}
			c.mu.Unlock()
			for _, fn := range fns {
				fn(res)
			}
		})
	}
}

func (c *Client) execute(ctx context.Context, op Operation, vars Variables) (Response, time.Duration, error) {
	events.GQL.Execute(op.String(), c.exec.Name())
	start := time.Now()
	resp, err := c.exec.Execute(ctx, Request{
		Operation: op,
		Document:  op.Document(),
		Variables: vars,
	})
	took := time.Since(start)
	if err != nil {
		events.GQL.TransportError(op.String(), err)
		return Response{}, took, &TransportError{Operation: op, Err: err}
	}
	return resp, took, nil
}

func (c *Client) observe(op Operation, outcome Outcome, took time.Duration) {
	events.GQL.Result(op.String(), string(outcome), took)
	if c.observer != nil {
		c.observer.Observe(op, outcome, took)
	}
}
