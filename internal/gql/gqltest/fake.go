// Package gqltest provides an in-memory gql.Executor for tests of packages
// built on the adapter.
package gqltest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/idilsaglam/gqltodo/internal/gql"
)

// Executor answers each operation with a canned body and records the calls.
type Executor struct {
	mu        sync.Mutex
	responses map[gql.Operation]string
	headers   map[gql.Operation]http.Header
	fail      map[gql.Operation]error
	calls     []gql.Request
}

// New returns an executor with no canned answers.
func New() *Executor {
	return &Executor{
		responses: make(map[gql.Operation]string),
		headers:   make(map[gql.Operation]http.Header),
		fail:      make(map[gql.Operation]error),
	}
}

// Respond sets the data body returned for op.
func (e *Executor) Respond(op gql.Operation, body string) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[op] = body
	delete(e.fail, op)
	return e
}

// RespondHeader sets a response header returned for op.
func (e *Executor) RespondHeader(op gql.Operation, key, value string) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.headers[op]
	if h == nil {
		h = http.Header{}
		e.headers[op] = h
	}
	h.Set(key, value)
	return e
}

// Fail makes op fail at the transport level with err.
func (e *Executor) Fail(op gql.Operation, err error) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail[op] = err
	return e
}

func (e *Executor) Name() string { return "fake" }

func (e *Executor) Execute(ctx context.Context, req gql.Request) (gql.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, req)
	if err := ctx.Err(); err != nil {
		return gql.Response{}, err
	}
	if err := e.fail[req.Operation]; err != nil {
		return gql.Response{}, err
	}
	body, ok := e.responses[req.Operation]
	if !ok {
		return gql.Response{}, fmt.Errorf("no canned response for %s", req.Operation)
	}
	return gql.Response{Data: json.RawMessage(body), Header: e.headers[req.Operation].Clone()}, nil
}

// Calls returns a copy of the recorded requests.
func (e *Executor) Calls() []gql.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]gql.Request(nil), e.calls...)
}

// Operations lists the recorded operations in call order.
func (e *Executor) Operations() []gql.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()
	ops := make([]gql.Operation, 0, len(e.calls))
	for _, c := range e.calls {
		ops = append(ops, c.Operation)
	}
	return ops
}

// Count returns how many times op ran.
func (e *Executor) Count(op gql.Operation) int {
	n := 0
	for _, o := range e.Operations() {
		if o == op {
			n++
		}
	}
	return n
}

// SyncSpawner runs refetches inline so tests see them immediately.
func SyncSpawner(fn func()) { fn() }

// Client wraps e in a gql.Client that refetches synchronously.
func Client(e *Executor, opts ...gql.Option) *gql.Client {
	return gql.NewClient(e, append([]gql.Option{gql.WithSpawner(SyncSpawner)}, opts...)...)
}
