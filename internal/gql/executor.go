package gql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Variables are the GraphQL variables sent with an operation.
type Variables map[string]interface{}

// Request is one operation ready to be sent.
type Request struct {
	Operation Operation
	Document  string
	Variables Variables
}

// Response carries the raw `data` member and the HTTP response headers.
type Response struct {
	Data   json.RawMessage
	Header http.Header
}

// Executor sends a Request to the server. Implementations report network,
// HTTP and top-level GraphQL errors as a non-nil error.
type Executor interface {
	Execute(ctx context.Context, req Request) (Response, error)
	Name() string
}

// TokenSource yields the bearer token to send, or "" for none.
type TokenSource func() string

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// TransportError is a failure to get a usable GraphQL response: the request
// did not complete, the server answered with an error status or top-level
// errors, or the payload could not be decoded.
type TransportError struct {
	Operation Operation
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// graphQLError is one entry of a top-level `errors` array.
type graphQLError struct {
	Message string `json:"message"`
}

type graphQLErrors []graphQLError

func (errs graphQLErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

func bearer(token TokenSource) string {
	if token == nil {
		return ""
	}
	tok := strings.TrimSpace(token())
	if tok == "" {
		return ""
	}
	return "Bearer " + tok
}
