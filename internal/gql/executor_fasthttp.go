package gql

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

// FastHTTPExecutor runs operations over github.com/valyala/fasthttp.
type FastHTTPExecutor struct {
	endpoint string
	timeout  time.Duration
	client   *fasthttp.Client
	token    TokenSource
}

// FastHTTPOption tweaks the underlying fasthttp client.
type FastHTTPOption func(*fasthttp.Client)

// WithDial replaces the dialer, e.g. with an in-memory listener in tests.
func WithDial(dial func() (net.Conn, error)) FastHTTPOption {
	return func(c *fasthttp.Client) {
		c.Dial = func(string) (net.Conn, error) { return dial() }
	}
}

// NewFastHTTPExecutor builds an executor for endpoint.
func NewFastHTTPExecutor(endpoint string, timeout time.Duration, token TokenSource, opts ...FastHTTPOption) *FastHTTPExecutor {
	c := &fasthttp.Client{
		Name:         "gqltodo",
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return &FastHTTPExecutor{endpoint: endpoint, timeout: timeout, client: c, token: token}
}

func (e *FastHTTPExecutor) Name() string { return "fasthttp" }

type requestEnvelope struct {
	Query         string    `json:"query"`
	Variables     Variables `json:"variables,omitempty"`
	OperationName string    `json:"operationName,omitempty"`
}

type responseEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors graphQLErrors   `json:"errors"`
}

func (e *FastHTTPExecutor) Execute(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	body, err := json.Marshal(requestEnvelope{
		Query:         req.Document,
		Variables:     req.Variables,
		OperationName: req.Operation.String(),
	})
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}

	freq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(freq)
	fresp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(fresp)

	freq.SetRequestURI(e.endpoint)
	freq.Header.SetMethod(fasthttp.MethodPost)
	freq.Header.SetContentType("application/json; charset=utf-8")
	freq.Header.Set(fasthttp.HeaderAccept, "application/json; charset=utf-8")
	if auth := bearer(e.token); auth != "" {
		freq.Header.Set(fasthttp.HeaderAuthorization, auth)
	}
	freq.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = e.client.DoDeadline(freq, fresp, deadline)
	} else if e.timeout > 0 {
		err = e.client.DoTimeout(freq, fresp, e.timeout)
	} else {
		err = e.client.Do(freq, fresp)
	}
	if err != nil {
		return Response{}, fmt.Errorf("post %s: %w", e.endpoint, err)
	}

	status := fresp.StatusCode()
	var env responseEnvelope
	if err := json.Unmarshal(fresp.Body(), &env); err != nil {
		return Response{}, fmt.Errorf("decoding response (status %d): %w", status, err)
	}
	if len(env.Errors) > 0 {
		return Response{}, env.Errors
	}
	if status < 200 || status > 299 {
		return Response{}, fmt.Errorf("unexpected status %d", status)
	}

	header := http.Header{}
	if v := fresp.Header.Peek(fasthttp.HeaderAuthorization); len(v) > 0 {
		header.Set("Authorization", string(v))
	}
	return Response{Data: env.Data, Header: header}, nil
}
