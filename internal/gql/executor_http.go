package gql

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
)

// HTTPExecutor runs operations with github.com/machinebox/graphql on net/http.
type HTTPExecutor struct {
	client *graphql.Client
	token  TokenSource
}

type headerSinkKey struct{}

// headerCapture copies response headers into a sink carried by the request
// context, since the graphql client only hands back the decoded body.
type headerCapture struct {
	base http.RoundTripper
}

func (h headerCapture) RoundTrip(r *http.Request) (*http.Response, error) {
	resp, err := h.base.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	if sink, ok := r.Context().Value(headerSinkKey{}).(*http.Header); ok && sink != nil {
		*sink = resp.Header.Clone()
	}
	return resp, nil
}

// NewHTTPExecutor builds an executor for endpoint. A nil base transport uses
// http.DefaultTransport.
func NewHTTPExecutor(endpoint string, timeout time.Duration, token TokenSource, base http.RoundTripper) *HTTPExecutor {
	if base == nil {
		base = http.DefaultTransport
	}
	hc := &http.Client{
		Timeout:   timeout,
		Transport: headerCapture{base: base},
	}
	return &HTTPExecutor{
		client: graphql.NewClient(endpoint, graphql.WithHTTPClient(hc)),
		token:  token,
	}
}

func (e *HTTPExecutor) Name() string { return "http" }

func (e *HTTPExecutor) Execute(ctx context.Context, req Request) (Response, error) {
	gr := graphql.NewRequest(req.Document)
	for k, v := range req.Variables {
		gr.Var(k, v)
	}
	if auth := bearer(e.token); auth != "" {
		gr.Header.Set("Authorization", auth)
	}

	var header http.Header
	ctx = context.WithValue(ctx, headerSinkKey{}, &header)

	var data json.RawMessage
	if err := e.client.Run(ctx, gr, &data); err != nil {
		return Response{}, err
	}
	return Response{Data: data, Header: header}, nil
}
