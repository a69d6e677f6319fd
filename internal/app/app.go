// Package app assembles the client from a Config: executor, adapter, state
// store, controllers and metrics.
package app

import (
	"fmt"

	"github.com/idilsaglam/gqltodo/internal/auth"
	"github.com/idilsaglam/gqltodo/internal/config"
	"github.com/idilsaglam/gqltodo/internal/gql"
	"github.com/idilsaglam/gqltodo/internal/metrics"
	"github.com/idilsaglam/gqltodo/internal/state"
	"github.com/idilsaglam/gqltodo/internal/todos"
	"github.com/idilsaglam/gqltodo/internal/ui"
)

// App is the wired client.
type App struct {
	Config  config.Config
	Store   *state.Store
	Client  *gql.Client
	Vault   *auth.Vault
	Auth    *auth.Service
	Todos   *todos.Controller
	Metrics *metrics.Recorder
	Theme   ui.Theme
}

type options struct {
	exec    gql.Executor
	spawner func(func())
}

// Option customizes New.
type Option func(*options)

// WithExecutor replaces the executor chosen from the config.
func WithExecutor(e gql.Executor) Option {
	return func(o *options) { o.exec = e }
}

// WithSpawner sets the goroutine launcher for refetches.
func WithSpawner(fn func(func())) Option {
	return func(o *options) { o.spawner = fn }
}

// New wires an App. Stored credentials, if any, are restored into the
// session before it returns.
func New(cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	vault := auth.NewVault(cfg.CredentialsDir, cfg.Token)
	exec := o.exec
	if exec == nil {
		var err error
		if exec, err = NewExecutor(cfg, vault.Token); err != nil {
			return nil, err
		}
	}

	rec := metrics.New()
	clientOpts := []gql.Option{gql.WithObserver(rec)}
	if o.spawner != nil {
		clientOpts = append(clientOpts, gql.WithSpawner(o.spawner))
	}
	client := gql.NewClient(exec, clientOpts...)
	store := state.NewStore(state.Initial())

	a := &App{
		Config:  cfg,
		Store:   store,
		Client:  client,
		Vault:   vault,
		Auth:    auth.NewService(client, store, vault),
		Todos:   todos.New(client, store, todos.ResetPolicy(cfg.ResetPolicy)),
		Metrics: rec,
		Theme:   ui.ThemeByName(cfg.Theme),
	}
	if err := a.Auth.Restore(); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return a, nil
}

// NewExecutor builds the executor named by cfg.Transport.
func NewExecutor(cfg config.Config, token gql.TokenSource) (gql.Executor, error) {
	switch cfg.Transport {
	case config.TransportHTTP, "":
		return gql.NewHTTPExecutor(cfg.Endpoint, cfg.Timeout, token, nil), nil
	case config.TransportFastHTTP:
		return gql.NewFastHTTPExecutor(cfg.Endpoint, cfg.Timeout, token), nil
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}
