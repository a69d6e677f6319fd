package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/idilsaglam/gqltodo/internal/app"
	"github.com/idilsaglam/gqltodo/internal/cli"
	"github.com/idilsaglam/gqltodo/internal/config"
	"github.com/idilsaglam/gqltodo/internal/logging"
	"github.com/idilsaglam/gqltodo/internal/logging/events"
)

func main() {
	runtimeCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n\n", err)
		cli.Run([]string{"help"}, cli.Options{Out: os.Stderr})
		os.Exit(2)
	}
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	client, err := app.New(runtimeCfg)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(runtimeCfg.Command, cli.Options{App: client, Context: ctx})
	stop()

	events.App.Metrics(client.Metrics.Snapshot())
	events.App.Exit(code)
	os.Exit(code)
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging. The token
// override is reported as present or absent, never by value.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	redacted := cfg
	redacted.Token = ""
	payload := map[string]interface{}{
		"argv":         cfg.Args,
		"command":      cfg.Command,
		"flags":        flags,
		"config":       redacted,
		"tokenFromEnv": cfg.Token != "",
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetail struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"isTerminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

func collectTTYDetails() []ttyDetail {
	streams := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyDetail, 0, len(streams))
	for _, stream := range streams {
		entry := ttyDetail{Name: stream.name}
		fd := int(stream.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width, entry.Height = width, height
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return results
}
