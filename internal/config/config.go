package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the client.
type Config struct {
	Endpoint       string        `yaml:"endpoint"`
	Transport      string        `yaml:"transport"`
	Timeout        time.Duration `yaml:"timeout"`
	ResetPolicy    string        `yaml:"reset_policy"`
	Theme          string        `yaml:"theme"`
	CredentialsDir string        `yaml:"credentials_dir"`
	Logging        Logging       `yaml:"logging"`

	// Populated by LoadArgs, never read from or written to YAML.
	Token   string            `yaml:"-"`
	File    string            `yaml:"-"`
	Flags   map[string]string `yaml:"-"`
	Args    []string          `yaml:"-"`
	Command []string          `yaml:"-"`
}

type Logging struct {
	FilePath string `yaml:"file"`
	Trace    bool   `yaml:"trace"`
}

const (
	DefaultEndpoint = "http://localhost:3000/graphql"
	DefaultTimeout  = 10 * time.Second

	TransportHTTP     = "http"
	TransportFastHTTP = "fasthttp"

	ResetOnSuccess  = "success"
	ResetOptimistic = "optimistic"
)

const (
	envConfigFile  = "TODO_GQL_CONFIG"
	envEndpoint    = "TODO_GQL_ENDPOINT"
	envTransport   = "TODO_GQL_TRANSPORT"
	envTimeout     = "TODO_GQL_TIMEOUT"
	envResetPolicy = "TODO_GQL_RESET_POLICY"
	envTheme       = "TODO_GQL_THEME"
	envCredsDir    = "TODO_GQL_CREDENTIALS_DIR"
	envLogFile     = "TODO_GQL_LOG_FILE"
	envTrace       = "TODO_GQL_TRACE"
	envToken       = "TODO_GQL_TOKEN"
)

// Defaults returns the built-in configuration for the given environment.
func Defaults(env map[string]string) Config {
	return Config{
		Endpoint:       DefaultEndpoint,
		Transport:      TransportHTTP,
		Timeout:        DefaultTimeout,
		ResetPolicy:    ResetOnSuccess,
		Theme:          "classic",
		CredentialsDir: filepath.Join(homeDir(env), ".gqltodo"),
	}
}

// Load parses configuration from CLI arguments, environment variables and
// the optional YAML file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence is
// flag, then environment, then YAML file, then defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	base := Defaults(env)

	file, explicit := findConfigFlag(args)
	if file == "" {
		file, explicit = envOrDefault(env, envConfigFile, ""), true
	}
	if file == "" {
		file, explicit = filepath.Join(configHome(env), "gqltodo", "config.yaml"), false
	}
	if err := LoadYAML(file, &base); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		file = ""
	}

	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", file, "path to a YAML config file")
	endpoint := fs.String("endpoint", envOrDefault(env, envEndpoint, base.Endpoint), "GraphQL endpoint URL")
	transport := fs.String("transport", envOrDefault(env, envTransport, base.Transport), "GraphQL transport: http or fasthttp")
	timeout := fs.Duration("timeout", envOrDuration(env, envTimeout, base.Timeout), "request timeout")
	reset := fs.String("reset", envOrDefault(env, envResetPolicy, base.ResetPolicy), "when to reset a submitted form: success or optimistic")
	theme := fs.String("theme", envOrDefault(env, envTheme, base.Theme), "color theme: classic, neon or mono")
	creds := fs.String("credentials-dir", envOrDefault(env, envCredsDir, base.CredentialsDir), "directory holding credentials.json")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, base.Logging.FilePath), "path to the log file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, base.Logging.Trace), "enable JSON trace logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Endpoint:       strings.TrimSpace(*endpoint),
		Transport:      strings.ToLower(strings.TrimSpace(*transport)),
		Timeout:        *timeout,
		ResetPolicy:    strings.ToLower(strings.TrimSpace(*reset)),
		Theme:          strings.ToLower(strings.TrimSpace(*theme)),
		CredentialsDir: *creds,
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Token: strings.TrimSpace(env[envToken]),
		File:  file,
		Flags: map[string]string{
			"endpoint":        *endpoint,
			"transport":       *transport,
			"timeout":         timeout.String(),
			"reset":           *reset,
			"theme":           *theme,
			"credentials-dir": *creds,
			"logFile":         *logFile,
			"trace":           strconv.FormatBool(*trace),
		},
		Args:    append([]string(nil), args...),
		Command: fs.Args(),
	}
	return cfg, nil
}

// Validate rejects values the client cannot run with.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an http(s) URL (got %q)", cfg.Endpoint)
	}
	switch cfg.Transport {
	case TransportHTTP, TransportFastHTTP:
	default:
		return fmt.Errorf("transport must be %q or %q (got %q)", TransportHTTP, TransportFastHTTP, cfg.Transport)
	}
	switch cfg.ResetPolicy {
	case ResetOnSuccess, ResetOptimistic:
	default:
		return fmt.Errorf("reset policy must be %q or %q (got %q)", ResetOnSuccess, ResetOptimistic, cfg.ResetPolicy)
	}
	switch cfg.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q", cfg.Theme)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}
	return nil
}

var boolFlags = map[string]bool{"trace": true}

// findConfigFlag picks -config/--config out of args before the full parse,
// stopping at the first non-flag argument like flag.Parse does.
func findConfigFlag(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" || !strings.HasPrefix(a, "-") {
			return "", false
		}
		name := strings.TrimLeft(a, "-")
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
		if !strings.Contains(name, "=") && !boolFlags[name] {
			i++
		}
	}
	return "", false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func homeDir(env map[string]string) string {
	if h := env["HOME"]; h != "" {
		return h
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

func configHome(env map[string]string) string {
	if x := env["XDG_CONFIG_HOME"]; x != "" {
		return x
	}
	return filepath.Join(homeDir(env), ".config")
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
