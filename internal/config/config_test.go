package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolatedEnv(t *testing.T, extra ...string) []string {
	t.Helper()
	home := t.TempDir()
	return append([]string{"HOME=" + home, "XDG_CONFIG_HOME=" + filepath.Join(home, "cfg")}, extra...)
}

func TestLoadArgsDefaults(t *testing.T) {
	env := isolatedEnv(t)
	cfg, err := LoadArgs([]string{"ls"}, env)
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, ResetOnSuccess, cfg.ResetPolicy)
	assert.Equal(t, []string{"ls"}, cfg.Command)
	assert.Empty(t, cfg.File)
	assert.NoError(t, Validate(cfg))
}

func TestLoadArgsPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: http://file.example/graphql
transport: fasthttp
timeout: 3s
theme: neon
logging:
  trace: true
`), 0o600))

	env := isolatedEnv(t, "TODO_GQL_ENDPOINT=http://env.example/graphql")
	cfg, err := LoadArgs([]string{"--config", path, "--theme", "mono", "add", "milk"}, env)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "http://env.example/graphql", cfg.Endpoint, "env beats file")
	assert.Equal(t, TransportFastHTTP, cfg.Transport, "file beats default")
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "mono", cfg.Theme, "flag beats file")
	assert.True(t, cfg.Logging.Trace)
	assert.Equal(t, []string{"add", "milk"}, cfg.Command)
	assert.Equal(t, "true", cfg.Flags["trace"])
}

func TestLoadArgsDefaultFileLocation(t *testing.T) {
	env := isolatedEnv(t)
	cfgHome := parseEnv(env)["XDG_CONFIG_HOME"]
	require.NoError(t, os.MkdirAll(filepath.Join(cfgHome, "gqltodo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgHome, "gqltodo", "config.yaml"), []byte("reset_policy: optimistic\n"), 0o600))

	cfg, err := LoadArgs(nil, env)
	require.NoError(t, err)
	assert.Equal(t, ResetOptimistic, cfg.ResetPolicy)
}

func TestLoadArgsMissingExplicitFile(t *testing.T) {
	_, err := LoadArgs([]string{"--config=/nope/config.yaml"}, isolatedEnv(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadArgsBadFlag(t *testing.T) {
	_, err := LoadArgs([]string{"--timeout", "soon"}, isolatedEnv(t))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := Defaults(map[string]string{"HOME": "/tmp"})
	require.NoError(t, Validate(good))

	cases := map[string]func(*Config){
		"endpoint":  func(c *Config) { c.Endpoint = "localhost:3000" },
		"transport": func(c *Config) { c.Transport = "grpc" },
		"reset":     func(c *Config) { c.ResetPolicy = "never" },
		"theme":     func(c *Config) { c.Theme = "solarized" },
		"timeout":   func(c *Config) { c.Timeout = 0 },
	}
	for name, mutate := range cases {
		cfg := good
		mutate(&cfg)
		assert.Error(t, Validate(cfg), name)
	}
}

func TestSaveYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Defaults(map[string]string{"HOME": "/home/u"})
	cfg.Transport = TransportFastHTTP
	require.NoError(t, SaveYAML(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	var back Config
	require.NoError(t, LoadYAML(path, &back))
	assert.Equal(t, cfg.Transport, back.Transport)
	assert.Equal(t, cfg.Timeout, back.Timeout)
	assert.Equal(t, cfg.CredentialsDir, back.CredentialsDir)
}

func TestFindConfigFlag(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"-config", "a.yaml"}, "a.yaml"},
		{[]string{"--trace", "--config=b.yaml"}, "b.yaml"},
		{[]string{"ls", "--config", "c.yaml"}, ""},
		{[]string{"--theme", "mono", "--config", "d.yaml"}, "d.yaml"},
		{nil, ""},
	}
	for _, tc := range cases {
		got, _ := findConfigFlag(tc.args)
		assert.Equal(t, tc.want, got, "%v", tc.args)
	}
}

func TestLoadArgsTokenFromEnv(t *testing.T) {
	env := isolatedEnv(t, "TODO_GQL_TOKEN=  abc.def.ghi ")
	cfg, err := LoadArgs(nil, env)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", cfg.Token)
}
