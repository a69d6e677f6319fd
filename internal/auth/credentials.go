package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/gqltodo/internal/model"
)

const credFileName = "credentials.json"

// Credentials is what the client remembers between runs.
type Credentials struct {
	Token     string      `json:"token"`
	Source    string      `json:"source"`     // "env" | "file"
	User      *model.User `json:"user"`       // as returned by sign-in/sign-up
	CreatedAt time.Time   `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time  `json:"expires_at"` // from the JWT exp claim when present
}

// Vault reads and writes credentials.json under dir.
type Vault struct {
	dir      string
	envToken string

	mu     sync.Mutex
	cached *Credentials
	loaded bool
}

// NewVault returns a vault rooted at dir. envToken, when non-empty, wins over
// the file.
func NewVault(dir, envToken string) *Vault {
	return &Vault{dir: dir, envToken: strings.TrimSpace(envToken)}
}

func (v *Vault) path() string { return filepath.Join(v.dir, credFileName) }

// Get returns the active credentials or nil when signed out.
func (v *Vault) Get() (*Credentials, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.load()
}

func (v *Vault) load() (*Credentials, error) {
	if v.envToken != "" {
		c := &Credentials{Token: stripBearer(v.envToken), Source: "env"}
		if claims, err := ParseClaims(c.Token); err == nil {
			c.ExpiresAt = claims.ExpiresAt
			if claims.Subject != "" || claims.Email != "" {
				c.User = &model.User{ID: claims.Subject, Email: claims.Email}
			}
		}
		return c, nil
	}
	if v.loaded {
		return v.cached, nil
	}
	b, err := os.ReadFile(v.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			v.loaded, v.cached = true, nil
			return nil, nil // not signed in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.Token = stripBearer(c.Token)
	c.Source = "file"
	v.loaded, v.cached = true, &c
	return &c, nil
}

// Save persists token and user. An empty token is allowed when the server
// relies on something other than bearer auth; the user is still remembered.
func (v *Vault) Save(token string, user *model.User) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" && user == nil {
		return fmt.Errorf("empty credentials")
	}
	if err := os.MkdirAll(v.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	c := Credentials{
		Token:     token,
		Source:    "file",
		User:      user,
		CreatedAt: time.Now(),
	}
	if claims, err := ParseClaims(token); err == nil {
		c.ExpiresAt = claims.ExpiresAt
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// owner-only, the file holds a bearer token
	if err := os.WriteFile(v.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	v.mu.Lock()
	v.loaded, v.cached = true, &c
	v.mu.Unlock()
	return nil
}

// Delete removes the stored credentials. Missing files are not an error.
func (v *Vault) Delete() error {
	v.mu.Lock()
	v.loaded, v.cached = true, nil
	v.mu.Unlock()
	if err := os.Remove(v.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Token returns the current bearer token or "". It matches gql.TokenSource.
func (v *Vault) Token() string {
	c, err := v.Get()
	if err != nil || c == nil {
		return ""
	}
	return c.Token
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
