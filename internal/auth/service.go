package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/gqltodo/internal/gql"
	"github.com/idilsaglam/gqltodo/internal/logging/events"
	"github.com/idilsaglam/gqltodo/internal/state"
)

var (
	// ErrMissingFields is returned when a required field is blank.
	ErrMissingFields = errors.New("all fields are required")
	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrRejected is returned when the server answers without a user.
	ErrRejected = errors.New("the server rejected the credentials")
	// ErrNotSignedIn is returned by operations that need a session.
	ErrNotSignedIn = errors.New("not signed in")
)

const MinPasswordLength = 6

// SignUpInput holds the sign-up form.
type SignUpInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Validate checks the form before anything is sent.
func (in SignUpInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" ||
		in.Password == "" || in.PasswordConfirmation == "" {
		return ErrMissingFields
	}
	if in.Password != in.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	if len([]rune(in.Password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Service runs the auth flows and keeps the store's session in sync.
type Service struct {
	store   *state.Store
	vault   *Vault
	signIn  gql.ExecuteFunc
	signUp  gql.ExecuteFunc
	signOut gql.ExecuteFunc
}

// NewService wires the auth mutations of client to store and vault.
func NewService(client *gql.Client, store *state.Store, vault *Vault) *Service {
	_, signIn := client.Mutation(gql.SignInUser)
	_, signUp := client.Mutation(gql.SignUpUser)
	_, signOut := client.Mutation(gql.SignOutUser)
	return &Service{store: store, vault: vault, signIn: signIn, signUp: signUp, signOut: signOut}
}

// Restore marks the session signed in when credentials are stored.
func (s *Service) Restore() error {
	c, err := s.vault.Get()
	if err != nil {
		return err
	}
	if c == nil || c.User == nil {
		s.store.SetUser(nil)
		return nil
	}
	u := *c.User
	s.store.SetUser(&u)
	return nil
}

// SignIn authenticates with email and password.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		events.Auth.Rejected("signin", "missing fields")
		return ErrMissingFields
	}
	return s.authenticate(ctx, "signin", s.signIn, gql.SignInVars(email, password))
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) error {
	if err := in.Validate(); err != nil {
		events.Auth.Rejected("signup", err.Error())
		return err
	}
	vars := gql.SignUpVars(strings.TrimSpace(in.Username), strings.TrimSpace(in.Email), in.Password, in.PasswordConfirmation)
	return s.authenticate(ctx, "signup", s.signUp, vars)
}

func (s *Service) authenticate(ctx context.Context, flow string, run gql.ExecuteFunc, vars gql.Variables) error {
	s.store.SetLoading(true)
	defer func() {
		if s.store.State().Session.Loading {
			s.store.SetLoading(false)
		}
	}()

	res := run(ctx, vars)
	if res.Err != nil {
		return fmt.Errorf("%s: %w", flow, res.Err)
	}
	if res.AuthData == nil || res.AuthData.User == nil {
		events.Auth.Rejected(flow, "no user in payload")
		return ErrRejected
	}
	user := *res.AuthData.User
	if err := s.vault.Save(res.AuthData.Token, &user); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.store.LoginSuccess(user)
	events.Auth.SignedIn(user.ID, "file")
	return nil
}

// SignOut ends the session on the server and locally. The local session is
// cleared even when the server call fails; that failure is still returned.
func (s *Service) SignOut(ctx context.Context) error {
	var userID string
	if u := s.store.State().Session.User; u != nil {
		userID = u.ID
	}
	res := s.signOut(ctx, gql.SignOutVars())

	s.store.Logout()
	events.Auth.SignedOut(userID)
	var errs []error
	if c, _ := s.vault.Get(); c == nil || c.Source != "env" {
		if err := s.vault.Delete(); err != nil {
			errs = append(errs, err)
		}
	}
	if res.Err != nil {
		errs = append(errs, fmt.Errorf("signout: %w", res.Err))
	}
	return errors.Join(errs...)
}

// Vault exposes the credential store.
func (s *Service) Vault() *Vault { return s.vault }
