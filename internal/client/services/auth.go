// Package services wires the credential repository, session manager, profile
// mirror and lockout counter into the signup, login, restore and logout flows
// used by the terminal client.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/localauth/internal/client/lockout"
	"github.com/dmitrijs2005/localauth/internal/client/models"
	"github.com/dmitrijs2005/localauth/internal/logging"
)

var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrSignupFailed       = errors.New("could not save account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLockedOut          = errors.New("too many failed attempts")
	ErrSessionFailed      = errors.New("could not update session")
)

type CredentialStore interface {
	Upsert(ctx context.Context, c models.Credential) bool
	Validate(ctx context.Context, email, password string) bool
	FindByEmail(ctx context.Context, email string) (models.Credential, bool)
}

type SessionStore interface {
	Create(ctx context.Context, email string) bool
	Current(ctx context.Context) (models.Session, bool)
	Clear(ctx context.Context) bool
}

type ProfileStore interface {
	Save(ctx context.Context, p models.Profile) bool
	Clear(ctx context.Context) bool
}

// AuthService defines the authentication flows offered to the CLI.
//
// Login takes the caller's lockout state and returns the next one; the
// service keeps no attempt counter of its own.
type AuthService interface {
	Signup(ctx context.Context, c models.Credential) (models.Profile, error)
	Login(ctx context.Context, st lockout.State, email, password string) (lockout.State, models.Profile, error)
	Restore(ctx context.Context) (models.Profile, bool)
	Logout(ctx context.Context) error
}

type authService struct {
	credentials CredentialStore
	sessions    SessionStore
	profiles    ProfileStore
	log         logging.Logger
}

func NewAuthService(credentials CredentialStore, sessions SessionStore, profiles ProfileStore, log logging.Logger) AuthService {
	return &authService{
		credentials: credentials,
		sessions:    sessions,
		profiles:    profiles,
		log:         log.With("component", "auth"),
	}
}

// Signup stores c (replacing any account with the same email), then opens a
// session for it.
func (a *authService) Signup(ctx context.Context, c models.Credential) (models.Profile, error) {
	c.Email = models.NormalizeEmail(c.Email)
	if c.Email == "" || c.Password == "" {
		return models.Profile{}, ErrInvalidInput
	}
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)

	if !a.credentials.Upsert(ctx, c) {
		return models.Profile{}, ErrSignupFailed
	}
	if !a.sessions.Create(ctx, c.Email) {
		return models.Profile{}, ErrSessionFailed
	}

	p := c.Profile()
	a.mirror(ctx, p)
	a.log.Info(ctx, "signup completed", "email", p.Email)
	return p, nil
}

// Login checks the lockout gate, validates the credentials and opens a
// session on success.
func (a *authService) Login(ctx context.Context, st lockout.State, email, password string) (lockout.State, models.Profile, error) {
	email = models.NormalizeEmail(email)

	next, outcome := lockout.Attempt(st, func() bool {
		return a.credentials.Validate(ctx, email, password)
	})

	switch outcome {
	case lockout.OutcomeLockedOut:
		a.log.Warn(ctx, "login rejected", "email", email, "reason", outcome.String())
		return next, models.Profile{}, ErrLockedOut
	case lockout.OutcomeInvalidCredentials:
		a.log.Info(ctx, "login failed", "email", email, "failed_attempts", next.FailedAttempts())
		if next.IsLockedOut() {
			return next, models.Profile{}, ErrLockedOut
		}
		return next, models.Profile{}, ErrInvalidCredentials
	}

	c, ok := a.credentials.FindByEmail(ctx, email)
	if !ok {
		// validated a moment ago; the slot became unreadable in between
		return next, models.Profile{}, ErrInvalidCredentials
	}
	if !a.sessions.Create(ctx, email) {
		return next, models.Profile{}, ErrSessionFailed
	}

	p := c.Profile()
	a.mirror(ctx, p)
	a.log.Info(ctx, "login succeeded", "email", email)
	return next, p, nil
}

// Restore resumes the stored session. It reports false when there is no
// session or its account no longer exists, in which case the caller should
// ask for a login.
func (a *authService) Restore(ctx context.Context) (models.Profile, bool) {
	s, ok := a.sessions.Current(ctx)
	if !ok {
		return models.Profile{}, false
	}
	c, ok := a.credentials.FindByEmail(ctx, s.Email)
	if !ok {
		a.log.Warn(ctx, "session refers to unknown account", "email", s.Email)
		return models.Profile{}, false
	}

	p := c.Profile()
	a.mirror(ctx, p)
	return p, true
}

// Logout ends the session. Stored credentials are left untouched.
func (a *authService) Logout(ctx context.Context) error {
	if !a.sessions.Clear(ctx) {
		return ErrSessionFailed
	}
	if !a.profiles.Clear(ctx) {
		a.log.Warn(ctx, "profile mirror not cleared")
	}
	return nil
}

func (a *authService) mirror(ctx context.Context, p models.Profile) {
	if !a.profiles.Save(ctx, p) {
		a.log.Warn(ctx, "profile mirror not updated", "email", p.Email)
	}
}
