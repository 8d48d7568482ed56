package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/localauth/internal/client/lockout"
	"github.com/dmitrijs2005/localauth/internal/client/models"
	"github.com/dmitrijs2005/localauth/internal/client/services"
	"github.com/dmitrijs2005/localauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	errEmailRequired    = errors.New("email is required")
	errPasswordMismatch = errors.New("passwords do not match")
	errAlreadyLoggedIn  = errors.New("already logged in")
)

// Signup walks through the signup form. Every answered field is saved to the
// draft so an interrupted signup resumes where it stopped; an empty answer
// keeps the value shown in brackets. The draft is dropped once the account
// is stored.
func (a *App) Signup(ctx context.Context) error {
	d, _ := a.drafts.Load(ctx)

	fields := []struct {
		prompt string
		value  *string
	}{
		{"Enter email", &d.Email},
		{"Enter first name", &d.FirstName},
		{"Enter last name", &d.LastName},
		{"Enter phone number", &d.PhoneNumber},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, withDefault(f.prompt, *f.value), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.value = v
		}
		if err := a.drafts.Save(ctx, d); err != nil {
			a.log.Warn(ctx, "signup draft not saved", "error", err)
		}
	}

	if models.NormalizeEmail(d.Email) == "" {
		printlnFn("Email is required")
		return errEmailRequired
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		printlnFn("Passwords do not match")
		return errPasswordMismatch
	}

	p, err := a.authService.Signup(ctx, models.Credential{
		Email:       d.Email,
		Password:    string(password),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		PhoneNumber: d.PhoneNumber,
	})
	if err != nil {
		printlnFn("Signup failed:", err)
		return err
	}

	if err := a.drafts.Clear(ctx); err != nil {
		a.log.Warn(ctx, "signup draft not cleared", "error", err)
	}
	a.profile = &p
	a.tracker = lockout.Tracker{}
	printlnFn(fmt.Sprintf("Welcome, %s!", p.DisplayName()))
	return nil
}

// Login prompts for credentials and authenticates. The lockout state is kept
// per entered email: after MaxAttempts failures further attempts for that
// email are refused without asking for the password.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn(fmt.Sprintf("Already logged in as %s, use 'logout' first", a.profile.Email))
		return errAlreadyLoggedIn
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	tracker, st := a.tracker.For(email)
	a.tracker = tracker
	if st.IsLockedOut() {
		printlnFn("Too many failed attempts. Enter a different email to try again.")
		return services.ErrLockedOut
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	st, p, err := a.authService.Login(ctx, st, email, string(password))
	a.tracker = a.tracker.Record(st)

	switch {
	case err == nil:
		a.profile = &p
		printlnFn(fmt.Sprintf("Logged in as %s", p.DisplayName()))
	case errors.Is(err, services.ErrLockedOut):
		printlnFn("Too many failed attempts. Enter a different email to try again.")
	case errors.Is(err, services.ErrInvalidCredentials):
		printlnFn(fmt.Sprintf("Invalid email or password (%d attempts left)", st.Remaining()))
	default:
		printlnFn("Login failed:", err)
	}
	return err
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}
	p := a.profile
	printlnFn(fmt.Sprintf("%s <%s>", p.DisplayName(), p.Email))
	if p.PhoneNumber != "" {
		printlnFn("Phone:", p.PhoneNumber)
	}
	return nil
}

// Logout ends the session. Stored accounts stay in place.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	a.profile = nil
	a.tracker = lockout.Tracker{}
	printlnFn("Logged out")
	return nil
}
