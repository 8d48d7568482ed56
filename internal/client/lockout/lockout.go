// Package lockout implements the login attempt counter as an immutable state
// machine. The caller owns the State value, passes it into Attempt and keeps
// the one that comes back.
package lockout

import "github.com/dmitrijs2005/localauth/internal/client/models"

// MaxAttempts is the number of consecutive failures that locks the form.
const MaxAttempts = 5

// State is either Active(n) with 0 <= n < MaxAttempts, or LockedOut.
type State struct {
	failed int
	locked bool
}

// Initial returns Active(0).
func Initial() State {
	return State{}
}

func (s State) FailedAttempts() int {
	return s.failed
}

func (s State) IsLockedOut() bool {
	return s.locked
}

// Remaining is the number of failures left before lockout.
func (s State) Remaining() int {
	if s.locked {
		return 0
	}
	return MaxAttempts - s.failed
}

// Failed records a failed validation.
func (s State) Failed() State {
	if s.locked {
		return s
	}
	n := s.failed + 1
	if n >= MaxAttempts {
		return State{failed: MaxAttempts, locked: true}
	}
	return State{failed: n}
}

// Succeeded resets the counter.
func (s State) Succeeded() State {
	return Initial()
}

// EmailChanged resets the counter, lifting a lockout.
func (s State) EmailChanged() State {
	return Initial()
}

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalidCredentials
	OutcomeLockedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalidCredentials:
		return "invalid credentials"
	case OutcomeLockedOut:
		return "locked out"
	default:
		return "unknown"
	}
}

// Attempt gates validate behind the lockout. A locked state is returned
// unchanged with OutcomeLockedOut and validate is not called.
func Attempt(s State, validate func() bool) (State, Outcome) {
	if s.locked {
		return s, OutcomeLockedOut
	}
	if validate() {
		return s.Succeeded(), OutcomeSuccess
	}
	return s.Failed(), OutcomeInvalidCredentials
}

// Tracker pairs a State with the email it applies to, so entering a
// different address resets the count. The zero value is ready to use.
type Tracker struct {
	email string
	state State
}

// For returns the state for email, applying EmailChanged when it differs
// from the last one seen.
func (t Tracker) For(email string) (Tracker, State) {
	email = models.NormalizeEmail(email)
	if email != t.email {
		return Tracker{email: email, state: t.state.EmailChanged()}, Initial()
	}
	return t, t.state
}

// Record stores the state returned by Attempt.
func (t Tracker) Record(s State) Tracker {
	t.state = s
	return t
}

func (t Tracker) State() State {
	return t.state
}
