// Package session manages the single active login record kept in the
// encrypted "session" slot.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/localauth/internal/client/models"
	"github.com/dmitrijs2005/localauth/internal/client/slots"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type Manager struct {
	store slots.Store
	codec *cryptox.Codec
	clock Clock
	newID func() string
	log   logging.Logger
}

type Option func(*Manager)

// WithClock replaces the wall clock used to stamp new sessions.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func NewManager(store slots.Store, codec *cryptox.Codec, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		codec: codec,
		clock: realClock{},
		newID: uuid.NewString,
		log:   log.With("component", "session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create replaces the stored session with a new one for email.
func (m *Manager) Create(ctx context.Context, email string) bool {
	email = models.NormalizeEmail(email)
	if email == "" {
		m.log.Warn(ctx, "session create rejected", "error", errors.New("empty email"))
		return false
	}

	s := models.Session{
		ID:        m.newID(),
		Email:     email,
		Timestamp: m.clock.Now().UnixMilli(),
	}

	blob, err := cryptox.SealJSON(ctx, m.codec, s)
	if err != nil {
		m.log.Error(ctx, "session create failed", "email", email, "error", err)
		return false
	}
	if err := m.store.Write(ctx, slots.Session, blob); err != nil {
		m.log.Error(ctx, "session create failed", "email", email, "error", err)
		return false
	}

	m.log.Info(ctx, "session created", "email", email, "session_id", s.ID)
	return true
}

// Current returns the active session. Absent, undecryptable and malformed
// records are all reported as ok=false.
func (m *Manager) Current(ctx context.Context) (models.Session, bool) {
	blob, ok, err := m.store.Read(ctx, slots.Session)
	if err != nil {
		m.log.Error(ctx, "session read failed", "error", err)
		return models.Session{}, false
	}
	if !ok {
		return models.Session{}, false
	}

	raw, err := cryptox.OpenJSON(ctx, m.codec, blob)
	if err != nil {
		m.log.Warn(ctx, "session slot unreadable", "error", err)
		return models.Session{}, false
	}
	s, err := models.DecodeSession(raw)
	if err != nil {
		m.log.Warn(ctx, "session slot unreadable", "error", err)
		return models.Session{}, false
	}
	return s, true
}

func (m *Manager) Clear(ctx context.Context) bool {
	if err := m.store.Clear(ctx, slots.Session); err != nil {
		m.log.Error(ctx, "session clear failed", "error", err)
		return false
	}
	m.log.Info(ctx, "session cleared")
	return true
}
