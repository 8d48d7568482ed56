// Package credentials keeps the list of registered accounts in the encrypted
// "credentials" slot.
//
// The whole list is one blob: every change loads it, edits it in memory and
// writes it back. Upserts are serialized by a mutex and, on backends that
// implement slots.Updater, additionally run as one storage transaction, so
// concurrent signups cannot lose each other's writes.
//
// Every method is total. Storage and decode failures are logged and turned
// into false / empty results.
package credentials

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/localauth/internal/client/models"
	"github.com/dmitrijs2005/localauth/internal/client/slots"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/logging"
)

var errEmptyEmail = errors.New("empty email")

type Repository struct {
	store  slots.Store
	codec  *cryptox.Codec
	hasher PasswordHasher
	log    logging.Logger

	mu sync.Mutex
}

type Option func(*Repository)

func WithPasswordHasher(h PasswordHasher) Option {
	return func(r *Repository) { r.hasher = h }
}

func NewRepository(store slots.Store, codec *cryptox.Codec, log logging.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		codec:  codec,
		hasher: PlainPasswords(),
		log:    log.With("component", "credentials"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upsert stores c, replacing the entry with the same normalized email in
// place or appending a new one. It reports whether the list was persisted.
func (r *Repository) Upsert(ctx context.Context, c models.Credential) bool {
	c.Email = models.NormalizeEmail(c.Email)
	if c.Email == "" {
		r.log.Warn(ctx, "credential upsert rejected", "error", errEmptyEmail)
		return false
	}

	stored, err := r.hasher.Hash(c.Password)
	if err != nil {
		r.log.Error(ctx, "credential upsert failed", "email", c.Email, "error", err)
		return false
	}
	c.Password = stored

	r.mu.Lock()
	defer r.mu.Unlock()

	mutate := func(current string, ok bool) (string, error) {
		list := r.decode(ctx, current, ok)
		return cryptox.SealJSON(ctx, r.codec, upsertInto(list, c))
	}

	if u, ok := r.store.(slots.Updater); ok {
		err = u.Update(ctx, slots.Credentials, mutate)
	} else {
		err = r.readModifyWrite(ctx, mutate)
	}
	if err != nil {
		r.log.Error(ctx, "credential upsert failed", "email", c.Email, "error", err)
		return false
	}

	r.log.Debug(ctx, "credential stored", "email", c.Email)
	return true
}

func (r *Repository) readModifyWrite(ctx context.Context, fn slots.UpdateFunc) error {
	current, ok, err := r.store.Read(ctx, slots.Credentials)
	if err != nil {
		return err
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, slots.Credentials, next)
}

func upsertInto(list []models.Credential, c models.Credential) []models.Credential {
	for i := range list {
		if models.NormalizeEmail(list[i].Email) == c.Email {
			list[i] = c
			return list
		}
	}
	return append(list, c)
}

// decode turns a slot value into a list; anything unreadable counts as empty.
func (r *Repository) decode(ctx context.Context, blob string, ok bool) []models.Credential {
	if !ok {
		return []models.Credential{}
	}

	raw, err := cryptox.OpenJSON(ctx, r.codec, blob)
	if err != nil {
		r.log.Warn(ctx, "credentials slot unreadable, treating as empty", "error", err)
		return []models.Credential{}
	}

	list, err := models.DecodeCredentialList(raw)
	if err != nil {
		r.log.Warn(ctx, "credentials slot unreadable, treating as empty", "error", err)
		return []models.Credential{}
	}
	return list
}

// List returns every stored credential in insertion order.
func (r *Repository) List(ctx context.Context) []models.Credential {
	blob, ok, err := r.store.Read(ctx, slots.Credentials)
	if err != nil {
		r.log.Error(ctx, "credentials read failed", "error", err)
		return []models.Credential{}
	}
	return r.decode(ctx, blob, ok)
}

// FindByEmail returns the credential whose normalized email matches.
func (r *Repository) FindByEmail(ctx context.Context, email string) (models.Credential, bool) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return models.Credential{}, false
	}

	for _, c := range r.List(ctx) {
		if models.NormalizeEmail(c.Email) == email {
			return c, true
		}
	}
	return models.Credential{}, false
}

// Validate reports whether email is registered with exactly this password.
func (r *Repository) Validate(ctx context.Context, email, password string) bool {
	if password == "" {
		return false
	}
	c, ok := r.FindByEmail(ctx, email)
	if !ok {
		return false
	}
	return r.hasher.Matches(c.Password, password)
}
