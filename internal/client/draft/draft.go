// Package draft persists the partially filled signup form so it survives a
// restart. The draft is stored unencrypted and never holds a password.
package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/localauth/internal/client/models"
	"github.com/dmitrijs2005/localauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/localauth/internal/logging"
)

const Key = "signup_draft"

type Store struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "draft")}
}

func (s *Store) Save(ctx context.Context, d models.SignupDraft) error {
	if d.IsEmpty() {
		return s.Clear(ctx)
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode signup draft: %w", err)
	}
	return s.repo.Set(ctx, Key, data)
}

// Load returns the saved draft. An unreadable entry is dropped and reported
// as absent.
func (s *Store) Load(ctx context.Context) (models.SignupDraft, bool) {
	data, ok, err := s.repo.Get(ctx, Key)
	if err != nil {
		s.log.Warn(ctx, "signup draft read failed", "error", err)
		return models.SignupDraft{}, false
	}
	if !ok {
		return models.SignupDraft{}, false
	}

	var d models.SignupDraft
	if err := json.Unmarshal(data, &d); err != nil {
		s.log.Warn(ctx, "signup draft unreadable, discarding", "error", err)
		_ = s.repo.Delete(ctx, Key)
		return models.SignupDraft{}, false
	}
	return d, !d.IsEmpty()
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, Key)
}
