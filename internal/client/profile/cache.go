// Package profile mirrors the signed-in user's details into the encrypted
// "userData" slot. The mirror is informational and never used to authenticate.
package profile

import (
	"context"

	"github.com/dmitrijs2005/localauth/internal/client/models"
	"github.com/dmitrijs2005/localauth/internal/client/slots"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/logging"
)

type Cache struct {
	store slots.Store
	codec *cryptox.Codec
	log   logging.Logger
}

func NewCache(store slots.Store, codec *cryptox.Codec, log logging.Logger) *Cache {
	return &Cache{store: store, codec: codec, log: log.With("component", "profile")}
}

func (c *Cache) Save(ctx context.Context, p models.Profile) bool {
	p.Email = models.NormalizeEmail(p.Email)

	blob, err := cryptox.SealJSON(ctx, c.codec, p)
	if err != nil {
		c.log.Error(ctx, "profile save failed", "email", p.Email, "error", err)
		return false
	}
	if err := c.store.Write(ctx, slots.UserData, blob); err != nil {
		c.log.Error(ctx, "profile save failed", "email", p.Email, "error", err)
		return false
	}
	return true
}

func (c *Cache) Load(ctx context.Context) (models.Profile, bool) {
	blob, ok, err := c.store.Read(ctx, slots.UserData)
	if err != nil {
		c.log.Error(ctx, "profile read failed", "error", err)
		return models.Profile{}, false
	}
	if !ok {
		return models.Profile{}, false
	}

	raw, err := cryptox.OpenJSON(ctx, c.codec, blob)
	if err != nil {
		c.log.Warn(ctx, "profile slot unreadable", "error", err)
		return models.Profile{}, false
	}
	p, err := models.DecodeProfile(raw)
	if err != nil {
		c.log.Warn(ctx, "profile slot unreadable", "error", err)
		return models.Profile{}, false
	}
	return p, true
}

func (c *Cache) Clear(ctx context.Context) bool {
	if err := c.store.Clear(ctx, slots.UserData); err != nil {
		c.log.Error(ctx, "profile clear failed", "error", err)
		return false
	}
	return true
}
