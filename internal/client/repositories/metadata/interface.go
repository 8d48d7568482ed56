// Package metadata is a small unencrypted key/value store for local UI state
// that does not belong in the secure slots.
package metadata

import (
	"context"
)

type Repository interface {
	// Get reports ok=false when key has never been set or was deleted.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
