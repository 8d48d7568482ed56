package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// updateAttempts bounds how often Update retries after a concurrent write
// invalidated its WATCH.
const updateAttempts = 3

// RedisStore keeps each slot under "<prefix>:<service>:<account>" without expiry.
type RedisStore struct {
	client    redis.UniversalClient
	prefix    string
	namespace string
}

func NewRedisStore(client redis.UniversalClient, prefix, namespace string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, namespace: namespace}
}

func (r *RedisStore) key(slot SlotID) string {
	id := slot.Identifier(r.namespace)
	return fmt.Sprintf("%s:%s:%s", r.prefix, id.Service, id.Account)
}

func (r *RedisStore) Write(ctx context.Context, slot SlotID, blob string) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(slot), blob, 0).Err(); err != nil {
		return unavailable("write", slot, err)
	}
	return nil
}

func (r *RedisStore) Read(ctx context.Context, slot SlotID) (string, bool, error) {
	if err := slot.Validate(); err != nil {
		return "", false, err
	}
	blob, err := r.client.Get(ctx, r.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("read", slot, err)
	}
	return blob, true, nil
}

func (r *RedisStore) Clear(ctx context.Context, slot SlotID) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		return unavailable("clear", slot, err)
	}
	return nil
}

// Update runs fn under WATCH and stores its result in a MULTI/EXEC block, so a
// concurrent write to the slot makes the transaction fail and fn run again.
func (r *RedisStore) Update(ctx context.Context, slot SlotID, fn UpdateFunc) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	key := r.key(slot)

	var fnErr error
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			current, ok = "", false
		} else if err != nil {
			return err
		}

		next, err := fn(current, ok)
		if err != nil {
			fnErr = err
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	var err error
	for range updateAttempts {
		err = r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	switch {
	case err == nil:
		return nil
	case fnErr != nil && errors.Is(err, fnErr):
		return fnErr
	default:
		return unavailable("update", slot, err)
	}
}
