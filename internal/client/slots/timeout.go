package slots

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type timeoutStore struct {
	inner   Store
	timeout time.Duration

	// gates holds one single-slot semaphore per SlotID. A call keeps its
	// slot's gate until the backend actually returns, even after the caller
	// got ErrTimeout, so an abandoned write cannot land after a later call.
	gates sync.Map
}

type timeoutUpdater struct {
	*timeoutStore
	updater Updater
}

// WithTimeout bounds every call on s by d. A call still running when d
// elapses is abandoned and reported as ErrTimeout. Calls on the same slot
// run one at a time; waiting for a slot held by an abandoned call counts
// against d. The returned Store implements Updater whenever s does.
func WithTimeout(s Store, d time.Duration) Store {
	t := &timeoutStore{inner: s, timeout: d}
	if u, ok := s.(Updater); ok {
		return &timeoutUpdater{timeoutStore: t, updater: u}
	}
	return t
}

func (t *timeoutStore) gate(slot SlotID) chan struct{} {
	g, _ := t.gates.LoadOrStore(slot, make(chan struct{}, 1))
	return g.(chan struct{})
}

func (t *timeoutStore) run(ctx context.Context, slot SlotID, op func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if ctx.Err() != nil {
		return t.expired(ctx, slot)
	}

	gate := t.gate(slot)
	select {
	case gate <- struct{}{}:
	case <-ctx.Done():
		return t.expired(ctx, slot)
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-gate }()
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: slot[%s]: %w", ErrTimeout, slot, err)
		}
		return err
	case <-ctx.Done():
		return t.expired(ctx, slot)
	}
}

func (t *timeoutStore) expired(ctx context.Context, slot SlotID) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: slot[%s] after %s", ErrTimeout, slot, t.timeout)
	}
	return unavailable("access", slot, ctx.Err())
}

func (t *timeoutStore) Write(ctx context.Context, slot SlotID, blob string) error {
	return t.run(ctx, slot, func(ctx context.Context) error {
		return t.inner.Write(ctx, slot, blob)
	})
}

func (t *timeoutStore) Read(ctx context.Context, slot SlotID) (string, bool, error) {
	var (
		blob string
		ok   bool
	)
	err := t.run(ctx, slot, func(ctx context.Context) error {
		var err error
		blob, ok, err = t.inner.Read(ctx, slot)
		return err
	})
	if err != nil {
		return "", false, err
	}
	return blob, ok, nil
}

func (t *timeoutStore) Clear(ctx context.Context, slot SlotID) error {
	return t.run(ctx, slot, func(ctx context.Context) error {
		return t.inner.Clear(ctx, slot)
	})
}

func (t *timeoutUpdater) Update(ctx context.Context, slot SlotID, fn UpdateFunc) error {
	return t.run(ctx, slot, func(ctx context.Context) error {
		return t.updater.Update(ctx, slot, fn)
	})
}
