package slots

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hangingStore never answers until its context is done or release is closed,
// ignoring the context like a stuck platform keychain call would.
type hangingStore struct {
	release chan struct{}
}

func (h *hangingStore) Write(context.Context, SlotID, string) error {
	<-h.release
	return nil
}
func (h *hangingStore) Read(context.Context, SlotID) (string, bool, error) {
	<-h.release
	return "late", true, nil
}
func (h *hangingStore) Clear(context.Context, SlotID) error {
	<-h.release
	return nil
}

func TestWithTimeout_HungCallBecomesTimeout(t *testing.T) {
	h := &hangingStore{release: make(chan struct{})}
	t.Cleanup(func() { close(h.release) })
	s := WithTimeout(h, 20*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.ErrorIs(t, s.Write(ctx, Session, "x"), ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)

	blob, ok, err := s.Read(ctx, Session)
	require.ErrorIs(t, err, ErrTimeout)
	assert.False(t, ok)
	assert.Empty(t, blob)

	require.ErrorIs(t, s.Clear(ctx, Session), ErrTimeout)

	_, isUpdater := s.(Updater)
	assert.False(t, isUpdater, "hangingStore cannot update atomically")
}

func TestWithTimeout_PassesThrough(t *testing.T) {
	s := WithTimeout(NewMemoryStore(), time.Second)
	storeContract(t, s)

	u, ok := s.(Updater)
	require.True(t, ok, "memory store updater must be preserved")
	require.NoError(t, u.Update(context.Background(), UserData, func(string, bool) (string, error) {
		return "u", nil
	}))
	blob, _, err := s.Read(context.Background(), UserData)
	require.NoError(t, err)
	assert.Equal(t, "u", blob)
}

func TestWithTimeout_ParentCancel(t *testing.T) {
	h := &hangingStore{release: make(chan struct{})}
	t.Cleanup(func() { close(h.release) })
	s := WithTimeout(h, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Write(ctx, Session, "x")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrTimeout)
}

// slowFirstWrite blocks its first Write until release is closed, then
// completes it against the wrapped memory store.
type slowFirstWrite struct {
	*MemoryStore
	release chan struct{}
	writes  atomic.Int32
}

func (s *slowFirstWrite) Write(ctx context.Context, slot SlotID, blob string) error {
	if s.writes.Add(1) == 1 {
		<-s.release
		return s.MemoryStore.Write(context.Background(), slot, blob)
	}
	return s.MemoryStore.Write(ctx, slot, blob)
}

func TestWithTimeout_AbandonedWriteCannotOverwriteLaterWrite(t *testing.T) {
	inner := &slowFirstWrite{MemoryStore: NewMemoryStore(), release: make(chan struct{})}
	s := WithTimeout(inner, 20*time.Millisecond)
	ctx := context.Background()

	require.ErrorIs(t, s.Write(ctx, Credentials, "stale"), ErrTimeout)

	require.ErrorIs(t, s.Write(ctx, Credentials, "fresh"), ErrTimeout,
		"slot is still held by the abandoned write")
	_, _, err := s.Read(ctx, Credentials)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, int32(1), inner.writes.Load())

	require.NoError(t, s.Write(ctx, Session, "other slot"), "other slots are not blocked")

	close(inner.release)
	require.Eventually(t, func() bool {
		blob, _, _ := inner.MemoryStore.Read(ctx, Credentials)
		return blob == "stale"
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return s.Write(ctx, Credentials, "fresh") == nil
	}, time.Second, 5*time.Millisecond)

	blob, ok, err := s.Read(ctx, Credentials)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh", blob)
}
