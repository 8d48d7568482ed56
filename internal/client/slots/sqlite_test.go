package slots

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/localauth/internal/client/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContract(t, NewSQLiteStore(setupSQLite(t), "com.test"))
}

func TestSQLiteStore_NamespacesAreIsolated(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	a := NewSQLiteStore(db, "com.a")
	b := NewSQLiteStore(db, "com.b")

	require.NoError(t, a.Write(ctx, Session, "from-a"))

	_, ok, err := b.Read(ctx, Session)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_Update(t *testing.T) {
	s := NewSQLiteStore(setupSQLite(t), "com.test")
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, Credentials, "base"))
	require.NoError(t, s.Update(ctx, Credentials, func(cur string, ok bool) (string, error) {
		require.True(t, ok)
		return cur + "+1", nil
	}))

	blob, _, err := s.Read(ctx, Credentials)
	require.NoError(t, err)
	assert.Equal(t, "base+1", blob)
}

func TestSQLiteStore_UpdateAbortKeepsValue(t *testing.T) {
	s := NewSQLiteStore(setupSQLite(t), "com.test")
	ctx := context.Background()
	boom := errors.New("encode failed")

	require.NoError(t, s.Write(ctx, Credentials, "base"))
	err := s.Update(ctx, Credentials, func(string, bool) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUnavailable)

	blob, _, _ := s.Read(ctx, Credentials)
	assert.Equal(t, "base", blob)
}

func TestSQLiteStore_ClosedDB(t *testing.T) {
	db := setupSQLite(t)
	s := NewSQLiteStore(db, "com.test")
	require.NoError(t, db.Close())
	ctx := context.Background()

	require.ErrorIs(t, s.Write(ctx, Session, "x"), ErrUnavailable)
	_, _, err := s.Read(ctx, Session)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, s.Clear(ctx, Session), ErrUnavailable)
	err = s.Update(ctx, Session, func(string, bool) (string, error) { return "y", nil })
	require.ErrorIs(t, err, ErrUnavailable)
}
