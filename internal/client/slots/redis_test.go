package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionKey = "localauth:com.test.session:session"

func TestRedisStore_WriteReadClear(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "localauth", "com.test")
	ctx := context.Background()

	mock.ExpectGet(sessionKey).RedisNil()
	mock.ExpectSet(sessionKey, "blob", 0).SetVal("OK")
	mock.ExpectGet(sessionKey).SetVal("blob")
	mock.ExpectDel(sessionKey).SetVal(1)

	_, ok, err := s.Read(ctx, Session)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, Session, "blob"))

	blob, ok, err := s.Read(ctx, Session)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "blob", blob)

	require.NoError(t, s.Clear(ctx, Session))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "localauth", "com.test")
	ctx := context.Background()
	down := errors.New("connection refused")

	mock.ExpectSet(sessionKey, "blob", 0).SetErr(down)
	mock.ExpectGet(sessionKey).SetErr(down)
	mock.ExpectDel(sessionKey).SetErr(down)

	require.ErrorIs(t, s.Write(ctx, Session, "blob"), ErrUnavailable)
	_, _, err := s.Read(ctx, Session)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, s.Clear(ctx, Session), ErrUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_IsUpdater(t *testing.T) {
	client, _ := redismock.NewClientMock()
	var s Store = NewRedisStore(client, "localauth", "com.test")

	_, ok := s.(Updater)
	assert.True(t, ok)
	_, ok = WithTimeout(s, time.Second).(Updater)
	assert.True(t, ok, "timeout wrapper keeps the atomic update path")
}

func TestRedisStore_Update(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "localauth", "com.test")
	ctx := context.Background()

	mock.ExpectWatch(sessionKey)
	mock.ExpectGet(sessionKey).SetVal("old")
	mock.ExpectTxPipeline()
	mock.ExpectSet(sessionKey, "old+new", 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := s.Update(ctx, Session, func(current string, ok bool) (string, error) {
		require.True(t, ok)
		return current + "+new", nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Update_MissingKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "localauth", "com.test")

	mock.ExpectWatch(sessionKey)
	mock.ExpectGet(sessionKey).RedisNil()
	mock.ExpectTxPipeline()
	mock.ExpectSet(sessionKey, "first", 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	err := s.Update(context.Background(), Session, func(current string, ok bool) (string, error) {
		assert.False(t, ok)
		assert.Empty(t, current)
		return "first", nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Update_RetriesAfterConflict(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "localauth", "com.test")

	mock.ExpectWatch(sessionKey)
	mock.ExpectGet(sessionKey).SetVal("a")
	mock.ExpectTxPipeline()
	mock.ExpectSet(sessionKey, "a!", 0).SetVal("OK")
	mock.ExpectTxPipelineExec().SetErr(redis.TxFailedErr)

	mock.ExpectWatch(sessionKey)
	mock.ExpectGet(sessionKey).SetVal("b")
	mock.ExpectTxPipeline()
	mock.ExpectSet(sessionKey, "b!", 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	var seen []string
	err := s.Update(context.Background(), Session, func(current string, _ bool) (string, error) {
		seen = append(seen, current)
		return current + "!", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen, "second attempt sees the concurrent write")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Update_FuncErrorNotWritten(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "localauth", "com.test")
	rejected := errors.New("rejected")

	mock.ExpectWatch(sessionKey)
	mock.ExpectGet(sessionKey).SetVal("old")

	err := s.Update(context.Background(), Session, func(string, bool) (string, error) {
		return "", rejected
	})
	require.ErrorIs(t, err, rejected)
	assert.NotErrorIs(t, err, ErrUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Update_ReadError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "localauth", "com.test")

	mock.ExpectWatch(sessionKey)
	mock.ExpectGet(sessionKey).SetErr(errors.New("connection refused"))

	err := s.Update(context.Background(), Session, func(string, bool) (string, error) {
		t.Fatal("update func must not run when the read fails")
		return "", nil
	})
	require.ErrorIs(t, err, ErrUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}
