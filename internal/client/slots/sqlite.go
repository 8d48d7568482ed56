package slots

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/localauth/internal/dbx"
)

// SQLiteStore keeps slots in the "slots" table created by the client
// migrations. Rows are keyed by the slot's service/account identifier.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteStore(db *sql.DB, namespace string) *SQLiteStore {
	return &SQLiteStore{db: db, namespace: namespace}
}

func (s *SQLiteStore) write(ctx context.Context, q dbx.DBTX, slot SlotID, blob string) error {
	id := slot.Identifier(s.namespace)
	_, err := q.ExecContext(ctx, `
		INSERT INTO slots (service, account, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(service, account) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, id.Service, id.Account, blob, time.Now().UnixMilli())
	if err != nil {
		return unavailable("write", slot, err)
	}
	return nil
}

func (s *SQLiteStore) read(ctx context.Context, q dbx.DBTX, slot SlotID) (string, bool, error) {
	id := slot.Identifier(s.namespace)

	var blob string
	err := q.QueryRowContext(ctx, `SELECT value FROM slots WHERE service = ? AND account = ?`,
		id.Service, id.Account).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("read", slot, err)
	}
	return blob, true, nil
}

func (s *SQLiteStore) Write(ctx context.Context, slot SlotID, blob string) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	return s.write(ctx, s.db, slot, blob)
}

func (s *SQLiteStore) Read(ctx context.Context, slot SlotID) (string, bool, error) {
	if err := slot.Validate(); err != nil {
		return "", false, err
	}
	return s.read(ctx, s.db, slot)
}

func (s *SQLiteStore) Clear(ctx context.Context, slot SlotID) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	id := slot.Identifier(s.namespace)
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE service = ? AND account = ?`, id.Service, id.Account)
	if err != nil {
		return unavailable("clear", slot, err)
	}
	return nil
}

// Update reads and rewrites the slot inside one transaction.
func (s *SQLiteStore) Update(ctx context.Context, slot SlotID, fn UpdateFunc) error {
	if err := slot.Validate(); err != nil {
		return err
	}

	var txErr error
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, ok, err := s.read(ctx, tx, slot)
		if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			txErr = err
			return err
		}
		return s.write(ctx, tx, slot, next)
	})
	if err != nil && txErr == nil && !errors.Is(err, ErrUnavailable) {
		return unavailable("update", slot, err)
	}
	return err
}
