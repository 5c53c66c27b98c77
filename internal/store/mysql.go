package store

import (
	"context"
	"database/sql"
	"errors"
)

// MySQLStore persists slots in a two column table:
//
//	CREATE TABLE kv_store (
//	    k VARCHAR(191) NOT NULL PRIMARY KEY,
//	    v LONGBLOB     NOT NULL,
//	    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
//	)
//
// EnsureSchema creates the table when it is missing.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore returns a store bound to the provided database handle.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	k VARCHAR(191) NOT NULL PRIMARY KEY,
	v LONGBLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// EnsureSchema creates the kv_store table if needed.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createKVTable)
	return err
}

func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv_store WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *MySQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value,
	)
	return err
}

func (s *MySQLStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE k = ?`, key)
	return err
}
