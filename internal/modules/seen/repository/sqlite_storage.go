package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Repository on a single-table SQLite database.
// The primary key constraint is the admission check: the first insert of a
// key succeeds, every later one is a conflict.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (creating if needed) the seen database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oops.With("db_path", path, "context", "failed to open seen store").Wrap(err)
	}

	// Single writer; SQLite serializes the rest.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS seen (key TEXT PRIMARY KEY, ts INTEGER)`); err != nil {
		db.Close()
		return nil, oops.With("db_path", path, "context", "failed to create seen table").Wrap(err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Admit inserts the key, reporting whether it was already present.
func (s *SQLiteStorage) Admit(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO seen(key, ts) VALUES(?, ?) ON CONFLICT(key) DO NOTHING`,
		key, time.Now().UnixMilli())
	if err != nil {
		return false, oops.With("key", key, "context", "seen store insert failed").Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, oops.With("key", key).Wrap(err)
	}
	return n == 0, nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
