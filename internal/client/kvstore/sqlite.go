package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blockloop/scan"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteBackend stores items in a single SQLite table.
type SQLiteBackend struct {
	DB *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	b, err := NewSQLiteBackend(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// NewSQLiteBackend creates the kv table on db if it is missing.
func NewSQLiteBackend(ctx context.Context, db *sql.DB) (*SQLiteBackend, error) {
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteBackend{DB: db}, nil
}

func (b *SQLiteBackend) SetItem(ctx context.Context, key, value string) error {
	_, err := b.DB.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (b *SQLiteBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *SQLiteBackend) RemoveItem(ctx context.Context, key string) error {
	_, err := b.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (b *SQLiteBackend) Clear(ctx context.Context) error {
	_, err := b.DB.ExecContext(ctx, `DELETE FROM kv`)
	return err
}

func (b *SQLiteBackend) AllKeys(ctx context.Context) ([]string, error) {
	rows, err := b.DB.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	if err := scan.Rows(&keys, rows); err != nil {
		return nil, err
	}
	return keys, nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.DB.Close()
}
