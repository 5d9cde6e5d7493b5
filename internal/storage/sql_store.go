package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Dialect selects the SQL flavour of the kv_store statements
type Dialect int

const (
	DialectMySQL Dialect = iota
	DialectSQLite
)

type sqlStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore creates a store over the kv_store table
func NewSQLStore(db *sql.DB, dialect Dialect) *sqlStore {
	return &sqlStore{
		db:      db,
		dialect: dialect,
	}
}

// Get returns the value stored under key and whether it exists
func (s *sqlStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT store_value FROM kv_store WHERE store_key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get value of %q: %w", key, err)
	}

	return value, true, nil
}

// Set overwrites the value stored under key
func (s *sqlStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (store_key, store_value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE store_value = VALUES(store_value)
	`
	if s.dialect == DialectSQLite {
		query = `
		INSERT INTO kv_store (store_key, store_value)
		VALUES (?, ?)
		ON CONFLICT(store_key) DO UPDATE SET store_value = excluded.store_value
	`
	}

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set value of %q: %w", key, err)
	}

	return nil
}

// Delete removes key; deleting an absent key is not an error
func (s *sqlStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE store_key = ?`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	return nil
}

// Keys returns every key starting with prefix, sorted
func (s *sqlStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT store_key FROM kv_store WHERE store_key LIKE ? ESCAPE '!' ORDER BY store_key`

	rows, err := s.db.QueryContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}

	return keys, nil
}

// escapeLike escapes LIKE wildcards with '!'
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
