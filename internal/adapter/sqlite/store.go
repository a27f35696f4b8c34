// Package sqlite persists the word cache in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS word_cache (
    word        TEXT PRIMARY KEY,
    replacement TEXT NOT NULL,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const table = "word_cache"

// Store is a word cache store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns every cached word and its replacement.
func (s *Store) Load(ctx context.Context) (map[string]string, error) {
	query, args, err := sq.Select("word", "replacement").From(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var word, replacement string
		if err := rows.Scan(&word, &replacement); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		entries[word] = replacement
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows: %w", err)
	}
	return entries, nil
}

// Save upserts entries in one transaction.
func (s *Store) Save(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return upsert(ctx, tx, entries)
	})
}

// Replace swaps the stored entries for entries in one transaction.
func (s *Store) Replace(ctx context.Context, entries map[string]string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := sq.Delete(table).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("sqlite: clear: %w", err)
		}
		return upsert(ctx, tx, entries)
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func upsert(ctx context.Context, tx *sql.Tx, entries map[string]string) error {
	for _, w := range slices.Sorted(maps.Keys(entries)) {
		query, args, err := sq.Insert(table).
			Columns("word", "replacement").
			Values(w, entries[w]).
			Suffix("ON CONFLICT (word) DO UPDATE SET replacement = excluded.replacement, updated_at = CURRENT_TIMESTAMP").
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("sqlite: upsert %q: %w", w, err)
		}
	}
	return nil
}

// Clear deletes every cached word.
func (s *Store) Clear(ctx context.Context) error {
	query, args, err := sq.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}
	return nil
}

// Count returns the number of cached words.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM word_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}
