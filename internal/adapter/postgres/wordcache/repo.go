// Package wordcache implements the persisted word cache store using PostgreSQL.
package wordcache

import (
	"context"
	"fmt"
	"maps"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/readeasy/internal/adapter/postgres"
)

const table = "word_cache"

// upsertChunk bounds the number of rows per INSERT statement.
const upsertChunk = 500

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides word cache persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   txManager
}

// New creates a new word cache repository.
func New(pool *pgxpool.Pool, tx txManager) *Repo {
	return &Repo{pool: pool, tx: tx}
}

// Load returns every cached word and its replacement.
func (r *Repo) Load(ctx context.Context) (map[string]string, error) {
	query, args, err := psql.Select("word", "replacement").From(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, table, "*")
	}

	entries := make(map[string]string)
	var word, replacement string
	_, err = pgx.ForEachRow(rows, []any{&word, &replacement}, func() error {
		entries[word] = replacement
		return nil
	})
	if err != nil {
		return nil, postgres.MapError(err, table, "*")
	}
	return entries, nil
}

// Save upserts entries in a single transaction. Existing rows not named in
// entries are left untouched.
func (r *Repo) Save(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	words := slices.Sorted(maps.Keys(entries))

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)
		for chunk := range slices.Chunk(words, upsertChunk) {
			insert := psql.Insert(table).Columns("word", "replacement")
			for _, w := range chunk {
				insert = insert.Values(w, entries[w])
			}
			insert = insert.Suffix("ON CONFLICT (word) DO UPDATE SET replacement = EXCLUDED.replacement, updated_at = now()")

			query, args, err := insert.ToSql()
			if err != nil {
				return fmt.Errorf("build upsert: %w", err)
			}
			if _, err := q.Exec(ctx, query, args...); err != nil {
				return postgres.MapError(err, table, chunk[0])
			}
		}
		return nil
	})
}

// Replace swaps the whole cache for entries atomically.
func (r *Repo) Replace(ctx context.Context, entries map[string]string) error {
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := r.Clear(ctx); err != nil {
			return err
		}
		return r.Save(ctx, entries)
	})
}

// Clear deletes every cached word.
func (r *Repo) Clear(ctx context.Context) error {
	query, args, err := psql.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, table, "*")
	}
	return nil
}

// Count returns the number of cached words.
func (r *Repo) Count(ctx context.Context) (int, error) {
	query, args, err := psql.Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, table, "*")
	}
	return n, nil
}
