package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueWord returns a lowercase word that does not collide with other tests.
func UniqueWord(prefix string) string {
	return prefix + uuid.New().String()[:8]
}

// SeedWord inserts a cache row directly, bypassing the repository.
func SeedWord(t *testing.T, pool *pgxpool.Pool, word, replacement string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO word_cache (word, replacement) VALUES ($1, $2)
		 ON CONFLICT (word) DO UPDATE SET replacement = EXCLUDED.replacement`,
		word, replacement,
	)
	if err != nil {
		t.Fatalf("testhelper: seed word %q: %v", word, err)
	}
}
