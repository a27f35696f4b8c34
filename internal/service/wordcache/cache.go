// Package wordcache holds previously resolved word replacements in memory
// and persists them through a pluggable store.
package wordcache

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/heartmarshall/readeasy/internal/domain"
)

// store persists word→replacement entries between runs.
// Save merges entries into what is already stored; it never drops keys
// that are absent from the argument.
type store interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
	Clear(ctx context.Context) error
}

// replacer is implemented by stores that can swap their whole contents
// atomically.
type replacer interface {
	Replace(ctx context.Context, entries map[string]string) error
}

// counter is implemented by stores that can count rows without loading them.
type counter interface {
	Count(ctx context.Context) (int, error)
}

// Cache is a concurrency-safe word→replacement mapping backed by a store.
// Writes are tracked as dirty until the next successful Flush.
type Cache struct {
	log   *slog.Logger
	store store

	mu      sync.RWMutex
	entries map[string]string
	dirty   map[string]struct{}

	// flushMu keeps at most one Save in flight.
	flushMu sync.Mutex
}

// NewCache creates an empty Cache backed by s.
func NewCache(logger *slog.Logger, s store) *Cache {
	return &Cache{
		log:     logger.With("service", "wordcache"),
		store:   s,
		entries: make(map[string]string),
		dirty:   make(map[string]struct{}),
	}
}

// Load replaces the in-memory contents with what the store holds.
// On failure the cache is left empty and usable; the error is logged
// and returned so callers may report it.
func (c *Cache) Load(ctx context.Context) error {
	stored, err := c.store.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]string, len(stored))
	c.dirty = make(map[string]struct{})

	if err != nil {
		c.log.WarnContext(ctx, "cache load failed, starting empty", slog.String("error", err.Error()))
		return fmt.Errorf("load cache: %w", err)
	}

	for k, v := range stored {
		key := domain.NormalizeWord(k)
		if key == "" || v == "" {
			continue
		}
		c.entries[key] = v
	}

	c.log.DebugContext(ctx, "cache loaded", slog.Int("entries", len(c.entries)))
	return nil
}

// Get returns the cached replacement for word.
func (c *Cache) Get(word string) (string, bool) {
	key := domain.NormalizeWord(word)

	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Put records a replacement for word. Storing the word itself marks it
// as resolved with no simpler alternative.
func (c *Cache) Put(word, replacement string) {
	key := domain.NormalizeWord(word)
	if key == "" || replacement == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.entries[key]; ok && prev == replacement {
		return
	}
	c.entries[key] = replacement
	c.dirty[key] = struct{}{}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Dirty returns the number of entries not yet flushed.
func (c *Cache) Dirty() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dirty)
}

// Snapshot returns a copy of all cached entries.
func (c *Cache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.entries)
}

// Flush writes dirty entries to the store. Entries stay dirty if the
// store rejects them, so a later Flush retries them.
func (c *Cache) Flush(ctx context.Context) error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.RLock()
	if len(c.dirty) == 0 {
		c.mu.RUnlock()
		return nil
	}
	pending := make(map[string]string, len(c.dirty))
	for k := range c.dirty {
		pending[k] = c.entries[k]
	}
	c.mu.RUnlock()

	if err := c.store.Save(ctx, pending); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}

	c.mu.Lock()
	for k, v := range pending {
		// A concurrent Put may have changed the value after the snapshot.
		if c.entries[k] == v {
			delete(c.dirty, k)
		}
	}
	c.mu.Unlock()

	c.log.DebugContext(ctx, "cache flushed", slog.Int("entries", len(pending)))
	return nil
}

// Clear removes every entry from memory and from the store.
func (c *Cache) Clear(ctx context.Context) error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	c.mu.Lock()
	c.entries = make(map[string]string)
	c.dirty = make(map[string]struct{})
	c.mu.Unlock()
	return nil
}

// Replace swaps the cache contents, in memory and in the store, for
// entries. Keys are normalized and blank replacements dropped. Stores that
// support it are replaced atomically; others are cleared and then saved.
func (c *Cache) Replace(ctx context.Context, entries map[string]string) error {
	fresh := make(map[string]string, len(entries))
	for word, replacement := range entries {
		key := domain.NormalizeWord(word)
		if key == "" || replacement == "" {
			continue
		}
		fresh[key] = replacement
	}

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	if r, ok := c.store.(replacer); ok {
		if err := r.Replace(ctx, fresh); err != nil {
			return fmt.Errorf("replace cache: %w", err)
		}
	} else {
		if err := c.store.Clear(ctx); err != nil {
			return fmt.Errorf("replace cache: %w", err)
		}
		if err := c.store.Save(ctx, fresh); err != nil {
			return fmt.Errorf("replace cache: %w", err)
		}
	}

	c.mu.Lock()
	c.entries = fresh
	c.dirty = make(map[string]struct{})
	c.mu.Unlock()

	c.log.DebugContext(ctx, "cache replaced", slog.Int("entries", len(fresh)))
	return nil
}

// StoredCount returns the number of entries persisted in the store. Stores
// without a native count are loaded and measured.
func (c *Cache) StoredCount(ctx context.Context) (int, error) {
	if n, ok := c.store.(counter); ok {
		count, err := n.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("count cache: %w", err)
		}
		return count, nil
	}

	stored, err := c.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return len(stored), nil
}
