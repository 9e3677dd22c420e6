package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// ViewCache reads and writes one JSON-encoded collection under a fixed key.
// Anything that does not decode to a list is treated as a miss and removed.
type ViewCache[T any] struct {
	store  Store
	key    string
	logger *log.Logger
}

// NewViewCache binds a typed cache to a key of store
func NewViewCache[T any](store Store, key string, logger *log.Logger) *ViewCache[T] {
	return &ViewCache[T]{store: store, key: key, logger: logger}
}

// Key returns the cache key
func (c *ViewCache[T]) Key() string { return c.key }

// Load returns the cached collection. The second result is false on a miss,
// including when the entry was unreadable or corrupt.
func (c *ViewCache[T]) Load(ctx context.Context) ([]T, bool) {
	items, err := c.load(ctx)
	if err != nil {
		c.logf("cache %s: %v", c.key, err)
		return nil, false
	}
	return items, items != nil
}

func (c *ViewCache[T]) load(ctx context.Context) ([]T, error) {
	if err := validate(c.store, c.key); err != nil {
		return nil, err
	}
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	if !found {
		return nil, nil
	}
	items, err := decodeList[T](raw)
	if err != nil {
		if derr := c.store.Delete(ctx, c.key); derr != nil {
			c.logf("cache %s: failed to clear corrupt entry: %v", c.key, derr)
		}
		return nil, err
	}
	return items, nil
}

// Save overwrites the cached collection
func (c *ViewCache[T]) Save(ctx context.Context, items []T) error {
	if err := validate(c.store, c.key); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Clear removes the cached collection
func (c *ViewCache[T]) Clear(ctx context.Context) error {
	if err := validate(c.store, c.key); err != nil {
		return err
	}
	return c.store.Delete(ctx, c.key)
}

func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: not a JSON list", ErrCacheCorrupted)
	}
	items := []T{}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	return items, nil
}

func (c *ViewCache[T]) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
