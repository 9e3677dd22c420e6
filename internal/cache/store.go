// Package cache persists the last known email lists per view so they
// survive restarts.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Keys for the per-view cache entries
const (
	KeyInbox      = "inbox_emails_cache"
	KeyClassified = "classified_emails_cache"
)

var (
	// ErrCacheCorrupted reports an entry that could not be decoded
	ErrCacheCorrupted = errors.New("cache corrupted")
	// ErrInvalidKey reports an empty cache key
	ErrInvalidKey = errors.New("invalid cache key")
)

// Store is a small key-value backing for cached collections
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, ErrInvalidKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.mu.Lock()
	m.entries[key] = buf
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ensure interface compliance
var _ Store = (*MemoryStore)(nil)

func validate(store Store, key string) error {
	if store == nil {
		return fmt.Errorf("cache store not available")
	}
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
