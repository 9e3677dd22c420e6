package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ajramos/giztriage/internal/cache"
	"github.com/jmoiron/sqlx"
)

// CacheStore persists view cache entries in SQLite. Entries are scoped so
// that dashboards pointed at different backends do not share lists.
type CacheStore struct {
	db    *sqlx.DB
	scope string
	now   func() time.Time
}

type cacheRow struct {
	Payload   []byte `db:"payload"`
	UpdatedAt int64  `db:"updated_at"`
}

// NewCacheStore creates a new cache store from a base store
func NewCacheStore(store *Store, scope string) *CacheStore {
	if store == nil {
		return nil
	}
	if strings.TrimSpace(scope) == "" {
		scope = "default"
	}
	return &CacheStore{db: store.DB(), scope: scope, now: time.Now}
}

// Scope returns the scope entries are stored under
func (cs *CacheStore) Scope() string {
	if cs == nil {
		return ""
	}
	return cs.scope
}

// Get returns the payload stored at key
func (cs *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if cs == nil || cs.db == nil {
		return nil, false, fmt.Errorf("cache store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, cache.ErrInvalidKey
	}
	var row cacheRow
	err := cs.db.GetContext(ctx, &row,
		`SELECT payload, updated_at FROM view_cache WHERE scope=? AND cache_key=?`, cs.scope, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.Payload, true, nil
}

// Set upserts the payload stored at key
func (cs *CacheStore) Set(ctx context.Context, key string, value []byte) error {
	if cs == nil || cs.db == nil {
		return fmt.Errorf("cache store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return cache.ErrInvalidKey
	}
	if value == nil {
		value = []byte{}
	}
	_, err := cs.db.ExecContext(ctx, `INSERT INTO view_cache(scope, cache_key, payload, updated_at)
VALUES(?,?,?,?)
ON CONFLICT(scope, cache_key) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at;
`, cs.scope, key, value, cs.now().Unix())
	return err
}

// Delete removes the entry stored at key
func (cs *CacheStore) Delete(ctx context.Context, key string) error {
	if cs == nil || cs.db == nil {
		return fmt.Errorf("cache store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return cache.ErrInvalidKey
	}
	_, err := cs.db.ExecContext(ctx, `DELETE FROM view_cache WHERE scope=? AND cache_key=?`, cs.scope, key)
	return err
}

// ensure interface compliance
var _ cache.Store = (*CacheStore)(nil)
