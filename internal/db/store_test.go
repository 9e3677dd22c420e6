package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		dbPath      string
		expectedErr string
	}{
		{"empty_path", "", "empty database path"},
		{"whitespace_path", "   ", "empty database path"},
		{"tabs_path", "\t\t", "empty database path"},
		{"traversal", "../../etc/cache.db", "directory traversal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.dbPath)
			assert.Nil(t, store)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestOpen_Success(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)
	assert.NotNil(t, store.db)

	assert.NoError(t, store.Close())
}

func TestOpen_DirectoryCreation(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "deep", "test.db")

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, filepath.Dir(dbPath))
}

func TestOpen_FilePermissions(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestOpen_ExistingFile(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "existing.db")

	store1, err := Open(ctx, dbPath)
	require.NoError(t, err)
	assert.NoError(t, store1.Close())

	store2, err := Open(ctx, dbPath)
	require.NoError(t, err)
	assert.NoError(t, store2.Close())
}

func TestClose_NilStore(t *testing.T) {
	var store *Store
	assert.NoError(t, store.Close())
}

func TestClose_NilDB(t *testing.T) {
	store := &Store{db: nil}
	assert.NoError(t, store.Close())
}

func TestDB_Getter(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	db := store.DB()
	assert.NotNil(t, db)
	assert.IsType(t, &sqlx.DB{}, db)
}

func TestMigration_V1_ViewCacheTable(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "migrate_v1.db"))
	require.NoError(t, err)
	defer store.Close()

	var name string
	err = store.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='view_cache'").Scan(&name)
	assert.NoError(t, err)
	assert.Equal(t, "view_cache", name)

	var ver int
	err = store.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&ver)
	assert.NoError(t, err)
	assert.Equal(t, 1, ver)
}

func TestMigration_Idempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "idem.db")

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)
	cs := NewCacheStore(store, "s")
	require.NoError(t, cs.Set(ctx, "inbox_emails_cache", []byte("[]")))
	require.NoError(t, store.Close())

	store, err = Open(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	got, found, err := NewCacheStore(store, "s").Get(ctx, "inbox_emails_cache")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("[]"), got)
}
