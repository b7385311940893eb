package kv

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"testing"

	"rewards/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// exerciseStore runs the behaviour every driver must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "mock/users")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "mock/users", []byte(`[1]`)))
	require.NoError(t, store.Put(ctx, "mock/users", []byte(`[1,2]`)))
	require.NoError(t, store.Put(ctx, "mock/catalog", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, "remote/users", []byte(`[3]`)))

	got, err := store.Get(ctx, "mock/users")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	keys, err := store.Keys(ctx, "mock/")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"mock/catalog", "mock/users"}, keys)

	require.NoError(t, DeletePrefix(ctx, store, "mock/"))
	keys, err = store.Keys(ctx, "mock/")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = store.Get(ctx, "remote/users")
	require.NoError(t, err, "other namespaces survive a prefix delete")

	require.NoError(t, store.Delete(ctx, "does/not/exist"))
}

func TestBlobStore_Memory(t *testing.T) {
	store, err := OpenBlob(context.Background(), "mem://", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestBlobStore_FilePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: &config.StorageConfig{Driver: config.StorageDriverFile, Dir: t.TempDir()}}

	first, err := Open(ctx, cfg, discardLogger())
	require.NoError(t, err)
	require.NoError(t, PutJSON(ctx, first, "settings/service-config", map[string]bool{"useMockDB": false}))
	require.NoError(t, first.Close())

	second, err := Open(ctx, cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	var got map[string]bool
	found, err := GetJSON(ctx, second, "settings/service-config", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, got["useMockDB"])
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestGetJSON_Absent(t *testing.T) {
	store, err := OpenBlob(context.Background(), "mem://", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var dest []int
	found, err := GetJSON(context.Background(), store, "nothing", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dest)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: &config.StorageConfig{Driver: "cassandra"}}

	_, err := Open(context.Background(), cfg, discardLogger())
	assert.ErrorContains(t, err, "unknown storage driver")
}
