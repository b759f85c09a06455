package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV checks the contract every backend has to meet
func exerciseKV(t *testing.T, kv KV, key string) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "fresh key should be absent")

	require.NoError(t, kv.Set(ctx, key, `[{"name":"Tea","price":9000}]`))
	v, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"Tea","price":9000}]`, v)

	require.NoError(t, kv.Set(ctx, key, `[]`))
	v, ok, err = kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v, "last write wins")
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	exerciseKV(t, kv, DefaultKey)
	assert.Equal(t, 2, kv.Writes())
}

func TestFileKV(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	exerciseKV(t, kv, DefaultKey)

	_, err = os.Stat(filepath.Join(dir, DefaultKey+".json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestFileKV_KeyCannotEscapeDirectory(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(filepath.Join(dir, "store"))
	require.NoError(t, err)

	require.NoError(t, kv.Set(context.Background(), "../escape", "x"))

	_, err = os.Stat(filepath.Join(dir, "escape.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileKV_StoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileKV(dir)
	require.NoError(t, err)
	added, err := NewStore(first).AddItem(ctx, fiveItems(), "Latte", 25000)
	require.NoError(t, err)

	second, err := NewFileKV(dir)
	require.NoError(t, err)
	loaded, err := NewStore(second).Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, added, loaded)
}

// TestRedisKV runs against a real server when REDIS_URL is set
func TestRedisKV(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	kv, err := NewRedisKV(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	key := "pos-test:" + uuid.NewString()
	t.Cleanup(func() { kv.client.Del(context.Background(), key) })

	exerciseKV(t, kv, key)
}

func TestNewRedisKV_BadURL(t *testing.T) {
	_, err := NewRedisKV(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}
