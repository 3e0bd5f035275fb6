package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "state.json")),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set("token", "abc123"))
			value, ok, err := store.Get("token")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "abc123", value)

			require.NoError(t, store.Set("token", "def456"))
			value, _, _ = store.Get("token")
			assert.Equal(t, "def456", value)

			require.NoError(t, store.Delete("token"))
			_, ok, err = store.Get("token")
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting again is not an error.
			require.NoError(t, store.Delete("token"))
		})
	}
}

func TestFilePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := NewFile(path)
	require.NoError(t, first.Set("token", "abc123"))
	require.NoError(t, first.Set("user", `{"id":1}`))

	second := NewFile(path)
	value, ok, err := second.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", value)
}

func TestFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFile(path)
	require.NoError(t, store.Set("token", "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	store := NewFile(path)
	require.NoError(t, store.Set("token", "abc"))

	value, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)
}

func TestFileRejectsCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewFile(path)
	_, _, err := store.Get("anything")
	assert.Error(t, err)
}
