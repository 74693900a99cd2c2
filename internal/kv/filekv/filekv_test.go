package filekv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tadacards/internal/kv"
)

func TestGetMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)

	v, found, err := s.Get("todos")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}

func TestSetThenGetAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todos.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("todos", `[{"id":"1"}]`))
	require.NoError(t, s.Set("other", "x"))
	require.NoError(t, s.Set("todos", `[]`))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	v, found, err := s2.Get("todos")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)

	v, found, err = s2.Get("other")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "x", v)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))
	s, err := Open(path)
	require.NoError(t, err)

	_, _, err = s.Get("todos")
	assert.ErrorIs(t, err, kv.ErrCorrupt)

	require.NoError(t, s.Set("todos", "[]"))
	v, found, err := s.Get("todos")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)
}

func TestForeignJSONIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"old","done":true}]`), 0o644))
	s, err := Open(path)
	require.NoError(t, err)

	_, _, err = s.Get("todos")
	assert.ErrorIs(t, err, kv.ErrCorrupt)
}

func TestEmptyFileIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	s, err := Open(path)
	require.NoError(t, err)

	_, found, err := s.Get("todos")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClosed(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get("todos")
	assert.ErrorIs(t, err, kv.ErrClosed)
	assert.ErrorIs(t, s.Set("todos", "[]"), kv.ErrClosed)
}

func TestRegisteredBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	s, err := kv.Open(kv.BackendFile, path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("todos", "[]"))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
