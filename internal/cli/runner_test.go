package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tadacards/internal/codec"
	"github.com/Makepad-fr/tadacards/internal/kv/filekv"
	"github.com/Makepad-fr/tadacards/internal/model"
)

type result struct {
	code           int
	stdout, stderr string
}

// cliEnv isolates HOME, the working directory and TADA_* variables, and
// returns a runner bound to a fresh storage file.
func cliEnv(t *testing.T, backend string) func(args ...string) result {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{"TADA_BACKEND", "TADA_PATH", "TADA_KEY", "TADA_THEME", "TADA_LOG_LEVEL", "TADA_LOG_FILE", "TADA_NO_COLOR"} {
		t.Setenv(name, "")
	}
	chdir(t, t.TempDir())

	ext := map[string]string{"file": "json", "sqlite": "db"}[backend]
	path := filepath.Join(home, "store", "todos."+ext)
	return func(args ...string) result {
		var out, errOut bytes.Buffer
		full := append([]string{"--backend", backend, "--path", path, "--theme", "mono", "--no-color"}, args...)
		code := Run(full, &out, &errOut)
		return result{code: code, stdout: out.String(), stderr: errOut.String()}
	}
}

func storedTodos(t *testing.T, path string) []model.Todo {
	t.Helper()
	s, err := filekv.Open(path)
	require.NoError(t, err)
	text, found, err := s.Get("todos")
	require.NoError(t, err)
	require.True(t, found)
	todos, err := codec.Decode(text)
	require.NoError(t, err)
	return todos
}

func TestAddListToggleRemove(t *testing.T) {
	run := cliEnv(t, "file")

	res := run("add", "Buy", "milk", "--text", "two litres")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Todo added successfully")

	res = run("add", "--title", "Call mum")
	require.Equal(t, ExitOK, res.code, res.stderr)

	res = run("ls")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Buy milk")
	assert.Contains(t, res.stdout, "two litres")
	assert.Contains(t, res.stdout, "Call mum")
	assert.Less(t, strings.Index(res.stdout, "Buy milk"), strings.Index(res.stdout, "Call mum"))
	assert.Contains(t, res.stdout, "Total 2")

	res = run("toggle", "2")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "toggled")

	res = run("ls", "--group")
	require.Equal(t, ExitOK, res.code, res.stderr)
	pending := strings.Index(res.stdout, "Pending")
	done := strings.Index(res.stdout, "Done")
	require.True(t, pending >= 0 && done > pending)
	call := strings.Index(res.stdout, "Call mum")
	assert.Greater(t, call, done, "completed card listed under Done")
	assert.Contains(t, res.stdout, " 2. [x] Call mum", "grouped output keeps list positions")

	res = run("rm", "1")
	require.Equal(t, ExitOK, res.code, res.stderr)

	res = run("ls")
	assert.NotContains(t, res.stdout, "Buy milk")
	assert.Contains(t, res.stdout, "Call mum")
}

func TestRefByIDAndPrefix(t *testing.T) {
	run := cliEnv(t, "file")
	require.Equal(t, ExitOK, run("add", "first").code)
	require.Equal(t, ExitOK, run("add", "second").code)

	home := os.Getenv("HOME")
	todos := storedTodos(t, filepath.Join(home, "store", "todos.json"))
	require.Len(t, todos, 2)

	res := run("toggle", todos[1].ID)
	require.Equal(t, ExitOK, res.code, res.stderr)

	res = run("rm", "x"+todos[0].ID)
	assert.Equal(t, ExitUsage, res.code)

	after := storedTodos(t, filepath.Join(home, "store", "todos.json"))
	assert.True(t, after[1].Completed)
	assert.False(t, after[0].Completed)
}

func TestUsageErrors(t *testing.T) {
	run := cliEnv(t, "file")
	require.Equal(t, ExitOK, run("add", "only").code)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no subcommand", nil, "missing subcommand"},
		{"unknown subcommand", []string{"frobnicate"}, "unknown command"},
		{"toggle without ref", []string{"toggle"}, "accepts 1 arg"},
		{"index out of range", []string{"rm", "5"}, "index out of range: have 1, got 5"},
		{"zero index", []string{"toggle", "0"}, "index out of range"},
		{"no match", []string{"rm", "zzzz"}, "no card matches"},
		{"title twice", []string{"add", "x", "--title", "y"}, "either as arguments or with --title"},
		{"bad theme", []string{"ls", "--theme", "rainbow"}, "invalid config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(tt.args...)
			assert.Equal(t, ExitUsage, res.code, res.stderr)
			assert.Contains(t, res.stderr, tt.want)
		})
	}
}

func TestSQLiteBackend(t *testing.T) {
	run := cliEnv(t, "sqlite")
	require.Equal(t, ExitOK, run("add", "persisted in sqlite").code)

	res := run("ls")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "persisted in sqlite")
}

func TestMalformedStorageStartsEmpty(t *testing.T) {
	run := cliEnv(t, "file")
	path := filepath.Join(os.Getenv("HOME"), "store", "todos.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"todos":"this is not a list"}`), 0o644))

	res := run("ls")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "no items")
	assert.Contains(t, res.stderr, "ignoring saved todos")

	require.Equal(t, ExitOK, run("add", "fresh").code)
	todos := storedTodos(t, path)
	require.Len(t, todos, 1)
	assert.Equal(t, "fresh", todos[0].Title)
}

func TestCorruptStorageFileStartsEmpty(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":    "{{{",
		"json array": `[{"title":"old","done":true}]`,
	} {
		t.Run(name, func(t *testing.T) {
			run := cliEnv(t, "file")
			path := filepath.Join(os.Getenv("HOME"), "store", "todos.json")
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			res := run("ls")
			require.Equal(t, ExitOK, res.code, res.stderr)
			assert.Contains(t, res.stdout, "no items")
			assert.Contains(t, res.stderr, "ignoring saved todos")

			res = run("add", "recovered")
			require.Equal(t, ExitOK, res.code, res.stderr)
			todos := storedTodos(t, path)
			require.Len(t, todos, 1)
			assert.Equal(t, "recovered", todos[0].Title)
		})
	}
}

func TestResolveRef(t *testing.T) {
	todos := []model.Todo{{ID: "abc-1"}, {ID: "abd-2"}, {ID: "7"}}
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"abc-1", "abc-1", false},
		{"7", "7", false},
		{"2", "abd-2", false},
		{"abd", "abd-2", false},
		{"ab", "", true},
		{"4", "", true},
		{"", "", true},
		{"zzz", "", true},
	}
	for _, tt := range tests {
		got, err := resolveRef(todos, tt.ref)
		if tt.wantErr {
			assert.Error(t, err, tt.ref)
			continue
		}
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
