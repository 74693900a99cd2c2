package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears TADA_* variables.
func isolate(t *testing.T) (home, wd string) {
	t.Helper()
	home = t.TempDir()
	wd = t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{
		"TADA_BACKEND", "TADA_PATH", "TADA_KEY", "TADA_THEME",
		"TADA_LOG_LEVEL", "TADA_LOG_FILE", "TADA_NO_COLOR",
	} {
		t.Setenv(name, "")
	}
	chdir(t, wd)
	return home, wd
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "todos", cfg.Key)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, ".tada", "todos.json"), cfg.Path)
}

func TestSQLiteDefaultPath(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load("", Overrides{Backend: "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".tada", "todos.db"), cfg.Path)
}

func TestMemoryHasNoPath(t *testing.T) {
	isolate(t)
	cfg, err := Load("", Overrides{Backend: "memory"})
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
}

func TestLayering(t *testing.T) {
	home, wd := isolate(t)
	writeFile(t, filepath.Join(home, ".tada", "config.toml"), `
backend = "sqlite"
theme = "neon"
log_level = "info"
`)
	writeFile(t, filepath.Join(wd, "tada.toml"), `
theme = "mono"
key = "project-todos"
`)

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend, "from user file")
	assert.Equal(t, "mono", cfg.Theme, "project file wins over user file")
	assert.Equal(t, "project-todos", cfg.Key)
	assert.Equal(t, "info", cfg.LogLevel)

	t.Setenv("TADA_THEME", "classic")
	t.Setenv("TADA_NO_COLOR", "true")
	cfg, err = Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "classic", cfg.Theme, "env wins over files")
	assert.True(t, cfg.NoColor)

	cfg, err = Load("", Overrides{Theme: "neon", Path: "/tmp/x.db"})
	require.NoError(t, err)
	assert.Equal(t, "neon", cfg.Theme, "flags win over env")
	assert.Equal(t, "/tmp/x.db", cfg.Path)
}

func TestExplicitFile(t *testing.T) {
	_, wd := isolate(t)
	p := filepath.Join(wd, "custom.toml")
	writeFile(t, p, `backend = "memory"`)

	cfg, err := Load(p, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Backend)

	_, err = Load(filepath.Join(wd, "missing.toml"), Overrides{})
	assert.Error(t, err)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		ov   Overrides
	}{
		{name: "backend", ov: Overrides{Backend: "floppy"}},
		{name: "theme", ov: Overrides{Theme: "rainbow"}},
		{name: "log level", ov: Overrides{LogLevel: "loud"}},
		{name: "empty key", env: map[string]string{"TADA_KEY": " "}, file: `key = ""`},
		{name: "unknown key", file: `colour = "red"`},
		{name: "no color", env: map[string]string{"TADA_NO_COLOR": "perhaps"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, wd := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(wd, "tada.toml"), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("", tt.ov)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestBrokenTOML(t *testing.T) {
	_, wd := isolate(t)
	writeFile(t, filepath.Join(wd, "tada.toml"), `backend = `)
	_, err := Load("", Overrides{})
	assert.ErrorContains(t, err, "loading config file")
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
