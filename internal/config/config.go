// Package config loads tada settings.
//
// Sources are applied in order, later ones winning:
//  1. Defaults
//  2. User config file (~/.tada/config.toml)
//  3. Project config file (tada.toml or .tada.toml in the working directory)
//  4. An explicit file passed with --config
//  5. Environment variables (TADA_*)
//  6. CLI flags, applied by the caller through Overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tadacards/internal/kv"
	"github.com/Makepad-fr/tadacards/internal/kv/filekv"
	"github.com/Makepad-fr/tadacards/internal/kv/sqlitekv"
	"github.com/Makepad-fr/tadacards/internal/logging"
	"github.com/Makepad-fr/tadacards/internal/persist"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	DirName         = ".tada"
	UserFileName    = "config.toml"
	ProjectFileName = "tada.toml"
)

// Config holds every setting tada reads.
type Config struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	Key      string `toml:"key"`
	Theme    string `toml:"theme"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	NoColor  bool   `toml:"no_color"`
}

// Overrides carries flag values; empty fields are left alone.
type Overrides struct {
	Backend  string
	Path     string
	Theme    string
	LogLevel string
	NoColor  bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:  kv.BackendFile,
		Key:      persist.DefaultKey,
		Theme:    "classic",
		LogLevel: logging.DefaultLevel,
	}
}

// Load resolves the configuration. explicit may be empty; when set, the file
// must exist.
func Load(explicit string, ov Overrides) (Config, error) {
	cfg := Default()

	for _, p := range []string{userFile(), projectFile()} {
		if p == "" {
			continue
		}
		if err := loadFile(&cfg, p); err != nil {
			return Config{}, err
		}
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := loadFile(&cfg, explicit); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.apply(ov)

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(ov Overrides) {
	if ov.Backend != "" {
		c.Backend = ov.Backend
	}
	if ov.Path != "" {
		c.Path = ov.Path
	}
	if ov.Theme != "" {
		c.Theme = ov.Theme
	}
	if ov.LogLevel != "" {
		c.LogLevel = ov.LogLevel
	}
	if ov.NoColor {
		c.NoColor = true
	}
}

// finalize fills in the storage path for the chosen backend.
func (c *Config) finalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Path != "" || c.Backend == kv.BackendMemory {
		return nil
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	switch c.Backend {
	case kv.BackendSQLite:
		c.Path = filepath.Join(dir, sqlitekv.DefaultFileName)
	default:
		c.Path = filepath.Join(dir, filekv.DefaultFileName)
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Backend {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
	default:
		return fmt.Errorf("%w: backend %q (want file, sqlite or memory)", ErrInvalid, c.Backend)
	}
	switch c.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("%w: theme %q (want classic, neon or mono)", ErrInvalid, c.Theme)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Dir is the per-user tada directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

func userFile() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, UserFileName)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func projectFile() string {
	for _, name := range []string{ProjectFileName, "." + ProjectFileName} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: %s: unknown keys %v", ErrInvalid, path, undecoded)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"TADA_BACKEND":   &cfg.Backend,
		"TADA_PATH":      &cfg.Path,
		"TADA_KEY":       &cfg.Key,
		"TADA_THEME":     &cfg.Theme,
		"TADA_LOG_LEVEL": &cfg.LogLevel,
		"TADA_LOG_FILE":  &cfg.LogFile,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv("TADA_NO_COLOR"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: TADA_NO_COLOR=%q: %v", ErrInvalid, v, err)
		}
		cfg.NoColor = b
	}
	return nil
}
