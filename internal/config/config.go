// Package config resolves the vtauto state directory and loads the
// optional daemon config file from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ekainfr/vtauto/internal/version"
)

const markerFile = ".vtauto-dir.txt"

// Config is the optional daemon config file, <state-dir>/config.yaml.
type Config struct {
	DefaultShell  string        `yaml:"default_shell"`
	DefaultCols   int           `yaml:"default_cols"`
	DefaultRows   int           `yaml:"default_rows"`
	KillGrace     time.Duration `yaml:"kill_grace"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	RecordFormat  string        `yaml:"record_format"`
}

// Defaults returns a Config populated with the daemon's built-in defaults.
func Defaults() *Config {
	return &Config{
		DefaultShell: defaultShell(),
		DefaultCols:  80,
		DefaultRows:  24,
		KillGrace:    3 * time.Second,
		WriteTimeout: 5 * time.Second,
		RecordFormat: "jsonstream",
	}
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// IsStateDir checks if dir contains a valid marker file.
func IsStateDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, markerFile))
	return err == nil && !info.IsDir()
}

// WriteMarker writes the marker file with the current daemon version.
func WriteMarker(dir string) error {
	return os.WriteFile(filepath.Join(dir, markerFile), []byte("v"+version.Version+"\n"), 0o644)
}

var (
	resolvedDir string
	resolvedErr error
	resolveOnce sync.Once
)

// ResolveDir finds the vtauto state directory.
// Order: VTAUTO_DIR env var -> ~/.vtauto/ (created on first use).
// Result is cached for the process lifetime.
func ResolveDir() (string, error) {
	resolveOnce.Do(func() {
		resolvedDir, resolvedErr = resolveDir()
	})
	return resolvedDir, resolvedErr
}

// ResetResolveCache resets the cached ResolveDir result. For testing only.
func ResetResolveCache() {
	resolveOnce = sync.Once{}
	resolvedDir = ""
	resolvedErr = nil
}

func resolveDir() (string, error) {
	if dir := os.Getenv("VTAUTO_DIR"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("VTAUTO_DIR: %w", err)
		}
		if err := ensureStateDir(abs); err != nil {
			return "", err
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".vtauto")
	if err := ensureStateDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func ensureStateDir(dir string) error {
	if IsStateDir(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return WriteMarker(dir)
}

// StateDir returns the resolved state dir, falling back to ~/.vtauto on
// resolution failure so CLI subcommands that just print help text don't
// need to fail for a missing directory.
func StateDir() string {
	dir, err := ResolveDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return filepath.Join(".", ".vtauto")
		}
		return filepath.Join(home, ".vtauto")
	}
	return dir
}

// Load reads <state-dir>/config.yaml, merged over Defaults(). A missing
// file is not an error.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(StateDir(), "config.yaml"))
}

// LoadFrom reads the config from the given path, merged over Defaults().
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
