package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom(missing): %v", err)
	}
	want := Defaults()
	if *cfg != *want {
		t.Errorf("LoadFrom(missing) = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFromMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("default_cols: 120\nkill_grace: 10s\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DefaultCols != 120 {
		t.Errorf("DefaultCols = %d, want 120", cfg.DefaultCols)
	}
	if cfg.KillGrace != 10*time.Second {
		t.Errorf("KillGrace = %v, want 10s", cfg.KillGrace)
	}
	// Fields absent from the file keep their built-in defaults.
	if cfg.DefaultRows != Defaults().DefaultRows {
		t.Errorf("DefaultRows = %d, want unmodified default %d", cfg.DefaultRows, Defaults().DefaultRows)
	}
}

func TestIsStateDirAndWriteMarker(t *testing.T) {
	dir := t.TempDir()
	if IsStateDir(dir) {
		t.Fatal("a fresh temp dir should not already be a state dir")
	}
	if err := WriteMarker(dir); err != nil {
		t.Fatalf("WriteMarker: %v", err)
	}
	if !IsStateDir(dir) {
		t.Error("expected IsStateDir to be true after WriteMarker")
	}
}
