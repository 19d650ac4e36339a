package socketdir

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ekainfr/vtauto/internal/config"
)

func withStateDir(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("VTAUTO_DIR", dir)
	config.ResetResolveCache()
	ResetPathCache()
	t.Cleanup(ResetPathCache)
}

func TestResolvePathShortDirUsedDirectly(t *testing.T) {
	dir := t.TempDir()
	got := resolvePath(dir)
	want := filepath.Join(dir, socketFileName)
	if got != want {
		t.Errorf("resolvePath(%q) = %q, want %q", dir, got, want)
	}
}

func TestResolvePathLongDirGetsShortSymlink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), strings.Repeat("x", maxSocketPathLen))
	got := resolvePath(dir)
	if len(got) > maxSocketPathLen+len(socketFileName) {
		t.Errorf("resolved path %q is still too long", got)
	}
	if strings.HasPrefix(got, dir) {
		t.Errorf("resolvePath(%q) = %q, want a shortened symlink path", dir, got)
	}
	defer os.Remove(filepath.Dir(got))
}

func TestExistsFalseWhenNoSocket(t *testing.T) {
	withStateDir(t, t.TempDir())
	if Exists() {
		t.Error("Exists() = true for a freshly created state dir")
	}
}

func TestRemoveStaleIsNoopWhenMissing(t *testing.T) {
	withStateDir(t, t.TempDir())
	if err := RemoveStale(); err != nil {
		t.Errorf("RemoveStale on a missing socket: %v", err)
	}
}

func TestAcquireInstanceLockExclusive(t *testing.T) {
	withStateDir(t, t.TempDir())

	lock, err := AcquireInstanceLock()
	if err != nil {
		t.Fatalf("AcquireInstanceLock: %v", err)
	}
	defer lock.Unlock()

	if _, err := AcquireInstanceLock(); err == nil {
		t.Error("expected a second AcquireInstanceLock to fail while the first is held")
	}
}
