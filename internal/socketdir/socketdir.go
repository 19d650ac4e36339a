// Package socketdir resolves where the daemon's control socket lives,
// shortening the path via a /tmp symlink when the real state-dir path
// would exceed the platform's sockaddr_un length limit.
package socketdir

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/ekainfr/vtauto/internal/config"
)

// maxSocketPathLen is the conservative limit for Unix domain socket
// paths. macOS has sizeof(sockaddr_un.sun_path) = 104; 100 leaves room
// for the filename.
const maxSocketPathLen = 100

const socketFileName = "daemon.sock"

var (
	socketPath     string
	socketPathOnce sync.Once
)

// Path returns the control socket path, derived from the resolved state
// dir. If that path would be too long, a symlink from
// /tmp/vtauto-<hash>/ is created and used instead.
func Path() string {
	socketPathOnce.Do(func() {
		socketPath = resolvePath(config.StateDir())
	})
	return socketPath
}

// ResetPathCache resets the cached Path result. For testing only.
func ResetPathCache() {
	socketPathOnce = sync.Once{}
	socketPath = ""
}

func resolvePath(stateDir string) string {
	realDir := stateDir
	testPath := filepath.Join(realDir, socketFileName)
	if len(testPath) <= maxSocketPathLen {
		return testPath
	}

	h := fnv.New64a()
	h.Write([]byte(realDir))
	shortDir := filepath.Join(os.TempDir(), fmt.Sprintf("vtauto-%x", h.Sum64()))

	if target, err := os.Readlink(shortDir); err == nil && target == realDir {
		return filepath.Join(shortDir, socketFileName)
	}

	os.MkdirAll(realDir, 0o755)
	if err := swapSymlink(shortDir, realDir); err != nil {
		return testPath
	}
	return filepath.Join(shortDir, socketFileName)
}

// swapSymlink points dst at target, replacing any existing entry at dst.
// It builds the new symlink under a process-unique temp name first and
// renames it into place, so a second daemon resolving the same dst never
// observes dst briefly missing the way a plain Remove-then-Symlink would.
func swapSymlink(dst, target string) error {
	tmp := fmt.Sprintf("%s.tmp-%d", dst, os.Getpid())
	os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// PidFilePath returns the path of the daemon's pidfile, alongside the
// control socket.
func PidFilePath() string {
	return filepath.Join(filepath.Dir(Path()), "daemon.pid")
}

// Exists reports whether a socket file is currently present at Path().
func Exists() bool {
	info, err := os.Stat(Path())
	return err == nil && info.Mode()&os.ModeSocket != 0
}

// RemoveStale removes a leftover socket file, e.g. after confirming the
// owning daemon process is no longer running.
func RemoveStale() error {
	err := os.Remove(Path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

const lockAcquireTimeout = 2 * time.Second

// AcquireInstanceLock takes an exclusive lock on the daemon's pidfile,
// retrying for up to lockAcquireTimeout before giving up, used to ensure only one daemon instance owns a given
// control socket at a time. The caller must keep the returned lock held
// (and eventually Unlock it) for the lifetime of the daemon process.
func AcquireInstanceLock() (*flock.Flock, error) {
	dir := filepath.Dir(Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockAcquireTimeout)
	defer cancel()

	fl := flock.New(PidFilePath())
	ok, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another daemon instance already owns %s", Path())
	}
	return fl, nil
}
