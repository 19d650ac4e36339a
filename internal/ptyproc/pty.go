// Package ptyproc owns the PTY Handle: one forked child process and its
// master PTY fd. It is grounded on the StartPTY/WritePTY/KillChild pattern
// used across the example corpus's virtual-terminal wrappers, adapted to
// the spec's open/read/write/resize/kill/reap contract.
package ptyproc

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/ekainfr/vtauto/internal/errs"
)

// ErrWriteTimeout is returned by Write when the child is not draining its
// stdin and the kernel PTY buffer would otherwise block indefinitely.
var ErrWriteTimeout = fmt.Errorf("pty write timed out")

// Handle owns the master side of one PTY pair and its child process.
// The PTY Handle is owned exclusively by its Session: no other component
// holds the master fd.
type Handle struct {
	master   *os.File
	cmd      *exec.Cmd
	writeMu  sync.Mutex
	closeOnce sync.Once
	closed   bool
}

// Open forks command with args inside a new PTY of the given size. env, if
// non-nil, is merged over (and overrides) the daemon's own environment;
// cwd, if empty, defaults to the daemon's working directory.
func Open(command string, args []string, env map[string]string, cwd string, cols, rows int) (*Handle, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = cwd
	cmd.Env = mergeEnv(env)

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, errs.Wrap(errs.SpawnFailed, err, "start %s", command)
	}
	return &Handle{master: master, cmd: cmd}, nil
}

func mergeEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return os.Environ()
	}
	base := os.Environ()
	env := make([]string, 0, len(base)+len(extra))
	for _, e := range base {
		key := e
		if idx := strings.IndexByte(e, '='); idx >= 0 {
			key = e[:idx]
		}
		if _, overridden := extra[key]; !overridden {
			env = append(env, e)
		}
	}
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

// PID returns the child process id.
func (h *Handle) PID() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Read reads raw child output. It blocks until data is available, EOF, or
// an I/O error — callers run it on a dedicated reader goroutine.
func (h *Handle) Read(buf []byte) (int, error) {
	return h.master.Read(buf)
}

// Write writes p to the child's stdin, giving up after timeout with
// ErrWriteTimeout if the kernel buffer is full and the child isn't reading.
func (h *Handle) Write(p []byte, timeout time.Duration) (int, error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := h.master.Write(p)
		ch <- result{n, err}
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-timer.C:
		return 0, ErrWriteTimeout
	}
}

// Resize applies a winsize ioctl for the new dimensions.
func (h *Handle) Resize(cols, rows int) error {
	return pty.Setsize(h.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Kill sends sig to the child process.
func (h *Handle) Kill(sig syscall.Signal) {
	if h.cmd != nil && h.cmd.Process != nil {
		h.cmd.Process.Signal(sig)
	}
}

// KillWithEscalation sends SIGTERM, waits up to grace for the child to
// exit, then sends SIGKILL. It returns once the child has been reaped or
// the grace window plus a short kill-settle period has elapsed.
func (h *Handle) KillWithEscalation(grace time.Duration) {
	h.Kill(syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		h.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
		return
	case <-time.After(grace):
	}
	h.Kill(syscall.SIGKILL)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// ReapNonblocking polls the child's exit status without blocking. It
// returns (true, exitErr) once the child has exited.
func (h *Handle) ReapNonblocking() (exited bool, exitErr error) {
	if h.cmd == nil || h.cmd.ProcessState != nil {
		return true, nil
	}
	var ws syscall.WaitStatus
	pid, err := syscall.Wait4(h.PID(), &ws, syscall.WNOHANG, nil)
	if err != nil || pid == 0 {
		return false, nil
	}
	if ws.Exited() && ws.ExitStatus() != 0 {
		exitErr = fmt.Errorf("exit status %d", ws.ExitStatus())
	}
	return true, exitErr
}

// IsClosed reports whether Close has already run.
func (h *Handle) IsClosed() bool { return h.closed }

// Close signals the child (if still running), closes the master fd exactly
// once, and is safe to call multiple times or after a panic.
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.closed = true
		if h.cmd != nil && h.cmd.Process != nil {
			h.cmd.Process.Signal(syscall.SIGTERM)
		}
		err = h.master.Close()
	})
	return err
}
