// Package session couples one PTY Handle + Emulator + Buffer pair with a
// dedicated reader task, per spec component C5. A Session is the unit the
// Registry hands out and the Dispatcher operates on.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ekainfr/vtauto/internal/emu"
	"github.com/ekainfr/vtauto/internal/errs"
	"github.com/ekainfr/vtauto/internal/keys"
	"github.com/ekainfr/vtauto/internal/ptyproc"
	"github.com/ekainfr/vtauto/internal/recorder"
	"github.com/ekainfr/vtauto/internal/term"
	"github.com/ekainfr/vtauto/internal/vom"
)

const defaultWriteTimeout = 5 * time.Second

// Info is the read-only snapshot of session metadata used by List/Health.
type Info struct {
	ID        string
	Command   string
	Args      []string
	CreatedAt time.Time
	Cols, Rows int
	PID       int
	Running   bool
}

// Session glues a PTY Handle to an Emulator and runs the session's one
// dedicated reader task. The emulator+buffer pair is guarded by mu, a
// single reader-writer lock, per the spec's shared-resource policy; the
// PTY's own write path is separately serialized inside ptyproc.Handle.
type Session struct {
	ID        string
	Command   string
	Args      []string
	CreatedAt time.Time

	pty      *ptyproc.Handle
	mu       sync.RWMutex
	emulator *emu.Emulator

	running   atomic.Bool
	cancelled atomic.Bool

	genMu sync.Mutex
	genCh chan struct{}

	recMu    sync.Mutex
	rec      *recorder.Recorder

	subMu sync.Mutex
	subs  map[chan []byte]struct{}

	doneCh  chan struct{}
	exitErr error
}

// Options configures Spawn.
type Options struct {
	Command string
	Args    []string
	Env     map[string]string
	Cwd     string
	Cols    int
	Rows    int
}

// New spawns command under a PTY of the requested size and starts the
// session's reader task. The returned Session is running.
func New(id string, opts Options) (*Session, error) {
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	h, err := ptyproc.Open(opts.Command, opts.Args, opts.Env, opts.Cwd, opts.Cols, opts.Rows)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:        id,
		Command:   opts.Command,
		Args:      opts.Args,
		CreatedAt: time.Now(),
		pty:       h,
		emulator:  emu.New(opts.Cols, opts.Rows),
		genCh:     make(chan struct{}),
		subs:      make(map[chan []byte]struct{}),
		doneCh:    make(chan struct{}),
	}
	s.running.Store(true)
	s.emulator.OnRespond = func(b []byte) {
		s.pty.Write(b, defaultWriteTimeout)
	}
	go s.readLoop()
	return s, nil
}

// PID returns the child process id.
func (s *Session) PID() int { return s.pty.PID() }

// Running reports whether the child has not yet been reaped.
func (s *Session) Running() bool { return s.running.Load() }

// Cancelled reports whether Kill has been called on this session; the Wait
// Engine checks this to abort in-flight waits promptly.
func (s *Session) Cancelled() bool { return s.cancelled.Load() }

// Done returns a channel closed once the reader task has exited.
func (s *Session) Done() <-chan struct{} { return s.doneCh }

// WaitChan returns a channel that closes the next time the buffer's
// revision advances (or the session ends). The Wait Engine selects on it
// as a change-driven wake-up, falling back to polling as a liveness
// backstop.
func (s *Session) WaitChan() <-chan struct{} {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.genCh
}

func (s *Session) notifyChange() {
	s.genMu.Lock()
	old := s.genCh
	s.genCh = make(chan struct{})
	s.genMu.Unlock()
	close(old)
}

func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	defer close(s.doneCh)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			s.mu.Lock()
			s.emulator.Feed(chunk)
			s.mu.Unlock()
			s.appendRecording(chunk)
			s.broadcast(chunk)
			s.notifyChange()
		}
		if err != nil {
			s.finish(err)
			s.notifyChange()
			return
		}
	}
}

// subscriberBuffer bounds how far behind an attach client's consumption
// can lag before Subscribe drops its chunks rather than blocking the
// reader task.
const subscriberBuffer = 256

// Subscribe registers a channel that receives every future chunk of raw
// PTY output, for the attach byte-stream path. The caller must invoke the
// returned cancel func when done to avoid leaking the channel.
func (s *Session) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcast(chunk []byte) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- chunk:
		default:
			// Slow subscriber: drop this chunk rather than stall the
			// session's single reader task.
		}
	}
}

func (s *Session) appendRecording(chunk []byte) {
	s.recMu.Lock()
	r := s.rec
	s.recMu.Unlock()
	if r != nil {
		r.Append(chunk)
	}
}

func (s *Session) finish(err error) {
	if _, exitErr := waitReap(s.pty); exitErr != nil {
		err = exitErr
	}
	s.exitErr = err
	s.running.Store(false)
}

// waitReap polls ReapNonblocking briefly to pick up the final exit status
// after EOF (the child may not have been reaped the instant its pipe
// closed).
func waitReap(h *ptyproc.Handle) (bool, error) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if exited, exitErr := h.ReapNonblocking(); exited {
			return exited, exitErr
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false, nil
}

// StartRecording installs r as the recording sink; nil disables recording.
func (s *Session) StartRecording(r *recorder.Recorder) {
	s.recMu.Lock()
	s.rec = r
	s.recMu.Unlock()
}

// StopRecording flushes and detaches the recording sink.
func (s *Session) StopRecording() {
	s.recMu.Lock()
	r := s.rec
	s.rec = nil
	s.recMu.Unlock()
	if r != nil {
		r.Close()
	}
}

// Write enqueues raw bytes to the child's stdin, serialized by the PTY
// Handle's own write mutex.
func (s *Session) Write(p []byte) error {
	if !s.Running() {
		return errs.New(errs.NotRunning, "session %s is not running", s.ID)
	}
	n, err := s.pty.Write(p, defaultWriteTimeout)
	if err == ptyproc.ErrWriteTimeout {
		return errs.Wrap(errs.WriteBlocked, err, "write to session %s timed out", s.ID)
	}
	if err != nil {
		return errs.Wrap(errs.IoError, err, "write to session %s", s.ID)
	}
	if n < len(p) {
		return errs.New(errs.IoError, "short write to session %s (%d/%d bytes)", s.ID, n, len(p))
	}
	return nil
}

// WriteKey translates a named key (per the key-name grammar) and writes it.
func (s *Session) WriteKey(name string) error {
	b, err := keys.Encode(name)
	if err != nil {
		return err
	}
	return s.Write(b)
}

// Resize applies a winsize ioctl then resizes the emulator, under the lock
// that also blocks the reader mid-byte-batch.
func (s *Session) Resize(cols, rows int) error {
	if !s.Running() {
		return errs.New(errs.NotRunning, "session %s is not running", s.ID)
	}
	s.mu.Lock()
	if err := s.pty.Resize(cols, rows); err != nil {
		s.mu.Unlock()
		return errs.Wrap(errs.IoError, err, "resize session %s", s.ID)
	}
	s.emulator.Resize(cols, rows)
	s.mu.Unlock()
	s.notifyChange()
	return nil
}

// Size returns the active buffer's current dimensions.
func (s *Session) Size() (cols, rows int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.emulator.Buffer()
	return b.Cols(), b.Rows()
}

// Snapshot captures a consistent view of the buffer: rendered text, cursor,
// and (optionally) VOM elements, all under one read guard so no caller ever
// observes a partially-applied byte batch.
type Snapshot struct {
	Cols, Rows int
	Screen     string
	Cursor     term.Cursor
	Elements   []vom.Element
	Revision   uint64
}

func (s *Session) Snapshot(includeElements, stripANSI bool) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.emulator.Buffer()
	snap := Snapshot{
		Cols:     b.Cols(),
		Rows:     b.Rows(),
		Screen:   b.RenderText(!stripANSI),
		Cursor:   b.Cursor(),
		Revision: b.Revision(),
	}
	if includeElements {
		snap.Elements = vom.Detect(b)
	}
	return snap
}

// Elements returns the current VOM detection without a full snapshot.
func (s *Session) Elements() []vom.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return vom.Detect(s.emulator.Buffer())
}

// Revision returns the buffer's current revision counter.
func (s *Session) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emulator.Buffer().Revision()
}

// StabilityHash returns the buffer's current stability fingerprint.
func (s *Session) StabilityHash() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emulator.Buffer().StabilityHash()
}

// RenderedText returns the ANSI-stripped buffer text, used by text-based
// Wait conditions and diagnostics.
func (s *Session) RenderedText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emulator.Buffer().RenderText(false)
}

// Title returns the emulator's last-set window title.
func (s *Session) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emulator.Title()
}

// Info returns a metadata snapshot for List/Health.
func (s *Session) Info() Info {
	cols, rows := s.Size()
	return Info{
		ID:        s.ID,
		Command:   s.Command,
		Args:      s.Args,
		CreatedAt: s.CreatedAt,
		Cols:      cols,
		Rows:      rows,
		PID:       s.PID(),
		Running:   s.Running(),
	}
}

// Kill marks the session cancelled, escalates SIGTERM->SIGKILL against the
// child, and waits (bounded) for the reader task to finish.
func (s *Session) Kill(grace time.Duration) {
	s.cancelled.Store(true)
	s.pty.KillWithEscalation(grace)
	select {
	case <-s.doneCh:
	case <-time.After(grace + 2*time.Second):
	}
	s.StopRecording()
}

// Close releases the PTY fd. Safe to call after Kill.
func (s *Session) Close() error {
	return s.pty.Close()
}
