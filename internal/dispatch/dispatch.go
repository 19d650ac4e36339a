// Package dispatch implements the Dispatcher (C8): the closed set of
// operations exposed to callers, each of which borrows a Session from the
// Registry and enforces per-session mutual exclusion for mutating ops.
package dispatch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekainfr/vtauto/internal/errs"
	"github.com/ekainfr/vtauto/internal/registry"
	"github.com/ekainfr/vtauto/internal/session"
	"github.com/ekainfr/vtauto/internal/vom"
	"github.com/ekainfr/vtauto/internal/wait"
)

// Dispatcher routes external requests to session use-cases.
type Dispatcher struct {
	reg       *registry.Registry
	startedAt time.Time
	killGrace time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	shuttingDown sync.Once
	shutdown     bool
	shutdownMu   sync.RWMutex
}

// New builds a Dispatcher over reg. killGrace bounds the SIGTERM->SIGKILL
// escalation window used by Kill and shutdown.
func New(reg *registry.Registry, killGrace time.Duration) *Dispatcher {
	return &Dispatcher{
		reg:       reg,
		startedAt: time.Now(),
		killGrace: killGrace,
		locks:     make(map[string]*sync.Mutex),
	}
}

// sessionLock returns (creating if needed) the per-session mutex that
// serializes Write/Resize/Kill/Action against each other for one session.
func (d *Dispatcher) sessionLock(id string) *sync.Mutex {
	d.locksMu.Lock()
	defer d.locksMu.Unlock()
	m, ok := d.locks[id]
	if !ok {
		m = &sync.Mutex{}
		d.locks[id] = m
	}
	return m
}

func (d *Dispatcher) dropLock(id string) {
	d.locksMu.Lock()
	delete(d.locks, id)
	d.locksMu.Unlock()
}

func (d *Dispatcher) acceptingRequests() bool {
	d.shutdownMu.RLock()
	defer d.shutdownMu.RUnlock()
	return !d.shutdown
}

// SpawnParams are the inputs to Spawn.
type SpawnParams struct {
	Command string
	Args    []string
	Cols    int
	Rows    int
	Cwd     string
	Env     map[string]string
}

// SpawnResult is what Spawn returns on success.
type SpawnResult struct {
	SessionID string
	PID       int
}

// Spawn starts a new session and registers it.
func (d *Dispatcher) Spawn(p SpawnParams) (SpawnResult, error) {
	if !d.acceptingRequests() {
		return SpawnResult{}, errs.New(errs.Internal, "daemon is shutting down")
	}
	if p.Command == "" {
		return SpawnResult{}, errs.New(errs.InvalidParams, "command is required")
	}
	id := newSessionID()
	s, err := session.New(id, session.Options{
		Command: p.Command, Args: p.Args, Env: p.Env, Cwd: p.Cwd, Cols: p.Cols, Rows: p.Rows,
	})
	if err != nil {
		return SpawnResult{}, err
	}
	d.reg.Create(s)
	return SpawnResult{SessionID: s.ID, PID: s.PID()}, nil
}

func newSessionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Kill removes ref from the registry, signals its child, and waits
// (bounded) for the reader task to join.
func (d *Dispatcher) Kill(ref string) error {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return err
	}
	lock := d.sessionLock(s.ID)
	lock.Lock()
	defer lock.Unlock()

	d.reg.Remove(s.ID)
	s.Kill(d.killGrace)
	s.Close()
	d.dropLock(s.ID)
	return nil
}

// List returns every session's metadata and the active session id.
func (d *Dispatcher) List() ([]session.Info, string) {
	return d.reg.List(), d.reg.ActiveID()
}

// Attach validates that ref exists and is running; the actual byte-stream
// attach path lives in the external transport (internal/rpc), which treats
// the dispatcher only as the authority on session existence.
func (d *Dispatcher) Attach(ref string) (*session.Session, error) {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return nil, err
	}
	if !s.Running() {
		return nil, errs.New(errs.NotRunning, "session %s is not running", s.ID)
	}
	return s, nil
}

// Resize resizes ref's PTY and emulator.
func (d *Dispatcher) Resize(ref string, cols, rows int) (int, int, error) {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return 0, 0, err
	}
	lock := d.sessionLock(s.ID)
	lock.Lock()
	defer lock.Unlock()
	if err := s.Resize(cols, rows); err != nil {
		return 0, 0, err
	}
	c, r := s.Size()
	return c, r, nil
}

// WriteInput is either raw bytes or a single named key.
type WriteInput struct {
	Raw []byte
	Key string
}

// Write applies one Write request to ref's PTY.
func (d *Dispatcher) Write(ref string, in WriteInput) error {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return err
	}
	lock := d.sessionLock(s.ID)
	lock.Lock()
	defer lock.Unlock()
	if in.Key != "" {
		return s.WriteKey(in.Key)
	}
	return s.Write(in.Raw)
}

// SnapshotParams controls what Snapshot returns.
type SnapshotParams struct {
	IncludeElements bool
	StripANSI       bool
	IncludeCursor   bool
}

// SnapshotResult mirrors the external snapshot JSON shape.
type SnapshotResult struct {
	SessionID string
	Cols, Rows int
	Screen    string
	Cursor    *CursorInfo
	Elements  []vom.Element
}

// CursorInfo is the optional cursor block of a snapshot.
type CursorInfo struct {
	Row, Col int
	Visible  bool
}

// Snapshot takes a consistent read of ref's buffer.
func (d *Dispatcher) Snapshot(ref string, p SnapshotParams) (SnapshotResult, error) {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return SnapshotResult{}, err
	}
	snap := s.Snapshot(p.IncludeElements, p.StripANSI)
	res := SnapshotResult{
		SessionID: s.ID,
		Cols:      snap.Cols,
		Rows:      snap.Rows,
		Screen:    snap.Screen,
	}
	if p.IncludeCursor {
		res.Cursor = &CursorInfo{Row: snap.Cursor.Row, Col: snap.Cursor.Col, Visible: snap.Cursor.Visible}
	}
	if p.IncludeElements {
		res.Elements = snap.Elements
	}
	return res, nil
}

// Wait blocks (up to timeout) evaluating cond against ref's live state.
func (d *Dispatcher) Wait(ctx context.Context, ref string, cond wait.Condition, timeout time.Duration) (wait.Result, error) {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return wait.Result{}, err
	}
	return wait.Run(ctx, s, cond, timeout), nil
}

// FindFilters narrows Find's results.
type FindFilters struct {
	Role          string
	NameSubstring string
	TextSubstring string
	FocusedOnly   bool
}

// Find returns the elements of ref matching the given filters.
func (d *Dispatcher) Find(ref string, f FindFilters) ([]vom.Element, error) {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return nil, err
	}
	var out []vom.Element
	for _, el := range s.Elements() {
		if f.Role != "" && string(el.Role) != f.Role {
			continue
		}
		if f.FocusedOnly && !el.Focused {
			continue
		}
		if f.TextSubstring != "" && !containsFold(el.Text, f.TextSubstring) {
			continue
		}
		if f.NameSubstring != "" && !containsFold(el.Text, f.NameSubstring) {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

// HealthResult is returned by Health.
type HealthResult struct {
	Status        string
	PID           int
	UptimeSeconds float64
	SessionCount  int
	Degraded      []string
}

// Health reports process-level status.
func (d *Dispatcher) Health() HealthResult {
	infos := d.reg.List()
	status := "ok"
	var degraded []string
	for _, info := range infos {
		if !info.Running {
			degraded = append(degraded, "session "+info.ID+" has exited but is still registered")
		}
	}
	if len(degraded) > 0 {
		status = "degraded"
	}
	return HealthResult{
		Status:        status,
		PID:           osPID(),
		UptimeSeconds: time.Since(d.startedAt).Seconds(),
		SessionCount:  len(infos),
		Degraded:      degraded,
	}
}

// BeginShutdown makes Spawn refuse new sessions; the other operations are
// not gated by it, and in-flight requests complete normally. Safe to call
// more than once.
func (d *Dispatcher) BeginShutdown() {
	d.shuttingDown.Do(func() {
		d.shutdownMu.Lock()
		d.shutdown = true
		d.shutdownMu.Unlock()
	})
}

// KillAll signals every registered session's child, used during shutdown.
func (d *Dispatcher) KillAll(grace time.Duration) {
	for _, s := range d.reg.All() {
		s.Kill(grace)
		s.Close()
	}
}
