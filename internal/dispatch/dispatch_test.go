package dispatch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ekainfr/vtauto/internal/errs"
	"github.com/ekainfr/vtauto/internal/registry"
	"github.com/ekainfr/vtauto/internal/wait"
)

func newTestDispatcher() *Dispatcher {
	return New(registry.New(), time.Second)
}

// S1: spawn + type + observe.
func TestSpawnWriteWaitObserve(t *testing.T) {
	d := newTestDispatcher()
	res, err := d.Spawn(SpawnParams{Command: "/bin/sh", Args: []string{"-c", "read X; echo out:$X"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	t.Cleanup(func() { d.Kill(res.SessionID) })

	if err := d.Write(res.SessionID, WriteInput{Raw: []byte("hello\n")}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := d.Wait(ctx, res.SessionID, wait.Condition{Kind: wait.TextPresent, Pattern: "out:hello"}, 3*time.Second)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if result.Outcome != wait.OutcomeMatched {
		t.Fatalf("Wait outcome = %v, want %v (diagnostic: %s)", result.Outcome, wait.OutcomeMatched, result.Diagnostic)
	}

	snap, err := d.Snapshot(res.SessionID, SnapshotParams{StripANSI: true})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !strings.Contains(snap.Screen, "out:hello") {
		t.Errorf("final snapshot screen = %q, want it to contain %q", snap.Screen, "out:hello")
	}
}

// S2: alternate-screen isolation.
func TestAlternateScreenSnapshotIsolation(t *testing.T) {
	d := newTestDispatcher()
	res, err := d.Spawn(SpawnParams{Command: "/bin/sh", Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	t.Cleanup(func() { d.Kill(res.SessionID) })

	if err := d.Write(res.SessionID, WriteInput{Raw: []byte("printf '\\x1b[?1049hALT\\x1b[?1049l'\n")}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	d.Wait(ctx, res.SessionID, wait.Condition{Kind: wait.Stable, K: 3, T: 150 * time.Millisecond}, 2*time.Second)

	snap, err := d.Snapshot(res.SessionID, SnapshotParams{StripANSI: true})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if strings.Contains(snap.Screen, "ALT") {
		t.Errorf("snapshot screen must not contain alternate-screen content, got %q", snap.Screen)
	}
}

// Testable property 5: after Kill, subsequent operations return NotFound.
func TestKillThenNotFound(t *testing.T) {
	d := newTestDispatcher()
	res, err := d.Spawn(SpawnParams{Command: "/bin/sh", Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := d.Kill(res.SessionID); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if _, err := d.Snapshot(res.SessionID, SnapshotParams{}); errs.KindOf(err) != errs.NotFound {
		t.Errorf("Snapshot after Kill: KindOf(err) = %v, want %v", errs.KindOf(err), errs.NotFound)
	}
	if err := d.Write(res.SessionID, WriteInput{Raw: []byte("x")}); errs.KindOf(err) != errs.NotFound {
		t.Errorf("Write after Kill: KindOf(err) = %v, want %v", errs.KindOf(err), errs.NotFound)
	}
}

// S5: wait diagnostic on timeout.
func TestWaitDiagnosticOnTimeout(t *testing.T) {
	d := newTestDispatcher()
	res, err := d.Spawn(SpawnParams{Command: "/bin/sh", Args: []string{"-c", "sleep 5"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	t.Cleanup(func() { d.Kill(res.SessionID) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	result, err := d.Wait(ctx, res.SessionID, wait.Condition{Kind: wait.TextPresent, Pattern: "DONE"}, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	elapsed := time.Since(start)
	if result.Outcome != wait.OutcomeTimedOut {
		t.Fatalf("Wait outcome = %v, want %v", result.Outcome, wait.OutcomeTimedOut)
	}
	if elapsed < 500*time.Millisecond {
		t.Errorf("Wait returned after %v, want >= 500ms", elapsed)
	}
	if !strings.Contains(result.Diagnostic, "DONE") {
		t.Errorf("diagnostic = %q, want it to name the pattern %q", result.Diagnostic, "DONE")
	}
}
