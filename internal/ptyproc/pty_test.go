package ptyproc

import (
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestOpenReadWrite(t *testing.T) {
	h, err := Open("/bin/sh", []string{"-c", "cat"}, nil, "", 80, 24)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	if h.PID() <= 0 {
		t.Errorf("PID() = %d, want > 0", h.PID())
	}

	if _, err := h.Write([]byte("hello\r\n"), time.Second); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, 256)
	var got strings.Builder
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.master.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := h.Read(buf)
		got.Write(buf[:n])
		if strings.Contains(got.String(), "hello") {
			return
		}
		if err != nil && n == 0 {
			continue
		}
	}
	t.Fatalf("never read back echoed input, got %q", got.String())
}

func TestEnvOverridesMerge(t *testing.T) {
	h, err := Open("/bin/sh", []string{"-c", "echo $FOO"}, map[string]string{"FOO": "bar"}, "", 80, 24)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	buf := make([]byte, 256)
	var got strings.Builder
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.master.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _ := h.Read(buf)
		got.Write(buf[:n])
		if strings.Contains(got.String(), "bar") {
			return
		}
	}
	t.Fatalf("child did not see overridden env var, got %q", got.String())
}

func TestKillWithEscalationReapsChild(t *testing.T) {
	h, err := Open("/bin/sh", []string{"-c", "trap '' TERM; sleep 30"}, nil, "", 80, 24)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	start := time.Now()
	h.KillWithEscalation(300 * time.Millisecond)
	if time.Since(start) > 3*time.Second {
		t.Errorf("KillWithEscalation took %v, want it to force-kill promptly after grace", time.Since(start))
	}
	exited, _ := h.ReapNonblocking()
	if !exited {
		t.Error("expected child to be reaped after KillWithEscalation")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h, err := Open("/bin/sh", []string{"-c", "cat"}, nil, "", 80, 24)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close: %v, want nil (idempotent)", err)
	}
	if !h.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
}

func TestKillSendsSignal(t *testing.T) {
	h, err := Open("/bin/sh", []string{"-c", "sleep 30"}, nil, "", 80, 24)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()
	h.Kill(syscall.SIGKILL)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if exited, _ := h.ReapNonblocking(); exited {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("child was not reaped after SIGKILL")
}
