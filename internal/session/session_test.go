package session

import (
	"strings"
	"testing"
	"time"
)

func newTestSession(t *testing.T, args ...string) *Session {
	t.Helper()
	s, err := New("test", Options{Command: "/bin/sh", Args: args, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Kill(200 * time.Millisecond) })
	return s
}

func TestWriteEchoesThroughBuffer(t *testing.T) {
	s := newTestSession(t, "-c", "cat")
	if err := s.Write([]byte("hi\r\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(s.RenderedText(), "hi") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("buffer never showed echoed input, got %q", s.RenderedText())
}

func TestSubscribeReceivesBroadcastChunks(t *testing.T) {
	s := newTestSession(t, "-c", "cat")
	ch, cancel := s.Subscribe()
	defer cancel()

	if err := s.Write([]byte("ping\r\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case chunk := <-ch:
		if len(chunk) == 0 {
			t.Error("received an empty chunk")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a broadcast chunk")
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	s := newTestSession(t, "-c", "cat")
	ch, cancel := s.Subscribe()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("expected the channel to be closed after cancel")
	}
}

func TestResizeUpdatesBufferDimensions(t *testing.T) {
	s := newTestSession(t, "-c", "cat")
	if err := s.Resize(100, 40); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	cols, rows := s.Size()
	if cols != 100 || rows != 40 {
		t.Errorf("Size() = (%d,%d), want (100,40)", cols, rows)
	}
}

func TestWaitChanClosesOnChange(t *testing.T) {
	s := newTestSession(t, "-c", "cat")
	gen := s.WaitChan()
	if err := s.Write([]byte("x\r\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	select {
	case <-gen:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitChan never closed after output arrived")
	}
}

func TestKillStopsRunningAndClosesDone(t *testing.T) {
	s, err := New("test-kill", Options{Command: "/bin/sh", Args: []string{"-c", "sleep 30"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Kill(200 * time.Millisecond)
	if s.Running() {
		t.Error("expected Running() = false after Kill")
	}
	select {
	case <-s.Done():
	default:
		t.Error("expected Done() channel to be closed after Kill")
	}
}
