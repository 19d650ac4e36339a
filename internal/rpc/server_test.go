package rpc

import (
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/registry"
)

func startTestServer(t *testing.T) *Client {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	disp := dispatch.New(registry.New(), time.Second)
	srv := NewServer(ln, disp)
	go srv.Serve()
	t.Cleanup(func() { ln.Close() })
	return Dial(sockPath)
}

func TestCallSpawnSnapshotKill(t *testing.T) {
	c := startTestServer(t)

	var spawned dispatch.SpawnResult
	err := c.Call(MethodSpawn, dispatch.SpawnParams{Command: "/bin/sh", Args: []string{"-c", "cat"}, Cols: 80, Rows: 24}, &spawned)
	if err != nil {
		t.Fatalf("spawn Call: %v", err)
	}
	if spawned.SessionID == "" {
		t.Fatal("spawn returned an empty session id")
	}

	var snap dispatch.SnapshotResult
	if err := c.Call(MethodSnapshot, struct {
		Session string
		Params  dispatch.SnapshotParams
	}{spawned.SessionID, dispatch.SnapshotParams{StripANSI: true}}, &snap); err != nil {
		t.Fatalf("snapshot Call: %v", err)
	}

	err = c.Call(MethodKill, struct{ Session string }{spawned.SessionID}, nil)
	if err != nil {
		t.Fatalf("kill Call: %v", err)
	}

	err = c.Call(MethodSnapshot, struct {
		Session string
		Params  dispatch.SnapshotParams
	}{spawned.SessionID, dispatch.SnapshotParams{}}, &snap)
	if err == nil {
		t.Fatal("expected snapshot after kill to fail")
	}
	var remoteErr *RemoteError
	if re, ok := err.(*RemoteError); ok {
		remoteErr = re
	}
	if remoteErr == nil || remoteErr.Kind != "NotFound" {
		t.Errorf("snapshot-after-kill error = %v, want a RemoteError with Kind=NotFound", err)
	}
}

func TestCallUnknownMethod(t *testing.T) {
	c := startTestServer(t)
	err := c.Call("bogus.method", nil, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown method")
	}
}

func TestAttachStreamsOutput(t *testing.T) {
	c := startTestServer(t)

	var spawned dispatch.SpawnResult
	if err := c.Call(MethodSpawn, dispatch.SpawnParams{Command: "/bin/sh", Args: []string{"-c", "cat"}, Cols: 80, Rows: 24}, &spawned); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	t.Cleanup(func() { c.Call(MethodKill, struct{ Session string }{spawned.SessionID}, nil) })

	conn, err := c.Attach(spawned.SessionID, 80, 24)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer conn.Close()

	if err := WriteFrame(conn, FrameTypeData, []byte("marker\r\n")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var seen strings.Builder
	for i := 0; i < 20; i++ {
		ft, payload, err := ReadFrame(conn)
		if err != nil {
			break
		}
		if ft == FrameTypeData {
			seen.Write(payload)
		}
		if strings.Contains(seen.String(), "marker") {
			return
		}
	}
	t.Fatalf("attach stream never echoed the written marker, got %q", seen.String())
}
