package registry

import (
	"testing"
	"time"

	"github.com/ekainfr/vtauto/internal/session"
)

func newTestSession(t *testing.T, id string) *session.Session {
	t.Helper()
	s, err := session.New(id, session.Options{Command: "/bin/sh", Cols: 40, Rows: 10})
	if err != nil {
		t.Fatalf("session.New(%q): %v", id, err)
	}
	t.Cleanup(func() { s.Kill(time.Second) })
	return s
}

func TestCreateSetsFirstSessionActive(t *testing.T) {
	r := New()
	s := newTestSession(t, "abc123")
	r.Create(s)

	active, ok := r.Active()
	if !ok || active.ID != s.ID {
		t.Fatalf("Active() = (%v,%v), want (%q,true)", active, ok, s.ID)
	}
}

// S6: prefix ambiguity between two sessions sharing a 4-hex prefix.
func TestLookupPrefixAmbiguity(t *testing.T) {
	r := New()
	a := newTestSession(t, "abcd1111")
	b := newTestSession(t, "abcd2222")
	r.Create(a)
	r.Create(b)

	if _, err := r.Lookup("abcd"); err == nil {
		t.Fatalf("expected Ambiguous error for shared prefix %q", "abcd")
	}
	got, err := r.Lookup("abcd1")
	if err != nil {
		t.Fatalf("Lookup(%q): unexpected error %v", "abcd1", err)
	}
	if got.ID != a.ID {
		t.Errorf("Lookup(%q) = %q, want %q", "abcd1", got.ID, a.ID)
	}
}

func TestLookupUnknownIsNotFound(t *testing.T) {
	r := New()
	if _, err := r.Lookup("nonexistent"); err == nil {
		t.Fatal("expected NotFound error for an unknown id")
	}
}

func TestRemovePromotesNextRunningSession(t *testing.T) {
	r := New()
	a := newTestSession(t, "session-a")
	b := newTestSession(t, "session-b")
	r.Create(a)
	r.Create(b)

	r.Remove(a.ID)

	active, ok := r.Active()
	if !ok || active.ID != b.ID {
		t.Fatalf("Active() after removing the active session = (%v,%v), want (%q,true)", active, ok, b.ID)
	}
}
