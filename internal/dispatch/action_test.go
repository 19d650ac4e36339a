package dispatch

import (
	"testing"
	"time"

	"github.com/ekainfr/vtauto/internal/errs"
	"github.com/ekainfr/vtauto/internal/registry"
)

func spawnCatSession(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	d := New(registry.New(), time.Second)
	res, err := d.Spawn(SpawnParams{Command: "/bin/sh", Args: []string{"-c", "cat"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	t.Cleanup(func() { d.Kill(res.SessionID) })
	return d, res.SessionID
}

func TestActionWrongRoleRejected(t *testing.T) {
	d, id := spawnCatSession(t)
	if err := d.Write(id, WriteInput{Raw: []byte("just plain text, no brackets here\r\n")}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	els, err := d.Find(id, FindFilters{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	var target string
	for _, el := range els {
		if el.Role == "StaticText" {
			target = el.Ref
			break
		}
	}
	if target == "" {
		t.Fatalf("expected a StaticText element, got %+v", els)
	}

	err = d.Action(id, ActionParams{ElementRef: target, Verb: VerbFill, Value: "x"})
	if errs.KindOf(err) != errs.WrongRole {
		t.Errorf("Action(fill) on StaticText: KindOf(err) = %v, want %v", errs.KindOf(err), errs.WrongRole)
	}
}

func TestActionUnknownElementNotFound(t *testing.T) {
	d, id := spawnCatSession(t)
	err := d.Action(id, ActionParams{ElementRef: "@enothing0000", Verb: VerbClick})
	if errs.KindOf(err) != errs.NotFound {
		t.Errorf("Action on a missing ref: KindOf(err) = %v, want %v", errs.KindOf(err), errs.NotFound)
	}
}

func TestActionUnknownVerbIsInvalidParams(t *testing.T) {
	d, id := spawnCatSession(t)
	if err := d.Write(id, WriteInput{Raw: []byte("[Submit]\r\n")}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	els, err := d.Find(id, FindFilters{Role: "Button"})
	if err != nil || len(els) == 0 {
		t.Fatalf("Find(Button): %v, elements=%+v", err, els)
	}

	err = d.Action(id, ActionParams{ElementRef: els[0].Ref, Verb: Verb("nonsense")})
	if errs.KindOf(err) != errs.InvalidParams {
		t.Errorf("Action with an unknown verb: KindOf(err) = %v, want %v", errs.KindOf(err), errs.InvalidParams)
	}
}
