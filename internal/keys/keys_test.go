package keys

import (
	"bytes"
	"testing"

	"github.com/ekainfr/vtauto/internal/errs"
)

func TestEncodeNamedKeys(t *testing.T) {
	cases := []struct {
		name string
		want []byte
	}{
		{"Enter", []byte{'\r'}},
		{"enter", []byte{'\r'}},
		{"Escape", []byte{0x1b}},
		{"Tab", []byte{'\t'}},
		{"Shift+Tab", []byte("\x1b[Z")},
		{"Backspace", []byte{0x7f}},
		{"Up", []byte("\x1b[A")},
		{"F1", []byte("\x1bOP")},
		{"F5", []byte("\x1b[15~")},
	}
	for _, c := range cases {
		got, err := Encode(c.name)
		if err != nil {
			t.Errorf("Encode(%q) error: %v", c.name, err)
			continue
		}
		if !bytes.Equal(got, c.want) {
			t.Errorf("Encode(%q) = %x, want %x", c.name, got, c.want)
		}
	}
}

func TestEncodeControlLetters(t *testing.T) {
	got, err := Encode("Ctrl+C")
	if err != nil {
		t.Fatalf("Encode(Ctrl+C) error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x03}) {
		t.Errorf("Encode(Ctrl+C) = %x, want %x", got, []byte{0x03})
	}
}

func TestEncodeModifierOrderInsignificant(t *testing.T) {
	a, err1 := Encode("Ctrl+Shift+Tab")
	b, err2 := Encode("Shift+Ctrl+Tab")
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("modifier order should not matter: %x vs %x", a, b)
	}
}

func TestEncodeUnknownKeyIsInvalidKey(t *testing.T) {
	_, err := Encode("Frobnicate")
	if err == nil {
		t.Fatal("expected an error for an unknown key token")
	}
	if errs.KindOf(err) != errs.InvalidKey {
		t.Errorf("KindOf(err) = %v, want %v", errs.KindOf(err), errs.InvalidKey)
	}
}
