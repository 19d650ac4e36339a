package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfNilIsEmpty(t *testing.T) {
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want \"\"", got)
	}
}

func TestKindOfUntypedErrorIsInternal(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != Internal {
		t.Errorf("KindOf(plain error) = %v, want %v", got, Internal)
	}
}

func TestKindOfDirect(t *testing.T) {
	err := New(NotFound, "session %s missing", "abcd")
	if got := KindOf(err); got != NotFound {
		t.Errorf("KindOf = %v, want %v", got, NotFound)
	}
	if err.Error() == "" {
		t.Error("Error() returned an empty string")
	}
}

func TestKindOfThroughWrapChain(t *testing.T) {
	inner := New(WriteBlocked, "pty busy")
	wrapped := fmt.Errorf("write to session: %w", inner)
	if got := KindOf(wrapped); got != WriteBlocked {
		t.Errorf("KindOf(wrapped) = %v, want %v", got, WriteBlocked)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := Wrap(IoError, cause, "read failed")
	if !errors.Is(e, cause) {
		t.Error("errors.Is did not find the wrapped cause")
	}
	if e.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", e.Unwrap(), cause)
	}
}
