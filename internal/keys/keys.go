// Package keys translates the named-key grammar (e.g. "Ctrl+Shift+Tab")
// accepted by the Write/Action operations into raw bytes for the PTY.
package keys

import (
	"strings"

	"github.com/ekainfr/vtauto/internal/errs"
)

type modifiers struct {
	ctrl, alt, shift bool
}

// Encode parses a single key token (possibly "+"-joined with modifiers,
// case-insensitive, modifier order insignificant) and returns the bytes it
// produces on the wire. Unknown tokens return an InvalidKey error.
func Encode(name string) ([]byte, error) {
	parts := strings.Split(name, "+")
	var mod modifiers
	var base string
	for i, p := range parts {
		lower := strings.ToLower(strings.TrimSpace(p))
		isLast := i == len(parts)-1
		switch lower {
		case "ctrl", "control":
			mod.ctrl = true
		case "alt", "meta", "option":
			mod.alt = true
		case "shift":
			mod.shift = true
		default:
			if !isLast {
				return nil, errs.New(errs.InvalidKey, "unknown modifier %q in %q", p, name)
			}
			base = lower
		}
	}
	if base == "" {
		return nil, errs.New(errs.InvalidKey, "empty key name")
	}
	return encodeBase(base, mod, name)
}

func encodeBase(base string, mod modifiers, orig string) ([]byte, error) {
	if seq, ok := namedSequence(base, mod); ok {
		return applyAlt(seq, mod), nil
	}

	// Single printable character, with optional Ctrl/Alt.
	runes := []rune(base)
	if len(runes) == 1 {
		r := runes[0]
		if mod.ctrl {
			b, ok := controlByte(r)
			if !ok {
				return nil, errs.New(errs.InvalidKey, "no control form for %q", orig)
			}
			return applyAlt([]byte{b}, mod), nil
		}
		if mod.shift {
			r = toUpper(r)
		}
		return applyAlt([]byte(string(r)), mod), nil
	}

	return nil, errs.New(errs.InvalidKey, "unrecognized key %q", orig)
}

func applyAlt(seq []byte, mod modifiers) []byte {
	if !mod.alt {
		return seq
	}
	out := make([]byte, 0, len(seq)+1)
	out = append(out, 0x1b)
	out = append(out, seq...)
	return out
}

func controlByte(r rune) (byte, bool) {
	r = toUpper(r)
	switch {
	case r >= 'A' && r <= 'Z':
		return byte(r - 'A' + 1), true
	case r == '@':
		return 0x00, true
	case r == '[':
		return 0x1b, true
	case r == '\\':
		return 0x1c, true
	case r == ']':
		return 0x1d, true
	case r == '^':
		return 0x1e, true
	case r == '_':
		return 0x1f, true
	}
	return 0, false
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// namedSequence resolves the fixed set of named keys (Enter, Escape, arrows,
// function keys, ...) to their xterm byte sequence, applying Shift where it
// changes the sequence (e.g. Shift+Tab -> back-tab).
func namedSequence(name string, mod modifiers) ([]byte, bool) {
	switch name {
	case "enter", "return":
		return []byte{'\r'}, true
	case "escape", "esc":
		return []byte{0x1b}, true
	case "tab":
		if mod.shift {
			return []byte("\x1b[Z"), true
		}
		return []byte{'\t'}, true
	case "backspace":
		return []byte{0x7f}, true
	case "delete", "del":
		return []byte("\x1b[3~"), true
	case "space":
		return []byte{' '}, true
	case "home":
		return []byte("\x1b[H"), true
	case "end":
		return []byte("\x1b[F"), true
	case "pageup", "pgup":
		return []byte("\x1b[5~"), true
	case "pagedown", "pgdn":
		return []byte("\x1b[6~"), true
	case "up", "arrowup":
		return arrowSeq('A', mod), true
	case "down", "arrowdown":
		return arrowSeq('B', mod), true
	case "right", "arrowright":
		return arrowSeq('C', mod), true
	case "left", "arrowleft":
		return arrowSeq('D', mod), true
	}
	if len(name) >= 2 && (name[0] == 'f' || name[0] == 'F') {
		if n, ok := parseFKey(name[1:]); ok {
			return fKeySeq(n), true
		}
	}
	return nil, false
}

func arrowSeq(final byte, mod modifiers) []byte {
	if mod.shift {
		return []byte{0x1b, '[', '1', ';', '2', final}
	}
	return []byte{0x1b, '[', final}
}

func parseFKey(digits string) (int, bool) {
	n := 0
	if len(digits) == 0 || len(digits) > 2 {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}

// fKeySeq maps F1-F24 to xterm sequences: SS3 (ESC O) forms for F1-F4,
// CSI ~ forms for the rest.
func fKeySeq(n int) []byte {
	switch n {
	case 1:
		return []byte("\x1bOP")
	case 2:
		return []byte("\x1bOQ")
	case 3:
		return []byte("\x1bOR")
	case 4:
		return []byte("\x1bOS")
	}
	codes := map[int]string{
		5: "15", 6: "17", 7: "18", 8: "19", 9: "20", 10: "21",
		11: "23", 12: "24", 13: "25", 14: "26", 15: "28", 16: "29",
		17: "31", 18: "32", 19: "33", 20: "34",
	}
	if code, ok := codes[n]; ok {
		return []byte("\x1b[" + code + "~")
	}
	// F21-F24 have no widely-agreed xterm sequence; they reuse the F17-F20
	// sequences unchanged, so the child cannot tell F21 from F17, and so on.
	return []byte("\x1b[" + codes[n-4] + "~")
}
