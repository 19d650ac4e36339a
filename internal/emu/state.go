// Package emu implements the terminal emulator: it consumes raw child PTY
// bytes and mutates an internal/term.Buffer. The parser is an explicit
// tagged-variant state machine (Ground/Escape/CSI/OSC/DCS/APC) with one
// transition function per mode, per the design note that such machines are
// clearer than unbounded lookahead.
package emu

import "github.com/ekainfr/vtauto/internal/term"

// mode is the parser's current tagged state.
type mode uint8

const (
	modeGround mode = iota
	modeEscape
	modeCSIParam
	modeOSCString
	modeDCSString
	modeAPCString
)

// Emulator owns the primary and alternate screen buffers and the parser
// state machine that feeds them. One Emulator belongs to exactly one
// Session; Feed is not safe for concurrent use — callers serialize access
// via the session's reader-writer lock.
type Emulator struct {
	primary   *term.Buffer
	alternate *term.Buffer
	usingAlt  bool

	m            mode
	params       []int
	curParam     int
	haveParam    bool
	private      bool // leading '?', '>' or '=' in CSI (DEC private modes)
	intermediate byte
	strBuf       []byte // accumulated OSC string payload
	strEscSeen   bool   // one-byte ESC lookahead while inside OSC/DCS/APC

	cur          term.Style // current SGR attribute template for new writes
	savedCursor  term.SavedCursor
	altSaved     term.SavedCursor
	scrollTop    int
	scrollBottom int
	pendingWrap  bool
	autowrap     bool
	originMode   bool
	tabStops     map[int]bool
	lastPrinted  rune

	title string

	// OnTitle is invoked when OSC 0/1/2 sets the window title.
	OnTitle func(string)
	// OnRespond is invoked when the emulator needs to write a response back
	// to the child; the only query answered is the DSR cursor position
	// report (CSI 6 n). nil is a valid no-op.
	OnRespond func([]byte)
}

// New builds an Emulator with the given initial dimensions.
func New(cols, rows int) *Emulator {
	e := &Emulator{
		primary:   term.NewBuffer(cols, rows),
		alternate: term.NewBuffer(cols, rows),
		autowrap:  true,
	}
	e.scrollBottom = rows - 1
	e.resetTabStops(cols)
	return e
}

func (e *Emulator) resetTabStops(cols int) {
	e.tabStops = make(map[int]bool)
	for c := 8; c < cols; c += 8 {
		e.tabStops[c] = true
	}
}

// Buffer returns the currently active screen buffer (primary or alternate).
func (e *Emulator) Buffer() *term.Buffer {
	if e.usingAlt {
		return e.alternate
	}
	return e.primary
}

// PrimaryBuffer always returns the primary buffer, even while the alternate
// screen is active (used by tests and S2-style assertions).
func (e *Emulator) PrimaryBuffer() *term.Buffer { return e.primary }

// IsAlternateScreen reports whether the alternate screen is active.
func (e *Emulator) IsAlternateScreen() bool { return e.usingAlt }

// Title returns the last window title set via OSC 0/1/2.
func (e *Emulator) Title() string { return e.title }

// Resize propagates a size change to both buffers and clamps the scroll
// region and tab stops to the new width.
func (e *Emulator) Resize(cols, rows int) {
	e.primary.Resize(cols, rows)
	e.alternate.Resize(cols, rows)
	e.scrollTop = 0
	e.scrollBottom = rows - 1
	e.resetTabStops(cols)
	e.pendingWrap = false
}

func (e *Emulator) cursor() term.Cursor   { return e.Buffer().Cursor() }
func (e *Emulator) moveCursor(r, c int)   { e.Buffer().MoveCursor(r, c); e.pendingWrap = false }
func (e *Emulator) setCursor(cur term.Cursor) { e.Buffer().SetCursor(cur) }
