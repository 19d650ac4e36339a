package emu

import "unicode/utf8"

// Feed parses data and applies its effects to the active buffer, bumping
// the buffer's revision exactly once when done. Feeding the same bytes
// split across two calls (feed(B1); feed(B2)) produces the same final
// state as a single feed(B1++B2), since all parser state lives in e.
func (e *Emulator) Feed(data []byte) {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			// Invalid byte: treat as a single opaque byte so a torn
			// multi-byte sequence at a read boundary can't wedge the parser.
			r = rune(data[0])
			size = 1
		}
		data = data[size:]
		e.step(r)
	}
	e.Buffer().BumpRevision()
}

func (e *Emulator) step(r rune) {
	switch e.m {
	case modeGround:
		e.stepGround(r)
	case modeEscape:
		e.stepEscape(r)
	case modeCSIParam:
		e.stepCSI(r)
	case modeOSCString:
		e.stepOSC(r)
	case modeDCSString:
		e.stepDiscardString(r, modeDCSString)
	case modeAPCString:
		e.stepDiscardString(r, modeAPCString)
	}
}

func (e *Emulator) stepGround(r rune) {
	switch r {
	case 0x1b: // ESC
		e.enterEscape()
		return
	case 0x07: // BEL
		return
	case 0x08: // BS
		e.backspace()
		return
	case 0x09: // HT
		e.tab()
		return
	case 0x0a: // LF
		e.lineFeed()
		return
	case 0x0d: // CR
		e.carriageReturn()
		return
	case 0x0e, 0x0f: // SO / SI — charset switch, minimal support: no-op.
		return
	}
	if r < 0x20 {
		return // other C0 controls ignored
	}
	e.printRune(r)
}

func (e *Emulator) enterEscape() {
	e.m = modeEscape
}

func (e *Emulator) beginDiscardString(m mode) {
	e.m = m
	e.strBuf = e.strBuf[:0]
	e.strEscSeen = false
}

func (e *Emulator) stepEscape(r rune) {
	switch r {
	case '[':
		e.beginCSI()
	case ']':
		e.beginOSC()
	case 'P':
		e.beginDiscardString(modeDCSString)
	case '_':
		e.beginDiscardString(modeAPCString)
	case '^', 'X': // PM, SOS — treat like APC: discard to terminator.
		e.beginDiscardString(modeAPCString)
	case '7':
		e.saveCursor()
		e.m = modeGround
	case '8':
		e.restoreCursor()
		e.m = modeGround
	case 'M':
		e.reverseIndex()
		e.m = modeGround
	case 'D':
		e.lineFeed()
		e.m = modeGround
	case 'E':
		e.carriageReturn()
		e.lineFeed()
		e.m = modeGround
	case 'c':
		e.fullReset()
		e.m = modeGround
	default:
		// Unrecognized escape: abandon, return to ground without emitting.
		e.m = modeGround
	}
}

func (e *Emulator) printRune(r rune) {
	e.lastPrinted = r
	if e.pendingWrap {
		e.wrapNow()
	}
	cur := e.cursor()
	wide := false
	if w := runeWidth(r); w >= 2 {
		wide = true
	}
	if wide {
		e.Buffer().SetWideCell(cur.Row, cur.Col, r, e.cur)
		if cur.Col+2 >= e.Buffer().Cols() {
			e.pendingWrap = e.autowrap
			e.moveCursorNoWrapReset(cur.Row, e.Buffer().Cols()-1)
		} else {
			e.moveCursorNoWrapReset(cur.Row, cur.Col+2)
		}
		return
	}
	e.Buffer().SetCell(cur.Row, cur.Col, cellFor(r, e.cur))
	if cur.Col+1 >= e.Buffer().Cols() {
		e.pendingWrap = e.autowrap
		e.moveCursorNoWrapReset(cur.Row, e.Buffer().Cols()-1)
	} else {
		e.moveCursorNoWrapReset(cur.Row, cur.Col+1)
	}
}

// moveCursorNoWrapReset moves the cursor without clearing pendingWrap,
// since printRune manages that flag itself.
func (e *Emulator) moveCursorNoWrapReset(r, c int) {
	e.Buffer().MoveCursor(r, c)
}

func (e *Emulator) wrapNow() {
	e.pendingWrap = false
	cur := e.cursor()
	if cur.Row >= e.scrollBottom {
		e.Buffer().ScrollUp(e.scrollTop, e.scrollBottom, 1, blankStyle())
		e.moveCursorNoWrapReset(cur.Row, 0)
	} else {
		e.moveCursorNoWrapReset(cur.Row+1, 0)
	}
}

func (e *Emulator) backspace() {
	cur := e.cursor()
	if cur.Col > 0 {
		e.moveCursor(cur.Row, cur.Col-1)
	}
}

func (e *Emulator) tab() {
	cur := e.cursor()
	c := cur.Col + 1
	for c < e.Buffer().Cols()-1 && !e.tabStops[c] {
		c++
	}
	if c >= e.Buffer().Cols() {
		c = e.Buffer().Cols() - 1
	}
	e.moveCursor(cur.Row, c)
}

func (e *Emulator) carriageReturn() {
	cur := e.cursor()
	e.moveCursor(cur.Row, 0)
}

func (e *Emulator) lineFeed() {
	cur := e.cursor()
	if cur.Row >= e.scrollBottom {
		e.Buffer().ScrollUp(e.scrollTop, e.scrollBottom, 1, blankStyle())
	} else {
		e.moveCursor(cur.Row+1, cur.Col)
	}
}

func (e *Emulator) reverseIndex() {
	cur := e.cursor()
	if cur.Row <= e.scrollTop {
		e.Buffer().ScrollDown(e.scrollTop, e.scrollBottom, 1, blankStyle())
	} else {
		e.moveCursor(cur.Row-1, cur.Col)
	}
}

func (e *Emulator) saveCursor() {
	cur := e.cursor()
	e.savedCursor = termSavedCursorFrom(cur, e.cur)
}

func (e *Emulator) restoreCursor() {
	if !e.savedCursor.Valid {
		return
	}
	e.moveCursor(e.savedCursor.Row, e.savedCursor.Col)
	e.cur = e.savedCursor.Style
}

func (e *Emulator) fullReset() {
	cols, rows := e.Buffer().Cols(), e.Buffer().Rows()
	e.primary = newBufferFresh(cols, rows)
	e.alternate = newBufferFresh(cols, rows)
	e.usingAlt = false
	e.cur = defaultStyle()
	e.scrollTop = 0
	e.scrollBottom = rows - 1
	e.pendingWrap = false
	e.resetTabStops(cols)
}
