package emu

import "github.com/ekainfr/vtauto/internal/term"

func (e *Emulator) beginCSI() {
	e.m = modeCSIParam
	e.params = e.params[:0]
	e.curParam = 0
	e.haveParam = false
	e.private = false
	e.intermediate = 0
}

func (e *Emulator) stepCSI(r rune) {
	switch {
	case r == '?' || r == '>' || r == '=':
		if len(e.params) == 0 && !e.haveParam {
			e.private = true
		}
		return
	case r >= '0' && r <= '9':
		e.curParam = e.curParam*10 + int(r-'0')
		e.haveParam = true
		return
	case r == ';':
		e.params = append(e.params, e.curParam)
		e.curParam = 0
		e.haveParam = false
		return
	case r == ':':
		// sub-parameter separator, treated like ';' for our subset.
		e.params = append(e.params, e.curParam)
		e.curParam = 0
		e.haveParam = false
		return
	case r >= 0x20 && r <= 0x2f:
		e.intermediate = byte(r)
		return
	case r >= 0x40 && r <= 0x7e:
		if e.haveParam || len(e.params) == 0 {
			e.params = append(e.params, e.curParam)
		}
		e.dispatchCSI(byte(r))
		e.m = modeGround
		return
	default:
		// Outside the parameter/intermediate/final alphabet: abandon.
		e.m = modeGround
		return
	}
}

func (e *Emulator) param(i, def int) int {
	if i < 0 || i >= len(e.params) {
		return def
	}
	if e.params[i] == 0 {
		return def
	}
	return e.params[i]
}

func (e *Emulator) rawParam(i, def int) int {
	if i < 0 || i >= len(e.params) {
		return def
	}
	return e.params[i]
}

func (e *Emulator) dispatchCSI(final byte) {
	cur := e.cursor()
	switch final {
	case 'A': // CUU
		e.moveCursor(cur.Row-e.param(0, 1), cur.Col)
	case 'B': // CUD
		e.moveCursor(cur.Row+e.param(0, 1), cur.Col)
	case 'C': // CUF
		e.moveCursor(cur.Row, cur.Col+e.param(0, 1))
	case 'D': // CUB
		e.moveCursor(cur.Row, cur.Col-e.param(0, 1))
	case 'H', 'f': // CUP / HVP
		row := e.param(0, 1) - 1
		col := e.param(1, 1) - 1
		e.moveCursor(row, col)
	case 'G': // CHA
		e.moveCursor(cur.Row, e.param(0, 1)-1)
	case 'd': // VPA
		e.moveCursor(e.param(0, 1)-1, cur.Col)
	case 'E': // CNL
		e.moveCursor(cur.Row+e.param(0, 1), 0)
	case 'F': // CPL
		e.moveCursor(cur.Row-e.param(0, 1), 0)
	case 'J': // ED
		e.eraseDisplay(e.rawParam(0, 0))
	case 'K': // EL
		e.eraseLine(e.rawParam(0, 0))
	case '@': // ICH
		e.insertChars(e.param(0, 1))
	case 'P': // DCH
		e.deleteChars(e.param(0, 1))
	case 'L': // IL
		e.insertLines(e.param(0, 1))
	case 'M': // DL
		e.deleteLines(e.param(0, 1))
	case 'X': // ECH
		e.eraseChars(e.param(0, 1))
	case 'b': // REP
		e.repeatLast(e.param(0, 1))
	case 'm': // SGR
		e.applySGR()
	case 'h': // set mode
		e.setModes(true)
	case 'l': // reset mode
		e.setModes(false)
	case 'r': // DECSTBM
		e.setScrollRegion()
	case 'S': // SU
		e.Buffer().ScrollUp(e.scrollTop, e.scrollBottom, e.param(0, 1), blankStyle())
	case 'T': // SD
		e.Buffer().ScrollDown(e.scrollTop, e.scrollBottom, e.param(0, 1), blankStyle())
	case 's': // save cursor (ANSI.SYS form, no private marker)
		if !e.private {
			e.saveCursor()
		}
	case 'u':
		if !e.private {
			e.restoreCursor()
		}
	case 'n': // DSR — device status report; only cursor position query (6) is answered.
		if e.param(0, 0) == 6 && e.OnRespond != nil {
			e.OnRespond([]byte(cprResponse(cur.Row+1, cur.Col+1)))
		}
	default:
		// Unrecognized CSI final: no-op, sequence already consumed.
	}
}

func cprResponse(row, col int) string {
	return "\x1b[" + itoaPub(row) + ";" + itoaPub(col) + "R"
}

func (e *Emulator) eraseDisplay(mode int) {
	b := e.Buffer()
	cur := b.Cursor()
	switch mode {
	case 0:
		b.ClearRect(cur.Row, cur.Col, cur.Row+1, b.Cols(), e.cur)
		b.ClearRect(cur.Row+1, 0, b.Rows(), b.Cols(), e.cur)
	case 1:
		b.ClearRect(0, 0, cur.Row, b.Cols(), e.cur)
		b.ClearRect(cur.Row, 0, cur.Row+1, cur.Col+1, e.cur)
	case 2, 3:
		b.ClearRect(0, 0, b.Rows(), b.Cols(), e.cur)
	}
}

func (e *Emulator) eraseLine(mode int) {
	b := e.Buffer()
	cur := b.Cursor()
	switch mode {
	case 0:
		b.ClearRect(cur.Row, cur.Col, cur.Row+1, b.Cols(), e.cur)
	case 1:
		b.ClearRect(cur.Row, 0, cur.Row+1, cur.Col+1, e.cur)
	case 2:
		b.ClearRect(cur.Row, 0, cur.Row+1, b.Cols(), e.cur)
	}
}

func (e *Emulator) insertChars(n int) {
	b := e.Buffer()
	cur := b.Cursor()
	for c := b.Cols() - 1; c >= cur.Col+n; c-- {
		b.SetCell(cur.Row, c, b.Cell(cur.Row, c-n))
	}
	b.ClearRect(cur.Row, cur.Col, cur.Row+1, minInt(cur.Col+n, b.Cols()), e.cur)
}

func (e *Emulator) deleteChars(n int) {
	b := e.Buffer()
	cur := b.Cursor()
	for c := cur.Col; c < b.Cols(); c++ {
		src := c + n
		if src < b.Cols() {
			b.SetCell(cur.Row, c, b.Cell(cur.Row, src))
		} else {
			b.SetCell(cur.Row, c, blankCell(e.cur))
		}
	}
}

func (e *Emulator) eraseChars(n int) {
	b := e.Buffer()
	cur := b.Cursor()
	b.ClearRect(cur.Row, cur.Col, cur.Row+1, minInt(cur.Col+n, b.Cols()), e.cur)
}

func (e *Emulator) insertLines(n int) {
	cur := e.cursor()
	if cur.Row < e.scrollTop || cur.Row > e.scrollBottom {
		return
	}
	e.Buffer().ScrollDown(cur.Row, e.scrollBottom, n, blankStyle())
}

func (e *Emulator) deleteLines(n int) {
	cur := e.cursor()
	if cur.Row < e.scrollTop || cur.Row > e.scrollBottom {
		return
	}
	e.Buffer().ScrollUp(cur.Row, e.scrollBottom, n, blankStyle())
}

func (e *Emulator) repeatLast(n int) {
	for i := 0; i < n; i++ {
		e.printRune(e.lastPrinted)
	}
}

func (e *Emulator) setScrollRegion() {
	top := e.param(0, 1) - 1
	bottom := e.rawParam(1, e.Buffer().Rows())
	if bottom == 0 {
		bottom = e.Buffer().Rows()
	}
	bottom--
	if top < 0 {
		top = 0
	}
	if bottom >= e.Buffer().Rows() {
		bottom = e.Buffer().Rows() - 1
	}
	if top >= bottom {
		top, bottom = 0, e.Buffer().Rows()-1
	}
	e.scrollTop = top
	e.scrollBottom = bottom
	e.moveCursor(0, 0)
}

func (e *Emulator) setModes(set bool) {
	if !e.private {
		return // only DEC private modes are in scope
	}
	for _, p := range e.params {
		switch p {
		case 25: // cursor visibility
			cur := e.Buffer().Cursor()
			cur.Visible = set
			e.Buffer().SetCursor(cur)
		case 1049: // alternate screen + save cursor
			e.setAltScreen(set)
		case 1000, 1002, 1006: // mouse reporting — parsed, discarded.
		case 7:
			e.autowrap = set
		case 12:
			// cursor blink — no observable effect on the model.
		}
	}
}

func (e *Emulator) setAltScreen(enable bool) {
	if enable == e.usingAlt {
		return
	}
	if enable {
		e.altSaved = termSavedCursorFrom(e.primary.Cursor(), e.cur)
		e.usingAlt = true
		e.alternate.ClearRect(0, 0, e.alternate.Rows(), e.alternate.Cols(), blankStyle())
		e.alternate.MoveCursor(0, 0)
	} else {
		e.usingAlt = false
		if e.altSaved.Valid {
			e.primary.MoveCursor(e.altSaved.Row, e.altSaved.Col)
			e.cur = e.altSaved.Style
		}
	}
}

func blankCell(style term.Style) term.Cell {
	return term.Cell{Ch: ' ', Style: style}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func itoaPub(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
