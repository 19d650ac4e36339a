package emu

// applySGR applies the accumulated CSI params as an SGR (m) sequence,
// including 256-color and truecolor extended forms (38;5;N / 38;2;R;G;B).
func (e *Emulator) applySGR() {
	params := e.params
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch p {
		case 0:
			e.cur = defaultStyle()
		case 1:
			e.cur.Bold = true
		case 2:
			e.cur.Dim = true
		case 3:
			e.cur.Italic = true
		case 4:
			e.cur.Underline = true
		case 5, 6:
			e.cur.Blink = true
		case 7:
			e.cur.Inverse = true
		case 8:
			e.cur.Hidden = true
		case 9:
			e.cur.Strike = true
		case 21:
			e.cur.Bold = false
		case 22:
			e.cur.Bold, e.cur.Dim = false, false
		case 23:
			e.cur.Italic = false
		case 24:
			e.cur.Underline = false
		case 25:
			e.cur.Blink = false
		case 27:
			e.cur.Inverse = false
		case 28:
			e.cur.Hidden = false
		case 29:
			e.cur.Strike = false
		case 39:
			e.cur.Fg = defaultStyle().Fg
		case 49:
			e.cur.Bg = defaultStyle().Bg
		case 38:
			i = e.consumeExtendedColor(params, i, true)
		case 48:
			i = e.consumeExtendedColor(params, i, false)
		default:
			switch {
			case p >= 30 && p <= 37:
				e.cur.Fg = indexed(uint8(p - 30))
			case p >= 40 && p <= 47:
				e.cur.Bg = indexed(uint8(p - 40))
			case p >= 90 && p <= 97:
				e.cur.Fg = indexed(uint8(p-90) + 8)
			case p >= 100 && p <= 107:
				e.cur.Bg = indexed(uint8(p-100) + 8)
			}
		}
	}
}

// consumeExtendedColor parses a 38/48 ;5;N or ;2;R;G;B run starting at i
// (which indexes the 38 or 48 itself) and returns the new index to resume
// scanning from.
func (e *Emulator) consumeExtendedColor(params []int, i int, fg bool) int {
	if i+1 >= len(params) {
		return i
	}
	switch params[i+1] {
	case 5:
		if i+2 < len(params) {
			c := indexed(uint8(params[i+2]))
			if fg {
				e.cur.Fg = c
			} else {
				e.cur.Bg = c
			}
			return i + 2
		}
	case 2:
		if i+4 < len(params) {
			c := rgb(uint8(params[i+2]), uint8(params[i+3]), uint8(params[i+4]))
			if fg {
				e.cur.Fg = c
			} else {
				e.cur.Bg = c
			}
			return i + 4
		}
	}
	return i + 1
}
