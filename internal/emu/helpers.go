package emu

import "github.com/ekainfr/vtauto/internal/term"

func runeWidth(r rune) int { return term.RuneWidth(r) }

func cellFor(r rune, style term.Style) term.Cell {
	return term.Cell{Ch: r, Style: style}
}

func blankStyle() term.Style { return term.DefaultStyle }

func defaultStyle() term.Style { return term.DefaultStyle }

func newBufferFresh(cols, rows int) *term.Buffer { return term.NewBuffer(cols, rows) }

func termSavedCursorFrom(cur term.Cursor, style term.Style) term.SavedCursor {
	return term.SavedCursor{Row: cur.Row, Col: cur.Col, Style: style, Valid: true}
}

func indexed(idx uint8) term.Color        { return term.Indexed(idx) }
func rgb(r, g, b uint8) term.Color        { return term.RGB(r, g, b) }
