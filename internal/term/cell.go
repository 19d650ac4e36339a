package term

// Cell is a single grid position: one codepoint plus the style it was
// painted with. Wide (East-Asian-Width >= 2) runes occupy two adjacent
// cells; the trailing cell is marked Continuation and carries a space so it
// never renders independently.
type Cell struct {
	Ch           rune
	Style        Style
	Wide         bool // this cell holds the leading half of a wide rune
	Continuation bool // this cell is the trailing half of a wide rune
}

// DefaultCell is space + DefaultStyle, the invariant zero value for every
// buffer position that has never been written.
var DefaultCell = Cell{Ch: ' '}

func (c Cell) isBlank() bool {
	return c.Ch == ' ' && c.Style.Equal(DefaultStyle) && !c.Wide && !c.Continuation
}
