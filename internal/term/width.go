package term

import "github.com/unilibs/uniwidth"

// RuneWidth returns the terminal display width of r: 0 for combining marks
// and control characters, 1 for most printable runes, 2 for East-Asian-Wide
// and wide emoji.
func RuneWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// IsWide reports whether r occupies two terminal columns.
func IsWide(r rune) bool {
	return RuneWidth(r) >= 2
}
