package term

// Style carries the SGR-visible attributes of a Cell. Two Styles with
// identical fields are considered identical for segmentation purposes (see
// internal/vom), so this must stay a plain comparable struct.
type Style struct {
	Fg            Color
	Bg            Color
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Blink         bool
	Inverse       bool
	Strike        bool
	Hidden        bool
}

// DefaultStyle is the zero-value Style: default fg/bg, no attributes.
var DefaultStyle = Style{}

// Equal reports whether s and o render identically.
func (s Style) Equal(o Style) bool {
	return s.Fg.equal(o.Fg) && s.Bg.equal(o.Bg) &&
		s.Bold == o.Bold && s.Dim == o.Dim && s.Italic == o.Italic &&
		s.Underline == o.Underline && s.Blink == o.Blink &&
		s.Inverse == o.Inverse && s.Strike == o.Strike && s.Hidden == o.Hidden
}

// IsDefault reports whether s has no effective attributes or colors set.
func (s Style) IsDefault() bool {
	return s.Equal(DefaultStyle)
}

// reset clears every field to the default, preserving the struct identity of s.
func (s *Style) reset() {
	*s = Style{}
}
