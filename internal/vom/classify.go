package vom

import (
	"strings"

	"github.com/ekainfr/vtauto/internal/term"
)

var checkboxGlyphs = map[string]*bool{
	"[x]": boolPtr(true), "[X]": boolPtr(true), "[✓]": boolPtr(true), "[✔]": boolPtr(true),
	"[ ]": boolPtr(false),
	"(o)": boolPtr(true), "( )": boolPtr(false),
	"◉": boolPtr(true), "○": boolPtr(false), "◯": boolPtr(false), "●": boolPtr(true),
	"☑": boolPtr(true), "☒": boolPtr(true), "☐": boolPtr(false),
}

func boolPtr(b bool) *bool { return &b }

// checkboxGlyphPrefix reports whether text begins with one of the known
// checkbox glyphs followed by a space, e.g. "[x] Accept".
func checkboxGlyphPrefix(text string) (string, *bool, bool) {
	for glyph, checked := range checkboxGlyphs {
		if strings.HasPrefix(text, glyph+" ") {
			return glyph, checked, true
		}
	}
	return "", nil, false
}

var bulletPrefixes = []string{">", "❯", "›", "→", "▶", "• ", "* ", "- "}

// classify assigns a Role to c, applying the spec's ordered rule set
// (first match wins). cursorInside reports whether the live cursor lies
// within c.Rect.
func classify(c Cluster, cursorInside bool) (role Role, checked bool, hasChecked bool) {
	text := strings.TrimSpace(c.Text)

	if cursorInside {
		return RoleInput, false, false
	}

	if checkedPtr, ok := checkboxGlyphs[text]; ok {
		return RoleCheckbox, *checkedPtr, true
	}

	// A checkbox glyph followed by a label on the same run ("[x] Accept")
	// still reads as one style cluster; match the glyph as a prefix too.
	if glyph, checkedPtr, ok := checkboxGlyphPrefix(text); ok {
		_ = glyph
		return RoleCheckbox, *checkedPtr, true
	}

	if isBracketed(text) && len(text) > 2 {
		// Checkbox glyphs were already matched above, so reaching here with
		// bracketed text means it's a plain button label.
		return RoleButton, false, false
	}

	if c.Style.Inverse || isConspicuousBg(c.Style) {
		if c.Rect.Row < 2 {
			return RoleTab, false, false
		}
		return RoleMenuItem, false, false
	}

	for _, p := range bulletPrefixes {
		if strings.HasPrefix(text, p) {
			return RoleMenuItem, false, false
		}
	}

	if hasUnderscoreRun(text, 3) || strings.HasSuffix(text, ": _") || strings.HasSuffix(text, ":_") {
		return RoleInput, false, false
	}

	if isMostlyBoxDrawing(text) {
		return RolePanel, false, false
	}

	return RoleStaticText, false, false
}

func isBracketed(s string) bool {
	if len(s) < 2 {
		return false
	}
	pairs := [][2]byte{{'[', ']'}, {'<', '>'}, {'(', ')'}}
	for _, p := range pairs {
		if s[0] == p[0] && s[len(s)-1] == p[1] {
			return true
		}
	}
	return false
}

// isConspicuousBg flags the palette indices TUIs commonly use for
// selection highlighting (heuristic, not exhaustive).
func isConspicuousBg(s term.Style) bool {
	return s.Bg.Kind == term.ColorIndexed && (s.Bg.Idx == 4 || s.Bg.Idx == 6)
}

func hasUnderscoreRun(s string, n int) bool {
	run := 0
	for _, r := range s {
		if r == '_' {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

var boxDrawingRunes = map[rune]bool{}

func init() {
	for r := rune(0x2500); r <= 0x257F; r++ {
		boxDrawingRunes[r] = true
	}
}

func isMostlyBoxDrawing(s string) bool {
	nonWS, box := 0, 0
	for _, r := range s {
		if r == ' ' {
			continue
		}
		nonWS++
		if boxDrawingRunes[r] {
			box++
		}
	}
	if nonWS == 0 {
		return false
	}
	return box*2 > nonWS
}
