package vom

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/ekainfr/vtauto/internal/term"
)

// Detect segments buf into clusters, classifies each into an Element, and
// assigns stable content-addressed reference strings. It is pure: it never
// mutates buf, and calling it twice on an unchanged buffer yields identical
// references (testable property 2).
func Detect(buf *term.Buffer) []Element {
	cursor := buf.Cursor()
	clusters := mergeClusters(buf, segmentRows(buf))

	// Reading order: top-to-bottom, left-to-right. This also fixes the
	// deterministic order in which same-fingerprint collisions are
	// disambiguated (spec: "suffix assigned in reading order").
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Rect.Row != clusters[j].Rect.Row {
			return clusters[i].Rect.Row < clusters[j].Rect.Row
		}
		return clusters[i].Rect.Col < clusters[j].Rect.Col
	})

	elements := make([]Element, 0, len(clusters))
	seen := make(map[string]int)

	for _, c := range clusters {
		inside := cursor.Visible && rectContains(c.Rect, cursor.Row, cursor.Col)
		role, checked, hasChecked := classify(c, inside)

		el := Element{
			Role: role,
			Rect: c.Rect,
			Text: strings.TrimSpace(c.Text),
		}
		if hasChecked {
			el.Checked = checked
			el.HasChecked = true
		}
		if role == RoleInput {
			el.Value = el.Text
			el.HasValue = true
		}
		if inside && focusableRoles[role] {
			el.Focused = true
		}

		base := fingerprint(role, c.Rect.Row, c.Rect.Col, c.Text, c.Style)
		key := fmt.Sprintf("%s%04x", rolePrefix[role], base&0xFFFF)
		n := seen[key]
		seen[key] = n + 1
		ref := "@e" + key
		if n > 0 {
			ref += "-" + string(rune('a'+n-1))
		}
		el.Ref = ref
		elements = append(elements, el)
	}
	return elements
}

func rectContains(r Rect, row, col int) bool {
	return row >= r.Row && row < r.Row+r.Height && col >= r.Col && col < r.Col+r.Width
}

// fingerprint hashes (role, row, col, text, style) into a 64-bit value.
func fingerprint(role Role, row, col int, text string, style term.Style) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|%s|%+v", role, row, col, text, style)
	return h.Sum64()
}
