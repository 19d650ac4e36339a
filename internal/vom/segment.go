package vom

import (
	"strings"

	"github.com/ekainfr/vtauto/internal/term"
)

// segmentRows scans each row left-to-right, producing maximal runs of
// adjacent cells sharing an identical Style. Whitespace-only runs are
// discarded unless their style carries a non-default background (which can
// denote a filled region, e.g. a selected menu item).
func segmentRows(buf *term.Buffer) []Cluster {
	var clusters []Cluster
	cols := buf.Cols()
	for row := 0; row < buf.Rows(); row++ {
		col := 0
		for col < cols {
			cell := buf.Cell(row, col)
			if cell.Continuation {
				col++
				continue
			}
			runStart := col
			style := cell.Style
			var sb strings.Builder
			allWhitespace := true
			for col < cols {
				c := buf.Cell(row, col)
				if c.Continuation {
					col++
					continue
				}
				if !c.Style.Equal(style) {
					break
				}
				sb.WriteRune(c.Ch)
				if c.Ch != ' ' {
					allWhitespace = false
				}
				if c.Wide {
					col += 2
				} else {
					col++
				}
			}
			width := col - runStart
			if allWhitespace && style.Bg.Kind == term.ColorDefault {
				continue
			}
			clusters = append(clusters, Cluster{
				Rect:         Rect{Row: row, Col: runStart, Width: width, Height: 1},
				Text:         sb.String(),
				Style:        style,
				IsWhitespace: allWhitespace,
			})
		}
	}
	return clusters
}

// mergeClusters unions same-row, same-style clusters that are horizontally
// touching (allowing at most one column gap, and only when that gap is a
// single default-style space — i.e. it was dropped by segmentRows as an
// all-whitespace run).
func mergeClusters(buf *term.Buffer, clusters []Cluster) []Cluster {
	n := len(clusters)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if touching(buf, clusters[i], clusters[j]) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		r := find(i)
		groups[r] = append(groups[r], i)
	}

	merged := make([]Cluster, 0, len(groups))
	for _, members := range groups {
		merged = append(merged, mergeGroup(clusters, members))
	}
	return merged
}

func touching(buf *term.Buffer, a, b Cluster) bool {
	if a.Rect.Row != b.Rect.Row || !a.Style.Equal(b.Style) {
		return false
	}
	left, right := a, b
	if right.Rect.Col < left.Rect.Col {
		left, right = right, left
	}
	leftEnd := left.Rect.Col + left.Rect.Width
	gap := right.Rect.Col - leftEnd
	if gap == 0 {
		return true
	}
	if gap == 1 {
		c := buf.Cell(a.Rect.Row, leftEnd)
		return c.Ch == ' ' && c.Style.IsDefault()
	}
	return false
}

func mergeGroup(clusters []Cluster, members []int) Cluster {
	if len(members) == 1 {
		return clusters[members[0]]
	}
	// Sort members by column so the concatenation reads left-to-right.
	sorted := append([]int(nil), members...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && clusters[sorted[j-1]].Rect.Col > clusters[sorted[j]].Rect.Col; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	first := clusters[sorted[0]]
	minCol, maxEnd := first.Rect.Col, first.Rect.Col+first.Rect.Width
	var sb strings.Builder
	sb.WriteString(first.Text)
	allWS := first.IsWhitespace
	for _, idx := range sorted[1:] {
		c := clusters[idx]
		// Re-insert the (discarded) single-space gap between runs so the
		// merged text matches the on-screen layout.
		gap := c.Rect.Col - maxEnd
		for g := 0; g < gap; g++ {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Text)
		if c.Rect.Col < minCol {
			minCol = c.Rect.Col
		}
		if end := c.Rect.Col + c.Rect.Width; end > maxEnd {
			maxEnd = end
		}
		allWS = allWS && c.IsWhitespace
	}
	return Cluster{
		Rect:         Rect{Row: first.Rect.Row, Col: minCol, Width: maxEnd - minCol, Height: 1},
		Text:         sb.String(),
		Style:        first.Style,
		IsWhitespace: allWS,
	}
}
