package term

import "testing"

func TestSetCellAndRenderText(t *testing.T) {
	b := NewBuffer(5, 2)
	for i, r := range "hi" {
		b.SetCell(0, i, Cell{Ch: r, Style: defaultStyleForTest()})
	}
	got := b.RenderText(false)
	want := "hi\n"
	if got != want {
		t.Errorf("RenderText() = %q, want %q", got, want)
	}
}

func TestResizePreservesContent(t *testing.T) {
	b := NewBuffer(5, 2)
	b.SetCell(0, 0, Cell{Ch: 'X', Style: defaultStyleForTest()})
	b.Resize(10, 4)
	if b.Cols() != 10 || b.Rows() != 4 {
		t.Fatalf("Resize() dims = %dx%d, want 10x4", b.Cols(), b.Rows())
	}
	if c := b.Cell(0, 0); c.Ch != 'X' {
		t.Errorf("expected preserved cell at (0,0), got %+v", c)
	}
}

func TestStabilityHashChangesOnMutation(t *testing.T) {
	b := NewBuffer(5, 2)
	h1 := b.StabilityHash()
	if b.StabilityHash() != h1 {
		t.Fatalf("StabilityHash() must be deterministic for an unchanged buffer")
	}
	b.SetCell(0, 0, Cell{Ch: 'Z', Style: defaultStyleForTest()})
	if b.StabilityHash() == h1 {
		t.Errorf("StabilityHash() should change after a cell mutation")
	}
}

func TestOutOfBoundsWritesRejected(t *testing.T) {
	b := NewBuffer(3, 3)
	b.SetCell(-1, 0, Cell{Ch: 'Q'})
	b.SetCell(0, 99, Cell{Ch: 'Q'})
	got := b.RenderText(false)
	if got != "\n\n" {
		t.Errorf("out-of-bounds writes must be rejected silently, got %q", got)
	}
}

func defaultStyleForTest() Style { return Style{} }
