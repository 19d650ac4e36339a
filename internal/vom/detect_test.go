package vom

import (
	"strings"
	"testing"

	"github.com/ekainfr/vtauto/internal/emu"
)

func renderedOf(text string) *emu.Emulator {
	e := emu.New(40, 5)
	e.Feed([]byte(text))
	return e
}

// S3: a checkbox line feeds into two distinguishable Checkbox elements.
func TestDetectChecklistScenario(t *testing.T) {
	e := renderedOf("[x] Accept\r\n[ ] Newsletter\r\n")
	els := Detect(e.Buffer())

	var checkboxes []Element
	for _, el := range els {
		if el.Role == RoleCheckbox {
			checkboxes = append(checkboxes, el)
		}
	}
	if len(checkboxes) != 2 {
		t.Fatalf("expected 2 Checkbox elements, got %d: %+v", len(checkboxes), els)
	}
	if !checkboxes[0].Checked {
		t.Errorf("first checkbox should be checked, got %+v", checkboxes[0])
	}
	if checkboxes[1].Checked {
		t.Errorf("second checkbox should be unchecked, got %+v", checkboxes[1])
	}
	if !strings.Contains(checkboxes[0].Text, "Accept") {
		t.Errorf("first checkbox text = %q, want it to contain %q", checkboxes[0].Text, "Accept")
	}
}

// Testable property 2: Detect is deterministic for an unchanged buffer.
func TestDetectDeterministic(t *testing.T) {
	e := renderedOf("[Submit] [Cancel]\r\n")
	a := Detect(e.Buffer())
	b := Detect(e.Buffer())
	if len(a) != len(b) {
		t.Fatalf("element count changed between calls: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Ref != b[i].Ref {
			t.Errorf("element %d ref changed: %q vs %q", i, a[i].Ref, b[i].Ref)
		}
	}
}

func TestDetectButtonFromBrackets(t *testing.T) {
	e := renderedOf("[Submit]\r\n")
	els := Detect(e.Buffer())
	found := false
	for _, el := range els {
		if el.Role == RoleButton && strings.Contains(el.Text, "Submit") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Button element containing %q, got %+v", "Submit", els)
	}
}
