package dispatch

import (
	"time"

	"github.com/ekainfr/vtauto/internal/errs"
	"github.com/ekainfr/vtauto/internal/session"
	"github.com/ekainfr/vtauto/internal/vom"
)

// Verb is the closed set of Action verbs.
type Verb string

const (
	VerbClick     Verb = "click"
	VerbDblClick  Verb = "dblclick"
	VerbFocus     Verb = "focus"
	VerbFill      Verb = "fill"
	VerbClear     Verb = "clear"
	VerbSelect    Verb = "select"
	VerbSelectAll Verb = "selectall"
	VerbScroll    Verb = "scroll"
	VerbToggle    Verb = "toggle"
)

// ActionParams is the input to Action.
type ActionParams struct {
	ElementRef string
	Verb       Verb
	Value      string // fill
	Option     string // select
	State      string // toggle: "checked" or "unchecked", optional
	Direction  string // scroll: "up" or "down"
	Amount     int    // scroll
}

var clickableRoles = map[vom.Role]bool{
	vom.RoleButton: true, vom.RoleMenuItem: true, vom.RoleTab: true, vom.RoleListItem: true,
}
var toggleableRoles = map[vom.Role]bool{vom.RoleCheckbox: true, vom.RoleRadioButton: true}
var fillableRoles = map[vom.Role]bool{vom.RoleInput: true, vom.RoleComboBox: true}

const focusNavigationBudget = 48
const actionSettleDelay = 30 * time.Millisecond

// Action performs one UI-level verb against an element within ref's
// session, serialized against other mutating ops on the same session.
func (d *Dispatcher) Action(ref string, p ActionParams) error {
	s, err := d.reg.Lookup(ref)
	if err != nil {
		return err
	}
	lock := d.sessionLock(s.ID)
	lock.Lock()
	defer lock.Unlock()

	el, err := findElement(s, p.ElementRef)
	if err != nil {
		return err
	}

	switch p.Verb {
	case VerbClick:
		return d.click(s, el)
	case VerbDblClick:
		if err := d.click(s, el); err != nil {
			return err
		}
		time.Sleep(actionSettleDelay)
		return s.WriteKey("Enter")
	case VerbFocus:
		if !focusableVerbRole(el.Role) {
			return errs.New(errs.WrongRole, "element %s (role %s) is not focusable", el.Ref, el.Role)
		}
		return focusElement(s, el)
	case VerbFill:
		if !fillableRoles[el.Role] {
			return errs.New(errs.WrongRole, "fill requires an Input or ComboBox, got %s", el.Role)
		}
		if err := focusElement(s, el); err != nil {
			return err
		}
		if err := selectAll(s); err != nil {
			return err
		}
		return s.Write([]byte(p.Value))
	case VerbClear:
		if !fillableRoles[el.Role] {
			return errs.New(errs.WrongRole, "clear requires an Input or ComboBox, got %s", el.Role)
		}
		if err := focusElement(s, el); err != nil {
			return err
		}
		if err := selectAll(s); err != nil {
			return err
		}
		return s.WriteKey("Backspace")
	case VerbSelectAll:
		return selectAll(s)
	case VerbSelect:
		return d.selectOption(s, el, p.Option)
	case VerbToggle:
		if !toggleableRoles[el.Role] {
			return errs.New(errs.WrongRole, "toggle requires a Checkbox or RadioButton, got %s", el.Role)
		}
		return d.toggle(s, el, p.State)
	case VerbScroll:
		return scroll(s, p.Direction, p.Amount)
	default:
		return errs.New(errs.InvalidParams, "unknown action verb %q", p.Verb)
	}
}

func focusableVerbRole(r vom.Role) bool {
	return clickableRoles[r] || toggleableRoles[r] || fillableRoles[r]
}

func findElement(s *session.Session, ref string) (vom.Element, error) {
	for _, el := range s.Elements() {
		if el.Ref == ref {
			return el, nil
		}
	}
	return vom.Element{}, errs.New(errs.NotFound, "element %s not found", ref)
}

func (d *Dispatcher) click(s *session.Session, el vom.Element) error {
	if !clickableRoles[el.Role] {
		return errs.New(errs.WrongRole, "click requires a Button, MenuItem, Tab, or ListItem, got %s", el.Role)
	}
	if err := focusElement(s, el); err != nil {
		return err
	}
	return s.WriteKey("Enter")
}

// focusElement applies the navigation heuristic: if the element is already
// focused, it's a no-op; otherwise it cycles focus with Tab up to a bounded
// number of presses, re-detecting after each press, until the element
// reports focused=true. This is a pluggable policy — apps that use a
// different focus-cycling key are not correctly handled by this heuristic.
func focusElement(s *session.Session, target vom.Element) error {
	for i := 0; i < focusNavigationBudget; i++ {
		for _, el := range s.Elements() {
			if el.Ref == target.Ref && el.Focused {
				return nil
			}
		}
		if err := s.WriteKey("Tab"); err != nil {
			return err
		}
		time.Sleep(actionSettleDelay)
	}
	return errs.New(errs.Internal, "could not focus element %s within %d Tab presses", target.Ref, focusNavigationBudget)
}

// selectAll sends the chosen select-all heuristic: Ctrl+A. Apps that bind
// Ctrl+A to something else (e.g. "go to start of line" in some shells) are
// a known limitation of this heuristic.
func selectAll(s *session.Session) error {
	return s.WriteKey("Ctrl+A")
}

func (d *Dispatcher) selectOption(s *session.Session, el vom.Element, option string) error {
	if err := focusElement(s, el); err != nil {
		return err
	}
	// Heuristic trigger to open the dropdown: Enter. See design notes —
	// this may be wrong for apps expecting Space instead.
	if err := s.WriteKey("Enter"); err != nil {
		return err
	}
	time.Sleep(actionSettleDelay)
	for i := 0; i < focusNavigationBudget; i++ {
		for _, cand := range s.Elements() {
			if (cand.Role == vom.RoleMenuItem || cand.Role == vom.RoleListItem) && containsFold(cand.Text, option) {
				if cand.Focused {
					return s.WriteKey("Enter")
				}
			}
		}
		if err := s.WriteKey("Down"); err != nil {
			return err
		}
		time.Sleep(actionSettleDelay)
	}
	return errs.New(errs.NotFound, "option %q not found in dropdown for %s", option, el.Ref)
}

func (d *Dispatcher) toggle(s *session.Session, el vom.Element, wantState string) error {
	if err := focusElement(s, el); err != nil {
		return err
	}
	if err := s.WriteKey("Enter"); err != nil {
		return err
	}
	if wantState == "" {
		return nil
	}
	time.Sleep(actionSettleDelay)
	wantChecked := wantState == "checked"
	for _, cand := range s.Elements() {
		if cand.Rect == el.Rect && cand.Role == el.Role {
			if cand.HasChecked && cand.Checked != wantChecked {
				return s.WriteKey("Enter")
			}
			return nil
		}
	}
	return nil
}

func scroll(s *session.Session, direction string, amount int) error {
	if amount <= 0 {
		amount = 1
	}
	key := "Down"
	if direction == "up" {
		key = "Up"
	}
	for i := 0; i < amount; i++ {
		if err := s.WriteKey(key); err != nil {
			return err
		}
	}
	return nil
}
