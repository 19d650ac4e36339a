// Package vom implements the Visual Object Model detector: it segments a
// term.Buffer snapshot into style-runs, merges them into clusters, and
// classifies each cluster into a semantically named Element with a stable,
// content-addressed reference string.
package vom

import "github.com/ekainfr/vtauto/internal/term"

// Role is the closed set of element classifications the detector assigns.
type Role string

const (
	RoleButton      Role = "Button"
	RoleTab         Role = "Tab"
	RoleInput       Role = "Input"
	RoleCheckbox    Role = "Checkbox"
	RoleRadioButton Role = "RadioButton"
	RoleMenuItem    Role = "MenuItem"
	RoleListItem    Role = "ListItem"
	RoleProgressBar Role = "ProgressBar"
	RolePanel       Role = "Panel"
	RoleStaticText  Role = "StaticText"
	RoleLink        Role = "Link"
	RoleComboBox    Role = "ComboBox"
)

// rolePrefix maps each Role to the three-letter prefix used in reference
// strings. Order-independent of classification order.
var rolePrefix = map[Role]string{
	RoleButton:      "btn",
	RoleTab:         "tab",
	RoleInput:       "inp",
	RoleCheckbox:    "chk",
	RoleRadioButton: "rad",
	RoleMenuItem:    "mnu",
	RoleListItem:    "lst",
	RoleProgressBar: "prg",
	RolePanel:       "pnl",
	RoleStaticText:  "txt",
	RoleLink:        "lnk",
	RoleComboBox:    "cmb",
}

// focusableRoles is the set of roles eligible for focused=true.
var focusableRoles = map[Role]bool{
	RoleInput: true, RoleButton: true, RoleTab: true, RoleMenuItem: true,
	RoleListItem: true, RoleCheckbox: true, RoleRadioButton: true,
}

// Rect is a row/col/width/height bounding box in buffer coordinates.
type Rect struct {
	Row, Col, Width, Height int
}

// Cluster is a transient segmentation unit: a rectangle of cells sharing a
// style, produced fresh on every Detect call. It is never persisted.
type Cluster struct {
	Rect       Rect
	Text       string
	Style      term.Style
	IsWhitespace bool
}

// Element is a classified, stably-referenced UI object.
type Element struct {
	Ref      string
	Role     Role
	Rect     Rect
	Text     string
	Value    string
	HasValue bool
	Checked  bool
	HasChecked bool
	Focused  bool
	Disabled bool
}
