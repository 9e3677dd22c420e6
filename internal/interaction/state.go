// Package interaction tracks which list item is expanded and which modal,
// if any, sits on top of a view.
package interaction

// Expansion is either collapsed or expanded on exactly one item
type Expansion struct {
	id       string
	expanded bool
}

// Collapsed returns the state with no item expanded
func Collapsed() Expansion { return Expansion{} }

// ExpandedOn returns the state with id expanded
func ExpandedOn(id string) Expansion { return Expansion{id: id, expanded: true} }

// Toggle collapses id when it is the expanded item, otherwise expands it
func (e Expansion) Toggle(id string) Expansion {
	if e.expanded && e.id == id {
		return Collapsed()
	}
	return ExpandedOn(id)
}

// ID returns the expanded item, if any
func (e Expansion) ID() (string, bool) { return e.id, e.expanded }

// IsExpanded reports whether id is the expanded item
func (e Expansion) IsExpanded(id string) bool { return e.expanded && e.id == id }

func (e Expansion) String() string {
	if !e.expanded {
		return "collapsed"
	}
	return "expanded(" + e.id + ")"
}

// Modal is either hidden or visible with a payload
type Modal[P any] struct {
	payload P
	visible bool
}

// Hidden returns a hidden modal
func Hidden[P any]() Modal[P] { return Modal[P]{} }

// VisibleWith returns a modal showing payload
func VisibleWith[P any](payload P) Modal[P] { return Modal[P]{payload: payload, visible: true} }

// Payload returns the shown payload, if visible
func (m Modal[P]) Payload() (P, bool) { return m.payload, m.visible }

// IsVisible reports whether the modal is shown
func (m Modal[P]) IsVisible() bool { return m.visible }
