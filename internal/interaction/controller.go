package interaction

// TargetKind identifies what a click landed on
type TargetKind int

const (
	// ItemTarget is a list row
	ItemTarget TargetKind = iota
	// ActionTarget is a control inside a row, such as the respond button
	ActionTarget
	// OverlayTarget is the area around an open modal
	OverlayTarget
	// CloseTarget is a modal's close control
	CloseTarget
	// ModalBodyTarget is the content of an open modal
	ModalBodyTarget
)

func (k TargetKind) String() string {
	switch k {
	case ItemTarget:
		return "item"
	case ActionTarget:
		return "action"
	case OverlayTarget:
		return "overlay"
	case CloseTarget:
		return "close"
	case ModalBodyTarget:
		return "modal-body"
	default:
		return "unknown"
	}
}

// Target is a click destination
type Target struct {
	Kind TargetKind
	ID   string
}

// Item targets the row for id
func Item(id string) Target { return Target{Kind: ItemTarget, ID: id} }

// Action targets the row control for id
func Action(id string) Target { return Target{Kind: ActionTarget, ID: id} }

// Overlay targets the modal background
func Overlay() Target { return Target{Kind: OverlayTarget} }

// Close targets the modal close control
func Close() Target { return Target{Kind: CloseTarget} }

// ModalBody targets the modal content
func ModalBody() Target { return Target{Kind: ModalBodyTarget} }

// Controller holds one view's expansion and modal state. It is owned by the
// UI goroutine and is not safe for concurrent use.
type Controller[P any] struct {
	expansion Expansion
	modal     Modal[P]
	onChange  func()
}

// NewController returns a collapsed controller with no modal
func NewController[P any]() *Controller[P] {
	return &Controller[P]{expansion: Collapsed(), modal: Hidden[P]()}
}

// SetOnChange registers a callback run after every state change
func (c *Controller[P]) SetOnChange(fn func()) { c.onChange = fn }

// Expansion returns the current expansion state
func (c *Controller[P]) Expansion() Expansion { return c.expansion }

// Modal returns the current modal state
func (c *Controller[P]) Modal() Modal[P] { return c.modal }

// IsExpanded reports whether id is expanded
func (c *Controller[P]) IsExpanded(id string) bool { return c.expansion.IsExpanded(id) }

// Click routes a click and reports whether any state changed. While a modal
// is visible it has precedence: rows underneath are unreachable and any click
// outside its body dismisses it.
func (c *Controller[P]) Click(t Target) bool {
	if c.modal.IsVisible() {
		if t.Kind == ModalBodyTarget {
			return false
		}
		return c.CloseModal()
	}
	if t.Kind != ItemTarget {
		return false
	}
	c.expansion = c.expansion.Toggle(t.ID)
	c.changed()
	return true
}

// OpenModal shows payload, replacing any modal already visible
func (c *Controller[P]) OpenModal(payload P) {
	c.modal = VisibleWith(payload)
	c.changed()
}

// CloseModal hides the modal and reports whether one was visible
func (c *Controller[P]) CloseModal() bool {
	if !c.modal.IsVisible() {
		return false
	}
	c.modal = Hidden[P]()
	c.changed()
	return true
}

// Collapse clears the expanded item
func (c *Controller[P]) Collapse() {
	if _, ok := c.expansion.ID(); !ok {
		return
	}
	c.expansion = Collapsed()
	c.changed()
}

func (c *Controller[P]) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
