package tui

import "strings"

// ViewKind identifies one of the dashboard's lists
type ViewKind int

const (
	ViewInbox ViewKind = iota
	ViewClassify
	ViewSent
)

// AllViews lists the views in sidebar order
var AllViews = []ViewKind{ViewInbox, ViewClassify, ViewSent}

func (v ViewKind) String() string {
	switch v {
	case ViewInbox:
		return "inbox"
	case ViewClassify:
		return "classify"
	case ViewSent:
		return "sent"
	default:
		return "unknown"
	}
}

// Title is the label shown on the list frame and sidebar
func (v ViewKind) Title() string {
	switch v {
	case ViewInbox:
		return "Inbox"
	case ViewClassify:
		return "Classified"
	case ViewSent:
		return "Sent"
	default:
		return "?"
	}
}

// ParseViewKind maps a config name to a view, defaulting to the inbox
func ParseViewKind(s string) ViewKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classify", "classified":
		return ViewClassify
	case "sent":
		return ViewSent
	default:
		return ViewInbox
	}
}
