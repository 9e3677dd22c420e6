package tui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// viewKey returns the configured shortcut for v
func (a *App) viewKey(v ViewKind) string {
	switch v {
	case ViewClassify:
		return a.Keys.ClassifyView
	case ViewSent:
		return a.Keys.SentView
	default:
		return a.Keys.InboxView
	}
}

// handleConfigurableKey runs the action bound to event, if any
func (a *App) handleConfigurableKey(event *tcell.EventKey) bool {
	// Only single character keys are configurable
	if event.Rune() == 0 {
		return false
	}
	key := string(event.Rune())

	if a.logger != nil {
		a.logger.Printf("key '%s' in %s view", key, a.GetCurrentView())
	}

	switch key {
	case a.Keys.InboxView:
		a.switchView(ViewInbox)
	case a.Keys.ClassifyView:
		a.switchView(ViewClassify)
	case a.Keys.SentView:
		a.switchView(ViewSent)
	case a.Keys.Refresh:
		a.refresh()
	case a.Keys.Classify:
		a.classifyNew()
	case a.Keys.Respond:
		a.openCompose()
	case a.Keys.ViewBody:
		a.showFullBody()
	case a.Keys.OpenGmail:
		a.openInGmail()
	case a.Keys.Help:
		a.toggleHelp()
	case a.Keys.Quit:
		a.Shutdown()
	default:
		return false
	}
	return true
}

// bindKeys sets up global shortcuts
func (a *App) bindKeys() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// A visible modal owns the keyboard
		if a.controller().Modal().IsVisible() {
			if _, typing := a.GetFocus().(*tview.InputField); typing {
				return event
			}
			if event.Rune() != 0 && string(event.Rune()) == a.Keys.Help {
				a.toggleHelp()
				return nil
			}
			return event
		}

		switch event.Key() {
		case tcell.KeyEscape:
			a.controller().Collapse()
			return nil
		case tcell.KeyTab:
			a.toggleFocus()
			return nil
		}

		if a.handleConfigurableKey(event) {
			return nil
		}
		return event
	})
}

// toggleFocus moves focus between the sidebar and the list
func (a *App) toggleFocus() {
	if a.GetFocus() == a.views["sidebar"] {
		a.SetFocus(a.views["list"])
		return
	}
	a.SetFocus(a.views["sidebar"])
}
