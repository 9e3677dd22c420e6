package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tview"
)

// renderStatus shows the active view's loading or error state
func (a *App) renderStatus() {
	state := a.viewState()
	switch {
	case state.IsLoading():
		a.errorHandler.setPersistent(a.errorHandler.formatMessage("Loading...", LogLevelInfo), LogLevelInfo)
	case state.IsError():
		msg := state.Message
		if state.Retryable {
			msg += fmt.Sprintf(" Press %s to retry.", a.Keys.Refresh)
		}
		a.errorHandler.setPersistent(a.errorHandler.formatMessage(msg, LogLevelError), LogLevelError)
	default:
		a.errorHandler.setPersistent("", LogLevelInfo)
	}
}

// renderAlert shows or hides the transient alert line
func (a *App) renderAlert(text string, visible bool) {
	tv, ok := a.views["alert"].(*tview.TextView)
	if !ok {
		return
	}
	if !visible {
		tv.SetText("")
		return
	}
	tv.SetTextColor(a.errorHandler.levelToColor(levelOf(text)))
	tv.SetText(tview.Escape(text))
}

// levelOf recovers the level from a formatted message. Unformatted alerts,
// such as classify outcomes, count as success.
func levelOf(text string) LogLevel {
	switch {
	case strings.HasPrefix(text, "❌"):
		return LogLevelError
	case strings.HasPrefix(text, "⚠️"):
		return LogLevelWarning
	case strings.HasPrefix(text, "ℹ️"):
		return LogLevelInfo
	default:
		return LogLevelSuccess
	}
}
