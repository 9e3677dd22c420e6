package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ajramos/giztriage/internal/alert"
	"github.com/ajramos/giztriage/internal/config"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// LogLevel represents the severity of a message
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarning
	LogLevelError
	LogLevelSuccess
)

// ErrorHandler provides consistent error handling and user feedback.
// Transient messages go through the alerter; the status line holds the
// persistent view state.
type ErrorHandler struct {
	mu         sync.RWMutex
	statusView *tview.TextView
	alerter    *alert.Alerter
	colors     *config.ColorsConfig
	logger     *log.Logger

	// baseline provides the status text when nothing else is shown
	baseline func() string
	// queue runs fn on the UI goroutine; nil runs it inline
	queue func(fn func())

	persistentStatus string
	persistentLevel  LogLevel
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(statusView *tview.TextView, alerter *alert.Alerter, colors *config.ColorsConfig, logger *log.Logger) *ErrorHandler {
	if colors == nil {
		colors = config.DefaultColors()
	}
	return &ErrorHandler{
		statusView: statusView,
		alerter:    alerter,
		colors:     colors,
		logger:     logger,
	}
}

// HandleError logs err and shows userMsg
func (eh *ErrorHandler) HandleError(ctx context.Context, err error, userMsg string) {
	if err == nil {
		return
	}

	if eh.logger != nil {
		eh.logger.Printf("ERROR: %v", err)
	}

	if userMsg == "" {
		userMsg = "An error occurred"
	}

	eh.ShowMessage(ctx, userMsg, LogLevelError)
}

// ShowMessage displays a transient message to the user
func (eh *ErrorHandler) ShowMessage(ctx context.Context, msg string, level LogLevel) {
	if strings.TrimSpace(msg) == "" {
		return
	}

	if eh.logger != nil {
		eh.logger.Printf("%s: %s", eh.levelToString(level), msg)
	}

	if eh.alerter != nil {
		eh.alerter.Show(eh.formatMessage(msg, level))
	}
}

// ShowPersistentMessage shows a status message that stays until cleared
func (eh *ErrorHandler) ShowPersistentMessage(ctx context.Context, msg string, level LogLevel) {
	formatted := eh.formatMessage(msg, level)
	eh.run(func() { eh.setPersistent(formatted, level) })
}

// ClearPersistentMessage clears the persistent status message
func (eh *ErrorHandler) ClearPersistentMessage() {
	eh.run(func() { eh.setPersistent("", LogLevelInfo) })
}

func (eh *ErrorHandler) run(fn func()) {
	if eh.queue != nil {
		eh.queue(fn)
		return
	}
	fn()
}

// setPersistent updates the status line. Call it on the UI goroutine.
func (eh *ErrorHandler) setPersistent(msg string, level LogLevel) {
	eh.mu.Lock()
	eh.persistentStatus = msg
	eh.persistentLevel = level
	eh.mu.Unlock()
	eh.refreshStatusDisplay()
}

// formatMessage formats a message with an icon for its level
func (eh *ErrorHandler) formatMessage(msg string, level LogLevel) string {
	if msg == "" {
		return ""
	}
	var icon string

	switch level {
	case LogLevelInfo:
		icon = "ℹ️"
	case LogLevelWarning:
		icon = "⚠️"
	case LogLevelError:
		icon = "❌"
	case LogLevelSuccess:
		icon = "✅"
	default:
		icon = "•"
	}

	return fmt.Sprintf("%s %s", icon, msg)
}

// levelToString converts LogLevel to string
func (eh *ErrorHandler) levelToString(level LogLevel) string {
	switch level {
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarning:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelSuccess:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}

// levelToColor converts LogLevel to a theme color
func (eh *ErrorHandler) levelToColor(level LogLevel) tcell.Color {
	colors := eh.colors
	if colors == nil {
		colors = config.DefaultColors()
	}
	switch level {
	case LogLevelWarning:
		return colors.Status.LoadingColor.Color()
	case LogLevelError:
		return colors.Status.ErrorColor.Color()
	case LogLevelSuccess:
		return colors.Status.SuccessColor.Color()
	default:
		return colors.Status.InfoColor.Color()
	}
}

// refreshStatusDisplay shows the persistent message, or the baseline
func (eh *ErrorHandler) refreshStatusDisplay() {
	if eh.statusView == nil {
		return
	}

	eh.mu.RLock()
	text, level := eh.persistentStatus, eh.persistentLevel
	eh.mu.RUnlock()

	if text == "" {
		text, level = eh.getBaselineStatus(), LogLevelInfo
	} else {
		text = tview.Escape(text)
	}

	eh.statusView.SetTextColor(eh.levelToColor(level))
	eh.statusView.SetText(text)
}

// getBaselineStatus returns the baseline status text
func (eh *ErrorHandler) getBaselineStatus() string {
	if eh.baseline != nil {
		return eh.baseline()
	}
	return "GizTriage • Press ? for help"
}

// ShowInfo shows an info message
func (eh *ErrorHandler) ShowInfo(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelInfo)
}

// ShowWarning shows a warning message
func (eh *ErrorHandler) ShowWarning(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelWarning)
}

// ShowError shows an error message
func (eh *ErrorHandler) ShowError(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelError)
}

// ShowSuccess shows a success message
func (eh *ErrorHandler) ShowSuccess(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelSuccess)
}

// ShowLLMError shows an LLM-specific error with context
func (eh *ErrorHandler) ShowLLMError(ctx context.Context, operation string, err error) {
	eh.HandleError(ctx, err, fmt.Sprintf("AI %s failed", operation))
}

// ShowProgress shows a progress message
func (eh *ErrorHandler) ShowProgress(ctx context.Context, msg string) {
	eh.ShowPersistentMessage(ctx, msg, LogLevelInfo)
}

// ClearProgress clears any progress message
func (eh *ErrorHandler) ClearProgress() {
	eh.ClearPersistentMessage()
}
