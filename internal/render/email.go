package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ajramos/giztriage/internal/config"
	"github.com/ajramos/giztriage/internal/models"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/mattn/go-runewidth"
)

// Placeholders for missing fields
const (
	NoSender     = "(No sender)"
	NoSubject    = "(No subject)"
	NoDate       = "-"
	NoConfidence = "N/A"
)

// EmailRenderer formats triage records into fixed-width list rows and
// detail blocks
type EmailRenderer struct {
	colors *config.ColorsConfig
	now    func() time.Time
}

// NewEmailRenderer creates a renderer with the default colors
func NewEmailRenderer() *EmailRenderer {
	return &EmailRenderer{
		colors: config.DefaultColors(),
		now:    time.Now,
	}
}

// UpdateFromConfig updates the renderer with new colors
func (er *EmailRenderer) UpdateFromConfig(colors *config.ColorsConfig) {
	if colors != nil {
		er.colors = colors
	}
}

// CategoryColor returns the list color for a classification category
func (er *EmailRenderer) CategoryColor(category string) tcell.Color {
	return er.colors.CategoryColor(category).Color()
}

// FormatInboxRow formats an inbox email as "Sender | Subject | Date"
func (er *EmailRenderer) FormatInboxRow(e models.EmailRecord, maxWidth int) string {
	date := NoDate
	if t, ok := e.Date.Time(); ok {
		date = er.formatRelativeTime(t)
	}
	return er.row(SenderName(e.From), e.Subject, "", date, maxWidth)
}

// FormatClassifiedRow formats a classified email with its category and
// confidence ahead of the date
func (er *EmailRenderer) FormatClassifiedRow(e models.ClassifiedEmailRecord, maxWidth int) string {
	date := NoDate
	if t, ok := e.Date.Time(); ok {
		date = er.formatRelativeTime(t)
	}
	tag := fmt.Sprintf(" [%s %s]", categoryLabel(e.Category), Confidence(e.Confidence))
	return er.row(SenderName(e.From), e.Subject, tag, date, maxWidth)
}

// FormatSentRow formats a sent reply as "To | Subject | Sent"
func (er *EmailRenderer) FormatSentRow(r models.RespondedEmailRecord, maxWidth int) string {
	date := NoDate
	if t, ok := r.SentTime(); ok {
		date = er.formatRelativeTime(t)
	}
	suffix := ""
	if r.EditedByHuman {
		suffix = " [edited]"
	}
	return er.row(SenderName(r.To), r.Subject, suffix, date, maxWidth)
}

func (er *EmailRenderer) row(who, subject, suffix, date string, maxWidth int) string {
	if strings.TrimSpace(who) == "" {
		who = NoSender
	}
	if strings.TrimSpace(subject) == "" {
		subject = NoSubject
	}
	if maxWidth < 40 {
		maxWidth = 40
	}
	senderWidth := 22
	dateWidth := 8
	// " | " twice
	subjectWidth := maxWidth - senderWidth - dateWidth - 6 - runewidth.StringWidth(suffix)
	if subjectWidth < 10 {
		subjectWidth = 10
	}
	return fmt.Sprintf("%s | %s%s | %s",
		FitWidth(who, senderWidth),
		FitWidth(subject, subjectWidth),
		suffix,
		FitWidth(date, dateWidth))
}

// FormatClassifiedDetail returns the expanded detail for a classified email.
// Summary and reasoning lines appear only when present.
func (er *EmailRenderer) FormatClassifiedDetail(e models.ClassifiedEmailRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]Category:[::-] %s\n", tview.Escape(categoryLabel(e.Category)))
	fmt.Fprintf(&b, "[::b]Confidence:[::-] %s\n", Confidence(e.Confidence))
	if e.Summary != nil && strings.TrimSpace(*e.Summary) != "" {
		fmt.Fprintf(&b, "[::b]Summary:[::-] %s\n", tview.Escape(*e.Summary))
	}
	if e.Reasoning != nil && strings.TrimSpace(*e.Reasoning) != "" {
		fmt.Fprintf(&b, "[::b]Reasoning:[::-] %s\n", tview.Escape(*e.Reasoning))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatInboxDetail returns the expanded detail for an inbox email
func (er *EmailRenderer) FormatInboxDetail(e models.EmailRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]From:[::-] %s\n", tview.Escape(e.From))
	if len(e.To) > 0 {
		fmt.Fprintf(&b, "[::b]To:[::-] %s\n", tview.Escape(e.To.String()))
	}
	fmt.Fprintf(&b, "[::b]Date:[::-] %s\n", FormatDate(e.Date))
	if s := strings.TrimSpace(e.Snippet); s != "" {
		fmt.Fprintf(&b, "\n%s", tview.Escape(s))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSentDetail returns the expanded detail for a sent reply
func (er *EmailRenderer) FormatSentDetail(r models.RespondedEmailRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]To:[::-] %s\n", tview.Escape(r.To))
	fmt.Fprintf(&b, "[::b]Status:[::-] %s\n", tview.Escape(r.Status))
	if t, ok := r.SentTime(); ok {
		fmt.Fprintf(&b, "[::b]Sent:[::-] %s\n", t.Format(dateLayout))
	}
	if id := r.MessageID(); id != "" {
		fmt.Fprintf(&b, "[::b]Message:[::-] %s\n", tview.Escape(id))
	}
	if body := strings.TrimSpace(r.Body); body != "" {
		fmt.Fprintf(&b, "\n%s", tview.Escape(body))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHeaderPlain returns a plain header without markup
func FormatHeaderPlain(e models.EmailRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", orDefault(e.Subject, NoSubject))
	fmt.Fprintf(&b, "From: %s\n", orDefault(e.From, NoSender))
	if len(e.To) > 0 {
		fmt.Fprintf(&b, "To: %s\n", e.To.String())
	}
	fmt.Fprintf(&b, "Date: %s", FormatDate(e.Date))
	return b.String()
}

const dateLayout = "Mon, 02 Jan 2006 15:04"

// FormatDate renders an epoch-ms timestamp in local time, or "-" when absent
func FormatDate(ts models.Timestamp) string {
	t, ok := ts.Time()
	if !ok {
		return NoDate
	}
	return t.Local().Format(dateLayout)
}

// Confidence renders a 0..1 score as a whole percentage, or "N/A"
func Confidence(c *float64) string {
	if c == nil || math.IsNaN(*c) || math.IsInf(*c, 0) {
		return NoConfidence
	}
	return fmt.Sprintf("%d%%", int(math.Round(*c*100)))
}

// SenderName extracts the display name from "Name <addr>"
func SenderName(from string) string {
	from = strings.TrimSpace(from)
	if i := strings.Index(from, "<"); i > 0 && strings.HasSuffix(from, ">") {
		name := strings.Trim(strings.TrimSpace(from[:i]), `"`)
		if name != "" {
			return name
		}
	}
	return from
}

// FitWidth truncates and pads on the right to fit a fixed display width
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "...")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func (er *EmailRenderer) formatRelativeTime(date time.Time) string {
	diff := er.now().Sub(date)

	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	default:
		return date.Format("Jan 2")
	}
}

func categoryLabel(c string) string {
	return orDefault(c, "Uncategorized")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
