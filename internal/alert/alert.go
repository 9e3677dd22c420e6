// Package alert shows one transient message at a time and clears it after a
// fixed delay.
package alert

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultDuration is how long a message stays up
const DefaultDuration = 3500 * time.Millisecond

// ClassifiedMessage phrases the outcome of a classify batch of n emails
func ClassifiedMessage(n int) string {
	switch {
	case n <= 0:
		return "No Unclassified Email found"
	case n == 1:
		return "1 Email classified successfully"
	default:
		return fmt.Sprintf("%d Emails classified successfully", n)
	}
}

// Alerter holds the current message. A newer Show replaces the message and
// its timer; a timer only ever clears the message it was started for.
type Alerter struct {
	mu       sync.Mutex
	duration time.Duration
	text     string
	visible  bool
	gen      uint64
	timer    *time.Timer
	onChange func(text string, visible bool)
}

// New creates an alerter. A non-positive duration uses DefaultDuration.
func New(duration time.Duration) *Alerter {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Alerter{duration: duration}
}

// Duration returns the auto-clear delay
func (a *Alerter) Duration() time.Duration { return a.duration }

// OnChange registers fn to run after the message changes. fn runs outside the
// alerter's lock and may be called from a timer goroutine.
func (a *Alerter) OnChange(fn func(text string, visible bool)) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// Show displays text and restarts the auto-clear timer
func (a *Alerter) Show(text string) {
	if strings.TrimSpace(text) == "" {
		a.Clear()
		return
	}
	a.mu.Lock()
	a.stopTimerLocked()
	a.gen++
	gen := a.gen
	a.text = text
	a.visible = true
	a.timer = time.AfterFunc(a.duration, func() { a.expire(gen) })
	fn := a.onChange
	a.mu.Unlock()

	if fn != nil {
		fn(text, true)
	}
}

// Clear dismisses the current message, if any
func (a *Alerter) Clear() {
	a.mu.Lock()
	if !a.visible {
		a.mu.Unlock()
		return
	}
	a.stopTimerLocked()
	a.gen++
	a.text = ""
	a.visible = false
	fn := a.onChange
	a.mu.Unlock()

	if fn != nil {
		fn("", false)
	}
}

// Current returns the shown message
func (a *Alerter) Current() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text, a.visible
}

// Stop cancels any pending auto-clear without changing the message
func (a *Alerter) Stop() {
	a.mu.Lock()
	a.stopTimerLocked()
	a.mu.Unlock()
}

func (a *Alerter) expire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || !a.visible {
		a.mu.Unlock()
		return
	}
	a.gen++
	a.text = ""
	a.visible = false
	a.timer = nil
	fn := a.onChange
	a.mu.Unlock()

	if fn != nil {
		fn("", false)
	}
}

func (a *Alerter) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
