// Package devserver is an in-memory stand-in for the triage API, used for
// local development and tests.
package devserver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ajramos/giztriage/internal/models"
	"github.com/google/uuid"
	"google.golang.org/api/gmail/v1"
)

// Defaults mirror the production API
const (
	DefaultFetchLimit    = 10
	DefaultClassifyLimit = 5
)

var (
	// ErrUnknownEmail reports a respond call for an id that was never fetched
	ErrUnknownEmail = errors.New("email not found")
	// ErrEmptyDraft reports a respond call without a draft
	ErrEmptyDraft = errors.New("draft is required")
)

// Mailbox holds fixture mail and everything done to it
type Mailbox struct {
	mu            sync.Mutex
	source        []models.EmailRecord
	fetched       map[string]models.EmailRecord
	fetchedOrder  []string
	classified    map[string]models.ClassifiedEmailRecord
	classOrder    []string
	responded     []models.RespondedEmailRecord
	respondStatus string
	now           func() time.Time
}

// NewMailbox creates a mailbox serving source, newest first as given
func NewMailbox(source []models.EmailRecord) *Mailbox {
	return &Mailbox{
		source:        append([]models.EmailRecord(nil), source...),
		fetched:       make(map[string]models.EmailRecord),
		classified:    make(map[string]models.ClassifiedEmailRecord),
		respondStatus: models.StatusSent,
		now:           time.Now,
	}
}

// SetRespondStatus changes the status reported by Respond, to exercise
// clients against a provider that did not deliver
func (m *Mailbox) SetRespondStatus(status string) {
	m.mu.Lock()
	m.respondStatus = status
	m.mu.Unlock()
}

// Fetch returns up to limit source emails and remembers them for
// classification. A non-positive limit uses DefaultFetchLimit.
func (m *Mailbox) Fetch(limit int) []models.EmailRecord {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := limit
	if n > len(m.source) {
		n = len(m.source)
	}
	out := make([]models.EmailRecord, 0, n)
	for _, e := range m.source[:n] {
		if _, seen := m.fetched[e.ID]; !seen {
			m.fetchedOrder = append(m.fetchedOrder, e.ID)
		}
		m.fetched[e.ID] = e
		out = append(out, e)
	}
	return out
}

// ClassifyPending classifies up to limit fetched emails that have not been
// classified yet. Emails are never classified twice, so repeated calls with
// nothing new return an empty batch.
func (m *Mailbox) ClassifyPending(limit int) []models.ClassifiedEmailRecord {
	if limit <= 0 {
		limit = DefaultClassifyLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := []models.ClassifiedEmailRecord{}
	for _, id := range m.fetchedOrder {
		if len(batch) >= limit {
			break
		}
		if _, done := m.classified[id]; done {
			continue
		}
		c := Classify(m.fetched[id])
		m.classified[id] = c
		m.classOrder = append(m.classOrder, id)
		batch = append(batch, c)
	}
	return batch
}

// Classified returns every classified email in classification order
func (m *Mailbox) Classified() []models.ClassifiedEmailRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ClassifiedEmailRecord, 0, len(m.classOrder))
	for _, id := range m.classOrder {
		out = append(out, m.classified[id])
	}
	return out
}

// Responded returns the sent responses in send order
func (m *Mailbox) Responded() []models.RespondedEmailRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.RespondedEmailRecord{}, m.responded...)
}

// Respond records a reply to a fetched email
func (m *Mailbox) Respond(req models.RespondRequest) (*models.RespondResult, error) {
	if strings.TrimSpace(req.Draft) == "" {
		return nil, ErrEmptyDraft
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	email, ok := m.fetched[req.EmailID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEmail, req.EmailID)
	}

	to := email.From
	subject := email.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	result := &models.RespondResult{
		Status:  m.respondStatus,
		EmailID: email.ID,
		To:      to,
		From:    "me",
		Subject: subject,
		Draft:   req.Draft,
	}
	if m.respondStatus != models.StatusSent {
		return result, nil
	}

	msg := &gmail.Message{
		Id:       strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		ThreadId: email.ThreadID,
		LabelIds: []string{"SENT"},
	}
	result.GmailResponse = msg

	now := m.now().UTC().Format("2006-01-02T15:04:05.000000")
	m.responded = append(m.responded, models.RespondedEmailRecord{
		EmailID:       email.ID,
		ThreadID:      email.ThreadID,
		To:            to,
		From:          "me",
		Subject:       subject,
		Body:          req.Draft,
		Status:        models.StatusSent,
		EditedByHuman: true,
		CreatedAt:     now,
		SentAt:        now,
		GmailResponse: msg,
	})
	return result, nil
}

// SampleEmails returns a small fixture inbox dated relative to now
func SampleEmails(now time.Time) []models.EmailRecord {
	at := func(d time.Duration) models.Timestamp {
		return models.Timestamp(strconv.FormatInt(now.Add(-d).UnixMilli(), 10))
	}
	return []models.EmailRecord{
		{
			ID: "18c1a0f2e4b1", From: "Dana Ortiz <dana@acme.example>", To: models.Recipients{"me@example.com"},
			Subject: "Q3 planning sync moved to Thursday", Snippet: "Can we push the planning meeting to Thursday at 10?",
			Date: at(20 * time.Minute), ThreadID: "t-18c1a0f2e4b1",
			BodyPlain: "Hi,\n\nCan we push the planning meeting to Thursday at 10? The room is booked.\n\nDana",
		},
		{
			ID: "18c19d77a902", From: "Billing <billing@utility.example>", To: models.Recipients{"me@example.com"},
			Subject: "Your invoice for October is ready", Snippet: "Amount due: $84.20. Payment is due by the 28th.",
			Date: at(2 * time.Hour), ThreadID: "t-18c19d77a902",
			BodyHTML: "<p>Amount due: <b>$84.20</b>.</p><p>Payment is due by the 28th.</p>",
		},
		{
			ID: "18c19b1f03aa", From: "Sam <sam@friends.example>", To: models.Recipients{"me@example.com", "alex@friends.example"},
			Subject: "Dinner on Saturday?", Snippet: "We're thinking of trying the new ramen place.",
			Date: at(5 * time.Hour), ThreadID: "t-18c19b1f03aa",
		},
		{
			ID: "18c1981c55d0", From: "Deals <news@shop.example>", To: models.Recipients{"me@example.com"},
			Subject: "48h sale: 30% off everything", Snippet: "Use code AUTUMN30 at checkout. Unsubscribe anytime.",
			Date: at(26 * time.Hour), ThreadID: "t-18c1981c55d0",
		},
		{
			ID: "18c1951e88b4", From: "Support <help@saas.example>", To: models.Recipients{"me@example.com"},
			Subject: "Ticket #4821 updated", Snippet: "We've reproduced the issue and a fix is scheduled.",
			ThreadID: "t-18c1951e88b4",
		},
	}
}
