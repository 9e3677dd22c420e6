package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// Recipients holds one or many addresses. The backend sends a bare string for
// inbox emails and an array for classified ones, so both decode.
type Recipients []string

// UnmarshalJSON accepts null, a string or an array of strings
func (r *Recipients) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*r = nil
			return nil
		}
		*r = Recipients{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("recipients: %w", err)
	}
	if len(list) == 0 {
		list = nil
	}
	*r = list
	return nil
}

// MarshalJSON always encodes an array
func (r Recipients) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(r))
}

// String joins the addresses for display
func (r Recipients) String() string {
	return strings.Join(r, ", ")
}

// Timestamp is a numeric epoch-milliseconds value serialized as a string.
// The zero value means the date is absent.
type Timestamp string

// UnmarshalJSON accepts null, a string or a bare number
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*t = Timestamp(n.String())
	return nil
}

// MarshalJSON encodes an absent timestamp as null
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// Millis returns the numeric value. Absent and non-numeric values report false.
func (t Timestamp) Millis() (float64, bool) {
	if t == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(t), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Time converts the timestamp to a time.Time
func (t Timestamp) Time() (time.Time, bool) {
	ms, ok := t.Millis()
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// EmailRecord is an inbox email as returned by the backend
type EmailRecord struct {
	ID        string     `json:"id"`
	From      string     `json:"from"`
	To        Recipients `json:"to"`
	Subject   string     `json:"subject"`
	Snippet   string     `json:"snippet"`
	Date      Timestamp  `json:"date"`
	ThreadID  string     `json:"thread_id"`
	BodyPlain string     `json:"body_plain,omitempty"`
	BodyHTML  string     `json:"body_html,omitempty"`
}

// Key returns the record identity
func (e EmailRecord) Key() string { return e.ID }

// ClassifiedEmailRecord is an email plus the AI classification
type ClassifiedEmailRecord struct {
	EmailRecord
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence,omitempty"`
	Reasoning  *string  `json:"reasoning,omitempty"`
	Summary    *string  `json:"summary,omitempty"`
}

type classificationFields struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	Reasoning  *string  `json:"reasoning"`
	Summary    *string  `json:"summary"`
}

// UnmarshalJSON decodes the flat shape and lifts fields from a nested
// "classification" object when the flat ones are missing.
func (c *ClassifiedEmailRecord) UnmarshalJSON(data []byte) error {
	type plain ClassifiedEmailRecord
	var aux struct {
		plain
		Classification *classificationFields `json:"classification"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	out := ClassifiedEmailRecord(aux.plain)
	if cls := aux.Classification; cls != nil {
		if out.Category == "" {
			out.Category = cls.Category
		}
		if out.Confidence == nil {
			out.Confidence = cls.Confidence
		}
		if out.Reasoning == nil {
			out.Reasoning = cls.Reasoning
		}
		if out.Summary == nil {
			out.Summary = cls.Summary
		}
	}
	*c = out
	return nil
}

// GmailResponse is the provider message returned after sending. The Gmail API
// message shape (id, threadId, labelIds) matches the backend contract.
type GmailResponse = gmail.Message

// RespondedEmailRecord records a reply that was sent
type RespondedEmailRecord struct {
	EmailID       string         `json:"email_id"`
	ThreadID      string         `json:"thread_id"`
	To            string         `json:"to"`
	From          string         `json:"from"`
	Subject       string         `json:"subject"`
	Body          string         `json:"body"`
	Status        string         `json:"status"`
	EditedByHuman bool           `json:"edited_by_human"`
	CreatedAt     string         `json:"created_at"`
	SentAt        string         `json:"sent_at"`
	GmailResponse *GmailResponse `json:"gmail_response"`
}

// SentTime parses SentAt
func (r RespondedEmailRecord) SentTime() (time.Time, bool) {
	return ParseInstant(r.SentAt)
}

// MessageID returns the provider message id, if any
func (r RespondedEmailRecord) MessageID() string {
	if r.GmailResponse == nil {
		return ""
	}
	return r.GmailResponse.Id
}

// StatusSent is the only respond status that counts as success
const StatusSent = "sent"

// RespondRequest is the body of POST /respond
type RespondRequest struct {
	EmailID string `json:"email_id"`
	Draft   string `json:"draft"`
}

// RespondResult is returned by POST /respond
type RespondResult struct {
	Status        string         `json:"status"`
	EmailID       string         `json:"email_id"`
	To            string         `json:"to"`
	From          string         `json:"from"`
	Subject       string         `json:"subject"`
	Draft         string         `json:"draft"`
	GmailResponse *GmailResponse `json:"gmail_response"`
}

// Sent reports whether the backend confirmed delivery
func (r *RespondResult) Sent() bool {
	return r != nil && r.Status == StatusSent
}

// MessageID returns the provider message id, if any
func (r *RespondResult) MessageID() string {
	if r == nil || r.GmailResponse == nil {
		return ""
	}
	return r.GmailResponse.Id
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseInstant parses the timestamp formats the backend emits. Zone-less
// values are read as UTC.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
