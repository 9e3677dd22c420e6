package devserver

import (
	"fmt"
	"strings"

	"github.com/ajramos/giztriage/internal/models"
)

// Categories the production classifier chooses from
var Categories = []string{
	"Work / Professional",
	"Personal",
	"Support / Service Requests",
	"Promotions / Marketing",
	"Spam / Junk",
	"Finance / Bills",
	"Meetings / Scheduling",
	"Notifications / Updates",
	"Other",
}

type rule struct {
	category string
	keywords []string
}

// checked in order; first match wins
var rules = []rule{
	{"Finance / Bills", []string{"invoice", "payment", "amount due", "receipt", "bill"}},
	{"Meetings / Scheduling", []string{"meeting", "sync", "calendar", "reschedule", "agenda"}},
	{"Promotions / Marketing", []string{"sale", "% off", "discount", "coupon", "unsubscribe"}},
	{"Support / Service Requests", []string{"ticket", "support", "issue", "outage"}},
	{"Spam / Junk", []string{"lottery", "winner", "wire transfer", "prince"}},
	{"Notifications / Updates", []string{"notification", "alert", "update", "verify"}},
	{"Personal", []string{"dinner", "weekend", "birthday", "family", "party"}},
	{"Work / Professional", []string{"project", "deadline", "review", "report", "planning"}},
}

// Classify assigns a category by keyword. It is deterministic so fixtures
// classify the same way on every run.
func Classify(e models.EmailRecord) models.ClassifiedEmailRecord {
	text := strings.ToLower(e.Subject + " " + e.Snippet + " " + e.From)

	category := "Other"
	var hits []string
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) > 0 {
			category = r.category
			break
		}
	}

	confidence := 0.5
	reasoning := "No strong signal in subject or snippet."
	if len(hits) > 0 {
		confidence = 0.7 + 0.1*float64(len(hits))
		if confidence > 0.95 {
			confidence = 0.95
		}
		reasoning = fmt.Sprintf("Mentions %s.", strings.Join(quoteAll(hits), ", "))
	}
	summary := strings.TrimSpace(e.Snippet)
	if summary == "" {
		summary = e.Subject
	}

	return models.ClassifiedEmailRecord{
		EmailRecord: models.EmailRecord{
			ID:       e.ID,
			From:     e.From,
			To:       e.To,
			Subject:  e.Subject,
			Snippet:  e.Snippet,
			Date:     e.Date,
			ThreadID: e.ThreadID,
		},
		Category:   category,
		Confidence: &confidence,
		Reasoning:  &reasoning,
		Summary:    &summary,
	}
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
