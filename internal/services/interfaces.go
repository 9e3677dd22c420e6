package services

import (
	"context"

	"github.com/ajramos/giztriage/internal/models"
)

// InboxBackend fetches the inbox
type InboxBackend interface {
	FetchInbox(ctx context.Context) ([]models.EmailRecord, error)
}

// ClassifyBackend classifies new mail and lists classified mail
type ClassifyBackend interface {
	Classify(ctx context.Context) ([]models.ClassifiedEmailRecord, error)
	ClassifiedEmails(ctx context.Context) ([]models.ClassifiedEmailRecord, error)
}

// SentBackend lists responses that were sent
type SentBackend interface {
	RespondedEmails(ctx context.Context) ([]models.RespondedEmailRecord, error)
}

// RespondBackend sends a response
type RespondBackend interface {
	Respond(ctx context.Context, req models.RespondRequest) (*models.RespondResult, error)
}

// TriageBackend is the full backend contract
type TriageBackend interface {
	InboxBackend
	ClassifyBackend
	SentBackend
	RespondBackend
}

// Notifier shows transient messages
type Notifier interface {
	Show(text string)
	Clear()
}

// InboxService drives the inbox view
type InboxService interface {
	SetOnChange(fn func())
	Activate(ctx context.Context) error
	Refresh(ctx context.Context) error
	Snapshot() []models.EmailRecord
	Find(id string) (models.EmailRecord, bool)
	State() ViewState
}

// ClassifyService drives the classified view
type ClassifyService interface {
	SetOnChange(fn func())
	Activate(ctx context.Context) error
	Reload(ctx context.Context) error
	Classify(ctx context.Context) (int, error)
	Snapshot() []models.ClassifiedEmailRecord
	Find(id string) (models.ClassifiedEmailRecord, bool)
	State() ViewState
}

// SentService drives the sent view
type SentService interface {
	SetOnChange(fn func())
	Activate(ctx context.Context) error
	Snapshot() []models.RespondedEmailRecord
	State() ViewState
}

// RespondService sends responses to classified emails
type RespondService interface {
	Respond(ctx context.Context, emailID, draft string) (*models.RespondResult, error)
}

// DraftService proposes response drafts
type DraftService interface {
	Suggest(ctx context.Context, email models.ClassifiedEmailRecord) (string, error)
	Enabled() bool
}

// LinkService opens URLs outside the terminal
type LinkService interface {
	OpenLink(ctx context.Context, url string) error
	ValidateURL(url string) error
}

// GmailWebService opens sent replies in Gmail on the web
type GmailWebService interface {
	OpenThreadInWeb(ctx context.Context, threadID string) error
	GenerateGmailWebURL(threadID string) string
}
