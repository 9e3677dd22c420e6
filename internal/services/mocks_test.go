package services

import (
	"context"
	"sync"

	"github.com/ajramos/giztriage/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) FetchInbox(ctx context.Context) ([]models.EmailRecord, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.EmailRecord)
	return out, args.Error(1)
}

func (m *mockBackend) Classify(ctx context.Context) ([]models.ClassifiedEmailRecord, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.ClassifiedEmailRecord)
	return out, args.Error(1)
}

func (m *mockBackend) ClassifiedEmails(ctx context.Context) ([]models.ClassifiedEmailRecord, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.ClassifiedEmailRecord)
	return out, args.Error(1)
}

func (m *mockBackend) RespondedEmails(ctx context.Context) ([]models.RespondedEmailRecord, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.RespondedEmailRecord)
	return out, args.Error(1)
}

func (m *mockBackend) Respond(ctx context.Context, req models.RespondRequest) (*models.RespondResult, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).(*models.RespondResult)
	return out, args.Error(1)
}

var _ TriageBackend = (*mockBackend)(nil)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Show(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, text)
}

func (n *recordingNotifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, "<clear>")
}

func (n *recordingNotifier) snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type mockLinkService struct {
	mock.Mock
}

func (m *mockLinkService) OpenLink(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *mockLinkService) ValidateURL(url string) error {
	return m.Called(url).Error(0)
}

func classified(id, category, date string) models.ClassifiedEmailRecord {
	return models.ClassifiedEmailRecord{
		EmailRecord: models.EmailRecord{ID: id, Subject: "subject " + id, Date: models.Timestamp(date)},
		Category:    category,
	}
}

func ids[T interface{ Key() string }](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}
