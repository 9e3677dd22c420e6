package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ajramos/giztriage/internal/models"
	"github.com/ajramos/giztriage/internal/ordering"
)

// SentServiceImpl implements SentService. The sent list is always loaded
// live.
type SentServiceImpl struct {
	backend SentBackend
	sent    *collection[models.RespondedEmailRecord]
}

// NewSentService creates a new sent service
func NewSentService(backend SentBackend, logger *log.Logger) *SentServiceImpl {
	return &SentServiceImpl{
		backend: backend,
		sent:    newCollection[models.RespondedEmailRecord](nil, logger),
	}
}

// SetOnChange registers a callback run after the list or state changes
func (s *SentServiceImpl) SetOnChange(fn func()) { s.sent.setOnChange(fn) }

// Activate loads the sent responses
func (s *SentServiceImpl) Activate(ctx context.Context) error {
	if s.backend == nil {
		return fmt.Errorf("sent backend not available")
	}
	s.sent.begin()
	records, err := s.backend.RespondedEmails(ctx)
	if err != nil {
		s.sent.fail(MsgFetchSentFailed, err)
		return fmt.Errorf("failed to load sent emails: %w", err)
	}
	s.sent.finish(func([]models.RespondedEmailRecord) []models.RespondedEmailRecord { return records })
	return nil
}

// Snapshot returns the sent responses, most recently sent first
func (s *SentServiceImpl) Snapshot() []models.RespondedEmailRecord {
	return ordering.SortBySentAt(s.sent.snapshot(), func(r models.RespondedEmailRecord) (time.Time, bool) {
		return r.SentTime()
	})
}

// State returns the load state
func (s *SentServiceImpl) State() ViewState { return s.sent.viewState() }

// ensure interface compliance
var _ SentService = (*SentServiceImpl)(nil)
