package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ajramos/giztriage/internal/cache"
	"github.com/ajramos/giztriage/internal/models"
)

// InboxServiceImpl implements InboxService
type InboxServiceImpl struct {
	backend InboxBackend
	emails  *collection[models.EmailRecord]
}

// NewInboxService creates a new inbox service. store may be nil to run
// without a cache.
func NewInboxService(backend InboxBackend, store cache.Store, logger *log.Logger) *InboxServiceImpl {
	var vc *cache.ViewCache[models.EmailRecord]
	if store != nil {
		vc = cache.NewViewCache[models.EmailRecord](store, cache.KeyInbox, logger)
	}
	return &InboxServiceImpl{
		backend: backend,
		emails:  newCollection(vc, logger),
	}
}

// SetOnChange registers a callback run after the list or state changes
func (s *InboxServiceImpl) SetOnChange(fn func()) { s.emails.setOnChange(fn) }

// Activate shows the cached inbox, fetching it when there is no usable cache
func (s *InboxServiceImpl) Activate(ctx context.Context) error {
	if s.emails.restore(ctx) {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the inbox and replaces the list wholesale
func (s *InboxServiceImpl) Refresh(ctx context.Context) error {
	if s.backend == nil {
		return fmt.Errorf("inbox backend not available")
	}
	s.emails.begin()
	emails, err := s.backend.FetchInbox(ctx)
	if err != nil {
		s.emails.fail(MsgFetchInboxFailed, err)
		return fmt.Errorf("failed to fetch inbox: %w", err)
	}
	s.emails.finish(func([]models.EmailRecord) []models.EmailRecord { return emails })
	s.emails.persist(ctx)
	return nil
}

// Snapshot returns the inbox in backend order
func (s *InboxServiceImpl) Snapshot() []models.EmailRecord { return s.emails.snapshot() }

// Find returns the email with id
func (s *InboxServiceImpl) Find(id string) (models.EmailRecord, bool) {
	for _, e := range s.emails.snapshot() {
		if e.ID == id {
			return e, true
		}
	}
	return models.EmailRecord{}, false
}

// State returns the load state
func (s *InboxServiceImpl) State() ViewState { return s.emails.viewState() }

// ensure interface compliance
var _ InboxService = (*InboxServiceImpl)(nil)
