package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ajramos/giztriage/internal/alert"
	"github.com/ajramos/giztriage/internal/cache"
	"github.com/ajramos/giztriage/internal/models"
	"github.com/ajramos/giztriage/internal/ordering"
	"github.com/ajramos/giztriage/internal/reconcile"
)

// ClassifyServiceImpl implements ClassifyService
type ClassifyServiceImpl struct {
	backend  ClassifyBackend
	notifier Notifier
	emails   *collection[models.ClassifiedEmailRecord]
}

// NewClassifyService creates a new classify service. store and notifier may
// be nil.
func NewClassifyService(backend ClassifyBackend, store cache.Store, notifier Notifier, logger *log.Logger) *ClassifyServiceImpl {
	var vc *cache.ViewCache[models.ClassifiedEmailRecord]
	if store != nil {
		vc = cache.NewViewCache[models.ClassifiedEmailRecord](store, cache.KeyClassified, logger)
	}
	return &ClassifyServiceImpl{
		backend:  backend,
		notifier: notifier,
		emails:   newCollection(vc, logger),
	}
}

// SetOnChange registers a callback run after the list or state changes
func (s *ClassifyServiceImpl) SetOnChange(fn func()) { s.emails.setOnChange(fn) }

// Activate shows the cached classified emails, loading the stored set from
// the backend when there is no usable cache
func (s *ClassifyServiceImpl) Activate(ctx context.Context) error {
	if s.emails.restore(ctx) {
		return nil
	}
	return s.Reload(ctx)
}

// Reload replaces the list with every classified email the backend has
func (s *ClassifyServiceImpl) Reload(ctx context.Context) error {
	if s.backend == nil {
		return fmt.Errorf("classify backend not available")
	}
	s.emails.begin()
	emails, err := s.backend.ClassifiedEmails(ctx)
	if err != nil {
		s.emails.fail(MsgFetchClassifiedFailed, err)
		return fmt.Errorf("failed to load classified emails: %w", err)
	}
	s.emails.finish(func([]models.ClassifiedEmailRecord) []models.ClassifiedEmailRecord {
		return reconcile.Dedupe(emails, classifiedKey)
	})
	s.emails.persist(ctx)
	return nil
}

// Classify asks the backend to classify new mail and merges the batch into
// the list. It returns the batch size.
func (s *ClassifyServiceImpl) Classify(ctx context.Context) (int, error) {
	if s.backend == nil {
		return 0, fmt.Errorf("classify backend not available")
	}
	if s.notifier != nil {
		s.notifier.Clear()
	}
	s.emails.begin()
	batch, err := s.backend.Classify(ctx)
	if err != nil {
		s.emails.fail(MsgClassifyFailed, err)
		return 0, fmt.Errorf("failed to classify emails: %w", err)
	}
	s.emails.finish(func(current []models.ClassifiedEmailRecord) []models.ClassifiedEmailRecord {
		return reconcile.Merge(current, batch, classifiedKey)
	})
	s.emails.persist(ctx)
	if s.notifier != nil {
		s.notifier.Show(alert.ClassifiedMessage(len(batch)))
	}
	return len(batch), nil
}

// Snapshot returns the classified emails, newest first
func (s *ClassifyServiceImpl) Snapshot() []models.ClassifiedEmailRecord {
	return ordering.SortByDate(s.emails.snapshot(), func(e models.ClassifiedEmailRecord) (float64, bool) {
		return e.Date.Millis()
	})
}

// Find returns the classified email with id
func (s *ClassifyServiceImpl) Find(id string) (models.ClassifiedEmailRecord, bool) {
	for _, e := range s.emails.snapshot() {
		if e.ID == id {
			return e, true
		}
	}
	return models.ClassifiedEmailRecord{}, false
}

// State returns the load state
func (s *ClassifyServiceImpl) State() ViewState { return s.emails.viewState() }

func classifiedKey(e models.ClassifiedEmailRecord) string { return e.ID }

// ensure interface compliance
var _ ClassifyService = (*ClassifyServiceImpl)(nil)
