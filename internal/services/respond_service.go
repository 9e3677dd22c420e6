package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ajramos/giztriage/internal/models"
)

// RespondServiceImpl implements RespondService
type RespondServiceImpl struct {
	backend RespondBackend
	logger  *log.Logger
}

// NewRespondService creates a new respond service
func NewRespondService(backend RespondBackend, logger *log.Logger) *RespondServiceImpl {
	return &RespondServiceImpl{backend: backend, logger: logger}
}

// Respond sends draft as the reply to emailID. An empty draft aborts with
// ErrUserAbort before any request is made. A result whose status is not
// "sent" is returned together with ErrUnexpectedStatus.
func (s *RespondServiceImpl) Respond(ctx context.Context, emailID, draft string) (*models.RespondResult, error) {
	if draft == "" {
		return nil, ErrUserAbort
	}
	if strings.TrimSpace(emailID) == "" {
		return nil, fmt.Errorf("%w: email id cannot be empty", ErrInvalidInput)
	}
	if s.backend == nil {
		return nil, fmt.Errorf("respond backend not available")
	}

	result, err := s.backend.Respond(ctx, models.RespondRequest{EmailID: emailID, Draft: draft})
	if err != nil {
		s.logf("respond %s: %v", emailID, err)
		return nil, fmt.Errorf("failed to send response: %w", err)
	}
	if !result.Sent() {
		status := ""
		if result != nil {
			status = result.Status
		}
		s.logf("respond %s: status %q", emailID, status)
		return result, fmt.Errorf("%w: %q", ErrUnexpectedStatus, status)
	}
	s.logf("respond %s: sent as %s", emailID, result.MessageID())
	return result, nil
}

func (s *RespondServiceImpl) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// ensure interface compliance
var _ RespondService = (*RespondServiceImpl)(nil)
