package services

import (
	"errors"

	"github.com/ajramos/giztriage/internal/backend"
	"github.com/ajramos/giztriage/internal/cache"
)

// Standard service errors
var (
	// Backend errors, re-exported so views only import services
	ErrNetwork           = backend.ErrNetwork
	ErrServer            = backend.ErrServer
	ErrMalformedResponse = backend.ErrMalformedResponse

	// Cache errors
	ErrCacheCorrupted = cache.ErrCacheCorrupted

	// Respond errors
	ErrUserAbort        = errors.New("response aborted by user")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrInvalidInput     = errors.New("invalid input provided")

	// AI errors
	ErrAIDisabled = errors.New("AI draft suggestions are disabled")
)

// User-facing messages for failed actions
const (
	MsgFetchInboxFailed      = "Failed to fetch emails."
	MsgClassifyFailed        = "Failed to classify emails."
	MsgFetchClassifiedFailed = "Failed to fetch classified emails from database."
	MsgFetchSentFailed       = "Failed to fetch sent emails."
	MsgSendResponseFailed    = "Failed to send response."
)

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == 429
	}
	return false
}
