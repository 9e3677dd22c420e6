package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ajramos/giztriage/internal/backend"
	"github.com/ajramos/giztriage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func TestRespondService_EmptyDraftMakesNoCall(t *testing.T) {
	be := &mockBackend{}
	svc := NewRespondService(be, nil)

	res, err := svc.Respond(context.Background(), "1", "")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUserAbort)
	be.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestRespondService_WhitespaceDraftIsSent(t *testing.T) {
	be := &mockBackend{}
	be.On("Respond", mock.Anything, models.RespondRequest{EmailID: "1", Draft: "   "}).
		Return(&models.RespondResult{Status: models.StatusSent, EmailID: "1"}, nil)
	svc := NewRespondService(be, nil)

	res, err := svc.Respond(context.Background(), "1", "   ")

	require.NoError(t, err)
	assert.True(t, res.Sent())
	be.AssertExpectations(t)
}

func TestRespondService_EmptyEmailID(t *testing.T) {
	be := &mockBackend{}
	svc := NewRespondService(be, nil)

	_, err := svc.Respond(context.Background(), " ", "hello")

	assert.ErrorIs(t, err, ErrInvalidInput)
	be.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestRespondService_Sent(t *testing.T) {
	be := &mockBackend{}
	want := &models.RespondResult{
		Status:        models.StatusSent,
		EmailID:       "1",
		Draft:         "Thanks!",
		GmailResponse: &gmail.Message{Id: "m1", ThreadId: "t1", LabelIds: []string{"SENT"}},
	}
	be.On("Respond", mock.Anything, models.RespondRequest{EmailID: "1", Draft: "Thanks!"}).Return(want, nil)
	svc := NewRespondService(be, nil)

	res, err := svc.Respond(context.Background(), "1", "Thanks!")

	require.NoError(t, err)
	assert.Same(t, want, res)
	be.AssertExpectations(t)
}

func TestRespondService_UnexpectedStatus(t *testing.T) {
	be := &mockBackend{}
	be.On("Respond", mock.Anything, mock.Anything).Return(&models.RespondResult{Status: "queued"}, nil)
	svc := NewRespondService(be, nil)

	res, err := svc.Respond(context.Background(), "1", "hi")

	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "queued")
	require.NotNil(t, res)
	assert.False(t, res.Sent())
}

func TestRespondService_BackendFailure(t *testing.T) {
	be := &mockBackend{}
	be.On("Respond", mock.Anything, mock.Anything).
		Return(nil, &backend.StatusError{Method: "POST", Path: "/respond", StatusCode: 400})
	svc := NewRespondService(be, nil)

	_, err := svc.Respond(context.Background(), "1", "hi")

	assert.ErrorIs(t, err, ErrServer)
	assert.False(t, IsRetryableError(err))
}

func TestRespondService_NilResult(t *testing.T) {
	be := &mockBackend{}
	be.On("Respond", mock.Anything, mock.Anything).Return(nil, nil)
	svc := NewRespondService(be, nil)

	_, err := svc.Respond(context.Background(), "1", "hi")

	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"network", ErrNetwork, true},
		{"wrapped_network", fmt.Errorf("%w: POST /fetch: refused", ErrNetwork), true},
		{"server_500", &backend.StatusError{StatusCode: 503}, true},
		{"rate_limited", &backend.StatusError{StatusCode: 429}, true},
		{"bad_request", &backend.StatusError{StatusCode: 400}, false},
		{"malformed", ErrMalformedResponse, false},
		{"abort", ErrUserAbort, false},
		{"other", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableError(tt.err))
		})
	}
}
