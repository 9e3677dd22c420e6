package services

import (
	"context"
	"testing"

	"github.com/ajramos/giztriage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSentService_SortsBySentAt(t *testing.T) {
	be := &mockBackend{}
	be.On("RespondedEmails", mock.Anything).Return([]models.RespondedEmailRecord{
		{EmailID: "old", SentAt: "2024-01-01T10:00:00"},
		{EmailID: "bad", SentAt: "yesterday"},
		{EmailID: "new", SentAt: "2024-03-01T10:00:00.123456"},
		{EmailID: "mid", SentAt: "2024-02-01T10:00:00Z"},
	}, nil)
	svc := NewSentService(be, nil)

	require.NoError(t, svc.Activate(context.Background()))

	var got []string
	for _, r := range svc.Snapshot() {
		got = append(got, r.EmailID)
	}
	assert.Equal(t, []string{"new", "mid", "old", "bad"}, got)
	assert.Equal(t, Idle(), svc.State())
}

func TestSentService_AlwaysLive(t *testing.T) {
	be := &mockBackend{}
	be.On("RespondedEmails", mock.Anything).Return([]models.RespondedEmailRecord{{EmailID: "1"}}, nil).Twice()
	svc := NewSentService(be, nil)

	require.NoError(t, svc.Activate(context.Background()))
	require.NoError(t, svc.Activate(context.Background()))

	be.AssertNumberOfCalls(t, "RespondedEmails", 2)
}

func TestSentService_Failure(t *testing.T) {
	be := &mockBackend{}
	be.On("RespondedEmails", mock.Anything).Return([]models.RespondedEmailRecord{{EmailID: "1"}}, nil).Once()
	be.On("RespondedEmails", mock.Anything).Return(nil, ErrNetwork).Once()
	svc := NewSentService(be, nil)
	require.NoError(t, svc.Activate(context.Background()))

	err := svc.Activate(context.Background())

	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, ViewState{Phase: PhaseError, Message: MsgFetchSentFailed, Retryable: true}, svc.State())
	assert.Len(t, svc.Snapshot(), 1)
}

func TestViewState(t *testing.T) {
	assert.True(t, Loading().IsLoading())
	assert.True(t, Failed("x").IsError())
	assert.Equal(t, "x", Failed("x").Message)
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "error", PhaseError.String())
	assert.Equal(t, "unknown", ViewPhase(9).String())
}
