package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/ajramos/giztriage/internal/alert"
	"github.com/ajramos/giztriage/internal/cache"
	"github.com/ajramos/giztriage/internal/config"
	"github.com/ajramos/giztriage/internal/interaction"
	"github.com/ajramos/giztriage/internal/models"
	"github.com/ajramos/giztriage/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type mockGmailWeb struct {
	mock.Mock
}

func (m *mockGmailWeb) OpenThreadInWeb(ctx context.Context, threadID string) error {
	return m.Called(ctx, threadID).Error(0)
}

func (m *mockGmailWeb) GenerateGmailWebURL(threadID string) string {
	return m.Called(threadID).String(0)
}

type stubDrafts struct {
	draft string
	err   error
}

func (s stubDrafts) Suggest(context.Context, models.ClassifiedEmailRecord) (string, error) {
	return s.draft, s.err
}

func (s stubDrafts) Enabled() bool { return true }

type testApp struct {
	*App
	backend  *mockBackend
	gmailWeb *mockGmailWeb
	alerter  *alert.Alerter
}

// newTestApp builds the dashboard with synchronous queue and spawn
func newTestApp(t *testing.T, drafts services.DraftService) *testApp {
	t.Helper()
	backend := &mockBackend{}
	gmailWeb := &mockGmailWeb{}
	alerter := alert.New(time.Minute)
	logger := log.New(io.Discard, "", 0)

	app := NewApp(config.DefaultConfig(), Deps{
		Inbox:    services.NewInboxService(backend, cache.NewMemoryStore(), logger),
		Classify: services.NewClassifyService(backend, nil, alerter, logger),
		Sent:     services.NewSentService(backend, logger),
		Respond:  services.NewRespondService(backend, logger),
		Drafts:   drafts,
		GmailWeb: gmailWeb,
		Alerter:  alerter,
		Logger:   logger,
	})
	app.queue = func(fn func()) { fn() }
	app.spawn = func(fn func()) { fn() }
	t.Cleanup(func() {
		app.cancel()
		alerter.Stop()
	})
	return &testApp{App: app, backend: backend, gmailWeb: gmailWeb, alerter: alerter}
}

func inboxFixture() []models.EmailRecord {
	return []models.EmailRecord{
		{ID: "e1", From: "Ana <ana@example.com>", Subject: "Lunch", Snippet: "are you free", Date: "1700000000000"},
		{ID: "e2", From: "Bo <bo@example.com>", Subject: "Report", Snippet: "numbers attached", Date: "1700000100000"},
	}
}

func classifiedFixture() []models.ClassifiedEmailRecord {
	conf := 0.9
	return []models.ClassifiedEmailRecord{
		{EmailRecord: models.EmailRecord{ID: "c1", From: "Cy <cy@example.com>", Subject: "Invoice", Date: "1700000200000"}, Category: "finance", Confidence: &conf},
	}
}

func (ta *testApp) selectRow(t *testing.T, id string) {
	t.Helper()
	for i, rid := range ta.rowIDs {
		if rid == id {
			ta.listView().Select(i, 0)
			return
		}
	}
	t.Fatalf("row %q not listed", id)
}

func (ta *testApp) modal() (ModalPayload, bool) {
	return ta.controller().Modal().Payload()
}

func TestApp_SwitchView_LoadsInbox(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil).Once()

	ta.switchView(ViewInbox)

	assert.Equal(t, []string{"e1", "e2"}, ta.rowIDs)
	assert.Equal(t, " Inbox (2) ", ta.listView().GetTitle())
	ta.backend.AssertExpectations(t)
}

func TestApp_SwitchView_ErrorShownInStatus(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(nil, errors.New("boom"))

	ta.switchView(ViewInbox)

	status := ta.views["status"].(*tview.TextView)
	assert.Contains(t, status.GetText(false), services.MsgFetchInboxFailed)
	assert.NotContains(t, status.GetText(false), "to retry")
	assert.Empty(t, ta.rowIDs)
}

func TestApp_SwitchView_TransientErrorSuggestsRetry(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(nil, fmt.Errorf("%w: POST /fetch: refused", services.ErrNetwork)).Once()
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil).Once()

	ta.switchView(ViewInbox)

	status := ta.views["status"].(*tview.TextView)
	assert.Contains(t, status.GetText(false), services.MsgFetchInboxFailed+" Press R to retry.")

	ta.refresh()

	assert.NotContains(t, status.GetText(false), services.MsgFetchInboxFailed)
	assert.Equal(t, []string{"e1", "e2"}, ta.rowIDs)
}

func TestApp_ToggleRow_OneExpandedAtATime(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil)
	ta.switchView(ViewInbox)
	ctl := ta.controller()

	ta.toggleRow(0)
	assert.True(t, ctl.IsExpanded("e1"))
	assert.Contains(t, ta.detailView().GetText(true), "are you free")

	ta.toggleRow(1)
	assert.False(t, ctl.IsExpanded("e1"))
	assert.True(t, ctl.IsExpanded("e2"))
	assert.Contains(t, ta.detailView().GetText(true), "numbers attached")

	ta.toggleRow(1)
	_, expanded := ctl.Expansion().ID()
	assert.False(t, expanded)

	// out of range rows are ignored
	ta.toggleRow(5)
	_, expanded = ctl.Expansion().ID()
	assert.False(t, expanded)
}

func TestApp_ExpansionIsPerView(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil)
	ta.backend.On("ClassifiedEmails", mock.Anything).Return(classifiedFixture(), nil)

	ta.switchView(ViewInbox)
	ta.toggleRow(0)
	ta.switchView(ViewClassify)

	_, expanded := ta.controller().Expansion().ID()
	assert.False(t, expanded)
	assert.True(t, ta.controllers[ViewInbox].IsExpanded("e1"))
}

func TestApp_FullBodyModal_BlocksRows(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil)
	ta.switchView(ViewInbox)
	ta.toggleRow(0)

	ta.selectRow(t, "e2")
	ta.showFullBody()

	p, visible := ta.modal()
	require.True(t, visible)
	assert.Equal(t, ModalFullBody, p.Kind)
	assert.Equal(t, "e2", p.EmailID)
	assert.True(t, ta.Pages.HasPage(modalPage))

	// a row click while the modal is up only dismisses it
	ta.toggleRow(1)
	_, visible = ta.modal()
	assert.False(t, visible)
	assert.True(t, ta.controller().IsExpanded("e1"))
	assert.False(t, ta.Pages.HasPage(modalPage))
}

func TestApp_ModalIsSingleton(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil)
	ta.switchView(ViewInbox)

	ta.selectRow(t, "e1")
	ta.showFullBody()
	ta.toggleHelp()

	p, visible := ta.modal()
	require.True(t, visible)
	assert.Equal(t, ModalHelp, p.Kind)

	ta.toggleHelp()
	_, visible = ta.modal()
	assert.False(t, visible)
}

func TestApp_ModalBodyClickKeepsModal(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.toggleHelp()
	ctl := ta.controller()

	ctl.Click(interaction.ModalBody())
	_, visible := ta.modal()
	assert.True(t, visible)

	ctl.Click(interaction.Overlay())
	_, visible = ta.modal()
	assert.False(t, visible)
}

func TestOverlay_MouseRouting(t *testing.T) {
	body := tview.NewBox()
	ov := newOverlay(body, 20)
	body.SetRect(10, 10, 20, 5)

	var inside, outside int
	ov.onInside = func() { inside++ }
	ov.onOutside = func() { outside++ }
	handler := ov.MouseHandler()
	noFocus := func(tview.Primitive) {}

	consumed, _ := handler(tview.MouseLeftClick, tcell.NewEventMouse(12, 11, tcell.Button1, tcell.ModNone), noFocus)
	assert.True(t, consumed)
	assert.Equal(t, 1, inside)
	assert.Equal(t, 0, outside)

	consumed, _ = handler(tview.MouseLeftClick, tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone), noFocus)
	assert.True(t, consumed, "clicks outside never reach the list below")
	assert.Equal(t, 1, inside)
	assert.Equal(t, 1, outside)

	consumed, _ = handler(tview.MouseMove, tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone), noFocus)
	assert.True(t, consumed)
	assert.Equal(t, 1, outside)
}

func TestApp_Classify_ShowsAlert(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("ClassifiedEmails", mock.Anything).Return([]models.ClassifiedEmailRecord{}, nil)
	ta.backend.On("Classify", mock.Anything).Return(classifiedFixture(), nil)
	ta.switchView(ViewClassify)

	ta.classifyNew()

	text, visible := ta.alerter.Current()
	assert.True(t, visible)
	assert.Equal(t, "1 Email classified successfully", text)
	assert.Equal(t, "1 Email classified successfully", ta.views["alert"].(*tview.TextView).GetText(true))
	assert.Equal(t, []string{"c1"}, ta.rowIDs)
}

func TestApp_Classify_OutsideViewIsIgnored(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil)
	ta.switchView(ViewInbox)

	ta.classifyNew()

	ta.backend.AssertNotCalled(t, "Classify", mock.Anything)
	text, _ := ta.alerter.Current()
	assert.Contains(t, text, "open the classified view")
}

func classifyReady(t *testing.T, drafts services.DraftService) *testApp {
	t.Helper()
	ta := newTestApp(t, drafts)
	ta.backend.On("ClassifiedEmails", mock.Anything).Return(classifiedFixture(), nil)
	ta.switchView(ViewClassify)
	ta.selectRow(t, "c1")
	return ta
}

func TestApp_Respond_Success(t *testing.T) {
	ta := classifyReady(t, nil)
	req := models.RespondRequest{EmailID: "c1", Draft: "Paid, thanks"}
	ta.backend.On("Respond", mock.Anything, req).Return(&models.RespondResult{
		Status: "sent", EmailID: "c1", To: "cy@example.com", Subject: "Re: Invoice", Draft: "Paid, thanks",
	}, nil)

	ta.openCompose()
	p, visible := ta.modal()
	require.True(t, visible)
	assert.Equal(t, ModalCompose, p.Kind)
	assert.Equal(t, "Re: Invoice", p.Title)

	ta.submitResponse("c1", "Paid, thanks")

	p, visible = ta.modal()
	require.True(t, visible)
	assert.Equal(t, ModalResponseSent, p.Kind)
	assert.Contains(t, p.Body, "cy@example.com")
	ta.backend.AssertExpectations(t)
}

func TestApp_Respond_Failure(t *testing.T) {
	tests := []struct {
		name   string
		result *models.RespondResult
		err    error
	}{
		{name: "backend error", err: errors.New("502")},
		{name: "unexpected status", result: &models.RespondResult{Status: "queued", EmailID: "c1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := classifyReady(t, nil)
			ta.backend.On("Respond", mock.Anything, mock.Anything).Return(tt.result, tt.err)

			ta.openCompose()
			ta.submitResponse("c1", "hello")

			p, visible := ta.modal()
			require.True(t, visible)
			assert.Equal(t, ModalSendFailed, p.Kind)
			assert.Equal(t, "Error", p.Title)
			assert.Equal(t, services.MsgSendResponseFailed, p.Body)
		})
	}
}

func TestApp_Respond_EmptyDraftSendsNothing(t *testing.T) {
	ta := classifyReady(t, nil)

	ta.openCompose()
	ta.submitResponse("c1", "")

	_, visible := ta.modal()
	assert.False(t, visible)
	ta.backend.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestApp_Respond_WhitespaceDraftIsSent(t *testing.T) {
	ta := classifyReady(t, nil)
	ta.backend.On("Respond", mock.Anything, models.RespondRequest{EmailID: "c1", Draft: "  "}).
		Return(&models.RespondResult{Status: "sent", EmailID: "c1"}, nil)

	ta.openCompose()
	ta.submitResponse("c1", "  ")

	p, visible := ta.modal()
	require.True(t, visible)
	assert.Equal(t, ModalResponseSent, p.Kind)
	ta.backend.AssertExpectations(t)
}

func TestApp_Compose_PrefillsDraft(t *testing.T) {
	ta := classifyReady(t, stubDrafts{draft: "Thanks, paying today"})

	ta.openCompose()

	p, visible := ta.modal()
	require.True(t, visible)
	assert.Equal(t, ModalCompose, p.Kind)
	assert.Equal(t, "Thanks, paying today", p.Body)
	input := ta.views["compose"].(*tview.InputField)
	assert.Equal(t, "Thanks, paying today", input.GetText())
}

func TestApp_Compose_DraftErrorKeepsEmptyForm(t *testing.T) {
	ta := classifyReady(t, stubDrafts{err: errors.New("model offline")})

	ta.openCompose()

	p, visible := ta.modal()
	require.True(t, visible)
	assert.Empty(t, p.Body)
	text, _ := ta.alerter.Current()
	assert.Equal(t, "❌ AI draft failed", text)
}

func TestApp_OpenInGmail(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("RespondedEmails", mock.Anything).Return([]models.RespondedEmailRecord{
		{EmailID: "s1", To: "cy@example.com", Status: "sent", GmailResponse: &models.GmailResponse{Id: "m1", ThreadId: "t1"}},
	}, nil)
	ta.gmailWeb.On("OpenThreadInWeb", mock.Anything, "t1").Return(nil).Once()
	ta.switchView(ViewSent)
	ta.selectRow(t, "s1")

	ta.openInGmail()

	ta.gmailWeb.AssertExpectations(t)
	text, _ := ta.alerter.Current()
	assert.Contains(t, text, "Opening reply")
}

func TestApp_ConfigurableKeys(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil)
	ta.backend.On("ClassifiedEmails", mock.Anything).Return(classifiedFixture(), nil)
	ta.backend.On("RespondedEmails", mock.Anything).Return([]models.RespondedEmailRecord{}, nil)

	key := func(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

	assert.True(t, ta.handleConfigurableKey(key('2')))
	assert.Equal(t, ViewClassify, ta.GetCurrentView())
	assert.True(t, ta.handleConfigurableKey(key('3')))
	assert.Equal(t, ViewSent, ta.GetCurrentView())
	assert.True(t, ta.handleConfigurableKey(key('1')))
	assert.Equal(t, ViewInbox, ta.GetCurrentView())

	assert.True(t, ta.handleConfigurableKey(key('?')))
	p, visible := ta.modal()
	assert.True(t, visible)
	assert.Equal(t, ModalHelp, p.Kind)

	assert.False(t, ta.handleConfigurableKey(key('z')))
	assert.False(t, ta.handleConfigurableKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
}

func TestApp_Refresh_ReloadsActiveView(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.backend.On("FetchInbox", mock.Anything).Return(inboxFixture(), nil).Twice()
	ta.switchView(ViewInbox)

	ta.refresh()

	ta.backend.AssertNumberOfCalls(t, "FetchInbox", 2)
}
