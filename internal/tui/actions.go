package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ajramos/giztriage/internal/services"
	"github.com/derailed/tview"
)

// switchView makes v active and loads it. Each view keeps its own
// expansion and modal state.
func (a *App) switchView(v ViewKind) {
	a.setCurrentView(v)
	if sidebar, ok := a.views["sidebar"].(*tview.List); ok {
		sidebar.SetCurrentItem(int(v))
	}
	a.renderActive()
	a.SetFocus(a.views["list"])
	a.activate(v)
}

// activate loads a view from cache or backend in the background
func (a *App) activate(v ViewKind) {
	switch v {
	case ViewInbox:
		if a.inbox == nil {
			return
		}
		a.spawn(func() {
			if err := a.inbox.Activate(a.ctx); err != nil {
				a.logf("activate inbox: %v", err)
			}
		})
	case ViewClassify:
		if a.classify == nil {
			return
		}
		a.spawn(func() {
			if err := a.classify.Activate(a.ctx); err != nil {
				a.logf("activate classify: %v", err)
			}
		})
	case ViewSent:
		if a.sent == nil {
			return
		}
		a.spawn(func() {
			if err := a.sent.Activate(a.ctx); err != nil {
				a.logf("activate sent: %v", err)
			}
		})
	}
}

// refresh reloads the active view from the backend
func (a *App) refresh() {
	switch a.GetCurrentView() {
	case ViewInbox:
		if a.inbox == nil {
			return
		}
		a.spawn(func() {
			if err := a.inbox.Refresh(a.ctx); err != nil {
				a.logf("refresh inbox: %v", err)
			}
		})
	case ViewClassify:
		if a.classify == nil {
			return
		}
		a.spawn(func() {
			if err := a.classify.Reload(a.ctx); err != nil {
				a.logf("reload classify: %v", err)
			}
		})
	case ViewSent:
		a.activate(ViewSent)
	}
}

// classifyNew asks the backend to classify new mail. The outcome alert is
// raised by the classify service.
func (a *App) classifyNew() {
	if a.GetCurrentView() != ViewClassify {
		a.GetErrorHandler().ShowInfo(a.ctx, fmt.Sprintf("Press %s to open the classified view first", a.Keys.ClassifyView))
		return
	}
	if a.classify == nil {
		a.GetErrorHandler().ShowError(a.ctx, "Classify service not available")
		return
	}
	a.spawn(func() {
		n, err := a.classify.Classify(a.ctx)
		if err != nil {
			a.logf("classify: %v", err)
			return
		}
		a.logf("classify: %d new", n)
	})
}

// showFullBody opens the full-body modal for the selected inbox email
func (a *App) showFullBody() {
	if a.GetCurrentView() != ViewInbox || a.inbox == nil {
		return
	}
	id := a.selectedID()
	if id == "" {
		a.GetErrorHandler().ShowError(a.ctx, "No email selected")
		return
	}
	e, ok := a.inbox.Find(id)
	if !ok {
		return
	}
	a.controller().OpenModal(a.fullBodyPayload(e))
}

// openCompose asks for a response to the selected classified email,
// prefilled with an AI draft when one is available
func (a *App) openCompose() {
	if a.GetCurrentView() != ViewClassify || a.classify == nil {
		return
	}
	if a.respond == nil {
		a.GetErrorHandler().ShowError(a.ctx, "Respond service not available")
		return
	}
	id := a.selectedID()
	if id == "" {
		a.GetErrorHandler().ShowError(a.ctx, "No email selected")
		return
	}
	e, ok := a.classify.Find(id)
	if !ok {
		return
	}

	title := "Respond"
	if s := strings.TrimSpace(e.Subject); s != "" {
		title = "Re: " + tview.Escape(s)
	}
	payload := ModalPayload{Kind: ModalCompose, EmailID: id, Title: title}
	ctl := a.controller()
	ctl.OpenModal(payload)

	if a.drafts == nil || !a.drafts.Enabled() {
		return
	}
	a.GetErrorHandler().ShowProgress(a.ctx, "Drafting a reply...")
	a.spawn(func() {
		draft, err := a.drafts.Suggest(a.ctx, e)
		a.GetErrorHandler().ClearProgress()
		if err != nil {
			a.GetErrorHandler().ShowLLMError(a.ctx, "draft", err)
			return
		}
		a.queue(func() {
			// only prefill the same, still untouched, compose modal
			current, visible := ctl.Modal().Payload()
			if !visible || current != payload {
				return
			}
			if input, ok := a.views["compose"].(*tview.InputField); ok && strings.TrimSpace(input.GetText()) != "" {
				return
			}
			payload.Body = draft
			ctl.OpenModal(payload)
		})
	})
}

// submitResponse sends draft for emailID. Success replaces the compose
// modal with a confirmation; failure replaces it with a blocking alert.
func (a *App) submitResponse(emailID, draft string) {
	ctl := a.controller()
	if draft == "" {
		ctl.CloseModal()
		a.logf("respond %s: %v", emailID, services.ErrUserAbort)
		return
	}
	ctl.CloseModal()
	a.GetErrorHandler().ShowProgress(a.ctx, "Sending response...")

	a.spawn(func() {
		res, err := a.respond.Respond(a.ctx, emailID, draft)
		a.GetErrorHandler().ClearProgress()
		a.queue(func() {
			switch {
			case errors.Is(err, services.ErrUserAbort):
				return
			case err != nil || !res.Sent():
				a.logf("respond %s: %v", emailID, err)
				ctl.OpenModal(ModalPayload{
					Kind:    ModalSendFailed,
					EmailID: emailID,
					Title:   "Error",
					Body:    services.MsgSendResponseFailed,
				})
			default:
				ctl.OpenModal(sentPayload(res))
			}
		})
	})
}

// openInGmail opens the selected sent reply in Gmail on the web
func (a *App) openInGmail() {
	if a.GetCurrentView() != ViewSent || a.sent == nil {
		return
	}
	if a.gmailWeb == nil {
		a.GetErrorHandler().ShowError(a.ctx, "Gmail web service not available")
		return
	}
	id := a.selectedID()
	threadID := ""
	for _, r := range a.sent.Snapshot() {
		if r.EmailID != id {
			continue
		}
		threadID = r.ThreadID
		if threadID == "" && r.GmailResponse != nil {
			threadID = r.GmailResponse.ThreadId
		}
		break
	}
	if threadID == "" {
		a.GetErrorHandler().ShowError(a.ctx, "No thread to open")
		return
	}
	a.spawn(func() {
		if err := a.gmailWeb.OpenThreadInWeb(a.ctx, threadID); err != nil {
			a.GetErrorHandler().ShowError(a.ctx, fmt.Sprintf("Failed to open in Gmail: %v", err))
			return
		}
		a.GetErrorHandler().ShowSuccess(a.ctx, "Opening reply in Gmail web UI")
	})
}

// toggleHelp shows or hides the key binding list
func (a *App) toggleHelp() {
	ctl := a.controller()
	if p, visible := ctl.Modal().Payload(); visible && p.Kind == ModalHelp {
		ctl.CloseModal()
		return
	}
	ctl.OpenModal(a.helpPayload())
}
