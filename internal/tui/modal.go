package tui

import (
	"fmt"
	"strings"

	"github.com/ajramos/giztriage/internal/interaction"
	"github.com/ajramos/giztriage/internal/models"
	"github.com/ajramos/giztriage/internal/render"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const modalPage = "modal"

// ModalKind selects what the singleton modal shows
type ModalKind int

const (
	// ModalFullBody shows an inbox email's full body
	ModalFullBody ModalKind = iota
	// ModalCompose asks for a response draft
	ModalCompose
	// ModalResponseSent confirms a sent response
	ModalResponseSent
	// ModalSendFailed blocks until the failure is acknowledged
	ModalSendFailed
	// ModalHelp lists the key bindings
	ModalHelp
)

// ModalPayload is what the modal shows
type ModalPayload struct {
	Kind    ModalKind
	EmailID string
	Title   string
	Body    string
}

// overlay is a full-screen page centering body. Clicks outside body go to
// onOutside; clicks inside stay inside.
type overlay struct {
	*tview.Flex
	body      tview.Primitive
	onOutside func()
	onInside  func()
}

func newOverlay(body tview.Primitive, width int) *overlay {
	row := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(nil, 0, 1, false).
		AddItem(body, width, 0, true).
		AddItem(nil, 0, 1, false)
	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(row, 0, 3, true).
		AddItem(nil, 0, 1, false)
	return &overlay{Flex: flex, body: body}
}

// MouseHandler consumes every mouse event so nothing reaches the list below
func (o *overlay) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		x, y := event.Position()
		if contains(o.body, x, y) {
			if action == tview.MouseLeftClick && o.onInside != nil {
				o.onInside()
			}
			if h := o.body.MouseHandler(); h != nil {
				_, capture := h(action, event, setFocus)
				return true, capture
			}
			return true, nil
		}
		if action == tview.MouseLeftClick && o.onOutside != nil {
			o.onOutside()
		}
		return true, nil
	}
}

func contains(p tview.Primitive, x, y int) bool {
	rx, ry, w, h := p.GetRect()
	return x >= rx && x < rx+w && y >= ry && y < ry+h
}

// renderModal mounts or removes the modal page to match the active view's
// controller
func (a *App) renderModal() {
	payload, visible := a.controller().Modal().Payload()
	if !visible {
		if a.mountedModal != nil {
			a.Pages.RemovePage(modalPage)
			a.mountedModal = nil
			a.SetFocus(a.views["list"])
		}
		return
	}
	if a.mountedModal != nil && *a.mountedModal == payload {
		return
	}

	body, focus := a.buildModalBody(payload)
	ov := newOverlay(body, a.modalWidth())
	ctl := a.controller()
	ov.onOutside = func() { ctl.Click(interaction.Overlay()) }
	ov.onInside = func() { ctl.Click(interaction.ModalBody()) }

	a.Pages.RemovePage(modalPage)
	a.Pages.AddPage(modalPage, ov, true, true)
	a.mountedModal = &payload
	a.SetFocus(focus)
}

func (a *App) modalWidth() int {
	w := a.screenWidth - 10
	switch {
	case w > 100:
		return 100
	case w < 40:
		return 40
	}
	return w
}

// buildModalBody returns the modal content and the primitive to focus
func (a *App) buildModalBody(p ModalPayload) (tview.Primitive, tview.Primitive) {
	closeModal := func() { a.controller().Click(interaction.Close()) }

	if p.Kind == ModalCompose {
		return a.buildComposeBody(p)
	}

	text := tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetScrollable(true)
	text.SetBackgroundColor(a.colors.Body.BgColor.Color())
	text.SetBorder(true).
		SetBorderColor(a.colors.Frame.FocusColor.Color()).
		SetTitle(" " + p.Title + " ").
		SetTitleColor(a.modalTitleColor(p.Kind)).
		SetTitleAlign(tview.AlignCenter)
	text.SetText(p.Body + "\n\n[::d]Esc or Enter to close[::-]")
	text.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyEnter:
			closeModal()
			return nil
		}
		return event
	})
	return text, text
}

func (a *App) buildComposeBody(p ModalPayload) (tview.Primitive, tview.Primitive) {
	input := tview.NewInputField().
		SetLabel("Response: ").
		SetFieldBackgroundColor(a.colors.Table.SelectedColor.Color()).
		SetText(p.Body)
	emailID := p.EmailID
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			a.submitResponse(emailID, input.GetText())
		case tcell.KeyEscape:
			a.controller().Click(interaction.Close())
		}
	})
	a.views["compose"] = input

	hint := tview.NewTextView().SetDynamicColors(true).
		SetText("[::d]Enter to send • Esc to cancel[::-]")

	form := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true).
		AddItem(hint, 1, 0, false)
	form.SetBackgroundColor(a.colors.Body.BgColor.Color())
	form.SetBorder(true).
		SetBorderColor(a.colors.Frame.FocusColor.Color()).
		SetTitle(" " + p.Title + " ").
		SetTitleColor(a.colors.Frame.TitleColor.Color()).
		SetTitleAlign(tview.AlignCenter)
	return form, input
}

func (a *App) modalTitleColor(kind ModalKind) tcell.Color {
	switch kind {
	case ModalSendFailed:
		return a.colors.Status.ErrorColor.Color()
	case ModalResponseSent:
		return a.colors.Status.SuccessColor.Color()
	default:
		return a.colors.Frame.TitleColor.Color()
	}
}

// fullBodyPayload builds the inbox full-body modal
func (a *App) fullBodyPayload(e models.EmailRecord) ModalPayload {
	width := a.modalWidth() - 4
	body := render.FormatHeaderPlain(e) + "\n\n" + render.FormatBody(e, render.FormatOptions{WrapWidth: width})
	title := e.Subject
	if strings.TrimSpace(title) == "" {
		title = render.NoSubject
	}
	return ModalPayload{Kind: ModalFullBody, EmailID: e.ID, Title: tview.Escape(title), Body: tview.Escape(body)}
}

// sentPayload builds the confirmation shown after a successful response
func sentPayload(res *models.RespondResult) ModalPayload {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\n", res.To)
	fmt.Fprintf(&b, "Subject: %s\n", res.Subject)
	if id := res.MessageID(); id != "" {
		fmt.Fprintf(&b, "Message ID: %s\n", id)
	}
	fmt.Fprintf(&b, "\n%s", res.Draft)
	return ModalPayload{
		Kind:    ModalResponseSent,
		EmailID: res.EmailID,
		Title:   "Response sent",
		Body:    tview.Escape(b.String()),
	}
}

func (a *App) helpPayload() ModalPayload {
	k := a.Keys
	lines := []string{
		fmt.Sprintf("%-8s Inbox", k.InboxView),
		fmt.Sprintf("%-8s Classified", k.ClassifyView),
		fmt.Sprintf("%-8s Sent", k.SentView),
		fmt.Sprintf("%-8s Expand or collapse the selected email", "Enter"),
		fmt.Sprintf("%-8s Refresh the current view", k.Refresh),
		fmt.Sprintf("%-8s Classify new emails", k.Classify),
		fmt.Sprintf("%-8s Respond to the selected classified email", k.Respond),
		fmt.Sprintf("%-8s Show the full body of the selected inbox email", k.ViewBody),
		fmt.Sprintf("%-8s Open the selected sent reply in Gmail", k.OpenGmail),
		fmt.Sprintf("%-8s Quit", k.Quit),
	}
	return ModalPayload{Kind: ModalHelp, Title: "Help", Body: tview.Escape(strings.Join(lines, "\n"))}
}
