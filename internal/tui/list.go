package tui

import (
	"fmt"

	"github.com/ajramos/giztriage/internal/interaction"
	"github.com/ajramos/giztriage/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	expandedMarker  = "▾ "
	collapsedMarker = "▸ "
)

// listRow is one rendered line of the active view
type listRow struct {
	id    string
	text  string
	color tcell.Color
}

// renderActive redraws everything that depends on the active view. It must
// run on the UI goroutine.
func (a *App) renderActive() {
	a.renderList()
	a.renderDetail()
	a.renderStatus()
	a.renderModal()
}

// rows returns the active view's records in display order
func (a *App) rows() []listRow {
	width := a.listWidth()
	fg := a.colors.Table.FgColor.Color()
	var rows []listRow

	switch a.GetCurrentView() {
	case ViewInbox:
		if a.inbox == nil {
			return nil
		}
		for _, e := range a.inbox.Snapshot() {
			rows = append(rows, listRow{id: e.ID, text: a.emailRenderer.FormatInboxRow(e, width), color: fg})
		}
	case ViewClassify:
		if a.classify == nil {
			return nil
		}
		for _, e := range a.classify.Snapshot() {
			rows = append(rows, listRow{
				id:    e.ID,
				text:  a.emailRenderer.FormatClassifiedRow(e, width),
				color: a.emailRenderer.CategoryColor(e.Category),
			})
		}
	case ViewSent:
		if a.sent == nil {
			return nil
		}
		for _, r := range a.sent.Snapshot() {
			rows = append(rows, listRow{id: r.EmailID, text: a.emailRenderer.FormatSentRow(r, width), color: fg})
		}
	}
	return rows
}

func (a *App) listWidth() int {
	// sidebar, borders and marker
	return a.screenWidth - 18 - 2 - 2
}

// renderList fills the table keeping the selected id selected
func (a *App) renderList() {
	table := a.listView()
	if table == nil {
		return
	}
	selectedID := a.selectedID()
	ctl := a.controller()
	rows := a.rows()

	table.Clear()
	ids := make([]string, 0, len(rows))
	selectRow := 0
	for i, r := range rows {
		marker := collapsedMarker
		color := r.color
		if ctl.IsExpanded(r.id) {
			marker = expandedMarker
			color = a.colors.Table.ExpandedColor.Color()
		}
		table.SetCell(i, 0, tview.NewTableCell(tview.Escape(marker+r.text)).
			SetTextColor(color).
			SetExpansion(1).
			SetReference(r.id))
		ids = append(ids, r.id)
		if r.id == selectedID {
			selectRow = i
		}
	}
	a.rowIDs = ids

	table.SetTitle(fmt.Sprintf(" %s (%d) ", a.GetCurrentView().Title(), len(rows)))
	if len(rows) > 0 {
		table.Select(selectRow, 0)
	}
}

// selectedID returns the id of the selected row, if any
func (a *App) selectedID() string {
	table := a.listView()
	if table == nil {
		return ""
	}
	row, _ := table.GetSelection()
	if row < 0 || row >= len(a.rowIDs) {
		return ""
	}
	return a.rowIDs[row]
}

// toggleRow routes a row activation through the interaction controller
func (a *App) toggleRow(row int) {
	if row < 0 || row >= len(a.rowIDs) {
		return
	}
	a.controller().Click(interaction.Item(a.rowIDs[row]))
}

// renderDetail shows the expanded item, or a hint when nothing is expanded
func (a *App) renderDetail() {
	detail := a.detailView()
	if detail == nil {
		return
	}
	id, ok := a.controller().Expansion().ID()
	if !ok {
		detail.SetText("[::d]Press Enter on an email to expand it[::-]")
		return
	}

	text := ""
	switch a.GetCurrentView() {
	case ViewInbox:
		if e, found := a.inbox.Find(id); found {
			text = a.emailRenderer.FormatInboxDetail(e) + fmt.Sprintf("\n\n[::d]%s for the full body[::-]", a.Keys.ViewBody)
		}
	case ViewClassify:
		if e, found := a.classify.Find(id); found {
			text = a.emailRenderer.FormatClassifiedDetail(e) + fmt.Sprintf("\n\n[::d]%s to respond[::-]", a.Keys.Respond)
		}
	case ViewSent:
		for _, r := range a.sent.Snapshot() {
			if r.EmailID == id {
				text = a.emailRenderer.FormatSentDetail(r) + fmt.Sprintf("\n\n[::d]%s to open in Gmail[::-]", a.Keys.OpenGmail)
				break
			}
		}
	}
	detail.SetText(text)
	detail.ScrollToBeginning()
}

// viewState returns the active view's loading state
func (a *App) viewState() services.ViewState {
	switch a.GetCurrentView() {
	case ViewInbox:
		if a.inbox != nil {
			return a.inbox.State()
		}
	case ViewClassify:
		if a.classify != nil {
			return a.classify.State()
		}
	case ViewSent:
		if a.sent != nil {
			return a.sent.State()
		}
	}
	return services.Idle()
}
