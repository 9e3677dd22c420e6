package tui

import (
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// initComponents initializes the main UI components
func (a *App) initComponents() {
	bg := a.colors.Body.BgColor.Color()
	border := a.colors.Frame.BorderColor.Color()
	title := a.colors.Frame.TitleColor.Color()

	sidebar := tview.NewList().ShowSecondaryText(false)
	sidebar.SetBackgroundColor(bg)
	sidebar.SetBorder(a.Config.UI.ShowBorders).
		SetBorderColor(border).
		SetTitle(" GizTriage ").
		SetTitleColor(a.colors.Body.LogoColor.Color())
	for _, v := range AllViews {
		view := v
		sidebar.AddItem(view.Title(), "", shortcutRune(a.viewKey(view)), func() {
			a.switchView(view)
		})
	}

	// Table supports per-row colors
	list := tview.NewTable().SetSelectable(true, false)
	list.SetBackgroundColor(bg)
	list.SetSelectedStyle(tcell.StyleDefault.
		Background(a.colors.Table.SelectedColor.Color()).
		Foreground(a.colors.Table.FgColor.Color()))
	list.SetBorder(a.Config.UI.ShowBorders).
		SetBorderColor(border).
		SetBorderAttributes(tcell.AttrBold).
		SetTitleColor(title).
		SetTitleAlign(tview.AlignCenter)
	list.SetSelectedFunc(func(row, _ int) {
		a.toggleRow(row)
	})

	detail := tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetScrollable(true)
	detail.SetBackgroundColor(bg)
	detail.SetBorder(a.Config.UI.ShowBorders).
		SetBorderColor(border).
		SetTitle(" Details ").
		SetTitleColor(title).
		SetTitleAlign(tview.AlignCenter)

	alertView := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	alertView.SetBackgroundColor(bg)

	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBackgroundColor(bg)
	status.SetTextColor(a.colors.Status.InfoColor.Color())

	a.views["sidebar"] = sidebar
	a.views["list"] = list
	a.views["detail"] = detail
	a.views["alert"] = alertView
	a.views["status"] = status
}

// initViews mounts the main layout
func (a *App) initViews() {
	background := tview.NewBox().SetBackgroundColor(a.colors.Body.BgColor.Color())
	a.Pages.AddPage("background", background, true, true)
	a.Pages.AddPage("main", a.createMainLayout(), true, true)
}

// createMainLayout creates the main application layout
func (a *App) createMainLayout() tview.Primitive {
	content := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.views["list"], 0, 60, true).
		AddItem(a.views["detail"], 0, 40, false)

	body := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.views["sidebar"], 18, 0, false).
		AddItem(content, 0, 1, true)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.views["alert"], 1, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(a.views["status"], 1, 0, false)
}

func (a *App) listView() *tview.Table {
	t, _ := a.views["list"].(*tview.Table)
	return t
}

func (a *App) detailView() *tview.TextView {
	tv, _ := a.views["detail"].(*tview.TextView)
	return tv
}

// statusBaseline is the status text shown when nothing else is reported
func (a *App) statusBaseline() string {
	return tview.Escape(fmt.Sprintf("%s • [%s] %s [%s] %s [%s] %s • %s help • %s quit",
		a.GetCurrentView().Title(),
		a.Keys.InboxView, ViewInbox.Title(),
		a.Keys.ClassifyView, ViewClassify.Title(),
		a.Keys.SentView, ViewSent.Title(),
		a.Keys.Help, a.Keys.Quit))
}

func shortcutRune(key string) rune {
	r := []rune(key)
	if len(r) != 1 {
		return 0
	}
	return r[0]
}
