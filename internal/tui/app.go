package tui

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/ajramos/giztriage/internal/alert"
	"github.com/ajramos/giztriage/internal/config"
	"github.com/ajramos/giztriage/internal/interaction"
	"github.com/ajramos/giztriage/internal/render"
	"github.com/ajramos/giztriage/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Deps are the services the dashboard drives. Nil services disable the
// matching features.
type Deps struct {
	Inbox    services.InboxService
	Classify services.ClassifyService
	Sent     services.SentService
	Respond  services.RespondService
	Drafts   services.DraftService
	GmailWeb services.GmailWebService
	// Alerter must be the notifier the classify service was built with
	Alerter *alert.Alerter
	Colors  *config.ColorsConfig
	Logger  *log.Logger
}

// App is the triage dashboard
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config
	Keys   config.KeyBindings

	ctx    context.Context
	cancel context.CancelFunc

	inbox    services.InboxService
	classify services.ClassifyService
	sent     services.SentService
	respond  services.RespondService
	drafts   services.DraftService
	gmailWeb services.GmailWebService
	alerter  *alert.Alerter

	emailRenderer *render.EmailRenderer
	colors        *config.ColorsConfig
	errorHandler  *ErrorHandler

	views       map[string]tview.Primitive
	mu          sync.RWMutex
	currentView ViewKind
	controllers map[ViewKind]*interaction.Controller[ModalPayload]
	// ids of the list rows in display order
	rowIDs []string
	// modal page currently mounted, to avoid rebuilding it on every render
	mountedModal *ModalPayload

	screenWidth  int
	screenHeight int

	// queue re-enters the UI goroutine; spawn runs blocking work. Both are
	// swapped for synchronous versions in tests.
	queue func(func())
	spawn func(func())

	logger  *log.Logger
	logFile *os.File
}

// NewApp creates the dashboard
func NewApp(cfg *config.Config, deps Deps) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	colors := deps.Colors
	if colors == nil {
		colors = config.DefaultColors()
	}
	alerter := deps.Alerter
	if alerter == nil {
		alerter = alert.New(cfg.AlertDuration())
	}

	app := &App{
		Application:   tview.NewApplication(),
		Pages:         tview.NewPages(),
		Config:        cfg,
		Keys:          cfg.Keys,
		ctx:           ctx,
		cancel:        cancel,
		inbox:         deps.Inbox,
		classify:      deps.Classify,
		sent:          deps.Sent,
		respond:       deps.Respond,
		drafts:        deps.Drafts,
		gmailWeb:      deps.GmailWeb,
		alerter:       alerter,
		emailRenderer: render.NewEmailRenderer(),
		colors:        colors,
		views:         make(map[string]tview.Primitive),
		currentView:   ParseViewKind(cfg.UI.DefaultView),
		controllers:   make(map[ViewKind]*interaction.Controller[ModalPayload]),
		screenWidth:   80,
		screenHeight:  25,
		logger:        deps.Logger,
	}
	app.queue = func(fn func()) { app.QueueUpdateDraw(fn) }
	app.spawn = func(fn func()) { go fn() }

	if app.logger == nil {
		app.initLogger()
	}
	app.emailRenderer.UpdateFromConfig(colors)

	for _, v := range AllViews {
		ctl := interaction.NewController[ModalPayload]()
		ctl.SetOnChange(app.renderActive)
		app.controllers[v] = ctl
	}

	app.initComponents()
	app.initViews()
	app.initErrorHandler()
	app.bindKeys()
	app.wireServices()

	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		w, h := screen.Size()
		if w != app.screenWidth || h != app.screenHeight {
			app.screenWidth, app.screenHeight = w, h
			app.renderList()
		}
		return false
	})

	return app
}

// wireServices routes service and alert changes back to the UI goroutine
func (a *App) wireServices() {
	redraw := func() { a.queue(a.renderActive) }
	if a.inbox != nil {
		a.inbox.SetOnChange(redraw)
	}
	if a.classify != nil {
		a.classify.SetOnChange(redraw)
	}
	if a.sent != nil {
		a.sent.SetOnChange(redraw)
	}
	a.alerter.OnChange(func(text string, visible bool) {
		a.queue(func() { a.renderAlert(text, visible) })
	})
}

// initErrorHandler initializes the centralized error handler
func (a *App) initErrorHandler() {
	var statusView *tview.TextView
	if tv, ok := a.views["status"].(*tview.TextView); ok {
		statusView = tv
	}
	a.errorHandler = NewErrorHandler(statusView, a.alerter, a.colors, a.logger)
	a.errorHandler.baseline = a.statusBaseline
	a.errorHandler.queue = func(fn func()) { a.queue(fn) }
}

// GetErrorHandler returns the error handler
func (a *App) GetErrorHandler() *ErrorHandler {
	return a.errorHandler
}

// GetCurrentView returns the active view thread-safely
func (a *App) GetCurrentView() ViewKind {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentView
}

func (a *App) setCurrentView(v ViewKind) {
	a.mu.Lock()
	a.currentView = v
	a.mu.Unlock()
}

// controller returns the interaction state of the active view
func (a *App) controller() *interaction.Controller[ModalPayload] {
	return a.controllers[a.GetCurrentView()]
}

// Run starts the dashboard
func (a *App) Run() error {
	defer a.closeLogger()
	defer a.alerter.Stop()

	a.SetRoot(a.Pages, true)
	a.EnableMouse(true)
	a.switchView(a.GetCurrentView())

	return a.Application.Run()
}

// Shutdown stops the UI and cancels in-flight requests
func (a *App) Shutdown() {
	a.cancel()
	a.alerter.Stop()
	a.Stop()
}
