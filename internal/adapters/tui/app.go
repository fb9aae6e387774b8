package tui

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"rozadaar/internal/adapters/tui/views"
	"rozadaar/internal/application"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewCountdown ViewState = iota
	ViewCalendar
	ViewLocations
	ViewHelp
)

const (
	// eventBuffer bounds the ticks and alerts waiting for the UI
	eventBuffer = 64

	// AlertBanner is how long an alert stays on screen
	AlertBanner = 30 * time.Second
)

// Controller is the part of the scheduler the UI drives
type Controller interface {
	Online() bool
	Resume()
	SyncNow()
}

// Deps are the services the UI reads and drives. Scheduler, Reconciler,
// Editor and Links may be nil.
type Deps struct {
	Catalog    *application.Catalog
	Clock      ports.Clock
	Loc        *time.Location
	Scheduler  Controller
	Reconciler *reconcile.Reconciler
	Editor     ports.EditorOpener
	Links      ports.LinkOpener
	Secret     string
	Log        logger.Logger
}

// App is the main TUI application model
type App struct {
	deps   Deps
	events chan tea.Msg
	copy   func(string) error

	state     ViewState
	countdown *views.CountdownModel
	calendar  *views.CalendarModel
	locations *views.LocationsModel
	help      *views.HelpModel
	last      domain.Countdown
	hasLast   bool

	width  int
	height int
}

type tickMsg struct{ countdown domain.Countdown }

type alertMsg struct{ event domain.AlertEvent }

type linkOpenedMsg struct{ err error }

type editFinishedMsg struct {
	result *commands.EditResult
	err    error
}

// NewApp creates a new TUI application
func NewApp(deps Deps) *App {
	if deps.Log == nil {
		deps.Log = logger.NewNopLogger()
	}
	a := &App{
		deps:      deps,
		events:    make(chan tea.Msg, eventBuffer),
		copy:      clipboard.WriteAll,
		state:     ViewCountdown,
		countdown: views.NewCountdownModel(),
		calendar:  views.NewCalendarModel(),
		locations: views.NewLocationsModel(),
		help:      views.NewHelpModel(),
	}
	a.refresh()
	return a
}

// Attach sets the scheduler the UI drives. The scheduler is built after
// the app because its engine dispatches to the app's banner.
func (a *App) Attach(ctrl Controller) {
	a.deps.Scheduler = ctrl
}

// OnTick feeds a countdown from the scheduler. It never blocks; ticks are
// dropped while the UI is behind.
func (a *App) OnTick(c domain.Countdown) {
	a.post(tickMsg{countdown: c})
}

// Dispatcher returns an alert sink that shows alerts as a banner
func (a *App) Dispatcher() ports.AlertDispatcher {
	return ports.DispatcherFunc(func(_ context.Context, ev domain.AlertEvent) error {
		a.post(alertMsg{event: ev})
		return nil
	})
}

func (a *App) post(msg tea.Msg) {
	select {
	case a.events <- msg:
	default:
	}
}

// listen waits for the next tick or alert
func (a *App) listen() tea.Cmd {
	return func() tea.Msg {
		return <-a.events
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.listen(), a.countdown.Init())
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.countdown.SetSize(msg.Width, msg.Height)
		a.calendar.SetSize(msg.Width, msg.Height)
		a.locations.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.FocusMsg:
		if a.deps.Scheduler != nil {
			a.deps.Scheduler.Resume()
		}
		return a, nil

	case tickMsg:
		a.last, a.hasLast = msg.countdown, true
		a.refresh()
		return a, a.listen()

	case alertMsg:
		a.countdown.ShowAlert(msg.event, msg.event.FiredAt.Add(AlertBanner))
		return a, a.listen()

	// View switching messages
	case views.SwitchToCountdownMsg:
		a.state = ViewCountdown
		return a, nil

	case views.SwitchToCalendarMsg:
		a.state = ViewCalendar
		a.calendar.JumpToToday()
		return a, nil

	case views.SwitchToLocationsMsg:
		a.state = ViewLocations
		a.locations.SetLocations(a.deps.Catalog.Locations(), a.deps.Catalog.Settings().SelectedLocationID)
		return a, a.locations.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	// Actions
	case views.LocationSelectedMsg:
		a.state = ViewCountdown
		a.applySetting("location", msg.ID, "Location changed")
		return a, nil

	case views.ToggleNotificationsMsg:
		enabled := !a.deps.Catalog.Settings().NotificationsEnabled
		label := "Alerts off"
		if enabled {
			label = "Alerts on"
		}
		a.applySetting("notifications", strconv.FormatBool(enabled), label)
		return a, nil

	case views.ToggleLanguageMsg:
		lang := "ur"
		if a.deps.Catalog.Settings().Language == "ur" {
			lang = "en"
		}
		a.applySetting("language", lang, "")
		return a, nil

	case views.SyncRequestMsg:
		if a.deps.Scheduler == nil {
			a.countdown.SetMessage("Sync is not configured", true)
			return a, nil
		}
		a.deps.Scheduler.SyncNow()
		a.countdown.SetMessage("Sync requested", false)
		return a, nil

	case views.CopyRequestMsg:
		if err := a.copy(msg.Text); err != nil {
			a.countdown.SetMessage("Copy failed: "+err.Error(), true)
		} else {
			a.countdown.SetMessage("Copied to clipboard", false)
		}
		return a, nil

	case views.OpenLinkMsg:
		a.state = ViewCountdown
		return a, a.openLink(msg.URL)

	case linkOpenedMsg:
		if msg.err != nil {
			a.countdown.SetMessage(msg.err.Error(), true)
		} else {
			a.countdown.SetMessage("Opened in browser", false)
		}
		return a, nil

	case views.EditRequestMsg:
		return a, a.editLocation(msg.LocationID)

	case editFinishedMsg:
		if msg.err != nil {
			a.countdown.SetMessage("Edit failed: "+msg.err.Error(), true)
		} else if msg.result != nil {
			a.countdown.SetMessage(msg.result.Message, false)
		}
		a.refresh()
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewCountdown:
		_, cmd = a.countdown.Update(msg)
	case ViewCalendar:
		_, cmd = a.calendar.Update(msg)
	case ViewLocations:
		_, cmd = a.locations.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// refresh rebuilds the view data from the catalog and the last tick
func (a *App) refresh() {
	ctx := context.Background()
	settings := a.deps.Catalog.Settings()
	urdu := settings.Language == "ur"
	a.countdown.SetLanguage(urdu)
	a.calendar.SetLanguage(urdu)
	a.locations.SetLanguage(urdu)

	today, err := commands.NewTodayCommand(a.deps.Catalog, a.deps.Clock, a.deps.Loc, "").Execute(ctx)
	if err != nil {
		a.deps.Log.Warning("refreshing countdown: %v", err)
		return
	}
	if a.hasLast && a.last.Scope == today.Location.ID {
		today.Countdown = a.last
	}
	a.countdown.SetToday(today)

	status := views.Status{
		Online:        a.deps.Scheduler == nil || a.deps.Scheduler.Online(),
		Verified:      today.Verified,
		Notifications: settings.NotificationsEnabled,
	}
	if ts, err := time.Parse(time.RFC3339, settings.LastSyncTime); err == nil {
		status.LastSync = ts.In(a.deps.Loc).Format("Jan 2 15:04")
	}
	a.countdown.SetStatus(status)

	location, rows, err := commands.NewTimingsCommand(a.deps.Catalog, a.deps.Clock, a.deps.Loc, "").Execute(ctx)
	if err == nil {
		a.calendar.SetTimings(location, rows)
	}
}

func (a *App) applySetting(name, value, message string) {
	if _, err := commands.NewSetSettingCommand(a.deps.Catalog, name, value).Execute(context.Background()); err != nil {
		a.countdown.SetMessage(err.Error(), true)
		return
	}
	if message != "" {
		a.countdown.SetMessage(message, false)
	} else {
		a.countdown.ClearMessage()
	}
	a.refresh()
}

func (a *App) openLink(url string) tea.Cmd {
	if a.deps.Links == nil {
		a.countdown.SetMessage("Opening links is not available: "+url, true)
		return nil
	}
	links := a.deps.Links
	return func() tea.Msg {
		return linkOpenedMsg{err: links.Open(url)}
	}
}

// editProcess runs an edit session while bubbletea has released the terminal
type editProcess struct {
	cmd    *commands.EditLocationCommand
	result *commands.EditResult
}

func (p *editProcess) Run() error {
	var err error
	p.result, err = p.cmd.Execute(context.Background())
	return err
}

func (p *editProcess) SetStdin(io.Reader)  {}
func (p *editProcess) SetStdout(io.Writer) {}
func (p *editProcess) SetStderr(io.Writer) {}

func (a *App) editLocation(locationID string) tea.Cmd {
	if a.deps.Editor == nil || a.deps.Reconciler == nil {
		a.countdown.SetMessage("Editing is not available", true)
		return nil
	}

	proc := &editProcess{
		cmd: commands.NewEditLocationCommand(a.deps.Reconciler, a.deps.Catalog, a.deps.Editor, locationID, a.deps.Secret),
	}
	return tea.Exec(proc, func(err error) tea.Msg {
		return editFinishedMsg{result: proc.result, err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCalendar:
		return a.calendar.View()
	case ViewLocations:
		return a.locations.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.countdown.View()
	}
}
