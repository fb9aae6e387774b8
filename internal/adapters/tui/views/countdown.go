package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rozadaar/internal/adapters/tui/styles"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

// CountdownKeyMap defines key bindings for the countdown view
type CountdownKeyMap struct {
	Calendar  key.Binding
	Locations key.Binding
	Sync      key.Binding
	Copy      key.Binding
	Edit      key.Binding
	Notify    key.Binding
	Language  key.Binding
	Support   key.Binding
	Community key.Binding
	Dua       key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var CountdownKeys = CountdownKeyMap{
	Calendar: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "calendar"),
	),
	Locations: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "location"),
	),
	Sync: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sync"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Notify: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "alerts on/off"),
	),
	Language: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "urdu/english"),
	),
	Support: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "whatsapp support"),
	),
	Community: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "community"),
	),
	Dua: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "next dua"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Requests the countdown view hands to the app
type (
	SyncRequestMsg         struct{}
	CopyRequestMsg         struct{ Text string }
	EditRequestMsg         struct{ LocationID string }
	ToggleNotificationsMsg struct{}
	ToggleLanguageMsg      struct{}
	OpenLinkMsg            struct{ URL string }
)

// Status is the connectivity and preference state shown in the status bar
type Status struct {
	Online        bool
	Verified      bool
	Notifications bool
	LastSync      string
}

// CountdownModel is the home view: the live countdown and today's card
type CountdownModel struct {
	ViewState
	lang       Localizer
	today      *commands.TodayResult
	status     Status
	alert      *domain.AlertEvent
	alertUntil time.Time
	dua        int
}

// NewCountdownModel creates a new countdown model
func NewCountdownModel() *CountdownModel {
	return &CountdownModel{}
}

// Init initializes the countdown view
func (m *CountdownModel) Init() tea.Cmd {
	return nil
}

// SetToday replaces the data for the current tick
func (m *CountdownModel) SetToday(r *commands.TodayResult) {
	m.today = r
}

// SetStatus replaces the status bar state
func (m *CountdownModel) SetStatus(s Status) {
	m.status = s
}

// SetLanguage switches between English and Urdu rendering
func (m *CountdownModel) SetLanguage(urdu bool) {
	m.lang = Localizer{Urdu: urdu}
}

// ShowAlert displays the alert banner until the given instant
func (m *CountdownModel) ShowAlert(ev domain.AlertEvent, until time.Time) {
	m.alert = &ev
	m.alertUntil = until
}

// ClipboardText summarizes the countdown for sharing
func (m *CountdownModel) ClipboardText() string {
	if m.today == nil {
		return ""
	}
	c := m.today.Countdown
	name := m.today.Location.NameEn
	if c.Complete() {
		return fmt.Sprintf("%s: %s", name, c.Label)
	}
	return fmt.Sprintf("%s: %s in %s (%s)", name, c.Label, c.Clock(), domain.FormatTo12h(c.Record.Clock(c.Boundary)))
}

// Update handles messages for the countdown view
func (m *CountdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, CountdownKeys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, CountdownKeys.Calendar):
		return m, send(SwitchToCalendarMsg{})
	case key.Matches(keyMsg, CountdownKeys.Locations):
		return m, send(SwitchToLocationsMsg{})
	case key.Matches(keyMsg, CountdownKeys.Help):
		return m, send(SwitchToHelpMsg{})
	case key.Matches(keyMsg, CountdownKeys.Sync):
		return m, send(SyncRequestMsg{})
	case key.Matches(keyMsg, CountdownKeys.Copy):
		return m, send(CopyRequestMsg{Text: m.ClipboardText()})
	case key.Matches(keyMsg, CountdownKeys.Notify):
		return m, send(ToggleNotificationsMsg{})
	case key.Matches(keyMsg, CountdownKeys.Language):
		return m, send(ToggleLanguageMsg{})
	case key.Matches(keyMsg, CountdownKeys.Dua):
		m.dua++
	case key.Matches(keyMsg, CountdownKeys.Support):
		if m.today != nil {
			return m, send(OpenLinkMsg{URL: m.today.Location.SupportURL()})
		}
	case key.Matches(keyMsg, CountdownKeys.Community):
		if m.today != nil {
			return m, send(OpenLinkMsg{URL: m.today.Location.CommunityURL()})
		}
	case key.Matches(keyMsg, CountdownKeys.Edit):
		if m.today != nil {
			return m, send(EditRequestMsg{LocationID: m.today.Location.ID})
		}
	}
	return m, nil
}

// View renders the countdown view
func (m *CountdownModel) View() string {
	v := NewViewBuilder().Title("Rozadaar")
	if m.today == nil {
		return v.Muted("Loading...").String()
	}

	t := m.today
	c := t.Countdown
	v.Line(styles.InputLabel.Render(m.lang.Pick(t.Location.NameEn, t.Location.NameUr)))
	if t.HasRecord {
		r := t.Record
		v.Muted(fmt.Sprintf("%s  %s  Roza %s", m.lang.Pick(r.DayEn, r.DayUr), r.Date, m.lang.Digits(fmt.Sprint(r.HijriDate))))
		v.Line(RenderAshra(t.Ashra))
	}
	v.BlankLine()

	if m.alert != nil && c.Now.Before(m.alertUntil) {
		v.Line(styles.Banner.Render(m.alert.Title + ": " + m.alert.Message)).BlankLine()
	}

	if c.Complete() {
		v.Line(styles.Clock.Render(c.Label))
	} else {
		clock := styles.Clock
		if c.Highlight {
			clock = styles.ClockHighlight
		}
		v.Line(styles.ClockLabel.Render(c.Label + " in"))
		v.Line(clock.Render(m.lang.Digits(c.Clock())))
		v.Muted(fmt.Sprintf("at %s, %s", domain.FormatTo12h(c.Record.Clock(c.Boundary)), c.Record.Date))
	}
	v.BlankLine()

	if t.HasRecord {
		card := lipgloss.JoinHorizontal(lipgloss.Top,
			styles.Card.Render(RenderLabelValue("Sehri", m.lang.Digits(domain.FormatTo12h(t.Record.Sehri)))),
			" ",
			styles.Card.Render(RenderLabelValue("Iftar", m.lang.Digits(domain.FormatTo12h(t.Record.Iftar)))),
		)
		v.Line(card).BlankLine()
	}

	if msg := m.customMessage(); msg != "" {
		v.Subtitle(msg)
	}

	for _, n := range t.Notes {
		prefix := "•"
		if n.Type == domain.NoteTypeGuide {
			prefix = "›"
		}
		v.Line(prefix + " " + m.lang.Text(n.Text))
	}
	if len(t.Notes) > 0 {
		v.BlankLine()
	}

	if d, ok := m.currentDua(); ok {
		v.Line(RenderDua(d, m.lang)).BlankLine()
	}

	v.Message(m.Message, m.MessageErr)
	v.Line(m.statusBar()).BlankLine()
	return v.Help(CountdownKeys.Calendar, CountdownKeys.Locations, CountdownKeys.Sync,
		CountdownKeys.Copy, CountdownKeys.Help, CountdownKeys.Quit).String()
}

func (m *CountdownModel) customMessage() string {
	if m.today.Location.CustomMessage == nil {
		return ""
	}
	return m.lang.Text(*m.today.Location.CustomMessage)
}

// currentDua cycles through the duas of the current countdown
func (m *CountdownModel) currentDua() (domain.Dua, bool) {
	duas := domain.DuasOf(m.today.Countdown)
	if len(duas) == 0 {
		return domain.Dua{}, false
	}
	return duas[m.dua%len(duas)], true
}

func (m *CountdownModel) statusBar() string {
	var parts []string
	if m.status.Online {
		parts = append(parts, styles.StatusOnline.Render("● online"))
	} else {
		parts = append(parts, styles.StatusOffline.Render("● offline"))
	}
	if m.status.Verified {
		parts = append(parts, "time verified")
	} else {
		parts = append(parts, "device time")
	}
	if m.status.Notifications {
		parts = append(parts, "alerts on")
	} else {
		parts = append(parts, "alerts off")
	}
	if m.status.LastSync != "" {
		parts = append(parts, "synced "+m.status.LastSync)
	}
	return styles.StatusBar.Render(strings.Join(parts, "  "))
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
