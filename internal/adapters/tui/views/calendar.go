package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rozadaar/internal/adapters/tui/styles"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/domain"
)

// CalendarKeyMap defines key bindings for the timetable view
type CalendarKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Today    key.Binding
	Back     key.Binding
}

var CalendarKeys = CalendarKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q", "c"),
		key.WithHelp("esc", "back"),
	),
}

// calendarChrome is the number of lines around the table rows
const calendarChrome = 9

// CalendarModel shows a location's full timetable with Ashra colors
type CalendarModel struct {
	ViewState
	lang      Localizer
	location  domain.Location
	rows      []commands.TimingRow
	paginator *Paginator
}

// NewCalendarModel creates a new calendar model
func NewCalendarModel() *CalendarModel {
	return &CalendarModel{paginator: NewPaginator(30)}
}

// Init initializes the calendar view
func (m *CalendarModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the dimensions and the number of visible rows
func (m *CalendarModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(height - calendarChrome)
}

// SetLanguage switches between English and Urdu rendering
func (m *CalendarModel) SetLanguage(urdu bool) {
	m.lang = Localizer{Urdu: urdu}
}

// SetTimings replaces the timetable, keeping the cursor on today when
// the location changed
func (m *CalendarModel) SetTimings(location domain.Location, rows []commands.TimingRow) {
	changed := location.ID != m.location.ID
	m.location = location
	m.rows = rows
	m.paginator.SetTotal(len(rows))
	if changed {
		m.JumpToToday()
	}
}

// JumpToToday moves the cursor to today's row, if any
func (m *CalendarModel) JumpToToday() {
	if i := m.todayIndex(); i >= 0 {
		m.paginator.SetCursor(i)
	}
}

func (m *CalendarModel) todayIndex() int {
	for i, r := range m.rows {
		if r.IsToday {
			return i
		}
	}
	return -1
}

// Cursor returns the selected row index
func (m *CalendarModel) Cursor() int {
	return m.paginator.Cursor()
}

// Update handles messages for the calendar view
func (m *CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, CalendarKeys.Back):
		return m, send(SwitchToCountdownMsg{})
	case key.Matches(keyMsg, CalendarKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(keyMsg, CalendarKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(keyMsg, CalendarKeys.PageUp):
		m.paginator.PrevPage()
	case key.Matches(keyMsg, CalendarKeys.PageDown):
		m.paginator.NextPage()
	case key.Matches(keyMsg, CalendarKeys.Today):
		m.JumpToToday()
	}
	return m, nil
}

// View renders the calendar view
func (m *CalendarModel) View() string {
	v := NewViewBuilder().Title("Ramadan Timetable")
	v.Line(styles.InputLabel.Render(m.lang.Pick(m.location.NameEn, m.location.NameUr)))

	if len(m.rows) == 0 {
		return v.BlankLine().Muted("No timetable for this location.").BlankLine().
			Help(CalendarKeys.Back).String()
	}

	v.Muted(fmt.Sprintf("%-4s %-10s %-10s %-9s %-9s", "Roza", "Date", "Day", "Sehri", "Iftar"))

	today := m.todayIndex()
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderRow(m.rows[i], i == m.paginator.Cursor(), i < today))
	}

	v.BlankLine()
	v.Muted(fmt.Sprintf("Page %d/%d  %s", m.paginator.CurrentPage(), m.paginator.TotalPages(),
		RenderAshra(m.rows[m.paginator.Cursor()].Ashra)))
	v.BlankLine()
	return v.Help(CalendarKeys.Up, CalendarKeys.Down, CalendarKeys.Today, CalendarKeys.Back).String()
}

func (m *CalendarModel) renderRow(row commands.TimingRow, selected, past bool) string {
	r := row.Record
	line := fmt.Sprintf("%-4s %-10s %-10s %-9s %-9s",
		m.lang.Digits(fmt.Sprint(r.HijriDate)),
		r.Date,
		m.lang.Pick(r.DayEn, r.DayUr),
		m.lang.Digits(domain.FormatTo12h(r.Sehri)),
		m.lang.Digits(domain.FormatTo12h(r.Iftar)),
	)

	marker := lipgloss.NewStyle().Foreground(styles.AshraColor(row.Ashra)).Render("▌")
	switch {
	case row.IsToday && selected:
		line = styles.RowToday.Reverse(true).Render(line)
	case row.IsToday:
		line = styles.RowToday.Render(line)
	case selected:
		line = styles.RowSelected.Render(line)
	case past:
		line = styles.RowPast.Render(line)
	}
	return marker + " " + line
}
