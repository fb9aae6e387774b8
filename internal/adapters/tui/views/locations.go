package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"rozadaar/internal/adapters/tui/styles"
	"rozadaar/internal/domain"
)

// LocationsKeyMap defines key bindings for the location picker
type LocationsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select  key.Binding
	Request key.Binding
	Cancel  key.Binding
}

var LocationsKeys = LocationsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+j"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Request: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "request a location"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const locationsChrome = 10

// LocationsModel filters and picks the selected location
type LocationsModel struct {
	ViewState
	lang      Localizer
	all       []domain.Location
	filtered  []domain.Location
	selected  string
	input     textinput.Model
	paginator *Paginator
}

// NewLocationsModel creates a new location picker
func NewLocationsModel() *LocationsModel {
	input := textinput.New()
	input.Placeholder = "filter by name or id"
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorStatic)
	return &LocationsModel{input: input, paginator: NewPaginator(10)}
}

// Init focuses the filter input
func (m *LocationsModel) Init() tea.Cmd {
	return m.input.Focus()
}

// SetSize updates the dimensions and the number of visible rows
func (m *LocationsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(height - locationsChrome)
}

// SetLanguage switches between English and Urdu rendering
func (m *LocationsModel) SetLanguage(urdu bool) {
	m.lang = Localizer{Urdu: urdu}
}

// SetLocations replaces the list and resets the filter
func (m *LocationsModel) SetLocations(locations []domain.Location, selectedID string) {
	m.all = locations
	m.selected = selectedID
	m.input.SetValue("")
	m.applyFilter()
	m.paginator.SetCursor(0)
	for i, l := range m.filtered {
		if l.ID == selectedID {
			m.paginator.SetCursor(i)
		}
	}
}

// Filtered returns the locations matching the current filter
func (m *LocationsModel) Filtered() []domain.Location {
	return m.filtered
}

func (m *LocationsModel) applyFilter() {
	m.filtered = domain.SearchLocations(m.all, m.input.Value())
	m.paginator.SetTotal(len(m.filtered))
}

// Update handles messages for the location picker
func (m *LocationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, LocationsKeys.Cancel):
			m.input.Blur()
			return m, send(SwitchToCountdownMsg{})
		case key.Matches(keyMsg, LocationsKeys.Request):
			return m, send(OpenLinkMsg{URL: domain.RequestLocationURL()})
		case key.Matches(keyMsg, LocationsKeys.Up):
			m.paginator.CursorUp()
			return m, nil
		case key.Matches(keyMsg, LocationsKeys.Down):
			m.paginator.CursorDown()
			return m, nil
		case key.Matches(keyMsg, LocationsKeys.Select):
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.input.Blur()
			return m, send(LocationSelectedMsg{ID: m.filtered[m.paginator.Cursor()].ID})
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.paginator.SetCursor(0)
		m.applyFilter()
	}
	return m, cmd
}

// View renders the location picker
func (m *LocationsModel) View() string {
	v := NewViewBuilder().Title("Select Location")
	v.Line(styles.InputField.Render(m.input.View())).BlankLine()

	if len(m.filtered) == 0 {
		v.Muted("No matching location. Press ctrl+r to ask for yours to be added.")
	}
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		l := m.filtered[i]
		line := fmt.Sprintf("%s  %s", m.lang.Pick(l.NameEn, l.NameUr), styles.MutedText.Render(l.ID))
		if l.ID == m.selected {
			line += styles.Success.Render("  ✓")
		}
		if i == m.paginator.Cursor() {
			line = styles.RowSelected.Render(line)
		}
		v.Line(line)
	}

	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	return v.Help(LocationsKeys.Up, LocationsKeys.Down, LocationsKeys.Select, LocationsKeys.Request, LocationsKeys.Cancel).String()
}
