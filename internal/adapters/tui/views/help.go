package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"rozadaar/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, HelpKeys.Close) {
		return m, send(SwitchToCountdownMsg{})
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Rozadaar Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Sehri and Iftar countdown"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Countdown"))
	b.WriteString("\n")
	for _, k := range []key.Binding{
		CountdownKeys.Calendar, CountdownKeys.Locations, CountdownKeys.Sync, CountdownKeys.Copy,
		CountdownKeys.Edit, CountdownKeys.Notify, CountdownKeys.Language,
		CountdownKeys.Support, CountdownKeys.Community, CountdownKeys.Dua,
	} {
		b.WriteString(helpLine(k.Help().Key, k.Help().Desc))
	}
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Locations"))
	b.WriteString("\n")
	b.WriteString(helpLine("type", "Filter by name or id"))
	b.WriteString(helpLine("ctrl+r", "Ask for a new location on WhatsApp"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Timetable"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("pgup / pgdn", "Page"))
	b.WriteString(helpLine("t", "Jump to today"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Ashra"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Days 1-10  : Mercy"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Days 11-20 : Forgiveness"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Days 21-30 : Salvation"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
