package styles

import (
	"github.com/charmbracelet/lipgloss"

	"rozadaar/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#059669") // Emerald
	Secondary = lipgloss.Color("#F59E0B") // Amber
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F97316") // Orange
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Ashra colors
	AshraMercy       = lipgloss.Color("#34D399") // Green
	AshraForgiveness = lipgloss.Color("#60A5FA") // Blue
	AshraSalvation   = lipgloss.Color("#A78BFA") // Violet

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Countdown
	Clock = lipgloss.NewStyle().
		Bold(true).
		Foreground(White).
		Background(Primary).
		Padding(1, 4)

	ClockHighlight = Clock.
			Background(Secondary).
			Foreground(Black)

	ClockLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	Banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(Black).
		Background(Secondary).
		Padding(0, 2)

	// Timetable rows
	RowToday = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	RowSelected = lipgloss.NewStyle().
			Reverse(true)

	RowPast = lipgloss.NewStyle().
		Foreground(Muted)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusOnline = lipgloss.NewStyle().
			Foreground(AshraMercy).
			Bold(true)

	StatusOffline = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// AshraColor returns the color for an Ashra
func AshraColor(a domain.Ashra) lipgloss.Color {
	switch a {
	case domain.AshraMercy:
		return AshraMercy
	case domain.AshraForgiveness:
		return AshraForgiveness
	case domain.AshraSalvation:
		return AshraSalvation
	default:
		return Muted
	}
}
