package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorDanger    = lipgloss.Color("#EF4444") // Red
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorBorder    = lipgloss.Color("#374151") // Dark gray
)

var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 2)

	MutedValue    = lipgloss.NewStyle().Foreground(ColorMuted)
	PositiveValue = lipgloss.NewStyle().Foreground(ColorSecondary)
	NegativeValue = lipgloss.NewStyle().Foreground(ColorDanger)

	// Tabs
	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Underline(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	// Action line under the panels; amber while a transaction is pending.
	ActionPendingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWarning).
				Padding(0, 1)

	ErrorStyle       = lipgloss.NewStyle().Foreground(ColorDanger)
	ErrorHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

	// Startup checklist
	StepReadyStyle      = lipgloss.NewStyle().Foreground(ColorSecondary)
	StepConnectingStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	StepFailedStyle     = lipgloss.NewStyle().Foreground(ColorDanger)
)
