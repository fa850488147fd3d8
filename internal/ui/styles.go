package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary = lipgloss.Color("63")  // Purple/blue
	Success = lipgloss.Color("78")  // Green
	Warning = lipgloss.Color("214") // Orange
	Error   = lipgloss.Color("196") // Red
	Subtle  = lipgloss.Color("241") // Gray
	Surface = lipgloss.Color("236") // Dark gray
	Text    = lipgloss.Color("252") // Light gray
	TextDim = lipgloss.Color("245") // Dimmer text

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Background(Surface).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(Text).
				Background(Surface).
				Bold(true)

	// Header
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	// Elapsed-time readout next to each progress bar
	ElapsedStyle = lipgloss.NewStyle().Foreground(TextDim)

	// Log tail inside a board panel
	LogStyle = lipgloss.NewStyle().Foreground(Text)

	// General
	BoldStyle = lipgloss.NewStyle().Bold(true)
	DimStyle  = lipgloss.NewStyle().Foreground(TextDim)
)
