package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel renders a rounded-border box with the title embedded in the top
// border. width is the total outer width; the border turns green once the
// board inside has flashed and red when it errored.
func Panel(title, content string, width int, border lipgloss.Color) string {
	colorStyle := lipgloss.NewStyle().Foreground(border)

	// ╭─ TITLE ─...─╮  total = width
	dashCount := width - len(title) - 5
	if dashCount < 0 {
		dashCount = 0
	}
	topBorder := colorStyle.Render("╭─ ") + title + colorStyle.Render(" "+strings.Repeat("─", dashCount)+"╮")

	innerWidth := width - 4
	if innerWidth < 0 {
		innerWidth = 0
	}

	body := lipgloss.NewStyle().
		Width(innerWidth).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderLeft(true).
		BorderRight(true).
		BorderBottom(true).
		BorderTop(false).
		BorderForeground(border).
		PaddingLeft(1).
		PaddingRight(1).
		Render(content)

	return topBorder + "\n" + body
}

// Title renders the dashboard header.
func Title(text string) string {
	return TitleStyle.Render(text)
}

// StatusKey renders a key hint for the status bar.
func StatusKey(k, desc string) string {
	return StatusBarKeyStyle.Render(k) + StatusBarStyle.Render(":"+desc)
}

// Badge renders a small colored badge.
func Badge(text string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(color).
		Padding(0, 1).
		Render(text)
}
