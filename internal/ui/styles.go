package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#5B5BD6")
	danger  = lipgloss.Color("#E5484D")
	warning = lipgloss.Color("#F5A524")
	muted   = lipgloss.Color("#8B8D98")

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	chipStyle     = lipgloss.NewStyle().Padding(0, 1)
	chipActive    = chipStyle.Reverse(true).Foreground(accent)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	overdueStyle  = lipgloss.NewStyle().Foreground(danger)
	soonStyle     = lipgloss.NewStyle().Foreground(warning)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(accent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	calTodayStyle    = lipgloss.NewStyle().Underline(true).Bold(true)
	calSelectedStyle = lipgloss.NewStyle().Reverse(true).Foreground(accent)
	calCursorStyle   = lipgloss.NewStyle().Reverse(true)
	calMarkStyle     = lipgloss.NewStyle().Foreground(accent)
)
