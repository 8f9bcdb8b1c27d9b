package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for command output.
var (
	headerStyle = lipgloss.NewStyle().Bold(true)

	bootedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	shutdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow

	udidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// stateStyle picks the style matching a device state.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "booted":
		return bootedStyle
	case "booting", "shutting_down":
		return pendingStyle
	default:
		return shutdownStyle
	}
}
