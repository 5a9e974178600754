// Package ui holds the lipgloss styles shared by the command line output and the TUI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	Footer = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	Selected = lipgloss.NewStyle().
			Background(lipgloss.Color("8")).
			Bold(true)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(0, 1)

	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// sideColors maps a mod side to the ANSI color of its badge.
var sideColors = map[string]string{
	"client": "14", // Cyan
	"server": "13", // Magenta
	"both":   "10", // Green
}

// SideBadge renders side padded to a fixed width so badge columns stay aligned.
func SideBadge(side string) string {
	color, ok := sideColors[side]
	if !ok {
		color = "7"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Width(6).
		Render(side)
}

// Locked marks locked mods in listings.
func Locked(locked bool) string {
	if locked {
		return Warning.Render("locked")
	}
	return ""
}

// Truncate shortens s to maxLen runes, ending it with "..." when cut.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}
