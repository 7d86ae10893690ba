// Package tui is the interactive front end of the CV intake flow: a
// form for verifying and correcting extracted data before submission.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the intake form.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Badge   lipgloss.Style
	Help    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Busy    lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Badge:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57")).Padding(0, 1).MarginRight(1),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Busy:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}
