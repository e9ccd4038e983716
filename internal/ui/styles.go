package ui

import (
	"charm.land/lipgloss/v2"
)

// Styles groups the lipgloss styles used by the explorer view. A zero NoColor
// produces the default ANSI palette; NoColor strips all styling for plain
// terminals and test snapshots.
type Styles struct {
	Prompt        lipgloss.Style
	FilterOK      lipgloss.Style
	FilterErr     lipgloss.Style
	ErrorLine     lipgloss.Style
	GuideLine     lipgloss.Style
	Suggestion    lipgloss.Style
	SuggestionSel lipgloss.Style
	Detail        lipgloss.Style
	Stale         lipgloss.Style
	StatusBar     lipgloss.Style
}

// DefaultStyles returns the explorer's standard color scheme.
func DefaultStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			Prompt:        plain,
			FilterOK:      plain,
			FilterErr:     plain,
			ErrorLine:     plain,
			GuideLine:     plain,
			Suggestion:    plain,
			SuggestionSel: lipgloss.NewStyle().Reverse(true),
			Detail:        plain,
			Stale:         plain,
			StatusBar:     plain,
		}
	}
	return Styles{
		Prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		FilterOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		FilterErr:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		ErrorLine:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		GuideLine:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Suggestion:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		SuggestionSel: lipgloss.NewStyle().Reverse(true).Bold(true),
		Detail:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Stale:         lipgloss.NewStyle().Faint(true),
		StatusBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
