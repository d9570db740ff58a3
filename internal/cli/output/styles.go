package output

import "github.com/charmbracelet/lipgloss"

// Styles bundles the lipgloss styles the renderer applies in text
// mode. Markdown and JSON rendering bypass styles entirely so piped
// output never carries escape codes.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style

	// Path styles file paths in per-file issue listings.
	Path lipgloss.Style

	// RuleID styles rule identifiers such as ST01.
	RuleID lipgloss.Style

	// StatusSuccess and StatusFailed carry their glyph as the style's
	// string; render them with String().
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// defaultStyles is the styled palette for interactive terminals.
func defaultStyles() Styles {
	return Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),

		Path:   lipgloss.NewStyle().Bold(true),
		RuleID: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
	}
}

// plainStyles renders everything unstyled for non-TTY output.
func plainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header1: plain,
		Header2: plain,
		Bold:    plain,
		Muted:   plain,

		Error:   plain,
		Warning: plain,
		Info:    plain,
		Success: plain,

		Path:   plain,
		RuleID: plain,

		StatusSuccess: lipgloss.NewStyle().SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().SetString("✗"),
	}
}
