package ui

import "github.com/charmbracelet/lipgloss"

// Color palette: plain text for content, one accent for paths and refs,
// muted gray for hints. Status is conveyed by symbols, not colors.

var (
	// Accent style for folder paths, refs, and importer names.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))

	// Muted style for hints and secondary info.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis and headers.
	Bold = lipgloss.NewStyle().Bold(true)
)
