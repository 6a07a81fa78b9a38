// Package ui implements the terminal surfaces: the vault image browser
// and the settings form.
package ui

import "charm.land/lipgloss/v2"

// Color palette. A single fixed theme; the tool has no theme setting.
var (
	ColorPrimary     = lipgloss.Color("#7C3AED")
	ColorSecondary   = lipgloss.Color("#06B6D4")
	ColorText        = lipgloss.Color("#E5E7EB")
	ColorTextMuted   = lipgloss.Color("#6B7280")
	ColorTextInverse = lipgloss.Color("#111827")
	ColorSuccess     = lipgloss.Color("#22C55E")
	ColorError       = lipgloss.Color("#EF4444")
	ColorWarning     = lipgloss.Color("#F59E0B")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextInverse).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	HeaderPathStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Padding(0, 1)

	StatusErrStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)
)
