// Package theme holds the console palette and line styles.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Speaker labels
var (
	AgentLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	SystemLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	UserPrompt = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	Complete = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Pending = lipgloss.NewStyle().
		Foreground(TextDim)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)
