// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for all command output, tuned for dark
// terminal backgrounds.
const (
	// ColorPrimary is purple - the pf title and section headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - descriptions and de-emphasized detail.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - confirmation messages (debug toggles).
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - fatal error lines.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - include and config warnings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - task and alias names in listings and help.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// Base styles built from the palette.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// TaskStyle is for task and alias names.
	TaskStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
