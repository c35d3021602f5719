package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Arch-inspired palette.
var (
	// ArchBlue is the primary accent color.
	ArchBlue = lipgloss.Color("#1793D1")

	// ColorError represents failures (red tones).
	ColorError = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

	// ColorTextMuted is for secondary text.
	ColorTextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

// Styles contains the pre-built lipgloss styles for the prompts.
type Styles struct {
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles builds the prompt styles. When noColor is set, or the
// terminal reports no color support, styling is plain text.
func DefaultStyles(noColor bool) Styles {
	if noColor || termenv.EnvNoColor() {
		plain := lipgloss.NewStyle()
		return Styles{
			Title:    plain,
			Item:     plain,
			Selected: plain,
			Help:     plain,
			Error:    plain,
		}
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ArchBlue),
		Item: lipgloss.NewStyle().
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			PaddingLeft(0).
			Bold(true).
			Foreground(ArchBlue),
		Help: lipgloss.NewStyle().
			Foreground(ColorTextMuted),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
	}
}
