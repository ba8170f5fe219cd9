package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/attest/pkg/attest/diff"
)

// Color constants using the ANSI 256-color palette.
const (
	// ColorPrimary is used for headers and emphasis (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess is used for clean results (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for moved and modified entries (orange).
	ColorWarning = lipgloss.Color("214")

	// ColorDanger is used for corrupted entries (red).
	ColorDanger = lipgloss.Color("196")

	// ColorMuted is used for secondary text (gray).
	ColorMuted = lipgloss.Color("245")
)

// Text styles shared by the pretty formatter.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	CorruptedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// HeaderBox frames the run metadata.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// SummaryBox frames the per-kind counts.
	SummaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			MarginTop(1)
)

// kindStyle returns the style used for a classification tag.
func kindStyle(kind diff.Kind) lipgloss.Style {
	switch kind {
	case diff.KindCorrupted:
		return CorruptedStyle
	case diff.KindModified, diff.KindMoved:
		return WarningStyle
	case diff.KindAdded, diff.KindRemoved:
		return LabelStyle
	default:
		return SuccessStyle
	}
}
