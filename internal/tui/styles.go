package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Color Palette
// ---------------------------------------------------------------------------

// ColorPrimary is the accent used for titles, the cursor and focused buttons.
var ColorPrimary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

// ColorAccent marks selected and checked options.
var ColorAccent = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}

// ColorSuccess is used for totals and delivered submissions.
var ColorSuccess = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// ColorWarning is used for prompts that need attention.
var ColorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// ColorError is used for failures.
var ColorError = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// ColorMuted is a subdued foreground for secondary text.
var ColorMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// ColorSubtle is used for borders and empty progress cells.
var ColorSubtle = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}

// ColorHighlight is the background of the row under the cursor.
var ColorHighlight = lipgloss.AdaptiveColor{Light: "#EFF6FF", Dark: "#1E293B"}

// colorText is the primary body text color.
var colorText = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}

// ---------------------------------------------------------------------------
// Theme
// ---------------------------------------------------------------------------

// Theme holds the Lipgloss styles shared by the survey screen, the result
// card and the scenario table. Widths are applied at render time.
type Theme struct {
	// Survey page
	Header      lipgloss.Style
	Progress    lipgloss.Style
	Title       lipgloss.Style
	Description lipgloss.Style
	Statement   lipgloss.Style
	Content     lipgloss.Style

	// Options
	Cursor         lipgloss.Style
	Option         lipgloss.Style
	OptionActive   lipgloss.Style
	OptionSelected lipgloss.Style

	// Free-text fields
	FieldLabel lipgloss.Style
	FieldValue lipgloss.Style
	FieldEmpty lipgloss.Style

	// Buttons
	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	// Result card
	Card        lipgloss.Style
	Total       lipgloss.Style
	TotalLabel  lipgloss.Style
	ChildLabel  lipgloss.Style
	ChildAmount lipgloss.Style
	Breakdown   lipgloss.Style
	Prompt      lipgloss.Style

	// Bars
	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style

	// General
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
	ErrorText lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style
}

// DefaultTheme returns the bacc theme with adaptive colors.
func DefaultTheme() Theme {
	return Theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1),
		Progress: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			MarginTop(1),
		Description: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Statement: lipgloss.NewStyle().
			Italic(true).
			Foreground(colorText).
			PaddingLeft(1).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary),
		Content: lipgloss.NewStyle().
			Foreground(colorText),

		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Option: lipgloss.NewStyle().
			Foreground(colorText),
		OptionActive: lipgloss.NewStyle().
			Foreground(colorText).
			Background(ColorHighlight),
		OptionSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),

		FieldLabel: lipgloss.NewStyle().
			Foreground(ColorMuted),
		FieldValue: lipgloss.NewStyle().
			Foreground(colorText),
		FieldEmpty: lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorSubtle),

		Button: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Background(ColorHighlight).
			Padding(0, 2).
			MarginRight(1),
		ButtonActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 2).
			MarginRight(1),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2),
		Total: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess),
		TotalLabel: lipgloss.NewStyle().
			Foreground(ColorMuted),
		ChildLabel: lipgloss.NewStyle().
			Foreground(colorText),
		ChildAmount: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText),
		Breakdown: lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(2),
		Prompt: lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorWarning),

		BarFilled: lipgloss.NewStyle().
			Foreground(ColorAccent),
		BarEmpty: lipgloss.NewStyle().
			Foreground(ColorSubtle),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		HelpDesc: lipgloss.NewStyle().
			Foreground(ColorMuted),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess),
		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// Bar renders a horizontal bar of the given width with filled clamped to
// [0, 1]. Uses U+2588 for filled cells and U+2591 for empty cells. A
// non-positive width renders nothing.
func (t Theme) Bar(filled float64, width int) string {
	if width <= 0 {
		return ""
	}
	if filled < 0 {
		filled = 0
	}
	if filled > 1 {
		filled = 1
	}

	filledCount := int(filled * float64(width))
	emptyCount := width - filledCount

	var sb strings.Builder
	if filledCount > 0 {
		sb.WriteString(t.BarFilled.Render(strings.Repeat("█", filledCount)))
	}
	if emptyCount > 0 {
		sb.WriteString(t.BarEmpty.Render(strings.Repeat("░", emptyCount)))
	}
	return sb.String()
}
