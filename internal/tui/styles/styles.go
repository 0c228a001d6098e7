package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/completeditmate/mate/internal/domain"
)

// Color palette
var (
	MateGreen  = lipgloss.Color("#15803D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
	Gold       = lipgloss.Color("#EAB308")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MateGreen)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(MateGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(MateGreen).
			Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)
)

// Per-status indicator styles
var statusStyles = map[domain.Status]lipgloss.Style{
	domain.StatusWishlist:  lipgloss.NewStyle().Foreground(Blue),
	domain.StatusOwned:     lipgloss.NewStyle().Foreground(LightGray),
	domain.StatusPlaying:   lipgloss.NewStyle().Foreground(Gold),
	domain.StatusCompleted: lipgloss.NewStyle().Foreground(Green),
}

// Raw status characters (unstyled)
func statusChar(s domain.Status) string {
	switch s {
	case domain.StatusWishlist:
		return "○"
	case domain.StatusOwned:
		return "●"
	case domain.StatusPlaying:
		return "◐"
	case domain.StatusCompleted:
		return "✓"
	default:
		return " "
	}
}

// StatusDot renders the colored indicator for a library status.
func StatusDot(s domain.Status) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(statusChar(s))
	}
	return " "
}

// SpinnerFrames are the loading animation frames.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Pad right-pads (or truncates) s to width columns.
func Pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	for len(s) < width {
		s += " "
	}
	return s
}
