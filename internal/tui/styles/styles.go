// Package styles holds the lipgloss styles shared by the terminal UI and
// the headless printer.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Bridge state colors
	BridgeLive    = lipgloss.Color("#10B981") // Green
	BridgeOpen    = lipgloss.Color("#60A5FA") // Blue
	BridgeClosing = lipgloss.Color("#F87171") // Red

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)

	// Help bar
	HelpKey  = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	HelpDesc = lipgloss.NewStyle().Foreground(MutedColor)

	// Menu rows
	MenuItem         = lipgloss.NewStyle().Foreground(TextColor).PaddingLeft(2)
	MenuItemSelected = lipgloss.NewStyle().Bold(true).Foreground(TextColor).Background(PrimaryColor).PaddingLeft(2)
)

// Title is the header style.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(PrimaryColor).
	MarginBottom(1)

// ContentBox frames the open views.
var ContentBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(BorderColor).
	Padding(0, 1)

// PromptBox frames a question raised by a session.
var PromptBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(WarningColor).
	Foreground(WarningColor).
	Padding(0, 1)

// BridgeBadge returns a one-character badge for a bridge row.
func BridgeBadge(open, closing bool) string {
	switch {
	case closing:
		return lipgloss.NewStyle().Foreground(BridgeClosing).Render("✗")
	case open:
		return lipgloss.NewStyle().Foreground(BridgeOpen).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(BridgeLive).Render("○")
	}
}
