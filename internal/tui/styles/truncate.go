package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks a truncated line.
const Ellipsis = "…"

// Fit shortens a rendered line to width visual columns, keeping escape
// sequences intact. A width of zero or less means the terminal size is not
// known yet and s is returned unchanged.
func Fit(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width <= lipgloss.Width(Ellipsis) {
		return Ellipsis
	}
	return ansi.Truncate(s, width, Ellipsis)
}
