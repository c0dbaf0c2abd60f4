package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TruncateWithEllipsis shortens s to at most max runes, ending in "...".
func TruncateWithEllipsis(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// PadRight pads s with spaces to width cells. Styled text is measured by
// its visible width.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
