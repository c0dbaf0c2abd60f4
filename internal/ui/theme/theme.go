// Package theme defines the color palettes the UI can run with.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a named set of UI colors.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	SoftMuted lipgloss.Color
	Text      lipgloss.Color
	ModalBg   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Grid      lipgloss.Color
	NowLine   lipgloss.Color
	BarText   lipgloss.Color
}

// Dark is the default theme.
func Dark() Theme {
	return Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#a78bfa"),
		Secondary: lipgloss.Color("#6366f1"),
		Accent:    lipgloss.Color("#f59e0b"),
		Muted:     lipgloss.Color("#4b5563"),
		SoftMuted: lipgloss.Color("#9ca3af"),
		Text:      lipgloss.Color("#e5e7eb"),
		ModalBg:   lipgloss.Color("#1f2937"),
		Error:     lipgloss.Color("#f87171"),
		Warning:   lipgloss.Color("#fbbf24"),
		Grid:      lipgloss.Color("#374151"),
		NowLine:   lipgloss.Color("#ef4444"),
		BarText:   lipgloss.Color("#ffffff"),
	}
}

// Light suits light terminal backgrounds.
func Light() Theme {
	return Theme{
		Name:      "light",
		Primary:   lipgloss.Color("#6d28d9"),
		Secondary: lipgloss.Color("#4338ca"),
		Accent:    lipgloss.Color("#b45309"),
		Muted:     lipgloss.Color("#9ca3af"),
		SoftMuted: lipgloss.Color("#6b7280"),
		Text:      lipgloss.Color("#111827"),
		ModalBg:   lipgloss.Color("#f3f4f6"),
		Error:     lipgloss.Color("#dc2626"),
		Warning:   lipgloss.Color("#d97706"),
		Grid:      lipgloss.Color("#d1d5db"),
		NowLine:   lipgloss.Color("#dc2626"),
		BarText:   lipgloss.Color("#ffffff"),
	}
}

// ByName returns the theme called name, or Dark for anything else.
func ByName(name string) Theme {
	if name == "light" {
		return Light()
	}
	return Dark()
}
