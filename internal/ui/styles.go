package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/lazylinear/internal/ui/theme"
)

var currentTheme = theme.Dark()

// Colors used throughout the UI.
var (
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	AccentColor    lipgloss.Color
	MutedColor     lipgloss.Color
	SoftMutedColor lipgloss.Color
	TextColor      lipgloss.Color
	ModalBgColor   lipgloss.Color
	GridColor      lipgloss.Color
	BarTextColor   lipgloss.Color
)

// Styles for the application (initialized in ApplyTheme).
var (
	BorderStyle        lipgloss.Style
	ErrorStyle         lipgloss.Style
	FocusedBorderStyle lipgloss.Style
	GridStyle          lipgloss.Style
	HelpStyle          lipgloss.Style
	ModalStyle         lipgloss.Style
	NormalStyle        lipgloss.Style
	NowLineStyle       lipgloss.Style
	SelectedStyle      lipgloss.Style
	SubtitleStyle      lipgloss.Style
	TableDimmedStyle   lipgloss.Style
	TableHeaderStyle   lipgloss.Style
	TableRowStyle      lipgloss.Style
	TableSelectedStyle lipgloss.Style
	TitleStyle         lipgloss.Style
	WarningStyle       lipgloss.Style
)

func init() {
	ApplyTheme()
}

// InitTheme sets the theme and applies colors.
func InitTheme(t theme.Theme) {
	currentTheme = t
	ApplyTheme()
}

// CurrentTheme returns the active theme.
func CurrentTheme() theme.Theme {
	return currentTheme
}

// ApplyTheme updates all colors and styles from current theme.
func ApplyTheme() {
	PrimaryColor = currentTheme.Primary
	SecondaryColor = currentTheme.Secondary
	AccentColor = currentTheme.Accent
	MutedColor = currentTheme.Muted
	SoftMutedColor = currentTheme.SoftMuted
	TextColor = currentTheme.Text
	ModalBgColor = currentTheme.ModalBg
	GridColor = currentTheme.Grid
	BarTextColor = currentTheme.BarText

	BorderStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(currentTheme.Error)

	FocusedBorderStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor)

	GridStyle = lipgloss.NewStyle().
		Foreground(GridColor)

	HelpStyle = lipgloss.NewStyle().
		Foreground(SoftMutedColor)

	ModalStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Background(ModalBgColor).
		Padding(1, 2)

	NormalStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	NowLineStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(currentTheme.NowLine)

	SelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(AccentColor)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(SoftMutedColor)

	TableDimmedStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	TableRowStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	TableSelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(AccentColor)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	WarningStyle = lipgloss.NewStyle().
		Foreground(currentTheme.Warning)
}

// PaneStyle returns a style for a pane with optional focus.
func PaneStyle(width, height int, focused bool) lipgloss.Style {
	style := BorderStyle
	if focused {
		style = FocusedBorderStyle
	}
	return style.Width(width - 2).Height(height - 2)
}

// BarStyle renders bar cells in a workflow state color.
func BarStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(BarTextColor)
}

// ChipStyle renders a status chip; disabled chips are dimmed.
func ChipStyle(color string, enabled bool) lipgloss.Style {
	if !enabled {
		return TableDimmedStyle.Strikethrough(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
