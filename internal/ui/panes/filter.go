package panes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/timeline"
	"github.com/kyleking/lazylinear/internal/ui"
)

// FilterModel manages the workflow state chips.
type FilterModel struct {
	states  []linear.WorkflowState
	enabled map[string]bool
	cursor  int
	focused bool
	width   int
}

// NewFilterModel creates a new filter pane model.
func NewFilterModel() FilterModel {
	return FilterModel{enabled: map[string]bool{}}
}

// SetStates replaces the chips, ordered by workflow position.
func (m *FilterModel) SetStates(states []linear.WorkflowState, enabled map[string]bool) {
	m.states = timeline.SortStates(states)
	m.enabled = enabled
	if m.cursor >= len(m.states) {
		m.cursor = max(len(m.states)-1, 0)
	}
}

// SetWidth updates the pane width.
func (m *FilterModel) SetWidth(width int) {
	m.width = width
}

// SetFocused updates the focus state.
func (m *FilterModel) SetFocused(focused bool) {
	m.focused = focused
}

// Focused reports whether the chips receive input.
func (m FilterModel) Focused() bool {
	return m.focused
}

// MoveLeft moves the cursor to the previous chip.
func (m *FilterModel) MoveLeft() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveRight moves the cursor to the next chip.
func (m *FilterModel) MoveRight() {
	if m.cursor < len(m.states)-1 {
		m.cursor++
	}
}

// FilterChangedMsg is sent when a chip is toggled.
type FilterChangedMsg struct {
	Enabled map[string]bool
}

// Toggle flips the chip under the cursor. The enabled set is copied so
// earlier snapshots of it stay intact.
func (m *FilterModel) Toggle() tea.Cmd {
	if len(m.states) == 0 {
		return nil
	}
	next := make(map[string]bool, len(m.enabled)+1)
	for id, on := range m.enabled {
		if on {
			next[id] = true
		}
	}
	id := m.states[m.cursor].ID
	if next[id] {
		delete(next, id)
	} else {
		next[id] = true
	}
	m.enabled = next
	return func() tea.Msg {
		return FilterChangedMsg{Enabled: next}
	}
}

// Enabled returns the current enabled state ids.
func (m FilterModel) Enabled() map[string]bool {
	return m.enabled
}

// View renders the chips on a single line.
func (m FilterModel) View() string {
	if len(m.states) == 0 {
		return ui.SubtitleStyle.Render("No workflow states")
	}

	chips := make([]string, 0, len(m.states))
	for i, s := range m.states {
		on := m.enabled[s.ID]
		mark := "○"
		if on {
			mark = "●"
		}
		chip := ui.ChipStyle(timeline.StateColor(s), on).Render(mark + " " + s.Name)
		if m.focused && i == m.cursor {
			chip = ui.SelectedStyle.Render("[") + chip + ui.SelectedStyle.Render("]")
		} else {
			chip = " " + chip + " "
		}
		chips = append(chips, chip)
	}

	label := ui.SubtitleStyle.Render("States ")
	if m.focused {
		label = ui.TitleStyle.Render("States ")
	}
	return label + strings.Join(chips, " ")
}
