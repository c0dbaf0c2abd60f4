package modal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/ui"
)

const maxPickerRows = 12

// TeamSelectedMsg is sent when a team is picked.
type TeamSelectedMsg struct {
	Team linear.Team
}

// teamSource adapts a team list to fuzzy.Source.
type teamSource []linear.Team

func (s teamSource) String(i int) string { return s[i].Name }
func (s teamSource) Len() int            { return len(s) }

// TeamPickerModal filters teams by name. Recently used teams come first
// while the query is empty.
type TeamPickerModal struct {
	teams    []linear.Team
	recent   map[string]bool
	current  string
	input    textinput.Model
	filtered []linear.Team
	selected int
	result   *linear.Team
	done     bool
	keys     teamPickerKeyMap
}

type teamPickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

func defaultTeamPickerKeyMap() teamPickerKeyMap {
	return teamPickerKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+k", "ctrl+p")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+j", "ctrl+n")),
		Select: key.NewBinding(key.WithKeys("enter")),
		Close:  key.NewBinding(key.WithKeys("esc")),
	}
}

// NewTeamPickerModal creates a team picker. recent lists team ids, most
// frecent first; current marks the team on screen.
func NewTeamPickerModal(teams []linear.Team, recent []string, current string) *TeamPickerModal {
	input := textinput.New()
	input.Placeholder = "Filter teams..."
	input.CharLimit = 64
	input.Focus()

	m := &TeamPickerModal{
		teams:   orderTeams(teams, recent),
		recent:  make(map[string]bool, len(recent)),
		current: current,
		input:   input,
		keys:    defaultTeamPickerKeyMap(),
	}
	for _, id := range recent {
		m.recent[id] = true
	}
	m.applyFilter()
	return m
}

// orderTeams puts recent teams first, in the given order, and keeps the
// remaining teams in their original order.
func orderTeams(teams []linear.Team, recent []string) []linear.Team {
	byID := make(map[string]linear.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	ordered := make([]linear.Team, 0, len(teams))
	seen := make(map[string]bool, len(recent))
	for _, id := range recent {
		if t, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, t)
			seen[id] = true
		}
	}
	for _, t := range teams {
		if !seen[t.ID] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

func (m *TeamPickerModal) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.filtered = m.teams
	} else {
		matches := fuzzy.FindFrom(query, teamSource(m.teams))
		m.filtered = make([]linear.Team, 0, len(matches))
		for _, match := range matches {
			m.filtered = append(m.filtered, m.teams[match.Index])
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = max(len(m.filtered)-1, 0)
	}
}

// Update handles input for the team picker.
func (m *TeamPickerModal) Update(msg tea.Msg) (Context, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Close):
		m.done = true
		return m, nil

	case key.Matches(keyMsg, m.keys.Select):
		if m.selected < len(m.filtered) {
			team := m.filtered[m.selected]
			m.result = &team
		}
		m.done = true
		return m, nil

	case key.Matches(keyMsg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Down):
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

// View renders the team picker.
func (m *TeamPickerModal) View() string {
	var s strings.Builder

	s.WriteString(ui.TitleStyle.Render("Select Team"))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n\n")

	if len(m.filtered) == 0 {
		s.WriteString(ui.SubtitleStyle.Render("No matching teams"))
	}

	offset := 0
	if m.selected >= maxPickerRows {
		offset = m.selected - maxPickerRows + 1
	}
	end := min(offset+maxPickerRows, len(m.filtered))
	for i := offset; i < end; i++ {
		team := m.filtered[i]
		prefix := "  "
		style := ui.TableRowStyle
		if i == m.selected {
			prefix = "> "
			style = ui.TableSelectedStyle
		}
		line := prefix + ui.TruncateWithEllipsis(team.Name, 40)
		if team.ID == m.current {
			line += " (current)"
		} else if m.recent[team.ID] && m.input.Value() == "" {
			line += " (recent)"
		}
		s.WriteString(style.Render(line))
		s.WriteString("\n")
	}
	if len(m.filtered) > maxPickerRows {
		s.WriteString(ui.HelpStyle.Render(fmt.Sprintf("%d of %d teams", end-offset, len(m.filtered))))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(ui.HelpStyle.Render("↑/↓ move  enter select  esc cancel"))
	return s.String()
}

// Selected returns the team under the cursor.
func (m *TeamPickerModal) Selected() (linear.Team, bool) {
	if m.selected >= len(m.filtered) {
		return linear.Team{}, false
	}
	return m.filtered[m.selected], true
}

// IsDone returns true if the modal is finished.
func (m *TeamPickerModal) IsDone() bool {
	return m.done
}

// Result returns a TeamSelectedMsg, or nil when canceled.
func (m *TeamPickerModal) Result() any {
	if m.result == nil {
		return nil
	}
	return TeamSelectedMsg{Team: *m.result}
}
