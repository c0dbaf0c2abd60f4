package modal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/timeline"
	"github.com/kyleking/lazylinear/internal/ui"
)

// ItemAction is something the user asked to do with an item.
type ItemAction int

const (
	ActionOpen ItemAction = iota
	ActionCopyURL
)

// ItemActionMsg asks the app to act on an item.
type ItemActionMsg struct {
	Action ItemAction
	Item   linear.WorkItem
}

// ItemDetailModal shows an item's dates and its state segments.
type ItemDetailModal struct {
	bar      timeline.Bar
	member   string
	states   []linear.WorkflowState
	palette  timeline.Palette
	now      time.Time
	viewport viewport.Model
	done     bool
	keys     itemDetailKeyMap
}

type itemDetailKeyMap struct {
	Close key.Binding
	Open  key.Binding
	Copy  key.Binding
	Up    key.Binding
	Down  key.Binding
}

func defaultItemDetailKeyMap() itemDetailKeyMap {
	return itemDetailKeyMap{
		Close: key.NewBinding(key.WithKeys("esc", "q", "enter")),
		Open:  key.NewBinding(key.WithKeys("o")),
		Copy:  key.NewBinding(key.WithKeys("y")),
		Up:    key.NewBinding(key.WithKeys("k", "up")),
		Down:  key.NewBinding(key.WithKeys("j", "down")),
	}
}

// NewItemDetailModal creates a detail modal for bar.
func NewItemDetailModal(bar timeline.Bar, member string, states []linear.WorkflowState, now time.Time, width, height int) *ItemDetailModal {
	m := &ItemDetailModal{
		bar:      bar,
		member:   member,
		states:   states,
		palette:  timeline.NewPalette(states),
		now:      now,
		viewport: viewport.New(max(min(width-8, 72), 20), max(height-16, 3)),
		keys:     defaultItemDetailKeyMap(),
	}
	m.viewport.SetContent(m.segmentsContent())
	return m
}

// Update handles input for the item detail modal.
func (m *ItemDetailModal) Update(msg tea.Msg) (Context, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = max(min(msg.Width-8, 72), 20)
		m.viewport.Height = max(msg.Height-16, 3)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Close):
			m.done = true
		case key.Matches(msg, m.keys.Open):
			return m, m.action(ActionOpen)
		case key.Matches(msg, m.keys.Copy):
			return m, m.action(ActionCopyURL)
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		}
	}
	return m, nil
}

func (m *ItemDetailModal) action(a ItemAction) tea.Cmd {
	item := m.bar.Item
	return func() tea.Msg {
		return ItemActionMsg{Action: a, Item: item}
	}
}

// View renders the item detail modal.
func (m *ItemDetailModal) View() string {
	item := m.bar.Item
	var s strings.Builder

	s.WriteString(ui.TitleStyle.Render(timeline.ItemLabel(item)))
	if item.Title != "" {
		s.WriteString("  ")
		s.WriteString(ui.NormalStyle.Render(ui.TruncateWithEllipsis(item.Title, 60)))
	}
	s.WriteString("\n\n")

	field := func(label, value string) {
		s.WriteString(ui.SubtitleStyle.Render(ui.PadRight(label, 10)))
		s.WriteString(ui.NormalStyle.Render(value))
		s.WriteString("\n")
	}

	state := timeline.StateName(m.states, item.State.ID, item.State.Type)
	field("Assignee", m.member)
	field("State", fmt.Sprintf("%s (%s)", state, timeline.StatusLabel(item.State.Type)))
	field("Created", m.relative(item.CreatedAt))
	if item.StartDate != nil {
		field("Start", m.relative(*item.StartDate))
	}
	if item.TargetDate != nil {
		label := "Due"
		if item.IsCompleted() {
			label = "Completed"
		}
		field(label, m.relative(*item.TargetDate))
	}
	end := m.bar.End.Format("Jan 2")
	if m.bar.Open {
		end = "now"
	}
	field("Lifetime", fmt.Sprintf("%s to %s, %s", m.bar.Start.Format("Jan 2"), end, formatDuration(m.bar.End.Sub(m.bar.Start))))

	s.WriteString("\n")
	s.WriteString(ui.SubtitleStyle.Render("States:"))
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n\n")
	s.WriteString(ui.HelpStyle.Render("o open  y copy link  j/k scroll  esc close"))
	return s.String()
}

func (m *ItemDetailModal) relative(t time.Time) string {
	return t.Format("Jan 2 2006") + " (" + humanize.RelTime(t, m.now, "ago", "from now") + ")"
}

func (m *ItemDetailModal) segmentsContent() string {
	var s strings.Builder
	if m.bar.Item.History == nil {
		s.WriteString(ui.TableDimmedStyle.Render("History not loaded yet"))
		s.WriteString("\n")
	}
	for i, seg := range m.bar.Segments {
		swatch := ui.BarStyle(m.palette.ColorFor(seg.StateID, seg.StatusType)).Render("  ")
		name := timeline.StateName(m.states, seg.StateID, seg.StatusType)
		line := fmt.Sprintf("%s %s %s to %s  %s  %.0f%%",
			swatch,
			ui.PadRight(ui.TruncateWithEllipsis(name, 16), 16),
			seg.Start.Format("Jan 2 15:04"),
			seg.End.Format("Jan 2 15:04"),
			ui.PadRight(formatDuration(seg.End.Sub(seg.Start)), 7),
			seg.Width,
		)
		s.WriteString(line)
		if i < len(m.bar.Segments)-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

// formatDuration renders d at day/hour/minute resolution, e.g. "2d 4h".
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d%(24*time.Hour)) / int(time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Item returns the item shown.
func (m *ItemDetailModal) Item() linear.WorkItem {
	return m.bar.Item
}

// IsDone returns true if the modal is finished.
func (m *ItemDetailModal) IsDone() bool {
	return m.done
}

// Result returns nil for the item detail modal.
func (m *ItemDetailModal) Result() any {
	return nil
}
