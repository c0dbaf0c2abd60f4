package panes

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/timeline"
	"github.com/kyleking/lazylinear/internal/ui"
)

// labelWidth is the width of the member column, selection indicator included.
const labelWidth = 22

// minGridWidth keeps the grid drawable in very narrow terminals.
const minGridWidth = 14

type barRef struct {
	row  int
	bar  int
	line int
}

// TimelineModel renders member rows and their item bars over the window.
type TimelineModel struct {
	rows     []timeline.Row
	palette  timeline.Palette
	window   timeline.Window
	now      time.Time
	bars     []barRef
	selected int
	focused  bool
	width    int
	height   int
	viewport viewport.Model
}

// NewTimelineModel creates a new timeline pane model.
func NewTimelineModel() TimelineModel {
	return TimelineModel{viewport: viewport.New(0, 0)}
}

// SetData replaces the rows and keeps the selection on the same item when
// it is still visible.
func (m *TimelineModel) SetData(rows []timeline.Row, palette timeline.Palette, window timeline.Window, now time.Time) {
	prevID := ""
	if bar, ok := m.SelectedBar(); ok {
		prevID = bar.Item.ID
	}

	m.rows = rows
	m.palette = palette
	m.window = window
	m.now = now
	m.bars = nil

	line := 0
	for ri, row := range rows {
		if len(row.Bars) == 0 {
			line++
			continue
		}
		for bi := range row.Bars {
			m.bars = append(m.bars, barRef{row: ri, bar: bi, line: line})
			line++
		}
	}

	m.selected = 0
	for i, ref := range m.bars {
		if rows[ref.row].Bars[ref.bar].Item.ID == prevID {
			m.selected = i
			break
		}
	}
	m.refresh()
}

// SetSize updates the pane dimensions.
func (m *TimelineModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-2, 0)
	m.viewport.Height = max(height-4, 1)
	m.refresh()
}

// SetFocused updates the focus state.
func (m *TimelineModel) SetFocused(focused bool) {
	m.focused = focused
}

// MoveUp moves selection to the previous bar.
func (m *TimelineModel) MoveUp() {
	if m.selected > 0 {
		m.selected--
		m.refresh()
	}
}

// MoveDown moves selection to the next bar.
func (m *TimelineModel) MoveDown() {
	if m.selected < len(m.bars)-1 {
		m.selected++
		m.refresh()
	}
}

// Update handles messages for the timeline pane.
func (m TimelineModel) Update(msg tea.Msg) (TimelineModel, tea.Cmd) {
	var cmd tea.Cmd
	if _, ok := msg.(tea.MouseMsg); ok {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// SelectedBar returns the selected bar.
func (m TimelineModel) SelectedBar() (timeline.Bar, bool) {
	if m.selected < 0 || m.selected >= len(m.bars) {
		return timeline.Bar{}, false
	}
	ref := m.bars[m.selected]
	return m.rows[ref.row].Bars[ref.bar], true
}

// SelectedMember returns the member owning the selected bar.
func (m TimelineModel) SelectedMember() (linear.Member, bool) {
	if m.selected < 0 || m.selected >= len(m.bars) {
		return linear.Member{}, false
	}
	return m.rows[m.bars[m.selected].row].Member, true
}

// View renders the timeline pane.
func (m TimelineModel) View() string {
	style := ui.PaneStyle(m.width, m.height, m.focused)
	title := ui.TitleStyle.Render("Timeline")
	if n := len(m.bars); n > 0 {
		title += ui.SubtitleStyle.Render(fmt.Sprintf("  %d visible", n))
	}
	return style.Render(title + "\n" + m.headerLine() + "\n" + m.viewport.View())
}

// ViewContent renders the grid without the pane border or scrolling.
func (m TimelineModel) ViewContent() string {
	return m.headerLine() + "\n" + m.body()
}

func (m *TimelineModel) refresh() {
	m.viewport.SetContent(m.body())
	if m.selected >= len(m.bars) {
		return
	}
	line := m.bars[m.selected].line
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m TimelineModel) gridWidth() int {
	return max(m.width-2-labelWidth, minGridWidth)
}

func (m TimelineModel) body() string {
	if len(m.rows) == 0 {
		return ui.SubtitleStyle.Render("No team members loaded")
	}

	gw := m.gridWidth()
	selectedLine := -1
	if m.selected < len(m.bars) {
		selectedLine = m.bars[m.selected].line
	}

	var lines []string
	for _, row := range m.rows {
		if len(row.Bars) == 0 {
			note := "no items"
			if row.ItemCount > 0 {
				note = fmt.Sprintf("%d outside window", row.ItemCount)
			}
			lines = append(lines, m.memberLabel(row, false)+ui.TableDimmedStyle.Render(ui.TruncateWithEllipsis(note, gw)))
			continue
		}
		for i, bar := range row.Bars {
			selected := len(lines) == selectedLine
			label := strings.Repeat(" ", labelWidth)
			if i == 0 {
				label = m.memberLabel(row, selected)
			} else if selected {
				label = ui.PadRight(ui.TableSelectedStyle.Render(">"), labelWidth)
			}
			lines = append(lines, label+m.barLine(bar, gw, selected))
		}
	}
	return strings.Join(lines, "\n")
}

func (m TimelineModel) memberLabel(row timeline.Row, selected bool) string {
	indicator := "  "
	if selected {
		indicator = ui.TableSelectedStyle.Render("> ")
	}
	initials := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(row.AvatarColor)).
		Render(ui.PadRight(row.Initials, 2))
	count := fmt.Sprintf(" %d", row.ItemCount)
	nameWidth := labelWidth - 2 - 3 - len(count) - 1
	name := ui.NormalStyle.Render(ui.TruncateWithEllipsis(row.Name, nameWidth))
	return ui.PadRight(indicator+initials+" "+ui.PadRight(name, nameWidth)+ui.SubtitleStyle.Render(count), labelWidth)
}

// barLine draws one bar across the grid, coloring each cell by the segment
// active at that cell's midpoint.
func (m TimelineModel) barLine(bar timeline.Bar, gw int, selected bool) string {
	start, end := columnSpan(bar.Position, gw)
	colors := make([]string, end-start)
	for i := range colors {
		seg := bar.SpanAt(cellPosition(start+i, gw))
		colors[i] = m.palette.ColorFor(seg.StateID, seg.StatusType)
	}

	label := []rune(ui.TruncateWithEllipsis(timeline.ItemLabel(bar.Item), end-start))
	text := func(from, to int) string {
		var b strings.Builder
		for i := from; i < to; i++ {
			if i < len(label) {
				b.WriteRune(label[i])
			} else {
				b.WriteByte(' ')
			}
		}
		return b.String()
	}

	nowCol := m.nowColumn(gw)
	var b strings.Builder
	for col := 0; col < gw; {
		if col < start || col >= end {
			b.WriteString(m.backgroundCell(col, gw, nowCol))
			col++
			continue
		}
		run := col
		for run < end && colors[run-start] == colors[col-start] {
			run++
		}
		style := ui.BarStyle(colors[col-start])
		if selected {
			style = style.Bold(true).Underline(true)
		}
		b.WriteString(style.Render(text(col-start, run-start)))
		col = run
	}
	return b.String()
}

func (m TimelineModel) backgroundCell(col, gw, nowCol int) string {
	if col == nowCol {
		return ui.NowLineStyle.Render("│")
	}
	days := m.window.Days()
	if days <= 31 {
		for d := 0; d < days; d++ {
			if dayColumn(d, days, gw) == col {
				return ui.GridStyle.Render("·")
			}
		}
	}
	return " "
}

func (m TimelineModel) nowColumn(gw int) int {
	pct, ok := timeline.NowPosition(m.window, m.now)
	if !ok {
		return -1
	}
	return min(int(pct/100*float64(gw)), gw-1)
}

func (m TimelineModel) headerLine() string {
	gw := m.gridWidth()
	cells := []rune(strings.Repeat(" ", gw))
	days := m.window.Days()
	if days == 0 {
		return ""
	}
	perDay := float64(gw) / float64(days)

	next := 0
	for i, date := range m.window.Dates() {
		var label string
		switch {
		case perDay >= 7:
			label = date.Format("Mon 2")
		case perDay >= 3:
			label = date.Format("2")
		case date.Weekday() == time.Sunday:
			label = date.Format("Jan 2")
		default:
			continue
		}
		col := dayColumn(i, days, gw)
		if col < next || col+len(label) > gw {
			continue
		}
		copy(cells[col:], []rune(label))
		next = col + len(label) + 1
	}
	return strings.Repeat(" ", labelWidth) + ui.TableHeaderStyle.Render(string(cells))
}

// columnSpan converts a percentage position to grid columns [start, end).
// Every visible bar occupies at least one column.
func columnSpan(pos timeline.Position, gw int) (start, end int) {
	start = int(math.Round(pos.Left / 100 * float64(gw)))
	end = int(math.Round(pos.Right() / 100 * float64(gw)))
	start = min(max(start, 0), gw-1)
	end = min(end, gw)
	if end <= start {
		end = start + 1
	}
	return start, end
}

// cellPosition returns the window percentage at the middle of a grid column.
func cellPosition(col, gw int) float64 {
	return (float64(col) + 0.5) / float64(gw) * 100
}

func dayColumn(day, days, gw int) int {
	return int(math.Round(float64(day) * float64(gw) / float64(days)))
}
