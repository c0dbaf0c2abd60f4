package modal

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/timeline"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func testTeams() []linear.Team {
	return []linear.Team{
		{ID: "t1", Name: "Design"},
		{ID: "t2", Name: "Engineering"},
		{ID: "t3", Name: "Platform"},
	}
}

func TestStack_PushPop(t *testing.T) {
	s := NewStack()
	if s.HasActive() {
		t.Fatal("new stack should be empty")
	}
	if got := s.Render("background"); got != "background" {
		t.Errorf("Render() without modals = %q", got)
	}

	s.Push(NewHelpModal(nil))
	s.Push(NewHelpModal(nil))
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.Len() != 1 {
		t.Errorf("Len() after closing top = %d, want 1", s.Len())
	}
	s.Pop()
	s.Pop()
	if s.HasActive() {
		t.Error("stack should be empty")
	}
}

func TestStack_DeliversResult(t *testing.T) {
	s := NewStack()
	s.Push(NewTeamPickerModal(testTeams(), nil, ""))

	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if s.HasActive() {
		t.Error("picker should be popped after enter")
	}
	var got *TeamSelectedMsg
	for _, msg := range collect(cmd) {
		if m, ok := msg.(TeamSelectedMsg); ok {
			got = &m
		}
	}
	if got == nil {
		t.Fatal("expected TeamSelectedMsg")
	}
	if got.Team.ID != "t2" {
		t.Errorf("selected team = %q, want t2", got.Team.ID)
	}
}

func TestStack_CancelSendsNothing(t *testing.T) {
	s := NewStack()
	s.Push(NewTeamPickerModal(testTeams(), nil, ""))

	cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.HasActive() {
		t.Error("picker should be popped after esc")
	}
	for _, msg := range collect(cmd) {
		if _, ok := msg.(TeamSelectedMsg); ok {
			t.Error("cancel should not select a team")
		}
	}
}

func TestStack_RenderCentersModal(t *testing.T) {
	s := NewStack()
	s.SetSize(80, 24)
	s.Push(NewHelpModal([][]key.Binding{{
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}}))

	out := s.Render("background")
	if strings.Contains(out, "background") {
		t.Error("modal should replace the background")
	}
	if !strings.Contains(out, "quit") {
		t.Error("expected help entry in the rendered modal")
	}
	if lines := strings.Split(out, "\n"); len(lines) != 24 {
		t.Errorf("rendered %d lines, want 24", len(lines))
	}
}

func TestOrderTeams(t *testing.T) {
	got := orderTeams(testTeams(), []string{"t3", "missing", "t3", "t1"})

	ids := make([]string, 0, len(got))
	for _, team := range got {
		ids = append(ids, team.ID)
	}
	if strings.Join(ids, ",") != "t3,t1,t2" {
		t.Errorf("orderTeams() = %v, want [t3 t1 t2]", ids)
	}
}

func TestTeamPickerModal_Filter(t *testing.T) {
	m := NewTeamPickerModal(testTeams(), []string{"t1"}, "t3")

	if team, ok := m.Selected(); !ok || team.ID != "t1" {
		t.Errorf("initial selection = %v, want recent team t1", team.ID)
	}

	m.Update(runes("plat"))
	if len(m.filtered) != 1 {
		t.Fatalf("filtered = %v, want only Platform", m.filtered)
	}
	if team, _ := m.Selected(); team.ID != "t3" {
		t.Errorf("selection after filter = %q, want t3", team.ID)
	}
	if !strings.Contains(m.View(), "(current)") {
		t.Error("current team should be marked")
	}

	m.Update(runes("zzz"))
	if len(m.filtered) != 0 {
		t.Errorf("filtered = %v, want none", m.filtered)
	}
	if _, ok := m.Selected(); ok {
		t.Error("expected no selection")
	}
	if !strings.Contains(m.View(), "No matching teams") {
		t.Error("expected empty placeholder")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsDone() || m.Result() != nil {
		t.Error("enter with no match should close without a result")
	}
}

func TestTeamPickerModal_MoveBounds(t *testing.T) {
	m := NewTeamPickerModal(testTeams(), nil, "")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
	for range 5 {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.selected != 2 {
		t.Errorf("selected = %d, want 2", m.selected)
	}
}

func detailBar() timeline.Bar {
	start := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)
	item := linear.WorkItem{
		ID:         "i1",
		Identifier: "ENG-7",
		Title:      "Ship the timeline",
		CreatedAt:  start,
		State:      linear.State{ID: "s-doing", Name: "In Progress", Type: linear.StatusStarted},
		History:    []linear.HistoryEntry{},
	}
	return timeline.Bar{
		Item:  item,
		Start: start,
		End:   end,
		Open:  true,
		Segments: []timeline.Segment{
			{StateID: "s-todo", StatusType: linear.StatusUnstarted, Start: start, End: start.Add(24 * time.Hour), Position: timeline.Position{Left: 0, Width: 40}},
			{StateID: "s-doing", StatusType: linear.StatusStarted, Start: start.Add(24 * time.Hour), End: end, Position: timeline.Position{Left: 40, Width: 60}},
		},
	}
}

func detailStates() []linear.WorkflowState {
	return []linear.WorkflowState{
		{ID: "s-todo", Name: "Todo", Type: linear.StatusUnstarted},
		{ID: "s-doing", Name: "In Progress", Type: linear.StatusStarted},
	}
}

func TestItemDetailModal_View(t *testing.T) {
	now := time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)
	m := NewItemDetailModal(detailBar(), "Ada Lovelace", detailStates(), now, 100, 40)

	view := m.View()
	for _, want := range []string{
		"ENG-7", "Ship the timeline", "Ada Lovelace",
		"In Progress (Started)", "2 days ago", "Mar 4 to now, 2d 12h",
		"Todo", "40%", "60%",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "History not loaded") {
		t.Error("history is loaded")
	}
}

func TestItemDetailModal_Actions(t *testing.T) {
	m := NewItemDetailModal(detailBar(), "Ada", detailStates(), time.Now(), 100, 40)

	tests := []struct {
		key  string
		want ItemAction
	}{
		{"o", ActionOpen},
		{"y", ActionCopyURL},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := m.Update(runes(tt.key))
			if cmd == nil {
				t.Fatal("expected a command")
			}
			msg, ok := cmd().(ItemActionMsg)
			if !ok {
				t.Fatalf("expected ItemActionMsg")
			}
			if msg.Action != tt.want || msg.Item.Identifier != "ENG-7" {
				t.Errorf("msg = %+v", msg)
			}
		})
	}

	if m.IsDone() {
		t.Error("actions should keep the modal open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsDone() {
		t.Error("esc should close the modal")
	}
}

func TestItemDetailModal_NoHistory(t *testing.T) {
	bar := detailBar()
	bar.Item.History = nil
	m := NewItemDetailModal(bar, "Ada", detailStates(), time.Now(), 100, 40)

	if !strings.Contains(m.View(), "History not loaded yet") {
		t.Error("expected history placeholder")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "0m"},
		{45 * time.Minute, "45m"},
		{5 * time.Hour, "5h"},
		{48 * time.Hour, "2d"},
		{52 * time.Hour, "2d 4h"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHelpModal_Close(t *testing.T) {
	m := NewHelpModal(nil)
	m.Update(runes("x"))
	if m.IsDone() {
		t.Error("unrelated key should not close help")
	}
	m.Update(runes("?"))
	if !m.IsDone() {
		t.Error("? should close help")
	}
}
