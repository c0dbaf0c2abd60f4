// Package modal implements the overlays drawn above the timeline.
package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/lazylinear/internal/ui"
)

// Context is a modal that can sit on the stack.
type Context interface {
	Update(msg tea.Msg) (Context, tea.Cmd)
	View() string
	IsDone() bool
	// Result is delivered as a message once the modal is done; nil sends nothing.
	Result() any
}

// Stack holds the open modals; only the top one receives input.
type Stack struct {
	modals []Context
	width  int
	height int
}

// NewStack creates an empty modal stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push opens a modal above the current one.
func (s *Stack) Push(m Context) {
	s.modals = append(s.modals, m)
}

// Pop closes the top modal.
func (s *Stack) Pop() {
	if len(s.modals) > 0 {
		s.modals = s.modals[:len(s.modals)-1]
	}
}

// HasActive reports whether any modal is open.
func (s *Stack) HasActive() bool {
	return len(s.modals) > 0
}

// Top returns the modal receiving input.
func (s *Stack) Top() Context {
	if len(s.modals) == 0 {
		return nil
	}
	return s.modals[len(s.modals)-1]
}

// Len returns the number of open modals.
func (s *Stack) Len() int {
	return len(s.modals)
}

// SetSize records the screen size used to center modals.
func (s *Stack) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Update forwards msg to the top modal and pops it once it is done.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	top := s.Top()
	if top == nil {
		return nil
	}

	next, cmd := top.Update(msg)
	s.modals[len(s.modals)-1] = next
	if !next.IsDone() {
		return cmd
	}

	s.Pop()
	result := next.Result()
	if result == nil {
		return cmd
	}
	return tea.Batch(cmd, func() tea.Msg { return result })
}

// Render draws the top modal centered over the screen. The background is
// returned as-is when no modal is open or the size is unknown.
func (s *Stack) Render(background string) string {
	top := s.Top()
	if top == nil {
		return background
	}
	box := ui.ModalStyle.Render(top.View())
	if s.width == 0 || s.height == 0 {
		return box
	}
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
}
