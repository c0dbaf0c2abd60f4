package timeline

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kyleking/lazylinear/internal/linear"
)

// FallbackColor is used when neither the state nor its type has a color.
const FallbackColor = "#6b7280"

// DefaultStatusColors are used for status types without workflow colors.
var DefaultStatusColors = map[linear.StatusType]string{
	linear.StatusBacklog:   "#6b7280",
	linear.StatusUnstarted: "#8b5cf6",
	linear.StatusStarted:   "#3b82f6",
	linear.StatusCompleted: "#22c55e",
	linear.StatusCanceled:  "#ef4444",
	linear.StatusTriage:    "#FC7840",
}

// Palette resolves segment colors from a team's workflow states.
type Palette struct {
	states []linear.WorkflowState
	byID   map[string]string
}

// NewPalette indexes the workflow states by id.
func NewPalette(states []linear.WorkflowState) Palette {
	p := Palette{
		states: states,
		byID:   make(map[string]string, len(states)),
	}
	for _, s := range states {
		if s.Color != "" {
			p.byID[s.ID] = s.Color
		}
	}
	return p
}

// ColorFor returns the workflow color of stateID, falling back to the
// default color of its status type.
func (p Palette) ColorFor(stateID string, status linear.StatusType) string {
	if c, ok := p.byID[stateID]; ok {
		return c
	}
	return defaultColor(status)
}

// ColorForType returns the color of the first workflow state of that type.
func (p Palette) ColorForType(status linear.StatusType) string {
	for _, s := range p.states {
		if s.Type == status && s.Color != "" {
			return s.Color
		}
	}
	return defaultColor(status)
}

// StateColor returns the chip color for a workflow state.
func StateColor(s linear.WorkflowState) string {
	if s.Color != "" {
		return s.Color
	}
	return defaultColor(s.Type)
}

func defaultColor(status linear.StatusType) string {
	if c, ok := DefaultStatusColors[status]; ok {
		return c
	}
	return FallbackColor
}

// StatusLabel returns the display name of a status type, e.g. "Started".
func StatusLabel(status linear.StatusType) string {
	return cases.Title(language.English).String(string(status))
}

// StateName returns the workflow name of stateID. States from other teams
// fall back to the label of their status type.
func StateName(states []linear.WorkflowState, stateID string, status linear.StatusType) string {
	for _, s := range states {
		if s.ID == stateID {
			return s.Name
		}
	}
	return StatusLabel(status)
}

// SortStates returns the states ordered by workflow position.
func SortStates(states []linear.WorkflowState) []linear.WorkflowState {
	sorted := make([]linear.WorkflowState, len(states))
	copy(sorted, states)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

var avatarColors = []string{
	"#3b82f6", "#8b5cf6", "#ec4899", "#f59e0b",
	"#10b981", "#06b6d4", "#6366f1", "#f43f5e",
}

// AvatarColor picks a stable color for a name. The hash matches the web
// client's 32-bit string hash so a member keeps the same color everywhere.
func AvatarColor(name string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(name)) {
		hash = int32(unit) + ((hash << 5) - hash)
	}
	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return avatarColors[idx%int64(len(avatarColors))]
}

// Initials returns up to two upper-cased initials.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, part := range strings.Split(name, " ") {
		if part == "" {
			continue
		}
		r := []rune(part)[0]
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}
