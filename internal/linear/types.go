package linear

import "time"

// StatusType is the coarse category of a workflow state.
type StatusType string

// Status type constants
const (
	StatusBacklog   StatusType = "backlog"
	StatusUnstarted StatusType = "unstarted"
	StatusStarted   StatusType = "started"
	StatusCompleted StatusType = "completed"
	StatusCanceled  StatusType = "canceled"
	StatusTriage    StatusType = "triage"
)

// StatusTypes lists every status type in display order.
var StatusTypes = []StatusType{
	StatusBacklog,
	StatusUnstarted,
	StatusStarted,
	StatusCompleted,
	StatusCanceled,
	StatusTriage,
}

// Valid reports whether s is one of the known status types.
func (s StatusType) Valid() bool {
	for _, t := range StatusTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Team is a Linear team as returned by listTeams.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// State identifies the workflow state an item occupies.
type State struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type StatusType `json:"type"`
}

// WorkflowState is one entry of a team's workflow.
type WorkflowState struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     StatusType `json:"type"`
	Color    string     `json:"color"`
	Position float64    `json:"position"`
}

// HistoryEntry is one observed state transition of an item.
// Entries without a ToState carry no positioning information.
type HistoryEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	FromState *State    `json:"fromState,omitempty"`
	ToState   *State    `json:"toState,omitempty"`
}

// WorkItem is an issue assigned to a team member.
type WorkItem struct {
	ID         string         `json:"id"`
	Identifier string         `json:"identifier"`
	Title      string         `json:"title"`
	CreatedAt  time.Time      `json:"createdAt"`
	StartDate  *time.Time     `json:"startDate,omitempty"`
	TargetDate *time.Time     `json:"targetDate,omitempty"`
	State      State          `json:"state"`
	Estimate   *float64       `json:"estimate,omitempty"`
	History    []HistoryEntry `json:"history,omitempty"`
}

// IsCompleted returns true if the item currently sits in a completed state.
func (w WorkItem) IsCompleted() bool {
	return w.State.Type == StatusCompleted
}

// WithHistory returns a copy of the item carrying the given history.
func (w WorkItem) WithHistory(history []HistoryEntry) WorkItem {
	w.History = history
	return w
}

// Member is a team member and the items assigned to them.
type Member struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName,omitempty"`
	Items       []WorkItem `json:"items"`
}

// Label returns the display name, falling back to the full name.
func (m Member) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

// Roster is the result of getTeamRoster.
type Roster struct {
	Team           Team            `json:"team"`
	WorkflowStates []WorkflowState `json:"workflowStates"`
	Members        []Member        `json:"members"`
}

// ItemPage is one page of listAssignedItems.
type ItemPage struct {
	Items      []WorkItem
	NextCursor string
	HasNext    bool
}
