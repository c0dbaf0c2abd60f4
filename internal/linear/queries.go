package linear

import (
	"fmt"
	"time"
)

// DateTimeOrDuration is the Linear scalar accepted by date comparators.
// The type name is what the query builder emits as the variable type.
type DateTimeOrDuration string

// ID is the GraphQL ID scalar. graphql.ID is an interface and would be
// emitted as the dynamic type of its value.
type ID string

type teamsQuery struct {
	Teams struct {
		Nodes []teamNode
	}
}

type teamNode struct {
	ID   string
	Name string
}

type rosterQuery struct {
	Team *struct {
		ID     string
		Name   string
		States struct {
			Nodes []workflowStateNode
		}
		Members struct {
			Nodes []memberNode
		}
	} `graphql:"team(id: $teamId)"`
}

type workflowStateNode struct {
	ID       string
	Name     string
	Type     string
	Color    string
	Position float64
}

type memberNode struct {
	ID          string
	Name        string
	DisplayName string
}

type userIssuesQuery struct {
	User *struct {
		AssignedIssues struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   *string
			}
			Nodes []issueNode
		} `graphql:"assignedIssues(first: $first, after: $after, filter: {team: {id: {eq: $teamIdFilter}}, state: {type: {in: [\"started\", \"completed\"]}}, startedAt: {gte: $startedAfter}})"`
	} `graphql:"user(id: $userId)"`
}

type issueNode struct {
	ID          string
	Identifier  string
	Title       string
	DueDate     *string
	CreatedAt   string
	StartedAt   *string
	CompletedAt *string
	Estimate    *float64
	State       stateNode
}

type stateNode struct {
	ID   string
	Name string
	Type string
}

type issueHistoryQuery struct {
	Issue *struct {
		ID      string
		History struct {
			Nodes []historyNode
		} `graphql:"history(first: $first)"`
	} `graphql:"issue(id: $issueId)"`
}

type historyNode struct {
	ID        string
	CreatedAt string
	FromState *stateNode
	ToState   *stateNode
}

// ParseTimestamp parses a Linear DateTime or TimelessDate (dueDate) value.
// Date-only values resolve to local midnight.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseOptional(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := ParseTimestamp(*s)
	if err != nil {
		return nil
	}
	return &t
}

func (n stateNode) toState() State {
	return State{ID: n.ID, Name: n.Name, Type: StatusType(n.Type)}
}

func (n issueNode) toWorkItem() (WorkItem, error) {
	createdAt, err := ParseTimestamp(n.CreatedAt)
	if err != nil {
		return WorkItem{}, fmt.Errorf("issue %s createdAt: %w", n.Identifier, err)
	}

	item := WorkItem{
		ID:         n.ID,
		Identifier: n.Identifier,
		Title:      n.Title,
		CreatedAt:  createdAt,
		StartDate:  parseOptional(n.StartedAt),
		State:      n.State.toState(),
		Estimate:   n.Estimate,
	}

	// Open items have no target date; the layout caps them at now.
	if item.IsCompleted() {
		item.TargetDate = parseOptional(n.CompletedAt)
		if item.TargetDate == nil {
			item.TargetDate = parseOptional(n.DueDate)
		}
	}
	return item, nil
}

func (n historyNode) toEntry() (HistoryEntry, error) {
	createdAt, err := ParseTimestamp(n.CreatedAt)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("history %s createdAt: %w", n.ID, err)
	}
	entry := HistoryEntry{ID: n.ID, CreatedAt: createdAt}
	if n.FromState != nil {
		s := n.FromState.toState()
		entry.FromState = &s
	}
	if n.ToState != nil {
		s := n.ToState.toState()
		entry.ToState = &s
	}
	return entry, nil
}
