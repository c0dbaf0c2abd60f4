package loader

import (
	"fmt"
	"time"

	"github.com/kyleking/lazylinear/internal/linear"
)

// Stage identifies how far a snapshot has been loaded.
type Stage int

const (
	// StageItems holds the roster and items without history.
	StageItems Stage = iota + 1
	// StageHistory additionally carries every item's state history.
	StageHistory
)

func (s Stage) String() string {
	switch s {
	case StageItems:
		return "items"
	case StageHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Snapshot is one immutable view of a team's timeline data. Each load stage
// produces a new Snapshot rather than updating an old one.
type Snapshot struct {
	Team         linear.Team            `json:"team"`
	States       []linear.WorkflowState `json:"workflowStates"`
	Members      []linear.Member        `json:"members"`
	Stage        Stage                  `json:"-"`
	StartedAfter time.Time              `json:"startedAfter"`
	FetchedAt    time.Time              `json:"fetchedAt"`

	// TruncatedMembers counts members whose items stopped paginating early.
	TruncatedMembers int `json:"truncatedMembers"`
	// HistoryFailures counts items rendered without history.
	HistoryFailures int `json:"historyFailures"`
}

// ItemCount returns the number of items across all members.
func (s *Snapshot) ItemCount() int {
	n := 0
	for _, m := range s.Members {
		n += len(m.Items)
	}
	return n
}

// Warnings describes the tolerated failures of the load, if any.
func (s *Snapshot) Warnings() []string {
	var w []string
	if s.TruncatedMembers > 0 {
		w = append(w, fmt.Sprintf("%d member(s) partially loaded", s.TruncatedMembers))
	}
	if s.HistoryFailures > 0 {
		w = append(w, fmt.Sprintf("%d item(s) without history", s.HistoryFailures))
	}
	return w
}

// clone copies the snapshot deep enough that item slices can be rewritten.
func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.States = append([]linear.WorkflowState(nil), s.States...)
	c.Members = make([]linear.Member, len(s.Members))
	for i, m := range s.Members {
		m.Items = append([]linear.WorkItem(nil), m.Items...)
		c.Members[i] = m
	}
	return &c
}
