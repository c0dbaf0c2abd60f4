package timeline

import (
	"sort"
	"time"

	"github.com/kyleking/lazylinear/internal/linear"
)

// Segment is a contiguous stretch of an item's bar spent in one state.
// Left and Width are percentages of the item's lifetime.
type Segment struct {
	StateID    string            `json:"stateId"`
	StatusType linear.StatusType `json:"statusType"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Position
}

type transition struct {
	at      time.Time
	stateID string
	status  linear.StatusType
}

// ReconstructSegments replays history to split [lifetimeStart, lifetimeEnd]
// into status segments. The result is never empty and covers the lifetime
// with no gaps.
//
// createdAt does not move the segments; the lifetime bounds already account
// for it when the item has no start date.
//
// Reconstruction trusts the log to be complete: a missing or reordered
// transition yields fewer, merged segments rather than an error.
func ReconstructSegments(
	history []linear.HistoryEntry,
	currentStateID string,
	currentStatus linear.StatusType,
	createdAt time.Time,
	lifetimeStart, lifetimeEnd time.Time,
) []Segment {
	total := lifetimeEnd.Sub(lifetimeStart)
	whole := func(stateID string, status linear.StatusType) []Segment {
		return []Segment{{
			StateID:    stateID,
			StatusType: status,
			Start:      lifetimeStart,
			End:        lifetimeEnd,
			Position:   Position{Left: 0, Width: 100},
		}}
	}

	if total <= 0 {
		return whole(currentStateID, currentStatus)
	}

	changes := transitions(history)
	if len(changes) == 0 {
		return whole(currentStateID, currentStatus)
	}

	// State active at lifetimeStart: the last transition at or before it.
	stateID, status := "", linear.StatusBacklog
	for _, c := range changes {
		if c.at.After(lifetimeStart) {
			break
		}
		stateID, status = c.stateID, c.status
	}

	pct := func(from, to time.Time) Position {
		return Position{
			Left:  float64(from.Sub(lifetimeStart)) / float64(total) * 100,
			Width: float64(to.Sub(from)) / float64(total) * 100,
		}
	}

	var segments []Segment
	cursor := lifetimeStart
	for _, c := range changes {
		if !c.at.After(lifetimeStart) {
			continue
		}
		if !c.at.Before(lifetimeEnd) {
			break
		}
		if c.at.After(cursor) {
			segments = append(segments, Segment{
				StateID:    stateID,
				StatusType: status,
				Start:      cursor,
				End:        c.at,
				Position:   pct(cursor, c.at),
			})
		}
		cursor = c.at
		stateID, status = c.stateID, c.status
	}

	// An unknown trailing state falls back to the current state. Only a
	// leading segment keeps the backlog default.
	if stateID == "" {
		stateID, status = currentStateID, currentStatus
	}

	if lifetimeEnd.After(cursor) {
		segments = append(segments, Segment{
			StateID:    stateID,
			StatusType: status,
			Start:      cursor,
			End:        lifetimeEnd,
			Position:   pct(cursor, lifetimeEnd),
		})
	}

	if len(segments) == 0 {
		return whole(stateID, status)
	}
	return segments
}

// transitions drops entries without a target state and orders the rest by
// time, keeping fetch order for ties.
func transitions(history []linear.HistoryEntry) []transition {
	changes := make([]transition, 0, len(history))
	for _, h := range history {
		if h.ToState == nil {
			continue
		}
		changes = append(changes, transition{
			at:      h.CreatedAt,
			stateID: h.ToState.ID,
			status:  h.ToState.Type,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].at.Before(changes[j].at)
	})
	return changes
}
