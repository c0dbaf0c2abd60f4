package timeline

import (
	"sort"
	"strconv"
	"time"

	"github.com/kyleking/lazylinear/internal/linear"
)

// Bar is one visible item within a member row.
type Bar struct {
	Item linear.WorkItem
	// Start and End bound the item's lifetime; End is now for open items.
	Start    time.Time
	End      time.Time
	Open     bool
	Position Position
	Segments []Segment
	// Spans places the visible segments within Position.
	Spans []Span
}

// Span is a segment positioned in window coordinates.
type Span struct {
	Segment  Segment
	Position Position
}

// Row is the layout of one member.
type Row struct {
	Member      linear.Member
	Name        string
	Initials    string
	AvatarColor string
	// ItemCount counts items passing the status filter, visible or not.
	ItemCount int
	Bars      []Bar
}

// VisibleCount returns the number of bars drawn in the window.
func (r Row) VisibleCount() int {
	return len(r.Bars)
}

// LayoutInput collects everything BuildRows depends on.
type LayoutInput struct {
	Members []linear.Member
	States  []linear.WorkflowState
	Enabled map[string]bool
	Window  Window
	Now     time.Time
}

// BuildRows lays out every member's items inside the window.
func BuildRows(in LayoutInput) []Row {
	types := EnabledTypes(in.States, in.Enabled)
	rows := make([]Row, 0, len(in.Members))
	for _, m := range in.Members {
		rows = append(rows, buildRow(m, types, in.Window, in.Now))
	}
	return rows
}

func buildRow(m linear.Member, types map[linear.StatusType]bool, w Window, now time.Time) Row {
	name := m.Label()
	row := Row{
		Member:      m,
		Name:        name,
		Initials:    Initials(name),
		AvatarColor: AvatarColor(name),
	}

	items := make([]linear.WorkItem, 0, len(m.Items))
	for _, it := range m.Items {
		if types[it.State.Type] {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return sortKey(items[i]).Before(sortKey(items[j]))
	})
	row.ItemCount = len(items)

	for _, it := range items {
		if bar, ok := PlaceItem(it, w, now); ok {
			row.Bars = append(row.Bars, bar)
		}
	}
	return row
}

// PlaceItem positions a single item in the window. ok is false when the
// item's lifetime does not intersect the window.
func PlaceItem(it linear.WorkItem, w Window, now time.Time) (Bar, bool) {
	start, end, open := Lifetime(it, now)
	pos, ok := MapInterval(&start, &end, w.Start, w.End())
	if !ok {
		return Bar{}, false
	}

	segments := ReconstructSegments(it.History, it.State.ID, it.State.Type, it.CreatedAt, start, end)
	bar := Bar{
		Item:     it,
		Start:    start,
		End:      end,
		Open:     open,
		Position: pos,
		Segments: segments,
	}
	bar.Spans = placeSpans(segments, start, end, w, pos)
	return bar, true
}

// placeSpans divides the bar's drawn extent among the segments by their
// share of the visible part of the lifetime. Spans are contiguous and end
// exactly where the bar does, including bars widened to the minimum.
func placeSpans(segments []Segment, start, end time.Time, w Window, pos Position) []Span {
	visStart, visEnd := start, end
	if visStart.Before(w.Start) {
		visStart = w.Start
	}
	if visEnd.After(w.End()) {
		visEnd = w.End()
	}

	visible := visEnd.Sub(visStart)
	if visible <= 0 {
		seg := segments[0]
		for _, s := range segments {
			if !s.Start.After(visStart) {
				seg = s
			}
		}
		return []Span{{Segment: seg, Position: pos}}
	}

	spans := make([]Span, 0, len(segments))
	for _, seg := range segments {
		from, to := seg.Start, seg.End
		if from.Before(visStart) {
			from = visStart
		}
		if to.After(visEnd) {
			to = visEnd
		}
		if !to.After(from) {
			continue
		}
		spans = append(spans, Span{
			Segment: seg,
			Position: Position{
				Left:  pos.Left + float64(from.Sub(visStart))/float64(visible)*pos.Width,
				Width: float64(to.Sub(from)) / float64(visible) * pos.Width,
			},
		})
	}
	return spans
}

// Lifetime returns the item's effective start and end. Items without a
// target date are open-ended and capped at now.
func Lifetime(it linear.WorkItem, now time.Time) (start, end time.Time, open bool) {
	start = it.CreatedAt
	if it.StartDate != nil {
		start = *it.StartDate
	}
	if it.TargetDate != nil {
		return start, *it.TargetDate, false
	}
	return start, now, true
}

// sortKey orders items by target date, then start date, then creation.
func sortKey(it linear.WorkItem) time.Time {
	switch {
	case it.TargetDate != nil:
		return *it.TargetDate
	case it.StartDate != nil:
		return *it.StartDate
	default:
		return it.CreatedAt
	}
}

// SpanAt returns the segment drawn at pct, a window percentage, clamping to
// the first or last span outside the bar.
func (b Bar) SpanAt(pct float64) Segment {
	if len(b.Spans) == 0 {
		return Segment{StateID: b.Item.State.ID, StatusType: b.Item.State.Type, Start: b.Start, End: b.End}
	}
	for _, s := range b.Spans {
		if pct < s.Position.Right() {
			return s.Segment
		}
	}
	return b.Spans[len(b.Spans)-1].Segment
}

// EnabledTypes returns the status types of the enabled workflow states.
func EnabledTypes(states []linear.WorkflowState, enabled map[string]bool) map[linear.StatusType]bool {
	types := make(map[linear.StatusType]bool)
	for _, s := range states {
		if enabled[s.ID] {
			types[s.Type] = true
		}
	}
	return types
}

// DefaultEnabled enables every workflow state whose type is listed.
func DefaultEnabled(states []linear.WorkflowState, types []linear.StatusType) map[string]bool {
	want := make(map[linear.StatusType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	enabled := make(map[string]bool)
	for _, s := range states {
		if want[s.Type] {
			enabled[s.ID] = true
		}
	}
	return enabled
}

// ItemLabel renders the identifier with its estimate, e.g. "ENG-12 (3)".
func ItemLabel(it linear.WorkItem) string {
	if it.Estimate == nil {
		return it.Identifier
	}
	return it.Identifier + " (" + strconv.FormatFloat(*it.Estimate, 'f', -1, 64) + ")"
}
