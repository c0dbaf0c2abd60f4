package timeline

import (
	"fmt"
	"time"
)

// RangeSize is the number of days shown at once.
type RangeSize string

// Range sizes
const (
	Range1W RangeSize = "1w"
	Range2W RangeSize = "2w"
	Range1M RangeSize = "1m"
	Range3M RangeSize = "3m"
)

// RangeSizes lists the selectable sizes in ascending order.
var RangeSizes = []RangeSize{Range1W, Range2W, Range1M, Range3M}

// Direction is the paging direction for ShiftWindow.
type Direction int

const (
	Earlier Direction = iota
	Later
)

// DaysForRangeSize maps a range size to its day count. Unknown sizes map to 14.
func DaysForRangeSize(size RangeSize) int {
	switch size {
	case Range1W:
		return 7
	case Range2W:
		return 14
	case Range1M:
		return 30
	case Range3M:
		return 90
	default:
		return 14
	}
}

// ParseRangeSize validates a user supplied range size.
func ParseRangeSize(s string) (RangeSize, error) {
	for _, r := range RangeSizes {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown range %q (want one of 1w, 2w, 1m, 3m)", s)
}

// Label returns a short human readable name.
func (r RangeSize) Label() string {
	switch r {
	case Range1W:
		return "1 week"
	case Range2W:
		return "2 weeks"
	case Range1M:
		return "1 month"
	case Range3M:
		return "3 months"
	default:
		return string(r)
	}
}

// GenerateWindow returns the consecutive calendar days starting at anchor.
// The anchor is expected to be normalized to midnight by the caller.
func GenerateWindow(anchor time.Time, size RangeSize) []time.Time {
	n := DaysForRangeSize(size)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = anchor.AddDate(0, 0, i)
	}
	return dates
}

// ShiftWindow moves anchor by one full window in the given direction.
func ShiftWindow(anchor time.Time, size RangeSize, dir Direction) time.Time {
	n := DaysForRangeSize(size)
	if dir == Earlier {
		n = -n
	}
	return anchor.AddDate(0, 0, n)
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Window is the visible span: an anchor day and a range size.
type Window struct {
	Start time.Time
	Size  RangeSize
}

// NewWindow normalizes anchor to midnight.
func NewWindow(anchor time.Time, size RangeSize) Window {
	return Window{Start: StartOfDay(anchor), Size: size}
}

// Days returns the number of days in the window.
func (w Window) Days() int {
	return DaysForRangeSize(w.Size)
}

// End returns the instant just past the last visible day.
func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, w.Days())
}

// LastDay returns the last visible calendar day.
func (w Window) LastDay() time.Time {
	return w.Start.AddDate(0, 0, w.Days()-1)
}

// Dates returns the days of the window.
func (w Window) Dates() []time.Time {
	return GenerateWindow(w.Start, w.Size)
}

// Shift returns the adjacent window in dir.
func (w Window) Shift(dir Direction) Window {
	return Window{Start: ShiftWindow(w.Start, w.Size, dir), Size: w.Size}
}

// Resize keeps the anchor and changes the size.
func (w Window) Resize(size RangeSize) Window {
	return Window{Start: w.Start, Size: size}
}

// StartedAfter returns the lower bound for the assigned items query:
// lookbackDays before the anchor.
func (w Window) StartedAfter(lookbackDays int) time.Time {
	return w.Start.AddDate(0, 0, -lookbackDays)
}
