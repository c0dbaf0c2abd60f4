// Package timeline maps work item lifecycles onto a visible date window.
//
// Every function here is pure: positions are percentages of a span and are
// recomputed from their inputs on every call.
package timeline

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// MinBarWidth is the visibility floor, in percent, applied to mapped intervals.
const MinBarWidth = 2.0

// Position is a horizontal placement as percentages of a span.
type Position struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Right returns Left + Width.
func (p Position) Right() float64 {
	return p.Left + p.Width
}

// MapInterval positions [start, end] inside [windowStart, windowEnd].
// A nil bound takes the value of the other one. ok is false when both bounds
// are nil or the interval lies entirely outside the window.
func MapInterval(start, end *time.Time, windowStart, windowEnd time.Time) (pos Position, ok bool) {
	if start == nil && end == nil {
		return Position{}, false
	}
	if !windowEnd.After(windowStart) {
		return Position{}, false
	}

	effStart, effEnd := start, end
	if effStart == nil {
		effStart = end
	}
	if effEnd == nil {
		effEnd = start
	}
	if effEnd.Before(windowStart) || effStart.After(windowEnd) {
		return Position{}, false
	}

	visibleStart := *effStart
	if visibleStart.Before(windowStart) {
		visibleStart = windowStart
	}
	visibleEnd := *effEnd
	if visibleEnd.After(windowEnd) {
		visibleEnd = windowEnd
	}

	totalDays := math.Ceil(days(windowEnd.Sub(windowStart)))
	startDays := days(visibleStart.Sub(windowStart))
	durationDays := math.Max(1, days(visibleEnd.Sub(visibleStart)))

	left := startDays / totalDays * 100
	width := durationDays / totalDays * 100

	// The one-day minimum must not spill past the window edge.
	width = math.Min(width, 100-left)
	width = math.Max(width, MinBarWidth)
	// Keeps left+width <= 100 once the minimum width applies at the edge.
	if left+width > 100 {
		left = 100 - width
	}
	return Position{Left: left, Width: width}, true
}

// NowPosition returns where now falls in the window, as a percentage of its
// span. ok is false when now lies outside [0, 100].
func NowPosition(w Window, now time.Time) (float64, bool) {
	span := w.End().Sub(w.Start)
	if span <= 0 {
		return 0, false
	}
	pct := float64(now.Sub(w.Start)) / float64(span) * 100
	return pct, pct >= 0 && pct <= 100
}

func days(d time.Duration) float64 {
	return float64(d) / float64(day)
}
