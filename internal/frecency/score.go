package frecency

import (
	"sort"
	"time"
)

// Ranked pairs an entry with its team id for sorting.
type Ranked struct {
	TeamID string
	Entry
}

// Score calculates the frecency score for an entry at now.
// Higher scores indicate more frequently and recently used teams.
func Score(entry Entry, now time.Time) float64 {
	hoursSince := now.Sub(entry.LastUsedAt).Hours()
	var recency float64
	switch {
	case hoursSince < 1:
		recency = 4.0
	case hoursSince < 24:
		recency = 2.0
	case hoursSince < 168: // 1 week
		recency = 1.0
	default:
		recency = 0.5
	}
	return float64(entry.UseCount) * recency
}

// SortByFrecency sorts entries by score in descending order. Ties go to the
// most recently used team, then to the team id.
func SortByFrecency(entries []Ranked, now time.Time) {
	sort.Slice(entries, func(i, j int) bool {
		si, sj := Score(entries[i].Entry, now), Score(entries[j].Entry, now)
		if si != sj {
			return si > sj
		}
		if !entries[i].LastUsedAt.Equal(entries[j].LastUsedAt) {
			return entries[i].LastUsedAt.After(entries[j].LastUsedAt)
		}
		return entries[i].TeamID < entries[j].TeamID
	})
}
