package loader

import (
	"strings"

	"github.com/kyleking/lazylinear/internal/linear"
)

// FindTeam matches query against team ids, then names case-insensitively.
func FindTeam(teams []linear.Team, query string) (linear.Team, bool) {
	if query == "" {
		return linear.Team{}, false
	}
	for _, t := range teams {
		if t.ID == query {
			return t, true
		}
	}
	for _, t := range teams {
		if strings.EqualFold(t.Name, query) {
			return t, true
		}
	}
	return linear.Team{}, false
}

// DefaultTeam picks the team to show first: the configured team, then the
// first recently used team that still exists, then a team whose name
// mentions engineering, then the first team. ok is false only when teams is
// empty.
func DefaultTeam(teams []linear.Team, configured string, recent []string) (linear.Team, bool) {
	if len(teams) == 0 {
		return linear.Team{}, false
	}
	if t, ok := FindTeam(teams, configured); ok {
		return t, true
	}
	for _, id := range recent {
		for _, t := range teams {
			if t.ID == id {
				return t, true
			}
		}
	}
	for _, t := range teams {
		if strings.Contains(strings.ToLower(t.Name), "engineering") {
			return t, true
		}
	}
	return teams[0], true
}
