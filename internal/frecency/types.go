package frecency

import "time"

// Store holds team usage history keyed by team id.
type Store struct {
	Teams map[string]Entry `yaml:"teams"`
}

// Entry records how often and how recently a team was opened.
type Entry struct {
	Name       string    `yaml:"name"`
	UseCount   int       `yaml:"use_count"`
	LastUsedAt time.Time `yaml:"last_used_at"`
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		Teams: make(map[string]Entry),
	}
}

// Record notes that the team was opened at now.
func (s *Store) Record(teamID, name string, now time.Time) {
	if s.Teams == nil {
		s.Teams = make(map[string]Entry)
	}
	e := s.Teams[teamID]
	e.Name = name
	e.UseCount++
	e.LastUsedAt = now
	s.Teams[teamID] = e
}

// Top returns up to n team ids ordered by frecency at now. n <= 0 returns
// every team.
func (s *Store) Top(n int, now time.Time) []string {
	ranked := make([]Ranked, 0, len(s.Teams))
	for id, e := range s.Teams {
		ranked = append(ranked, Ranked{TeamID: id, Entry: e})
	}
	SortByFrecency(ranked, now)

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.TeamID
	}
	return ids
}
