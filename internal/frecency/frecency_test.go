package frecency

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var now = time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  float64
	}{
		{"last hour", Entry{UseCount: 3, LastUsedAt: now.Add(-30 * time.Minute)}, 12},
		{"today", Entry{UseCount: 3, LastUsedAt: now.Add(-5 * time.Hour)}, 6},
		{"this week", Entry{UseCount: 3, LastUsedAt: now.Add(-72 * time.Hour)}, 3},
		{"older", Entry{UseCount: 3, LastUsedAt: now.AddDate(0, -1, 0)}, 1.5},
		{"never used", Entry{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.entry, now); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_RecordAndTop(t *testing.T) {
	s := NewStore()
	s.Record("old", "Old Team", now.AddDate(0, 0, -30))
	s.Record("old", "Old Team", now.AddDate(0, 0, -30))
	s.Record("old", "Old Team", now.AddDate(0, 0, -30))
	s.Record("fresh", "Fresh", now.Add(-10*time.Minute))
	s.Record("mid", "Mid", now.Add(-2*time.Hour))

	if e := s.Teams["old"]; e.UseCount != 3 || e.Name != "Old Team" {
		t.Errorf("Teams[old] = %+v", e)
	}

	got := s.Top(0, now)
	want := []string{"fresh", "mid", "old"}
	if len(got) != len(want) {
		t.Fatalf("Top() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Top()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if top := s.Top(1, now); len(top) != 1 || top[0] != "fresh" {
		t.Errorf("Top(1) = %v", top)
	}
}

func TestSortByFrecency_Ties(t *testing.T) {
	entries := []Ranked{
		{TeamID: "b", Entry: Entry{UseCount: 1, LastUsedAt: now.Add(-2 * time.Hour)}},
		{TeamID: "a", Entry: Entry{UseCount: 1, LastUsedAt: now.Add(-2 * time.Hour)}},
		{TeamID: "c", Entry: Entry{UseCount: 1, LastUsedAt: now.Add(-3 * time.Hour)}},
	}
	SortByFrecency(entries, now)

	if entries[0].TeamID != "a" || entries[1].TeamID != "b" || entries[2].TeamID != "c" {
		t.Errorf("order = %s %s %s, want a b c", entries[0].TeamID, entries[1].TeamID, entries[2].TeamID)
	}
}

func TestLoad_Missing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Teams == nil || len(s.Teams) != 0 {
		t.Errorf("Load() = %+v, want empty store", s)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	if err := os.WriteFile(path, []byte("teams: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yml")

	s := NewStore()
	s.Record("t1", "Engineering", now)
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	e, ok := loaded.Teams["t1"]
	if !ok || e.Name != "Engineering" || e.UseCount != 1 || !e.LastUsedAt.Equal(now) {
		t.Errorf("loaded entry = %+v", e)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".state-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestTouch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")

	if _, err := Touch(path, "t1", "Engineering", now.Add(-time.Hour)); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	s, err := Touch(path, "t1", "Engineering", now)
	if err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if s.Teams["t1"].UseCount != 2 {
		t.Errorf("UseCount = %d, want 2", s.Teams["t1"].UseCount)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Teams["t1"].LastUsedAt.Equal(now) {
		t.Errorf("LastUsedAt = %v, want %v", loaded.Teams["t1"].LastUsedAt, now)
	}
}
