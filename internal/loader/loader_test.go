package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kyleking/lazylinear/internal/linear"
)

var startedAfter = time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)

type fakeAPI struct {
	mu sync.Mutex

	teams     []linear.Team
	teamsErr  error
	roster    linear.Roster
	rosterErr error

	// pages[userID][n] is served for cursor "" (n = 0) or "pN".
	pages   map[string][]linear.ItemPage
	pageErr map[string]error // keyed by userID + "@" + cursor

	history      map[string][]linear.HistoryEntry
	historyErr   map[string]error
	historyCalls map[string]int
}

func (f *fakeAPI) ListTeams(_ context.Context) ([]linear.Team, error) {
	return f.teams, f.teamsErr
}

func (f *fakeAPI) GetTeamRoster(_ context.Context, teamID string) (linear.Roster, error) {
	if f.rosterErr != nil {
		return linear.Roster{}, f.rosterErr
	}
	return f.roster, nil
}

func (f *fakeAPI) ListAssignedItems(_ context.Context, userID, teamID string, after time.Time, cursor string) (linear.ItemPage, error) {
	if teamID != f.roster.Team.ID {
		return linear.ItemPage{}, fmt.Errorf("unexpected team %q", teamID)
	}
	if !after.Equal(startedAfter) {
		return linear.ItemPage{}, fmt.Errorf("unexpected startedAfter %v", after)
	}
	if err, ok := f.pageErr[userID+"@"+cursor]; ok {
		return linear.ItemPage{}, err
	}
	n := 0
	if cursor != "" {
		fmt.Sscanf(cursor, "p%d", &n)
	}
	pages := f.pages[userID]
	if n >= len(pages) {
		return linear.ItemPage{}, nil
	}
	return pages[n], nil
}

func (f *fakeAPI) GetItemHistory(_ context.Context, itemID string) ([]linear.HistoryEntry, error) {
	f.mu.Lock()
	if f.historyCalls == nil {
		f.historyCalls = make(map[string]int)
	}
	f.historyCalls[itemID]++
	f.mu.Unlock()

	if err, ok := f.historyErr[itemID]; ok {
		return nil, err
	}
	return f.history[itemID], nil
}

func (f *fakeAPI) calls(itemID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyCalls[itemID]
}

func item(id string) linear.WorkItem {
	return linear.WorkItem{
		ID:         id,
		Identifier: strings.ToUpper(id),
		State:      linear.State{ID: "s1", Type: linear.StatusStarted},
	}
}

func page(next int, items ...linear.WorkItem) linear.ItemPage {
	if next == 0 {
		return linear.ItemPage{Items: items}
	}
	return linear.ItemPage{Items: items, NextCursor: fmt.Sprintf("p%d", next), HasNext: true}
}

func newFakeAPI() *fakeAPI {
	moved := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	return &fakeAPI{
		teams: []linear.Team{{ID: "t1", Name: "Engineering"}},
		roster: linear.Roster{
			Team:           linear.Team{ID: "t1", Name: "Engineering"},
			WorkflowStates: []linear.WorkflowState{{ID: "s1", Type: linear.StatusStarted}},
			Members: []linear.Member{
				{ID: "u1", Name: "Ada"},
				{ID: "u2", Name: "Grace"},
				{ID: "u3", Name: "Linus"},
				{ID: "u4", Name: "Barbara"},
			},
		},
		pages: map[string][]linear.ItemPage{
			"u1": {page(1, item("a"), item("b")), page(0, item("c"))},
			"u2": {page(1, item("d")), page(0, item("e"))},
			"u3": {page(0)},
			"u4": {page(0, item("f"))},
		},
		history: map[string][]linear.HistoryEntry{
			"a": {{ID: "h1", CreatedAt: moved, ToState: &linear.State{ID: "s1", Type: linear.StatusStarted}}},
		},
	}
}

func itemIDs(m linear.Member) []string {
	ids := make([]string, len(m.Items))
	for i, it := range m.Items {
		ids[i] = it.ID
	}
	return ids
}

func TestLoadTimeline(t *testing.T) {
	api := newFakeAPI()
	l := New(api, DefaultOptions(), zerolog.Nop())

	snap, err := l.LoadTimeline(context.Background(), "t1", startedAfter)
	if err != nil {
		t.Fatalf("LoadTimeline() error = %v", err)
	}

	if snap.Stage != StageItems {
		t.Errorf("Stage = %v, want %v", snap.Stage, StageItems)
	}
	if snap.Team.ID != "t1" || len(snap.States) != 1 {
		t.Errorf("team = %+v, states = %d", snap.Team, len(snap.States))
	}
	if !snap.StartedAfter.Equal(startedAfter) {
		t.Errorf("StartedAfter = %v", snap.StartedAfter)
	}

	want := map[string]string{"u1": "a,b,c", "u2": "d,e", "u3": "", "u4": "f"}
	if len(snap.Members) != 4 {
		t.Fatalf("got %d members, want 4", len(snap.Members))
	}
	for i, id := range []string{"u1", "u2", "u3", "u4"} {
		m := snap.Members[i]
		if m.ID != id {
			t.Errorf("Members[%d].ID = %q, want %q", i, m.ID, id)
		}
		if got := strings.Join(itemIDs(m), ","); got != want[id] {
			t.Errorf("member %s items = %q, want %q", id, got, want[id])
		}
	}
	if snap.ItemCount() != 6 {
		t.Errorf("ItemCount() = %d, want 6", snap.ItemCount())
	}
	if snap.TruncatedMembers != 0 || len(snap.Warnings()) != 0 {
		t.Errorf("unexpected warnings %v", snap.Warnings())
	}
	for _, m := range snap.Members {
		for _, it := range m.Items {
			if it.History != nil {
				t.Errorf("item %s has history before enrichment", it.ID)
			}
		}
	}
}

func TestLoadTimeline_RosterFailure(t *testing.T) {
	api := newFakeAPI()
	api.rosterErr = &linear.HTTPError{StatusCode: 401, Status: "401 Unauthorized"}

	snap, err := New(api, DefaultOptions(), zerolog.Nop()).LoadTimeline(context.Background(), "t1", startedAfter)
	if snap != nil {
		t.Errorf("snapshot = %+v, want nil", snap)
	}
	var httpErr *linear.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 401 {
		t.Errorf("LoadTimeline() error = %v, want HTTPError 401", err)
	}
}

func TestLoadTimeline_TruncatedMember(t *testing.T) {
	api := newFakeAPI()
	api.pageErr = map[string]error{"u1@p1": errors.New("rate limited")}

	var buf bytes.Buffer
	l := New(api, DefaultOptions(), zerolog.New(&buf))

	snap, err := l.LoadTimeline(context.Background(), "t1", startedAfter)
	if err != nil {
		t.Fatalf("LoadTimeline() error = %v", err)
	}

	if got := strings.Join(itemIDs(snap.Members[0]), ","); got != "a,b" {
		t.Errorf("truncated member items = %q, want %q", got, "a,b")
	}
	if got := strings.Join(itemIDs(snap.Members[1]), ","); got != "d,e" {
		t.Errorf("other member items = %q, want %q", got, "d,e")
	}
	if snap.TruncatedMembers != 1 {
		t.Errorf("TruncatedMembers = %d, want 1", snap.TruncatedMembers)
	}
	if len(snap.Warnings()) != 1 {
		t.Errorf("Warnings() = %v", snap.Warnings())
	}

	logged := buf.String()
	for _, want := range []string{"assigned items truncated", `"member":"u1"`, "rate limited"} {
		if !strings.Contains(logged, want) {
			t.Errorf("log output missing %q:\n%s", want, logged)
		}
	}
}

func TestEnrich(t *testing.T) {
	api := newFakeAPI()
	api.historyErr = map[string]error{"d": errors.New("timeout")}
	l := New(api, DefaultOptions(), zerolog.Nop())
	ctx := context.Background()

	stage1, err := l.LoadTimeline(ctx, "t1", startedAfter)
	if err != nil {
		t.Fatalf("LoadTimeline() error = %v", err)
	}
	stage2 := l.Enrich(ctx, stage1)

	if stage2 == stage1 {
		t.Fatal("Enrich() returned the input snapshot")
	}
	if stage2.Stage != StageHistory || stage1.Stage != StageItems {
		t.Errorf("stages = %v -> %v", stage1.Stage, stage2.Stage)
	}
	if stage2.HistoryFailures != 1 {
		t.Errorf("HistoryFailures = %d, want 1", stage2.HistoryFailures)
	}

	a := stage2.Members[0].Items[0]
	if len(a.History) != 1 || a.History[0].ID != "h1" {
		t.Errorf("item a history = %+v", a.History)
	}
	if stage1.Members[0].Items[0].History != nil {
		t.Error("Enrich() modified the stage one snapshot")
	}
	if d := stage2.Members[1].Items[0]; len(d.History) != 0 {
		t.Errorf("failed item history = %+v, want empty", d.History)
	}
	if stage2.ItemCount() != stage1.ItemCount() {
		t.Errorf("ItemCount changed from %d to %d", stage1.ItemCount(), stage2.ItemCount())
	}
}

func TestEnrich_CachesHistory(t *testing.T) {
	api := newFakeAPI()
	api.historyErr = map[string]error{"d": errors.New("timeout")}
	// Item a is assigned to two members; it is fetched once.
	api.pages["u4"] = []linear.ItemPage{page(0, item("f"), item("a"))}
	l := New(api, DefaultOptions(), zerolog.Nop())
	ctx := context.Background()

	snap, err := l.Load(ctx, "t1", startedAfter, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if api.calls("a") != 1 {
		t.Errorf("history of a fetched %d times, want 1", api.calls("a"))
	}
	if got := snap.Members[3].Items[1]; len(got.History) != 1 {
		t.Errorf("duplicate item a history = %+v", got.History)
	}

	l.Enrich(ctx, snap)
	if api.calls("a") != 1 {
		t.Errorf("cached history of a refetched, calls = %d", api.calls("a"))
	}
	if api.calls("d") != 2 {
		t.Errorf("failed history of d fetched %d times, want 2", api.calls("d"))
	}

	l.Forget()
	l.Enrich(ctx, snap)
	if api.calls("a") != 2 {
		t.Errorf("history of a after Forget fetched %d times, want 2", api.calls("a"))
	}
}

func TestLoad_WithoutHistory(t *testing.T) {
	api := newFakeAPI()
	snap, err := New(api, DefaultOptions(), zerolog.Nop()).Load(context.Background(), "t1", startedAfter, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Stage != StageItems {
		t.Errorf("Stage = %v, want %v", snap.Stage, StageItems)
	}
	if api.calls("a") != 0 {
		t.Error("history fetched without enrichment")
	}
}

func TestLoader_Progress(t *testing.T) {
	var mu sync.Mutex
	got := map[Stage][]int{}
	opts := Options{
		MemberBatchSize:  3,
		HistoryBatchSize: 4,
		Progress: func(stage Stage, done, total int) {
			mu.Lock()
			defer mu.Unlock()
			got[stage] = append(got[stage], done*10+total)
		},
	}

	if _, err := New(newFakeAPI(), opts, zerolog.Nop()).Load(context.Background(), "t1", startedAfter, true); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// 4 members in chunks of 3; 6 items in chunks of 4.
	if items := got[StageItems]; len(items) != 2 || items[0] != 34 || items[1] != 44 {
		t.Errorf("items progress = %v", got[StageItems])
	}
	if h := got[StageHistory]; len(h) != 2 || h[0] != 46 || h[1] != 66 {
		t.Errorf("history progress = %v", got[StageHistory])
	}
}

func TestTeams(t *testing.T) {
	api := newFakeAPI()
	l := New(api, Options{}, zerolog.Nop())

	teams, err := l.Teams(context.Background())
	if err != nil || len(teams) != 1 {
		t.Fatalf("Teams() = %v, %v", teams, err)
	}

	api.teamsErr = linear.ErrMissingAPIKey
	if _, err := l.Teams(context.Background()); !errors.Is(err, linear.ErrMissingAPIKey) {
		t.Errorf("Teams() error = %v, want ErrMissingAPIKey", err)
	}
}
