// Package loader assembles a team's timeline from the remote API in two
// stages: the roster with assigned items, then per-item state history.
package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kyleking/lazylinear/internal/fetch"
	"github.com/kyleking/lazylinear/internal/linear"
)

// API is the subset of the Linear client the loader depends on.
type API interface {
	ListTeams(ctx context.Context) ([]linear.Team, error)
	GetTeamRoster(ctx context.Context, teamID string) (linear.Roster, error)
	ListAssignedItems(ctx context.Context, userID, teamID string, startedAfter time.Time, cursor string) (linear.ItemPage, error)
	GetItemHistory(ctx context.Context, itemID string) ([]linear.HistoryEntry, error)
}

var _ API = (*linear.Client)(nil)

// Options bounds the number of requests in flight.
type Options struct {
	MemberBatchSize  int
	HistoryBatchSize int
	// Progress, when set, receives updates as batches complete.
	Progress func(stage Stage, done, total int)
}

// DefaultOptions returns the batch sizes used against the public API.
func DefaultOptions() Options {
	return Options{MemberBatchSize: 3, HistoryBatchSize: 10}
}

// Loader runs the two load stages. It is safe for concurrent use.
type Loader struct {
	api  API
	opts Options
	log  zerolog.Logger
	now  func() time.Time

	mu      sync.Mutex
	history map[string][]linear.HistoryEntry
}

// New creates a Loader. Non-positive batch sizes fall back to the defaults.
func New(api API, opts Options, log zerolog.Logger) *Loader {
	def := DefaultOptions()
	if opts.MemberBatchSize < 1 {
		opts.MemberBatchSize = def.MemberBatchSize
	}
	if opts.HistoryBatchSize < 1 {
		opts.HistoryBatchSize = def.HistoryBatchSize
	}
	return &Loader{
		api:     api,
		opts:    opts,
		log:     log,
		now:     time.Now,
		history: make(map[string][]linear.HistoryEntry),
	}
}

// Teams lists the teams visible to the credential.
func (l *Loader) Teams(ctx context.Context) ([]linear.Team, error) {
	teams, err := l.api.ListTeams(ctx)
	if err != nil {
		l.log.Error().Err(err).Msg("list teams failed")
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return teams, nil
}

// LoadTimeline is stage one: the team roster and every member's assigned
// items, without history.
//
// A failing roster query aborts the load. A member whose pagination fails is
// kept with the items fetched so far and counted in TruncatedMembers.
func (l *Loader) LoadTimeline(ctx context.Context, teamID string, startedAfter time.Time) (*Snapshot, error) {
	began := l.now()

	roster, err := l.api.GetTeamRoster(ctx, teamID)
	if err != nil {
		l.log.Error().Err(err).Str("team", teamID).Msg("load roster failed")
		return nil, fmt.Errorf("loading team %s: %w", teamID, err)
	}

	batcher := fetch.Batcher{Size: l.opts.MemberBatchSize, Progress: l.progress(StageItems)}
	results := fetch.InBatches(ctx, batcher, roster.Members, func(ctx context.Context, m linear.Member) (fetch.Result[linear.WorkItem], error) {
		return fetch.Paginate(ctx, func(ctx context.Context, cursor string) (fetch.Page[linear.WorkItem], error) {
			page, err := l.api.ListAssignedItems(ctx, m.ID, roster.Team.ID, startedAfter, cursor)
			if err != nil {
				return fetch.Page[linear.WorkItem]{}, err
			}
			return fetch.Page[linear.WorkItem]{Items: page.Items, NextCursor: page.NextCursor, HasNext: page.HasNext}, nil
		}), nil
	})

	snap := &Snapshot{
		Team:         roster.Team,
		States:       roster.WorkflowStates,
		Members:      make([]linear.Member, len(roster.Members)),
		Stage:        StageItems,
		StartedAfter: startedAfter,
	}
	for i, m := range roster.Members {
		res := results[i].Value
		if err := results[i].Err; err != nil {
			res.Err = err
		}
		if res.Truncated() {
			snap.TruncatedMembers++
			l.log.Warn().
				Err(res.Err).
				Str("member", m.ID).
				Int("pages", res.Pages).
				Int("items", len(res.Items)).
				Msg("assigned items truncated")
		}
		m.Items = res.Items
		snap.Members[i] = m
	}

	snap.FetchedAt = l.now()
	l.log.Debug().
		Str("team", roster.Team.Name).
		Int("members", len(snap.Members)).
		Int("items", snap.ItemCount()).
		Dur("took", snap.FetchedAt.Sub(began)).
		Msg("stage items loaded")
	return snap, nil
}

// Enrich is stage two: it attaches state history to every item of snap and
// returns a new snapshot. snap itself is not modified.
//
// Histories are cached by item id across calls. An item whose history cannot
// be fetched gets an empty history and is counted in HistoryFailures.
func (l *Loader) Enrich(ctx context.Context, snap *Snapshot) *Snapshot {
	began := l.now()

	ids := l.missingHistory(snap)
	batcher := fetch.Batcher{Size: l.opts.HistoryBatchSize, Progress: l.progress(StageHistory)}
	outcomes := fetch.InBatches(ctx, batcher, ids, l.api.GetItemHistory)

	failures := 0
	l.mu.Lock()
	for i, o := range outcomes {
		if o.Err != nil {
			failures++
			l.log.Warn().Err(o.Err).Str("item", ids[i]).Msg("item history unavailable")
			continue
		}
		l.history[ids[i]] = o.Value
	}
	enriched := snap.clone()
	for mi := range enriched.Members {
		items := enriched.Members[mi].Items
		for ii := range items {
			items[ii] = items[ii].WithHistory(l.history[items[ii].ID])
		}
	}
	l.mu.Unlock()

	enriched.Stage = StageHistory
	enriched.HistoryFailures = failures
	enriched.FetchedAt = l.now()

	l.log.Debug().
		Int("fetched", len(ids)).
		Int("failed", failures).
		Dur("took", enriched.FetchedAt.Sub(began)).
		Msg("stage history loaded")
	return enriched
}

// Load runs stage one and, when withHistory is set, stage two.
func (l *Loader) Load(ctx context.Context, teamID string, startedAfter time.Time, withHistory bool) (*Snapshot, error) {
	snap, err := l.LoadTimeline(ctx, teamID, startedAfter)
	if err != nil {
		return nil, err
	}
	if !withHistory {
		return snap, nil
	}
	return l.Enrich(ctx, snap), nil
}

// Forget drops every cached history so the next Enrich refetches them.
func (l *Loader) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = make(map[string][]linear.HistoryEntry)
}

// missingHistory returns the distinct item ids of snap without a cached
// history, in first-seen order.
func (l *Loader) missingHistory(snap *Snapshot) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]bool)
	var ids []string
	for _, m := range snap.Members {
		for _, it := range m.Items {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			if _, ok := l.history[it.ID]; !ok {
				ids = append(ids, it.ID)
			}
		}
	}
	return ids
}

func (l *Loader) progress(stage Stage) func(done, total int) {
	if l.opts.Progress == nil {
		return nil
	}
	return func(done, total int) {
		l.opts.Progress(stage, done, total)
	}
}
