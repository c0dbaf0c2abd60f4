package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/lazylinear/internal/browser"
	"github.com/kyleking/lazylinear/internal/frecency"
	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/loader"
)

// Source is the data pipeline behind the screen.
type Source interface {
	Teams(ctx context.Context) ([]linear.Team, error)
	LoadTimeline(ctx context.Context, teamID string, startedAfter time.Time) (*loader.Snapshot, error)
	Enrich(ctx context.Context, snap *loader.Snapshot) *loader.Snapshot
	Forget()
}

var _ Source = (*loader.Loader)(nil)

func loadTeamsCmd(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		teams, err := src.Teams(ctx)
		return teamsLoadedMsg{teams: teams, err: err}
	}
}

// loadItemsCmd runs stage one of a load.
func loadItemsCmd(ctx context.Context, src Source, gen int, teamID string, startedAfter time.Time) tea.Cmd {
	return func() tea.Msg {
		snap, err := src.LoadTimeline(ctx, teamID, startedAfter)
		if err != nil {
			return loadFailedMsg{gen: gen, err: err}
		}
		return snapshotMsg{gen: gen, snap: snap}
	}
}

// enrichCmd runs stage two of a load on the stage one snapshot.
func enrichCmd(ctx context.Context, src Source, gen int, snap *loader.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{gen: gen, snap: src.Enrich(ctx, snap)}
	}
}

func touchTeamCmd(path, teamID, name string, now time.Time) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		store, err := frecency.Touch(path, teamID, name, now)
		return storeSavedMsg{store: store, err: err}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return flashMsg{err: fmt.Errorf("opening browser: %w", err)}
		}
		return flashMsg{text: "Opened " + url}
	}
}

func copyURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return flashMsg{err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return flashMsg{text: "Copied " + url}
	}
}
