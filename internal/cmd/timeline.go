package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/spf13/cobra"

	"github.com/kyleking/lazylinear/internal/frecency"
	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/loader"
	"github.com/kyleking/lazylinear/internal/timeline"
)

var (
	timelineJSON      bool
	timelineNoHistory bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the team timeline without the UI",
	Long: `Load a team's timeline and print one row per item visible in the window.

Examples:
  lazylinear timeline --team ENG --range 2w
  lazylinear timeline --start 2024-03-03 --json
  lazylinear timeline --no-history      # Skip state history, one request per member`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

func init() {
	timelineCmd.Flags().BoolVar(&timelineJSON, "json", false, "Print rows as JSON")
	timelineCmd.Flags().BoolVar(&timelineNoHistory, "no-history", false, "Skip loading state history")
	rootCmd.AddCommand(timelineCmd)
}

// timelineRow is one visible item.
type timelineRow struct {
	Member     string            `json:"member"`
	Identifier string            `json:"identifier"`
	Title      string            `json:"title"`
	State      string            `json:"state"`
	StatusType linear.StatusType `json:"statusType"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Open       bool              `json:"open"`
	Left       float64           `json:"left"`
	Width      float64           `json:"width"`
	Segments   []segmentRow      `json:"segments"`
	// Spans place the visible segments in window percentages.
	Spans      []spanRow         `json:"spans"`
}

type spanRow struct {
	State string  `json:"state"`
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

type segmentRow struct {
	State      string            `json:"state"`
	StatusType linear.StatusType `json:"statusType"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Width      float64           `json:"width"`
}

func runTimeline(cmd *cobra.Command, args []string) error {
	s, err := newSession(false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	teams, err := s.loader.Teams(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	var recent []string
	if store, err := frecency.Load(s.cfg.StateFile); err == nil {
		recent = store.Top(5, now)
	}
	if s.view.team != "" {
		if _, ok := loader.FindTeam(teams, s.view.team); !ok {
			return fmt.Errorf("team %q not found, see `lazylinear teams`", s.view.team)
		}
	}
	team, ok := loader.DefaultTeam(teams, s.view.team, recent)
	if !ok {
		return fmt.Errorf("no teams available")
	}

	window := timeline.NewWindow(s.view.anchorOr(now), s.view.size)
	snap, err := s.loader.Load(ctx, team.ID, window.StartedAfter(s.cfg.Fetch.LookbackDays), !timelineNoHistory)
	if err != nil {
		return err
	}
	for _, w := range snap.Warnings() {
		s.log.Warn().Str("team", team.Name).Msg(w)
	}

	enabled := timeline.DefaultEnabled(snap.States, s.cfg.StatusTypes())
	rows := timelineRows(snap, enabled, window, now)

	out := cmd.OutOrStdout()
	if timelineJSON {
		return writeTimelineJSON(out, rows)
	}
	isTTY, width := terminal()
	return writeTimeline(out, isTTY, width, rows)
}

// timelineRows flattens the laid out member rows into one row per bar.
func timelineRows(snap *loader.Snapshot, enabled map[string]bool, window timeline.Window, now time.Time) []timelineRow {
	layout := timeline.BuildRows(timeline.LayoutInput{
		Members: snap.Members,
		States:  snap.States,
		Enabled: enabled,
		Window:  window,
		Now:     now,
	})

	var rows []timelineRow
	for _, member := range layout {
		for _, bar := range member.Bars {
			row := timelineRow{
				Member:     member.Name,
				Identifier: bar.Item.Identifier,
				Title:      bar.Item.Title,
				State:      timeline.StateName(snap.States, bar.Item.State.ID, bar.Item.State.Type),
				StatusType: bar.Item.State.Type,
				Start:      bar.Start,
				End:        bar.End,
				Open:       bar.Open,
				Left:       bar.Position.Left,
				Width:      bar.Position.Width,
				Segments:   make([]segmentRow, 0, len(bar.Segments)),
				Spans:      make([]spanRow, 0, len(bar.Spans)),
			}
			for _, seg := range bar.Segments {
				row.Segments = append(row.Segments, segmentRow{
					State:      timeline.StateName(snap.States, seg.StateID, seg.StatusType),
					StatusType: seg.StatusType,
					Start:      seg.Start,
					End:        seg.End,
					Width:      seg.Width,
				})
			}
			for _, sp := range bar.Spans {
				row.Spans = append(row.Spans, spanRow{
					State: timeline.StateName(snap.States, sp.Segment.StateID, sp.Segment.StatusType),
					Left:  sp.Position.Left,
					Width: sp.Position.Width,
				})
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// segmentSummary renders segments as "Started 40% → Done 60%".
func segmentSummary(segments []segmentRow) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", seg.State, seg.Width))
	}
	return strings.Join(parts, " → ")
}

func writeTimeline(w io.Writer, isTTY bool, width int, rows []timelineRow) error {
	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"MEMBER", "ITEM", "STATE", "START", "END", "BAR", "SEGMENTS"})
	for _, r := range rows {
		end := r.End.Format("2006-01-02")
		if r.Open {
			end = "open"
		}
		tp.AddField(r.Member)
		tp.AddField(r.Identifier)
		tp.AddField(r.State)
		tp.AddField(r.Start.Format("2006-01-02"))
		tp.AddField(end)
		tp.AddField(fmt.Sprintf("%.1f/%.1f", r.Left, r.Width))
		tp.AddField(segmentSummary(r.Segments))
		tp.EndRow()
	}
	return tp.Render()
}

func writeTimelineJSON(w io.Writer, rows []timelineRow) error {
	if rows == nil {
		rows = []timelineRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
