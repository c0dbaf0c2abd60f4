package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/kyleking/lazylinear/internal/config"
	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/loader"
	"github.com/kyleking/lazylinear/internal/logging"
	"github.com/kyleking/lazylinear/internal/timeline"
)

// viewOptions is the initial view after flags are applied.
type viewOptions struct {
	anchor time.Time
	size   timeline.RangeSize
	team   string
}

// session holds what every remote command needs.
type session struct {
	cfg      config.Config
	log      zerolog.Logger
	loader   *loader.Loader
	view     viewOptions
	closeLog func() error
}

// newSession loads config, applies flags and builds the loader. The
// interactive UI owns the terminal, so it only logs to a file.
func newSession(interactive bool, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	view, err := resolveView(cfg, teamFlag, rangeFlag, startFlag)
	if err != nil {
		return nil, err
	}

	fallback := stderr
	if interactive {
		fallback = nil
	}
	log, closeLog, err := logging.New(cfg.Log, fallback)
	if err != nil {
		return nil, err
	}

	client, err := linear.NewClient(linear.Options{
		Endpoint:        cfg.Endpoint,
		APIKey:          cfg.APIKey,
		Timeout:         cfg.Timeout,
		PageSize:        cfg.Fetch.PageSize,
		HistoryPageSize: cfg.Fetch.HistoryPageSize,
	})
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("%s: %w", linear.Describe(err), err)
	}

	l := loader.New(client, loader.Options{
		MemberBatchSize:  cfg.Fetch.MemberBatchSize,
		HistoryBatchSize: cfg.Fetch.HistoryBatchSize,
		Progress: func(stage loader.Stage, done, total int) {
			log.Debug().Stringer("stage", stage).Int("done", done).Int("total", total).Msg("batch complete")
		},
	}, log)

	return &session{
		cfg:      cfg,
		log:      log,
		loader:   l,
		view:     view,
		closeLog: closeLog,
	}, nil
}

func (s *session) close() {
	if err := s.closeLog(); err != nil {
		s.log.Warn().Err(err).Msg("closing log file")
	}
}

// resolveView applies command line flags over the configured view.
func resolveView(cfg config.Config, team, rng, start string) (viewOptions, error) {
	view := viewOptions{
		size: cfg.RangeSize(),
		team: cfg.Timeline.Team,
	}
	if team != "" {
		view.team = team
	}
	if rng != "" {
		size, err := timeline.ParseRangeSize(rng)
		if err != nil {
			return view, fmt.Errorf("--range: %w", err)
		}
		view.size = size
	}
	if start != "" {
		anchor, err := parseStart(start)
		if err != nil {
			return view, err
		}
		view.anchor = anchor
	}
	return view, nil
}

func parseStart(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--start: want YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// anchorOr returns the configured anchor, or the start of the week of now.
func (v viewOptions) anchorOr(now time.Time) time.Time {
	if v.anchor.IsZero() {
		return timeline.StartOfWeek(now)
	}
	return v.anchor
}
