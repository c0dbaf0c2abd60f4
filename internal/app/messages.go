package app

import (
	"github.com/kyleking/lazylinear/internal/frecency"
	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/loader"
)

// teamsLoadedMsg carries the result of listing teams.
type teamsLoadedMsg struct {
	teams []linear.Team
	err   error
}

// snapshotMsg carries one stage of a load. gen identifies the load that
// produced it; results of superseded loads are dropped.
type snapshotMsg struct {
	gen  int
	snap *loader.Snapshot
}

// loadFailedMsg reports a top-level failure of a load.
type loadFailedMsg struct {
	gen int
	err error
}

// storeSavedMsg reports the recently used teams after a selection.
type storeSavedMsg struct {
	store *frecency.Store
	err   error
}

// flashMsg replaces the transient status message.
type flashMsg struct {
	text string
	err  error
}
