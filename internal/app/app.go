package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/kyleking/lazylinear/internal/browser"
	"github.com/kyleking/lazylinear/internal/frecency"
	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/loader"
	"github.com/kyleking/lazylinear/internal/timeline"
	"github.com/kyleking/lazylinear/internal/ui"
	"github.com/kyleking/lazylinear/internal/ui/modal"
	"github.com/kyleking/lazylinear/internal/ui/panes"
)

// ErrNoTeams is shown when the workspace has no teams.
var ErrNoTeams = errors.New("no teams available")

// recentTeams is how many frecent teams compete for the default selection.
const recentTeams = 5

// FocusedPane represents which pane currently has focus.
type FocusedPane int

const (
	PaneTimeline FocusedPane = iota
	PaneFilter
)

// Options configures the initial screen.
type Options struct {
	// Anchor is the first visible day; zero means the start of this week.
	Anchor       time.Time
	Range        timeline.RangeSize
	Team         string
	EnabledTypes []linear.StatusType
	LookbackDays int
	StateFile    string
	Now          func() time.Time
}

// Model is the root bubbletea model for the application.
type Model struct {
	source Source
	opts   Options
	log    zerolog.Logger
	store  *frecency.Store

	teams        []linear.Team
	team         linear.Team
	window       timeline.Window
	snapshot     *loader.Snapshot
	enabled      map[string]bool
	enabledTeam  string
	gen          int
	ctx          context.Context
	cancel       context.CancelFunc
	loading      loader.Stage
	loadingTeams bool
	err          error
	flash        string

	timeline   panes.TimelineModel
	filter     panes.FilterModel
	focused    FocusedPane
	spinner    spinner.Model
	help       help.Model
	modalStack *modal.Stack

	width  int
	height int
	keys   KeyMap
}

// New creates a new application model.
func New(source Source, store *frecency.Store, opts Options, log zerolog.Logger) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Range == "" {
		opts.Range = timeline.Range1W
	}
	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = timeline.StartOfWeek(opts.Now())
	}
	if store == nil {
		store = frecency.NewStore()
	}

	return Model{
		source:       source,
		opts:         opts,
		log:          log,
		store:        store,
		window:       timeline.NewWindow(anchor, opts.Range),
		enabled:      map[string]bool{},
		loadingTeams: true,
		timeline:     panes.NewTimelineModel(),
		filter:       panes.NewFilterModel(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.SelectedStyle)),
		help:         help.New(),
		modalStack:   modal.NewStack(),
		keys:         DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadTeamsCmd(context.Background(), m.source))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.modalStack.SetSize(msg.Width, msg.Height)
		m.timeline.SetSize(msg.Width, m.timelineHeight())
		m.filter.SetWidth(msg.Width)
		if m.modalStack.HasActive() {
			return m, m.modalStack.Update(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case teamsLoadedMsg:
		return m.handleTeamsLoaded(msg)

	case snapshotMsg:
		return m.handleSnapshot(msg)

	case loadFailedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = 0
		m.err = msg.err
		m.stopLoad()
		m.log.Error().Err(msg.err).Str("team", m.team.ID).Msg("load failed")
		return m, nil

	case storeSavedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("saving recent teams")
			return m, nil
		}
		m.store = msg.store
		return m, nil

	case flashMsg:
		if msg.err != nil {
			m.flash = ""
			m.err = msg.err
			return m, nil
		}
		m.flash = msg.text
		return m, nil

	case modal.TeamSelectedMsg:
		return m.selectTeam(msg.Team)

	case modal.ItemActionMsg:
		return m, m.itemAction(msg.Action, msg.Item)

	case panes.FilterChangedMsg:
		m.enabled = msg.Enabled
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		if m.modalStack.HasActive() {
			return m, m.modalStack.Update(msg)
		}
		return m.handleKeyMsg(msg)
	}

	if m.modalStack.HasActive() {
		return m, m.modalStack.Update(msg)
	}
	var cmd tea.Cmd
	m.timeline, cmd = m.timeline.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focused == PaneFilter {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopLoad()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modalStack.Push(modal.NewHelpModal(m.keys.FullHelp()))
		return m, nil

	case key.Matches(msg, m.keys.Earlier):
		return m.setWindow(m.window.Shift(timeline.Earlier))

	case key.Matches(msg, m.keys.Later):
		return m.setWindow(m.window.Shift(timeline.Later))

	case key.Matches(msg, m.keys.Range1W):
		return m.setWindow(m.window.Resize(timeline.Range1W))

	case key.Matches(msg, m.keys.Range2W):
		return m.setWindow(m.window.Resize(timeline.Range2W))

	case key.Matches(msg, m.keys.Range1M):
		return m.setWindow(m.window.Resize(timeline.Range1M))

	case key.Matches(msg, m.keys.Range3M):
		return m.setWindow(m.window.Resize(timeline.Range3M))

	case key.Matches(msg, m.keys.Today):
		return m.setWindow(timeline.NewWindow(timeline.StartOfWeek(m.opts.Now()), m.window.Size))

	case key.Matches(msg, m.keys.Up):
		m.timeline.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.timeline.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		bar, ok := m.timeline.SelectedBar()
		if !ok || m.snapshot == nil {
			return m, nil
		}
		member, _ := m.timeline.SelectedMember()
		m.modalStack.Push(modal.NewItemDetailModal(bar, member.Label(), m.snapshot.States, m.opts.Now(), m.width, m.height))
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if bar, ok := m.timeline.SelectedBar(); ok {
			return m, m.itemAction(modal.ActionOpen, bar.Item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if bar, ok := m.timeline.SelectedBar(); ok {
			return m, m.itemAction(modal.ActionCopyURL, bar.Item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Team):
		if len(m.teams) == 0 {
			return m, nil
		}
		m.modalStack.Push(modal.NewTeamPickerModal(m.teams, m.store.Top(recentTeams, m.opts.Now()), m.team.ID))
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.setFocus(PaneFilter)
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.team.ID == "" {
			m.loadingTeams = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, loadTeamsCmd(context.Background(), m.source))
		}
		m.source.Forget()
		return m.startLoad()
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopLoad()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Escape):
		m.setFocus(PaneTimeline)
	case key.Matches(msg, m.keys.Left):
		m.filter.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		m.filter.MoveRight()
	case key.Matches(msg, m.keys.Toggle):
		return m, m.filter.Toggle()
	}
	return m, nil
}

func (m *Model) setFocus(p FocusedPane) {
	m.focused = p
	m.timeline.SetFocused(p == PaneTimeline)
	m.filter.SetFocused(p == PaneFilter)
}

func (m Model) handleTeamsLoaded(msg teamsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingTeams = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.teams = msg.teams

	team, ok := loader.DefaultTeam(msg.teams, m.opts.Team, m.store.Top(recentTeams, m.opts.Now()))
	if !ok {
		m.err = ErrNoTeams
		return m, nil
	}
	if m.opts.Team != "" {
		if _, found := loader.FindTeam(msg.teams, m.opts.Team); !found {
			m.flash = fmt.Sprintf("Team %q not found, showing %s", m.opts.Team, team.Name)
		}
	}
	return m.selectTeam(team)
}

func (m Model) selectTeam(team linear.Team) (tea.Model, tea.Cmd) {
	changed := team.ID != m.team.ID
	m.team = team
	m.setFocus(PaneTimeline)
	if changed {
		m.snapshot = nil
		m.refreshRows()
	}
	model, load := m.startLoad()
	return model, tea.Batch(load, touchTeamCmd(m.opts.StateFile, team.ID, team.Name, m.opts.Now()))
}

// setWindow shows the current data in the new window right away and
// starts a fresh load for it.
func (m Model) setWindow(w timeline.Window) (tea.Model, tea.Cmd) {
	m.window = w
	m.refreshRows()
	if m.team.ID == "" {
		return m, nil
	}
	return m.startLoad()
}

// startLoad begins a new load generation, abandoning any load in flight.
func (m Model) startLoad() (Model, tea.Cmd) {
	m.stopLoad()
	ctx, cancel := context.WithCancel(context.Background())
	m.ctx = ctx
	m.cancel = cancel
	m.gen++
	m.loading = loader.StageItems
	startedAfter := m.window.StartedAfter(m.opts.LookbackDays)
	m.log.Debug().
		Int("gen", m.gen).
		Str("team", m.team.ID).
		Time("started_after", startedAfter).
		Msg("load started")
	return m, tea.Batch(m.spinner.Tick, loadItemsCmd(ctx, m.source, m.gen, m.team.ID, startedAfter))
}

func (m *Model) stopLoad() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || msg.snap == nil {
		return m, nil
	}

	m.snapshot = msg.snap
	m.err = nil
	if msg.snap.Team.ID != m.enabledTeam {
		m.enabled = timeline.DefaultEnabled(msg.snap.States, m.opts.EnabledTypes)
		m.enabledTeam = msg.snap.Team.ID
	}
	m.refreshRows()

	if msg.snap.Stage == loader.StageItems {
		m.loading = loader.StageHistory
		return m, enrichCmd(m.ctx, m.source, msg.gen, msg.snap)
	}
	m.loading = 0
	m.stopLoad()
	return m, nil
}

func (m *Model) refreshRows() {
	now := m.opts.Now()
	if m.snapshot == nil {
		m.timeline.SetData(nil, timeline.NewPalette(nil), m.window, now)
		m.filter.SetStates(nil, m.enabled)
		return
	}
	rows := timeline.BuildRows(timeline.LayoutInput{
		Members: m.snapshot.Members,
		States:  m.snapshot.States,
		Enabled: m.enabled,
		Window:  m.window,
		Now:     now,
	})
	m.timeline.SetData(rows, timeline.NewPalette(m.snapshot.States), m.window, now)
	m.filter.SetStates(m.snapshot.States, m.enabled)
}

func (m Model) itemAction(action modal.ItemAction, item linear.WorkItem) tea.Cmd {
	url := browser.IssueURL(item.Identifier)
	if url == "" {
		return nil
	}
	switch action {
	case modal.ActionOpen:
		return openURLCmd(url)
	case modal.ActionCopyURL:
		return copyURLCmd(url)
	}
	return nil
}

func (m Model) timelineHeight() int {
	return max(m.height-4, 5)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.filter.View(),
		m.timeline.View(),
		m.viewStatus(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)

	if m.modalStack.HasActive() {
		return m.modalStack.Render(main)
	}
	return main
}

func (m Model) viewHeader() string {
	team := m.team.Name
	if team == "" {
		team = "no team"
	}
	last := m.window.LastDay()
	span := fmt.Sprintf("%s - %s", m.window.Start.Format("Jan 2"), last.Format("Jan 2, 2006"))
	return ui.TitleStyle.Render("lazylinear") + "  " +
		ui.NormalStyle.Render(team) + "  " +
		ui.SubtitleStyle.Render(span+" ("+m.window.Size.Label()+")")
}

func (m Model) viewStatus() string {
	var parts []string
	switch {
	case m.loadingTeams:
		parts = append(parts, m.spinner.View()+" loading teams...")
	case m.loading != 0:
		parts = append(parts, m.spinner.View()+" loading "+m.loading.String()+"...")
	case m.snapshot != nil:
		parts = append(parts, ui.SubtitleStyle.Render(fmt.Sprintf("%d items, updated %s",
			m.snapshot.ItemCount(), m.snapshot.FetchedAt.Format(time.Kitchen))))
	}

	if m.err != nil {
		parts = append(parts, ui.ErrorStyle.Render(statusText(linear.Describe(m.err), max(m.width-4, 20))))
	}
	if m.snapshot != nil {
		for _, w := range m.snapshot.Warnings() {
			parts = append(parts, ui.WarningStyle.Render(w))
		}
	}
	if m.flash != "" {
		parts = append(parts, ui.NormalStyle.Render(m.flash))
	}
	return strings.Join(parts, "  ")
}

// Err returns the error currently shown on the status line.
func (m Model) Err() error {
	return m.err
}

// Team returns the team on screen.
func (m Model) Team() linear.Team {
	return m.team
}

// Window returns the visible window.
func (m Model) Window() timeline.Window {
	return m.window
}

// Snapshot returns the data on screen.
func (m Model) Snapshot() *loader.Snapshot {
	return m.snapshot
}
