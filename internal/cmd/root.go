// Package cmd implements the lazylinear command line.
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kyleking/lazylinear/internal/app"
	"github.com/kyleking/lazylinear/internal/frecency"
	"github.com/kyleking/lazylinear/internal/ui"
	"github.com/kyleking/lazylinear/internal/ui/theme"
)

var (
	configPath string
	teamFlag   string
	rangeFlag  string
	startFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "lazylinear",
	Short: "Browse a Linear team's work on a timeline",
	Long: `lazylinear shows what every member of a Linear team is working on as
bars over a calendar window, colored by the workflow state each item was in.

Examples:
  lazylinear                          # Open the current week of the default team
  lazylinear --team Platform --range 1m
  lazylinear timeline --json          # Print the timeline without the UI
  lazylinear teams                    # List teams`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/lazylinear/config.yml)")
	rootCmd.PersistentFlags().StringVar(&teamFlag, "team", "", "Team id or name to show")
	rootCmd.PersistentFlags().StringVar(&rangeFlag, "range", "", "Visible range: 1w, 2w, 1m or 3m")
	rootCmd.PersistentFlags().StringVar(&startFlag, "start", "", "First visible day as YYYY-MM-DD (default: start of this week)")
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runRoot(cmd *cobra.Command, args []string) error {
	s, err := newSession(true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	ui.InitTheme(theme.ByName(s.cfg.Theme))

	store, err := frecency.Load(s.cfg.StateFile)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.cfg.StateFile).Msg("ignoring unreadable state file")
		store = nil
	}

	model := app.New(s.loader, store, app.Options{
		Anchor:       s.view.anchor,
		Range:        s.view.size,
		Team:         s.view.team,
		EnabledTypes: s.cfg.StatusTypes(),
		LookbackDays: s.cfg.Fetch.LookbackDays,
		StateFile:    s.cfg.StateFile,
	}, s.log)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
