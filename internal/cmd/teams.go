package cmd

import (
	"context"
	"io"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/spf13/cobra"

	"github.com/kyleking/lazylinear/internal/linear"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams visible to the API key",
	Args:  cobra.NoArgs,
	RunE:  runTeams,
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}

func runTeams(cmd *cobra.Command, args []string) error {
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

	isTTY, width := terminal()
	return writeTeams(cmd.OutOrStdout(), isTTY, width, teams)
}

// terminal reports whether stdout is a terminal and how wide it is.
func terminal() (bool, int) {
	t := term.FromEnv()
	width, _, err := t.Size()
	if err != nil || width <= 0 {
		width = 80
	}
	return t.IsTerminalOutput(), width
}

func writeTeams(w io.Writer, isTTY bool, width int, teams []linear.Team) error {
	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"ID", "NAME"})
	for _, team := range teams {
		tp.AddField(team.ID)
		tp.AddField(team.Name)
		tp.EndRow()
	}
	return tp.Render()
}
