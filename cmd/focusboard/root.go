package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rezkam/focusboard/internal/domain"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "focusboard",
		Short: "Kanban board with a pomodoro timer",
		Long: `focusboard keeps tasks on a four column board (To Do, Row, Doing, Done)
and runs one pomodoro session at a time.

Doing holds one task and Row holds one task. Moving a task into either
column pushes the previous occupant down the chain: Doing to Row, Row to
To Do. Done tasks leave the board and are kept in the archive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showBoard(cmd, a)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if expired := a.resume.Expired; expired != nil {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"note: the %d minute session on #%d ran out while nothing was watching, %s credited\n",
					expired.Session.Duration, expired.Session.TaskID, formatSpent(a.resume.Report.ElapsedSeconds))
			}
		},
	}

	root.AddCommand(
		newBoardCmd(a),
		newArchiveCmd(a),
		newTaskCmd(a),
		newCheckCmd(a),
		newTimerCmd(a),
		newBackupCmd(a),
		newVersionCmd(),
	)
	return root
}

func newBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showBoard(cmd, a)
		},
	}
}

func showBoard(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	coordinator, err := a.Open(ctx)
	if err != nil {
		return err
	}

	var active *domain.PomodoroSession
	if session, _, ok := coordinator.Status(ctx); ok {
		active = &session
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderBoard(a.board.Board(ctx), active))
	return nil
}

func newArchiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "List archived tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.Open(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderArchive(a.board.Archived(cmd.Context())))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "focusboard %s\n", version)
		},
	}
}

// parseID reads a task id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidID, s)
	}
	if err := domain.ValidateTaskID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// writeErr turns a failed save into a warning. The change is applied but
// will be lost when the process exits, so the command still fails.
func writeErr(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrPersistence) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: change could not be saved")
	}
	return err
}
