package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/focusboard/internal/application/focus"
	"github.com/rezkam/focusboard/internal/application/timer"
	"github.com/rezkam/focusboard/internal/domain"
)

func newTimerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the pomodoro timer",
	}
	cmd.AddCommand(
		newTimerStartCmd(a),
		newTimerPauseCmd(a),
		newTimerStopCmd(a),
		newTimerStatusCmd(a),
		newTimerWatchCmd(a),
		newTimerFinishCmd(a),
	)
	return cmd
}

func newTimerStartCmd(a *app) *cobra.Command {
	var (
		minutes int
		bump    string
		follow  bool
	)

	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start a focus session and move the task to Doing",
		Long: `Start a focus session on a task and move it to Doing.

Only one session runs at a time. When another task owns the running
session, pass --bump row or --bump todo to say where that task goes;
its time so far is credited before the new session starts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resolution, err := focus.ParseResolution(bump)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}

			session, err := coordinator.StartFocus(ctx, id, minutes, resolution)
			var conflict *focus.ConflictError
			if errors.As(err, &conflict) {
				return fmt.Errorf("%w\nrerun with --bump row or --bump todo to move #%d out of Doing",
					err, conflict.Current.ID)
			}
			if err != nil && session.TaskID == 0 {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "focusing on #%d for %d minutes\n", session.TaskID, session.Duration)
			if err := writeErr(cmd, err); err != nil {
				return err
			}
			if follow {
				return watch(cmd, a)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&minutes, "minutes", "m", 0, fmt.Sprintf("session length, %d to %d (default from FOCUSBOARD_TIMER_DEFAULT_MINUTES)",
		domain.MinTimerMinutes, domain.MaxTimerMinutes))
	f.StringVarP(&bump, "bump", "b", "", "where the task owning a running session goes: row or todo")
	f.BoolVarP(&follow, "watch", "w", false, "keep running and show the countdown")
	return cmd
}

func newTimerPauseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause or resume the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}
			session, err := coordinator.TogglePause(ctx)
			if err != nil && session.TaskID == 0 {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), timerLine(session))
			return writeErr(cmd, err)
		},
	}
}

func newTimerStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "End the session and credit its time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}
			report, err := coordinator.StopFocus(ctx)
			if report.TaskID == 0 {
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "no focus session")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stopped, %s credited to #%d\n", formatSpent(report.ElapsedSeconds), report.TaskID)
			return writeErr(cmd, err)
		},
	}
}

func newTimerStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}
			session, task, ok := coordinator.Status(ctx)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no focus session")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(session, task))
			return nil
		},
	}
}

func newTimerWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show the countdown until the session completes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd, a)
		},
	}
}

func newTimerFinishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "finish <done|reset|later>",
		Short: "Answer a completed session",
		Long: `Answer a completed session:

  done   credit the time and archive the task (checklist must be complete)
  reset  credit the time and start another session on the same task
  later  credit the time and send the task back to To Do`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(focus.FinishDone), string(focus.FinishReset), string(focus.FinishLater)},
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := focus.ParseFinishAction(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}
			task, err := coordinator.Finish(ctx, action)
			if err != nil && task.ID == 0 {
				return err
			}
			if err != nil && !errors.Is(err, domain.ErrPersistence) {
				return err
			}
			a.resume.Expired = nil
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s → %s, %s spent\n", task.ID, task.Title, task.Status.Label(), formatSpent(task.TimeSpent))
			return writeErr(cmd, err)
		},
	}
}

// watch redraws the session line every tick until the session completes,
// disappears or the context is cancelled.
func watch(cmd *cobra.Command, a *app) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	coordinator, err := a.Open(ctx)
	if err != nil {
		return err
	}

	interval := a.cfg.Timer.TickInterval
	go func() { _ = a.timer.Run(ctx, interval) }()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	out := cmd.OutOrStdout()
	for {
		select {
		case c := <-a.timer.Completions():
			announce(cmd, coordinator, c)
			a.resume.Expired = nil
			return nil
		default:
		}

		session, task, ok := coordinator.Status(ctx)
		if !ok {
			fmt.Fprintln(out, "no focus session")
			return nil
		}
		if session.IsCompleted {
			fmt.Fprintln(out, renderStatus(session, task))
			fmt.Fprintln(out, "next: focusboard timer finish done|reset|later")
			return nil
		}
		fmt.Fprintf(out, "\r%-60s", renderStatus(session, task))

		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case c := <-a.timer.Completions():
			announce(cmd, coordinator, c)
			return nil
		case <-ticker.C:
		}
	}
}

func announce(cmd *cobra.Command, coordinator *focus.Coordinator, c timer.Completion) {
	coordinator.HandleCompletion(cmd.Context(), c)
	out := cmd.OutOrStdout()
	if c.Retroactive {
		fmt.Fprintf(out, "\nfocus session on #%d ended while nothing was running, its time was credited\n", c.Session.TaskID)
		return
	}
	fmt.Fprintf(out, "\n✔ %d minute session on #%d complete\n", c.Session.Duration, c.Session.TaskID)
	if c.Err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: completed session could not be saved")
	}
	fmt.Fprintln(out, "next: focusboard timer finish done|reset|later")
}
