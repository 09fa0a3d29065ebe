package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the board to a GCS bucket or a directory and back",
		Long: `Snapshots hold the tasks and the timer session as stored locally.

The target is FOCUSBOARD_BACKUP_GCS_BUCKET (objects under
FOCUSBOARD_BACKUP_PREFIX) or, when no bucket is set, FOCUSBOARD_BACKUP_DIR.`,
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Write a snapshot of the local records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.Backups(cmd.Context())
			if err != nil {
				return err
			}
			info, err := svc.Push(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %s (%d bytes)\n", info.Name, info.Size)
			return nil
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List snapshots, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.Backups(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "no snapshots")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(out, "%-32s %s %8d\n", info.Name, info.TakenAt.Local().Format(time.DateTime), info.Size)
			}
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore [name]",
		Short: "Replace the local records with a snapshot (default: newest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			svc, err := a.Backups(cmd.Context())
			if err != nil {
				return err
			}
			info, err := svc.Restore(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s taken %s\n", info.Name, info.TakenAt.Local().Format(time.DateTime))
			return nil
		},
	}

	cmd.AddCommand(push, list, restore)
	return cmd
}
