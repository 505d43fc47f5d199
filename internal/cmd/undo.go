package cmd

import (
	"errors"
	"fmt"

	"github.com/Digital-Shane/entry-sift/internal/log"
	"github.com/Digital-Shane/entry-sift/internal/payload"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newUndoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Build the renames that revert the latest session",
		Long: `Read the newest session log and print, newest first, the rename requests
that restore every file it renamed. Moves, deletes and downloads cannot be
reverted from the log and are skipped.

The reverting requests are themselves logged, so running undo twice
restores the renamed names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, path, err := log.FindLatestSession()
			if errors.Is(err, log.ErrNoSessions) {
				fmt.Fprintln(cmd.OutOrStdout(), "No operation sessions found to undo.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read log sessions: %w", err)
			}

			inverses, err := log.InverseRenames(session)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			if len(inverses) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s has no renames to undo.\n", session.Metadata.SessionID)
				return nil
			}

			for _, inv := range inverses {
				req, err := payload.Rename(inv.EntryID, inv.Changes)
				if err != nil {
					return err
				}
				if err := emitRequest(cmd.OutOrStdout(), log.OpRename, inv.EntryID, len(inv.Changes), req); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent session logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := log.GetSessionSummaries()
			if err != nil {
				return fmt.Errorf("failed to read log sessions: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No operation sessions found.")
				return nil
			}
			if limit > 0 && len(summaries) > limit {
				summaries = summaries[:limit]
			}
			for _, s := range summaries {
				meta := s.Session.Metadata
				command := "unknown"
				if len(meta.CommandArgs) > 0 {
					command = meta.CommandArgs[0]
				}
				fmt.Fprintf(out, "%s %s  %s  %d op(s), %d file(s)  %s\n",
					runewidth.FillRight(s.Icon, 2),
					runewidth.FillRight(command, 8),
					runewidth.FillRight(s.RelativeTime, 16),
					meta.TotalOps,
					meta.TotalFiles,
					meta.SessionID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Show at most this many sessions (0 for all)")
	return cmd
}
