package cmd

import (
	"errors"
	"fmt"

	"github.com/Digital-Shane/entry-sift/internal/log"
	"github.com/Digital-Shane/entry-sift/internal/payload"
	"github.com/Digital-Shane/entry-sift/internal/tui/browse"
	"github.com/Digital-Shane/entry-sift/internal/tui/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runProgram runs a bubbletea program to completion and returns its final model.
var runProgram = func(model tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	return tea.NewProgram(model, opts...).Run()
}

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var ascii bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the listing interactively",
		Long: `Open the listing in a terminal browser. Type / to filter, 1-4 to sort by
name, reason, size or modified, space to select files, r to preview a bulk
rename, d to delete and b to download the selection.

The confirmed action is printed as a request when the browser exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listingPath == "-" {
				return errors.New("browse reads the keyboard from stdin; pass the listing with --listing FILE")
			}
			l, err := opts.loadListing(cmd)
			if err != nil {
				return err
			}

			title := "entry-sift"
			if l.listing.EntryID > 0 {
				title = fmt.Sprintf("entry-sift · entry %d", l.listing.EntryID)
			}
			th := theme.Default()
			if ascii {
				th = theme.New(theme.WithIconSet(theme.ASCIIIcons()))
			}
			model := browse.New(l.session, browse.WithTitle(title), browse.WithTheme(th))
			defer model.Close()

			final, err := runProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
			if err != nil {
				return fmt.Errorf("failed to run browser: %w", err)
			}
			bm, ok := final.(*browse.Model)
			if !ok {
				return fmt.Errorf("unexpected model type %T after browsing", final)
			}

			sub := bm.Submission()
			if sub == nil {
				return nil
			}
			entryID, err := opts.entryFor(l)
			if err != nil {
				return err
			}
			return emitSubmission(cmd, entryID, sub)
		},
	}
	cmd.Flags().BoolVar(&ascii, "ascii", false, "Use ASCII icons instead of emoji")
	return cmd
}

func emitSubmission(cmd *cobra.Command, entryID int, sub *browse.Submission) error {
	out := cmd.OutOrStdout()
	switch sub.Action {
	case browse.ActionRename:
		req, err := payload.RenamePlan(entryID, sub.Plan)
		if err != nil {
			return err
		}
		return emitRequest(out, log.OpRename, entryID, sub.Plan.ChangedCount(), req)
	case browse.ActionDelete:
		if len(sub.Files) == 0 {
			return payload.ErrNothingToSubmit
		}
		return emitRequest(out, log.OpDelete, entryID, len(sub.Files), payload.Delete(entryID, sub.Files))
	case browse.ActionBulk:
		req, err := payload.Bulk(entryID, sub.Files)
		if err != nil {
			return err
		}
		return emitRequest(out, log.OpBulk, entryID, len(sub.Files), req)
	}
	return fmt.Errorf("unknown action %q", sub.Action)
}
