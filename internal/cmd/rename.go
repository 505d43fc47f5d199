package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/Digital-Shane/entry-sift/internal/core"
	"github.com/Digital-Shane/entry-sift/internal/log"
	"github.com/Digital-Shane/entry-sift/internal/payload"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

type renameOptions struct {
	form      core.Form
	scope     string
	caseMode  string
	selection selection
	payload   bool
}

func newRenameCmd(opts *rootOptions) *cobra.Command {
	ro := &renameOptions{}
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Preview a bulk rename and optionally build its request",
		Long: `Apply a search and replace rule to the selected files and print the result.

The search text is literal unless --regex is given, in which case the
replacement may use $1 or ${name} group references. Matching ignores case
unless --case-sensitive is set. --scope limits the rule to the base name or
the extension. Only files whose name changes are part of the rename request
printed with --payload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, opts, ro)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&ro.form.Search, "search", "", "Text or pattern to find")
	flags.StringVar(&ro.form.Replace, "replace", "", "Replacement text")
	flags.BoolVarP(&ro.form.Regex, "regex", "r", false, "Treat --search as a regular expression")
	flags.BoolVar(&ro.form.MatchAll, "all", false, "Replace every match instead of the first")
	flags.BoolVar(&ro.form.CaseSensitive, "case-sensitive", false, "Match case exactly")
	flags.StringVar(&ro.scope, "scope", "whole", "Part of the name to rename: whole, base, or extension")
	flags.StringVar(&ro.caseMode, "case", "none", "Case transform after replacing: none, lower, or upper")
	flags.BoolVarP(&ro.payload, "payload", "p", false, "Print the rename request instead of the preview")
	ro.selection.addFlags(cmd)
	return cmd
}

func runRename(cmd *cobra.Command, opts *rootOptions, ro *renameOptions) error {
	scope, err := core.ParseScope(ro.scope)
	if err != nil {
		return err
	}
	caseMode, err := core.ParseCaseTransform(ro.caseMode)
	if err != nil {
		return err
	}
	ro.form.Scope = scope
	ro.form.Case = caseMode

	l, err := opts.loadListing(cmd)
	if err != nil {
		return err
	}
	files, err := ro.selection.resolve(l, true)
	if err != nil {
		return err
	}

	plan, err := l.session.OnRuleEdited(ro.form, files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ro.payload {
		printPlan(out, plan)
		return nil
	}

	entryID, err := opts.entryFor(l)
	if err != nil {
		return err
	}
	req, err := payload.RenamePlan(entryID, plan)
	if errors.Is(err, payload.ErrNothingToSubmit) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No files would change; nothing to submit.")
		return nil
	}
	if err != nil {
		return err
	}
	return emitRequest(out, log.OpRename, entryID, plan.ChangedCount(), req)
}

func printPlan(w io.Writer, plan core.Plan) {
	for _, row := range plan.Rows {
		marker := " "
		switch {
		case row.Issue != "":
			marker = "!"
		case row.Changed:
			marker = "*"
		}
		line := fmt.Sprintf("%s %s -> %s", marker, runewidth.FillRight(row.Original, nameWidth), row.Renamed)
		if row.Issue != "" {
			line += "  (" + row.Issue + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d of %d file(s) would change\n", plan.ChangedCount(), len(plan.Rows))
	if err := plan.Err(); err != nil {
		fmt.Fprintf(w, "Cannot submit: %v\n", err)
	}
}
