package cmd

import (
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/listing"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Rank the listing against a query",
		Long: `Rank every file of the listing against QUERY, best match first.

A query that is an AniList id or URL, a themoviedb.org URL or a tv:ID /
movie:ID pair keeps only the files tagged with that id, in listing order.
Anything else is matched fuzzily against the file name and its alternate
names. With no query the listing is printed in its sorted order.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.loadListing(cmd)
			if err != nil {
				return err
			}
			l.session.OnQueryChanged(strings.Join(args, " "))
			return printRecords(cmd.OutOrStdout(), l.session, format, all)
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include files that do not match")
	return cmd
}

func newSortCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		desc   bool
		query  string
	)
	cmd := &cobra.Command{
		Use:       "sort KEY",
		Short:     "Print the listing sorted by name, reason, size or modified",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"name", "reason", "size", "modified"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := listing.ParseSortKey(args[0])
			if err != nil {
				return withSuggestion(err, args[0], sortKeyNames())
			}
			want := listing.Ascending
			if desc {
				want = listing.Descending
			}

			l, err := opts.loadListing(cmd)
			if err != nil {
				return err
			}
			if query != "" {
				l.session.OnQueryChanged(query)
			}
			// A header click on a new column starts ascending and a second
			// click on the same column toggles it.
			l.session.OnHeaderClicked(key)
			if l.session.SortState().Direction != want {
				l.session.OnHeaderClicked(key)
			}
			return printRecords(cmd.OutOrStdout(), l.session, format, false)
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVarP(&desc, "desc", "d", false, "Sort descending")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show files matching this query")
	return cmd
}

func sortKeyNames() []string {
	names := make([]string, len(listing.SortKeys))
	for i, k := range listing.SortKeys {
		names[i] = string(k)
	}
	return names
}
