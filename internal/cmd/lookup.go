package cmd

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/Digital-Shane/entry-sift/internal/payload"
	"github.com/Digital-Shane/entry-sift/internal/search"
	"github.com/spf13/cobra"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var relations bool
	cmd := &cobra.Command{
		Use:   "lookup ID",
		Short: "Build the metadata request for an AniList or TMDB identifier",
		Long: `Recognise ID the same way search does and print the request that fetches
its title. An AniList id yields a GraphQL media query; --relations adds the
query for its related media. A TMDB id yields the backend TMDB lookup.`,
		Example: `  entry-sift lookup 21
  entry-sift lookup https://anilist.co/anime/21/One-Piece --relations
  entry-sift lookup https://www.themoviedb.org/tv/37854-one-piece`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			id, ok := search.ExtractIdentifier(raw)
			if !ok || !id.Known() {
				return fmt.Errorf("%q is not an AniList or TMDB identifier", raw)
			}

			out := cmd.OutOrStdout()
			switch id.Kind {
			case entry.KindAniList:
				if err := emitRequest(out, "", 0, 0, payload.AniListMedia(id.AniList)); err != nil {
					return err
				}
				if relations {
					return emitRequest(out, "", 0, 0, payload.AniListRelations(id.AniList))
				}
				return nil
			case entry.KindTMDB:
				return emitRequest(out, "", 0, 0, payload.TMDBLookup(id.TMDB))
			}
			return fmt.Errorf("unsupported identifier %s", id)
		},
	}
	cmd.Flags().BoolVar(&relations, "relations", false, "Also build the AniList relations query")
	return cmd
}
