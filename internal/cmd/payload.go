package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Digital-Shane/entry-sift/internal/log"
	"github.com/Digital-Shane/entry-sift/internal/payload"
	"github.com/Digital-Shane/entry-sift/internal/search"
	"github.com/spf13/cobra"
)

func newPayloadCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Build request bodies for the selected files",
		Long: `Build the request that moves, deletes or bundles files of the listing.

Files are chosen with --select (repeatable) or --query. Requests are printed
as JSON with their method and path and recorded in the session log.`,
	}
	cmd.AddCommand(
		newMoveCmd(opts),
		newDeleteCmd(opts),
		newBulkCmd(opts),
		newRelationsCmd(),
		newDecodeCmd(),
	)
	return cmd
}

func newMoveCmd(opts *rootOptions) *cobra.Command {
	var (
		sel     selection
		to      string
		toEntry int
		name    string
	)
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move files to another entry",
		Long: `Move the selected files to exactly one destination: an existing entry
(--to-entry) or the entry for an AniList or TMDB identifier (--to). A TMDB
destination also needs --name for the entry that may be created.`,
		Example: `  entry-sift payload move -l listing.json -s ep01.mkv --to-entry 12
  entry-sift payload move -l listing.json -q "one piece" --to 21
  entry-sift payload move -l listing.json -s ep01.mkv --to tv:37854 --name "One Piece"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target payload.MoveTarget
			switch {
			case to != "" && toEntry != 0:
				return fmt.Errorf("%w: use either --to or --to-entry", payload.ErrInvalidTarget)
			case to != "":
				id, ok := search.ExtractIdentifier(to)
				if !ok || !id.Known() {
					return fmt.Errorf("%q is not an AniList or TMDB identifier", to)
				}
				target = payload.MoveTargetFor(id, name)
			case toEntry != 0:
				target = payload.MoveTarget{EntryID: toEntry, Name: name}
			default:
				return fmt.Errorf("%w: pass --to or --to-entry", payload.ErrInvalidTarget)
			}

			l, err := opts.loadListing(cmd)
			if err != nil {
				return err
			}
			files, err := sel.resolve(l, false)
			if err != nil {
				return err
			}
			entryID, err := opts.entryFor(l)
			if err != nil {
				return err
			}
			req, err := payload.Move(entryID, files, target)
			if err != nil {
				return nothingSelected(err)
			}
			return emitRequest(cmd.OutOrStdout(), log.OpMove, entryID, len(files), req)
		},
	}
	sel.addFlags(cmd)
	cmd.Flags().StringVar(&to, "to", "", "Destination AniList or TMDB identifier or URL")
	cmd.Flags().IntVar(&toEntry, "to-entry", 0, "Destination entry id")
	cmd.Flags().StringVar(&name, "name", "", "Name for a TMDB destination")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var (
		sel    selection
		parent bool
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete files, or the whole entry with --parent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.loadListing(cmd)
			if err != nil {
				return err
			}
			files, err := sel.resolve(l, false)
			if err != nil {
				return err
			}
			switch {
			case parent && len(files) > 0:
				return errors.New("--parent deletes the whole entry and cannot be combined with a selection")
			case !parent && len(files) == 0:
				return errors.New("no files selected (use --parent to delete the whole entry)")
			}
			entryID, err := opts.entryFor(l)
			if err != nil {
				return err
			}
			return emitRequest(cmd.OutOrStdout(), log.OpDelete, entryID, len(files), payload.Delete(entryID, files))
		},
	}
	sel.addFlags(cmd)
	cmd.Flags().BoolVar(&parent, "parent", false, "Delete the whole entry")
	return cmd
}

func newBulkCmd(opts *rootOptions) *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Request the selected files as one download",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.loadListing(cmd)
			if err != nil {
				return err
			}
			files, err := sel.resolve(l, false)
			if err != nil {
				return err
			}
			entryID, err := opts.entryFor(l)
			if err != nil {
				return err
			}
			req, err := payload.Bulk(entryID, files)
			if err != nil {
				return nothingSelected(err)
			}
			return emitRequest(cmd.OutOrStdout(), log.OpBulk, entryID, len(files), req)
		},
	}
	sel.addFlags(cmd)
	return cmd
}

func newRelationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relations ANILIST_ID...",
		Short: "Ask the backend which entries exist for AniList ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uint32, 0, len(args))
			for _, arg := range args {
				n, err := strconv.ParseUint(arg, 10, 32)
				if err != nil || n == 0 {
					return fmt.Errorf("invalid AniList id %q", arg)
				}
				ids = append(ids, uint32(n))
			}
			req, err := payload.Relations(ids)
			if err != nil {
				return err
			}
			return emitRequest(cmd.OutOrStdout(), "", 0, 0, req)
		},
	}
}

// decoders maps a response kind to the function that interprets it.
var decoders = map[string]func(status int, body []byte) (any, error){
	"media": func(status int, body []byte) (any, error) {
		return payload.DecodeAniListMedia(status, body)
	},
	"relations": func(status int, body []byte) (any, error) {
		relations, err := payload.DecodeAniListRelations(status, body)
		if err != nil {
			return nil, err
		}
		return struct {
			Relations  []payload.Relation `json:"relations"`
			RelatedIDs []uint32           `json:"related_ids"`
		}{relations, payload.RelatedIDs(relations)}, nil
	},
	"tmdb": func(status int, body []byte) (any, error) {
		return payload.DecodeTMDBInfo(status, body)
	},
	"entries": func(status int, body []byte) (any, error) {
		return payload.DecodeRelatedEntries(status, body)
	},
	"result": func(status int, body []byte) (any, error) {
		return payload.DecodeOperationResult(status, body)
	},
}

var decoderKinds = []string{"media", "relations", "tmdb", "entries", "result"}

func newDecodeCmd() *cobra.Command {
	var status int
	cmd := &cobra.Command{
		Use:   "decode KIND [FILE]",
		Short: "Interpret a saved response body",
		Long: `Decode a response body read from FILE (or stdin) as KIND and print it as JSON.

Kinds: media and relations (AniList GraphQL), tmdb (TMDB lookup), entries
(related entries) and result (rename, move or delete outcome). A non-2xx
--status or an error body is reported with the server's message.`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: decoderKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			decode, ok := decoders[args[0]]
			if !ok {
				return withSuggestion(fmt.Errorf("unknown response kind %q", args[0]), args[0], decoderKinds)
			}

			var (
				body []byte
				err  error
			)
			if len(args) == 2 && args[1] != "-" {
				body, err = os.ReadFile(args[1])
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			v, err := decode(status, body)
			if err != nil {
				return err
			}
			if result, ok := v.(*payload.OperationResult); ok && result.Partial() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Partial failure: %s\n", result)
			}
			return writeJSON(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().IntVar(&status, "status", 200, "HTTP status the response came with")
	return cmd
}

func nothingSelected(err error) error {
	if errors.Is(err, payload.ErrNothingToSubmit) {
		return errors.New("no files selected (use --select or --query)")
	}
	return err
}
