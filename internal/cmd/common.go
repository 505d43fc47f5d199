package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/Digital-Shane/entry-sift/internal/listing"
	"github.com/Digital-Shane/entry-sift/internal/log"
	"github.com/Digital-Shane/entry-sift/internal/payload"
	"github.com/Digital-Shane/entry-sift/internal/search"
	"github.com/gocarina/gocsv"
	"github.com/hbollon/go-edlib"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// loaded is a listing read from --listing with its session ready to use.
type loaded struct {
	listing *entry.Listing
	session *listing.Session
}

// loadListing reads the listing, sorts it by the configured column and loads
// it into a new session.
func (o *rootOptions) loadListing(cmd *cobra.Command) (*loaded, error) {
	var (
		l   *entry.Listing
		err error
	)
	if o.listingPath == "-" {
		l, err = entry.Parse(cmd.InOrStdin())
	} else {
		l, err = entry.LoadFile(o.listingPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	state, err := o.cfg.SortState()
	if err != nil {
		return nil, err
	}
	sortOpts := o.cfg.SortOptions()
	session := listing.NewSession(state, sortOpts)
	session.Load(listing.Sort(l.Records, state.Key, state.Direction, sortOpts))
	return &loaded{listing: l, session: session}, nil
}

// entryFor returns the entry id requests are addressed to.
func (o *rootOptions) entryFor(l *loaded) (int, error) {
	id := o.entryID
	if id == 0 && l != nil {
		id = l.listing.EntryID
	}
	if id <= 0 {
		return 0, errors.New("no entry id: pass --entry or include entry_id in the listing")
	}
	return id, nil
}

// selection is the shared way commands pick files from a listing.
type selection struct {
	names []string
	query string
}

func (s *selection) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&s.names, "select", "s", nil, "File to act on (repeatable)")
	cmd.Flags().StringVarP(&s.query, "query", "q", "", "Act on every file matching this query")
}

// resolve returns the chosen file names. Explicit names must exist in the
// listing. A query selects every visible record. With neither, all is
// returned when fallbackAll is set and nothing otherwise.
func (s *selection) resolve(l *loaded, fallbackAll bool) ([]string, error) {
	if s.query != "" {
		l.session.OnQueryChanged(s.query)
	}

	if len(s.names) > 0 {
		visible := l.session.VisibleNames()
		all := make([]string, 0, l.session.Len())
		for _, sr := range l.session.View() {
			all = append(all, sr.Record.Name)
		}
		out := make([]string, 0, len(s.names))
		for _, name := range s.names {
			if _, ok := l.session.Lookup(name); !ok {
				return nil, fmt.Errorf("file %q is not in the listing%s", name, suggestion(name, all))
			}
			if s.query != "" && !slices.Contains(visible, name) {
				return nil, fmt.Errorf("file %q does not match query %q", name, s.query)
			}
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
		return out, nil
	}

	if s.query != "" || fallbackAll {
		return l.session.VisibleNames(), nil
	}
	return nil, nil
}

// suggestion formats a "did you mean" hint for the closest candidate.
func suggestion(input string, candidates []string) string {
	best, bestScore := "", float32(0)
	for _, c := range candidates {
		if score := edlib.JaroWinklerSimilarity(strings.ToLower(input), strings.ToLower(c)); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < 0.8 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

func withSuggestion(err error, input string, candidates []string) error {
	if hint := suggestion(input, candidates); hint != "" {
		return fmt.Errorf("%w%s", err, hint)
	}
	return err
}

// recordRow is the flat rendering of a record for json and csv output.
type recordRow struct {
	Name        string `json:"name" csv:"name"`
	DisplayName string `json:"display_name" csv:"display_name"`
	Size        int64  `json:"size" csv:"size"`
	Modified    string `json:"modified,omitempty" csv:"modified"`
	Reason      string `json:"reason,omitempty" csv:"reason"`
	AniListID   uint32 `json:"anilist_id,omitempty" csv:"anilist_id"`
	TMDB        string `json:"tmdb,omitempty" csv:"tmdb"`
	Score       int    `json:"score" csv:"score"`
	Visible     bool   `json:"visible" csv:"visible"`
}

func newRecordRow(sr search.ScoredRecord, displayName string) recordRow {
	r := sr.Record
	row := recordRow{
		Name:        r.Name,
		DisplayName: r.DisplayName(displayName),
		Size:        r.Size,
		Reason:      r.Reason,
		AniListID:   r.AniListID,
		Score:       sr.Score,
		Visible:     sr.Visible,
	}
	if !r.ModifiedAt.IsZero() {
		row.Modified = r.ModifiedAt.UTC().Format("2006-01-02 15:04")
	}
	if r.TMDB != nil {
		row.TMDB = r.TMDB.String()
	}
	return row
}

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "f", formatTable, "Output format: table, json, or csv")
}

// printRecords writes the session view. Hidden records are skipped unless
// all is set.
func printRecords(w io.Writer, session *listing.Session, format string, all bool) error {
	displayName := session.SortOptions().DisplayName
	var rows []recordRow
	for _, sr := range session.View() {
		if sr.Visible || all {
			rows = append(rows, newRecordRow(sr, displayName))
		}
	}

	switch format {
	case formatJSON:
		if rows == nil {
			rows = []recordRow{}
		}
		return writeJSON(w, rows)
	case formatCSV:
		if len(rows) == 0 {
			return nil
		}
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		return nil
	case formatTable, "":
		printTable(w, rows, session.SortState(), all)
		return nil
	}
	return fmt.Errorf("unknown format %q (must be table, json, or csv)", format)
}

const (
	nameWidth   = 48
	reasonWidth = 12
	sizeWidth   = 9
)

func printTable(w io.Writer, rows []recordRow, state listing.SortState, all bool) {
	header := func(key listing.SortKey, title string) string {
		if state.Key != key {
			return title
		}
		if state.Direction == listing.Descending {
			return title + " ▼"
		}
		return title + " ▲"
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		runewidth.FillRight(header(listing.SortByName, "NAME"), nameWidth),
		runewidth.FillRight(header(listing.SortByReason, "REASON"), reasonWidth),
		runewidth.FillLeft(header(listing.SortBySize, "SIZE"), sizeWidth),
		header(listing.SortByModified, "MODIFIED"))

	for _, row := range rows {
		name := runewidth.Truncate(row.DisplayName, nameWidth, "…")
		if all && !row.Visible {
			name = runewidth.Truncate("· "+row.DisplayName, nameWidth, "…")
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			runewidth.FillRight(name, nameWidth),
			runewidth.FillRight(runewidth.Truncate(row.Reason, reasonWidth, "…"), reasonWidth),
			runewidth.FillLeft(formatSize(row.Size), sizeWidth),
			row.Modified)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No files match.")
	}
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// emitRequest records a prepared request in the session log and prints it.
func emitRequest(w io.Writer, opType log.OperationType, entryID int, files int, req payload.Request) error {
	body, err := req.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	if opType != "" {
		log.LogRequest(opType, entryID, req.Method, req.Path, files, body)
	}
	return writeJSON(w, req)
}
