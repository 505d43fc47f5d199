package listing

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/entry"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names the column a listing is ordered by.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByReason   SortKey = "reason"
	SortBySize     SortKey = "size"
	SortByModified SortKey = "modified"
)

// SortKeys lists every key in column order.
var SortKeys = []SortKey{SortByName, SortByReason, SortBySize, SortByModified}

// ParseSortKey validates a user supplied sort key.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, key) {
		return key, nil
	}
	return "", fmt.Errorf("unknown sort key %q (must be name, reason, size, or modified)", s)
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortDirection validates a user supplied direction.
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(s))) {
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q (must be asc or desc)", s)
}

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// SortState is the current column and direction of a listing.
type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// Click returns the state after clicking the header for key: the same column
// toggles direction, a different column starts ascending.
func (s SortState) Click(key SortKey) SortState {
	if s.Key == key {
		return SortState{Key: key, Direction: s.Direction.Toggle()}
	}
	return SortState{Key: key, Direction: Ascending}
}

// SortOptions carries the presentation settings name sorting depends on.
type SortOptions struct {
	// DisplayName selects which alternate name label is shown, and so sorted on.
	DisplayName string
	// Locale is a BCP 47 tag used for collation. Empty means root collation.
	Locale string
}

// NewCollator builds a collator for locale, falling back to the root
// collation when the tag does not parse.
func NewCollator(locale string) *collate.Collator {
	tag := language.Und
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return collate.New(tag)
}

// Sort returns a stably sorted copy of records. Sorting an already sorted
// slice by the same key and direction returns it unchanged.
//
// Records without a reason compare below every record with one. Integer
// reasons compare numerically and sort before free-text reasons.
func Sort(records []entry.Record, key SortKey, dir SortDirection, opts SortOptions) []entry.Record {
	out := slices.Clone(records)
	compare := comparator(key, opts)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

func comparator(key SortKey, opts SortOptions) func(a, b entry.Record) int {
	switch key {
	case SortByReason:
		return compareReason
	case SortBySize:
		return func(a, b entry.Record) int { return cmp.Compare(a.Size, b.Size) }
	case SortByModified:
		return func(a, b entry.Record) int { return a.ModifiedAt.Compare(b.ModifiedAt) }
	default:
		col := NewCollator(opts.Locale)
		return func(a, b entry.Record) int {
			return col.CompareString(a.DisplayName(opts.DisplayName), b.DisplayName(opts.DisplayName))
		}
	}
}

func compareReason(a, b entry.Record) int {
	switch {
	case !a.HasReason() && !b.HasReason():
		return 0
	case !a.HasReason():
		return -1
	case !b.HasReason():
		return 1
	}
	ai, aerr := strconv.ParseInt(a.Reason, 10, 64)
	bi, berr := strconv.ParseInt(b.Reason, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(ai, bi)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a.Reason, b.Reason)
}
