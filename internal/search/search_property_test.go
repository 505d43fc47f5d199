package search

import (
	"strings"
	"testing"

	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// wordGen generates letter-only queries of at least two characters so that a
// digit-scattered copy can never contain them contiguously.
func wordGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-f]{2,8}`)
}

func scatter(t *rapid.T, word string) string {
	var b strings.Builder
	for i, r := range word {
		if i > 0 {
			b.WriteString(rapid.StringMatching(`[0-9]{1,3}`).Draw(t, "gap"))
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestPropertySubstringOutranksScattered(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := wordGen().Draw(t, "word")
		prefix := rapid.StringMatching(`[a-z0-9 ]{0,40}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[a-z0-9 ]{0,40}`).Draw(t, "suffix")

		contiguous := Score(prefix+word+suffix, word)
		scattered := Score(scatter(t, word), word)

		if scattered <= MinScore {
			t.Fatalf("scattered candidate scored MinScore for %q", word)
		}
		if contiguous <= scattered {
			t.Fatalf("Score(contiguous) = %d <= Score(scattered) = %d for %q", contiguous, scattered, word)
		}
	})
}

func TestPropertyMissingCharacterIsMinScore(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		candidate := rapid.StringMatching(`[a-m ]{0,30}`).Draw(t, "candidate")
		query := rapid.StringMatching(`[a-m]{0,4}z[a-m]{0,4}`).Draw(t, "query")
		if got := Score(candidate, query); got != MinScore {
			t.Fatalf("Score(%q, %q) = %d, want MinScore", candidate, query, got)
		}
	})
}

func recordsGen() *rapid.Generator[[]entry.Record] {
	return rapid.Custom(func(t *rapid.T) []entry.Record {
		n := rapid.IntRange(0, 12).Draw(t, "count")
		seen := map[string]bool{}
		var out []entry.Record
		for i := 0; i < n; i++ {
			name := rapid.StringMatching(`[a-e]{1,6}\.(mkv|srt)`).Draw(t, "name")
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, entry.Record{Name: name, AniListID: uint32(rapid.IntRange(0, 3).Draw(t, "anilist"))})
		}
		return out
	})
}

func TestPropertyFilterIsStableAndTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := recordsGen().Draw(t, "records")
		query := rapid.OneOf(rapid.StringMatching(`[a-e]{0,3}`), rapid.SampledFrom([]string{"1", "2", "3"})).Draw(t, "query")

		first := Filter(records, query)
		second := Filter(records, query)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("Filter(%q) differs between calls:\n%s", query, diff)
		}
		if len(first) != len(records) {
			t.Fatalf("Filter(%q) returned %d records, want %d", query, len(first), len(records))
		}

		// Equal scores preserve input order.
		index := make(map[string]int, len(records))
		for i, r := range records {
			index[r.Name] = i
		}
		for i := 1; i < len(first); i++ {
			prev, cur := first[i-1], first[i]
			if prev.Score < cur.Score {
				t.Fatalf("Filter(%q) not sorted at %d: %d < %d", query, i, prev.Score, cur.Score)
			}
			if prev.Score == cur.Score && index[prev.Record.Name] > index[cur.Record.Name] {
				t.Fatalf("Filter(%q) reordered ties %q and %q", query, prev.Record.Name, cur.Record.Name)
			}
			if cur.Visible != (cur.Score > MinScore) {
				t.Fatalf("Filter(%q) visibility inconsistent for %q", query, cur.Record.Name)
			}
		}
	})
}
