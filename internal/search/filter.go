package search

import (
	"sort"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/entry"
)

// ScoredRecord wraps a record with the score and visibility derived for one
// query. Visible is always Score > MinScore.
type ScoredRecord struct {
	Record  entry.Record
	Score   int
	Visible bool
}

// Filter ranks records against query and returns one ScoredRecord per input
// record, best first. Records of equal score keep their input order.
//
// An empty (or whitespace only) query marks every record visible and keeps
// the input order untouched. A query that parses as an external identifier
// matches by exact id equality only; no fuzzy fallback is attempted even when
// nothing matches. Any other query is scored against the record's name and
// every alternate name, keeping the best score.
func Filter(records []entry.Record, query string) []ScoredRecord {
	out := make([]ScoredRecord, len(records))

	if strings.TrimSpace(query) == "" {
		for i, r := range records {
			out[i] = ScoredRecord{Record: r, Visible: true}
		}
		return out
	}

	if id, ok := ExtractIdentifier(query); ok {
		for i, r := range records {
			score := MinScore
			if id.MatchesRecord(r) {
				score = 0
			}
			out[i] = ScoredRecord{Record: r, Score: score}
		}
	} else {
		q := Normalize(query)
		for i, r := range records {
			out[i] = ScoredRecord{Record: r, Score: bestScore(r, q)}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		out[i].Visible = out[i].Score > MinScore
	}
	return out
}

func bestScore(r entry.Record, q string) int {
	if q == "" {
		return 0
	}
	best := MinScore
	for _, name := range r.Names() {
		if s := scoreNormalized(Normalize(name), q); s > best {
			best = s
		}
	}
	return best
}

// CountVisible returns how many scored records are visible.
func CountVisible(scored []ScoredRecord) int {
	n := 0
	for _, s := range scored {
		if s.Visible {
			n++
		}
	}
	return n
}

// Records unwraps scored records in their current order.
func Records(scored []ScoredRecord) []entry.Record {
	out := make([]entry.Record, len(scored))
	for i, s := range scored {
		out[i] = s.Record
	}
	return out
}
