package search

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// MinScore is the floor returned when the query is not a subsequence of the
// candidate. Any score above it is a visible match.
const MinScore = -1500

// Contiguous matches score in [400, 1200]; scattered subsequence matches are
// squeezed into [MinScore+1, -1] so a substring hit always outranks them.
const (
	substringBase   = 1000
	positionCost    = 10
	maxPositionCost = 300
	maxLengthCost   = 300
	exactNameBonus  = 150
	caseMatchBonus  = 50

	scatteredOffset  = 1000
	scatteredCeiling = -1
)

// Score rates candidate against query. Both are normalized first. An empty
// query scores 0 against everything.
func Score(candidate, query string) int {
	q := Normalize(query)
	if q == "" {
		return 0
	}
	return scoreNormalized(Normalize(candidate), q)
}

// scoreNormalized expects both operands to have been through Normalize and q
// to be non-empty.
func scoreNormalized(c, q string) int {
	if c == "" {
		return MinScore
	}
	lc, lq := strings.ToLower(c), strings.ToLower(q)

	if idx := strings.Index(lc, lq); idx >= 0 {
		pos := utf8.RuneCountInString(lc[:idx])
		extra := utf8.RuneCountInString(lc) - utf8.RuneCountInString(lq)
		s := substringBase - min(pos*positionCost, maxPositionCost) - min(extra, maxLengthCost)
		if lc == lq {
			s += exactNameBonus
		}
		if strings.Contains(c, q) {
			s += caseMatchBonus
		}
		return s
	}

	matches := fuzzy.Find(lq, []string{lc})
	if len(matches) == 0 {
		return MinScore
	}
	s := matches[0].Score - scatteredOffset + caseMatches(c, lc, q, matches[0].MatchedIndexes)*caseMatchBonus/utf8.RuneCountInString(q)
	return max(MinScore+1, min(s, scatteredCeiling))
}

// caseMatches counts the matched runes of c that equal the query rune they
// matched without folding. matched holds byte offsets into lc, the lowered c.
func caseMatches(c, lc, q string, matched []int) int {
	cr, qr := []rune(c), []rune(q)
	// strings.ToLower maps rune by rune, so rune positions agree between c and lc.
	pos := make(map[int]int, len(cr))
	i := 0
	for off := range lc {
		pos[off] = i
		i++
	}
	n := 0
	for k, off := range matched {
		ri, ok := pos[off]
		if ok && k < len(qr) && ri < len(cr) && cr[ri] == qr[k] {
			n++
		}
	}
	return n
}
