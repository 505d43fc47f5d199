package search

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningDiacritics matches the Combining Diacritical Marks block.
var combiningDiacritics = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
})

// Normalize canonicalizes text for comparison: NFKD decomposition followed by
// removal of combining diacritical marks. It is only applied to text being
// scored, never to identifiers or display values.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFKD, runes.Remove(combiningDiacritics))
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}
