package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/entry"
)

// URL shapes are searched anywhere in the query so a link pasted with its
// query string, fragment or surrounding text is still recognized.
var (
	anilistRE  = regexp.MustCompile(`(?:https?://)?(?:www\.)?anilist\.co/(?:anime|manga)/(\d+)(?:[/?#\s]|$)`)
	bareIDRE   = regexp.MustCompile(`^(\d+)$`)
	tmdbURLRE  = regexp.MustCompile(`(?:https?://)?(?:www\.)?themoviedb\.org/(tv|movie)/(\d+)(?:[-/?#\s]|$)`)
	tmdbPairRE = regexp.MustCompile(`^(tv|movie):(\d+)$`)
)

// ExtractIdentifier parses a query into a structured external identifier.
// AniList shapes (a bare number or an anilist.co URL) are tried before TMDB
// shapes (a themoviedb.org URL or a "tv:123" / "movie:123" pair).
//
// A number that cannot name a record (0, or too large for an id) still
// yields an identifier. It matches nothing, which keeps identifier intent
// strict; use Known before building a request from it.
func ExtractIdentifier(raw string) (entry.ExternalID, bool) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return entry.ExternalID{}, false
	}

	m := anilistRE.FindStringSubmatch(q)
	if m == nil {
		m = bareIDRE.FindStringSubmatch(q)
	}
	if m != nil {
		return entry.AniListID(parseID(m[1])), true
	}

	m = tmdbURLRE.FindStringSubmatch(q)
	if m == nil {
		m = tmdbPairRE.FindStringSubmatch(q)
	}
	if m != nil {
		return entry.TMDBExternalID(entry.TMDBKind(m[1]), parseID(m[2])), true
	}
	return entry.ExternalID{}, false
}

// parseID maps values that overflow to 0, the id no record carries.
func parseID(s string) uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}
