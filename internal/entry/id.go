package entry

import (
	"fmt"
	"strconv"
	"strings"
)

// TMDBKind scopes a TMDB id to either the TV or the movie namespace.
type TMDBKind string

const (
	TMDBTV    TMDBKind = "tv"
	TMDBMovie TMDBKind = "movie"
)

// TMDBID is a TMDB identifier. The same integer can name different media in
// the tv and movie namespaces so the kind is part of the identity.
type TMDBID struct {
	Kind TMDBKind
	ID   uint32
}

// String renders the id as "tv:123" or "movie:123".
func (id TMDBID) String() string {
	return string(id.Kind) + ":" + strconv.FormatUint(uint64(id.ID), 10)
}

// IsMovie reports whether the id lives in the movie namespace.
func (id TMDBID) IsMovie() bool {
	return id.Kind == TMDBMovie
}

// URL returns the public TMDB page for the id.
func (id TMDBID) URL() string {
	return fmt.Sprintf("https://www.themoviedb.org/%s/%d", id.Kind, id.ID)
}

// InvalidTMDBIDError is returned when a string is not in "{tv|movie}:{id}" form.
type InvalidTMDBIDError struct {
	Value string
}

func (e *InvalidTMDBIDError) Error() string {
	return fmt.Sprintf("invalid tmdb ID provided: %q", e.Value)
}

// ParseTMDBID parses the "tv:123" / "movie:123" pair form.
func ParseTMDBID(s string) (TMDBID, error) {
	key, value, ok := strings.Cut(s, ":")
	if !ok {
		return TMDBID{}, &InvalidTMDBIDError{Value: s}
	}
	kind := TMDBKind(key)
	if kind != TMDBTV && kind != TMDBMovie {
		return TMDBID{}, &InvalidTMDBIDError{Value: s}
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return TMDBID{}, &InvalidTMDBIDError{Value: s}
	}
	return TMDBID{Kind: kind, ID: uint32(n)}, nil
}

// MarshalText implements encoding.TextMarshaler so ids serialize as "tv:123".
func (id TMDBID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *TMDBID) UnmarshalText(text []byte) error {
	parsed, err := ParseTMDBID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IDKind names which external service an ExternalID belongs to.
type IDKind int

const (
	KindAniList IDKind = iota + 1
	KindTMDB
)

func (k IDKind) String() string {
	switch k {
	case KindAniList:
		return "anilist"
	case KindTMDB:
		return "tmdb"
	default:
		return "unknown"
	}
}

// ExternalID is a structured identifier extracted from a search query.
type ExternalID struct {
	Kind    IDKind
	AniList uint32
	TMDB    TMDBID
}

// AniListID builds an AniList identifier.
func AniListID(id uint32) ExternalID {
	return ExternalID{Kind: KindAniList, AniList: id}
}

// TMDBExternalID builds a TMDB identifier.
func TMDBExternalID(kind TMDBKind, id uint32) ExternalID {
	return ExternalID{Kind: KindTMDB, TMDB: TMDBID{Kind: kind, ID: id}}
}

func (e ExternalID) String() string {
	switch e.Kind {
	case KindAniList:
		return "anilist:" + strconv.FormatUint(uint64(e.AniList), 10)
	case KindTMDB:
		return "tmdb:" + e.TMDB.String()
	default:
		return ""
	}
}

// Known reports whether the id can name a real record. Zero ids are what a
// query yields for numbers no service assigns.
func (e ExternalID) Known() bool {
	switch e.Kind {
	case KindAniList:
		return e.AniList != 0
	case KindTMDB:
		return e.TMDB.ID != 0
	default:
		return false
	}
}

// MatchesRecord reports whether the record carries exactly this identifier.
// Absent record ids and unknown query ids never match.
func (e ExternalID) MatchesRecord(r Record) bool {
	if !e.Known() {
		return false
	}
	switch e.Kind {
	case KindAniList:
		return r.AniListID == e.AniList
	case KindTMDB:
		return r.TMDB != nil && *r.TMDB == e.TMDB
	default:
		return false
	}
}
