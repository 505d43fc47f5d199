package entry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseTMDBID(t *testing.T) {
	tests := []struct {
		in      string
		want    TMDBID
		wantErr bool
	}{
		{in: "tv:1399", want: TMDBID{Kind: TMDBTV, ID: 1399}},
		{in: "movie:603", want: TMDBID{Kind: TMDBMovie, ID: 603}},
		{in: "show:1", wantErr: true},
		{in: "tv:", wantErr: true},
		{in: "tv:-4", wantErr: true},
		{in: "1399", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseTMDBID(tc.in)
		if tc.wantErr {
			var invalid *InvalidTMDBIDError
			if !errors.As(err, &invalid) {
				t.Errorf("ParseTMDBID(%q) error = %v, want *InvalidTMDBIDError", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTMDBID(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseTMDBID(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("ParseTMDBID(%q).String() = %q", tc.in, got.String())
		}
	}
}

func TestExternalIDMatchesRecord(t *testing.T) {
	tv := TMDBID{Kind: TMDBTV, ID: 42}
	movie := TMDBID{Kind: TMDBMovie, ID: 42}
	rec := Record{Name: "a.mkv", AniListID: 7, TMDB: &tv}

	tests := []struct {
		name string
		id   ExternalID
		rec  Record
		want bool
	}{
		{name: "anilist equal", id: AniListID(7), rec: rec, want: true},
		{name: "anilist differs", id: AniListID(8), rec: rec, want: false},
		{name: "anilist absent", id: AniListID(0), rec: Record{Name: "b"}, want: false},
		{name: "tmdb equal", id: TMDBExternalID(TMDBTV, 42), rec: rec, want: true},
		{name: "tmdb kind differs", id: TMDBExternalID(TMDBMovie, 42), rec: rec, want: false},
		{name: "tmdb absent", id: TMDBExternalID(TMDBMovie, 42), rec: Record{Name: "c", AniListID: 42}, want: false},
		{name: "movie equal", id: TMDBExternalID(TMDBMovie, 42), rec: Record{Name: "d", TMDB: &movie}, want: true},
		{name: "tmdb zero", id: TMDBExternalID(TMDBTV, 0), rec: Record{Name: "e", TMDB: &TMDBID{Kind: TMDBTV}}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.id.MatchesRecord(tc.rec); got != tc.want {
				t.Errorf("%s.MatchesRecord(%+v) = %v, want %v", tc.id, tc.rec, got, tc.want)
			}
		})
	}
}

func TestExternalIDKnown(t *testing.T) {
	tests := []struct {
		id   ExternalID
		want bool
	}{
		{id: AniListID(21), want: true},
		{id: AniListID(0), want: false},
		{id: TMDBExternalID(TMDBMovie, 603), want: true},
		{id: TMDBExternalID(TMDBTV, 0), want: false},
		{id: ExternalID{}, want: false},
	}
	for _, tc := range tests {
		if got := tc.id.Known(); got != tc.want {
			t.Errorf("%v.Known() = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	rec := Record{
		Name: "Sousou no Frieren - 01.mkv",
		AltNames: []AltName{
			{Label: "english", Value: "Frieren: Beyond Journey's End"},
			{Label: "native", Value: ""},
		},
	}
	tests := []struct {
		pref string
		want string
	}{
		{pref: "", want: rec.Name},
		{pref: PrimaryLabel, want: rec.Name},
		{pref: "english", want: "Frieren: Beyond Journey's End"},
		{pref: "native", want: rec.Name},
		{pref: "romaji", want: rec.Name},
	}
	for _, tc := range tests {
		if got := rec.DisplayName(tc.pref); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.pref, got, tc.want)
		}
	}
	if diff := cmp.Diff([]string{rec.Name, "Frieren: Beyond Journey's End"}, rec.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseListing(t *testing.T) {
	input := `{
		"entry_id": 12,
		"files": [
			{"name": "ep01.mkv", "size": 1024, "last_modified": "2024-01-02T03:04:05Z", "anilist_id": 154587,
			 "alt_names": [{"label": "english", "value": "Episode One"}]},
			{"name": "ep02.srt", "size": 0, "last_modified": "2024-01-03T00:00:00Z", "reason": "2", "tmdb_id": "tv:209867"}
		]
	}`
	listing, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	tv := TMDBID{Kind: TMDBTV, ID: 209867}
	want := &Listing{
		EntryID: 12,
		Records: []Record{
			{
				Name:       "ep01.mkv",
				AltNames:   []AltName{{Label: "english", Value: "Episode One"}},
				Size:       1024,
				ModifiedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
				AniListID:  154587,
			},
			{
				Name:       "ep02.srt",
				ModifiedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
				Reason:     "2",
				TMDB:       &tv,
			},
		},
	}
	if diff := cmp.Diff(want, listing); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ep01.mkv", "ep02.srt"}, listing.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseListingRejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "missing name", input: `{"files":[{"size":1}]}`, want: "Name"},
		{name: "negative size", input: `{"files":[{"name":"a","size":-1}]}`, want: "Size"},
		{name: "bad tmdb", input: `{"files":[{"name":"a","tmdb_id":"book:1"}]}`, want: "invalid tmdb ID"},
		{name: "alt without label", input: `{"files":[{"name":"a","alt_names":[{"value":"x"}]}]}`, want: "Label"},
		{name: "malformed", input: `{"files":`, want: "failed to parse listing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Parse(%s) error = %v, want containing %q", tc.input, err, tc.want)
			}
		})
	}
}

func TestParseListingDuplicateNames(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"files":[{"name":"a.mkv"},{"name":"a.mkv"}]}`))
	var dup *DuplicateNameError
	if !errors.As(err, &dup) || dup.Name != "a.mkv" {
		t.Errorf("Parse(duplicates) error = %v, want *DuplicateNameError for a.mkv", err)
	}
}
