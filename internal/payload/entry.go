package payload

import (
	"fmt"
	"net/http"

	"github.com/Digital-Shane/entry-sift/internal/core"
	"github.com/Digital-Shane/entry-sift/internal/entry"
)

// TMDBInfo is the backend's answer to a TMDB lookup.
type TMDBInfo struct {
	Title string `json:"title"`
	Adult bool   `json:"adult"`
	Movie bool   `json:"movie"`
}

// TMDBLookup asks the backend to resolve a TMDB id.
func TMDBLookup(id entry.TMDBID) Request {
	return Request{Method: http.MethodGet, Path: "/entry/tmdb?id=" + id.String()}
}

// DecodeTMDBInfo decodes the reply to TMDBLookup.
func DecodeTMDBInfo(status int, body []byte) (*TMDBInfo, error) {
	var info TMDBInfo
	if err := DecodeResponse(status, body, &info); err != nil {
		return nil, fmt.Errorf("failed to look up tmdb entry: %w", err)
	}
	return &info, nil
}

// RelatedEntry is one backend entry matched to an AniList id.
type RelatedEntry struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	JapaneseName string `json:"japanese_name,omitempty"`
	EnglishName  string `json:"english_name,omitempty"`
}

type relationsBody struct {
	AniListIDs []uint32 `json:"anilist_ids"`
}

// Relations asks the backend which entries exist for the given AniList ids.
func Relations(ids []uint32) (Request, error) {
	if len(ids) == 0 {
		return Request{}, ErrNothingToSubmit
	}
	return Request{Method: http.MethodPost, Path: "/entry/relations", Body: relationsBody{AniListIDs: ids}}, nil
}

// DecodeRelatedEntries decodes the reply to Relations.
func DecodeRelatedEntries(status int, body []byte) ([]RelatedEntry, error) {
	var entries []RelatedEntry
	if err := DecodeResponse(status, body, &entries); err != nil {
		return nil, fmt.Errorf("failed to resolve relations: %w", err)
	}
	return entries, nil
}

func entryPath(entryID int, action string) string {
	if action == "" {
		return fmt.Sprintf("/entry/%d", entryID)
	}
	return fmt.Sprintf("/entry/%d/%s", entryID, action)
}

// Rename submits the changed rows of a rename preview.
func Rename(entryID int, changes []core.Change) (Request, error) {
	if len(changes) == 0 {
		return Request{}, ErrNothingToSubmit
	}
	for _, c := range changes {
		if c.From == c.To {
			return Request{}, fmt.Errorf("rename of %q does not change the name", c.From)
		}
	}
	return Request{Method: http.MethodPost, Path: entryPath(entryID, "rename"), Body: changes}, nil
}

// RenamePlan submits plan after refusing plans with unsafe rows.
func RenamePlan(entryID int, plan core.Plan) (Request, error) {
	if err := plan.Err(); err != nil {
		return Request{}, err
	}
	return Rename(entryID, plan.Changes())
}

// MoveTarget names where files are moved. Exactly one of EntryID, AniListID
// or TMDB must be set; a TMDB target also needs Name for the entry the
// backend creates.
type MoveTarget struct {
	EntryID   int
	AniListID uint32
	TMDB      *entry.TMDBID
	Name      string
}

// MoveTargetFor builds a target from an external identifier.
func MoveTargetFor(id entry.ExternalID, name string) MoveTarget {
	if id.Kind == entry.KindTMDB {
		tmdb := id.TMDB
		return MoveTarget{TMDB: &tmdb, Name: name}
	}
	return MoveTarget{AniListID: id.AniList}
}

func (t MoveTarget) validate() error {
	set := 0
	if t.EntryID > 0 {
		set++
	}
	if t.AniListID > 0 {
		set++
	}
	if t.TMDB != nil {
		set++
	}
	if set != 1 {
		return ErrInvalidTarget
	}
	if t.TMDB != nil && t.Name == "" {
		return fmt.Errorf("%w: a tmdb target needs a name", ErrInvalidTarget)
	}
	return nil
}

type moveBody struct {
	Files     []string      `json:"files"`
	EntryID   int           `json:"entry_id,omitempty"`
	AniListID uint32        `json:"anilist_id,omitempty"`
	TMDB      *entry.TMDBID `json:"tmdb,omitempty"`
	Anime     *bool         `json:"anime,omitempty"`
	Name      string        `json:"name,omitempty"`
}

// Move submits files to be moved into target.
func Move(entryID int, files []string, target MoveTarget) (Request, error) {
	if len(files) == 0 {
		return Request{}, ErrNothingToSubmit
	}
	if err := target.validate(); err != nil {
		return Request{}, err
	}

	body := moveBody{Files: files, EntryID: target.EntryID, AniListID: target.AniListID}
	if target.TMDB != nil {
		anime := false
		body.TMDB = target.TMDB
		body.Anime = &anime
		body.Name = target.Name
	}
	return Request{Method: http.MethodPost, Path: entryPath(entryID, "move"), Body: body}, nil
}

type deleteBody struct {
	Files        []string `json:"files,omitempty"`
	DeleteParent bool     `json:"delete_parent,omitempty"`
}

// Delete submits files for deletion. With no files the whole entry is
// deleted.
func Delete(entryID int, files []string) Request {
	body := deleteBody{Files: files}
	if len(files) == 0 {
		body = deleteBody{DeleteParent: true}
	}
	return Request{Method: http.MethodDelete, Path: entryPath(entryID, ""), Body: body}
}

type filesBody struct {
	Files []string `json:"files"`
}

// Bulk asks for files as one download.
func Bulk(entryID int, files []string) (Request, error) {
	if len(files) == 0 {
		return Request{}, ErrNothingToSubmit
	}
	return Request{Method: http.MethodPost, Path: entryPath(entryID, "bulk"), Body: filesBody{Files: files}}, nil
}
