package entry

import "time"

// AltName is an alternate display title for a record, e.g. the native or
// English title of the entry a file belongs to.
type AltName struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value"`
}

// Record is one file row of a listing. Records are immutable snapshots; the
// search and rename engines only derive presentation state from them.
type Record struct {
	Name       string
	AltNames   []AltName
	Size       int64
	ModifiedAt time.Time
	Reason     string
	AniListID  uint32
	TMDB       *TMDBID
}

// HasReason reports whether the record carries a non-empty reason.
func (r Record) HasReason() bool {
	return r.Reason != ""
}

// DisplayName returns the alternate name whose label matches pref, falling
// back to Name when pref is empty, "primary" or not present on the record.
func (r Record) DisplayName(pref string) string {
	if pref == "" || pref == PrimaryLabel {
		return r.Name
	}
	for _, alt := range r.AltNames {
		if alt.Label == pref && alt.Value != "" {
			return alt.Value
		}
	}
	return r.Name
}

// PrimaryLabel selects Record.Name as the display name.
const PrimaryLabel = "primary"

// Names returns the record's primary name followed by every alternate value.
func (r Record) Names() []string {
	names := make([]string, 0, 1+len(r.AltNames))
	names = append(names, r.Name)
	for _, alt := range r.AltNames {
		if alt.Value != "" {
			names = append(names, alt.Value)
		}
	}
	return names
}
