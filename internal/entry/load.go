package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Listing is the typed result of ingesting one rendered entry listing.
type Listing struct {
	EntryID int
	Records []Record
}

// Names returns the primary names of all records in listing order.
func (l *Listing) Names() []string {
	names := make([]string, len(l.Records))
	for i, r := range l.Records {
		names[i] = r.Name
	}
	return names
}

type rawListing struct {
	EntryID int         `json:"entry_id" validate:"gte=0"`
	Files   []rawRecord `json:"files" validate:"dive"`
}

type rawRecord struct {
	Name         string    `json:"name" validate:"required"`
	AltNames     []AltName `json:"alt_names" validate:"dive"`
	Size         int64     `json:"size" validate:"gte=0"`
	LastModified time.Time `json:"last_modified"`
	Reason       string    `json:"reason"`
	AniListID    uint32    `json:"anilist_id"`
	TMDBID       *TMDBID   `json:"tmdb_id"`
}

// DuplicateNameError is returned when two records in a listing share a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate file name in listing: %q", e.Name)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a JSON listing. All field parsing happens here
// so the search and sort engines only ever see typed records.
func Parse(r io.Reader) (*Listing, error) {
	var raw rawListing
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid listing: %s", formatValidationErrors(verrs))
		}
		return nil, fmt.Errorf("failed to validate listing: %w", err)
	}

	listing := &Listing{
		EntryID: raw.EntryID,
		Records: make([]Record, 0, len(raw.Files)),
	}
	seen := make(map[string]struct{}, len(raw.Files))
	for _, f := range raw.Files {
		if _, dup := seen[f.Name]; dup {
			return nil, &DuplicateNameError{Name: f.Name}
		}
		seen[f.Name] = struct{}{}

		rec := Record{
			Name:       f.Name,
			Size:       f.Size,
			ModifiedAt: f.LastModified,
			Reason:     f.Reason,
			AniListID:  f.AniListID,
		}
		if len(f.AltNames) > 0 {
			rec.AltNames = append([]AltName(nil), f.AltNames...)
		}
		if f.TMDBID != nil {
			id := *f.TMDBID
			rec.TMDB = &id
		}
		listing.Records = append(listing.Records, rec)
	}
	return listing, nil
}

// LoadFile reads a listing from path, or from stdin when path is "-".
func LoadFile(path string) (*Listing, error) {
	if path == "-" {
		return Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
