package listing

import (
	"testing"
	"time"

	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func recordNames(records []entry.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func sampleRecords() []entry.Record {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []entry.Record{
		{Name: "b.mkv", Size: 300, ModifiedAt: base.Add(2 * time.Hour), Reason: "10"},
		{Name: "a.mkv", Size: 100, ModifiedAt: base, Reason: ""},
		{Name: "c.mkv", Size: 200, ModifiedAt: base.Add(time.Hour), Reason: "2"},
		{Name: "d.mkv", Size: 100, ModifiedAt: base.Add(3 * time.Hour), Reason: "duplicate"},
	}
}

func TestSortByKey(t *testing.T) {
	tests := []struct {
		key  SortKey
		dir  SortDirection
		want []string
	}{
		{key: SortByName, dir: Ascending, want: []string{"a.mkv", "b.mkv", "c.mkv", "d.mkv"}},
		{key: SortByName, dir: Descending, want: []string{"d.mkv", "c.mkv", "b.mkv", "a.mkv"}},
		// Equal sizes keep input order in both directions.
		{key: SortBySize, dir: Ascending, want: []string{"a.mkv", "d.mkv", "c.mkv", "b.mkv"}},
		{key: SortBySize, dir: Descending, want: []string{"b.mkv", "c.mkv", "a.mkv", "d.mkv"}},
		{key: SortByModified, dir: Ascending, want: []string{"a.mkv", "c.mkv", "b.mkv", "d.mkv"}},
		// No reason first, then numeric reasons by value, then free text.
		{key: SortByReason, dir: Ascending, want: []string{"a.mkv", "c.mkv", "b.mkv", "d.mkv"}},
		{key: SortByReason, dir: Descending, want: []string{"d.mkv", "b.mkv", "c.mkv", "a.mkv"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.key)+"/"+string(tc.dir), func(t *testing.T) {
			got := Sort(sampleRecords(), tc.key, tc.dir, SortOptions{})
			if diff := cmp.Diff(tc.want, recordNames(got)); diff != "" {
				t.Errorf("Sort(%s, %s) mismatch (-want +got):\n%s", tc.key, tc.dir, diff)
			}
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := sampleRecords()
	_ = Sort(in, SortByName, Ascending, SortOptions{})
	if diff := cmp.Diff(recordNames(sampleRecords()), recordNames(in)); diff != "" {
		t.Errorf("Sort mutated its input (-want +got):\n%s", diff)
	}
}

func TestSortByDisplayName(t *testing.T) {
	records := []entry.Record{
		{Name: "a.mkv", AltNames: []entry.AltName{{Label: "english", Value: "Zeta"}}},
		{Name: "b.mkv", AltNames: []entry.AltName{{Label: "english", Value: "Alpha"}}},
		{Name: "c.mkv"},
	}
	got := Sort(records, SortByName, Ascending, SortOptions{DisplayName: "english"})
	if diff := cmp.Diff([]string{"b.mkv", "c.mkv", "a.mkv"}, recordNames(got)); diff != "" {
		t.Errorf("Sort by english title mismatch (-want +got):\n%s", diff)
	}
}

func TestSortCollation(t *testing.T) {
	records := []entry.Record{{Name: "Zebra"}, {Name: "éclair"}, {Name: "apple"}, {Name: "Eagle"}}
	got := Sort(records, SortByName, Ascending, SortOptions{Locale: "en"})
	if diff := cmp.Diff([]string{"apple", "Eagle", "éclair", "Zebra"}, recordNames(got)); diff != "" {
		t.Errorf("collated sort mismatch (-want +got):\n%s", diff)
	}

	// An unparsable locale falls back to root collation instead of failing.
	got = Sort(records, SortByName, Ascending, SortOptions{Locale: "not a tag!"})
	if diff := cmp.Diff([]string{"apple", "Eagle", "éclair", "Zebra"}, recordNames(got)); diff != "" {
		t.Errorf("root collation sort mismatch (-want +got):\n%s", diff)
	}
}

func TestSortStateClick(t *testing.T) {
	s := SortState{Key: SortByName, Direction: Ascending}
	s = s.Click(SortByName)
	if s != (SortState{Key: SortByName, Direction: Descending}) {
		t.Errorf("same column click = %+v, want name desc", s)
	}
	s = s.Click(SortBySize)
	if s != (SortState{Key: SortBySize, Direction: Ascending}) {
		t.Errorf("new column click = %+v, want size asc", s)
	}
}

func TestParseSortKeyAndDirection(t *testing.T) {
	if k, err := ParseSortKey(" Size "); err != nil || k != SortBySize {
		t.Errorf("ParseSortKey(Size) = %q, %v", k, err)
	}
	if _, err := ParseSortKey("title"); err == nil {
		t.Error("ParseSortKey(title) error = nil, want error")
	}
	if d, err := ParseSortDirection("DESC"); err != nil || d != Descending {
		t.Errorf("ParseSortDirection(DESC) = %q, %v", d, err)
	}
	if _, err := ParseSortDirection("up"); err == nil {
		t.Error("ParseSortDirection(up) error = nil, want error")
	}
}

func TestPropertySortIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 15).Draw(t, "count")
		records := make([]entry.Record, n)
		for i := range records {
			records[i] = entry.Record{
				Name:       rapid.StringMatching(`[a-cA-C]{1,4}`).Draw(t, "name"),
				Size:       rapid.Int64Range(0, 5).Draw(t, "size"),
				Reason:     rapid.SampledFrom([]string{"", "1", "12", "-3", "dup", "old"}).Draw(t, "reason"),
				ModifiedAt: time.Unix(rapid.Int64Range(0, 3).Draw(t, "mtime"), 0),
			}
		}
		key := rapid.SampledFrom(SortKeys).Draw(t, "key")
		dir := rapid.SampledFrom([]SortDirection{Ascending, Descending}).Draw(t, "dir")

		once := Sort(records, key, dir, SortOptions{})
		twice := Sort(once, key, dir, SortOptions{})
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("Sort(%s, %s) not idempotent (-once +twice):\n%s", key, dir, diff)
		}
	})
}
