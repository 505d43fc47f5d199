package listing

import (
	"errors"
	"testing"

	"github.com/Digital-Shane/entry-sift/internal/core"
	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/Digital-Shane/entry-sift/internal/search"
	"github.com/google/go-cmp/cmp"
)

func newLoaded(t *testing.T, records []entry.Record) *Session {
	t.Helper()
	s := NewSession(SortState{Key: SortByName, Direction: Ascending}, SortOptions{})
	s.Load(records)
	return s
}

func viewNames(view []search.ScoredRecord) []string {
	out := make([]string, len(view))
	for i, sr := range view {
		out[i] = sr.Record.Name
	}
	return out
}

func TestSessionEmptyQueryRestoresSortedOrder(t *testing.T) {
	s := newLoaded(t, sampleRecords())
	s.OnHeaderClicked(SortBySize)
	before := s.View()

	s.OnQueryChanged("c")
	s.OnQueryChanged("c.m")
	if !s.Filtering() {
		t.Fatal("Filtering() = false after a query")
	}
	s.OnQueryChanged("")

	if diff := cmp.Diff(before, s.View()); diff != "" {
		t.Errorf("restored view mismatch (-before +after):\n%s", diff)
	}
	if s.Filtering() || s.Query() != "" {
		t.Errorf("Filtering() = %v, Query() = %q after clear", s.Filtering(), s.Query())
	}
}

func TestSessionFilterKeepsHiddenRecords(t *testing.T) {
	s := newLoaded(t, sampleRecords())
	s.OnQueryChanged("d.mkv")

	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	if diff := cmp.Diff([]string{"d.mkv"}, s.VisibleNames()); diff != "" {
		t.Errorf("VisibleNames() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Lookup("a.mkv"); !ok {
		t.Error("Lookup(a.mkv) = false, hidden records must stay loaded")
	}
}

func TestSessionSortWhileFiltering(t *testing.T) {
	records := []entry.Record{
		{Name: "show 02.mkv", Size: 1},
		{Name: "other.mkv", Size: 5},
		{Name: "show 01.mkv", Size: 3},
	}
	s := newLoaded(t, records)
	s.OnQueryChanged("show")
	s.OnHeaderClicked(SortBySize)
	s.OnHeaderClicked(SortBySize)

	if got := s.SortState(); got != (SortState{Key: SortBySize, Direction: Descending}) {
		t.Fatalf("SortState() = %+v, want size desc", got)
	}
	if diff := cmp.Diff([]string{"other.mkv", "show 01.mkv", "show 02.mkv"}, viewNames(s.View())); diff != "" {
		t.Errorf("sorted view mismatch (-want +got):\n%s", diff)
	}
	// The visibility mask survives the sort.
	if diff := cmp.Diff([]string{"show 01.mkv", "show 02.mkv"}, s.VisibleNames()); diff != "" {
		t.Errorf("VisibleNames() mismatch (-want +got):\n%s", diff)
	}

	// Clearing restores the sorted order, not the load order.
	s.OnQueryChanged("")
	if diff := cmp.Diff([]string{"other.mkv", "show 01.mkv", "show 02.mkv"}, viewNames(s.View())); diff != "" {
		t.Errorf("restored view mismatch (-want +got):\n%s", diff)
	}
	if len(s.VisibleNames()) != 3 {
		t.Errorf("VisibleNames() = %v, want all records", s.VisibleNames())
	}
}

func TestSessionLoadResets(t *testing.T) {
	s := newLoaded(t, sampleRecords())
	s.OnHeaderClicked(SortBySize)
	s.OnQueryChanged("a")
	if _, err := s.OnRuleEdited(core.Form{Search: "a", Replace: "b"}, []string{"a.mkv"}); err != nil {
		t.Fatalf("OnRuleEdited() error = %v", err)
	}

	s.Load([]entry.Record{{Name: "z.mkv"}})
	if s.Filtering() || s.Query() != "" {
		t.Error("Load kept the previous query")
	}
	if got := s.SortState(); got != (SortState{Key: SortByName, Direction: Ascending}) {
		t.Errorf("SortState() after Load = %+v, want initial state", got)
	}
	if s.Rule() != nil || len(s.Plan().Rows) != 0 {
		t.Error("Load kept the previous rename rule")
	}
	if diff := cmp.Diff([]string{"z.mkv"}, s.VisibleNames()); diff != "" {
		t.Errorf("VisibleNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionNotifiesListeners(t *testing.T) {
	s := NewSession(SortState{Key: SortByName, Direction: Ascending}, SortOptions{})
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.Load(sampleRecords())
	s.OnQueryChanged("a")
	s.OnQueryChanged("")
	s.OnHeaderClicked(SortBySize)
	if calls != 3 {
		t.Errorf("listener called %d times, want 3", calls)
	}

	unsubscribe()
	s.OnQueryChanged("b")
	if calls != 3 {
		t.Errorf("listener called after unsubscribe")
	}
}

func TestSessionRuleEditedKeepsLastValidPlan(t *testing.T) {
	s := newLoaded(t, sampleRecords())
	selected := []string{"a.mkv", "b.mkv"}

	plan, err := s.OnRuleEdited(core.Form{Search: "a", Replace: "x", Scope: core.ScopeBase}, selected)
	if err != nil {
		t.Fatalf("OnRuleEdited() error = %v", err)
	}
	want := []core.Change{{From: "a.mkv", To: "x.mkv"}}
	if diff := cmp.Diff(want, plan.Changes()); diff != "" {
		t.Fatalf("Changes() mismatch (-want +got):\n%s", diff)
	}

	kept, err := s.OnRuleEdited(core.Form{Search: "(", Regex: true}, selected)
	var invalid *core.InvalidPatternError
	if !errors.As(err, &invalid) {
		t.Fatalf("OnRuleEdited(bad regex) error = %v, want *InvalidPatternError", err)
	}
	if diff := cmp.Diff(plan, kept); diff != "" {
		t.Errorf("plan changed after a bad pattern (-want +got):\n%s", diff)
	}
	if !errors.Is(s.RuleError(), err) || s.Rule() == nil {
		t.Errorf("RuleError() = %v, Rule() = %v", s.RuleError(), s.Rule())
	}

	if _, err := s.OnRuleEdited(core.Form{Search: "b", Replace: "c", Scope: core.ScopeBase}, selected); err != nil {
		t.Fatalf("OnRuleEdited() error = %v", err)
	}
	if s.RuleError() != nil {
		t.Errorf("RuleError() = %v after a valid edit, want nil", s.RuleError())
	}
	// c.mkv is loaded but not selected, so renaming onto it is flagged.
	if issue := s.Plan().Rows[1].Issue; issue == "" {
		t.Error("rename onto an unselected listing name was not flagged")
	}
}
