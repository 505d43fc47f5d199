package listing

import (
	"slices"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/core"
	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/Digital-Shane/entry-sift/internal/search"
	"github.com/rs/zerolog/log"
)

// Session holds the state of one loaded listing: the current arrangement, the
// order to restore when a query is cleared, the sort column and the last valid
// rename rule. Every UI event maps to one method.
//
// A Session is not safe for concurrent use.
type Session struct {
	view     []search.ScoredRecord
	snapshot []entry.Record
	query    string

	initialSort SortState
	sort        SortState
	opts        SortOptions

	listeners map[int]func()
	nextID    int

	rule    *core.Rule
	plan    core.Plan
	ruleErr error
}

// NewSession creates an empty session with the given initial sort state.
func NewSession(initial SortState, opts SortOptions) *Session {
	return &Session{
		initialSort: initial,
		sort:        initial,
		opts:        opts,
		listeners:   make(map[int]func()),
	}
}

// Load replaces the record set wholesale and resets every piece of session
// state. Records are shown in the order given.
func (s *Session) Load(records []entry.Record) {
	s.view = allVisible(records)
	s.snapshot = nil
	s.query = ""
	s.sort = s.initialSort
	s.rule = nil
	s.plan = core.Plan{}
	s.ruleErr = nil
	log.Debug().Int("records", len(records)).Msg("listing loaded")
	s.notify()
}

// OnQueryChanged filters the listing. The first non-empty query remembers the
// current arrangement and an empty query restores it exactly.
func (s *Session) OnQueryChanged(query string) {
	if strings.TrimSpace(query) == "" {
		if s.snapshot != nil {
			s.view = allVisible(s.snapshot)
			s.snapshot = nil
		} else {
			s.view = allVisible(search.Records(s.view))
		}
		s.query = ""
		log.Debug().Msg("filter cleared")
		s.notify()
		return
	}

	current := search.Records(s.view)
	if s.snapshot == nil {
		s.snapshot = current
	}
	s.query = query
	s.view = search.Filter(current, query)
	log.Debug().
		Str("query", query).
		Int("visible", search.CountVisible(s.view)).
		Int("records", len(s.view)).
		Msg("filter applied")
	s.notify()
}

// OnHeaderClicked sorts the full record set by key. Clicking the current
// column toggles its direction. While a query is active the sorted order
// becomes the order restored on clear and the visibility of each record is
// kept.
func (s *Session) OnHeaderClicked(key SortKey) {
	s.sort = s.sort.Click(key)
	source := s.snapshot
	if source == nil {
		source = search.Records(s.view)
	}
	sorted := Sort(source, s.sort.Key, s.sort.Direction, s.opts)

	if s.snapshot == nil {
		s.view = allVisible(sorted)
	} else {
		byName := make(map[string]search.ScoredRecord, len(s.view))
		for _, sr := range s.view {
			byName[sr.Record.Name] = sr
		}
		view := make([]search.ScoredRecord, len(sorted))
		for i, r := range sorted {
			prev := byName[r.Name]
			view[i] = search.ScoredRecord{Record: r, Score: prev.Score, Visible: prev.Visible}
		}
		s.view = view
		s.snapshot = sorted
	}
	log.Debug().
		Str("key", string(s.sort.Key)).
		Str("direction", string(s.sort.Direction)).
		Bool("filtering", s.Filtering()).
		Msg("listing sorted")
}

// OnRuleEdited compiles form and previews it over the selected filenames.
// Names in the listing that are not selected count as existing targets. When
// the form does not compile the previous rule and plan are kept and returned
// along with the error.
func (s *Session) OnRuleEdited(form core.Form, selected []string) (core.Plan, error) {
	rule, err := core.Compile(form)
	if err != nil {
		s.ruleErr = err
		return s.plan, err
	}

	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}
	var existing []string
	for _, sr := range s.view {
		if !chosen[sr.Record.Name] {
			existing = append(existing, sr.Record.Name)
		}
	}

	s.rule = rule
	s.ruleErr = nil
	s.plan = core.Preview(rule, selected, core.WithExisting(existing))
	log.Debug().
		Str("search", rule.Source()).
		Int("selected", len(selected)).
		Int("changed", s.plan.ChangedCount()).
		Msg("rename preview updated")
	return s.plan, nil
}

// Subscribe registers fn to run after every filter change and load. The
// returned function removes it.
func (s *Session) Subscribe(fn func()) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Session) notify() {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn()
		}
	}
}

// View returns a copy of the current arrangement, hidden records included.
func (s *Session) View() []search.ScoredRecord {
	return slices.Clone(s.view)
}

// Visible returns the visible records in display order.
func (s *Session) Visible() []entry.Record {
	out := make([]entry.Record, 0, len(s.view))
	for _, sr := range s.view {
		if sr.Visible {
			out = append(out, sr.Record)
		}
	}
	return out
}

// VisibleNames returns the names of the visible records in display order.
func (s *Session) VisibleNames() []string {
	visible := s.Visible()
	names := make([]string, len(visible))
	for i, r := range visible {
		names[i] = r.Name
	}
	return names
}

// Lookup finds a record by name regardless of visibility.
func (s *Session) Lookup(name string) (entry.Record, bool) {
	for _, sr := range s.view {
		if sr.Record.Name == name {
			return sr.Record, true
		}
	}
	return entry.Record{}, false
}

// Len returns the number of loaded records.
func (s *Session) Len() int { return len(s.view) }

// Query returns the active query, empty when not filtering.
func (s *Session) Query() string { return s.query }

// Filtering reports whether a non-empty query is active.
func (s *Session) Filtering() bool { return s.snapshot != nil }

// SortState returns the current sort column and direction.
func (s *Session) SortState() SortState { return s.sort }

// SortOptions returns the presentation settings used for name sorting.
func (s *Session) SortOptions() SortOptions { return s.opts }

// Plan returns the last valid rename preview.
func (s *Session) Plan() core.Plan { return s.plan }

// Rule returns the last rule that compiled, or nil.
func (s *Session) Rule() *core.Rule { return s.rule }

// RuleError returns the error from the most recent OnRuleEdited call, or nil
// if it compiled.
func (s *Session) RuleError() error { return s.ruleErr }

func allVisible(records []entry.Record) []search.ScoredRecord {
	out := make([]search.ScoredRecord, len(records))
	for i, r := range records {
		out[i] = search.ScoredRecord{Record: r, Visible: true}
	}
	return out
}
