package core

import (
	"fmt"
	"strings"
)

// Row is one line of a rename preview.
type Row struct {
	Original string
	Renamed  string
	Changed  bool
	// Issue explains why a changed row is unsafe to submit. Empty when fine.
	Issue string
}

// Change is one submitted rename, serialized as {"from": ..., "to": ...}.
type Change struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Plan is the ordered preview of a rule over a list of filenames. Rows that
// do not change are kept so the preview can show them.
type Plan struct {
	Rows []Row
}

// PreviewOption configures Preview.
type PreviewOption func(*previewOptions)

type previewOptions struct {
	existing []string
}

// WithExisting declares names already present in the entry directory that are
// not part of the selection, so renames onto them are flagged.
func WithExisting(names []string) PreviewOption {
	return func(o *previewOptions) {
		o.existing = names
	}
}

// Preview applies rule to every filename, preserving input order.
func Preview(rule *Rule, filenames []string, opts ...PreviewOption) Plan {
	var o previewOptions
	for _, opt := range opts {
		opt(&o)
	}

	plan := Plan{Rows: make([]Row, len(filenames))}
	for i, name := range filenames {
		renamed := rule.Apply(name)
		plan.Rows[i] = Row{
			Original: name,
			Renamed:  renamed,
			Changed:  renamed != name,
		}
	}
	plan.flagIssues(o.existing)
	return plan
}

// flagIssues marks changed rows whose target is unusable, another row's
// target, or a name that stays in place.
func (p Plan) flagIssues(existing []string) {
	kept := make(map[string]bool, len(existing)+len(p.Rows))
	for _, name := range existing {
		kept[name] = true
	}
	for _, row := range p.Rows {
		if !row.Changed {
			kept[row.Original] = true
		}
	}

	claimed := make(map[string]string, len(p.Rows))
	for i := range p.Rows {
		row := &p.Rows[i]
		if !row.Changed {
			continue
		}
		if issue := checkFilename(row.Renamed); issue != "" {
			row.Issue = issue
			continue
		}
		if kept[row.Renamed] {
			row.Issue = fmt.Sprintf("would overwrite %q", row.Renamed)
			continue
		}
		if first, ok := claimed[row.Renamed]; ok {
			row.Issue = fmt.Sprintf("conflicts with rename of %q", first)
			continue
		}
		claimed[row.Renamed] = row.Original
	}
}

// Changes returns only the rows that change, as submission pairs.
func (p Plan) Changes() []Change {
	changes := make([]Change, 0, len(p.Rows))
	for _, row := range p.Rows {
		if row.Changed {
			changes = append(changes, Change{From: row.Original, To: row.Renamed})
		}
	}
	return changes
}

// ChangedCount returns how many rows change.
func (p Plan) ChangedCount() int {
	n := 0
	for _, row := range p.Rows {
		if row.Changed {
			n++
		}
	}
	return n
}

// PlanError lists the rows of a plan that must not be submitted.
type PlanError struct {
	Rows []Row
}

func (e *PlanError) Error() string {
	parts := make([]string, 0, len(e.Rows))
	for _, row := range e.Rows {
		parts = append(parts, fmt.Sprintf("%s -> %s: %s", row.Original, row.Renamed, row.Issue))
	}
	return fmt.Sprintf("%d rename(s) cannot be applied: %s", len(e.Rows), strings.Join(parts, "; "))
}

// Err returns a *PlanError when any changed row carries an issue.
func (p Plan) Err() error {
	var bad []Row
	for _, row := range p.Rows {
		if row.Changed && row.Issue != "" {
			bad = append(bad, row)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return &PlanError{Rows: bad}
}
