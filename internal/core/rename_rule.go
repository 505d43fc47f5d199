package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Scope selects which part of a filename a rename rule touches.
type Scope string

const (
	ScopeWhole     Scope = "whole"
	ScopeBase      Scope = "base"
	ScopeExtension Scope = "extension"
)

// CaseTransform is applied after the replacement step.
type CaseTransform string

const (
	CaseNone  CaseTransform = "none"
	CaseLower CaseTransform = "lower"
	CaseUpper CaseTransform = "upper"
)

// ErrInvalidForm is wrapped by Compile for scope or case values it does not know.
var ErrInvalidForm = errors.New("invalid rename form")

// ParseScope validates a user supplied scope. Empty means ScopeWhole.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeWhole:
		return ScopeWhole, nil
	case ScopeBase:
		return ScopeBase, nil
	case ScopeExtension:
		return ScopeExtension, nil
	}
	return "", fmt.Errorf("%w: unknown scope %q (must be whole, base, or extension)", ErrInvalidForm, s)
}

// Next cycles whole -> base -> extension -> whole.
func (s Scope) Next() Scope {
	switch s {
	case ScopeWhole, "":
		return ScopeBase
	case ScopeBase:
		return ScopeExtension
	default:
		return ScopeWhole
	}
}

// ParseCaseTransform validates a user supplied case transform. Empty means CaseNone.
func ParseCaseTransform(s string) (CaseTransform, error) {
	switch CaseTransform(strings.ToLower(strings.TrimSpace(s))) {
	case "", CaseNone:
		return CaseNone, nil
	case CaseLower:
		return CaseLower, nil
	case CaseUpper:
		return CaseUpper, nil
	}
	return "", fmt.Errorf("%w: unknown case transform %q (must be none, lower, or upper)", ErrInvalidForm, s)
}

// Next cycles none -> lower -> upper -> none.
func (c CaseTransform) Next() CaseTransform {
	switch c {
	case CaseNone, "":
		return CaseLower
	case CaseLower:
		return CaseUpper
	default:
		return CaseNone
	}
}

// Form is the raw state of the rename dialog.
type Form struct {
	Search        string
	Replace       string
	Regex         bool
	MatchAll      bool
	CaseSensitive bool
	Scope         Scope
	Case          CaseTransform
}

// InvalidPatternError reports a search pattern that failed to compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// Rule is a compiled rename rule. It is immutable and safe to reuse after a
// later Compile call fails.
type Rule struct {
	pattern       *regexp.Regexp
	source        string
	replacement   string
	literal       bool
	matchAll      bool
	scope         Scope
	caseTransform CaseTransform
}

// Compile turns form state into a Rule.
//
// In regex mode the search text is RE2 syntax and the replacement may refer to
// groups as $1 or ${name}. Otherwise the search text is matched literally and
// the replacement is inserted verbatim. Matching is case-insensitive unless
// CaseSensitive is set. An empty search compiles to a rule whose replace step
// is the identity; scope and case transform still apply.
func Compile(form Form) (*Rule, error) {
	scope, err := ParseScope(string(form.Scope))
	if err != nil {
		return nil, err
	}
	caseTransform, err := ParseCaseTransform(string(form.Case))
	if err != nil {
		return nil, err
	}

	expr := form.Search
	if !form.Regex {
		expr = regexp.QuoteMeta(expr)
	}
	if !form.CaseSensitive && expr != "" {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		log.Debug().Str("pattern", form.Search).Err(err).Msg("rename pattern rejected")
		return nil, &InvalidPatternError{Pattern: form.Search, Err: err}
	}

	return &Rule{
		pattern:       re,
		source:        form.Search,
		replacement:   form.Replace,
		literal:       !form.Regex,
		matchAll:      form.MatchAll,
		scope:         scope,
		caseTransform: caseTransform,
	}, nil
}

// Source returns the search text the rule was compiled from.
func (r *Rule) Source() string { return r.source }

// Scope returns the part of a filename the rule applies to.
func (r *Rule) Scope() Scope { return r.scope }

// Apply renames one filename. Scopes other than ScopeWhole split at the last
// dot and fall back to the whole name when there is none. An extension that
// transforms to empty drops its dot.
func (r *Rule) Apply(name string) string {
	dot := strings.LastIndex(name, ".")
	if r.scope == ScopeWhole || dot < 0 {
		return r.transform(name)
	}

	base, ext := name[:dot], name[dot+1:]
	if r.scope == ScopeBase {
		return r.transform(base) + "." + ext
	}
	ext = r.transform(ext)
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func (r *Rule) transform(segment string) string {
	return r.applyCase(r.replace(segment))
}

func (r *Rule) replace(s string) string {
	if r.source == "" {
		return s
	}

	var out string
	switch {
	case r.matchAll && r.literal:
		out = r.pattern.ReplaceAllLiteralString(s, r.replacement)
	case r.matchAll:
		out = r.pattern.ReplaceAllString(s, r.replacement)
	default:
		out = s
		if loc := r.pattern.FindStringSubmatchIndex(s); loc != nil {
			repl := r.replacement
			if !r.literal {
				repl = string(r.pattern.ExpandString(nil, r.replacement, s, loc))
			}
			out = s[:loc[0]] + repl + s[loc[1]:]
		}
	}
	return strings.TrimSpace(out)
}

func (r *Rule) applyCase(s string) string {
	switch r.caseTransform {
	case CaseLower:
		return cases.Lower(language.Und).String(s)
	case CaseUpper:
		return cases.Upper(language.Und).String(s)
	default:
		return s
	}
}
