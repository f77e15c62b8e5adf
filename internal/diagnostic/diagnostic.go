// Package diagnostic models the checker's diagnostic sink: the append-only, deduplicated,
// order-stable collection of messages produced by a single analysis run.
package diagnostic

import (
	"fmt"
	"sort"

	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/config"
)

// Severity is the user-visible level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityUnused  Severity = "unused"
	SeverityInfo    Severity = "info"
)

// Code identifies the category of a hard type error. Most codes always report; E002 and E008
// are reported through ReportIfEnabled under reportIncompatibleMethodOverride and
// reportConstantRedefinition, so those rules' levels apply to them.
type Code string

const (
	CodeIncompatibleAssignment     Code = "E001"
	CodeIncompatibleOverride       Code = "E002"
	CodeInvalidBaseClass           Code = "E003"
	CodeIncorrectCallArity         Code = "E004"
	CodeUndefinedAttribute         Code = "E005"
	CodeBadExceptionType           Code = "E006"
	CodeNoOverloadMatches          Code = "E007"
	CodeConstantRedefinition       Code = "E008"
	CodeNoReturnViolation          Code = "E009"
	CodeDeclarationConflict        Code = "E010"
	CodeMissingImport              Code = "E011"
	CodeUnreachable                Code = "E012"
	CodeRevealType                 Code = "E013" // reveal_type / reveal_locals debug output
)

// Diagnostic is one reportable finding, carrying enough information for a host to render it and
// for the core's own dedup pass to identify duplicates.
type Diagnostic struct {
	Severity Severity
	Message  string
	Range    ast.Range
	File     string
	Rule     config.RuleName // empty for non-configurable hard errors
	Code     Code            // empty for lint-rule diagnostics
}

func key(d Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d:%s:%s", d.File, d.Range.Start.Line, d.Range.Start.Column, d.Code, d.Rule)
}

// Sink collects diagnostics for a single analysis run. It is append-only from the analyzer's
// perspective; Report deduplicates as items arrive, and All sorts the final collection.
type Sink struct {
	seen  map[string]bool
	items []Diagnostic
}

func NewSink() *Sink {
	return &Sink{seen: make(map[string]bool)}
}

// Report adds a diagnostic if its (file, line, column, code, rule) key hasn't been seen yet in
// this sink. Duplicate reports from re-evaluation within the same pass are common (speculative
// re-checks, overload retries) and must collapse silently.
func (s *Sink) Report(d Diagnostic) {
	k := key(d)
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.items = append(s.items, d)
}

// ReportIfEnabled reports d only when settings has rule at a non-none level; the severity is
// adjusted to match the configured level. Some rules still need their side effects (e.g. access
// tracking) even when set to none, so callers that only care about the diagnostic should guard
// with this helper while still running the underlying check unconditionally.
func (s *Sink) ReportIfEnabled(settings *config.Settings, rule config.RuleName, d Diagnostic) {
	level := settings.Level(rule)
	if level == config.LevelNone {
		return
	}
	d.Rule = rule
	if level == config.LevelError {
		d.Severity = SeverityError
	} else {
		d.Severity = SeverityWarning
	}
	s.Report(d)
}

// All returns the diagnostics sorted by (line, column), stable otherwise — this is the contract
// that makes re-running the same analysis produce byte-identical output.
func (s *Sink) All() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Range.Start, out[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// Len reports how many distinct diagnostics have been recorded so far.
func (s *Sink) Len() int { return len(s.items) }
