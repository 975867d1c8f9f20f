// Package types provides shared types used across the csslint codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import "fmt"

// Severity is the level attached to a finding.
type Severity string

// Severity level constants.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseSeverity converts a config string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityError, SeverityWarning:
		return Severity(s), nil
	default:
		return "", fmt.Errorf("invalid severity %q: must be 'error' or 'warning'", s)
	}
}

// Rank orders severities so callers can compare against a fail-on level.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Structural rule IDs reported by the pipeline itself rather than a checker.
const (
	RuleSyntax          = "syntax"
	RuleParseIncomplete = "parse-incomplete"
)

// Finding is one reported style violation. Findings are values and are
// never modified after a checker returns them.
type Finding struct {
	File     string   `json:"file"`
	RuleID   string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Fix      string   `json:"fix,omitempty"` // optional replacement text
}

// String renders the finding as file:line:col: severity: message [rule].
func (f Finding) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]", f.File, f.Line, f.Column, f.Severity, f.Message, f.RuleID)
}
