// Package findings orders, deduplicates and summarizes lint findings.
package findings

import (
	"cmp"
	"slices"

	"github.com/dotcommander/csslint/internal/types"
)

// Summary counts findings by severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Total    int `json:"total"`
}

// Compare orders findings by file, line, column and rule ID.
func Compare(a, b types.Finding) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		cmp.Compare(a.Line, b.Line),
		cmp.Compare(a.Column, b.Column),
		cmp.Compare(a.RuleID, b.RuleID),
	)
}

// Aggregate merges checker outputs into one ordered list. Two findings with
// the same rule at the same position are duplicates; the first one reported
// is kept. The input slices are not modified.
func Aggregate(groups ...[]types.Finding) []types.Finding {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	all := make([]types.Finding, 0, n)
	for _, g := range groups {
		all = append(all, g...)
	}
	slices.SortStableFunc(all, Compare)

	type key struct {
		file         string
		rule         string
		line, column int
	}
	seen := make(map[key]bool, len(all))
	out := all[:0]
	for _, f := range all {
		k := key{f.File, f.RuleID, f.Line, f.Column}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// Summarize counts findings by severity.
func Summarize(fs []types.Finding) Summary {
	var s Summary
	for _, f := range fs {
		switch f.Severity {
		case types.SeverityError:
			s.Errors++
		case types.SeverityWarning:
			s.Warnings++
		}
	}
	s.Total = len(fs)
	return s
}

// Highest returns the most severe severity present, or "" for no findings.
func Highest(fs []types.Finding) types.Severity {
	var best types.Severity
	for _, f := range fs {
		if f.Severity.Rank() > best.Rank() {
			best = f.Severity
		}
	}
	return best
}
