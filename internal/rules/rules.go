// Package rules implements the style checkers and the registry that holds
// them. Every checker is a pure function of a Pass: it reads the parsed
// document and the raw token stream and returns findings, never mutating
// either.
package rules

import (
	"sort"

	"github.com/dotcommander/csslint/internal/ast"
	"github.com/dotcommander/csslint/internal/token"
	"github.com/dotcommander/csslint/internal/types"
)

// Rule IDs.
const (
	IndentationConsistencyID = "indentation-consistency"
	SelectorPerLineID        = "selector-per-line"
	BraceSpacingID           = "brace-spacing"
	DeclarationSpacingID     = "declaration-spacing"
	TrailingSemicolonID      = "trailing-semicolon"
	ZeroUnitID               = "zero-unit"
	HexCaseAndShorthandID    = "hex-case-and-shorthand"
	QuoteConsistencyID       = "quote-consistency"
	RuleSetSeparationID      = "rule-set-separation"
	NestingDepthID           = "nesting-depth"
	AtRuleOrderingID         = "at-rule-ordering"
	TrailingWhitespaceID     = "trailing-whitespace"
	FinalNewlineID           = "final-newline"
	SelectorNamingID         = "selector-naming"
)

// Rule is a single style checker.
type Rule interface {
	ID() string
	Description() string
	DefaultSeverity() types.Severity
	Check(p *Pass) []types.Finding
}

// Pass is the read-only input handed to every checker for one document.
type Pass struct {
	File   string
	Doc    *ast.Document
	Tokens []token.Token
	Opts   *Options
}

// report builds a finding for rule r at pos with the rule's default severity.
func (p *Pass) report(r Rule, pos token.Pos, msg string) types.Finding {
	return types.Finding{
		File:     p.File,
		RuleID:   r.ID(),
		Severity: r.DefaultSeverity(),
		Message:  msg,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}

func (p *Pass) reportFix(r Rule, pos token.Pos, msg, fix string) types.Finding {
	f := p.report(r, pos, msg)
	f.Fix = fix
	return f
}

// Registry holds rules keyed by ID, preserving registration order.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry returns a registry holding the given rules.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{byID: make(map[string]Rule)}
	for _, rule := range rules {
		r.Add(rule)
	}
	return r
}

// Add registers a rule. A rule with an existing ID replaces the old one.
func (r *Registry) Add(rule Rule) {
	if _, ok := r.byID[rule.ID()]; ok {
		for i, existing := range r.rules {
			if existing.ID() == rule.ID() {
				r.rules[i] = rule
			}
		}
	} else {
		r.rules = append(r.rules, rule)
	}
	r.byID[rule.ID()] = rule
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return append([]Rule{}, r.rules...)
}

// Lookup returns the rule with the given ID.
func (r *Registry) Lookup(id string) (Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// IDs returns the sorted rule IDs.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		ids = append(ids, rule.ID())
	}
	sort.Strings(ids)
	return ids
}

// Select returns the rules enabled by opts, in registration order.
func (r *Registry) Select(opts *Options) []Rule {
	var out []Rule
	for _, rule := range r.rules {
		if opts.Enabled(rule.ID()) {
			out = append(out, rule)
		}
	}
	return out
}

// DefaultRegistry returns a registry with every built-in rule.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&indentationRule{},
		&selectorPerLineRule{},
		&braceSpacingRule{},
		&declarationSpacingRule{},
		&trailingSemicolonRule{},
		&zeroUnitRule{},
		&hexColorRule{},
		&quoteConsistencyRule{},
		&ruleSetSeparationRule{},
		&nestingDepthRule{},
		&atRuleOrderingRule{},
		&trailingWhitespaceRule{},
		&finalNewlineRule{},
		&selectorNamingRule{},
	)
}
