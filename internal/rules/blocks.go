package rules

import (
	"fmt"

	"github.com/dotcommander/csslint/internal/ast"
	"github.com/dotcommander/csslint/internal/token"
	"github.com/dotcommander/csslint/internal/types"
)

// braceSpacingRule checks the space before `{`, the alignment of `}` with the
// first selector, and the inner padding of single-line rule sets.
type braceSpacingRule struct{}

func (r *braceSpacingRule) ID() string { return BraceSpacingID }
func (r *braceSpacingRule) Description() string {
	return "One space before '{'; '}' aligned with the selector, or padded by one space in single-line rule sets"
}
func (r *braceSpacingRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *braceSpacingRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	toks := p.Tokens
	compact := compactSet(p)

	p.Doc.Walk(func(i int, rs *ast.RuleSet) bool {
		open := rs.OpenTok
		if len(rs.Selectors) > 0 && open > 0 {
			before := toks[open-1]
			switch {
			case before.Kind == token.Newline || (before.Kind == token.Whitespace && open > 1 && toks[open-2].Kind == token.Newline):
				findings = append(findings, p.report(r, rs.Open, "Opening brace should be on the same line as the selector"))
			case before.Kind != token.Whitespace:
				findings = append(findings, p.reportFix(r, rs.Open, "Expected one space before '{'", " {"))
			case before.Text != " ":
				findings = append(findings, p.reportFix(r, before.Pos, "Expected exactly one space before '{'", " "))
			}
		}

		if rs.Unclosed {
			return true
		}

		if compact[i] {
			if rs.CloseTok == open+1 {
				return true
			}
			if after := toks[open+1]; after.Kind != token.Whitespace || after.Text != " " {
				findings = append(findings, p.reportFix(r, after.Pos, "Expected one space after '{' in single-line rule set", "{ "))
			}
			if before := toks[rs.CloseTok-1]; before.Kind != token.Whitespace || before.Text != " " {
				findings = append(findings, p.reportFix(r, rs.Close, "Expected one space before '}' in single-line rule set", " }"))
			}
			return true
		}

		if rs.Close.Column != rs.Pos.Column {
			findings = append(findings, p.report(r, rs.Close,
				fmt.Sprintf("Closing brace should be aligned with the selector at column %d", rs.Pos.Column)))
		}
		return true
	})
	return findings
}

// trailingSemicolonRule requires a semicolon after the last declaration of
// every multi-line block.
type trailingSemicolonRule struct{}

func (r *trailingSemicolonRule) ID() string { return TrailingSemicolonID }
func (r *trailingSemicolonRule) Description() string {
	return "End the last declaration of a block with a semicolon"
}
func (r *trailingSemicolonRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *trailingSemicolonRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	compact := compactSet(p)
	for i := range p.Doc.Decls {
		d := &p.Doc.Decls[i]
		if !d.Terminal || d.Semicolon || d.Parent < 0 || compact[d.Parent] {
			continue
		}
		last := p.Tokens[d.Tokens.End-1]
		findings = append(findings, p.reportFix(r, last.End(),
			fmt.Sprintf("Missing semicolon after %q", d.Property), ";"))
	}
	return findings
}

// ruleSetSeparationRule requires exactly one blank line between consecutive
// top-level rule sets. Two single-line rule sets may be adjacent.
type ruleSetSeparationRule struct{}

func (r *ruleSetSeparationRule) ID() string { return RuleSetSeparationID }
func (r *ruleSetSeparationRule) Description() string {
	return "Separate top-level rule sets with exactly one blank line"
}
func (r *ruleSetSeparationRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *ruleSetSeparationRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	doc := p.Doc
	toks := p.Tokens
	compact := compactSet(p)

	prev := -1
	lead := -1 // first comment after prev that starts on its own line
	for _, ref := range doc.Top {
		switch ref.Kind {
		case ast.NodeDeclaration:
			prev, lead = -1, -1
		case ast.NodeComment:
			c := doc.Comments[ref.Index]
			if prev >= 0 && lead < 0 && c.Pos.Line > doc.RuleSets[prev].Close.Line {
				lead = c.Tok
			}
		case ast.NodeRuleSet:
			cur := ref.Index
			if prev >= 0 && !doc.RuleSets[prev].Unclosed {
				to := doc.RuleSets[cur].Start
				if lead >= 0 {
					to = lead
				}
				blank := countNewlines(toks, doc.RuleSets[prev].CloseTok, to) - 1
				switch {
				case blank == 1:
				case blank <= 0 && compact[prev] && compact[cur]:
				case blank <= 0:
					findings = append(findings, p.report(r, toks[to].Pos, "Expected a blank line between rule sets"))
				default:
					findings = append(findings, p.report(r, toks[to].Pos,
						fmt.Sprintf("Expected exactly one blank line between rule sets, found %d", blank)))
				}
			}
			prev, lead = cur, -1
		}
	}
	return findings
}

// nestingDepthRule limits how deeply rule sets nest and how many lines a
// nested block may span.
type nestingDepthRule struct{}

func (r *nestingDepthRule) ID() string { return NestingDepthID }
func (r *nestingDepthRule) Description() string {
	return "Limit nesting depth and the length of nested blocks"
}
func (r *nestingDepthRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *nestingDepthRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	maxDepth := p.Opts.MaxNestingDepth
	maxLines := p.Opts.MaxNestedBlockLines

	p.Doc.Walk(func(i int, rs *ast.RuleSet) bool {
		depth := p.Doc.Depth(i)
		if depth > maxDepth {
			findings = append(findings, p.report(r, rs.Pos,
				fmt.Sprintf("Rule set is nested %d levels deep (max %d)", depth, maxDepth)))
		}
		if depth > 0 && !rs.Unclosed {
			if span := rs.Close.Line - rs.Open.Line; span > maxLines {
				findings = append(findings, p.report(r, rs.Open,
					fmt.Sprintf("Nested block spans %d lines (max %d)", span, maxLines)))
			}
		}
		return true
	})
	return findings
}
