package rules

import (
	"fmt"
	"strings"

	"github.com/dotcommander/csslint/internal/ast"
	"github.com/dotcommander/csslint/internal/token"
	"github.com/dotcommander/csslint/internal/types"
)

// declarationSpacingRule checks the whitespace around colons and commas in
// declarations.
type declarationSpacingRule struct{}

func (r *declarationSpacingRule) ID() string { return DeclarationSpacingID }
func (r *declarationSpacingRule) Description() string {
	return "No space before ':', one space after ':' and after each ',' of a single-line value"
}
func (r *declarationSpacingRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *declarationSpacingRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	toks := p.Tokens

	for i := range p.Doc.Decls {
		d := &p.Doc.Decls[i]
		if d.ColonTok >= 0 {
			colon := d.ColonTok
			if colon > d.Tokens.Start && toks[colon-1].IsSpace() {
				findings = append(findings, p.reportFix(r, toks[colon-1].Pos,
					fmt.Sprintf("Unexpected whitespace before ':' in %q", d.Property), ":"))
			}
			if colon+1 < d.Tokens.End {
				if msg, ok := spaceAfter(toks, colon+1); !ok {
					findings = append(findings, p.reportFix(r, toks[colon].Pos,
						fmt.Sprintf("%s ':' in %q", msg, d.Property), ": "))
				}
			}
		}

		from, to := valueTokens(d)
		for k := from; k < to; k++ {
			if toks[k].Kind != token.Comma || k+1 >= to {
				continue
			}
			if msg, ok := spaceAfter(toks, k+1); !ok {
				findings = append(findings, p.reportFix(r, toks[k].Pos, msg+" ','", ", "))
			}
		}
	}
	return findings
}

// spaceAfter checks that the token at i is a single space or a line break.
func spaceAfter(toks []token.Token, i int) (string, bool) {
	tok := toks[i]
	switch {
	case tok.Kind == token.Newline:
		return "", true
	case tok.Kind != token.Whitespace:
		return "Expected one space after", false
	case tok.Text == " ":
		return "", true
	case i+1 < len(toks) && toks[i+1].Kind == token.Newline:
		// Trailing whitespace before a wrap is reported separately.
		return "", true
	default:
		return "Expected exactly one space after", false
	}
}

// atRuleOrderingRule requires @extend, then @include, then properties inside
// each block.
type atRuleOrderingRule struct{}

func (r *atRuleOrderingRule) ID() string { return AtRuleOrderingID }
func (r *atRuleOrderingRule) Description() string {
	return "List @extend first, then @include, then property declarations"
}
func (r *atRuleOrderingRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

const (
	orderExtend = iota
	orderInclude
	orderProperty
)

var orderNames = [...]string{
	orderExtend:   "@extend",
	orderInclude:  "@include",
	orderProperty: "property declarations",
}

func (r *atRuleOrderingRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	p.Doc.Walk(func(_ int, rs *ast.RuleSet) bool {
		seen := -1
		for _, di := range rs.Decls {
			d := &p.Doc.Decls[di]
			cat, ok := declOrder(d)
			if !ok {
				continue
			}
			if cat < seen {
				findings = append(findings, p.report(r, d.Pos,
					fmt.Sprintf("%s should come before %s", orderNames[cat], orderNames[seen])))
				break
			}
			seen = cat
		}
		return true
	})
	return findings
}

func declOrder(d *ast.Declaration) (int, bool) {
	switch {
	case d.IsAtRule && strings.EqualFold(d.Property, "@extend"):
		return orderExtend, true
	case d.IsAtRule && strings.EqualFold(d.Property, "@include"):
		return orderInclude, true
	case d.IsAtRule, d.ColonTok < 0, strings.HasPrefix(d.Property, "$"):
		return 0, false
	default:
		return orderProperty, true
	}
}
