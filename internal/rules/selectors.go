package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dotcommander/csslint/internal/ast"
	"github.com/dotcommander/csslint/internal/token"
	"github.com/dotcommander/csslint/internal/types"
)

// selectorPerLineRule requires each selector of a multi-selector rule set to
// start on its own line. Single-line rule sets are exempt.
type selectorPerLineRule struct{}

func (r *selectorPerLineRule) ID() string { return SelectorPerLineID }
func (r *selectorPerLineRule) Description() string {
	return "Place each selector of a selector list on its own line"
}
func (r *selectorPerLineRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *selectorPerLineRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	compact := compactSet(p)
	p.Doc.Walk(func(i int, rs *ast.RuleSet) bool {
		if len(rs.Selectors) < 2 || compact[i] || strings.HasPrefix(rs.Selectors[0].Text, "@") {
			return true
		}
		for k := 1; k < len(rs.Selectors); k++ {
			prev, sel := rs.Selectors[k-1], rs.Selectors[k]
			if !hasNewline(p.Tokens, prev.Tokens.End, sel.Tokens.Start) {
				findings = append(findings, p.report(r, sel.Pos,
					fmt.Sprintf("Selector %q should start on its own line", sel.Text)))
			}
		}
		return true
	})
	return findings
}

// selectorNamingRule checks class and id names against the configured
// naming pattern.
type selectorNamingRule struct{}

var selectorNameRe = regexp.MustCompile(`([.#])(-?[_a-zA-Z][_a-zA-Z0-9-]*)`)

func (r *selectorNamingRule) ID() string { return SelectorNamingID }
func (r *selectorNamingRule) Description() string {
	return "Class and id names follow the naming convention (lowercase, hyphen-delimited by default)"
}
func (r *selectorNamingRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *selectorNamingRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	pattern := p.Opts.NamePattern()
	p.Doc.Walk(func(_ int, rs *ast.RuleSet) bool {
		for _, sel := range rs.Selectors {
			if strings.HasPrefix(sel.Text, "@") || strings.HasPrefix(sel.Text, "%") {
				continue
			}
			for j := sel.Tokens.Start; j < sel.Tokens.End; j++ {
				tok := p.Tokens[j]
				if tok.Kind != token.SelectorFragment {
					continue
				}
				for _, m := range selectorNameRe.FindAllStringSubmatchIndex(tok.Text, -1) {
					if m[0] > 0 && isDigit(tok.Text[m[0]-1]) && tok.Text[m[0]] == '.' {
						// Part of a number such as 1.5, not a class.
						continue
					}
					name := tok.Text[m[4]:m[5]]
					if pattern.MatchString(name) {
						continue
					}
					kind := "Class"
					if tok.Text[m[2]] == '#' {
						kind = "Id"
					}
					findings = append(findings, p.report(r, posAt(tok, m[0]),
						fmt.Sprintf("%s name %q does not match naming pattern %s", kind, name, pattern.String())))
				}
			}
		}
		return true
	})
	return findings
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
