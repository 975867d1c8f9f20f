package rules

import (
	"fmt"
	"strings"

	"github.com/dotcommander/csslint/internal/token"
	"github.com/dotcommander/csslint/internal/types"
)

// indentationRule checks the leading whitespace of every non-blank line
// against the brace depth at that point. Wrapped declaration values are
// expected one level deeper than their property.
type indentationRule struct{}

func (r *indentationRule) ID() string { return IndentationConsistencyID }
func (r *indentationRule) Description() string {
	return "Indent with the configured unit, one level per nesting depth"
}
func (r *indentationRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *indentationRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	toks := p.Tokens
	depth := 0
	inValue := false

	for i := 0; i < len(toks); i++ {
		if i == 0 || toks[i-1].Kind == token.Newline {
			if f, ok := r.checkLine(p, i, depth, inValue); ok {
				findings = append(findings, f)
			}
		}

		switch tok := toks[i]; tok.Kind {
		case token.BraceOpen:
			depth++
			inValue = false
		case token.BraceClose:
			if depth > 0 {
				depth--
			}
			inValue = false
		case token.Semicolon:
			inValue = false
		case token.Colon:
			inValue = true
		case token.Value:
			if !tok.IsString() {
				inValue = true
			}
		}
	}
	return findings
}

// checkLine inspects the line starting at token i.
func (r *indentationRule) checkLine(p *Pass, i, depth int, inValue bool) (types.Finding, bool) {
	toks := p.Tokens
	start := toks[i].Pos
	indent := ""
	j := i
	if toks[j].Kind == token.Whitespace {
		indent = toks[j].Text
		j++
	}
	if j >= len(toks) || toks[j].Kind == token.Newline || toks[j].Kind == token.EOF {
		return types.Finding{}, false
	}

	level := depth
	switch {
	case toks[j].Kind == token.BraceClose:
		level = max(depth-1, 0)
	case inValue:
		level = depth + 1
	}

	hasTab := strings.ContainsRune(indent, '\t')
	hasSpace := strings.ContainsRune(indent, ' ')
	if hasTab && hasSpace {
		f := p.reportFix(r, start, "Indentation mixes tabs and spaces", p.Opts.IndentString(level))
		f.Severity = types.SeverityError
		return f, true
	}

	unit := p.Opts.IndentUnit
	if (unit == IndentSpace && hasTab) || (unit == IndentTab && hasSpace) {
		return p.reportFix(r, start, fmt.Sprintf("Indentation uses %ss; expected %ss", other(unit), unit), p.Opts.IndentString(level)), true
	}

	want := level * p.Opts.IndentWidth
	if got := len(indent); got != want {
		return p.reportFix(r, start,
			fmt.Sprintf("Expected indentation of %d %s(s), found %d", want, unit, got),
			p.Opts.IndentString(level)), true
	}
	return types.Finding{}, false
}

func other(unit string) string {
	if unit == IndentTab {
		return IndentSpace
	}
	return IndentTab
}
