package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"github.com/dotcommander/csslint/internal/token"
	"github.com/dotcommander/csslint/internal/types"
)

// zeroUnitRule flags lengths of zero written with a unit.
type zeroUnitRule struct{}

var zeroUnitRe = regexp.MustCompile(`(?i)(^|[^\w.#-])([+-]?0+(?:\.0+)?)(px|em|rem|ex|ch|vw|vh|vmin|vmax|cm|mm|in|pt|pc|q)\b`)

func (r *zeroUnitRule) ID() string { return ZeroUnitID }
func (r *zeroUnitRule) Description() string {
	return "Omit units on zero values"
}
func (r *zeroUnitRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *zeroUnitRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	for i := range p.Doc.Decls {
		d := &p.Doc.Decls[i]
		if d.IsAtRule || p.Opts.zeroUnitAllowed(d.Property) {
			continue
		}
		from, to := valueTokens(d)
		for k := from; k < to; k++ {
			tok := p.Tokens[k]
			if tok.Kind != token.Value || tok.IsString() || strings.Contains(tok.Text, "url(") {
				continue
			}
			for _, m := range zeroUnitRe.FindAllStringSubmatchIndex(tok.Text, -1) {
				literal := tok.Text[m[4]:m[7]]
				findings = append(findings, p.reportFix(r, posAt(tok, m[4]),
					fmt.Sprintf("Unit on zero value %q in %q can be omitted", literal, d.Property), "0"))
			}
		}
	}
	return findings
}

// hexColorRule requires lowercase hex colors in their shortest form.
type hexColorRule struct{}

var hexColorRe = regexp.MustCompile(`(^|[^\w&#-])#([0-9A-Za-z]+)\b`)

func (r *hexColorRule) ID() string { return HexCaseAndShorthandID }
func (r *hexColorRule) Description() string {
	return "Write hex colors in lowercase and use the 3-digit form where possible"
}
func (r *hexColorRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *hexColorRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	for k, tok := range p.Tokens {
		if tok.Kind != token.Value || tok.IsString() || strings.Contains(tok.Text, "url(") {
			continue
		}
		for _, m := range hexColorRe.FindAllStringSubmatchIndex(tok.Text, -1) {
			hex := tok.Text[m[4]:m[5]]
			pos := posAt(p.Tokens[k], m[4]-1)
			literal := "#" + hex

			if _, err := csscolorparser.Parse(literal); err != nil {
				f := p.report(r, pos, fmt.Sprintf("Invalid hex color %q", literal))
				f.Severity = types.SeverityError
				findings = append(findings, f)
				continue
			}

			fixed := strings.ToLower(hex)
			lower := fixed == hex
			short := shortHex(fixed)
			if short != "" {
				fixed = short
			}
			var msg string
			switch {
			case !lower && short != "":
				msg = fmt.Sprintf("Hex color %q should be lowercase and shortened to %q", literal, "#"+fixed)
			case !lower:
				msg = fmt.Sprintf("Hex color %q should be lowercase", literal)
			case short != "":
				msg = fmt.Sprintf("Hex color %q can be shortened to %q", literal, "#"+fixed)
			default:
				continue
			}
			findings = append(findings, p.reportFix(r, pos, msg, "#"+fixed))
		}
	}
	return findings
}

// shortHex returns the 3-digit form of a lowercase 6-digit hex color, or ""
// when it has none.
func shortHex(hex string) string {
	if len(hex) != 6 || hex[0] != hex[1] || hex[2] != hex[3] || hex[4] != hex[5] {
		return ""
	}
	return string([]byte{hex[0], hex[2], hex[4]})
}

// quoteConsistencyRule requires strings and attribute values to use the
// configured quote character.
type quoteConsistencyRule struct{}

var unquotedAttrRe = regexp.MustCompile(`\[[^\]="']*=([^"'\]]+)\]`)

func (r *quoteConsistencyRule) ID() string { return QuoteConsistencyID }
func (r *quoteConsistencyRule) Description() string {
	return "Quote strings and attribute values with the configured quote character"
}
func (r *quoteConsistencyRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *quoteConsistencyRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	want := p.Opts.Quote()

	for _, tok := range p.Tokens {
		switch {
		case tok.IsString():
			q := tok.Text[0]
			if q == want {
				continue
			}
			body := tok.Text[1:]
			if len(body) > 0 && body[len(body)-1] == q {
				body = body[:len(body)-1]
			}
			if strings.IndexByte(body, want) >= 0 {
				// Switching quotes would require escaping.
				continue
			}
			findings = append(findings, p.reportFix(r, tok.Pos,
				fmt.Sprintf("Use %s quotes instead of %s quotes", p.Opts.QuoteChar, quoteName(q)),
				string(want)+body+string(want)))

		case tok.Kind == token.SelectorFragment:
			for _, m := range unquotedAttrRe.FindAllStringSubmatchIndex(tok.Text, -1) {
				value := tok.Text[m[2]:m[3]]
				findings = append(findings, p.reportFix(r, posAt(tok, m[2]),
					fmt.Sprintf("Attribute value %q should be quoted", value),
					string(want)+value+string(want)))
			}
		}
	}
	return findings
}

func quoteName(q byte) string {
	if q == '\'' {
		return QuoteSingle
	}
	return QuoteDouble
}
