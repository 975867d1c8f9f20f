package rules

import (
	"fmt"

	"github.com/dotcommander/csslint/internal/token"
	"github.com/dotcommander/csslint/internal/types"
)

type trailingWhitespaceRule struct{}

func (r *trailingWhitespaceRule) ID() string { return TrailingWhitespaceID }
func (r *trailingWhitespaceRule) Description() string {
	return "No whitespace at the end of a line"
}
func (r *trailingWhitespaceRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *trailingWhitespaceRule) Check(p *Pass) []types.Finding {
	var findings []types.Finding
	toks := p.Tokens
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Kind != token.Whitespace {
			continue
		}
		if next := toks[i+1].Kind; next == token.Newline || next == token.EOF {
			findings = append(findings, p.reportFix(r, toks[i].Pos, "Trailing whitespace", ""))
		}
	}
	return findings
}

// finalNewlineRule requires a non-empty file to end with exactly one newline.
type finalNewlineRule struct{}

func (r *finalNewlineRule) ID() string { return FinalNewlineID }
func (r *finalNewlineRule) Description() string {
	return "End the file with a single newline"
}
func (r *finalNewlineRule) DefaultSeverity() types.Severity { return types.SeverityWarning }

func (r *finalNewlineRule) Check(p *Pass) []types.Finding {
	toks := p.Tokens
	last := len(toks) - 1
	if last >= 0 && toks[last].Kind == token.EOF {
		last--
	}
	if last < 0 {
		return nil
	}
	if toks[last].Kind != token.Newline {
		return []types.Finding{p.reportFix(r, toks[last].End(), "File should end with a newline", "\n")}
	}

	// Count the newlines in the trailing run of blank lines.
	first := last
	newlines := 0
	i := last
	for ; i >= 0 && toks[i].IsSpace(); i-- {
		if toks[i].Kind == token.Newline {
			newlines++
			first = i
		}
	}
	if newlines <= 1 || i < 0 {
		return nil
	}
	return []types.Finding{p.report(r, toks[first].End(),
		fmt.Sprintf("File ends with %d blank lines", newlines-1))}
}
