package rules

import (
	"unicode/utf8"

	"github.com/dotcommander/csslint/internal/ast"
	"github.com/dotcommander/csslint/internal/token"
)

// posAt returns the position of byte offset off inside a single-line token.
func posAt(tok token.Token, off int) token.Pos {
	pos := tok.Pos
	pos.Offset += off
	pos.Column += utf8.RuneCountInString(tok.Text[:off])
	return pos
}

// hasNewline reports whether any token in [from, to) is a newline.
func hasNewline(toks []token.Token, from, to int) bool {
	for i := from; i < to && i < len(toks); i++ {
		if toks[i].Kind == token.Newline {
			return true
		}
	}
	return false
}

// countNewlines counts newline tokens in the open interval (from, to).
func countNewlines(toks []token.Token, from, to int) int {
	n := 0
	for i := from + 1; i < to && i < len(toks); i++ {
		if toks[i].Kind == token.Newline {
			n++
		}
	}
	return n
}

// valueTokens returns the index range of a declaration's value: everything
// after the colon, or after the at-keyword for at-rule statements.
func valueTokens(d *ast.Declaration) (int, int) {
	switch {
	case d.ColonTok >= 0:
		return d.ColonTok + 1, d.Tokens.End
	case d.IsAtRule:
		return d.Tokens.Start + 1, d.Tokens.End
	default:
		return d.Tokens.End, d.Tokens.End
	}
}

// compactSet precomputes which rule sets are written on a single line.
func compactSet(p *Pass) []bool {
	compact := make([]bool, len(p.Doc.RuleSets))
	for i := range p.Doc.RuleSets {
		compact[i] = p.Doc.IsCompact(i, p.Tokens)
	}
	return compact
}
