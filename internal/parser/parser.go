// Package parser builds an ast.Document from a scanned token stream.
//
// The parser is tolerant: unmatched braces, empty selectors and declarations
// without a colon are recorded as StructuralParseError values and parsing
// continues, so rule checkers still see the rest of a malformed file.
package parser

import (
	"fmt"
	"strings"

	"github.com/dotcommander/csslint/internal/ast"
	"github.com/dotcommander/csslint/internal/token"
)

// MaxDepth bounds rule set nesting. Deeper input is rejected as unrecoverable.
const MaxDepth = 256

// StructuralParseError reports a brace or statement problem at a token.
type StructuralParseError struct {
	Pos token.Pos
	Msg string
}

func (e *StructuralParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

type parser struct {
	toks     []token.Token
	doc      *ast.Document
	stack    []int
	pending  []int
	problems []*StructuralParseError
}

// Parse consumes the full token sequence. Recovered problems are returned in
// the slice; the error is non-nil only when parsing had to stop early, in
// which case the partial document is still returned.
func Parse(name string, toks []token.Token) (*ast.Document, []*StructuralParseError, error) {
	p := &parser{
		toks: toks,
		doc:  &ast.Document{Name: name},
	}
	err := p.parse()
	p.finish()
	return p.doc, p.problems, err
}

func (p *parser) parse() error {
	i := 0
	for i < len(p.toks) {
		tok := p.toks[i]
		switch tok.Kind {
		case token.EOF:
			return nil
		case token.Whitespace, token.Newline, token.Semicolon:
			i++
		case token.Comment:
			p.addComment(i)
			i++
		case token.BraceClose:
			p.closeBlock(i)
			i++
		case token.BraceOpen:
			p.report(tok.Pos, "block has no selector")
			if err := p.openRuleSet(i, i); err != nil {
				return err
			}
			i++
		default:
			end := p.statementEnd(i)
			if p.toks[end].Kind == token.BraceOpen {
				if err := p.openRuleSet(i, end); err != nil {
					return err
				}
				i = end + 1
				continue
			}
			p.addDeclaration(i, end)
			if p.toks[end].Kind == token.Semicolon {
				end++
			}
			i = end
		}
	}
	return nil
}

// statementEnd returns the index of the token that terminates the statement
// starting at i: a brace, a semicolon, or EOF.
func (p *parser) statementEnd(i int) int {
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.BraceOpen, token.BraceClose, token.Semicolon, token.EOF:
			return i
		}
	}
	return len(p.toks) - 1
}

func (p *parser) parent() int {
	if len(p.stack) == 0 {
		return -1
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) openRuleSet(start, open int) error {
	if len(p.stack) >= MaxDepth {
		return &StructuralParseError{
			Pos: p.toks[open].Pos,
			Msg: fmt.Sprintf("nesting exceeds %d levels", MaxDepth),
		}
	}

	selectors := p.splitSelectors(start, open)
	first := open
	if len(selectors) > 0 {
		first = selectors[0].Tokens.Start
	} else if start != open {
		p.report(p.toks[open].Pos, "rule set has no selector")
	}

	idx := len(p.doc.RuleSets)
	p.doc.RuleSets = append(p.doc.RuleSets, ast.RuleSet{
		Parent:    p.parent(),
		Selectors: selectors,
		Pos:       p.toks[first].Pos,
		Open:      p.toks[open].Pos,
		Start:     first,
		OpenTok:   open,
		CloseTok:  -1,
	})

	ref := ast.Ref{Kind: ast.NodeRuleSet, Index: idx}
	if parent := p.parent(); parent >= 0 {
		rs := &p.doc.RuleSets[parent]
		rs.Nested = append(rs.Nested, idx)
		rs.Body = append(rs.Body, ref)
	} else {
		p.doc.Top = append(p.doc.Top, ref)
	}
	p.attachPending(ref)
	p.stack = append(p.stack, idx)
	return nil
}

// splitSelectors splits tokens [start, end) on commas outside parentheses.
// An at-rule prelude such as a media query list is kept whole.
func (p *parser) splitSelectors(start, end int) []ast.Selector {
	for i := start; i < end; i++ {
		if p.toks[i].IsTrivia() {
			continue
		}
		if p.toks[i].Kind == token.AtKeyword {
			if sel, ok := p.buildSelector(start, end); ok {
				return []ast.Selector{sel}
			}
			return nil
		}
		break
	}

	var selectors []ast.Selector
	depth := 0
	groupStart := start
	flush := func(groupEnd int, atComma bool) {
		sel, ok := p.buildSelector(groupStart, groupEnd)
		if ok {
			selectors = append(selectors, sel)
		} else if atComma || len(selectors) > 0 {
			p.report(p.toks[groupEnd].Pos, "empty selector in selector list")
		}
	}

	for i := start; i < end; i++ {
		tok := p.toks[i]
		switch tok.Kind {
		case token.SelectorFragment, token.AtKeyword:
			depth += strings.Count(tok.Text, "(") - strings.Count(tok.Text, ")")
			if depth < 0 {
				depth = 0
			}
		case token.Comma:
			if depth == 0 {
				flush(i, true)
				groupStart = i + 1
			}
		}
	}
	flush(end, false)
	return selectors
}

func (p *parser) buildSelector(start, end int) (ast.Selector, bool) {
	first, last := -1, -1
	for i := start; i < end; i++ {
		if !p.toks[i].IsTrivia() {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return ast.Selector{}, false
	}
	return ast.Selector{
		Text:   joinCollapsed(p.toks[first : last+1]),
		Pos:    p.toks[first].Pos,
		Tokens: ast.Span{Start: first, End: last + 1},
	}, true
}

func (p *parser) addDeclaration(start, end int) {
	first, last := -1, -1
	colon := -1
	for i := start; i < end; i++ {
		tok := p.toks[i]
		if tok.IsTrivia() {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		if tok.Kind == token.Colon && colon < 0 {
			colon = i
		}
	}
	if first < 0 {
		return
	}

	decl := ast.Declaration{
		Parent:    p.parent(),
		Pos:       p.toks[first].Pos,
		Tokens:    ast.Span{Start: first, End: last + 1},
		ColonTok:  colon,
		Semicolon: p.toks[end].Kind == token.Semicolon,
		IsAtRule:  p.toks[first].Kind == token.AtKeyword,
	}

	switch {
	case colon >= 0:
		decl.Property = joinCollapsed(p.toks[first:colon])
		decl.Value = joinRaw(p.toks[colon+1 : last+1])
	case decl.IsAtRule:
		decl.Property = p.toks[first].Text
		decl.Value = joinRaw(p.toks[first+1 : last+1])
	default:
		decl.Property = joinCollapsed(p.toks[first : last+1])
		p.report(decl.Pos, fmt.Sprintf("declaration %q has no colon", decl.Property))
	}

	idx := len(p.doc.Decls)
	p.doc.Decls = append(p.doc.Decls, decl)
	ref := ast.Ref{Kind: ast.NodeDeclaration, Index: idx}
	if parent := p.parent(); parent >= 0 {
		rs := &p.doc.RuleSets[parent]
		rs.Decls = append(rs.Decls, idx)
		rs.Body = append(rs.Body, ref)
	} else {
		p.doc.Top = append(p.doc.Top, ref)
	}
	p.attachPending(ref)
}

func (p *parser) addComment(i int) {
	tok := p.toks[i]
	idx := len(p.doc.Comments)
	p.doc.Comments = append(p.doc.Comments, ast.Comment{
		Parent: p.parent(),
		Lines:  ast.CommentLines(tok.Text),
		Style:  tok.CommentStyle(),
		Pos:    tok.Pos,
		Tok:    i,
	})
	ref := ast.Ref{Kind: ast.NodeComment, Index: idx}
	if parent := p.parent(); parent >= 0 {
		rs := &p.doc.RuleSets[parent]
		rs.Body = append(rs.Body, ref)
	} else {
		p.doc.Top = append(p.doc.Top, ref)
	}
	p.pending = append(p.pending, idx)
}

func (p *parser) attachPending(ref ast.Ref) {
	for _, c := range p.pending {
		p.doc.Comments[c].Attached = ref
	}
	p.pending = p.pending[:0]
}

func (p *parser) closeBlock(i int) {
	if len(p.stack) == 0 {
		p.report(p.toks[i].Pos, "unmatched closing brace")
		return
	}
	idx := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	rs := &p.doc.RuleSets[idx]
	rs.Close = p.toks[i].Pos
	rs.CloseTok = i
	p.markTerminal(rs)
	// Comments at the end of a block precede nothing; they stay on the root.
	p.pending = p.pending[:0]
}

// finish closes every block still open at end of input.
func (p *parser) finish() {
	for n := len(p.stack) - 1; n >= 0; n-- {
		rs := &p.doc.RuleSets[p.stack[n]]
		rs.Unclosed = true
		p.markTerminal(rs)
		p.report(rs.Open, "block is never closed")
	}
	p.stack = nil
}

func (p *parser) markTerminal(rs *ast.RuleSet) {
	if len(rs.Decls) > 0 {
		p.doc.Decls[rs.Decls[len(rs.Decls)-1]].Terminal = true
	}
}

func (p *parser) report(pos token.Pos, msg string) {
	p.problems = append(p.problems, &StructuralParseError{Pos: pos, Msg: msg})
}

// joinCollapsed concatenates token text, dropping comments and collapsing
// whitespace runs to a single space.
func joinCollapsed(toks []token.Token) string {
	var b strings.Builder
	space := false
	for _, tok := range toks {
		switch {
		case tok.Kind == token.Comment:
			continue
		case tok.IsSpace():
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteString(tok.Text)
	}
	return b.String()
}

// joinRaw concatenates token text and trims surrounding whitespace.
func joinRaw(toks []token.Token) string {
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Text)
	}
	return strings.TrimSpace(b.String())
}
