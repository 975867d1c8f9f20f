// Package ast holds the rule-checkable tree built from a token stream.
//
// Nodes live in arena slices on the Document and refer to each other by
// index, so the tree has a single owner and no pointer cycles.
package ast

import (
	"strings"

	"github.com/dotcommander/csslint/internal/token"
)

// NodeKind identifies which arena a Ref points into.
type NodeKind int

const (
	NodeNone NodeKind = iota
	NodeRuleSet
	NodeDeclaration
	NodeComment
)

// Ref points at a node in one of the Document arenas. The zero Ref means
// "no node" (used as the document root for comment attachment).
type Ref struct {
	Kind  NodeKind
	Index int
}

// IsZero reports whether the ref points at nothing.
func (r Ref) IsZero() bool {
	return r.Kind == NodeNone
}

// Span is a half-open range of token indices [Start, End).
type Span struct {
	Start int
	End   int
}

// Selector is one entry of a selector list.
type Selector struct {
	Text   string
	Pos    token.Pos
	Tokens Span
}

// RuleSet is a selector list with its declaration block.
type RuleSet struct {
	Parent    int // -1 for top-level rule sets
	Selectors []Selector
	Decls     []int // indices into Document.Decls, in source order
	Nested    []int // indices into Document.RuleSets, in source order
	Body      []Ref // declarations, nested rule sets and comments interleaved

	Pos   token.Pos // first token of the selector list
	Open  token.Pos
	Close token.Pos

	Start    int // token index of the first selector token
	OpenTok  int
	CloseTok int // -1 when the block is never closed
	Unclosed bool
}

// Declaration is a property/value pair, or an at-rule statement such as
// `@include foo;` when IsAtRule is set.
type Declaration struct {
	Parent    int // owning rule set, -1 for top-level statements
	Property  string
	Value     string
	Pos       token.Pos
	Tokens    Span
	ColonTok  int // -1 when there is no colon
	Semicolon bool
	Terminal  bool
	IsAtRule  bool
}

// Comment is a comment attached to the node that follows it.
type Comment struct {
	Parent   int // enclosing rule set, -1 at top level
	Lines    []string
	Style    token.CommentStyle
	Pos      token.Pos
	Tok      int
	Attached Ref
}

// Document is the parsed form of one source file.
type Document struct {
	Name     string
	RuleSets []RuleSet
	Decls    []Declaration
	Comments []Comment
	Top      []Ref
}

// Depth returns the number of rule sets enclosing rule set i.
func (d *Document) Depth(i int) int {
	depth := 0
	for p := d.RuleSets[i].Parent; p >= 0; p = d.RuleSets[p].Parent {
		depth++
	}
	return depth
}

// Walk visits rule sets depth first in source order. Returning false from fn
// skips the rule set's children.
func (d *Document) Walk(fn func(i int, rs *RuleSet) bool) {
	var visit func(i int)
	visit = func(i int) {
		rs := &d.RuleSets[i]
		if !fn(i, rs) {
			return
		}
		for _, child := range rs.Nested {
			visit(child)
		}
	}
	for _, ref := range d.Top {
		if ref.Kind == NodeRuleSet {
			visit(ref.Index)
		}
	}
}

// IsCompact reports whether the rule set is written on a single line: there
// is no newline token between its first selector token and its closing brace.
func (d *Document) IsCompact(i int, toks []token.Token) bool {
	rs := &d.RuleSets[i]
	if rs.Unclosed || rs.CloseTok < 0 {
		return false
	}
	for j := rs.Start; j < rs.CloseTok && j < len(toks); j++ {
		if toks[j].Kind == token.Newline {
			return false
		}
		if toks[j].Kind == token.Comment && strings.ContainsAny(toks[j].Text, "\r\n") {
			return false
		}
	}
	return true
}

// CommentLines splits comment text into lines.
func CommentLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
