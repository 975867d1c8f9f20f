// Package token defines the lexical tokens produced by the stylesheet scanner.
package token

import "strings"

// Kind identifies the lexical class of a token.
type Kind int

const (
	Illegal Kind = iota
	EOF

	SelectorFragment
	BraceOpen
	BraceClose
	Property
	Colon
	Value
	Comma
	Semicolon
	Comment
	Whitespace
	Newline
	AtKeyword
)

var kinds = [...]string{
	Illegal:          "ILLEGAL",
	EOF:              "EOF",
	SelectorFragment: "SELECTOR_FRAGMENT",
	BraceOpen:        "BRACE_OPEN",
	BraceClose:       "BRACE_CLOSE",
	Property:         "PROPERTY",
	Colon:            "COLON",
	Value:            "VALUE",
	Comma:            "COMMA",
	Semicolon:        "SEMICOLON",
	Comment:          "COMMENT",
	Whitespace:       "WHITESPACE",
	Newline:          "NEWLINE",
	AtKeyword:        "AT_KEYWORD",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k >= 0 && k < Kind(len(kinds)) {
		return kinds[k]
	}
	return ""
}

// Pos is a source location. Line and Column are 1-based; Column counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// CommentStyle classifies comment tokens.
type CommentStyle int

const (
	NotComment CommentStyle = iota
	BlockComment
	DocComment
	LineComment
)

func (s CommentStyle) String() string {
	switch s {
	case BlockComment:
		return "block"
	case DocComment:
		return "doc"
	case LineComment:
		return "line"
	default:
		return "none"
	}
}

// Token is one lexical token. Text is the exact source slice it covers.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

// End returns the position just past the token.
func (t Token) End() Pos {
	end := t.Pos
	end.Offset += len(t.Text)
	for _, r := range t.Text {
		if r == '\n' {
			end.Line++
			end.Column = 1
			continue
		}
		end.Column++
	}
	return end
}

// CommentStyle returns the comment style derived from the token text.
func (t Token) CommentStyle() CommentStyle {
	if t.Kind != Comment {
		return NotComment
	}
	switch {
	case strings.HasPrefix(t.Text, "//"):
		return LineComment
	case strings.HasPrefix(t.Text, "/**") && t.Text != "/**/":
		return DocComment
	default:
		return BlockComment
	}
}

// IsString reports whether the token is a quoted string.
func (t Token) IsString() bool {
	return t.Kind == Value && len(t.Text) > 0 && (t.Text[0] == '"' || t.Text[0] == '\'')
}

// IsSpace reports whether the token is whitespace or a newline.
func (t Token) IsSpace() bool {
	return t.Kind == Whitespace || t.Kind == Newline
}

// IsTrivia reports whether the token carries no structure (space or comment).
func (t Token) IsTrivia() bool {
	return t.IsSpace() || t.Kind == Comment
}
