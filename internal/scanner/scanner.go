// Package scanner converts CSS and SCSS source into a lossless token stream.
//
// Unlike a compiler-oriented scanner, whitespace and comments are kept as
// tokens so that formatting rules can inspect them, and the concatenated
// token text always reproduces the input byte for byte.
package scanner

import (
	"fmt"
	"unicode/utf8"

	"github.com/dotcommander/csslint/internal/token"
)

// Options controls dialect-specific scanning.
type Options struct {
	// SCSS enables `//` line comments.
	SCSS bool
}

// LexErrorKind classifies lexical errors.
type LexErrorKind int

const (
	UnterminatedComment LexErrorKind = iota + 1
	UnterminatedString
)

// LexError reports a token whose closing delimiter is missing. The scanner
// keeps going after recording it.
type LexError struct {
	Kind LexErrorKind
	Pos  token.Pos
}

func (e *LexError) Error() string {
	switch e.Kind {
	case UnterminatedComment:
		return fmt.Sprintf("%d:%d: unterminated comment", e.Pos.Line, e.Pos.Column)
	case UnterminatedString:
		return fmt.Sprintf("%d:%d: unterminated string", e.Pos.Line, e.Pos.Column)
	default:
		return fmt.Sprintf("%d:%d: lexical error", e.Pos.Line, e.Pos.Column)
	}
}

// statement is the syntactic context of the statement being scanned.
type statement int

const (
	stmtNone statement = iota
	stmtSelector
	stmtDeclaration
)

// Scanner produces tokens one at a time. It is single pass: once a token has
// been returned it is not produced again.
type Scanner struct {
	src  []byte
	opts Options

	off  int
	line int
	col  int

	stmt       statement
	stmtAt     bool // statement began with an at-keyword
	stmtWords  int
	afterColon bool
	parens     int

	errors []*LexError
}

// New returns a scanner over src.
func New(src []byte, opts Options) *Scanner {
	return &Scanner{src: src, opts: opts, line: 1, col: 1}
}

// Errors returns the lexical errors recorded so far.
func (s *Scanner) Errors() []*LexError {
	return s.errors
}

// All drains the scanner and returns every token, ending with EOF.
func (s *Scanner) All() []token.Token {
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next token. At end of input it returns EOF repeatedly.
func (s *Scanner) Next() token.Token {
	if s.off >= len(s.src) {
		return token.Token{Kind: token.EOF, Pos: s.pos()}
	}

	ch := s.src[s.off]
	switch {
	case ch == '\n':
		return s.emit(token.Newline, 1)
	case ch == '\r':
		if s.peekAt(1) == '\n' {
			return s.emit(token.Newline, 2)
		}
		return s.emit(token.Newline, 1)
	case isSpace(ch):
		n := 1
		for s.off+n < len(s.src) && isSpace(s.src[s.off+n]) {
			n++
		}
		return s.emit(token.Whitespace, n)
	case ch == '/' && s.peekAt(1) == '*':
		return s.scanBlockComment()
	case ch == '/' && s.peekAt(1) == '/' && s.opts.SCSS && s.parens == 0:
		n := 2
		for s.off+n < len(s.src) && !isNewline(s.src[s.off+n]) {
			n++
		}
		return s.emit(token.Comment, n)
	case ch == '{':
		s.resetStatement()
		return s.emit(token.BraceOpen, 1)
	case ch == '}':
		s.resetStatement()
		return s.emit(token.BraceClose, 1)
	case ch == ';' && s.parens == 0:
		s.resetStatement()
		return s.emit(token.Semicolon, 1)
	}

	if s.stmt == stmtNone {
		s.stmt = s.classify()
	}

	switch {
	case ch == '"' || ch == '\'':
		s.stmtWords++
		return s.scanString(ch)
	case ch == ',':
		return s.emit(token.Comma, 1)
	case ch == ':' && s.isColon():
		s.afterColon = true
		return s.emit(token.Colon, 1)
	case ch == '@' && s.stmtWords == 0 && isNameStart(s.peekAt(1)):
		n := 1
		for s.off+n < len(s.src) && isNameChar(s.src[s.off+n]) {
			n++
		}
		s.stmtWords++
		s.stmtAt = true
		return s.emit(token.AtKeyword, n)
	}

	s.stmtWords++
	return s.emit(s.wordKind(), s.wordLen())
}

func (s *Scanner) resetStatement() {
	s.stmt = stmtNone
	s.stmtAt = false
	s.stmtWords = 0
	s.afterColon = false
	s.parens = 0
}

func (s *Scanner) isColon() bool {
	return s.stmt == stmtDeclaration && !s.stmtAt && !s.afterColon && s.parens == 0
}

func (s *Scanner) wordKind() token.Kind {
	switch {
	case s.stmt == stmtSelector:
		return token.SelectorFragment
	case s.afterColon || s.stmtAt:
		return token.Value
	default:
		return token.Property
	}
}

// wordLen measures the word at the current offset and tracks parentheses.
func (s *Scanner) wordLen() int {
	i := s.off
	for i < len(s.src) {
		ch := s.src[i]
		switch {
		case isSpace(ch) || isNewline(ch):
			return s.wordEnd(i)
		case ch == '\\' && i+1 < len(s.src):
			_, size := utf8.DecodeRune(s.src[i+1:])
			i += 1 + size
			continue
		case ch == '#' && i+1 < len(s.src) && s.src[i+1] == '{':
			i = skipInterpolation(s.src, i)
			continue
		case ch == '{' || ch == '}' || ch == ',' || ch == '"' || ch == '\'':
			return s.wordEnd(i)
		case ch == ';' && s.parens == 0:
			return s.wordEnd(i)
		case ch == ':' && i > s.off && s.isColon():
			return s.wordEnd(i)
		case ch == '/' && i+1 < len(s.src) && s.src[i+1] == '*':
			return s.wordEnd(i)
		case ch == '/' && i+1 < len(s.src) && s.src[i+1] == '/' && s.opts.SCSS && s.parens == 0:
			return s.wordEnd(i)
		case ch == '(':
			s.parens++
		case ch == ')':
			if s.parens > 0 {
				s.parens--
			}
		}
		i++
	}
	return s.wordEnd(i)
}

func (s *Scanner) wordEnd(i int) int {
	if i == s.off {
		// A lone delimiter that did not start a token of its own.
		_, size := utf8.DecodeRune(s.src[s.off:])
		return size
	}
	return i - s.off
}

// classify looks ahead from the current offset to decide whether the
// statement is a selector list (a `{` comes first) or a declaration.
func (s *Scanner) classify() statement {
	depth := 0
	src := s.src
	for i := s.off; i < len(src); {
		ch := src[i]
		switch {
		case ch == '"' || ch == '\'':
			i = skipString(src, i)
			continue
		case ch == '/' && i+1 < len(src) && src[i+1] == '*':
			i = skipBlockComment(src, i)
			continue
		case ch == '/' && i+1 < len(src) && src[i+1] == '/' && s.opts.SCSS && depth == 0:
			for i < len(src) && !isNewline(src[i]) {
				i++
			}
			continue
		case ch == '\\':
			i += 2
			continue
		case ch == '#' && i+1 < len(src) && src[i+1] == '{':
			i = skipInterpolation(src, i)
			continue
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == '{':
			return stmtSelector
		case ch == '}':
			return stmtDeclaration
		case ch == ';' && depth == 0:
			return stmtDeclaration
		}
		i++
	}
	return stmtDeclaration
}

func (s *Scanner) scanBlockComment() token.Token {
	end := skipBlockComment(s.src, s.off)
	if end > len(s.src) || !hasSuffix(s.src[s.off:end], "*/") || end-s.off < 4 {
		s.errors = append(s.errors, &LexError{Kind: UnterminatedComment, Pos: s.pos()})
		return s.emit(token.Comment, len(s.src)-s.off)
	}
	return s.emit(token.Comment, end-s.off)
}

func (s *Scanner) scanString(quote byte) token.Token {
	end := skipString(s.src, s.off)
	if end-s.off < 2 || s.src[end-1] != quote || isEscaped(s.src, s.off+1, end-1) {
		s.errors = append(s.errors, &LexError{Kind: UnterminatedString, Pos: s.pos()})
	}
	return s.emit(token.Value, end-s.off)
}

func (s *Scanner) emit(kind token.Kind, n int) token.Token {
	tok := token.Token{Kind: kind, Text: string(s.src[s.off : s.off+n]), Pos: s.pos()}
	s.advance(n)
	return tok
}

func (s *Scanner) advance(n int) {
	end := s.off + n
	for s.off < end {
		r, size := utf8.DecodeRune(s.src[s.off:])
		s.off += size
		switch {
		case r == '\n':
			s.line++
			s.col = 1
		case r == '\r' && (s.off >= len(s.src) || s.src[s.off] != '\n'):
			s.line++
			s.col = 1
		case r == '\r':
			// The following \n ends the line.
		default:
			s.col++
		}
	}
}

func (s *Scanner) pos() token.Pos {
	return token.Pos{Offset: s.off, Line: s.line, Column: s.col}
}

func (s *Scanner) peekAt(n int) byte {
	if s.off+n < len(s.src) {
		return s.src[s.off+n]
	}
	return 0
}

// skipString returns the offset just past the string starting at i. An
// unterminated string stops before the end of its line.
func skipString(src []byte, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		switch ch := src[i]; {
		case ch == '\\' && i+1 < len(src):
			i += 2
		case ch == quote:
			return i + 1
		case isNewline(ch):
			return i
		default:
			i++
		}
	}
	return len(src)
}

// skipBlockComment returns the offset just past the comment starting at i,
// or len(src) when it is unterminated.
func skipBlockComment(src []byte, i int) int {
	for j := i + 2; j+1 < len(src); j++ {
		if src[j] == '*' && src[j+1] == '/' {
			return j + 2
		}
	}
	return len(src)
}

// skipInterpolation returns the offset just past a `#{...}` expression.
func skipInterpolation(src []byte, i int) int {
	depth := 0
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1
			}
		case '\n':
			return j
		}
	}
	return len(src)
}

// isEscaped reports whether the byte at pos is preceded by an odd number of
// backslashes starting no earlier than from.
func isEscaped(src []byte, from, pos int) bool {
	n := 0
	for j := pos - 1; j >= from && src[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func hasSuffix(b []byte, suffix string) bool {
	return len(b) >= len(suffix) && string(b[len(b)-len(suffix):]) == suffix
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f'
}

func isNewline(ch byte) bool {
	return ch == '\n' || ch == '\r'
}

func isNameStart(ch byte) bool {
	return ch == '_' || ch == '-' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}
