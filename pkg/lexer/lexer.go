// Package lexer tokenises circuit-definition-language source text,
// tracking line/column/offset for every token so the error reporter
// can render a source excerpt and caret for any diagnostic.
package lexer

import (
	"strconv"

	"github.com/circuitlab/gatesim/pkg/diag"
	"github.com/circuitlab/gatesim/pkg/names"
)

// Scanner yields tokens one at a time from a source buffer, with one
// token of lookahead (Peek) — enough for the LL(1) grammar in
// pkg/parser. It never fails: malformed input is recorded as a
// lexical diagnostic (an invalid character additionally becomes an
// Invalid token) and scanning always continues to EOF.
type Scanner struct {
	src   []byte
	pos   int
	line  int
	col   int
	names *names.Table
	diags *diag.Diagnostics

	peeked   *Token
	haveNext bool
}

// New returns a Scanner over src. table interns identifiers
// encountered during scanning; diags receives lexical diagnostics
// (invalid characters, an unterminated comment, an out-of-range
// number literal).
func New(src []byte, table *names.Table, diags *diag.Diagnostics) *Scanner {
	return &Scanner{
		src:   src,
		line:  1,
		col:   1,
		names: table,
		diags: diags,
	}
}

func (s *Scanner) atEOF() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) peekByte() byte {
	if s.atEOF() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}

// skipSpaceAndComments consumes whitespace and \...\ comments,
// reporting an unterminated comment at EOF.
func (s *Scanner) skipSpaceAndComments() {
	for !s.atEOF() {
		c := s.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.advance()
		case c == '\\':
			startLine, startCol := s.line, s.col
			s.advance() // opening backslash
			closed := false
			for !s.atEOF() {
				if s.peekByte() == '\\' {
					s.advance()
					closed = true
					break
				}
				s.advance()
			}
			if !closed {
				s.diags.Add(diag.Lexical, startLine, startCol, "unterminated comment")
				return
			}
		default:
			return
		}
	}
}

// Next consumes and returns the next token.
func (s *Scanner) Next() Token {
	if s.haveNext {
		s.haveNext = false
		t := *s.peeked
		return t
	}
	return s.scan()
}

// Peek returns the next token without consuming it. A second call to
// Peek, or a call to Next, returns the same token until one Next call
// consumes it.
func (s *Scanner) Peek() Token {
	if !s.haveNext {
		t := s.scan()
		s.peeked = &t
		s.haveNext = true
	}
	return *s.peeked
}

var singleChar = map[byte]Kind{
	'=': Equals,
	',': Comma,
	';': Semicolon,
	'>': Arrow,
	'.': Dot,
	'{': LBrace,
	'}': RBrace,
	'(': LParen,
	')': RParen,
}

var keywordByText = map[string]names.Keyword{
	"CIRCUIT": names.KwCircuit,
	"DEVICES": names.KwDevices,
	"CONNECT": names.KwConnect,
	"MONITOR": names.KwMonitor,
	"END":     names.KwEnd,
	"SWITCH":  names.KwSwitch,
	"CLOCK":   names.KwClock,
	"AND":     names.KwAnd,
	"NAND":    names.KwNand,
	"OR":      names.KwOr,
	"NOR":     names.KwNor,
	"XOR":     names.KwXor,
	"NOT":     names.KwNot,
	"DTYPE":   names.KwDtype,
	"ON":      names.KwOn,
	"OFF":     names.KwOff,
}

func (s *Scanner) scan() Token {
	s.skipSpaceAndComments()

	line, col, offset := s.line, s.col, s.pos
	if s.atEOF() {
		return Token{Kind: EOF, Line: line, Col: col, Offset: offset}
	}

	c := s.peekByte()

	switch {
	case isLetter(c):
		start := s.pos
		for !s.atEOF() && isAlnum(s.peekByte()) {
			s.advance()
		}
		text := string(s.src[start:s.pos])
		if kw, ok := keywordByText[text]; ok {
			h := s.names.KeywordHandle(kw)
			return Token{Kind: Keyword, KeywordKind: kw, NameHandle: h, Lexeme: text, Line: line, Col: col, Offset: offset}
		}
		h := s.names.Intern(text)
		return Token{Kind: Name, NameHandle: h, Lexeme: text, Line: line, Col: col, Offset: offset}

	case isDigit(c):
		start := s.pos
		for !s.atEOF() && isDigit(s.peekByte()) {
			s.advance()
		}
		text := string(s.src[start:s.pos])
		n, err := strconv.Atoi(text)
		if err != nil {
			s.diags.Add(diag.Lexical, line, col, "malformed number %q", text)
			n = 0
		}
		return Token{Kind: Number, Number: n, Lexeme: text, Line: line, Col: col, Offset: offset}

	default:
		if kind, ok := singleChar[c]; ok {
			s.advance()
			return Token{Kind: kind, Lexeme: string(c), Line: line, Col: col, Offset: offset}
		}
		s.advance()
		s.diags.Add(diag.Lexical, line, col, "invalid character %q", string(c))
		return Token{Kind: Invalid, Lexeme: string(c), Line: line, Col: col, Offset: offset}
	}
}
