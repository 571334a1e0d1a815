// Package scanner turns Lox source text into a sequence of tokens.
package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/lemonberrylabs/golox/pkg/diag"
	"github.com/lemonberrylabs/golox/pkg/token"
)

// Lexical error messages.
const (
	MsgUnexpectedCharacter = "Unexpected character."
	MsgUnterminatedString  = "Unterminated string."
	MsgUnterminatedComment = "Unterminated block comment."
)

// Scanner tokenizes a Lox source string.
type Scanner struct {
	input    string
	reporter *diag.Reporter

	start  int // start of the lexeme being scanned
	pos    int
	line   int
	tokens []token.Token
}

// New creates a scanner for the given input. Lexical errors are sent to reporter.
func New(input string, reporter *diag.Reporter) *Scanner {
	return &Scanner{input: input, reporter: reporter, line: 1}
}

// ScanTokens scans the entire input and returns all tokens, terminated by EOF.
// Errors do not stop the scan; the offending lexeme is skipped.
func (s *Scanner) ScanTokens() []token.Token {
	for !s.atEnd() {
		s.start = s.pos
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.Token{Type: token.EOF, Line: s.line, Offset: s.pos})
	return s.tokens
}

func (s *Scanner) scanToken() {
	ch := s.advance()

	switch ch {
	case '(':
		s.add(token.LeftParen)
	case ')':
		s.add(token.RightParen)
	case '{':
		s.add(token.LeftBrace)
	case '}':
		s.add(token.RightBrace)
	case ',':
		s.add(token.Comma)
	case '.':
		s.add(token.Dot)
	case '-':
		s.add(token.Minus)
	case '+':
		s.add(token.Plus)
	case ';':
		s.add(token.Semicolon)
	case '*':
		s.add(token.Star)
	case '!':
		s.addWithEqual(token.BangEqual, token.Bang)
	case '=':
		s.addWithEqual(token.EqualEqual, token.Equal)
	case '<':
		s.addWithEqual(token.LessEqual, token.Less)
	case '>':
		s.addWithEqual(token.GreaterEqual, token.Greater)
	case '/':
		switch {
		case s.match('/'):
			for s.peek() != '\n' && !s.atEnd() {
				s.pos++
			}
		case s.match('*'):
			s.skipBlockComment()
		default:
			s.add(token.Slash)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.readString()
	default:
		switch {
		case isDigit(ch):
			s.readNumber()
		case isIdentStart(ch):
			s.readIdentifier()
		default:
			// One report per character, not per byte of its encoding.
			if ch >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(s.input[s.pos-1:])
				s.pos += size - 1
			}
			s.reporter.Errorf(diag.Lexical, s.line, MsgUnexpectedCharacter)
		}
	}
}

// readString reads a double-quoted string literal. Strings may span lines
// and have no escape sequences.
func (s *Scanner) readString() {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.pos++
	}

	if s.atEnd() {
		s.reporter.Errorf(diag.Lexical, s.line, MsgUnterminatedString)
		return
	}

	s.pos++ // closing quote
	s.addLiteral(token.String, s.input[s.start+1:s.pos-1])
}

// readNumber reads an integer or decimal literal. A trailing '.' without
// digits after it is not part of the number.
func (s *Scanner) readNumber() {
	for isDigit(s.peek()) {
		s.pos++
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.pos++
		for isDigit(s.peek()) {
			s.pos++
		}
	}

	raw := s.input[s.start:s.pos]
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.reporter.Errorf(diag.Lexical, s.line, "Invalid number %q.", raw)
		return
	}
	s.addLiteral(token.Number, f)
}

// readIdentifier reads an identifier or keyword.
func (s *Scanner) readIdentifier() {
	for isIdentPart(s.peek()) {
		s.pos++
	}
	s.add(token.Lookup(s.input[s.start:s.pos]))
}

func (s *Scanner) skipBlockComment() {
	for !s.atEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.pos += 2
			return
		}
		if s.peek() == '\n' {
			s.line++
		}
		s.pos++
	}
	s.reporter.Errorf(diag.Lexical, s.line, MsgUnterminatedComment)
}

func (s *Scanner) addWithEqual(withEqual, alone token.TokenType) {
	if s.match('=') {
		s.add(withEqual)
		return
	}
	s.add(alone)
}

func (s *Scanner) add(tt token.TokenType) {
	s.addLiteral(tt, nil)
}

func (s *Scanner) addLiteral(tt token.TokenType, literal any) {
	s.tokens = append(s.tokens, token.Token{
		Type:    tt,
		Lexeme:  s.input[s.start:s.pos],
		Literal: literal,
		Line:    s.line,
		Offset:  s.start,
	})
}

func (s *Scanner) advance() byte {
	ch := s.input[s.pos]
	s.pos++
	return ch
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.input[s.pos] != expected {
		return false
	}
	s.pos++
	return true
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.input[s.pos]
}

func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.input) {
		return 0
	}
	return s.input[s.pos+1]
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.input)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
