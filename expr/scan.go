package expr

import (
	"unicode"
	"unicode/utf8"
)

// Scanner splits an expression into tokens.
type Scanner struct {
	input string
	curr  int
	next  int
	char  rune
}

func Scan(src string) *Scanner {
	s := Scanner{input: src}
	s.read()
	return &s
}

// Scan returns the next token. Once the input is exhausted it keeps
// returning EOF.
func (s *Scanner) Scan() Token {
	s.skipBlank()
	tok := Token{Position: s.curr}
	if s.done() {
		tok.Type = EOF
		return tok
	}
	switch {
	case isDigit(s.char) || (s.char == '.' && isDigit(s.peek())):
		s.scanNumber(&tok)
	case isLetter(s.char):
		s.scanIdent(&tok)
	default:
		s.scanPunct(&tok)
	}
	return tok
}

func (s *Scanner) scanNumber(tok *Token) {
	start := s.curr
	for isDigit(s.char) {
		s.read()
	}
	if s.char == '.' {
		s.read()
		for isDigit(s.char) {
			s.read()
		}
	}
	if s.char == 'e' || s.char == 'E' {
		// Only treat the e as an exponent when digits follow, so that
		// "2e" still scans as a number followed by the constant e.
		save := s.save()
		s.read()
		if s.char == '+' || s.char == '-' {
			s.read()
		}
		if !isDigit(s.char) {
			s.restore(save)
		}
		for isDigit(s.char) {
			s.read()
		}
	}
	tok.Type = Number
	tok.Literal = s.input[start:s.curr]
}

func (s *Scanner) scanIdent(tok *Token) {
	start := s.curr
	for isLetter(s.char) || isDigit(s.char) {
		s.read()
	}
	tok.Type = Ident
	tok.Literal = s.input[start:s.curr]
}

func (s *Scanner) scanPunct(tok *Token) {
	tok.Literal = string(s.char)
	switch s.char {
	case '+':
		tok.Type = Add
	case '-':
		tok.Type = Sub
	case '*':
		tok.Type = Mul
		if s.peek() == '*' {
			s.read()
			tok.Type = Pow
			tok.Literal = "**"
		}
	case '/':
		tok.Type = Div
	case '^':
		tok.Type = Pow
	case '(':
		tok.Type = Lparen
	case ')':
		tok.Type = Rparen
	case ',':
		tok.Type = Comma
	case '=':
		tok.Type = Assign
	default:
		tok.Type = Invalid
	}
	s.read()
}

type position struct {
	curr, next int
	char       rune
}

func (s *Scanner) save() position {
	return position{curr: s.curr, next: s.next, char: s.char}
}

func (s *Scanner) restore(p position) {
	s.curr, s.next, s.char = p.curr, p.next, p.char
}

func (s *Scanner) read() {
	if s.next >= len(s.input) {
		s.curr = len(s.input)
		s.char = utf8.RuneError
		return
	}
	r, n := utf8.DecodeRuneInString(s.input[s.next:])
	s.curr = s.next
	s.next += n
	s.char = r
}

func (s *Scanner) peek() rune {
	if s.next >= len(s.input) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.next:])
	return r
}

func (s *Scanner) done() bool {
	return s.curr >= len(s.input)
}

func (s *Scanner) skipBlank() {
	for !s.done() && unicode.IsSpace(s.char) {
		s.read()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsIdent reports whether name can be written as a bare identifier in an
// expression.
func IsIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if !isLetter(r) && (i == 0 || !isDigit(r)) {
			return false
		}
	}
	return true
}
