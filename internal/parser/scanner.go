package parser

import (
	"fmt"
	"strings"

	"github.com/mkilpat/sqlmesh/pkg/core"
)

// scanner is a minimal cursor over definition-block text. The block
// grammar is small enough that a hand scanner keeps the package
// dependency-free.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) errorf(format string, args ...any) error {
	line := 1 + strings.Count(s.src[:s.pos], "\n")
	return &ParseError{Message: fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...))}
}

// peek returns the current byte, or 0 at end of input.
func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// consume advances past c if it is the current byte.
func (s *scanner) consume(c byte) bool {
	if s.peek() == c {
		s.pos++
		return true
	}
	return false
}

// rest returns the unconsumed input.
func (s *scanner) rest() string {
	return s.src[s.pos:]
}

// skipSpace advances past whitespace and SQL comments.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch {
		case isSpace(s.src[s.pos]):
			s.pos++
		case strings.HasPrefix(s.src[s.pos:], "--"):
			if nl := strings.IndexByte(s.src[s.pos:], '\n'); nl >= 0 {
				s.pos += nl + 1
			} else {
				s.pos = len(s.src)
			}
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			if end := strings.Index(s.src[s.pos+2:], "*/"); end >= 0 {
				s.pos += end + 4
			} else {
				s.pos = len(s.src)
			}
		default:
			return
		}
	}
}

// word scans an identifier, or returns "" if none starts here.
func (s *scanner) word() string {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && isIdent(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// peekWord returns the identifier at the cursor without consuming it.
func (s *scanner) peekWord() string {
	save := s.pos
	w := s.word()
	s.pos = save
	return w
}

// dottedWord scans a possibly qualified identifier (a.b.c).
func (s *scanner) dottedWord() string {
	first := s.word()
	if first == "" {
		return ""
	}
	parts := []string{first}
	for s.peek() == '.' {
		s.pos++
		next := s.word()
		if next == "" {
			break
		}
		parts = append(parts, next)
	}
	return strings.Join(parts, ".")
}

// stringLiteral scans a single-quoted string. A doubled quote escapes a
// literal quote, per SQL.
func (s *scanner) stringLiteral() (*core.Literal, error) {
	if !s.consume('\'') {
		return nil, s.errorf("expected string literal")
	}
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\'' {
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\'' {
				b.WriteByte('\'')
				s.pos += 2
				continue
			}
			s.pos++
			return &core.Literal{Type: core.LiteralString, Value: b.String()}, nil
		}
		b.WriteByte(c)
		s.pos++
	}
	return nil, s.errorf("unterminated string literal")
}

// number scans an integer or decimal literal.
func (s *scanner) number() (*core.Literal, error) {
	start := s.pos
	if s.peek() == '-' {
		s.pos++
	}
	seenDigit := false
	for s.pos < len(s.src) && (isDigit(s.src[s.pos]) || s.src[s.pos] == '.') {
		if isDigit(s.src[s.pos]) {
			seenDigit = true
		}
		s.pos++
	}
	if !seenDigit {
		return nil, s.errorf("expected number")
	}
	return &core.Literal{Type: core.LiteralNumber, Value: s.src[start:s.pos]}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdent(c byte) bool {
	return c == '_' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
