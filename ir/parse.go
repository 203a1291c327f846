package ir

import (
	"fmt"
)

// Parse reads the textual form produced by Print back into a module.
// The text must contain exactly one top-level operation.
func Parse(text string) (*Module, error) {
	s := &scanner{src: text, line: 1}
	s.skipSpace()
	root, err := parseOp(s)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if !s.eof() {
		return nil, fmt.Errorf("line %d: trailing input after top-level operation", s.line)
	}
	return &Module{root: root}, nil
}

type scanner struct {
	src  string
	pos  int
	line int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
	}
	return c
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

func isAtomByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '{', '}', '=', '@', 0:
		return false
	}
	return true
}

// atom reads a maximal run of atom bytes: kinds, symbols, keys, values.
func (s *scanner) atom() string {
	start := s.pos
	for !s.eof() && isAtomByte(s.peek()) {
		s.advance()
	}
	return s.src[start:s.pos]
}

func parseOp(s *scanner) (*Operation, error) {
	kind := s.atom()
	if kind == "" {
		return nil, fmt.Errorf("line %d: expected operation kind, got %q", s.line, string(s.peek()))
	}
	if !IsValidKind(kind) {
		return nil, fmt.Errorf("line %d: malformed operation kind %q", s.line, kind)
	}
	op := NewOperation(kind)

	s.skipSpace()
	if s.peek() == '@' {
		s.advance()
		op.Symbol = s.atom()
		if op.Symbol == "" {
			return nil, fmt.Errorf("line %d: expected symbol name after '@'", s.line)
		}
		s.skipSpace()
	}

	if s.peek() == '{' {
		s.advance()
		if err := parseAttrs(s, op); err != nil {
			return nil, err
		}
		s.skipSpace()
	}

	if s.peek() == '(' {
		s.advance()
		for {
			s.skipSpace()
			if s.eof() {
				return nil, fmt.Errorf("line %d: unterminated operation body", s.line)
			}
			if s.peek() == ')' {
				s.advance()
				break
			}
			child, err := parseOp(s)
			if err != nil {
				return nil, err
			}
			op.Children = append(op.Children, child)
		}
	}

	return op, nil
}

func parseAttrs(s *scanner, op *Operation) error {
	for {
		s.skipSpace()
		if s.eof() {
			return fmt.Errorf("line %d: unterminated attribute list", s.line)
		}
		if s.peek() == '}' {
			s.advance()
			return nil
		}
		key := s.atom()
		if key == "" {
			return fmt.Errorf("line %d: expected attribute key, got %q", s.line, string(s.peek()))
		}
		if s.peek() != '=' {
			return fmt.Errorf("line %d: expected '=' after attribute key %q", s.line, key)
		}
		s.advance()
		value := s.atom()
		if value == "" {
			return fmt.Errorf("line %d: expected value for attribute %q", s.line, key)
		}
		op.Attrs = append(op.Attrs, Attr{Key: key, Value: value})
	}
}
