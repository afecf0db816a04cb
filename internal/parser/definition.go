// Package parser extracts the MODEL definition block from SQL model files.
package parser

import (
	"fmt"
	"strings"

	"github.com/mkilpat/sqlmesh/pkg/core"
)

// Definition holds the result of extracting a MODEL block.
type Definition struct {
	// Fields maps property names to their parsed expression values.
	Fields map[string]any
	// SQL is the query content after the MODEL block.
	SQL string
	// HasModel reports whether a MODEL block was found.
	HasModel bool
}

// ParseError represents a definition parsing error.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// ExtractDefinition parses the leading MODEL ( ... ); block from content.
// Files without a MODEL block are returned as-is with HasModel false.
//
// The block is a comma-separated property list. Property values may be
// identifiers, quoted strings, numbers, parenthesized tuples or column
// schemas, bracketed arrays, or a kind declaration with its own nested
// property list, e.g.
//
//	MODEL (
//	    name db.events,
//	    kind INCREMENTAL_BY_TIME_RANGE (time_column (ds, '%Y-%m-%d')),
//	    cron '0 13 * * *',
//	);
func ExtractDefinition(content string) (*Definition, error) {
	s := newScanner(content)
	s.skipSpace()

	head := s.peekWord()
	if !strings.EqualFold(head, "MODEL") {
		return &Definition{SQL: content}, nil
	}
	s.word()
	s.skipSpace()
	if !s.consume('(') {
		return nil, s.errorf("expected '(' after MODEL")
	}

	props, err := s.propertyList()
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	s.consume(';')

	fields := make(map[string]any, len(props))
	for _, p := range props {
		if _, dup := fields[p.Name]; dup {
			return nil, s.errorf("duplicate property %q in MODEL block", p.Name)
		}
		fields[p.Name] = p.Value
	}
	return &Definition{
		Fields:   fields,
		SQL:      strings.TrimSpace(s.rest()),
		HasModel: true,
	}, nil
}

// propertyList parses "ident value, ..." up to and including the closing
// parenthesis.
func (s *scanner) propertyList() ([]core.Property, error) {
	var props []core.Property
	for {
		s.skipSpace()
		if s.consume(')') {
			return props, nil
		}
		name := s.word()
		if name == "" {
			return nil, s.errorf("expected property name")
		}
		value, err := s.value()
		if err != nil {
			return nil, err
		}
		props = append(props, core.Property{Name: strings.ToLower(name), Value: value})

		s.skipSpace()
		if s.consume(',') {
			continue
		}
		if s.consume(')') {
			return props, nil
		}
		return nil, s.errorf("expected ',' or ')' after property %q", name)
	}
}

// value parses a single property value expression.
func (s *scanner) value() (core.Expr, error) {
	s.skipSpace()
	switch {
	case s.consume('('):
		return s.tupleOrSchema()
	case s.consume('['):
		return s.array()
	case s.peek() == '\'':
		lit, err := s.stringLiteral()
		if err != nil {
			return nil, err
		}
		return lit, nil
	case isDigit(s.peek()) || s.peek() == '-':
		return s.number()
	default:
		return s.identValue()
	}
}

// identValue parses an identifier-led value: a bare or dotted identifier,
// a boolean or null keyword, or a kind declaration when a property list
// follows.
func (s *scanner) identValue() (core.Expr, error) {
	name := s.dottedWord()
	if name == "" {
		return nil, s.errorf("expected value")
	}

	switch strings.ToUpper(name) {
	case "TRUE", "FALSE":
		return &core.Literal{Type: core.LiteralBool, Value: strings.ToLower(name)}, nil
	case "NULL":
		return &core.Literal{Type: core.LiteralNull, Value: "null"}, nil
	}

	s.skipSpace()
	if !strings.Contains(name, ".") && s.consume('(') {
		props, err := s.propertyList()
		if err != nil {
			return nil, err
		}
		return &core.KindDef{Name: strings.ToUpper(name), Props: props}, nil
	}

	if strings.Contains(name, ".") {
		return tableRef(name), nil
	}
	return &core.Ident{Value: name}, nil
}

func tableRef(dotted string) *core.TableRef {
	parts := strings.Split(dotted, ".")
	ref := &core.TableRef{Name: parts[len(parts)-1]}
	if len(parts) > 1 {
		ref.Schema = parts[len(parts)-2]
	}
	if len(parts) > 2 {
		ref.Catalog = parts[len(parts)-3]
	}
	return ref
}

// tupleOrSchema parses a parenthesized list. Elements of the form
// "name TYPE" make the list a column schema; plain expressions make it a
// tuple. The two forms do not mix.
func (s *scanner) tupleOrSchema() (core.Expr, error) {
	var exprs []core.Expr
	var cols []core.ColumnDef
	for {
		s.skipSpace()
		if s.consume(')') {
			break
		}
		el, err := s.value()
		if err != nil {
			return nil, err
		}

		s.skipSpace()
		if id, ok := el.(*core.Ident); ok && s.peek() != ',' && s.peek() != ')' && s.peek() != 0 {
			typeText, err := s.typeText()
			if err != nil {
				return nil, err
			}
			dt := core.ParseDataType(typeText)
			if dt == nil {
				return nil, s.errorf("invalid data type %q for column %q", typeText, id.Value)
			}
			cols = append(cols, core.ColumnDef{Name: id.Value, Type: dt})
		} else {
			exprs = append(exprs, el)
		}

		s.skipSpace()
		if s.consume(',') {
			continue
		}
		if s.consume(')') {
			break
		}
		return nil, s.errorf("expected ',' or ')' in list")
	}

	if len(cols) > 0 {
		if len(exprs) > 0 {
			return nil, s.errorf("cannot mix column definitions and values in one list")
		}
		return &core.Schema{Columns: cols}, nil
	}
	return &core.Tuple{Exprs: exprs}, nil
}

// typeText scans a column type up to the next ',' or the closing ')',
// keeping any parenthesized type arguments intact.
func (s *scanner) typeText() (string, error) {
	start := s.pos
	depth := 0
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return strings.TrimSpace(s.src[start:s.pos]), nil
			}
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(s.src[start:s.pos]), nil
			}
		}
		s.pos++
	}
	return "", s.errorf("unterminated column definition")
}

func (s *scanner) array() (core.Expr, error) {
	var exprs []core.Expr
	for {
		s.skipSpace()
		if s.consume(']') {
			return &core.Array{Exprs: exprs}, nil
		}
		el, err := s.value()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, el)

		s.skipSpace()
		if s.consume(',') {
			continue
		}
		if s.consume(']') {
			return &core.Array{Exprs: exprs}, nil
		}
		return nil, s.errorf("expected ',' or ']' in array")
	}
}
