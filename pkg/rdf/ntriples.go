package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ParseNTriplesLine parses a single N-Triples statement line:
//
//	subject predicate object "." [comment]
//
// It returns (nil, nil) for blank and comment-only lines, one triple for a
// well-formed statement, and an error naming the offending position
// otherwise. No state is retained between calls; every line is fully
// self-contained.
func ParseNTriplesLine(line string, factory *DataFactory) (*Triple, error) {
	if factory == nil {
		factory = NewDataFactory()
	}
	p := &ntriplesLine{line: line, length: len(line), factory: factory}

	p.skipSpace()
	if p.pos >= p.length || p.line[p.pos] == '#' {
		return nil, nil
	}

	subject, err := p.parseSubject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject: %w", err)
	}

	p.skipSpace()
	predicate, err := p.parseIRIRef()
	if err != nil {
		return nil, fmt.Errorf("failed to parse predicate: %w", err)
	}

	p.skipSpace()
	object, err := p.parseObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object: %w", err)
	}

	p.skipSpace()
	if p.pos >= p.length || p.line[p.pos] != '.' {
		return nil, fmt.Errorf("expected '.' at end of statement at position %d", p.pos)
	}
	p.pos++

	p.skipSpace()
	if p.pos < p.length && p.line[p.pos] != '#' {
		return nil, fmt.Errorf("unexpected content after '.' at position %d", p.pos)
	}

	return factory.Triple(subject, predicate, object), nil
}

// ReadNTriples parses an entire N-Triples document line by line. The first
// syntax error aborts the read; callers that want to skip bad lines can
// drive ParseNTriplesLine themselves.
func ReadNTriples(r io.Reader, factory *DataFactory) ([]*Triple, error) {
	if factory == nil {
		factory = NewDataFactory()
	}

	var triples []*Triple
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		triple, err := ParseNTriplesLine(scanner.Text(), factory)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if triple != nil {
			triples = append(triples, triple)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return triples, nil
}

type ntriplesLine struct {
	line    string
	pos     int
	length  int
	factory *DataFactory
}

// skipSpace skips space and tab characters. Newlines never occur inside a
// line statement, so nothing else counts as whitespace here.
func (p *ntriplesLine) skipSpace() {
	for p.pos < p.length && (p.line[p.pos] == ' ' || p.line[p.pos] == '\t') {
		p.pos++
	}
}

func (p *ntriplesLine) parseSubject() (NamedOrBlankNode, error) {
	if p.pos >= p.length {
		return nil, fmt.Errorf("unexpected end of line at position %d", p.pos)
	}
	if p.line[p.pos] == '_' {
		return p.parseBlankNodeLabel()
	}
	return p.parseIRIRef()
}

func (p *ntriplesLine) parseObject() (Term, error) {
	if p.pos >= p.length {
		return nil, fmt.Errorf("unexpected end of line at position %d", p.pos)
	}
	switch p.line[p.pos] {
	case '<':
		return p.parseIRIRef()
	case '_':
		return p.parseBlankNodeLabel()
	case '"':
		return p.parseLiteral()
	default:
		return nil, fmt.Errorf("unexpected character %q at position %d", p.line[p.pos], p.pos)
	}
}

// parseIRIRef parses an IRI in angle brackets. The line format only allows
// absolute IRIs.
func (p *ntriplesLine) parseIRIRef() (*NamedNode, error) {
	if p.pos >= p.length || p.line[p.pos] != '<' {
		return nil, fmt.Errorf("expected '<' at position %d", p.pos)
	}
	p.pos++

	var result strings.Builder
	for p.pos < p.length && p.line[p.pos] != '>' {
		ch := p.line[p.pos]

		if ch == '\\' {
			r, next, err := decodeUnicodeEscape(p.line, p.pos)
			if err != nil {
				return nil, err
			}
			result.WriteRune(r)
			p.pos = next
			continue
		}

		if ch <= 0x20 || ch == '<' || ch == '"' || ch == '{' || ch == '}' ||
			ch == '|' || ch == '^' || ch == '`' {
			return nil, fmt.Errorf("invalid character in IRI: %q at position %d", ch, p.pos)
		}

		result.WriteByte(ch)
		p.pos++
	}

	if p.pos >= p.length {
		return nil, fmt.Errorf("unclosed IRI at position %d", p.pos)
	}
	p.pos++ // skip '>'

	iri := result.String()
	if !strings.Contains(iri, ":") {
		return nil, fmt.Errorf("relative IRI not allowed: %s", iri)
	}

	return p.factory.NamedNode(iri), nil
}

func (p *ntriplesLine) parseBlankNodeLabel() (*BlankNode, error) {
	if p.pos+1 >= p.length || p.line[p.pos] != '_' || p.line[p.pos+1] != ':' {
		return nil, fmt.Errorf("expected '_:' at position %d", p.pos)
	}
	p.pos += 2

	label, next, err := scanBlankNodeLabel(p.line, p.pos)
	if err != nil {
		return nil, err
	}
	p.pos = next
	return p.factory.BlankNode(label), nil
}

// parseLiteral parses a double-quoted literal with an optional language tag
// or ^^<IRI> datatype suffix (never both).
func (p *ntriplesLine) parseLiteral() (*Literal, error) {
	if p.pos >= p.length || p.line[p.pos] != '"' {
		return nil, fmt.Errorf("expected '\"' at position %d", p.pos)
	}
	p.pos++

	var value strings.Builder
	for p.pos < p.length && p.line[p.pos] != '"' {
		ch := p.line[p.pos]
		if ch == '\\' {
			decoded, next, err := decodeStringEscape(p.line, p.pos)
			if err != nil {
				return nil, err
			}
			value.WriteString(decoded)
			p.pos = next
			continue
		}
		value.WriteByte(ch)
		p.pos++
	}

	if p.pos >= p.length {
		return nil, fmt.Errorf("unclosed string literal at position %d", p.pos)
	}
	p.pos++ // skip closing '"'

	if p.pos < p.length && p.line[p.pos] == '@' {
		p.pos++
		tag, next, err := scanLangTag(p.line, p.pos)
		if err != nil {
			return nil, err
		}
		p.pos = next
		return p.factory.LiteralWithLanguage(value.String(), tag), nil
	}

	if p.pos+1 < p.length && p.line[p.pos] == '^' && p.line[p.pos+1] == '^' {
		p.pos += 2
		datatype, err := p.parseIRIRef()
		if err != nil {
			return nil, fmt.Errorf("failed to parse datatype: %w", err)
		}
		return p.factory.LiteralWithDatatype(value.String(), datatype), nil
	}

	return p.factory.Literal(value.String()), nil
}

// scanBlankNodeLabel scans a blank node label starting just past "_:".
// The first character must be PN_CHARS_U or a digit; the label may contain
// dots but not end with one.
func scanBlankNodeLabel(s string, pos int) (string, int, error) {
	start := pos
	r, size := utf8.DecodeRuneInString(s[pos:])
	if size == 0 || (!isPNCharsU(r) && !(r >= '0' && r <= '9')) {
		return "", pos, fmt.Errorf("invalid blank node label start at position %d", pos)
	}
	pos += size

	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !isPNChars(r) && r != '.' {
			break
		}
		pos += size
	}
	// labels cannot end with '.'; trailing dots belong to the statement
	for pos > start && s[pos-1] == '.' {
		pos--
	}

	return s[start:pos], pos, nil
}
