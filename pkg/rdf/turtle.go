package rdf

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TurtleParser parses a Turtle document into triples. Namespace bindings
// and the base IRI are owned by the parser instance, so independent parses
// never share state. The current subject and predicate of nested
// productions are passed as arguments through the recursive descent rather
// than kept in the parser, which keeps sibling branches from leaking
// context into each other.
type TurtleParser struct {
	input    string
	pos      int
	length   int
	prefixes map[string]string
	base     string
	factory  *DataFactory
	triples  []*Triple
}

// NewTurtleParser creates a Turtle parser with its own term factory.
func NewTurtleParser(input string) *TurtleParser {
	return NewTurtleParserWithFactory(input, NewDataFactory())
}

// NewTurtleParserWithFactory creates a Turtle parser that builds terms
// through the given factory.
func NewTurtleParserWithFactory(input string, factory *DataFactory) *TurtleParser {
	if factory == nil {
		factory = NewDataFactory()
	}
	return &TurtleParser{
		input:    input,
		length:   len(input),
		prefixes: make(map[string]string),
		factory:  factory,
	}
}

// ReadTurtle parses a whole Turtle document from a reader.
func ReadTurtle(r io.Reader, factory *DataFactory) ([]*Triple, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return NewTurtleParserWithFactory(string(data), factory).Parse()
}

// Parse parses the document and returns the triples in emission order.
// The first error aborts the whole parse; the grammar cannot safely
// resynchronize mid-recursion.
func (p *TurtleParser) Parse() ([]*Triple, error) {
	for p.pos < p.length {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			break
		}

		// @prefix and @base are case-sensitive and dot-terminated; the
		// SPARQL-style PREFIX and BASE keywords are case-insensitive and
		// take no terminating dot.
		if p.matchExactKeyword("@prefix") {
			if err := p.parsePrefixDirective(true); err != nil {
				return nil, err
			}
			continue
		}
		if p.matchKeyword("PREFIX") {
			if err := p.parsePrefixDirective(false); err != nil {
				return nil, err
			}
			continue
		}
		if p.matchExactKeyword("@base") {
			if err := p.parseBaseDirective(true); err != nil {
				return nil, err
			}
			continue
		}
		if p.matchKeyword("BASE") {
			if err := p.parseBaseDirective(false); err != nil {
				return nil, err
			}
			continue
		}

		if err := p.parseTriplesBlock(); err != nil {
			return nil, err
		}
	}

	return p.triples, nil
}

// Base returns the IRI set by the most recent base directive. Relative
// IRIs are not resolved against it; they are emitted verbatim.
func (p *TurtleParser) Base() string {
	return p.base
}

func (p *TurtleParser) skipWhitespaceAndComments() {
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			p.pos++
			continue
		}
		if ch == '#' {
			for p.pos < p.length && p.input[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

// matchExactKeyword consumes the keyword (case-sensitive) if it is present
// and followed by whitespace or a comment. A ':' also ends the keyword:
// an empty prefix name may abut the directive, as in `@prefix: <iri> .`,
// and nothing else starting with '@' can collide.
func (p *TurtleParser) matchExactKeyword(keyword string) bool {
	if !strings.HasPrefix(p.input[p.pos:], keyword) {
		return false
	}
	end := p.pos + len(keyword)
	if !p.keywordBoundary(end) && p.input[end] != ':' {
		return false
	}
	p.pos += len(keyword)
	return true
}

// matchKeyword is the case-insensitive variant of matchExactKeyword.
func (p *TurtleParser) matchKeyword(keyword string) bool {
	if p.pos+len(keyword) > p.length {
		return false
	}
	if !strings.EqualFold(p.input[p.pos:p.pos+len(keyword)], keyword) {
		return false
	}
	if !p.keywordBoundary(p.pos + len(keyword)) {
		return false
	}
	p.pos += len(keyword)
	return true
}

func (p *TurtleParser) keywordBoundary(end int) bool {
	if end >= p.length {
		return true
	}
	switch p.input[end] {
	case ' ', '\t', '\n', '\r', '#':
		return true
	}
	return false
}

// parsePrefixDirective parses the remainder of a prefix directive after
// the keyword. Bindings take effect immediately for all subsequent
// productions; a later binding for the same prefix wins.
func (p *TurtleParser) parsePrefixDirective(dotTerminated bool) error {
	p.skipWhitespaceAndComments()

	prefix, err := p.scanPrefixName()
	if err != nil {
		return fmt.Errorf("failed to parse prefix name: %w", err)
	}

	p.skipWhitespaceAndComments()
	iri, err := p.parseIRIRef()
	if err != nil {
		return fmt.Errorf("failed to parse prefix IRI: %w", err)
	}

	p.prefixes[prefix] = iri

	if dotTerminated {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length || p.input[p.pos] != '.' {
			return fmt.Errorf("expected '.' after @prefix directive at position %d", p.pos)
		}
		p.pos++
	}

	return nil
}

// parseBaseDirective stores the base IRI. Each base directive overwrites
// the previous value.
func (p *TurtleParser) parseBaseDirective(dotTerminated bool) error {
	p.skipWhitespaceAndComments()

	iri, err := p.parseIRIRef()
	if err != nil {
		return fmt.Errorf("failed to parse base IRI: %w", err)
	}
	p.base = iri

	if dotTerminated {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length || p.input[p.pos] != '.' {
			return fmt.Errorf("expected '.' after @base directive at position %d", p.pos)
		}
		p.pos++
	}

	return nil
}

// scanPrefixName scans the namespace part of a prefix directive up to and
// including the ':'. The empty prefix is allowed.
func (p *TurtleParser) scanPrefixName() (string, error) {
	start := p.pos
	if p.pos < p.length && p.input[p.pos] != ':' {
		r, size := p.peekRune()
		if !isPNCharsBase(r) {
			return "", fmt.Errorf("invalid prefix start character at position %d", p.pos)
		}
		p.pos += size

		for p.pos < p.length && p.input[p.pos] != ':' {
			r, size := p.peekRune()
			if !isPNChars(r) && r != '.' {
				break
			}
			p.pos += size
		}
		// the name may contain dots but not end with one
		for p.pos > start && p.input[p.pos-1] == '.' {
			p.pos--
		}
	}

	if p.pos >= p.length || p.input[p.pos] != ':' {
		return "", fmt.Errorf("expected ':' after prefix name at position %d", p.pos)
	}
	name := p.input[start:p.pos]
	p.pos++
	return name, nil
}

// parseTriplesBlock parses one top-level triples statement:
// either `subject predicateObjectList .` or
// `blankNodePropertyList predicateObjectList? .`.
func (p *TurtleParser) parseTriplesBlock() error {
	if p.input[p.pos] == '[' {
		subject, err := p.parseBlankNodePropertyList()
		if err != nil {
			return err
		}
		p.skipWhitespaceAndComments()
		if p.pos < p.length && p.input[p.pos] != '.' {
			if err := p.parsePredicateObjectList(subject); err != nil {
				return err
			}
			p.skipWhitespaceAndComments()
		}
	} else {
		subject, err := p.parseSubject()
		if err != nil {
			return fmt.Errorf("failed to parse subject: %w", err)
		}
		if err := p.parsePredicateObjectList(subject); err != nil {
			return err
		}
		p.skipWhitespaceAndComments()
	}

	if p.pos >= p.length || p.input[p.pos] != '.' {
		return fmt.Errorf("expected '.' at end of triples block at position %d", p.pos)
	}
	p.pos++
	return nil
}

func (p *TurtleParser) parseSubject() (NamedOrBlankNode, error) {
	p.skipWhitespaceAndComments()
	if p.pos >= p.length {
		return nil, fmt.Errorf("unexpected end of input at position %d", p.pos)
	}

	switch p.input[p.pos] {
	case '<':
		iri, err := p.parseIRIRef()
		if err != nil {
			return nil, err
		}
		return p.factory.NamedNode(iri), nil
	case '_':
		return p.parseBlankNodeLabel()
	case '(':
		return p.parseCollection()
	default:
		return p.parsePrefixedName()
	}
}

// parsePredicateObjectList parses one or more `verb objectList` groups
// separated by ';'. A trailing ';' with no following group is permitted.
// The subject is threaded through as a parameter so nested bracket
// recursion always emits against the node being described.
func (p *TurtleParser) parsePredicateObjectList(subject NamedOrBlankNode) error {
	for {
		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}

		if err := p.parseObjectList(subject, predicate); err != nil {
			return err
		}

		p.skipWhitespaceAndComments()
		if p.pos < p.length && p.input[p.pos] == ';' {
			for p.pos < p.length && p.input[p.pos] == ';' {
				p.pos++
				p.skipWhitespaceAndComments()
			}
			if p.pos < p.length && p.input[p.pos] != '.' && p.input[p.pos] != ']' {
				continue
			}
		}
		return nil
	}
}

// parseVerb parses a predicate: an IRI, a prefixed name, or the keyword
// 'a' standing for rdf:type.
func (p *TurtleParser) parseVerb() (*NamedNode, error) {
	p.skipWhitespaceAndComments()
	if p.pos >= p.length {
		return nil, fmt.Errorf("unexpected end of input when expecting predicate at position %d", p.pos)
	}

	if p.input[p.pos] == 'a' {
		standalone := true
		if p.pos+1 < p.length {
			r, _ := utf8.DecodeRuneInString(p.input[p.pos+1:])
			if isPNChars(r) || r == ':' || r == '.' {
				standalone = false
			}
		}
		if standalone {
			p.pos++
			return RDFType, nil
		}
	}

	if p.input[p.pos] == '<' {
		iri, err := p.parseIRIRef()
		if err != nil {
			return nil, fmt.Errorf("failed to parse predicate: %w", err)
		}
		return p.factory.NamedNode(iri), nil
	}

	node, err := p.parsePrefixedName()
	if err != nil {
		return nil, fmt.Errorf("failed to parse predicate: %w", err)
	}
	return node, nil
}

// parseObjectList parses one or more objects separated by ','. Each object
// is combined with the enclosing subject and predicate and emitted as one
// triple.
func (p *TurtleParser) parseObjectList(subject NamedOrBlankNode, predicate *NamedNode) error {
	for {
		p.skipWhitespaceAndComments()

		object, err := p.parseObject()
		if err != nil {
			return fmt.Errorf("failed to parse object: %w", err)
		}
		if err := p.emit(subject, predicate, object); err != nil {
			return err
		}

		p.skipWhitespaceAndComments()
		if p.pos < p.length && p.input[p.pos] == ',' {
			p.pos++
			continue
		}
		return nil
	}
}

// emit appends one triple to the output. The nil guards should be
// unreachable for well-formed grammar paths and exist to catch
// grammar-entry bugs, not input errors.
func (p *TurtleParser) emit(subject NamedOrBlankNode, predicate *NamedNode, object Term) error {
	if subject == nil {
		return fmt.Errorf("missing subject for object production at position %d", p.pos)
	}
	if predicate == nil {
		return fmt.Errorf("missing predicate for object production at position %d", p.pos)
	}
	p.triples = append(p.triples, p.factory.Triple(subject, predicate, object))
	return nil
}

func (p *TurtleParser) parseObject() (Term, error) {
	if p.pos >= p.length {
		return nil, fmt.Errorf("unexpected end of input at position %d", p.pos)
	}

	ch := p.input[p.pos]
	switch {
	case ch == '<':
		iri, err := p.parseIRIRef()
		if err != nil {
			return nil, err
		}
		return p.factory.NamedNode(iri), nil
	case ch == '_':
		return p.parseBlankNodeLabel()
	case ch == '[':
		return p.parseBlankNodePropertyList()
	case ch == '(':
		return p.parseCollection()
	case ch == '"' || ch == '\'':
		return p.parseQuotedLiteral()
	case p.startsNumber():
		return p.parseNumericLiteral()
	}

	// boolean literals are the exact tokens true and false
	if p.matchBareKeyword("true") {
		return p.factory.LiteralWithDatatype("true", XSDBoolean), nil
	}
	if p.matchBareKeyword("false") {
		return p.factory.LiteralWithDatatype("false", XSDBoolean), nil
	}

	return p.parsePrefixedName()
}

// matchBareKeyword consumes the keyword if present and followed by a
// character that cannot continue an object token.
func (p *TurtleParser) matchBareKeyword(keyword string) bool {
	if !strings.HasPrefix(p.input[p.pos:], keyword) {
		return false
	}
	end := p.pos + len(keyword)
	if end < p.length {
		switch p.input[end] {
		case ' ', '\t', '\n', '\r', '#', ';', ',', '.', ')', ']':
		default:
			return false
		}
	}
	p.pos += len(keyword)
	return true
}

// startsNumber reports whether the input at the cursor begins a numeric
// literal: a digit, a sign followed by a digit or '.'+digit, or '.'
// followed by a digit.
func (p *TurtleParser) startsNumber() bool {
	ch := p.input[p.pos]
	if isDigit(ch) {
		return true
	}
	if ch == '+' || ch == '-' {
		if p.pos+1 < p.length && isDigit(p.input[p.pos+1]) {
			return true
		}
		if p.pos+2 < p.length && p.input[p.pos+1] == '.' && isDigit(p.input[p.pos+2]) {
			return true
		}
		return false
	}
	if ch == '.' {
		return p.pos+1 < p.length && isDigit(p.input[p.pos+1])
	}
	return false
}

func (p *TurtleParser) peekRune() (rune, int) {
	if p.pos >= p.length {
		return 0, 0
	}
	return utf8.DecodeRuneInString(p.input[p.pos:])
}

// parseIRIRef parses the body of a <...> IRI reference. Unicode escapes
// are resolved; the result is otherwise emitted verbatim (no resolution
// against the base IRI).
func (p *TurtleParser) parseIRIRef() (string, error) {
	if p.pos >= p.length || p.input[p.pos] != '<' {
		return "", fmt.Errorf("expected '<' at start of IRI at position %d", p.pos)
	}
	p.pos++

	var result strings.Builder
	for p.pos < p.length && p.input[p.pos] != '>' {
		ch := p.input[p.pos]

		if ch == '\\' {
			r, next, err := decodeUnicodeEscape(p.input, p.pos)
			if err != nil {
				return "", err
			}
			result.WriteRune(r)
			p.pos = next
			continue
		}

		if ch <= 0x20 || ch == '<' || ch == '"' || ch == '{' || ch == '}' ||
			ch == '|' || ch == '^' || ch == '`' {
			return "", fmt.Errorf("invalid character in IRI: %q at position %d", ch, p.pos)
		}

		result.WriteByte(ch)
		p.pos++
	}

	if p.pos >= p.length {
		return "", fmt.Errorf("unclosed IRI at position %d", p.pos)
	}
	p.pos++ // skip '>'

	return result.String(), nil
}

func (p *TurtleParser) parseBlankNodeLabel() (*BlankNode, error) {
	if p.pos+1 >= p.length || p.input[p.pos] != '_' || p.input[p.pos+1] != ':' {
		return nil, fmt.Errorf("expected '_:' at start of blank node at position %d", p.pos)
	}
	p.pos += 2

	label, next, err := scanBlankNodeLabel(p.input, p.pos)
	if err != nil {
		return nil, err
	}
	p.pos = next
	return p.factory.BlankNode(label), nil
}

// parseBlankNodePropertyList parses `[ predicateObjectList? ]`. A fresh
// blank node becomes the subject of the inner list and is returned as the
// value for the enclosing position. Nesting recurses arbitrarily deep;
// each level's subject lives in its own call frame, so closing a bracket
// restores the enclosing subject by plain function return.
func (p *TurtleParser) parseBlankNodePropertyList() (*BlankNode, error) {
	if p.pos >= p.length || p.input[p.pos] != '[' {
		return nil, fmt.Errorf("expected '[' at position %d", p.pos)
	}
	p.pos++

	node := p.factory.NewBlankNode()

	p.skipWhitespaceAndComments()
	if p.pos < p.length && p.input[p.pos] == ']' {
		p.pos++
		return node, nil
	}

	if err := p.parsePredicateObjectList(node); err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()
	if p.pos >= p.length || p.input[p.pos] != ']' {
		return nil, fmt.Errorf("expected ']' at end of blank node property list at position %d", p.pos)
	}
	p.pos++

	return node, nil
}

// parseCollection parses `( object* )` and desugars it into an rdf:first/
// rdf:rest chain. Values are processed in reverse so the list is built
// tail-first: each fresh cell points at its value and at the tail built so
// far, and the final cell is the head returned for the enclosing position.
// An empty collection is the rdf:nil node itself, with no triples.
func (p *TurtleParser) parseCollection() (NamedOrBlankNode, error) {
	if p.pos >= p.length || p.input[p.pos] != '(' {
		return nil, fmt.Errorf("expected '(' at position %d", p.pos)
	}
	p.pos++

	var items []Term
	for {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			return nil, fmt.Errorf("unterminated collection at position %d", p.pos)
		}
		if p.input[p.pos] == ')' {
			p.pos++
			break
		}

		item, err := p.parseObject()
		if err != nil {
			return nil, fmt.Errorf("failed to parse collection item: %w", err)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return RDFNil, nil
	}

	var tail NamedOrBlankNode = RDFNil
	for i := len(items) - 1; i >= 0; i-- {
		cell := p.factory.NewBlankNode()
		if err := p.emit(cell, RDFFirst, items[i]); err != nil {
			return nil, err
		}
		if err := p.emit(cell, RDFRest, tail); err != nil {
			return nil, err
		}
		tail = cell
	}

	return tail, nil
}

// parseQuotedLiteral parses any of the four string quoting variants with
// an optional language tag or ^^datatype suffix.
func (p *TurtleParser) parseQuotedLiteral() (*Literal, error) {
	quote := p.input[p.pos]
	delim := string([]byte{quote, quote, quote})
	long := strings.HasPrefix(p.input[p.pos:], delim)

	var value string
	var err error
	if long {
		value, err = p.parseLongStringBody(quote, delim)
	} else {
		value, err = p.parseStringBody(quote)
	}
	if err != nil {
		return nil, err
	}

	// a language tag or datatype suffix attaches directly to the
	// closing quote; detached suffixes are not part of the grammar
	if p.pos < p.length && p.input[p.pos] == '@' {
		p.pos++
		tag, next, err := scanLangTag(p.input, p.pos)
		if err != nil {
			return nil, err
		}
		p.pos = next
		return p.factory.LiteralWithLanguage(value, tag), nil
	}

	if p.pos+1 < p.length && p.input[p.pos] == '^' && p.input[p.pos+1] == '^' {
		p.pos += 2
		p.skipWhitespaceAndComments()

		var datatype *NamedNode
		if p.pos < p.length && p.input[p.pos] == '<' {
			iri, err := p.parseIRIRef()
			if err != nil {
				return nil, fmt.Errorf("failed to parse datatype: %w", err)
			}
			datatype = p.factory.NamedNode(iri)
		} else {
			datatype, err = p.parsePrefixedName()
			if err != nil {
				return nil, fmt.Errorf("failed to parse datatype: %w", err)
			}
		}
		return p.factory.LiteralWithDatatype(value, datatype), nil
	}

	return p.factory.Literal(value), nil
}

// parseStringBody parses a single-line string body. Raw newlines and
// carriage returns terminate with an error; everything else is either a
// plain character or an escape.
func (p *TurtleParser) parseStringBody(quote byte) (string, error) {
	p.pos++ // skip opening quote

	var value strings.Builder
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return value.String(), nil
		}
		if ch == '\n' || ch == '\r' {
			return "", fmt.Errorf("unescaped line break in string literal at position %d", p.pos)
		}
		if ch == '\\' {
			decoded, next, err := decodeStringEscape(p.input, p.pos)
			if err != nil {
				return "", err
			}
			value.WriteString(decoded)
			p.pos = next
			continue
		}
		value.WriteByte(ch)
		p.pos++
	}

	return "", fmt.Errorf("unclosed string literal at position %d", p.pos)
}

// parseLongStringBody parses a triple-quoted string body. One or two
// literal quote characters directly before the closing sequence belong to
// the content; the last three quotes close the literal.
func (p *TurtleParser) parseLongStringBody(quote byte, delim string) (string, error) {
	p.pos += 3 // skip opening delimiter

	var value strings.Builder
	for p.pos < p.length {
		if strings.HasPrefix(p.input[p.pos:], delim) {
			if p.pos+3 < p.length && p.input[p.pos+3] == quote {
				value.WriteByte(quote)
				p.pos++
				continue
			}
			p.pos += 3
			return value.String(), nil
		}

		ch := p.input[p.pos]
		if ch == '\\' {
			decoded, next, err := decodeStringEscape(p.input, p.pos)
			if err != nil {
				return "", err
			}
			value.WriteString(decoded)
			p.pos = next
			continue
		}
		value.WriteByte(ch)
		p.pos++
	}

	return "", fmt.Errorf("unclosed long string literal at position %d", p.pos)
}

// parseNumericLiteral scans a numeric literal and tags it xsd:integer,
// xsd:decimal or xsd:double, keeping the exact source text as the lexical
// value.
func (p *TurtleParser) parseNumericLiteral() (*Literal, error) {
	start := p.pos

	if p.input[p.pos] == '+' || p.input[p.pos] == '-' {
		p.pos++
	}

	hasIntDigits := false
	for p.pos < p.length && isDigit(p.input[p.pos]) {
		p.pos++
		hasIntDigits = true
	}

	sawDot := false
	if p.pos < p.length && p.input[p.pos] == '.' {
		if p.pos+1 < p.length && isDigit(p.input[p.pos+1]) {
			sawDot = true
			p.pos++
			for p.pos < p.length && isDigit(p.input[p.pos]) {
				p.pos++
			}
		} else if hasIntDigits && p.pos+1 < p.length &&
			(p.input[p.pos+1] == 'e' || p.input[p.pos+1] == 'E') {
			// forms like 1.E0: the dot belongs to the mantissa
			sawDot = true
			p.pos++
		}
		// otherwise the dot terminates the statement, leave it alone
	}

	if !hasIntDigits && !sawDot {
		return nil, fmt.Errorf("expected digits in number at position %d", p.pos)
	}

	isDouble := false
	if p.pos < p.length && (p.input[p.pos] == 'e' || p.input[p.pos] == 'E') {
		isDouble = true
		p.pos++
		if p.pos < p.length && (p.input[p.pos] == '+' || p.input[p.pos] == '-') {
			p.pos++
		}
		expDigits := false
		for p.pos < p.length && isDigit(p.input[p.pos]) {
			p.pos++
			expDigits = true
		}
		if !expDigits {
			return nil, fmt.Errorf("expected digits in exponent at position %d", p.pos)
		}
	}

	lexical := p.input[start:p.pos]
	switch {
	case isDouble:
		return p.factory.LiteralWithDatatype(lexical, XSDDouble), nil
	case sawDot:
		return p.factory.LiteralWithDatatype(lexical, XSDDecimal), nil
	default:
		return p.factory.LiteralWithDatatype(lexical, XSDInteger), nil
	}
}

// parsePrefixedName parses `prefix:local` and resolves it against the
// namespace table. The binding is looked up at the point of use, so a
// prefix must be declared before the first name that uses it.
func (p *TurtleParser) parsePrefixedName() (*NamedNode, error) {
	prefixStart := p.pos

	if p.pos < p.length && p.input[p.pos] != ':' {
		r, size := p.peekRune()
		if !isPNCharsBase(r) {
			return nil, fmt.Errorf("unexpected character %q at position %d", r, p.pos)
		}
		p.pos += size

		for p.pos < p.length && p.input[p.pos] != ':' {
			r, size := p.peekRune()
			if !isPNChars(r) && r != '.' {
				break
			}
			p.pos += size
		}
		for p.pos > prefixStart && p.input[p.pos-1] == '.' {
			p.pos--
		}
	}

	if p.pos >= p.length || p.input[p.pos] != ':' {
		return nil, fmt.Errorf("expected ':' in prefixed name at position %d", p.pos)
	}
	prefix := p.input[prefixStart:p.pos]
	p.pos++

	local, err := p.scanLocalName()
	if err != nil {
		return nil, err
	}

	namespace, ok := p.prefixes[prefix]
	if !ok {
		return nil, fmt.Errorf("unknown prefix %q at position %d", prefix, p.pos)
	}

	return p.factory.NamedNode(namespace + local), nil
}

// scanLocalName scans the local part of a prefixed name. The empty local
// name is valid. Characters are validated against PN_CHARS plus ':' and
// '.', with percent-encoded triples and backslash-escaped punctuation
// passed through per PLX.
func (p *TurtleParser) scanLocalName() (string, error) {
	var local strings.Builder
	first := true
	trailingDots := 0

	for p.pos < p.length {
		r, size := p.peekRune()

		if r == '%' {
			if p.pos+2 >= p.length || !isHexDigit(p.input[p.pos+1]) || !isHexDigit(p.input[p.pos+2]) {
				return "", fmt.Errorf("invalid percent encoding in local name at position %d", p.pos)
			}
			local.WriteString(p.input[p.pos : p.pos+3])
			p.pos += 3
			first = false
			trailingDots = 0
			continue
		}

		if r == '\\' {
			if p.pos+1 >= p.length || !isLocalEsc(p.input[p.pos+1]) {
				return "", fmt.Errorf("invalid escape sequence in local name at position %d", p.pos)
			}
			local.WriteByte(p.input[p.pos+1])
			p.pos += 2
			first = false
			trailingDots = 0
			continue
		}

		if first {
			if !isPNCharsU(r) && r != ':' && !(r >= '0' && r <= '9') {
				break
			}
		} else if !isPNChars(r) && r != ':' && r != '.' {
			break
		}

		if r == '.' {
			trailingDots++
		} else {
			trailingDots = 0
		}
		local.WriteRune(r)
		p.pos += size
		first = false
	}

	// unescaped dots may appear inside the local name but not end it;
	// give them back to the enclosing statement
	name := local.String()
	if trailingDots > 0 {
		name = name[:len(name)-trailingDots]
		p.pos -= trailingDots
	}

	return name, nil
}
