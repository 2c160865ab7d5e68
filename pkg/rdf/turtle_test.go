package rdf

import (
	"strings"
	"testing"
)

// Helper function to get IRI from a term
func getIRI(t Term) string {
	if nn, ok := t.(*NamedNode); ok {
		return nn.IRI
	}
	return ""
}

func mustParse(t *testing.T, input string) []*Triple {
	t.Helper()
	triples, err := NewTurtleParser(input).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return triples
}

func TestTurtleParser_SimpleTriple(t *testing.T) {
	triples := mustParse(t, `@prefix ex: <http://example.org/> .
ex:a ex:b ex:c .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	if getIRI(triples[0].Subject) != "http://example.org/a" {
		t.Errorf("Wrong subject: %s", getIRI(triples[0].Subject))
	}
	if triples[0].Predicate.IRI != "http://example.org/b" {
		t.Errorf("Wrong predicate: %s", triples[0].Predicate.IRI)
	}
	if getIRI(triples[0].Object) != "http://example.org/c" {
		t.Errorf("Wrong object: %s", getIRI(triples[0].Object))
	}
}

func TestTurtleParser_PropertyListWithComma(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://www.example.org/> .
:s :p :o1, :o2, :o3 .`)

	if len(triples) != 3 {
		t.Fatalf("Expected 3 triples, got %d", len(triples))
	}

	expectedObjects := []string{
		"http://www.example.org/o1",
		"http://www.example.org/o2",
		"http://www.example.org/o3",
	}
	for i, triple := range triples {
		if getIRI(triple.Subject) != "http://www.example.org/s" {
			t.Errorf("Triple %d: wrong subject: %s", i, getIRI(triple.Subject))
		}
		if triple.Predicate.IRI != "http://www.example.org/p" {
			t.Errorf("Triple %d: wrong predicate: %s", i, triple.Predicate.IRI)
		}
		if getIRI(triple.Object) != expectedObjects[i] {
			t.Errorf("Triple %d: expected object %s, got %s", i, expectedObjects[i], getIRI(triple.Object))
		}
	}
}

func TestTurtleParser_PropertyListWithSemicolon(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://www.example.org/> .
:s :p1 :o1 ; :p2 :o2 .`)

	if len(triples) != 2 {
		t.Fatalf("Expected 2 triples, got %d", len(triples))
	}
	if getIRI(triples[0].Predicate) != "http://www.example.org/p1" {
		t.Errorf("Triple 0: wrong predicate: %s", getIRI(triples[0].Predicate))
	}
	if getIRI(triples[1].Predicate) != "http://www.example.org/p2" {
		t.Errorf("Triple 1: wrong predicate: %s", getIRI(triples[1].Predicate))
	}
	if getIRI(triples[1].Subject) != "http://www.example.org/s" {
		t.Errorf("Triple 1: wrong subject: %s", getIRI(triples[1].Subject))
	}
}

func TestTurtleParser_TrailingSemicolon(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://www.example.org/> .
:s :p1 :o1 ; .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
}

func TestTurtleParser_RepeatedSemicolons(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://www.example.org/> .
:s :p1 :o1 ;; :p2 :o2 .`)

	if len(triples) != 2 {
		t.Fatalf("Expected 2 triples, got %d", len(triples))
	}
}

func TestTurtleParser_AKeyword(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://www.example.org/> .
:s a :Person .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	if triples[0].Predicate.IRI != "http://www.w3.org/1999/02/22-rdf-syntax-ns#type" {
		t.Errorf("Expected rdf:type predicate, got %s", triples[0].Predicate.IRI)
	}
}

func TestTurtleParser_SparqlStyleDirectives(t *testing.T) {
	triples := mustParse(t, `PREFIX ex: <http://example.org/>
prefix other: <http://other.org/>
BASE <http://base.org/>
ex:s ex:p other:o .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	if getIRI(triples[0].Object) != "http://other.org/o" {
		t.Errorf("Wrong object: %s", getIRI(triples[0].Object))
	}
}

func TestTurtleParser_BaseStored(t *testing.T) {
	parser := NewTurtleParser(`@base <http://example.org/base/> .`)
	if _, err := parser.Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parser.Base() != "http://example.org/base/" {
		t.Errorf("Wrong base: %s", parser.Base())
	}
}

func TestTurtleParser_PrefixDirectiveMissingDot(t *testing.T) {
	_, err := NewTurtleParser(`@prefix ex: <http://example.org/>`).Parse()
	if err == nil {
		t.Fatal("Expected error for @prefix without terminating dot")
	}
}

func TestTurtleParser_PrefixRedeclaration(t *testing.T) {
	triples := mustParse(t, `@prefix ex: <http://one.org/> .
ex:s ex:p ex:o .
@prefix ex: <http://two.org/> .
ex:s ex:p ex:o .`)

	if len(triples) != 2 {
		t.Fatalf("Expected 2 triples, got %d", len(triples))
	}
	if getIRI(triples[0].Subject) != "http://one.org/s" {
		t.Errorf("Triple 0: wrong subject: %s", getIRI(triples[0].Subject))
	}
	if getIRI(triples[1].Subject) != "http://two.org/s" {
		t.Errorf("Triple 1: wrong subject: %s", getIRI(triples[1].Subject))
	}
}

func TestTurtleParser_UnknownPrefix(t *testing.T) {
	_, err := NewTurtleParser(`missing:s missing:p missing:o .`).Parse()
	if err == nil {
		t.Fatal("Expected error for unknown prefix")
	}
	if !strings.Contains(err.Error(), "unknown prefix") {
		t.Errorf("Expected unknown prefix error, got: %v", err)
	}
}

func TestTurtleParser_EmptyPrefix(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p :o .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	if getIRI(triples[0].Subject) != "http://example.org/s" {
		t.Errorf("Wrong subject: %s", getIRI(triples[0].Subject))
	}
}

func TestTurtleParser_BlankNodeLabel(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
_:alice :knows _:bob .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	subj, ok := triples[0].Subject.(*BlankNode)
	if !ok {
		t.Fatalf("Expected blank node subject, got %T", triples[0].Subject)
	}
	if subj.ID != "alice" {
		t.Errorf("Wrong blank node ID: %s", subj.ID)
	}
}

func TestTurtleParser_AnonymousBlankNodeSubject(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
[ :p :o ] :q :r .`)

	if len(triples) != 2 {
		t.Fatalf("Expected 2 triples, got %d", len(triples))
	}

	inner, ok := triples[0].Subject.(*BlankNode)
	if !ok {
		t.Fatalf("Expected blank node subject in first triple, got %T", triples[0].Subject)
	}
	outer, ok := triples[1].Subject.(*BlankNode)
	if !ok {
		t.Fatalf("Expected blank node subject in second triple, got %T", triples[1].Subject)
	}
	if inner.ID != outer.ID {
		t.Errorf("Bracketed subject should be shared: %s vs %s", inner.ID, outer.ID)
	}
	if getIRI(triples[1].Predicate) != "http://example.org/q" {
		t.Errorf("Wrong outer predicate: %s", getIRI(triples[1].Predicate))
	}
}

func TestTurtleParser_EmptyBlankNode(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p [] .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	if _, ok := triples[0].Object.(*BlankNode); !ok {
		t.Fatalf("Expected blank node object, got %T", triples[0].Object)
	}
}

func TestTurtleParser_NestedBlankNodes(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p [ :q [ :r [ :deep :end ] ] ; :back :here ] .`)

	// five triples: deep/end, r, q, back, outer
	if len(triples) != 5 {
		t.Fatalf("Expected 5 triples, got %d", len(triples))
	}

	// the node described by :q must also be the subject of :back,
	// even though a deeper bracket closed in between
	var qSubject, backSubject *BlankNode
	for _, triple := range triples {
		switch triple.Predicate.IRI {
		case "http://example.org/q":
			qSubject = triple.Subject.(*BlankNode)
		case "http://example.org/back":
			backSubject = triple.Subject.(*BlankNode)
		}
	}
	if qSubject == nil || backSubject == nil {
		t.Fatal("Missing expected predicates in output")
	}
	if qSubject.ID != backSubject.ID {
		t.Errorf("Enclosing subject not restored after nested bracket: %s vs %s", qSubject.ID, backSubject.ID)
	}
}

func TestTurtleParser_Collection(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p ("1" "2") .`)

	// two cells with first and rest each, plus the enclosing triple
	if len(triples) != 5 {
		t.Fatalf("Expected 5 triples, got %d", len(triples))
	}

	last := triples[4]
	if getIRI(last.Subject) != "http://example.org/s" {
		t.Errorf("Wrong subject: %s", getIRI(last.Subject))
	}
	head, ok := last.Object.(*BlankNode)
	if !ok {
		t.Fatalf("Expected blank node list head, got %T", last.Object)
	}

	// walk the chain from the head
	firstOf := make(map[string]Term)
	restOf := make(map[string]Term)
	for _, triple := range triples[:4] {
		cell := triple.Subject.(*BlankNode)
		switch triple.Predicate.IRI {
		case RDFFirst.IRI:
			firstOf[cell.ID] = triple.Object
		case RDFRest.IRI:
			restOf[cell.ID] = triple.Object
		default:
			t.Errorf("Unexpected predicate in collection: %s", triple.Predicate.IRI)
		}
	}

	cell := head
	var values []string
	for {
		first, ok := firstOf[cell.ID]
		if !ok {
			t.Fatalf("Cell %s has no first value", cell.ID)
		}
		values = append(values, first.(*Literal).Value)

		rest, ok := restOf[cell.ID]
		if !ok {
			t.Fatalf("Cell %s has no rest value", cell.ID)
		}
		if next, isBlank := rest.(*BlankNode); isBlank {
			cell = next
			continue
		}
		if getIRI(rest) != RDFNil.IRI {
			t.Errorf("Chain should end with rdf:nil, got %s", rest)
		}
		break
	}

	if len(values) != 2 || values[0] != "1" || values[1] != "2" {
		t.Errorf("Wrong list values: %v", values)
	}
}

func TestTurtleParser_EmptyCollection(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p () .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	if getIRI(triples[0].Object) != RDFNil.IRI {
		t.Errorf("Empty collection should be rdf:nil, got %s", triples[0].Object)
	}
}

func TestTurtleParser_StringEscapes(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p "col\tumn A \U0001F600 \"quoted\" back\\slash" .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	lit := triples[0].Object.(*Literal)
	expected := "col\tumn A \U0001F600 \"quoted\" back\\slash"
	if lit.Value != expected {
		t.Errorf("Expected %q, got %q", expected, lit.Value)
	}
}

func TestTurtleParser_InvalidEscape(t *testing.T) {
	_, err := NewTurtleParser(`@prefix : <http://example.org/> .
:s :p "bad \x escape" .`).Parse()
	if err == nil {
		t.Fatal("Expected error for invalid escape sequence")
	}
}

func TestTurtleParser_SurrogateEscapeRejected(t *testing.T) {
	_, err := NewTurtleParser(`@prefix : <http://example.org/> .
:s :p "\uD800" .`).Parse()
	if err == nil {
		t.Fatal("Expected error for surrogate code point escape")
	}
}

func TestTurtleParser_UnescapedNewlineInString(t *testing.T) {
	_, err := NewTurtleParser("@prefix : <http://example.org/> .\n:s :p \"line\nbreak\" .").Parse()
	if err == nil {
		t.Fatal("Expected error for raw newline in single-line string")
	}
}

func TestTurtleParser_SingleQuotedString(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p 'single "double" inside' .`)

	lit := triples[0].Object.(*Literal)
	if lit.Value != `single "double" inside` {
		t.Errorf("Wrong value: %q", lit.Value)
	}
}

func TestTurtleParser_LongString(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p """multi
line "quoted" text""" .`)

	lit := triples[0].Object.(*Literal)
	if lit.Value != "multi\nline \"quoted\" text" {
		t.Errorf("Wrong value: %q", lit.Value)
	}
}

func TestTurtleParser_LongStringTrailingQuotes(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p """ends with quotes""""" .`)

	lit := triples[0].Object.(*Literal)
	if lit.Value != `ends with quotes""` {
		t.Errorf("Wrong value: %q", lit.Value)
	}
}

func TestTurtleParser_LongSingleQuotedString(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p '''line one
line two''' .`)

	lit := triples[0].Object.(*Literal)
	if lit.Value != "line one\nline two" {
		t.Errorf("Wrong value: %q", lit.Value)
	}
}

func TestTurtleParser_LanguageTag(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p "bonjour"@fr-BE .`)

	lit := triples[0].Object.(*Literal)
	if lit.Value != "bonjour" {
		t.Errorf("Wrong value: %q", lit.Value)
	}
	if lit.Language != "fr-BE" {
		t.Errorf("Wrong language: %q", lit.Language)
	}
}

func TestTurtleParser_DetachedLanguageTagRejected(t *testing.T) {
	_, err := NewTurtleParser(`@prefix : <http://example.org/> .
:s :p "x" @en .`).Parse()
	if err == nil {
		t.Fatal("Expected error for language tag separated from its string")
	}
}

func TestTurtleParser_DetachedDatatypeRejected(t *testing.T) {
	_, err := NewTurtleParser(`@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix : <http://example.org/> .
:s :p "5" ^^xsd:integer .`).Parse()
	if err == nil {
		t.Fatal("Expected error for datatype separated from its string")
	}
}

func TestTurtleParser_PrefixDirectiveNoSpaceBeforeColon(t *testing.T) {
	triples := mustParse(t, `@prefix: <http://example.org/> .
:s :p :o .`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
	if getIRI(triples[0].Subject) != "http://example.org/s" {
		t.Errorf("Wrong subject: %s", getIRI(triples[0].Subject))
	}
}

func TestTurtleParser_DatatypeIRI(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p "2024-01-01"^^<http://www.w3.org/2001/XMLSchema#date> .`)

	lit := triples[0].Object.(*Literal)
	if lit.Datatype == nil || lit.Datatype.IRI != "http://www.w3.org/2001/XMLSchema#date" {
		t.Errorf("Wrong datatype: %v", lit.Datatype)
	}
}

func TestTurtleParser_DatatypePrefixedName(t *testing.T) {
	triples := mustParse(t, `@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix : <http://example.org/> .
:s :p "42"^^xsd:byte .`)

	lit := triples[0].Object.(*Literal)
	if lit.Datatype == nil || lit.Datatype.IRI != "http://www.w3.org/2001/XMLSchema#byte" {
		t.Errorf("Wrong datatype: %v", lit.Datatype)
	}
}

func TestTurtleParser_NumericLiterals(t *testing.T) {
	tests := []struct {
		lexical  string
		datatype string
	}{
		{"42", XSDInteger.IRI},
		{"-7", XSDInteger.IRI},
		{"+007", XSDInteger.IRI},
		{"3.14", XSDDecimal.IRI},
		{"-0.5", XSDDecimal.IRI},
		{".5", XSDDecimal.IRI},
		{"4.2E9", XSDDouble.IRI},
		{"-1.0e-3", XSDDouble.IRI},
		{"5E0", XSDDouble.IRI},
	}

	for _, tt := range tests {
		triples := mustParse(t, "@prefix : <http://example.org/> .\n:s :p "+tt.lexical+" .")
		lit, ok := triples[0].Object.(*Literal)
		if !ok {
			t.Fatalf("%s: expected literal, got %T", tt.lexical, triples[0].Object)
		}
		if lit.Value != tt.lexical {
			t.Errorf("%s: lexical form not preserved, got %q", tt.lexical, lit.Value)
		}
		if lit.Datatype == nil || lit.Datatype.IRI != tt.datatype {
			t.Errorf("%s: wrong datatype: %v", tt.lexical, lit.Datatype)
		}
	}
}

func TestTurtleParser_NumberThenStatementDot(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p 42 .`)

	lit := triples[0].Object.(*Literal)
	if lit.Value != "42" {
		t.Errorf("Statement dot consumed into number: %q", lit.Value)
	}
}

func TestTurtleParser_BooleanLiterals(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:s :p true, false .`)

	if len(triples) != 2 {
		t.Fatalf("Expected 2 triples, got %d", len(triples))
	}
	for i, expected := range []string{"true", "false"} {
		lit := triples[i].Object.(*Literal)
		if lit.Value != expected {
			t.Errorf("Triple %d: wrong value %q", i, lit.Value)
		}
		if lit.Datatype == nil || lit.Datatype.IRI != XSDBoolean.IRI {
			t.Errorf("Triple %d: wrong datatype: %v", i, lit.Datatype)
		}
	}
}

func TestTurtleParser_Comments(t *testing.T) {
	triples := mustParse(t, `# leading comment
@prefix : <http://example.org/> . # after directive
:s # subject
  :p :o . # done`)

	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
}

func TestTurtleParser_LocalNameWithDots(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:alice.smith :p :o .`)

	if getIRI(triples[0].Subject) != "http://example.org/alice.smith" {
		t.Errorf("Wrong subject: %s", getIRI(triples[0].Subject))
	}
}

func TestTurtleParser_LocalNameEscapes(t *testing.T) {
	triples := mustParse(t, `@prefix : <http://example.org/> .
:with\-dash :p :o%20x .`)

	if getIRI(triples[0].Subject) != "http://example.org/with-dash" {
		t.Errorf("Wrong subject: %s", getIRI(triples[0].Subject))
	}
	if getIRI(triples[0].Object) != "http://example.org/o%20x" {
		t.Errorf("Percent triple not kept verbatim: %s", getIRI(triples[0].Object))
	}
}

func TestTurtleParser_UnicodeEscapeInIRI(t *testing.T) {
	triples := mustParse(t, `<http://example.org/A> <http://example.org/p> <http://example.org/o> .`)

	if getIRI(triples[0].Subject) != "http://example.org/A" {
		t.Errorf("Wrong subject: %s", getIRI(triples[0].Subject))
	}
}

func TestTurtleParser_MissingFinalDot(t *testing.T) {
	_, err := NewTurtleParser(`@prefix : <http://example.org/> .
:s :p :o`).Parse()
	if err == nil {
		t.Fatal("Expected error for missing statement dot")
	}
}

func TestTurtleParser_EmptyDocument(t *testing.T) {
	triples := mustParse(t, "  \n\t# only a comment\n")
	if len(triples) != 0 {
		t.Fatalf("Expected no triples, got %d", len(triples))
	}
}

func TestTurtleParser_FreshBlankNodesPerParse(t *testing.T) {
	factory := NewDataFactory()
	input := `@prefix : <http://example.org/> .
:s :p [] .`

	first, err := NewTurtleParserWithFactory(input, factory).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second, err := NewTurtleParserWithFactory(input, factory).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	a := first[0].Object.(*BlankNode)
	b := second[0].Object.(*BlankNode)
	if a.ID == b.ID {
		t.Errorf("Shared factory produced duplicate blank node ID %s", a.ID)
	}
}

func TestReadTurtle(t *testing.T) {
	r := strings.NewReader(`@prefix : <http://example.org/> .
:s :p :o .`)
	triples, err := ReadTurtle(r, NewDataFactory())
	if err != nil {
		t.Fatalf("ReadTurtle failed: %v", err)
	}
	if len(triples) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(triples))
	}
}
