package rdf

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// TermType represents the type of an RDF term
type TermType byte

const (
	TermTypeNamedNode TermType = iota + 1
	TermTypeBlankNode
	TermTypeLiteral
)

// Term represents an RDF term (IRI, blank node, or literal)
type Term interface {
	Type() TermType
	String() string
	Equals(other Term) bool
}

// NamedOrBlankNode is the subset of terms allowed in the subject position
// of a triple. Only NamedNode and BlankNode implement it.
type NamedOrBlankNode interface {
	Term
	subjectPosition()
}

// NamedNode represents an IRI
type NamedNode struct {
	IRI string
}

func NewNamedNode(iri string) *NamedNode {
	return &NamedNode{IRI: iri}
}

func (n *NamedNode) Type() TermType {
	return TermTypeNamedNode
}

func (n *NamedNode) String() string {
	return fmt.Sprintf("<%s>", n.IRI)
}

func (n *NamedNode) Equals(other Term) bool {
	if on, ok := other.(*NamedNode); ok {
		return n.IRI == on.IRI
	}
	return false
}

func (n *NamedNode) subjectPosition() {}

// BlankNode represents a blank node. Its identity only holds within the
// scope of one document parse.
type BlankNode struct {
	ID string
}

func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) Type() TermType {
	return TermTypeBlankNode
}

func (b *BlankNode) String() string {
	return fmt.Sprintf("_:%s", b.ID)
}

func (b *BlankNode) Equals(other Term) bool {
	if ob, ok := other.(*BlankNode); ok {
		return b.ID == ob.ID
	}
	return false
}

func (b *BlankNode) subjectPosition() {}

// Literal represents an RDF literal. A literal carries either a language
// tag or a datatype, never both.
type Literal struct {
	Value    string
	Language string     // for language-tagged strings
	Datatype *NamedNode // for typed literals
}

func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

func NewLiteralWithLanguage(value, language string) *Literal {
	return &Literal{Value: value, Language: language}
}

func NewLiteralWithDatatype(value string, datatype *NamedNode) *Literal {
	return &Literal{Value: value, Datatype: datatype}
}

func (l *Literal) Type() TermType {
	return TermTypeLiteral
}

func (l *Literal) String() string {
	result := fmt.Sprintf(`"%s"`, l.Value)
	if l.Language != "" {
		result += "@" + l.Language
	} else if l.Datatype != nil {
		result += "^^" + l.Datatype.String()
	}
	return result
}

func (l *Literal) Equals(other Term) bool {
	if ol, ok := other.(*Literal); ok {
		if l.Value != ol.Value {
			return false
		}
		if l.Language != ol.Language {
			return false
		}
		if l.Datatype == nil && ol.Datatype == nil {
			return true
		}
		if l.Datatype != nil && ol.Datatype != nil {
			return l.Datatype.Equals(ol.Datatype)
		}
		return false
	}
	return false
}

// Triple represents an RDF triple (subject, predicate, object).
// Immutable once constructed.
type Triple struct {
	Subject   NamedOrBlankNode
	Predicate *NamedNode
	Object    Term
}

func NewTriple(subject NamedOrBlankNode, predicate *NamedNode, object Term) *Triple {
	return &Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

func (t *Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

func (t *Triple) Equals(other *Triple) bool {
	if other == nil {
		return false
	}
	return t.Subject.Equals(other.Subject) &&
		t.Predicate.Equals(other.Predicate) &&
		t.Object.Equals(other.Object)
}

// Well-known vocabulary IRIs
var (
	XSDString  = NewNamedNode("http://www.w3.org/2001/XMLSchema#string")
	XSDInteger = NewNamedNode("http://www.w3.org/2001/XMLSchema#integer")
	XSDDecimal = NewNamedNode("http://www.w3.org/2001/XMLSchema#decimal")
	XSDDouble  = NewNamedNode("http://www.w3.org/2001/XMLSchema#double")
	XSDBoolean = NewNamedNode("http://www.w3.org/2001/XMLSchema#boolean")

	RDFType       = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	RDFFirst      = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#first")
	RDFRest       = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#rest")
	RDFNil        = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#nil")
	RDFLangString = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#langString")
)

// DataFactory creates RDF terms and triples. The parsers build every term
// through a factory; fresh anonymous blank nodes draw their ids from an
// atomic counter so concurrent parses sharing a factory never collide.
type DataFactory struct {
	blankNodeCounter atomic.Uint64
}

func NewDataFactory() *DataFactory {
	return &DataFactory{}
}

// NamedNode builds an IRI term.
func (f *DataFactory) NamedNode(iri string) *NamedNode {
	return NewNamedNode(iri)
}

// BlankNode builds a blank node with a known label.
func (f *DataFactory) BlankNode(id string) *BlankNode {
	return NewBlankNode(id)
}

// NewBlankNode builds a fresh anonymous blank node with a unique id.
func (f *DataFactory) NewBlankNode() *BlankNode {
	return NewBlankNode(strconv.FormatUint(f.blankNodeCounter.Add(1), 10))
}

// Literal builds a simple literal.
func (f *DataFactory) Literal(value string) *Literal {
	return NewLiteral(value)
}

// LiteralWithLanguage builds a language-tagged string.
func (f *DataFactory) LiteralWithLanguage(value, language string) *Literal {
	return NewLiteralWithLanguage(value, language)
}

// LiteralWithDatatype builds a typed literal.
func (f *DataFactory) LiteralWithDatatype(value string, datatype *NamedNode) *Literal {
	return NewLiteralWithDatatype(value, datatype)
}

// Triple builds a triple.
func (f *DataFactory) Triple(subject NamedOrBlankNode, predicate *NamedNode, object Term) *Triple {
	return NewTriple(subject, predicate, object)
}
