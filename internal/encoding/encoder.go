// Package encoding maps RDF terms to fixed-size binary representations
// suitable for ordered key-value indexes. Terms that cannot be inlined are
// replaced by a 128-bit hash, with the original string kept in a side
// table keyed by that hash.
package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/rdfio/pkg/rdf"
	"github.com/zeebo/xxh3"
)

const (
	// MaxInlineStringSize is the largest string stored directly in an
	// encoded term instead of being hashed
	MaxInlineStringSize = 16

	// EncodedTermSize is one kind byte plus 16 bytes of hash or inline data
	EncodedTermSize = 17
)

// Term kinds. The kind byte leads the encoding, so terms of the same kind
// sort together within an index.
const (
	kindNamedNode byte = iota + 1
	kindInlineBlankNode
	kindHashBlankNode
	kindInlineString
	kindHashString
	kindLangString
	kindTypedLiteral
	kindInteger
	kindDecimal
	kindDouble
	kindBoolean
)

// EncodedTerm is a kind byte followed by up to 16 bytes of data
type EncodedTerm [EncodedTermSize]byte

// TermEncoder encodes and decodes RDF terms
type TermEncoder struct{}

func NewTermEncoder() *TermEncoder {
	return &TermEncoder{}
}

// Hash128 computes a 128-bit xxhash3 hash of the input string
func (e *TermEncoder) Hash128(s string) [16]byte {
	hash := xxh3.Hash128([]byte(s))
	var result [16]byte
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// EncodeTerm encodes a term into its fixed-size form. When the encoding is
// a hash, the second return value is the string that must be stored in the
// side table under that hash; it is nil for fully inline encodings.
func (e *TermEncoder) EncodeTerm(term rdf.Term) (EncodedTerm, *string, error) {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return e.encodeNamedNode(t), &t.IRI, nil
	case *rdf.BlankNode:
		return e.encodeBlankNode(t)
	case *rdf.Literal:
		return e.encodeLiteral(t)
	default:
		var encoded EncodedTerm
		return encoded, nil, fmt.Errorf("unknown term type: %T", term)
	}
}

func (e *TermEncoder) encodeNamedNode(node *rdf.NamedNode) EncodedTerm {
	var encoded EncodedTerm
	encoded[0] = kindNamedNode

	hash := e.Hash128(node.IRI)
	copy(encoded[1:], hash[:])

	return encoded
}

func (e *TermEncoder) encodeBlankNode(node *rdf.BlankNode) (EncodedTerm, *string, error) {
	var encoded EncodedTerm

	// Factory-generated identifiers are decimal counters; inline those
	// directly so fresh blank nodes never touch the side table
	if num, err := strconv.ParseUint(node.ID, 10, 64); err == nil &&
		strconv.FormatUint(num, 10) == node.ID {
		encoded[0] = kindInlineBlankNode
		binary.BigEndian.PutUint64(encoded[1:9], num)
		return encoded, nil, nil
	}

	encoded[0] = kindHashBlankNode
	hash := e.Hash128(node.ID)
	copy(encoded[1:], hash[:])

	return encoded, &node.ID, nil
}

func (e *TermEncoder) encodeLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	if lit.Language != "" {
		return e.encodeLangString(lit)
	}

	// Numeric and boolean literals get compact inline forms, but only
	// when the binary value decodes back to the exact lexical form; a
	// non-canonical form like +007 must survive a round trip unchanged
	if lit.Datatype != nil {
		switch lit.Datatype.IRI {
		case rdf.XSDInteger.IRI:
			if value, err := strconv.ParseInt(lit.Value, 10, 64); err == nil &&
				strconv.FormatInt(value, 10) == lit.Value {
				var encoded EncodedTerm
				encoded[0] = kindInteger
				binary.BigEndian.PutUint64(encoded[1:9], uint64(value))
				return encoded, nil, nil
			}
		case rdf.XSDDouble.IRI:
			if value, err := strconv.ParseFloat(lit.Value, 64); err == nil &&
				strconv.FormatFloat(value, 'E', -1, 64) == lit.Value {
				var encoded EncodedTerm
				encoded[0] = kindDouble
				binary.BigEndian.PutUint64(encoded[1:9], math.Float64bits(value))
				return encoded, nil, nil
			}
		case rdf.XSDBoolean.IRI:
			if lit.Value == "true" || lit.Value == "false" {
				var encoded EncodedTerm
				encoded[0] = kindBoolean
				if lit.Value == "true" {
					encoded[1] = 1
				}
				return encoded, nil, nil
			}
		case rdf.XSDDecimal.IRI:
			// Decimals keep their lexical form; 1.10 and 1.1 are
			// distinct terms
			var encoded EncodedTerm
			encoded[0] = kindDecimal
			hash := e.Hash128(lit.Value)
			copy(encoded[1:], hash[:])
			return encoded, &lit.Value, nil
		case rdf.XSDString.IRI, "":
		default:
			return e.encodeTypedLiteral(lit)
		}
		if lit.Datatype.IRI != rdf.XSDString.IRI && lit.Datatype.IRI != "" {
			// non-canonical numeric or boolean lexical form
			return e.encodeTypedLiteral(lit)
		}
	}

	return e.encodeStringLiteral(lit)
}

func (e *TermEncoder) encodeStringLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var encoded EncodedTerm

	// Inline decoding trims trailing zero bytes, so values containing
	// NUL must take the hash path
	if len(lit.Value) <= MaxInlineStringSize && strings.IndexByte(lit.Value, 0) < 0 {
		encoded[0] = kindInlineString
		copy(encoded[1:], lit.Value)
		return encoded, nil, nil
	}

	encoded[0] = kindHashString
	hash := e.Hash128(lit.Value)
	copy(encoded[1:], hash[:])

	return encoded, &lit.Value, nil
}

func (e *TermEncoder) encodeLangString(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = kindLangString

	// Language tags cannot contain '@', so the last '@' in the combined
	// form unambiguously separates value from tag
	combined := lit.Value + "@" + lit.Language
	hash := e.Hash128(combined)
	copy(encoded[1:], hash[:])

	return encoded, &combined, nil
}

func (e *TermEncoder) encodeTypedLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = kindTypedLiteral

	// IRIs cannot contain '^', so the last "^^" unambiguously separates
	// value from datatype
	combined := lit.Value + "^^" + lit.Datatype.IRI
	hash := e.Hash128(combined)
	copy(encoded[1:], hash[:])

	return encoded, &combined, nil
}

// EncodeTripleKey concatenates encoded terms into an index key. Keys are
// big-endian throughout so lexicographic sorting matches term order.
func (e *TermEncoder) EncodeTripleKey(terms ...EncodedTerm) []byte {
	result := make([]byte, 0, len(terms)*EncodedTermSize)
	for _, term := range terms {
		result = append(result, term[:]...)
	}
	return result
}
