package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/rdfio/pkg/rdf"
)

// TermDecoder decodes encoded terms back to rdf.Term values
type TermDecoder struct{}

func NewTermDecoder() *TermDecoder {
	return &TermDecoder{}
}

// NeedsLookup reports whether decoding this term requires the side-table
// string stored under its hash.
func NeedsLookup(encoded EncodedTerm) bool {
	switch encoded[0] {
	case kindNamedNode, kindHashBlankNode, kindHashString, kindLangString,
		kindTypedLiteral, kindDecimal:
		return true
	}
	return false
}

// Hash returns the 16-byte hash portion of the encoding. Only meaningful
// when NeedsLookup reports true.
func Hash(encoded EncodedTerm) [16]byte {
	var hash [16]byte
	copy(hash[:], encoded[1:])
	return hash
}

// DecodeTerm decodes an encoded term. stringValue must carry the
// side-table string for hash-based encodings and is ignored otherwise.
func (d *TermDecoder) DecodeTerm(encoded EncodedTerm, stringValue *string) (rdf.Term, error) {
	switch encoded[0] {
	case kindNamedNode:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for named node")
		}
		return rdf.NewNamedNode(*stringValue), nil

	case kindInlineBlankNode:
		id := binary.BigEndian.Uint64(encoded[1:9])
		return rdf.NewBlankNode(strconv.FormatUint(id, 10)), nil

	case kindHashBlankNode:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for blank node")
		}
		return rdf.NewBlankNode(*stringValue), nil

	case kindInlineString:
		end := 1
		for end < EncodedTermSize && encoded[end] != 0 {
			end++
		}
		return rdf.NewLiteral(string(encoded[1:end])), nil

	case kindHashString:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for string literal")
		}
		return rdf.NewLiteral(*stringValue), nil

	case kindLangString:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for language-tagged literal")
		}
		at := strings.LastIndexByte(*stringValue, '@')
		if at < 0 {
			return nil, fmt.Errorf("malformed language-tagged literal encoding: %q", *stringValue)
		}
		return rdf.NewLiteralWithLanguage((*stringValue)[:at], (*stringValue)[at+1:]), nil

	case kindTypedLiteral:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for typed literal")
		}
		sep := strings.LastIndex(*stringValue, "^^")
		if sep < 0 {
			return nil, fmt.Errorf("malformed typed literal encoding: %q", *stringValue)
		}
		datatype := rdf.NewNamedNode((*stringValue)[sep+2:])
		return rdf.NewLiteralWithDatatype((*stringValue)[:sep], datatype), nil

	case kindInteger:
		value := int64(binary.BigEndian.Uint64(encoded[1:9])) // #nosec G115 - intentional bit-pattern conversion
		return rdf.NewLiteralWithDatatype(strconv.FormatInt(value, 10), rdf.XSDInteger), nil

	case kindDecimal:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for decimal literal")
		}
		return rdf.NewLiteralWithDatatype(*stringValue, rdf.XSDDecimal), nil

	case kindDouble:
		bits := binary.BigEndian.Uint64(encoded[1:9])
		value := math.Float64frombits(bits)
		return rdf.NewLiteralWithDatatype(strconv.FormatFloat(value, 'E', -1, 64), rdf.XSDDouble), nil

	case kindBoolean:
		if encoded[1] != 0 {
			return rdf.NewLiteralWithDatatype("true", rdf.XSDBoolean), nil
		}
		return rdf.NewLiteralWithDatatype("false", rdf.XSDBoolean), nil

	default:
		return nil, fmt.Errorf("unknown term kind: %d", encoded[0])
	}
}
