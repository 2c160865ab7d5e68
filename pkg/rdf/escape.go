package rdf

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// decodeUnicodeEscape decodes a \uXXXX (exactly four hex digits) or
// \UXXXXXXXX (exactly eight hex digits) sequence starting at the backslash.
// Returns the code point and the position just past the escape. Code points
// outside the Unicode scalar range, surrogates included, are rejected.
func decodeUnicodeEscape(s string, pos int) (rune, int, error) {
	if pos >= len(s) || s[pos] != '\\' {
		return 0, pos, fmt.Errorf("expected '\\' at start of escape sequence at position %d", pos)
	}
	pos++
	if pos >= len(s) {
		return 0, pos, fmt.Errorf("incomplete escape sequence at position %d", pos)
	}

	var hexDigits int
	switch s[pos] {
	case 'u':
		hexDigits = 4
	case 'U':
		hexDigits = 8
	default:
		return 0, pos, fmt.Errorf("invalid escape type: %c at position %d", s[pos], pos)
	}
	pos++

	if pos+hexDigits > len(s) {
		return 0, pos, fmt.Errorf("incomplete Unicode escape sequence at position %d", pos)
	}
	hexStr := s[pos : pos+hexDigits]
	codePoint, err := strconv.ParseInt(hexStr, 16, 32)
	if err != nil {
		return 0, pos, fmt.Errorf("invalid hex digits in Unicode escape at position %d: %s", pos, hexStr)
	}
	pos += hexDigits

	if !utf8.ValidRune(rune(codePoint)) {
		return 0, pos, fmt.Errorf("Unicode escape U+%04X is not a valid scalar value", codePoint)
	}

	return rune(codePoint), pos, nil
}

// decodeStringEscape decodes any escape sequence valid inside a string
// literal body, starting at the backslash. Handles the named escapes
// \t \b \n \r \f \" \' \\ and Unicode escapes.
func decodeStringEscape(s string, pos int) (string, int, error) {
	if pos+1 >= len(s) {
		return "", pos, fmt.Errorf("incomplete escape sequence at position %d", pos)
	}
	switch s[pos+1] {
	case 'u', 'U':
		r, next, err := decodeUnicodeEscape(s, pos)
		if err != nil {
			return "", pos, err
		}
		return string(r), next, nil
	case 't':
		return "\t", pos + 2, nil
	case 'b':
		return "\b", pos + 2, nil
	case 'n':
		return "\n", pos + 2, nil
	case 'r':
		return "\r", pos + 2, nil
	case 'f':
		return "\f", pos + 2, nil
	case '"':
		return `"`, pos + 2, nil
	case '\'':
		return "'", pos + 2, nil
	case '\\':
		return `\`, pos + 2, nil
	default:
		return "", pos, fmt.Errorf("invalid escape sequence \\%c at position %d", s[pos+1], pos+1)
	}
}

// scanLangTag scans a language tag starting just past the '@': one or more
// letters, optionally followed by '-'-separated alphanumeric subtags.
// Returns the tag and the position past it.
func scanLangTag(s string, pos int) (string, int, error) {
	start := pos
	if pos >= len(s) || !isASCIILetter(s[pos]) {
		return "", pos, fmt.Errorf("language tag must start with a letter at position %d", pos)
	}
	for pos < len(s) && isASCIILetter(s[pos]) {
		pos++
	}
	for pos < len(s) && s[pos] == '-' {
		pos++
		subStart := pos
		for pos < len(s) && (isASCIILetter(s[pos]) || isDigit(s[pos])) {
			pos++
		}
		if pos == subStart {
			return "", pos, fmt.Errorf("empty language subtag at position %d", pos)
		}
	}
	return s[start:pos], pos, nil
}
