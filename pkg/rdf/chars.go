package rdf

import "sort"

// Character classes for prefixed names and blank node labels, per the
// Turtle grammar productions PN_CHARS_BASE, PN_CHARS_U and PN_CHARS.
// Kept as sorted range tables searched with sort.Search instead of
// cascading conditionals.

type runeRange struct {
	lo, hi rune
}

var pnCharsBaseRanges = []runeRange{
	{'A', 'Z'},
	{'a', 'z'},
	{0x00C0, 0x00D6},
	{0x00D8, 0x00F6},
	{0x00F8, 0x02FF},
	{0x0370, 0x037D},
	{0x037F, 0x1FFF},
	{0x200C, 0x200D},
	{0x2070, 0x218F},
	{0x2C00, 0x2FEF},
	{0x3001, 0xD7FF},
	{0xF900, 0xFDCF},
	{0xFDF0, 0xFFFD},
	{0x10000, 0xEFFFF},
}

// Ranges PN_CHARS adds on top of PN_CHARS_U: '-', digits, middle dot,
// combining marks and the two connector punctuation undertie characters.
var pnCharsExtraRanges = []runeRange{
	{'-', '-'},
	{'0', '9'},
	{0x00B7, 0x00B7},
	{0x0300, 0x036F},
	{0x203F, 0x2040},
}

func inRanges(r rune, ranges []runeRange) bool {
	i := sort.Search(len(ranges), func(i int) bool { return r <= ranges[i].hi })
	return i < len(ranges) && r >= ranges[i].lo
}

func isPNCharsBase(r rune) bool {
	return inRanges(r, pnCharsBaseRanges)
}

func isPNCharsU(r rune) bool {
	return isPNCharsBase(r) || r == '_'
}

func isPNChars(r rune) bool {
	return isPNCharsU(r) || inRanges(r, pnCharsExtraRanges)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isLocalEsc reports whether c may follow a backslash in the local part of
// a prefixed name (PN_LOCAL_ESC).
func isLocalEsc(c byte) bool {
	switch c {
	case '_', '~', '.', '-', '!', '$', '&', '\'', '(', ')', '*', '+',
		',', ';', '=', '/', '?', '#', '@', '%', ':':
		return true
	}
	return false
}
