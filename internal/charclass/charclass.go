// Package charclass implements the character-class predicates the
// tokenizer and regexp validator consult to classify a rune: identifier
// start/part, whitespace, line-break and digit classes.
package charclass

import "unicode"

const (
	lineSeparator      = ' '
	paragraphSeparator = ' '
	byteOrderMark      = 0xFEFF
	zeroWidthNonJoiner = '‌'
	zeroWidthJoiner    = '‍'
)

// IsLineTerminator reports whether r is one of the four ECMAScript line
// terminators. A "\r\n" pair is the caller's concern to collapse into a
// single line break; each half is still a line terminator on its own.
func IsLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', lineSeparator, paragraphSeparator:
		return true
	default:
		return false
	}
}

// IsWhiteSpace reports whether r is insignificant whitespace: the
// Unicode "Space_Separator" category plus the handful of control
// characters ECMAScript treats as whitespace, plus BOM.
func IsWhiteSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', 0x00A0, byteOrderMark:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// IsIdentifierStart reports whether r may begin an identifier: Unicode
// ID_Start, plus '$' and '_'.
func IsIdentifierStart(r rune) bool {
	if r == '$' || r == '_' {
		return true
	}
	return isIDStart(r)
}

// IsIdentifierPart reports whether r may continue an identifier:
// Unicode ID_Continue, plus '$', '_', and the zero-width joiners used in
// some Unicode identifiers.
func IsIdentifierPart(r rune) bool {
	if r == '$' || r == '_' || r == zeroWidthNonJoiner || r == zeroWidthJoiner {
		return true
	}
	return isIDContinue(r)
}

// isIDStart approximates the Unicode ID_Start derived property using the
// categories it is composed from (Lu, Ll, Lt, Lm, Lo, Nl). The rare
// "Other_ID_Start" stability exceptions are omitted.
func isIDStart(r rune) bool {
	if r < 128 {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return unicode.In(r,
		unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl)
}

// isIDContinue approximates ID_Continue: ID_Start plus Mn, Mc, Nd, Pc.
func isIDContinue(r rune) bool {
	if r < 128 {
		return isIDStart(r) || ('0' <= r && r <= '9')
	}
	return isIDStart(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

// IsDecimalDigit reports whether r is an ASCII decimal digit.
func IsDecimalDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// IsHexDigit reports whether r is an ASCII hexadecimal digit.
func IsHexDigit(r rune) bool {
	return IsDecimalDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// IsOctalDigit reports whether r is an ASCII octal digit.
func IsOctalDigit(r rune) bool {
	return '0' <= r && r <= '7'
}

// IsBinaryDigit reports whether r is '0' or '1'.
func IsBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

// HexValue returns the numeric value of a hex digit, or -1 if r is not
// one.
func HexValue(r rune) int {
	switch {
	case '0' <= r && r <= '9':
		return int(r - '0')
	case 'a' <= r && r <= 'f':
		return int(r-'a') + 10
	case 'A' <= r && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}
