package parser

import "unicode"

func isIdentifierStart(r rune) bool {
	switch {
	case r < 0x80:
		return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '$' || r == '_'
	case unicode.IsLetter(r), unicode.Is(unicode.Nl, r), unicode.Is(unicode.Other_ID_Start, r):
		return true
	}
	return false
}

func isIdentifierChar(r rune) bool {
	switch {
	case r < 0x80:
		return isIdentifierStart(r) || r >= '0' && r <= '9'
	case isIdentifierStart(r):
		return true
	case r == 0x200C, r == 0x200D:
		return true
	case unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue):
		return true
	}
	return false
}

func isNewLine(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

func isDigit(c byte, radix int) bool {
	switch radix {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	}
	return c >= '0' && c <= '9'
}

var reservedWords = map[string]bool{
	"enum": true,
}

var strictReservedWords = map[string]bool{
	"implements": true,
	"interface":  true,
	"let":        true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"yield":      true,
}

var strictBindReservedWords = map[string]bool{
	"eval":      true,
	"arguments": true,
}
