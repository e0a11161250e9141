package toon

import (
	"errors"
	"strings"
)

// ============================================================
// Delimiter-Aware Tokenizing
// ============================================================
//
// One quote/escape state machine serves both directions: splitting
// delimited value lists, locating the key/value colon, and classifying a
// line as key-value versus bare scalar. Delimiters, colons, and brackets
// inside double-quoted spans are inert.

// splitDelimited splits s on delim, honoring double quotes and backslash
// escapes. The fragments are returned raw (not trimmed, not unquoted).
func splitDelimited(s string, delim byte) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			cur.WriteByte(c)
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inQuote:
			cur.WriteByte(c)
			escaped = true
		case c == '"':
			cur.WriteByte(c)
			inQuote = !inQuote
		case c == delim && !inQuote:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// findUnquotedColon returns the index of the first colon outside quoted
// spans and outside unmatched [...] bracket runs, or -1.
func findUnquotedColon(s string) int {
	inQuote := false
	escaped := false
	brackets := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inQuote {
				escaped = true
			}
		case '"':
			inQuote = !inQuote
		case '[':
			if !inQuote {
				brackets++
			}
		case ']':
			if !inQuote && brackets > 0 {
				brackets--
			}
		case ':':
			if !inQuote && brackets == 0 {
				return i
			}
		}
	}
	return -1
}

// isKeyValueLine reports whether the line has a top-level key/value colon.
func isKeyValueLine(s string) bool {
	return findUnquotedColon(s) >= 0
}

// ============================================================
// Identifier and Number Shapes
// ============================================================

// isBareKey reports whether k can be written unquoted in key position.
// Pattern: ^[A-Za-z_][A-Za-z0-9_.]*$
func isBareKey(k string) bool {
	if len(k) == 0 {
		return false
	}
	c := k[0]
	if !isAlpha(c) && c != '_' {
		return false
	}
	for i := 1; i < len(k); i++ {
		c = k[i]
		if !isAlpha(c) && !isDigit(c) && c != '_' && c != '.' {
			return false
		}
	}
	return true
}

// isIdentSegment reports whether s is a foldable identifier segment.
// Pattern: ^[A-Za-z_][A-Za-z0-9_]*$ (no dots; dots separate segments).
func isIdentSegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if !isAlpha(c) && c != '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c = s[i]
		if !isAlpha(c) && !isDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

// looksNumeric reports whether s matches the numeric-literal shape:
// optional sign, digits, optional fraction, optional exponent. Leading-zero
// multi-digit forms like "05" count as numeric for quoting purposes even
// though the scalar grammar would parse them as strings.
func looksNumeric(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == i {
		return false
	}
	i = j
	if i < len(s) && s[i] == '.' {
		i++
		j = i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j = i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ============================================================
// String Quoting
// ============================================================

// encodeString returns the wire form of s, bare when unambiguous under the
// active delimiter and quoted otherwise.
func encodeString(s string, delim byte) string {
	if isBareSafe(s, delim) {
		return s
	}
	return quoteString(s)
}

// encodeKey returns the wire form of a key.
func encodeKey(k string) string {
	if isBareKey(k) {
		return k
	}
	return quoteString(k)
}

// isBareSafe reports whether s can be written without quotes under delim.
func isBareSafe(s string, delim byte) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return false
	}
	switch s {
	case "true", "false", "null":
		return false
	}
	if looksNumeric(s) {
		return false
	}
	if s[0] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':', '"', '\\', '[', ']', '{', '}', '\n', '\r', '\t':
			return false
		}
		if s[i] == delim {
			return false
		}
	}
	return true
}

// quoteString wraps s in double quotes, backslash-escaping the five escape
// characters. All other bytes pass through verbatim, non-ASCII included.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

// errBadEscape reports an escape sequence outside {\\ \" n r t} or a
// trailing unescaped backslash.
var errBadEscape = errors.New("invalid escape sequence")

// unescape reverses quoteString's escaping for the content between quotes.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errBadEscape
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", errBadEscape
		}
	}
	return b.String(), nil
}

// isQuoted reports whether s is a complete double-quoted token.
func isQuoted(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	// The closing quote must not be escaped.
	backslashes := 0
	for i := len(s) - 2; i >= 1 && s[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}
