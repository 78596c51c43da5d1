package toon

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	numericRegex    = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	integerRegex    = regexp.MustCompile(`^-?\d+$`)
	identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
)

// literalKind returns the kind a bare token would be read back as. Anything
// that is not a null, bool, number, date or date-time literal reads as text.
func literalKind(s string) Kind {
	switch s {
	case "null":
		return KindNull
	case "true", "false":
		return KindBool
	}

	if numericRegex.MatchString(s) {
		if integerRegex.MatchString(s) {
			return KindInt
		}
		return KindFloat
	}

	// Dates and date-times always start with a four digit year
	if len(s) >= 10 && s[4] == '-' && isDigit(s[0]) {
		if _, err := time.Parse(time.DateOnly, s); err == nil {
			return KindDate
		}
		if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return KindDateTime
		}
	}
	return KindText
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isControl(r rune) bool { return r < 0x20 || r == 0x7f }

// needsQuoting reports whether s must be written in quoted form to be read
// back as the same text. The delimiter is the active row/list separator.
func (e *encoder) needsQuoting(s string) bool {
	if len(s) == 0 || !utf8.ValidString(s) {
		return true
	}

	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return true
	}

	// Structural prefixes: headers, inline lists and list items
	switch s[0] {
	case '[', '{':
		return true
	}
	if s == "-" || strings.HasPrefix(s, "- ") {
		return true
	}

	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") {
		return true
	}
	if e.delimiter != "," && strings.Contains(s, e.delimiter) {
		return true
	}

	for _, c := range s {
		switch c {
		case ',', '"', '\\':
			return true
		}
		if isControl(c) {
			return true
		}
	}

	return literalKind(s) != KindText
}

// quoteString writes s to b wrapped in double quotes with escapes applied.
// Bytes that are not part of valid UTF-8 are written as \xNN so the output
// stays valid UTF-8 without losing them.
func quoteString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		if c == utf8.RuneError && size == 1 {
			fmt.Fprintf(b, `\x%02x`, s[i])
			i++
			continue
		}
		i += size

		switch c {
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
			if isControl(c) {
				fmt.Fprintf(b, `\u%04x`, c)
			} else {
				b.WriteRune(c)
			}
		}
	}
	b.WriteByte('"')
}

func (e *encoder) encodeString(s string) string {
	if !e.needsQuoting(s) {
		return s
	}
	e.escapeBuffer.Reset()
	quoteString(&e.escapeBuffer, s)
	return e.escapeBuffer.String()
}

// encodeKey renders a field name. Identifiers that do not collide with a
// literal or contain the delimiter stay bare, everything else is quoted.
func (e *encoder) encodeKey(key string) string {
	if identifierRegex.MatchString(key) && literalKind(key) == KindText &&
		!strings.Contains(key, e.delimiter) {
		return key
	}
	e.escapeBuffer.Reset()
	quoteString(&e.escapeBuffer, key)
	return e.escapeBuffer.String()
}

// formatFloat renders f in its shortest round-trip form. Exponent notation is
// only used outside [1e-6, 1e21). Integral values keep a ".0" so they do not
// read back as integers.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0.0"
	}

	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatScalar renders a scalar node. ok is false for records and sequences.
func (e *encoder) formatScalar(n Node) (s string, ok bool) {
	switch v := n.(type) {
	case Null:
		return "null", true
	case Bool:
		return strconv.FormatBool(bool(v)), true
	case Int:
		return strconv.FormatInt(int64(v), 10), true
	case Float:
		return formatFloat(float64(v)), true
	case Decimal:
		return v.String(), true
	case Text:
		return e.encodeString(string(v)), true
	case Date:
		return v.String(), true
	case DateTime:
		return v.String(), true
	}
	return "", false
}
