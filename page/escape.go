package page

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const hexDigits = "0123456789abcdef"

// EscapeHTML escapes text for HTML content and quoted attribute values.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// EscapeJSON escapes s for use inside a JSON string literal, without the
// surrounding quotes. The result is pure ASCII: every non-ASCII character is
// written as \uXXXX, with a surrogate pair above U+FFFF.
func EscapeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r > 0x7f && r <= 0xffff):
				writeUnicodeEscape(&b, r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(&b, hi)
				writeUnicodeEscape(&b, lo)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[r>>12&0xf])
	b.WriteByte(hexDigits[r>>8&0xf])
	b.WriteByte(hexDigits[r>>4&0xf])
	b.WriteByte(hexDigits[r&0xf])
}

var jsReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// EscapeJS escapes s for use inside a double-quoted JavaScript string.
func EscapeJS(s string) string {
	return jsReplacer.Replace(s)
}

// EncodeURIComponent percent-encodes every byte of s except the RFC 3986
// unreserved characters (ALPHA, DIGIT, "-", ".", "_", "~").
func EncodeURIComponent(s string) string {
	const upperHex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0xf])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '-' || c == '.' || c == '_' || c == '~'
}

// PascalCase turns a hyphenated slug into its capitalised-word form:
// "type-inference-with-var" becomes "TypeInferenceWithVar". Only the first
// rune of each word is upper-cased and the rest is lower-cased, so
// "2d-graphics" becomes "2dGraphics".
func PascalCase(slug string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	var b strings.Builder
	for _, word := range strings.Split(slug, "-") {
		if word == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(word)
		b.WriteString(upper.String(word[:size]))
		b.WriteString(lower.String(word[size:]))
	}
	return b.String()
}

// stripLeadingNonLetters drops flag emoji and other decoration in front of
// a locale name.
func stripLeadingNonLetters(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
}
