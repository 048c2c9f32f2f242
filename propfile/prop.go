// Package propfile implements reading of Java .properties files.
//
// Format: key=value pairs, one per line. Lines starting with '#' or '!' are
// comments. Blank lines are ignored. Multi-line values (backslash
// continuation) are not supported; each line is treated independently.
//
// The site uses .properties files for ordered registries such as
//
//	html-generators/categories.properties  (category key -> display name)
//	html-generators/locales.properties     (locale code -> native name)
//
// and, optionally, for flat UI string resources
// (translations/strings/<locale>.properties). Document order is significant
// for registries, so File keeps keys in the order they first appear.
package propfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// Pair is a single key=value entry.
type Pair struct {
	Key   string
	Value string
}

// File represents a parsed .properties file.
type File struct {
	// pairs stores entries in document order.
	pairs []Pair
	// index maps key → index in pairs for fast lookup.
	index map[string]int
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a .properties file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse parses .properties content from a byte slice.
func Parse(data []byte) (*File, error) {
	f := &File{index: make(map[string]int)}

	text := string(data)
	// Normalise Windows line endings.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimPrefix(text, "\uFEFF")

	for n, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
			continue
		}

		k, v := splitKeyValue(trimmed)
		if k == "" {
			// Malformed line such as "=value".
			continue
		}
		v, err := unescape(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		if idx, exists := f.index[k]; exists {
			// Duplicate key: last value wins, first position is kept.
			f.pairs[idx].Value = v
			continue
		}
		f.index[k] = len(f.pairs)
		f.pairs = append(f.pairs, Pair{Key: k, Value: v})
	}

	return f, nil
}

// splitKeyValue splits "key = value" or "key=value" into key and value.
// The separator may be '=' or ':'. Surrounding whitespace is stripped.
func splitKeyValue(s string) (key, value string) {
	for i, ch := range s {
		if ch == '=' || ch == ':' {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		}
	}
	// No separator: the whole line is a key with an empty value.
	return strings.TrimSpace(s), ""
}

// unescape decodes the \uXXXX escapes that Java tooling writes for
// non-ASCII characters. Other backslashes are kept verbatim.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\u`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == 'u' {
			if i+6 > len(s) {
				return "", fmt.Errorf("truncated unicode escape in %q", s)
			}
			r, err := strconv.ParseUint(s[i+2:i+6], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape %q", s[i:i+6])
			}
			b.WriteRune(rune(r))
			i += 5
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Keys returns all keys in document order.
func (f *File) Keys() []string {
	keys := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of all entries in document order.
func (f *File) Pairs() []Pair {
	out := make([]Pair, len(f.pairs))
	copy(out, f.pairs)
	return out
}

// Get returns the value for key and whether it was found.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok {
		return f.pairs[idx].Value, true
	}
	return "", false
}

// Len returns the number of distinct keys.
func (f *File) Len() int {
	return len(f.pairs)
}
