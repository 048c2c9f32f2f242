// Package render substitutes {{token}} placeholders in template text.
//
// A placeholder is "{{" name "}}" where name is made of word characters and
// dots, e.g. {{title}} or {{nav.home}}. Substituted values may themselves
// contain placeholders; those are resolved by a later pass, up to MaxPasses.
// Placeholders without a value are left as they are. No escaping is done
// here; callers escape values for their target context.
package render

import "regexp"

// MaxPasses bounds the number of substitution passes.
const MaxPasses = 3

// Tokens maps placeholder names to replacement text.
type Tokens map[string]string

var tokenRE = regexp.MustCompile(`\{\{([\w.]+)\}\}`)

// Render replaces placeholders in tmpl with values from tokens. It stops
// after a pass that substitutes nothing, or after MaxPasses passes.
func Render(tmpl string, tokens Tokens) string {
	out := tmpl
	for pass := 0; pass < MaxPasses; pass++ {
		found := false
		out = tokenRE.ReplaceAllStringFunc(out, func(m string) string {
			name := m[2 : len(m)-2]
			if v, ok := tokens[name]; ok {
				found = true
				return v
			}
			return m
		})
		if !found {
			break
		}
	}
	return out
}

// Placeholders lists the distinct placeholder names left in text, in order
// of first appearance.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range tokenRE.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Merge returns a new Tokens holding every entry of the given maps; later
// maps win.
func Merge(maps ...map[string]string) Tokens {
	n := 0
	for _, m := range maps {
		n += len(m)
	}
	out := make(Tokens, n)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
