// Package catalog loads the UI strings for each locale.
//
// Strings live in translations/strings/<locale>.{json,yaml,yml,properties}.
// Nested resources are flattened to dotted keys ("nav.home"). The base
// locale's resource defines the key set; every other locale is merged on top
// of it, so a Catalog always holds every base key.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/javaevolved/sitegen/config"
	"github.com/javaevolved/sitegen/docfile"
	"github.com/javaevolved/sitegen/logfields"
)

// ErrBaseMissing is returned when the base locale has no string resource.
var ErrBaseMissing = errors.New("base string catalog not found")

// Extensions lists the string resource extensions in lookup order.
var Extensions = append(append([]string(nil), docfile.Extensions...), ".properties")

// Catalog is the key-complete set of UI strings for one locale.
type Catalog struct {
	Locale string
	// Path is the locale's own resource file, "" when it has none.
	Path string

	entries []Entry
	index   map[string]int
	missing []string
}

func newCatalog(locale string, entries []Entry) *Catalog {
	c := &Catalog{Locale: locale, index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := c.index[e.Key]; ok {
			c.entries[i].Value = e.Value
			continue
		}
		c.index[e.Key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Get returns the string for key.
func (c *Catalog) Get(key string) (string, bool) {
	if i, ok := c.index[key]; ok {
		return c.entries[i].Value, true
	}
	return "", false
}

// Lookup returns the string for key, or def when the key is unknown.
func (c *Catalog) Lookup(key, def string) string {
	if v, ok := c.Get(key); ok {
		return v
	}
	return def
}

// Keys returns all keys in base document order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of all entries in base document order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of keys.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Missing returns the base keys the locale does not translate, in base
// order. It is empty for the base locale.
func (c *Catalog) Missing() []string {
	return append([]string(nil), c.missing...)
}

// Tokens returns the catalog as a fresh token map.
func (c *Catalog) Tokens() map[string]string {
	m := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		m[e.Key] = e.Value
	}
	return m
}

// Loader reads catalogs from a strings directory.
type Loader struct {
	dir        string
	baseLocale string
	logger     *slog.Logger
}

// NewLoader returns a Loader for site. A nil logger discards warnings.
func NewLoader(site *config.Site, logger *slog.Logger) *Loader {
	return &Loader{
		dir:        site.StringsDir(),
		baseLocale: site.BaseLocale,
		logger:     logfields.Discard(logger),
	}
}

// Find returns the string resource for locale in dir, or "".
func Find(dir, locale string) string {
	for _, ext := range Extensions {
		p := filepath.Join(dir, locale+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load returns the catalog for locale. A missing base resource is fatal. A
// missing locale resource yields a copy of the base catalog with every key
// reported missing. Keys the locale resource has but the base does not are
// ignored, and an empty locale value counts as untranslated.
func (l *Loader) Load(locale string) (*Catalog, error) {
	basePath := Find(l.dir, l.baseLocale)
	if basePath == "" {
		return nil, fmt.Errorf("%w: %s/%s.*", ErrBaseMissing, l.dir, l.baseLocale)
	}
	baseEntries, err := ReadFile(basePath)
	if err != nil {
		return nil, err
	}

	c := newCatalog(locale, baseEntries)
	if locale == l.baseLocale {
		c.Path = basePath
		return c, nil
	}

	localePath := Find(l.dir, locale)
	if localePath == "" {
		l.logger.Warn("String catalog not found, using base strings",
			logfields.Locale(locale),
			slog.String("base", l.baseLocale))
		c.missing = c.Keys()
		return c, nil
	}

	localeEntries, err := ReadFile(localePath)
	if err != nil {
		return nil, err
	}
	c.Path = localePath

	translated := make(map[string]string, len(localeEntries))
	for _, e := range localeEntries {
		translated[e.Key] = e.Value
	}

	file := filepath.Base(localePath)
	for i := range c.entries {
		key := c.entries[i].Key
		if v, ok := translated[key]; ok && v != "" {
			c.entries[i].Value = v
			continue
		}
		c.missing = append(c.missing, key)
		l.logger.Warn("Missing string, using base fallback",
			logfields.File(file),
			logfields.Key(key),
			logfields.Locale(locale))
	}

	return c, nil
}
