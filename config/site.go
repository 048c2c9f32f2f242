package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/javaevolved/sitegen/langmeta"
	"github.com/javaevolved/sitegen/propfile"
)

// Category is a content category with its display name.
type Category struct {
	Key     string
	Display string
}

// Locale is a site locale with the name shown in the locale picker.
type Locale struct {
	Code string
	Name string
}

// Site is the resolved configuration for one build. It is created once and
// passed down explicitly; nothing in it changes during a build.
type Site struct {
	// Root is the absolute project root.
	Root string

	BaseURL    string
	SiteName   string
	BaseLocale string

	// Absolute directories.
	ContentDir      string
	TemplatesDir    string
	TranslationsDir string
	OutputDir       string
	ProofDir        string

	ProofExt  string
	ProofURL  string
	IssuesURL string

	// ManifestPath is the absolute path of the build manifest.
	ManifestPath string

	// CategoriesFile and LocalesFile are the absolute properties file paths.
	CategoriesFile string
	LocalesFile    string

	// Categories and Locales keep the order of their properties files.
	Categories []Category
	Locales    []Locale
}

// Load builds a Site for the project at rootDir.
func Load(rootDir string) (*Site, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	sf, err := LoadSiteFile(absRoot)
	if err != nil {
		return nil, err
	}
	if err := sf.ApplyEnv(); err != nil {
		return nil, err
	}
	return FromFile(absRoot, sf)
}

// FromFile resolves sf against absRoot and reads the category and locale
// lists.
func FromFile(absRoot string, sf *SiteFile) (*Site, error) {
	if err := sf.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}

	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(absRoot, p)
	}

	s := &Site{
		Root:            absRoot,
		BaseURL:         strings.TrimRight(sf.BaseURL, "/"),
		SiteName:        sf.SiteName,
		BaseLocale:      sf.BaseLocale,
		ContentDir:      abs(sf.ContentDir),
		TemplatesDir:    abs(sf.TemplatesDir),
		TranslationsDir: abs(sf.TranslationsDir),
		OutputDir:       abs(sf.OutputDir),
		ProofDir:        abs(sf.ProofDir),
		ProofExt:        sf.ProofExt,
		ProofURL:        strings.TrimRight(sf.ProofURL, "/"),
		IssuesURL:       sf.IssuesURL,
		ManifestPath:    abs(sf.Manifest),
		CategoriesFile:  abs(sf.CategoriesFile),
		LocalesFile:     abs(sf.LocalesFile),
	}

	cats, err := propfile.ParseFile(s.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	if cats.Len() == 0 {
		return nil, fmt.Errorf("%s: no categories defined", sf.CategoriesFile)
	}
	for _, p := range cats.Pairs() {
		s.Categories = append(s.Categories, Category{Key: p.Key, Display: p.Value})
	}

	locs, err := propfile.ParseFile(s.LocalesFile)
	if err != nil {
		return nil, fmt.Errorf("loading locales: %w", err)
	}
	for _, p := range locs.Pairs() {
		if err := ValidateLocale(p.Key); err != nil {
			return nil, fmt.Errorf("%s: %w", sf.LocalesFile, err)
		}
		s.Locales = append(s.Locales, Locale{Code: p.Key, Name: p.Value})
	}
	if !s.HasLocale(s.BaseLocale) {
		return nil, fmt.Errorf("base locale %q is not listed in %s", s.BaseLocale, sf.LocalesFile)
	}

	return s, nil
}

// ValidateLocale checks that code is a well-formed BCP 47 tag.
func ValidateLocale(code string) error {
	if _, err := language.Parse(code); err != nil {
		return fmt.Errorf("invalid locale code %q: %w", code, err)
	}
	return nil
}

// CategoryKeys returns the category keys in configured order.
func (s *Site) CategoryKeys() []string {
	keys := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		keys[i] = c.Key
	}
	return keys
}

// CategoryDisplay returns the display name of a category, or the key itself
// when it is not configured.
func (s *Site) CategoryDisplay(key string) string {
	for _, c := range s.Categories {
		if c.Key == key {
			return c.Display
		}
	}
	return key
}

// LocaleCodes returns the locale codes in configured order.
func (s *Site) LocaleCodes() []string {
	codes := make([]string, len(s.Locales))
	for i, l := range s.Locales {
		codes[i] = l.Code
	}
	return codes
}

// HasLocale reports whether code is a configured locale.
func (s *Site) HasLocale(code string) bool {
	for _, l := range s.Locales {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LocaleName returns the configured display name for code. Unconfigured
// codes fall back to the native language name, then to the code.
func (s *Site) LocaleName(code string) string {
	for _, l := range s.Locales {
		if l.Code == code {
			return l.Name
		}
	}
	return langmeta.Resolve(code).Name
}

// IsBase reports whether locale is the base locale.
func (s *Site) IsBase(locale string) bool {
	return locale == s.BaseLocale
}

// LocalePrefix is the root-relative URL prefix for locale: "" for the base
// locale, "/<locale>" otherwise.
func (s *Site) LocalePrefix(locale string) string {
	if s.IsBase(locale) {
		return ""
	}
	return "/" + locale
}

// LocaleOutputDir is the directory a locale's files are written to.
func (s *Site) LocaleOutputDir(locale string) string {
	if s.IsBase(locale) {
		return s.OutputDir
	}
	return filepath.Join(s.OutputDir, locale)
}

// StringsDir is the directory holding the UI string resources.
func (s *Site) StringsDir() string {
	return filepath.Join(s.TranslationsDir, "strings")
}

// ContentTranslationsDir is the directory holding content overrides for
// locale.
func (s *Site) ContentTranslationsDir(locale string) string {
	return filepath.Join(s.TranslationsDir, "content", locale)
}
