// Package site drives a full build: for each locale it loads the UI strings,
// resolves every record, and writes the detail pages, the search index and
// the index page.
//
// Output layout under the output directory (non-base locales are nested
// under their code):
//
//	[<locale>/]<category>/<slug>.html
//	[<locale>/]data/snippets.json
//	[<locale>/]index.html
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/javaevolved/sitegen/catalog"
	"github.com/javaevolved/sitegen/config"
	"github.com/javaevolved/sitegen/content"
	"github.com/javaevolved/sitegen/lockfile"
	"github.com/javaevolved/sitegen/logfields"
	"github.com/javaevolved/sitegen/page"
	"github.com/javaevolved/sitegen/translation"
)

// SearchIndexFile is the search index path inside a locale's output.
var SearchIndexFile = filepath.Join("data", "snippets.json")

// Result summarises one locale build.
type Result struct {
	Locale string
	// Pages is the number of detail pages written.
	Pages int
	// Translated counts records that have a translation file.
	Translated int
	// Files lists every written file relative to the output directory.
	Files []string
	// MissingStrings lists base string keys the locale does not translate.
	MissingStrings []string

	// Added, Modified and Unchanged are only counted with a manifest.
	Added     int
	Modified  int
	Unchanged int
	// Stale lists outputs of a previous build that this build no longer
	// produces. They are reported, not deleted.
	Stale []string
}

// Options configures a Builder.
type Options struct {
	Logger *slog.Logger
	// Manifest, when set, records a checksum for every written file.
	Manifest *lockfile.LockFile
}

// Builder builds the site for one loaded content set.
type Builder struct {
	site      *config.Site
	records   *content.Index
	assembler *page.Assembler
	resolver  *translation.Resolver
	strings   *catalog.Loader
	manifest  *lockfile.LockFile
	logger    *slog.Logger
}

// New returns a Builder over already loaded records and templates.
func New(site *config.Site, records *content.Index, templates *page.Templates, opts Options) *Builder {
	logger := logfields.Discard(opts.Logger)
	return &Builder{
		site:      site,
		records:   records,
		assembler: page.New(site, templates),
		resolver:  translation.NewResolver(site, logger),
		strings:   catalog.NewLoader(site, logger),
		manifest:  opts.Manifest,
		logger:    logger,
	}
}

// Open loads templates and content for site and returns a Builder. Missing
// templates and invalid content are fatal.
func Open(site *config.Site, opts Options) (*Builder, error) {
	templates, err := page.LoadTemplates(site.TemplatesDir)
	if err != nil {
		return nil, err
	}
	records, err := content.Load(site.ContentDir, site.CategoryKeys())
	if err != nil {
		return nil, err
	}
	return New(site, records, templates, opts), nil
}

// Records returns the base record index.
func (b *Builder) Records() *content.Index {
	return b.records
}

// Resolver returns the translation resolver used by the builder.
func (b *Builder) Resolver() *translation.Resolver {
	return b.resolver
}

// BuildAll builds every configured locale in order and stops at the first
// failure.
func (b *Builder) BuildAll() ([]*Result, error) {
	var results []*Result
	for _, locale := range b.site.LocaleCodes() {
		res, err := b.Build(locale)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Build writes every output for locale. Existing files are overwritten.
func (b *Builder) Build(locale string) (*Result, error) {
	if !b.site.HasLocale(locale) {
		return nil, fmt.Errorf("unknown locale %q (configured: %s)", locale, strings.Join(b.site.LocaleCodes(), ", "))
	}

	log := b.logger.With(logfields.Locale(locale))
	log.Info("Building locale", slog.String("name", b.site.LocaleName(locale)))

	strs, err := b.strings.Load(locale)
	if err != nil {
		return nil, err
	}

	res := &Result{Locale: locale, MissingStrings: strs.Missing()}

	// Resolve once; pages, related cards, search index and index cards all
	// see the same locale view.
	resolved := content.NewIndex()
	for _, rec := range b.records.All() {
		r := b.resolver.Resolve(rec, locale)
		if r != rec {
			res.Translated++
		}
		if err := resolved.Add(r); err != nil {
			return nil, err
		}
	}

	ctx := &page.Context{Locale: locale, Strings: strs, Records: resolved}
	outDir := b.site.LocaleOutputDir(locale)

	for _, rec := range resolved.All() {
		html := strings.TrimSpace(b.assembler.Page(ctx, rec))
		path := filepath.Join(outDir, rec.Category, rec.Slug+".html")
		if err := b.write(res, path, []byte(html)); err != nil {
			return nil, err
		}
		res.Pages++
	}
	log.Info("Generated pages", logfields.Count(res.Pages))

	data, err := searchIndex(resolved.All())
	if err != nil {
		return nil, err
	}
	if err := b.write(res, filepath.Join(outDir, SearchIndexFile), data); err != nil {
		return nil, err
	}
	log.Info("Rebuilt search index", logfields.Count(resolved.Len()))

	index := b.assembler.Index(ctx, resolved.All())
	if err := b.write(res, filepath.Join(outDir, "index.html"), []byte(index)); err != nil {
		return nil, err
	}

	if b.manifest != nil {
		res.Stale = b.manifest.Clean(locale, res.Files)
		for _, p := range res.Stale {
			log.Warn("Output no longer produced", logfields.Path(p))
		}
	}

	return res, nil
}

// searchIndex encodes the search entries: two-space indent, no HTML
// escaping, trailing newline.
func searchIndex(recs []*content.Record) ([]byte, error) {
	entries := make([]content.SearchEntry, len(recs))
	for i, rec := range recs {
		entries[i] = rec.SearchEntry()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encoding search index: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) write(res *Result, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	rel, err := filepath.Rel(b.site.OutputDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	res.Files = append(res.Files, rel)

	if b.manifest != nil {
		switch b.manifest.Record(res.Locale, rel, data) {
		case lockfile.Added:
			res.Added++
		case lockfile.Modified:
			res.Modified++
		default:
			res.Unchanged++
		}
	}
	return nil
}
