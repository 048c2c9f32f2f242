package translation

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javaevolved/sitegen/config"
	"github.com/javaevolved/sitegen/content"
)

func baseRecord() *content.Record {
	return &content.Record{
		Slug:        "text-blocks",
		Title:       "Text Blocks",
		Category:    "strings",
		Difficulty:  "beginner",
		JDKVersion:  "15",
		OldLabel:    "Java 8",
		ModernLabel: "Java 15+",
		OldCode:     `String s = "a\n" + "b";`,
		ModernCode:  `String s = """` + "\n  a\n  b\"\"\";",
		Summary:     "Multi-line strings without concatenation.",
		Explanation: "Text blocks keep indentation.",
		WhyModernWins: []content.WhyItem{
			{Icon: "📖", Title: "Readable", Desc: "No escapes."},
		},
		Support:        content.Support{State: "available", Description: "Since JDK 15"},
		Prev:           "strings/string-repeat",
		Next:           "strings/string-lines",
		Related:        []string{"strings/string-lines"},
		Docs:           []content.DocLink{{Title: "JEP 378", Href: "https://openjdk.org/jeps/378"}},
		OldApproach:    "Concatenation",
		ModernApproach: "Text block",
	}
}

func newResolver(t *testing.T) (*Resolver, *config.Site, *bytes.Buffer) {
	t.Helper()
	site := &config.Site{BaseLocale: "en", TranslationsDir: t.TempDir()}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewResolver(site, logger), site, &buf
}

func writeTranslation(t *testing.T, site *config.Site, locale, name, data string) {
	t.Helper()
	dir := filepath.Join(site.ContentTranslationsDir(locale), "strings")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
}

func TestResolve_BaseLocaleReturnsSameRecord(t *testing.T) {
	r, site, _ := newResolver(t)
	writeTranslation(t, site, "en", "text-blocks.json", `{"title": "ignored"}`)

	rec := baseRecord()
	assert.Same(t, rec, r.Resolve(rec, "en"))
}

func TestResolve_MissingTranslation(t *testing.T) {
	r, _, logs := newResolver(t)

	rec := baseRecord()
	got := r.Resolve(rec, "de")
	assert.Same(t, rec, got)
	assert.Empty(t, logs.String())
}

func TestResolve_OverlaysTranslatableFields(t *testing.T) {
	r, site, _ := newResolver(t)
	writeTranslation(t, site, "de", "text-blocks.yaml", `title: Textblöcke
summary: Mehrzeilige Strings.
slug: renamed
category: other
difficulty: advanced
jdkVersion: 99
related: [other/thing]
whyModernWins:
  - icon: "📖"
    title: Lesbar
    desc: Keine Escapes.
support:
  state: preview
  description: Seit JDK 15
`)

	rec := baseRecord()
	want := baseRecord()
	got := r.Resolve(rec, "de")

	require.NotSame(t, rec, got)
	assert.Equal(t, want, rec, "base record must not change")

	want.Title = "Textblöcke"
	want.Summary = "Mehrzeilige Strings."
	want.WhyModernWins = []content.WhyItem{{Icon: "📖", Title: "Lesbar", Desc: "Keine Escapes."}}
	want.Support.Description = "Seit JDK 15"
	assert.Equal(t, want, got)
}

func TestResolve_SupportOnlyDescription(t *testing.T) {
	r, site, _ := newResolver(t)
	writeTranslation(t, site, "fr", "text-blocks.json", `{"support": {"state": "experimental"}}`)

	rec := baseRecord()
	got := r.Resolve(rec, "fr")
	assert.Equal(t, rec, got)
	assert.Equal(t, "available", got.Support.State)
}

func TestResolve_MalformedFallsBack(t *testing.T) {
	r, site, logs := newResolver(t)
	writeTranslation(t, site, "de", "text-blocks.json", `{"title": `)

	rec := baseRecord()
	got := r.Resolve(rec, "de")
	assert.Same(t, rec, got)
	assert.Contains(t, logs.String(), "Failed to load translation")
	assert.Contains(t, logs.String(), "locale=de")
}

func TestResolve_CloneIsDeep(t *testing.T) {
	r, site, _ := newResolver(t)
	writeTranslation(t, site, "de", "text-blocks.json", `{"title": "Textblöcke"}`)

	rec := baseRecord()
	got := r.Resolve(rec, "de")
	got.Related[0] = "changed"
	got.WhyModernWins[0].Title = "changed"
	assert.Equal(t, "strings/string-lines", rec.Related[0])
	assert.Equal(t, "Readable", rec.WhyModernWins[0].Title)
}

func TestTranslationPath(t *testing.T) {
	r, site, _ := newResolver(t)
	writeTranslation(t, site, "de", "text-blocks.yml", "title: x\n")

	rec := baseRecord()
	assert.Equal(t, filepath.Join(site.ContentTranslationsDir("de"), "strings", "text-blocks.yml"), r.TranslationPath(rec, "de"))
	assert.Empty(t, r.TranslationPath(rec, "fr"))
}
