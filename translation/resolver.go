// Package translation overlays per-locale prose onto base content records.
//
// Translations mirror the content tree:
//
//	translations/content/<locale>/<category>/<slug>.{json,yaml,yml}
//
// Only the translatable fields (title, summary, explanation, oldApproach,
// modernApproach, whyModernWins and support.description) are taken from a
// translation file. Everything else always comes from the base record.
package translation

import (
	"log/slog"
	"path/filepath"

	"github.com/javaevolved/sitegen/config"
	"github.com/javaevolved/sitegen/content"
	"github.com/javaevolved/sitegen/docfile"
	"github.com/javaevolved/sitegen/logfields"
)

// overlay holds the translatable fields of a translation file. Nil means the
// field is absent.
type overlay struct {
	Title          *string            `json:"title" yaml:"title"`
	Summary        *string            `json:"summary" yaml:"summary"`
	Explanation    *string            `json:"explanation" yaml:"explanation"`
	OldApproach    *string            `json:"oldApproach" yaml:"oldApproach"`
	ModernApproach *string            `json:"modernApproach" yaml:"modernApproach"`
	WhyModernWins  *[]content.WhyItem `json:"whyModernWins" yaml:"whyModernWins"`
	Support        *supportOverlay    `json:"support" yaml:"support"`
}

// supportOverlay only carries the prose half of support. A translated state
// is never applied.
type supportOverlay struct {
	Description *string `json:"description" yaml:"description"`
}

// Resolver produces locale-resolved records.
type Resolver struct {
	site   *config.Site
	logger *slog.Logger
}

// NewResolver returns a Resolver for site. A nil logger discards warnings.
func NewResolver(site *config.Site, logger *slog.Logger) *Resolver {
	return &Resolver{site: site, logger: logfields.Discard(logger)}
}

// TranslationPath returns the translation file for rec in locale, or "" if
// there is none.
func (r *Resolver) TranslationPath(rec *content.Record, locale string) string {
	dir := filepath.Join(r.site.ContentTranslationsDir(locale), rec.Category)
	return docfile.Find(dir, rec.Slug)
}

// Resolve returns rec as seen in locale. The base locale, a missing
// translation and an unreadable translation all yield rec itself. Otherwise
// the result is a copy of rec with the translated fields applied; rec is
// never modified.
func (r *Resolver) Resolve(rec *content.Record, locale string) *content.Record {
	if r.site.IsBase(locale) {
		return rec
	}

	path := r.TranslationPath(rec, locale)
	if path == "" {
		return rec
	}

	var ov overlay
	if err := docfile.Decode(path, &ov); err != nil {
		r.logger.Warn("Failed to load translation, using base content",
			logfields.Locale(locale),
			logfields.Path(path),
			logfields.Error(err))
		return rec
	}

	return apply(rec, &ov)
}

func apply(rec *content.Record, ov *overlay) *content.Record {
	out := rec.Clone()

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&out.Title, ov.Title)
	set(&out.Summary, ov.Summary)
	set(&out.Explanation, ov.Explanation)
	set(&out.OldApproach, ov.OldApproach)
	set(&out.ModernApproach, ov.ModernApproach)

	if ov.WhyModernWins != nil {
		out.WhyModernWins = append([]content.WhyItem(nil), (*ov.WhyModernWins)...)
	}
	if ov.Support != nil {
		set(&out.Support.Description, ov.Support.Description)
	}
	return out
}
