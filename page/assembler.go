// Package page assembles detail and index pages from templates.
//
// All page data is gathered into one flat token map and rendered against
// the page template in a single render.Render call. Sub-templates (why
// cards, doc links, related cards, share buttons, index cards) are rendered
// first and passed in as tokens. Free-text record fields are HTML-escaped;
// structural fields such as category, slug and version are passed raw.
package page

import (
	"strconv"
	"strings"

	"github.com/javaevolved/sitegen/catalog"
	"github.com/javaevolved/sitegen/config"
	"github.com/javaevolved/sitegen/content"
	"github.com/javaevolved/sitegen/langmeta"
	"github.com/javaevolved/sitegen/render"
)

// Context is the per-locale input shared by every page of a build.
type Context struct {
	Locale string
	// Strings is the locale's UI catalog.
	Strings *catalog.Catalog
	// Records is the locale-resolved record index, used for related cards.
	Records *content.Index
}

func (c *Context) str(key, def string) string {
	if c.Strings == nil {
		return def
	}
	return c.Strings.Lookup(key, def)
}

func (c *Context) difficultyDisplay(level string) string {
	return c.str("difficulty."+level, level)
}

// Assembler renders pages for one site.
type Assembler struct {
	Site      *config.Site
	Templates *Templates
}

// New returns an Assembler.
func New(site *config.Site, templates *Templates) *Assembler {
	return &Assembler{Site: site, Templates: templates}
}

// localeTokens are the strings plus the locale chrome shared by detail and
// index pages.
func (a *Assembler) localeTokens(ctx *Context) render.Tokens {
	var tokens render.Tokens
	if ctx.Strings != nil {
		tokens = ctx.Strings.Tokens()
	} else {
		tokens = render.Tokens{}
	}

	homeURL := "/"
	if !a.Site.IsBase(ctx.Locale) {
		homeURL = "/" + ctx.Locale + "/"
	}

	tokens["locale"] = ctx.Locale
	tokens["htmlDir"] = langmeta.Resolve(ctx.Locale).Dir()
	tokens["ogLocale"] = strings.ReplaceAll(ctx.Locale, "-", "_")
	tokens["homeUrl"] = homeURL
	tokens["localePicker"] = a.localePicker(ctx.Locale)
	tokens["i18nScript"] = a.i18nScript(ctx)
	return tokens
}

// PageTokens returns the complete token map for rec's detail page.
func (a *Assembler) PageTokens(ctx *Context, rec *content.Record) render.Tokens {
	tokens := a.localeTokens(ctx)

	basePrefix := "../"
	if !a.Site.IsBase(ctx.Locale) {
		basePrefix = "../../"
	}
	tokens["basePrefix"] = basePrefix
	tokens["hreflangLinks"] = a.hreflangLinks(rec.Category + "/" + rec.Slug + ".html")

	catDisplay := a.Site.CategoryDisplay(rec.Category)
	for k, v := range map[string]string{
		"title":               EscapeHTML(rec.Title),
		"summary":             EscapeHTML(rec.Summary),
		"slug":                rec.Slug,
		"category":            rec.Category,
		"categoryDisplay":     catDisplay,
		"difficulty":          rec.Difficulty,
		"difficultyDisplay":   ctx.difficultyDisplay(rec.Difficulty),
		"jdkVersion":          string(rec.JDKVersion),
		"oldLabel":            EscapeHTML(rec.OldLabel),
		"modernLabel":         EscapeHTML(rec.ModernLabel),
		"oldCode":             EscapeHTML(rec.OldCode),
		"modernCode":          EscapeHTML(rec.ModernCode),
		"oldApproach":         EscapeHTML(rec.OldApproach),
		"modernApproach":      EscapeHTML(rec.ModernApproach),
		"explanation":         EscapeHTML(rec.Explanation),
		"supportDescription":  EscapeHTML(rec.Support.Description),
		"supportBadge":        supportBadge(ctx, rec.Support.State),
		"supportBadgeClass":   supportBadgeClass(rec.Support.State),
		"canonicalUrl":        a.canonicalURL(ctx.Locale, rec),
		"flatUrl":             a.flatURL(rec),
		"titleJson":           EscapeJSON(rec.Title),
		"summaryJson":         EscapeJSON(rec.Summary),
		"categoryDisplayJson": EscapeJSON(catDisplay),
		"navArrows":           a.navArrows(ctx, rec),
		"whyCards":            a.whyCards(rec),
		"docLinks":            a.docLinks(rec),
		"proofSection":        a.proofSection(ctx, rec),
		"relatedCards":        a.relatedCards(ctx, rec),
		"socialShare":         a.socialShare(ctx, rec),
	} {
		tokens[k] = v
	}
	for k, v := range a.contributeURLs(ctx, rec) {
		tokens[k] = v
	}
	return tokens
}

// Page renders rec's detail page. rec should already be resolved for
// ctx.Locale.
func (a *Assembler) Page(ctx *Context, rec *content.Record) string {
	return render.Render(a.Templates.Page, a.PageTokens(ctx, rec))
}

// IndexTokens returns the token map for the locale's index page.
func (a *Assembler) IndexTokens(ctx *Context, recs []*content.Record) render.Tokens {
	tokens := a.localeTokens(ctx)

	cards := make([]string, len(recs))
	for i, rec := range recs {
		cards[i] = a.indexCard(ctx, rec)
	}

	canonical := a.Site.BaseURL
	indexBasePrefix := ""
	if !a.Site.IsBase(ctx.Locale) {
		canonical += "/" + ctx.Locale
		indexBasePrefix = "../"
	}

	tokens["tipCards"] = strings.Join(cards, "\n")
	tokens["snippetCount"] = strconv.Itoa(len(recs))
	tokens["canonicalUrl"] = canonical
	tokens["indexBasePrefix"] = indexBasePrefix
	tokens["hreflangLinks"] = a.hreflangLinks("")
	return tokens
}

// Index renders the listing page for recs, in the order given.
func (a *Assembler) Index(ctx *Context, recs []*content.Record) string {
	return render.Render(a.Templates.Index, a.IndexTokens(ctx, recs))
}
