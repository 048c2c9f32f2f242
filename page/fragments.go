package page

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/javaevolved/sitegen/content"
	"github.com/javaevolved/sitegen/render"
)

// navArrows renders the previous/next links. A missing prev still renders a
// disabled arrow; a missing next renders nothing.
func (a *Assembler) navArrows(ctx *Context, rec *content.Record) string {
	prefix := a.Site.LocalePrefix(ctx.Locale)

	prev := `<span class="nav-arrow-disabled">←</span>`
	if rec.Prev != "" {
		prev = fmt.Sprintf(`<a href="%s/%s.html" aria-label="Previous pattern">←</a>`, prefix, rec.Prev)
	}
	next := ""
	if rec.Next != "" {
		next = fmt.Sprintf(`<a href="%s/%s.html" aria-label="Next pattern">→</a>`, prefix, rec.Next)
	}
	return prev + "\n          " + next
}

func (a *Assembler) whyCards(rec *content.Record) string {
	cards := make([]string, 0, len(rec.WhyModernWins))
	for _, w := range rec.WhyModernWins {
		cards = append(cards, render.Render(a.Templates.WhyCard, render.Tokens{
			"icon":  w.Icon,
			"title": EscapeHTML(w.Title),
			"desc":  EscapeHTML(w.Desc),
		}))
	}
	return strings.Join(cards, "\n")
}

func (a *Assembler) docLinks(rec *content.Record) string {
	links := make([]string, 0, len(rec.Docs))
	for _, d := range rec.Docs {
		links = append(links, render.Render(a.Templates.DocLink, render.Tokens{
			"docTitle": EscapeHTML(d.Title),
			"docHref":  d.Href,
		}))
	}
	return strings.Join(links, "\n")
}

// recordHref is the root-relative URL of rec's page in locale.
func (a *Assembler) recordHref(locale string, rec *content.Record) string {
	return fmt.Sprintf("%s/%s/%s.html", a.Site.LocalePrefix(locale), rec.Category, rec.Slug)
}

func (a *Assembler) relatedCard(ctx *Context, rel *content.Record) string {
	return render.Render(a.Templates.RelatedCard, render.Tokens{
		"category":               rel.Category,
		"slug":                   rel.Slug,
		"catDisplay":             a.Site.CategoryDisplay(rel.Category),
		"difficulty":             rel.Difficulty,
		"difficultyDisplay":      ctx.difficultyDisplay(rel.Difficulty),
		"title":                  EscapeHTML(rel.Title),
		"oldLabel":               EscapeHTML(rel.OldLabel),
		"oldCode":                EscapeHTML(rel.OldCode),
		"modernLabel":            EscapeHTML(rel.ModernLabel),
		"modernCode":             EscapeHTML(rel.ModernCode),
		"jdkVersion":             string(rel.JDKVersion),
		"relatedHref":            a.recordHref(ctx.Locale, rel),
		"cards.hoverHintRelated": ctx.str("cards.hoverHintRelated", "Hover to see modern ➜"),
	})
}

// relatedCards renders one card per related key found in the locale index.
// Unknown keys are skipped.
func (a *Assembler) relatedCards(ctx *Context, rec *content.Record) string {
	if ctx.Records == nil {
		return ""
	}
	var cards []string
	for _, key := range rec.Related {
		rel, ok := ctx.Records.Get(key)
		if !ok {
			continue
		}
		cards = append(cards, a.relatedCard(ctx, rel))
	}
	return strings.Join(cards, "\n")
}

// ProofFile returns the proof source for rec, or "" when there is none.
func (a *Assembler) ProofFile(rec *content.Record) string {
	if a.Site.ProofDir == "" {
		return ""
	}
	path := filepath.Join(a.Site.ProofDir, rec.Category, PascalCase(rec.Slug)+a.Site.ProofExt)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

func (a *Assembler) proofSection(ctx *Context, rec *content.Record) string {
	path := a.ProofFile(rec)
	if path == "" {
		return ""
	}
	url := fmt.Sprintf("%s/%s/%s", a.Site.ProofURL, rec.Category, filepath.Base(path))
	label := ctx.str("sections.proof", "Proof")
	link := ctx.str("sections.proofLink", "View proof source")

	return "    <section class=\"docs-section\">\n" +
		"      <div class=\"section-label\">" + label + "</div>\n" +
		"      <div class=\"docs-links\">\n" +
		"        <a href=\"" + url + "\" target=\"_blank\" rel=\"noopener\" class=\"doc-link\">" + link + " ↗</a>\n" +
		"      </div>\n" +
		"    </section>"
}

func (a *Assembler) socialShare(ctx *Context, rec *content.Record) string {
	return render.Render(a.Templates.SocialShare, render.Tokens{
		"encodedUrl":  EncodeURIComponent(a.flatURL(rec)),
		"encodedText": EncodeURIComponent(rec.Title + " – " + a.Site.SiteName),
		"share.label": ctx.str("share.label", "Share"),
	})
}

func (a *Assembler) flatURL(rec *content.Record) string {
	return fmt.Sprintf("%s/%s.html", a.Site.BaseURL, rec.Slug)
}

// canonicalURL is the absolute URL of rec's page in locale.
func (a *Assembler) canonicalURL(locale string, rec *content.Record) string {
	return a.Site.BaseURL + a.recordHref(locale, rec)
}

func (a *Assembler) indexCard(ctx *Context, rec *content.Record) string {
	return render.Render(a.Templates.IndexCard, render.Tokens{
		"category":        rec.Category,
		"slug":            rec.Slug,
		"catDisplay":      a.Site.CategoryDisplay(rec.Category),
		"title":           EscapeHTML(rec.Title),
		"oldCode":         EscapeHTML(rec.OldCode),
		"modernCode":      EscapeHTML(rec.ModernCode),
		"jdkVersion":      string(rec.JDKVersion),
		"cardHref":        a.recordHref(ctx.Locale, rec),
		"cards.old":       ctx.str("cards.old", "Old"),
		"cards.modern":    ctx.str("cards.modern", "Modern"),
		"cards.hoverHint": ctx.str("cards.hoverHint", "hover to see modern →"),
		"cards.learnMore": ctx.str("cards.learnMore", "learn more"),
	})
}

// ---------------------------------------------------------------------------
// Locale chrome
// ---------------------------------------------------------------------------

func (a *Assembler) localePicker(current string) string {
	lines := []string{
		`        <div class="locale-picker" id="localePicker">`,
		`          <button type="button" class="locale-toggle" aria-haspopup="listbox" aria-expanded="false"`,
		`                  aria-label="Select language">🌐</button>`,
		`          <ul role="listbox" aria-label="Language">`,
	}
	for _, loc := range a.Site.Locales {
		selected := loc.Code == current
		cls := ""
		if selected {
			cls = ` class="active"`
		}
		lines = append(lines, fmt.Sprintf(`            <li role="option" data-locale="%s" aria-selected="%t"%s>%s</li>`,
			loc.Code, selected, cls, EscapeHTML(loc.Name)))
	}
	lines = append(lines, "          </ul>", "        </div>")
	return strings.Join(lines, "\n")
}

// hreflangLinks renders the alternate links for a page. pagePath is
// "<category>/<slug>.html" for detail pages and "" for the index page.
func (a *Assembler) hreflangLinks(pagePath string) string {
	base := a.Site.BaseURL
	href := func(locale string) string {
		if a.Site.IsBase(locale) {
			return base + "/" + pagePath
		}
		return base + "/" + locale + "/" + pagePath
	}

	lines := make([]string, 0, len(a.Site.Locales)+1)
	for _, loc := range a.Site.Locales {
		lines = append(lines, fmt.Sprintf(`  <link rel="alternate" hreflang="%s" href="%s">`, loc.Code, href(loc.Code)))
	}
	lines = append(lines, fmt.Sprintf(`  <link rel="alternate" hreflang="x-default" href="%s">`, href(a.Site.BaseLocale)))
	return strings.Join(lines, "\n")
}

func (a *Assembler) i18nScript(ctx *Context) string {
	quoted := make([]string, len(a.Site.Locales))
	for i, loc := range a.Site.Locales {
		quoted[i] = `"` + loc.Code + `"`
	}
	js := func(key, def string) string { return EscapeJS(ctx.str(key, def)) }

	var b strings.Builder
	b.WriteString("<script>\n")
	b.WriteString("  window.i18n = {\n")
	fmt.Fprintf(&b, "    locale: \"%s\",\n", ctx.Locale)
	fmt.Fprintf(&b, "    availableLocales: [%s],\n", strings.Join(quoted, ", "))
	fmt.Fprintf(&b, "    searchPlaceholder: \"%s\",\n", js("search.placeholder", "Search snippets…"))
	fmt.Fprintf(&b, "    noResults: \"%s\",\n", js("search.noResults", "No results found."))
	fmt.Fprintf(&b, "    copied: \"%s\",\n", js("copy.copied", "Copied!"))
	fmt.Fprintf(&b, "    expandAll: \"%s\",\n", js("view.expandAll", "Expand All"))
	fmt.Fprintf(&b, "    collapseAll: \"%s\",\n", js("view.collapseAll", "Collapse All"))
	fmt.Fprintf(&b, "    hoverHint: \"%s\",\n", js("cards.hoverHint", "hover to see modern →"))
	fmt.Fprintf(&b, "    touchHint: \"%s\"\n", js("cards.touchHint", "👆 tap or swipe →"))
	b.WriteString("  };\n")
	b.WriteString("</script>")
	return b.String()
}

// contributeURLs builds the issue-tracker links shown on a detail page.
func (a *Assembler) contributeURLs(ctx *Context, rec *content.Record) map[string]string {
	issues := a.Site.IssuesURL
	localeName := stripLeadingNonLetters(a.Site.LocaleName(ctx.Locale))

	code := issues + "?template=code-issue.yml" +
		"&title=" + EncodeURIComponent("[Code Issue] "+rec.Title) +
		"&category=" + EncodeURIComponent(rec.Category) +
		"&slug=" + EncodeURIComponent(rec.Slug)

	translation := issues + "?template=translation-issue.yml" +
		"&title=" + EncodeURIComponent(fmt.Sprintf("[Translation] %s (%s)", rec.Title, localeName)) +
		"&locale=" + EncodeURIComponent(ctx.Locale) +
		"&pattern=" + EncodeURIComponent(rec.Slug) +
		"&area=" + EncodeURIComponent("Pattern content")

	return map[string]string{
		"contributeCodeIssueUrl":        code,
		"contributeTranslationIssueUrl": translation,
		"contributeSuggestUrl":          issues + "?template=new-pattern.yml",
	}
}

// ---------------------------------------------------------------------------
// Support / difficulty
// ---------------------------------------------------------------------------

func supportBadge(ctx *Context, state string) string {
	switch state {
	case "preview":
		return ctx.str("support.preview", "Preview")
	case "experimental":
		return ctx.str("support.experimental", "Experimental")
	default:
		return ctx.str("support.available", "Available")
	}
}

func supportBadgeClass(state string) string {
	switch state {
	case "preview", "experimental":
		return state
	default:
		return "widely"
	}
}
