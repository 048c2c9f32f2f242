// Package i18n translates what the sitegen command prints to the terminal:
// progress lines, summaries and errors. Page text is the catalog package's
// job.
//
// Catalogs are gettext .po files compiled into the binary. Call Init once
// from the root command, then wrap user-facing strings:
//
//	i18n.Init("")
//	logInfo(i18n.N("Loaded %d snippet", "Loaded %d snippets", n), n)
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Catalogs live at locales/<lang>/LC_MESSAGES/sitegen.po.
//
//go:embed all:locales
var locales embed.FS

const domain = "sitegen"

// localeEnv is checked in order; the first usable value wins.
var localeEnv = []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

// fallbackLang is used when no variable names a real locale.
const fallbackLang = "en"

var po *gotext.Locale

// Init loads the catalog for lang, or for the terminal's locale when lang
// is empty. A language without a catalog leaves every string untranslated.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T returns the translation of msgid, or msgid itself.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N picks the plural form of a message for n using the catalog's plural
// rule. Without a catalog it is English: singular for 1, plural otherwise.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

func detectLanguage() string {
	for _, name := range localeEnv {
		value := os.Getenv(name)
		if name == "LANGUAGE" {
			value, _, _ = strings.Cut(value, ":")
		}
		if lang := localeName(value); lang != "" {
			return lang
		}
	}
	return fallbackLang
}

// localeName trims "ru_RU.UTF-8@euro" down to "ru_RU". The C and POSIX
// locales ask for untranslated output and yield "".
func localeName(value string) string {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "C" || value == "POSIX" {
		return ""
	}
	return value
}
