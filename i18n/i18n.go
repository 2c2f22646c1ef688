// Package i18n localizes kalid's own user-facing strings.
//
// It wraps the gotext library: catalogs are embedded in the binary under
// locales/{lang}/LC_MESSAGES/kalid.po and loaded once via Init(). A tool
// that migrates Persian UIs should speak Persian itself, so a fa catalog
// ships by default.
//
// Usage:
//
//	i18n.Init("") // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("Scanning for duplicates"))
//	fmt.Println(i18n.N("%d duplicate found", "%d duplicates found", n))
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs.
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for kalid.
const domain = "kalid"

// catalog is the gotext locale object used for translations.
var catalog *gotext.Locale

// Init initializes the i18n system. An empty lang auto-detects from the
// environment variables LANGUAGE, LC_ALL, LC_MESSAGES, LANG (in that order,
// matching GNU gettext behavior). Call once at startup, before T or N.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	catalog = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	catalog.AddDomain(domain)
	catalog.SetDomain(domain)
}

// T translates a string, returning it unchanged when no translation is
// available (standard gettext passthrough).
func T(msgid string) string {
	if catalog == nil {
		return msgid
	}
	return catalog.Get(msgid)
}

// N translates a string with plural forms. Without a catalog, n == 1 picks
// the singular and everything else the plural.
func N(singular, plural string, n int) string {
	if catalog == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return catalog.GetN(singular, plural, n)
}

// detectLanguage reads the user's preferred language from the environment,
// following GNU gettext conventions.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first entry.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// Strip the encoding suffix ("fa_IR.UTF-8" -> "fa_IR").
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		// "C" and "POSIX" mean no translation.
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
