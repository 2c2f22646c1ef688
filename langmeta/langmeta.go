// Package langmeta provides a shared language metadata registry (native
// names and writing direction) used by the CLI UI. Right-to-left locales
// matter here: they are the ones whose text goes through transliteration.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	Name string
	RTL  bool
}

// Registry contains canonical language metadata.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"ar":    {Name: "العربية", RTL: true},
	"ar-EG": {Name: "العربية (مصر)", RTL: true},
	"az":    {Name: "Azərbaycanca"},
	"ckb":   {Name: "کوردیی ناوەندی", RTL: true},
	"de":    {Name: "Deutsch"},
	"dv":    {Name: "ދިވެހިބަސް", RTL: true},
	"en":    {Name: "English"},
	"en-GB": {Name: "English (UK)"},
	"en-US": {Name: "English (US)"},
	"es":    {Name: "Español"},
	"fa":    {Name: "فارسی", RTL: true},
	"fa-AF": {Name: "دری", RTL: true},
	"fr":    {Name: "Français"},
	"he":    {Name: "עברית", RTL: true},
	"hi":    {Name: "हिन्दी"},
	"it":    {Name: "Italiano"},
	"ja":    {Name: "日本語"},
	"ku":    {Name: "Kurdî"},
	"ps":    {Name: "پښتو", RTL: true},
	"pt":    {Name: "Português"},
	"pt-BR": {Name: "Português (Brasil)"},
	"ru":    {Name: "Русский"},
	"sd":    {Name: "سنڌي", RTL: true},
	"tg":    {Name: "Тоҷикӣ"},
	"tr":    {Name: "Türkçe"},
	"ug":    {Name: "ئۇيغۇرچە", RTL: true},
	"ur":    {Name: "اردو", RTL: true},
	"uz":    {Name: "Oʻzbekcha"},
	"zh":    {Name: "中文"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like fa_IR, fa-IR, and locale fallbacks.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang}
}

// RTL reports whether the locale is written right to left.
func RTL(lang string) bool {
	return Resolve(lang).RTL
}
