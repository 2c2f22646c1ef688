// Package dedup tracks key→value and value→keys mappings per locale and
// answers duplicate queries for both keys and values.
//
// Exact duplicates are decided on normalized values: two values count as the
// same only after trimming, lowercasing, whitespace collapsing, and removal
// of everything except Persian letters, Latin letters, and whitespace.
// Approximate matches use normalized Levenshtein similarity and feed
// suggestions only, never hard duplicate verdicts.
package dedup

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/kalid-tool/kalid/translit"
)

// Default similarity thresholds. Empirically chosen; kept configurable on
// the Resolver rather than hard-wired.
const (
	DefaultKeyThreshold   = 0.7
	DefaultValueThreshold = 0.8
)

// maxSimilar caps how many approximate matches a check reports.
const maxSimilar = 5

// CheckResult is the outcome of a duplicate query. It is a report, never an
// error: duplicates are information for the caller to act on.
type CheckResult struct {
	IsDuplicate bool
	// ExistingKey is the first key already holding the duplicated value
	// (or, for key checks, the colliding key itself).
	ExistingKey string
	// SimilarKeys lists approximate matches above the threshold, capped at
	// maxSimilar, excluding exact matches.
	SimilarKeys []string
}

// DuplicateValue is a group of two or more keys sharing one normalized
// value within a locale.
type DuplicateValue struct {
	Value  string
	Keys   []string
	Locale string
}

// localeIndex holds both directions of one locale's mapping.
type localeIndex struct {
	keyToValue  map[string]string
	valueToKeys map[string][]string // normalized value -> keys, insertion order
}

func newLocaleIndex() *localeIndex {
	return &localeIndex{
		keyToValue:  make(map[string]string),
		valueToKeys: make(map[string][]string),
	}
}

// Resolver answers duplicate queries against per-locale indexes.
type Resolver struct {
	// KeyThreshold and ValueThreshold bound the similarity searches.
	KeyThreshold   float64
	ValueThreshold float64

	locales map[string]*localeIndex
}

// NewResolver creates an empty Resolver with the default thresholds.
func NewResolver() *Resolver {
	return &Resolver{
		KeyThreshold:   DefaultKeyThreshold,
		ValueThreshold: DefaultValueThreshold,
		locales:        make(map[string]*localeIndex),
	}
}

// Reset drops all indexed entries.
func (r *Resolver) Reset() {
	r.locales = make(map[string]*localeIndex)
}

// LoadFrom rebuilds the indexes from per-locale key→value maps, replacing
// any existing state.
func (r *Resolver) LoadFrom(perLocale map[string]map[string]string) {
	r.Reset()
	for locale, entries := range perLocale {
		// Deterministic insertion order for valueToKeys.
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			r.AddEntry(locale, k, entries[k])
		}
	}
}

// AddEntry records one key→value pair for a locale.
func (r *Resolver) AddEntry(locale, key, value string) {
	idx := r.locales[locale]
	if idx == nil {
		idx = newLocaleIndex()
		r.locales[locale] = idx
	}
	if old, ok := idx.keyToValue[key]; ok {
		idx.removeValueKey(NormalizeValue(old), key)
	}
	idx.keyToValue[key] = value
	nv := NormalizeValue(value)
	idx.valueToKeys[nv] = append(idx.valueToKeys[nv], key)
}

func (idx *localeIndex) removeValueKey(normValue, key string) {
	keys := idx.valueToKeys[normValue]
	for i, k := range keys {
		if k == key {
			idx.valueToKeys[normValue] = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(idx.valueToKeys[normValue]) == 0 {
		delete(idx.valueToKeys, normValue)
	}
}

// CheckKey reports whether key collides with an already-indexed key.
// An empty locale checks every locale.
func (r *Resolver) CheckKey(key, locale string) CheckResult {
	res := CheckResult{}
	for _, loc := range r.localeList(locale) {
		idx := r.locales[loc]
		if _, ok := idx.keyToValue[key]; ok {
			res.IsDuplicate = true
			res.ExistingKey = key
			break
		}
	}

	res.SimilarKeys = r.similarKeys(key, locale)
	return res
}

// CheckValue reports whether value (after normalization) is already present
// in the locale. SimilarKeys lists keys of approximately matching values.
func (r *Resolver) CheckValue(value, locale string) CheckResult {
	res := CheckResult{}
	nv := NormalizeValue(value)

	idx := r.locales[locale]
	if idx == nil {
		return res
	}
	if keys := idx.valueToKeys[nv]; len(keys) > 0 {
		res.IsDuplicate = true
		res.ExistingKey = keys[0]
	}

	for existing, keys := range idx.valueToKeys {
		if existing == nv || len(keys) == 0 {
			continue
		}
		if Similarity(existing, nv) >= r.ValueThreshold {
			res.SimilarKeys = append(res.SimilarKeys, keys[0])
		}
	}
	sort.Strings(res.SimilarKeys)
	if len(res.SimilarKeys) > maxSimilar {
		res.SimilarKeys = res.SimilarKeys[:maxSimilar]
	}
	return res
}

// similarKeys collects indexed keys whose similarity to key clears the
// threshold, exact matches excluded.
func (r *Resolver) similarKeys(key, locale string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, loc := range r.localeList(locale) {
		for k := range r.locales[loc].keyToValue {
			if k == key || seen[k] {
				continue
			}
			if Similarity(k, key) >= r.KeyThreshold {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	if len(out) > maxSimilar {
		out = out[:maxSimilar]
	}
	return out
}

// DuplicateValues returns every group of ≥2 keys sharing one normalized
// value within the locale, sorted by value for deterministic output.
func (r *Resolver) DuplicateValues(locale string) []DuplicateValue {
	idx := r.locales[locale]
	if idx == nil {
		return nil
	}

	var groups []DuplicateValue
	for _, keys := range idx.valueToKeys {
		if len(keys) < 2 {
			continue
		}
		sorted := append([]string(nil), keys...)
		sort.Strings(sorted)
		groups = append(groups, DuplicateValue{
			Value:  idx.keyToValue[sorted[0]],
			Keys:   sorted,
			Locale: locale,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	return groups
}

// Value returns the stored value for a key in a locale.
func (r *Resolver) Value(locale, key string) (string, bool) {
	idx := r.locales[locale]
	if idx == nil {
		return "", false
	}
	v, ok := idx.keyToValue[key]
	return v, ok
}

// ---------------------------------------------------------------------------
// Conflict resolution
// ---------------------------------------------------------------------------

// ContextualSuffix derives an alternative key from the match context:
// baseKey plus the context slug, or "_alt" when the context yields nothing.
func (r *Resolver) ContextualSuffix(baseKey, context string) string {
	slug := translit.Slugify(context)
	if slug == "" {
		slug = "alt"
	}
	return baseKey + "_" + slug
}

// ResolveConflict finds an unused variant of baseKey: first the contextual
// suffix, then incrementing numeric suffixes. isUsed decides availability.
func (r *Resolver) ResolveConflict(baseKey, context string, isUsed func(string) bool) string {
	if candidate := r.ContextualSuffix(baseKey, context); !isUsed(candidate) {
		return candidate
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", baseKey, i)
		if !isUsed(candidate) {
			return candidate
		}
	}
}

func (r *Resolver) localeList(locale string) []string {
	if locale != "" {
		if _, ok := r.locales[locale]; !ok {
			return nil
		}
		return []string{locale}
	}
	out := make([]string, 0, len(r.locales))
	for loc := range r.locales {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// ---------------------------------------------------------------------------
// Normalization and similarity
// ---------------------------------------------------------------------------

// NormalizeValue canonicalizes a value for duplicate comparison: trim,
// lowercase, collapse whitespace, and keep only Persian letters, Latin
// letters, and whitespace.
func NormalizeValue(v string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(v) {
		switch {
		case unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.Is(unicode.Latin, r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '‌':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity returns the normalized Levenshtein similarity of two strings:
// 1 − distance/maxLen, so 1 means identical and 0 means nothing in common.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(max)
}
