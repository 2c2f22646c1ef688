// Package translit synthesizes candidate translation identifiers from
// Persian source text.
//
// The pipeline is: normalize (digit folding, rune filtering, whitespace
// collapsing) → transliterate (curated word table longest-match first, then
// per-rune character table) → slugify → context/prefix joining →
// word-preserving truncation. The output is a heuristic: it aims for a
// readable, meaningful identifier, not a linguistically correct
// romanization.
package translit

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackKey is the sentinel identifier used when the input text produces
// an empty slug (e.g. punctuation-only input).
const FallbackKey = "untranslated_text"

// Confidence scoring constants. Confidence is a heuristic quality score in
// [0,1], not a probability; the constants are exported so the scoring can be
// tested in isolation.
const (
	BaseConfidence = 0.5
	WordMatchBonus = 0.3 // whole input matched one word-table entry
	StructureBonus = 0.1 // multi-word result of useful length
	WeakPenalty    = 0.2 // degenerate result (too short, or the fallback)
)

// altContextToken is the context used for the "alternate context" suggestion.
const altContextToken = "text"

// minAbbrevLen is the smallest partial segment worth keeping during
// word-preserving truncation; anything shorter reads as noise.
const minAbbrevLen = 3

// Options configures a Synthesizer.
type Options struct {
	// MaxLength is the identifier length ceiling (default 50).
	MaxLength int
	// UseContext prepends the sanitized context token when set.
	UseContext bool
	// Prefix is an optional global prefix joined with "_".
	Prefix string
}

// Result is the outcome of synthesizing one piece of text.
type Result struct {
	// Key is the candidate identifier.
	Key string
	// Confidence is the heuristic quality score in [0,1].
	Confidence float64
	// Alternatives holds up to 3 other candidate identifiers.
	Alternatives []string
}

// Synthesizer turns Persian text into candidate identifiers.
type Synthesizer struct {
	opts Options
	// words holds the word-table keys sorted longest first, built once so
	// the per-call path never re-sorts the table.
	words []string
}

// New creates a Synthesizer. A zero MaxLength defaults to 50.
func New(opts Options) *Synthesizer {
	if opts.MaxLength <= 0 {
		opts.MaxLength = 50
	}

	// Only multi-character entries participate in substring replacement;
	// single-character function words would fire inside unrelated words.
	words := make([]string, 0, len(wordTable))
	for w := range wordTable {
		if utf8.RuneCountInString(w) >= 2 {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	return &Synthesizer{opts: opts, words: words}
}

// Synthesize produces a candidate identifier for text. The optional context
// (e.g. "btn", "label") is prepended when Options.UseContext is set.
func (s *Synthesizer) Synthesize(text, context string) Result {
	norm := Normalize(text)
	slug, wholeMatch := s.transliterate(norm)

	key := slug
	if s.opts.UseContext && context != "" {
		if ctx := Slugify(context); ctx != "" {
			key = join(ctx, key)
		}
	}
	if s.opts.Prefix != "" {
		if p := Slugify(s.opts.Prefix); p != "" {
			key = join(p, key)
		}
	}

	if key == "" {
		key = FallbackKey
	}
	key = TruncateWords(key, s.opts.MaxLength)

	return Result{
		Key:          key,
		Confidence:   Score(key, wholeMatch),
		Alternatives: s.alternatives(slug, key),
	}
}

// Score computes the heuristic confidence for a synthesized key.
// wholeMatch reports whether the entire input matched one word-table entry.
func Score(key string, wholeMatch bool) float64 {
	c := BaseConfidence
	if wholeMatch {
		c += WordMatchBonus
	}
	if strings.Contains(key, "_") && len(key) > 3 {
		c += StructureBonus
	}
	if len(key) < 3 || key == FallbackKey {
		c -= WeakPenalty
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// alternatives builds up to 3 alternative candidates: the plain slug without
// context, the slug under a generic alternate context, and an initials
// abbreviation for multi-word input.
func (s *Synthesizer) alternatives(slug, key string) []string {
	var alts []string
	add := func(a string) {
		if a == "" || a == key || len(alts) >= 3 {
			return
		}
		a = TruncateWords(a, s.opts.MaxLength)
		for _, seen := range alts {
			if seen == a {
				return
			}
		}
		alts = append(alts, a)
	}

	add(slug)
	if slug != "" {
		add(join(altContextToken, slug))
	}
	if words := strings.Split(slug, "_"); len(words) >= 2 {
		var b strings.Builder
		for _, w := range words {
			if w != "" {
				b.WriteByte(w[0])
			}
		}
		add(b.String())
	}
	return alts
}

// ---------------------------------------------------------------------------
// Pipeline stages
// ---------------------------------------------------------------------------

// Normalize trims the input, folds Persian/Arabic-Indic digits to ASCII,
// drops runes that are neither Persian letters, Latin letters, digits, nor
// whitespace, and collapses whitespace runs to single spaces. Zero-width
// non-joiners become spaces so compound words split at their seams.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '‌': // ZWNJ
			b.WriteByte(' ')
		case digitTable[r] != 0:
			b.WriteRune(digitTable[r])
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.Is(unicode.Arabic, r), unicode.Is(unicode.Latin, r):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// transliterate maps normalized Persian text to a Latin slug. It reports
// whether the whole input matched a single word-table entry.
func (s *Synthesizer) transliterate(norm string) (slug string, wholeMatch bool) {
	if norm == "" {
		return "", false
	}
	if v, ok := wordTable[norm]; ok {
		return Slugify(v), true
	}

	// Replace known words and phrases, longest first, so compound forms
	// are not split by their constituents.
	text := norm
	for _, w := range s.words {
		if strings.Contains(text, w) {
			text = strings.ReplaceAll(text, w, " "+wordTable[w]+" ")
		}
	}

	// Map remaining runes through the character table; unmapped runes pass
	// through for the slugifier to keep or drop.
	var b strings.Builder
	for _, r := range text {
		if m, ok := charTable[r]; ok {
			b.WriteString(m)
		} else {
			b.WriteRune(r)
		}
	}
	return Slugify(b.String()), false
}

// Slugify lowercases s, strips everything outside [a-z0-9 ], turns
// whitespace runs into single underscores, collapses repeated underscores,
// and trims leading/trailing underscores.
func Slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '_':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

// TruncateWords enforces a length ceiling on a slug, keeping whole
// underscore-delimited segments greedily. If room for at least minAbbrevLen
// characters remains after the kept segments, the next segment is kept in
// abbreviated form; otherwise the result is hard-truncated.
func TruncateWords(key string, max int) string {
	if max <= 0 || len(key) <= max {
		return key
	}

	segs := strings.Split(key, "_")
	var kept []string
	length := 0
	for i, seg := range segs {
		need := len(seg)
		if i > 0 {
			need++ // joining underscore
		}
		if length+need > max {
			// Best-effort partial segment if any useful room remains.
			room := max - length
			if i > 0 {
				room-- // joining underscore
			}
			if room >= minAbbrevLen {
				kept = append(kept, seg[:room])
			}
			break
		}
		kept = append(kept, seg)
		length += need
	}

	out := strings.Join(kept, "_")
	if out == "" {
		out = strings.TrimRight(key[:max], "_")
	}
	return out
}

// join concatenates non-empty slug parts with underscores.
func join(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "_")
}
