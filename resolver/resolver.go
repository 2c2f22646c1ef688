// Package resolver turns extracted text matches into final, unique
// translation identifiers.
//
// It composes the synthesizer, the naming validator, and the duplicate
// resolver into one operation: synthesize a candidate, repair it against the
// naming rules, resolve collisions (contextual suffix first, numeric last),
// and register the final key so no two resolutions in one run can collide.
// Batch resolution is sequential on purpose: the uniqueness guarantees
// depend on strictly ordered registry updates.
package resolver

import (
	"fmt"

	"github.com/kalid-tool/kalid/dedup"
	"github.com/kalid-tool/kalid/keyrules"
	"github.com/kalid-tool/kalid/translit"
)

// TextMatch is one piece of source text found by the (external) extraction
// step. It is immutable input.
type TextMatch struct {
	Text    string
	File    string
	Line    int
	Column  int
	Context string
}

// GeneratedKey is the resolved identifier for one text match, handed to the
// (external) transformation step.
type GeneratedKey struct {
	Key          string
	OriginalText string
	// Confidence is a heuristic quality score in [0,1], not a probability.
	Confidence  float64
	Suggestions []string
	File        string
	Line        int
	Column      int
	Context     string
}

// Resolution is the full outcome of resolving one text, including the
// intermediate verdicts that produced the final key.
type Resolution struct {
	Generated  GeneratedKey
	Validation keyrules.Result
	KeyCheck   dedup.CheckResult
	ValueCheck dedup.CheckResult
	FinalKey   string
}

// Options configures a Resolver.
type Options struct {
	Synthesis translit.Options
	Rules     keyrules.Rules
}

// Resolver owns the used-identifier registry for one run. It is an explicit
// object: creating a second Resolver, or calling Reset, starts a clean run.
type Resolver struct {
	synth     *translit.Synthesizer
	validator *keyrules.Validator
	dups      *dedup.Resolver
}

// New creates a Resolver. Zero-value Rules fall back to the defaults.
func New(opts Options) *Resolver {
	rules := opts.Rules
	if rules.AllowedCharacters == "" && rules.ForbiddenPatterns == nil {
		rules = keyrules.DefaultRules()
	}
	// The validator's length ceiling follows the synthesizer's unless the
	// caller set one explicitly.
	if opts.Rules.MaxLength == 0 && opts.Synthesis.MaxLength > 0 {
		rules.MaxLength = opts.Synthesis.MaxLength
	}
	return &Resolver{
		synth:     translit.New(opts.Synthesis),
		validator: keyrules.New(rules),
		dups:      dedup.NewResolver(),
	}
}

// LoadExisting seeds both the duplicate indexes and the used-key registry
// from already-persisted per-locale translations.
func (r *Resolver) LoadExisting(perLocale map[string]map[string]string) {
	r.dups.LoadFrom(perLocale)
	var keys []string
	for _, entries := range perLocale {
		for k := range entries {
			keys = append(keys, k)
		}
	}
	r.validator.AddExistingKeys(keys)
}

// Reset clears all run state — used keys and duplicate indexes — so
// repeated runs start from a clean slate.
func (r *Resolver) Reset() {
	r.validator.ClearUsed()
	r.dups.Reset()
}

// Resolve turns one text into a final identifier for the given locale.
// The final key is registered as used before returning.
func (r *Resolver) Resolve(text, locale, context string) (Resolution, error) {
	if translit.Normalize(text) == "" {
		return Resolution{}, fmt.Errorf("no resolvable text in %q", text)
	}
	if locale == "" {
		return Resolution{}, fmt.Errorf("locale required")
	}

	cand := r.synth.Synthesize(text, context)
	res := Resolution{
		Validation: r.validator.Validate(cand.Key),
		KeyCheck:   r.dups.CheckKey(cand.Key, locale),
		ValueCheck: r.dups.CheckValue(text, locale),
	}

	key := cand.Key
	// Collisions first, so a contextual suffix wins over the validator's
	// numeric uniqueness loop.
	if r.taken(key) || res.ValueCheck.IsDuplicate {
		key = r.dups.ResolveConflict(key, context, r.taken)
	}
	if v := r.validator.Validate(key); !v.IsValid {
		key = r.validator.Normalize(key)
	}

	r.commit(locale, key, text)

	res.FinalKey = key
	res.Generated = GeneratedKey{
		Key:          key,
		OriginalText: text,
		Confidence:   cand.Confidence,
		Suggestions:  suggestions(cand.Alternatives, res.KeyCheck.SimilarKeys),
		Context:      context,
	}
	return res, nil
}

// ResolveBatch resolves matches sequentially. One bad item never fails the
// batch: it falls back to the raw, unvalidated synthesized key, numerically
// suffixed when already taken so two bad items never share a key, and the
// failure is recorded in the returned warnings.
func (r *Resolver) ResolveBatch(locale string, matches []TextMatch) ([]GeneratedKey, []string) {
	keys := make([]GeneratedKey, 0, len(matches))
	var warnings []string

	for _, m := range matches {
		res, err := r.Resolve(m.Text, locale, m.Context)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s:%d: %v", m.File, m.Line, err))
			cand := r.synth.Synthesize(m.Text, m.Context)
			key := cand.Key
			for n := 2; r.taken(key); n++ {
				key = fmt.Sprintf("%s_%d", cand.Key, n)
			}
			r.commit(locale, key, m.Text)
			keys = append(keys, located(GeneratedKey{
				Key:          key,
				OriginalText: m.Text,
				Confidence:   cand.Confidence,
				Suggestions:  cand.Alternatives,
				Context:      m.Context,
			}, m))
			continue
		}
		keys = append(keys, located(res.Generated, m))
	}
	return keys, warnings
}

// commit registers a final key in both the used-key registry and the
// duplicate indexes so later resolutions see it.
func (r *Resolver) commit(locale, key, text string) {
	r.validator.MarkUsed(key)
	r.dups.AddEntry(locale, key, text)
}

// taken reports whether a key is unavailable, consulting both registries.
func (r *Resolver) taken(key string) bool {
	return r.validator.IsUsed(key) || r.dups.CheckKey(key, "").IsDuplicate
}

func located(g GeneratedKey, m TextMatch) GeneratedKey {
	g.File = m.File
	g.Line = m.Line
	g.Column = m.Column
	return g
}

// suggestions merges synthesizer alternatives with similar existing keys,
// deduplicated, capped at 5.
func suggestions(alternatives, similar []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range append(append([]string(nil), alternatives...), similar...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == 5 {
			break
		}
	}
	return out
}
