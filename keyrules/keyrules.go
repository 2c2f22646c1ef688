// Package keyrules enforces identifier-naming rules for translation keys
// and repairs non-conforming identifiers.
//
// Validate reports every rule violation with a concrete suggested fix;
// Normalize applies the fixes in a fixed sequence and always yields a key
// that passes Validate, including uniqueness against the tracked used-key
// set. Normalization is idempotent: normalizing an already-conforming,
// unused key returns it unchanged.
package keyrules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kalid-tool/kalid/translit"
)

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

// Rules is the identifier-naming rule set. It is configuration: not mutated
// at runtime except via Validator.SetRules.
type Rules struct {
	// MinLength and MaxLength bound the identifier length.
	MinLength int
	MaxLength int
	// AllowedCharacters is the regular expression every key must match.
	AllowedCharacters string
	// ForbiddenPatterns are shape patterns (by name, see forbiddenRegistry)
	// a key must not match.
	ForbiddenPatterns []string
	// ReservedWords may not be used as keys on their own.
	ReservedWords []string
	// RequirePrefix and RequireSuffix, when set, must bracket every key.
	RequirePrefix string
	RequireSuffix string
	// CaseSensitive controls reserved-word and used-key comparison.
	CaseSensitive bool
}

// DefaultRules returns the rule set used when no configuration overrides it.
func DefaultRules() Rules {
	return Rules{
		MinLength:         2,
		MaxLength:         50,
		AllowedCharacters: `^[a-z][a-z0-9_]*$`,
		ForbiddenPatterns: []string{
			PatternAllUnderscores,
			PatternAllDigits,
			PatternRepeatedUnderscores,
			PatternEdgeUnderscore,
		},
		ReservedWords: []string{
			"new", "delete", "class", "function", "return",
			"if", "else", "for", "while", "switch",
			"true", "false", "null", "undefined",
			"import", "export", "default",
		},
	}
}

// Named forbidden shape patterns.
const (
	PatternAllUnderscores      = "all_underscores"
	PatternAllDigits           = "all_digits"
	PatternRepeatedUnderscores = "repeated_underscores"
	PatternEdgeUnderscore      = "edge_underscore"
)

// forbiddenPattern couples a shape check with its pattern-specific repair.
type forbiddenPattern struct {
	re      *regexp.Regexp
	problem string
	fix     func(string) string
}

// forbiddenRegistry maps pattern names to their checks and repairs.
var forbiddenRegistry = map[string]forbiddenPattern{
	PatternAllUnderscores: {
		re:      regexp.MustCompile(`^_+$`),
		problem: "key consists only of underscores",
		fix:     func(string) string { return "" },
	},
	PatternAllDigits: {
		re:      regexp.MustCompile(`^[0-9]+$`),
		problem: "key consists only of digits",
		fix:     func(k string) string { return "key_" + k },
	},
	PatternRepeatedUnderscores: {
		re:      regexp.MustCompile(`__`),
		problem: "key contains repeated underscores",
		fix: func(k string) string {
			return underscoreRuns.ReplaceAllString(k, "_")
		},
	},
	PatternEdgeUnderscore: {
		re:      regexp.MustCompile(`^_|_$`),
		problem: "key starts or ends with an underscore",
		fix:     func(k string) string { return strings.Trim(k, "_") },
	},
}

// padTokens are the generic suffixes used to pad too-short keys.
var padTokens = []string{"text", "label", "item"}

// ---------------------------------------------------------------------------
// Validator
// ---------------------------------------------------------------------------

// Result is the outcome of validating one key.
type Result struct {
	IsValid     bool
	Errors      []string
	Warnings    []string
	Suggestions []string
}

// Validator checks keys against a rule set and owns the used-key registry
// that backs uniqueness enforcement. It is an explicit object: callers that
// need a fresh run call ClearUsed rather than relying on process state.
type Validator struct {
	rules     Rules
	allowed   *regexp.Regexp
	forbidden []forbiddenPattern
	used      map[string]bool
}

// New creates a Validator for the given rules.
func New(rules Rules) *Validator {
	v := &Validator{used: make(map[string]bool)}
	v.SetRules(rules)
	return v
}

// Rules returns the active rule set.
func (v *Validator) Rules() Rules {
	return v.rules
}

// SetRules replaces the active rule set. The used-key registry is kept.
func (v *Validator) SetRules(rules Rules) {
	if rules.MaxLength <= 0 {
		rules.MaxLength = DefaultRules().MaxLength
	}
	if rules.MinLength <= 0 {
		rules.MinLength = DefaultRules().MinLength
	}
	if rules.AllowedCharacters == "" {
		rules.AllowedCharacters = DefaultRules().AllowedCharacters
	}

	v.rules = rules
	v.allowed = regexp.MustCompile(rules.AllowedCharacters)
	v.forbidden = v.forbidden[:0]
	for _, name := range rules.ForbiddenPatterns {
		if p, ok := forbiddenRegistry[name]; ok {
			v.forbidden = append(v.forbidden, p)
		}
	}
}

// Validate checks key against every rule, in order, collecting all
// violations. Suggestions always include a concrete conforming replacement.
func (v *Validator) Validate(key string) Result {
	res := Result{IsValid: true}
	fail := func(msg string) {
		res.IsValid = false
		res.Errors = append(res.Errors, msg)
	}

	if len(key) < v.rules.MinLength {
		fail(fmt.Sprintf("key %q is shorter than %d characters", key, v.rules.MinLength))
	}
	if len(key) > v.rules.MaxLength {
		fail(fmt.Sprintf("key %q is longer than %d characters", key, v.rules.MaxLength))
	}
	if !v.allowed.MatchString(key) {
		fail(fmt.Sprintf("key %q contains characters outside %s", key, v.rules.AllowedCharacters))
	}
	for _, p := range v.forbidden {
		if p.re.MatchString(key) {
			fail(fmt.Sprintf("key %q: %s", key, p.problem))
		}
	}
	if v.isReserved(key) {
		fail(fmt.Sprintf("key %q is a reserved word", key))
	}
	if v.rules.RequirePrefix != "" && !strings.HasPrefix(key, v.rules.RequirePrefix) {
		fail(fmt.Sprintf("key %q is missing required prefix %q", key, v.rules.RequirePrefix))
	}
	if v.rules.RequireSuffix != "" && !strings.HasSuffix(key, v.rules.RequireSuffix) {
		fail(fmt.Sprintf("key %q is missing required suffix %q", key, v.rules.RequireSuffix))
	}
	if v.IsUsed(key) {
		fail(fmt.Sprintf("key %q is already in use", key))
	}

	if len(key) > v.rules.MaxLength*4/5 && len(key) <= v.rules.MaxLength {
		res.Warnings = append(res.Warnings, fmt.Sprintf("key %q is close to the %d character limit", key, v.rules.MaxLength))
	}
	if numericSuffix.MatchString(key) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("key %q has a numeric suffix; a contextual name would read better", key))
	}

	if !res.IsValid {
		res.Suggestions = append(res.Suggestions, v.Normalize(key))
	}
	return res
}

var numericSuffix = regexp.MustCompile(`_[0-9]+$`)

// Normalize repairs key until it satisfies every rule, including uniqueness
// against the used-key registry. The result is not marked used; callers do
// that via MarkUsed once they commit to it.
func (v *Validator) Normalize(key string) string {
	k := strings.ToLower(key)
	k = sanitize(k)

	// Pattern-specific repairs, then a generic guard: anything still
	// outside the allowed shape gets a neutral prefix.
	for _, p := range v.forbidden {
		if p.re.MatchString(k) {
			k = p.fix(k)
		}
	}
	if k != "" && !v.allowed.MatchString(k) {
		k = sanitize("key_" + k)
	}

	k = v.repairLength(k)
	if v.isReserved(k) {
		k = k + "_key"
	}

	if v.rules.RequirePrefix != "" && !strings.HasPrefix(k, v.rules.RequirePrefix) {
		k = v.rules.RequirePrefix + k
	}
	if v.rules.RequireSuffix != "" && !strings.HasSuffix(k, v.rules.RequireSuffix) {
		k = k + v.rules.RequireSuffix
	}
	// Affix injection may push past the ceiling; shrink the core, not the
	// required affixes.
	if len(k) > v.rules.MaxLength {
		core := strings.TrimPrefix(k, v.rules.RequirePrefix)
		core = strings.TrimSuffix(core, v.rules.RequireSuffix)
		room := v.rules.MaxLength - len(v.rules.RequirePrefix) - len(v.rules.RequireSuffix)
		core = strings.Trim(translit.TruncateWords(core, room), "_")
		k = v.rules.RequirePrefix + core + v.rules.RequireSuffix
	}

	if v.IsUsed(k) {
		for i := 1; ; i++ {
			suffix := fmt.Sprintf("_%d", i)
			base := k
			if len(base)+len(suffix) > v.rules.MaxLength {
				base = strings.TrimRight(base[:v.rules.MaxLength-len(suffix)], "_")
			}
			candidate := base + suffix
			if !v.IsUsed(candidate) {
				k = candidate
				break
			}
		}
	}
	return k
}

// repairLength truncates over-long keys word by word and pads under-short
// keys with a generic token, falling back to a numeric counter.
func (v *Validator) repairLength(k string) string {
	if len(k) > v.rules.MaxLength {
		k = translit.TruncateWords(k, v.rules.MaxLength)
	}
	if len(k) >= v.rules.MinLength {
		return k
	}
	if k == "" {
		k = "key"
		if len(k) >= v.rules.MinLength {
			return k
		}
	}
	for _, tok := range padTokens {
		candidate := k + "_" + tok
		if len(candidate) >= v.rules.MinLength && len(candidate) <= v.rules.MaxLength {
			return candidate
		}
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", k, i)
		if len(candidate) >= v.rules.MinLength {
			return candidate
		}
	}
}

// sanitize replaces characters outside [a-z0-9] with underscores, collapses
// underscore runs, and trims the edges.
func sanitize(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := underscoreRuns.ReplaceAllString(b.String(), "_")
	return strings.Trim(s, "_")
}

var underscoreRuns = regexp.MustCompile(`_+`)

func (v *Validator) isReserved(key string) bool {
	for _, w := range v.rules.ReservedWords {
		if v.rules.CaseSensitive {
			if key == w {
				return true
			}
		} else if strings.EqualFold(key, w) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Used-key registry
// ---------------------------------------------------------------------------

// AddExistingKeys seeds the used-key registry, e.g. from a loaded store.
func (v *Validator) AddExistingKeys(keys []string) {
	for _, k := range keys {
		v.used[v.fold(k)] = true
	}
}

// MarkUsed records one key as taken.
func (v *Validator) MarkUsed(key string) {
	v.used[v.fold(key)] = true
}

// IsUsed reports whether a key is already taken.
func (v *Validator) IsUsed(key string) bool {
	return v.used[v.fold(key)]
}

// UsedCount returns the number of registered keys.
func (v *Validator) UsedCount() int {
	return len(v.used)
}

// ClearUsed empties the used-key registry so a fresh run starts clean.
func (v *Validator) ClearUsed() {
	v.used = make(map[string]bool)
}

func (v *Validator) fold(key string) string {
	if v.rules.CaseSensitive {
		return key
	}
	return strings.ToLower(key)
}
