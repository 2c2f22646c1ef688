// Package scanner sweeps the persisted locale files for duplicate values
// and applies explicit consolidation decisions.
//
// The scanner deliberately bypasses any in-memory resolution state: it reads
// what is actually committed to disk, so duplicates introduced by earlier
// runs or hand edits are found too. It never merges anything on its own —
// every mutation requires an explicit Decision, and callers snapshot the
// store first when backups are enabled.
package scanner

import (
	"fmt"
	"sort"

	"github.com/kalid-tool/kalid/dedup"
	"github.com/kalid-tool/kalid/store"
)

// Scanner finds and consolidates duplicate values in a locale store.
type Scanner struct {
	store *store.Store
}

// New creates a Scanner over a store.
func New(st *store.Store) *Scanner {
	return &Scanner{store: st}
}

// Report is the outcome of one duplicate sweep.
type Report struct {
	// TotalDuplicates counts duplicate groups across all locales.
	TotalDuplicates int
	// ByLocale maps each locale to its duplicate groups, sorted by value.
	ByLocale map[string][]dedup.DuplicateValue
	// Suggestions are human-readable consolidation hints, one per group.
	Suggestions []string
}

// Scan reads every locale file and groups keys by normalized value,
// reporting each group with more than one key.
func (s *Scanner) Scan() (*Report, error) {
	all, err := s.store.ReadAll()
	if err != nil {
		return nil, err
	}

	r := dedup.NewResolver()
	r.LoadFrom(all)

	rep := &Report{ByLocale: make(map[string][]dedup.DuplicateValue)}

	locales := make([]string, 0, len(all))
	for loc := range all {
		locales = append(locales, loc)
	}
	sort.Strings(locales)

	for _, loc := range locales {
		groups := r.DuplicateValues(loc)
		if len(groups) == 0 {
			continue
		}
		rep.ByLocale[loc] = groups
		rep.TotalDuplicates += len(groups)
		for _, g := range groups {
			rep.Suggestions = append(rep.Suggestions, fmt.Sprintf(
				"%s: %q is held by %d keys %v; keep %q and drop the rest",
				loc, g.Value, len(g.Keys), g.Keys, g.Keys[0]))
		}
	}
	return rep, nil
}

// ---------------------------------------------------------------------------
// Consolidation decisions
// ---------------------------------------------------------------------------

// Decision is one of exactly three consolidation choices: Consolidate,
// Rename, or KeepSeparate. The interface is sealed so no fourth case can
// sneak in.
type Decision interface {
	isDecision()
}

// Consolidate keeps TargetKey mapped to the duplicated value and deletes
// every other key in the group.
type Consolidate struct {
	TargetKey string
}

// Rename introduces NewKey for the duplicated value and deletes every old
// key in the group, the previous target included.
type Rename struct {
	NewKey string
}

// KeepSeparate leaves the group untouched.
type KeepSeparate struct{}

func (Consolidate) isDecision()  {}
func (Rename) isDecision()       {}
func (KeepSeparate) isDecision() {}

// Apply executes a decision for one duplicate group in one locale. The
// duplicated value always survives under exactly one key (except for
// KeepSeparate, which changes nothing).
func (s *Scanner) Apply(locale string, dup dedup.DuplicateValue, d Decision) error {
	switch d := d.(type) {
	case KeepSeparate:
		return nil

	case Consolidate:
		found := false
		for _, k := range dup.Keys {
			if k == d.TargetKey {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("target key %q is not part of the duplicate group %v", d.TargetKey, dup.Keys)
		}
		return s.rewrite(locale, dup.Keys, d.TargetKey, dup.Value)

	case Rename:
		if d.NewKey == "" {
			return fmt.Errorf("rename requires a new key")
		}
		return s.rewrite(locale, dup.Keys, d.NewKey, dup.Value)

	default:
		return fmt.Errorf("unknown decision %T", d)
	}
}

// rewrite deletes every key in group from the locale and maps survivor to
// value, in one read-modify-write.
func (s *Scanner) rewrite(locale string, group []string, survivor, value string) error {
	entries, err := s.store.Read(locale)
	if err != nil {
		return err
	}
	for _, k := range group {
		delete(entries, k)
	}
	entries[survivor] = value
	return s.store.Write(locale, entries)
}
