// Package store reads and writes per-locale translation files.
//
// Each locale is one JSON file under the store directory, holding a flat
// string→string mapping. Files are written with keys sorted ascending and
// 2-space indentation so diffs stay deterministic, and every write goes
// through an atomic rename so a crash never leaves a half-written file.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// ---------------------------------------------------------------------------
// Error kinds
// ---------------------------------------------------------------------------

// PathError is a file-system failure carrying the failing path. A missing
// locale file is never a PathError: it reads as an empty store.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// StructureError reports malformed persisted content. It is distinguishable
// from PathError so callers can decide between "fix the file" and "fix the
// environment".
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store is a directory of per-locale translation files.
type Store struct {
	dir string
}

// New creates a Store over dir. The directory need not exist yet; it is
// created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for a locale.
func (s *Store) Path(locale string) string {
	return filepath.Join(s.dir, locale+".json")
}

// Locales lists the locales that have files in the store, sorted.
func (s *Store) Locales() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &PathError{Op: "reading", Path: s.dir, Err: err}
	}

	var locales []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		locales = append(locales, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(locales)
	return locales, nil
}

// Read loads a locale's key→value map. A missing file is an empty map, not
// an error; malformed content is a hard error, never silently discarded.
func (s *Store) Read(locale string) (map[string]string, error) {
	path := s.Path(locale)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, &PathError{Op: "reading", Path: path, Err: err}
	}

	entries, structErrs, err := parseFlatStringMap(path, data)
	if err != nil {
		return nil, err
	}
	if len(structErrs) > 0 {
		return nil, &StructureError{Path: path, Reason: strings.Join(structErrs, "; ")}
	}
	return entries, nil
}

// ReadAll loads every locale in the store.
func (s *Store) ReadAll() (map[string]map[string]string, error) {
	locales, err := s.Locales()
	if err != nil {
		return nil, err
	}
	all := make(map[string]map[string]string, len(locales))
	for _, loc := range locales {
		entries, err := s.Read(loc)
		if err != nil {
			return nil, err
		}
		all[loc] = entries
	}
	return all, nil
}

// Write replaces a locale's file with entries, creating the store directory
// as needed. The write is all-or-nothing: the previous file survives any
// failure.
func (s *Store) Write(locale string, entries map[string]string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &PathError{Op: "creating", Path: s.dir, Err: err}
	}

	path := s.Path(locale)
	if err := atomic.WriteFile(path, bytes.NewReader(Marshal(entries))); err != nil {
		return &PathError{Op: "writing", Path: path, Err: err}
	}
	return nil
}

// Update merges newEntries into a locale (read-merge-write); new entries win
// on key collision. It returns how many keys were added and replaced.
func (s *Store) Update(locale string, newEntries map[string]string) (added, replaced int, err error) {
	entries, err := s.Read(locale)
	if err != nil {
		return 0, 0, err
	}
	for k, v := range newEntries {
		if old, ok := entries[k]; ok {
			if old != v {
				replaced++
			}
		} else {
			added++
		}
		entries[k] = v
	}
	return added, replaced, s.Write(locale, entries)
}

// ValidationReport is the outcome of a structural check of one locale file.
type ValidationReport struct {
	IsValid bool
	Errors  []string
}

// ValidateStructure checks that a locale file parses as a flat string-keyed,
// string-valued mapping. Structural problems land in the report; only
// file-system failures return an error. A missing file is trivially valid.
func (s *Store) ValidateStructure(locale string) (ValidationReport, error) {
	path := s.Path(locale)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ValidationReport{IsValid: true}, nil
		}
		return ValidationReport{}, &PathError{Op: "reading", Path: path, Err: err}
	}

	_, structErrs, err := parseFlatStringMap(path, data)
	if err != nil {
		var se *StructureError
		if errors.As(err, &se) {
			return ValidationReport{Errors: []string{se.Reason}}, nil
		}
		return ValidationReport{}, err
	}
	return ValidationReport{IsValid: len(structErrs) == 0, Errors: structErrs}, nil
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal renders entries as the canonical on-disk form: flat JSON object,
// keys sorted ascending, 2-space indent, trailing newline.
func Marshal(entries map[string]string) []byte {
	if len(entries) == 0 {
		return []byte("{}\n")
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{\n")
	for i, k := range keys {
		b.WriteString("  ")
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		b.WriteString(strconv.Quote(entries[k]))
		if i < len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

// parseFlatStringMap decodes a flat JSON object token by token so non-string
// values can be reported per key instead of failing opaquely. A document
// that is not a JSON object at all is a StructureError.
func parseFlatStringMap(path string, data []byte) (map[string]string, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	t, err := dec.Token()
	if err != nil {
		return nil, nil, &StructureError{Path: path, Reason: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, nil, &StructureError{Path: path, Reason: fmt.Sprintf("expected a JSON object, got %v", t)}
	}

	entries := make(map[string]string)
	var structErrs []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, &StructureError{Path: path, Reason: fmt.Sprintf("truncated JSON: %v", err)}
		}
		key, ok := kt.(string)
		if !ok {
			return nil, nil, &StructureError{Path: path, Reason: fmt.Sprintf("expected string key, got %v", kt)}
		}

		// A value may be any JSON value; only strings are legal here.
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, &StructureError{Path: path, Reason: fmt.Sprintf("key %q: %v", key, err)}
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			structErrs = append(structErrs, fmt.Sprintf("key %q has a non-string value: %s", key, raw))
			continue
		}
		entries[key] = value
	}

	return entries, structErrs, nil
}
