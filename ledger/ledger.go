// Package ledger implements kalid.lock — a ledger that remembers which
// key each piece of source text resolved to, per locale. Re-running the
// resolver over the same text then yields the same identifier instead of
// minting a fresh suffixed one.
//
// The ledger is stored alongside .kalid.yaml as kalid.lock.
package ledger

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the default ledger file name.
const FileName = "kalid.lock"

// Version is the ledger file format version.
const Version = 1

// Ledger maps each locale to resolved text fingerprints and their keys.
type Ledger struct {
	Version  int                          `yaml:"version"`
	Resolved map[string]map[string]string `yaml:"resolved"` // locale -> fingerprint -> key

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// Load reads a ledger from the given directory.
// Returns an empty ledger if the file doesn't exist.
func Load(dir string) (*Ledger, error) {
	path := filepath.Join(dir, FileName)
	lg := &Ledger{
		Version:  Version,
		Resolved: make(map[string]map[string]string),
		path:     path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lg.path = path

	if lg.Resolved == nil {
		lg.Resolved = make(map[string]map[string]string)
	}

	return lg, nil
}

// Save writes the ledger to disk.
func (lg *Ledger) Save() error {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if lg.path == "" {
		return fmt.Errorf("ledger path not set")
	}

	data, err := yaml.Marshal(lg)
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}

	if err := os.WriteFile(lg.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lg.path, err)
	}

	return nil
}

// Path returns the ledger file path.
func (lg *Ledger) Path() string {
	return lg.path
}

// Fingerprint identifies one piece of text in one context. The context is
// included so the same text can carry different keys under different
// contexts (btn_save vs label_save).
func Fingerprint(text, context string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(context+"\x00"+text)))
}

// Lookup returns the key previously minted for a fingerprint, if any.
func (lg *Ledger) Lookup(locale, fingerprint string) (string, bool) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	keys, ok := lg.Resolved[locale]
	if !ok {
		return "", false
	}
	key, ok := keys[fingerprint]
	return key, ok
}

// Record remembers the key minted for a fingerprint.
func (lg *Ledger) Record(locale, fingerprint, key string) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if lg.Resolved[locale] == nil {
		lg.Resolved[locale] = make(map[string]string)
	}
	lg.Resolved[locale][fingerprint] = key
}

// Clean drops entries whose key no longer exists in the locale store, so a
// manually deleted key is minted fresh on the next run instead of being
// resurrected from the ledger.
func (lg *Ledger) Clean(locale string, storeKeys []string) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	entries := lg.Resolved[locale]
	if entries == nil {
		return
	}

	valid := make(map[string]bool, len(storeKeys))
	for _, k := range storeKeys {
		valid[k] = true
	}

	for fp, key := range entries {
		if !valid[key] {
			delete(entries, fp)
		}
	}
}

// RemoveLocale drops all entries for a locale.
func (lg *Ledger) RemoveLocale(locale string) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	delete(lg.Resolved, locale)
}

// Stats returns the number of locales and total remembered resolutions.
func (lg *Ledger) Stats() (locales, entries int) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	locales = len(lg.Resolved)
	for _, m := range lg.Resolved {
		entries += len(m)
	}
	return
}

// Locales returns the sorted list of locales with remembered resolutions.
func (lg *Ledger) Locales() []string {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	locales := make([]string, 0, len(lg.Resolved))
	for loc := range lg.Resolved {
		locales = append(locales, loc)
	}
	sort.Strings(locales)
	return locales
}
