// Package backup snapshots the locale store before destructive operations.
//
// Snapshots live under a .backups subdirectory of the store, one directory
// per snapshot, each holding copies of the locale files plus a YAML manifest
// recording exactly which files were copied. Restore trusts the manifest and
// nothing else: it overwrites only the listed files, and a manifest entry
// with no matching snapshot file means the snapshot is corrupt.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BackupsDirName is the snapshot directory name inside the locale store.
const BackupsDirName = ".backups"

// manifestName is the per-snapshot manifest file name.
const manifestName = "manifest.yaml"

// ErrNotFound is returned when a backup ID does not exist.
var ErrNotFound = errors.New("backup not found")

// ErrSnapshotCorrupt is returned when a manifest references a file missing
// from its snapshot directory.
var ErrSnapshotCorrupt = errors.New("snapshot corrupt")

// Info is the manifest of one snapshot.
type Info struct {
	ID          string    `yaml:"id"`
	Timestamp   time.Time `yaml:"timestamp"`
	Files       []string  `yaml:"files"`
	Description string    `yaml:"description,omitempty"`
}

// Manager creates, lists, restores, and prunes snapshots of one locale
// store directory.
type Manager struct {
	storeDir string
	seq      int
	now      func() time.Time
}

// NewManager creates a Manager over the given locale store directory.
func NewManager(storeDir string) *Manager {
	return &Manager{storeDir: storeDir, now: time.Now}
}

// BackupsDir returns the snapshot root directory.
func (m *Manager) BackupsDir() string {
	return filepath.Join(m.storeDir, BackupsDirName)
}

// Create snapshots every current locale file and returns the new backup ID.
// Locale files that don't exist yet are simply absent from the manifest; a
// store with no files still yields a valid (empty) snapshot.
func (m *Manager) Create(description string) (string, error) {
	if err := os.MkdirAll(m.BackupsDir(), 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", m.BackupsDir(), err)
	}

	ts := m.now().UTC()
	var id, snapDir string
	for {
		m.seq++
		id = fmt.Sprintf("backup_%s_%03d", ts.Format("20060102_150405"), m.seq)
		snapDir = filepath.Join(m.BackupsDir(), id)
		err := os.Mkdir(snapDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("creating %s: %w", snapDir, err)
		}
		// Another invocation minted this ID in the same second; take the
		// next sequence number instead of clobbering its snapshot.
	}

	files, err := m.localeFiles()
	if err != nil {
		return "", err
	}
	for _, name := range files {
		src := filepath.Join(m.storeDir, name)
		if err := copyFile(src, filepath.Join(snapDir, name)); err != nil {
			return "", fmt.Errorf("copying %s: %w", src, err)
		}
	}

	info := Info{
		ID:          id,
		Timestamp:   ts,
		Files:       files,
		Description: description,
	}
	data, err := yaml.Marshal(&info)
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(snapDir, manifestName), data, 0644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return id, nil
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.BackupsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", m.BackupsDir(), err)
	}

	var infos []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := m.readManifest(e.Name())
		if err != nil {
			// A snapshot without a readable manifest is unusable;
			// listing the rest is more useful than failing.
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].Timestamp.Equal(infos[j].Timestamp) {
			return infos[i].Timestamp.After(infos[j].Timestamp)
		}
		return infos[i].ID > infos[j].ID
	})
	return infos, nil
}

// Get returns the manifest for one backup ID.
func (m *Manager) Get(id string) (Info, error) {
	return m.readManifest(id)
}

// Restore overwrites exactly the files listed in the backup's manifest with
// the snapshot copies. Every listed file is verified to exist in the
// snapshot before anything is touched, so a corrupt snapshot never leaves
// the store half-restored.
func (m *Manager) Restore(id string) error {
	info, err := m.readManifest(id)
	if err != nil {
		return err
	}
	snapDir := filepath.Join(m.BackupsDir(), id)

	for _, name := range info.Files {
		if _, err := os.Stat(filepath.Join(snapDir, name)); err != nil {
			return fmt.Errorf("%w: %s missing from %s", ErrSnapshotCorrupt, name, id)
		}
	}
	for _, name := range info.Files {
		src := filepath.Join(snapDir, name)
		if err := copyFile(src, filepath.Join(m.storeDir, name)); err != nil {
			return fmt.Errorf("restoring %s: %w", name, err)
		}
	}
	return nil
}

// Delete removes one snapshot.
func (m *Manager) Delete(id string) error {
	snapDir := filepath.Join(m.BackupsDir(), id)
	if _, err := os.Stat(snapDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("checking %s: %w", snapDir, err)
	}
	return os.RemoveAll(snapDir)
}

// CleanupOld deletes all but the keep most recent snapshots and reports how
// many were removed. A no-op when the count is already within keep.
func (m *Manager) CleanupOld(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	infos, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(infos) <= keep {
		return 0, nil
	}

	removed := 0
	for _, info := range infos[keep:] {
		if err := m.Delete(info.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (m *Manager) readManifest(id string) (Info, error) {
	path := filepath.Join(m.BackupsDir(), id, manifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Info{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if info.ID == "" {
		info.ID = id
	}
	return info, nil
}

// localeFiles lists the current locale file names in the store directory.
func (m *Manager) localeFiles() ([]string, error) {
	entries, err := os.ReadDir(m.storeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", m.storeDir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
