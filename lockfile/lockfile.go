// Package lockfile implements sitegen.lock, a manifest of MD5 checksums for
// every file a build writes, grouped by locale. Builds always rewrite their
// outputs; the manifest only lets a build report which files actually
// changed and which outputs from an earlier build are no longer produced.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default manifest file name.
const LockFileName = "sitegen.lock"

// Version is the manifest format version.
const Version = 1

// Change classifies an output against the previous build.
type Change int

const (
	Unchanged Change = iota
	Added
	Modified
)

func (c Change) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	default:
		return "unchanged"
	}
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile represents the sitegen.lock file structure.
type LockFile struct {
	Version   int                          `yaml:"version"`
	Checksums map[string]map[string]string `yaml:"checksums"` // locale -> output path -> md5

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads the manifest at path.
// Returns an empty manifest if the file doesn't exist.
func Load(path string) (*LockFile, error) {
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path

	if lf.Checksums == nil {
		lf.Checksums = make(map[string]map[string]string)
	}
	if lf.Version != Version {
		return nil, fmt.Errorf("%s: unsupported version %d", path, lf.Version)
	}

	return lf, nil
}

// Save writes the manifest to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(lf.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the manifest path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Checksum operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of data.
func Hash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// OutputKey normalises an output path relative to the output root.
func OutputKey(relPath string) string {
	return filepath.ToSlash(relPath)
}

// Record stores the checksum of an output and reports how it compares with
// the previous build.
func (lf *LockFile) Record(locale, relPath string, data []byte) Change {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	key := OutputKey(relPath)
	hash := Hash(data)

	if lf.Checksums[locale] == nil {
		lf.Checksums[locale] = make(map[string]string)
	}
	old, ok := lf.Checksums[locale][key]
	lf.Checksums[locale][key] = hash

	switch {
	case !ok:
		return Added
	case old != hash:
		return Modified
	default:
		return Unchanged
	}
}

// Clean drops entries for locale that are not in current and returns the
// dropped paths, sorted.
func (lf *LockFile) Clean(locale string, current []string) []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	existing := lf.Checksums[locale]
	if existing == nil {
		return nil
	}

	valid := make(map[string]bool, len(current))
	for _, k := range current {
		valid[OutputKey(k)] = true
	}

	var stale []string
	for k := range existing {
		if !valid[k] {
			delete(existing, k)
			stale = append(stale, k)
		}
	}
	sort.Strings(stale)
	return stale
}

// RemoveLocale removes all checksums for a locale.
func (lf *LockFile) RemoveLocale(locale string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	delete(lf.Checksums, locale)
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of locales and total outputs in the manifest.
func (lf *LockFile) Stats() (locales, outputs int) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	locales = len(lf.Checksums)
	for _, m := range lf.Checksums {
		outputs += len(m)
	}
	return
}

// Locales returns the sorted list of locales in the manifest.
func (lf *LockFile) Locales() []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	locales := make([]string, 0, len(lf.Checksums))
	for l := range lf.Checksums {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Count returns the number of outputs recorded for locale.
func (lf *LockFile) Count(locale string) int {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return len(lf.Checksums[locale])
}

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	locales, outputs := lf.Stats()
	if locales == 0 {
		return "empty"
	}

	var parts []string
	for _, l := range lf.Locales() {
		parts = append(parts, fmt.Sprintf("%s: %d files", l, lf.Count(l)))
	}
	return fmt.Sprintf("%d locales, %d files (%s)", locales, outputs, strings.Join(parts, ", "))
}
