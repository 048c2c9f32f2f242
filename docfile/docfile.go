// Package docfile locates and decodes the structured data files the site is
// authored in. JSON and YAML are interchangeable: a record, a translation or
// a string resource may use any of the supported extensions.
package docfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extensions lists the supported extensions in lookup priority order.
var Extensions = []string{".json", ".yaml", ".yml"}

// IsStructured reports whether name has one of the supported extensions.
func IsStructured(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Find returns the first existing file named base+ext in dir, trying
// Extensions in order. Returns "" when none exists.
func Find(dir, base string) string {
	for _, ext := range Extensions {
		p := filepath.Join(dir, base+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// List returns the structured files directly inside dir, sorted by
// filename. A missing directory yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsStructured(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Decode reads path and unmarshals it into v, choosing the decoder from the
// file extension.
func Decode(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := Unmarshal(filepath.Ext(path), data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Unmarshal decodes data according to ext (".json", ".yaml" or ".yml").
func Unmarshal(ext string, data []byte, v any) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported extension %q", ext)
	}
}
