package content

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/javaevolved/sitegen/docfile"
)

var (
	// ErrMissingField is wrapped when a record lacks a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrDuplicateKey is wrapped when two files resolve to the same key.
	ErrDuplicateKey = errors.New("duplicate record key")
	// ErrCategoryMismatch is wrapped when a record's category differs from
	// the directory it was found in.
	ErrCategoryMismatch = errors.New("category does not match directory")
)

// LoadError describes why the content tree could not be loaded.
type LoadError struct {
	Path  string
	Field string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v %q", e.Path, e.Err, e.Field)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Index holds records in build order and by key.
type Index struct {
	records []*Record
	byKey   map[string]*Record
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byKey: make(map[string]*Record)}
}

// Add appends rec. It fails if the key is already present.
func (ix *Index) Add(rec *Record) error {
	key := rec.Key()
	if _, exists := ix.byKey[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	ix.byKey[key] = rec
	ix.records = append(ix.records, rec)
	return nil
}

// Get looks a record up by "category/slug".
func (ix *Index) Get(key string) (*Record, bool) {
	rec, ok := ix.byKey[key]
	return rec, ok
}

// All returns the records in build order.
func (ix *Index) All() []*Record {
	return ix.records
}

// Len returns the number of records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Load reads every record under root for the given categories. Categories
// are visited in the order given; within a category files are read in
// filename order. Category directories that do not exist are skipped.
func Load(root string, categories []string) (*Index, error) {
	ix := NewIndex()

	for _, cat := range categories {
		files, err := docfile.List(filepath.Join(root, cat))
		if err != nil {
			return nil, err
		}

		for _, path := range files {
			rec, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			if rec.Category != cat {
				return nil, &LoadError{Path: path, Field: rec.Category, Err: ErrCategoryMismatch}
			}
			if err := ix.Add(rec); err != nil {
				return nil, &LoadError{Path: path, Err: err}
			}
		}
	}

	return ix, nil
}

// LoadFile decodes and validates a single record file.
func LoadFile(path string) (*Record, error) {
	var rec Record
	if err := docfile.Decode(path, &rec); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if field := rec.missingField(); field != "" {
		return nil, &LoadError{Path: path, Field: field, Err: ErrMissingField}
	}
	return &rec, nil
}
