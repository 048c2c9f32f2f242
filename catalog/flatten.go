package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/javaevolved/sitegen/propfile"
)

// Entry is one flattened string resource.
type Entry struct {
	// Key is the dot-joined path, e.g. "nav.home".
	Key   string
	Value string
}

// ReadFile reads a string resource and flattens it into document order.
// Supported extensions are .json, .yaml, .yml and .properties.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entries []Entry
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		entries, err = FlattenJSON(data)
	case ".yaml", ".yml":
		entries, err = FlattenYAML(data)
	case ".properties":
		entries, err = flattenProperties(data)
	default:
		err = fmt.Errorf("unsupported extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

// FlattenYAML flattens a nested YAML mapping into dot-joined keys. Scalars
// of any type become their literal text; null becomes "". Sequences are
// skipped.
func FlattenYAML(data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("root must be a mapping, got kind %d", root.Kind)
	}

	var entries []Entry
	collectNodes(root, "", &entries)
	return entries, nil
}

func collectNodes(node *yaml.Node, prefix string, entries *[]Entry) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		path := joinKey(prefix, keyNode.Value)

		if valNode.Kind == yaml.AliasNode && valNode.Alias != nil {
			valNode = valNode.Alias
		}

		switch valNode.Kind {
		case yaml.MappingNode:
			collectNodes(valNode, path, entries)
		case yaml.ScalarNode:
			value := valNode.Value
			if valNode.Tag == "!!null" {
				value = ""
			}
			*entries = append(*entries, Entry{Key: path, Value: value})
		}
	}
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

// FlattenJSON flattens a nested JSON object into dot-joined keys, keeping
// document order. Numbers keep their literal text, booleans become
// "true"/"false" and null becomes "". Arrays are skipped.
func FlattenJSON(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("root must be an object")
	}

	var entries []Entry
	if err := collectObject(dec, "", &entries); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after root object")
	}
	return entries, nil
}

// collectObject reads members up to and including the closing brace.
func collectObject(dec *json.Decoder, prefix string, entries *[]Entry) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		path := joinKey(prefix, key)

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case json.Delim:
			if v == '{' {
				if err := collectObject(dec, path, entries); err != nil {
					return err
				}
			} else if err := skipArray(dec); err != nil {
				return err
			}
		case string:
			*entries = append(*entries, Entry{Key: path, Value: v})
		case json.Number:
			*entries = append(*entries, Entry{Key: path, Value: v.String()})
		case bool:
			*entries = append(*entries, Entry{Key: path, Value: fmt.Sprint(v)})
		case nil:
			*entries = append(*entries, Entry{Key: path, Value: ""})
		}
	}
	_, err := dec.Token()
	return err
}

// skipArray consumes tokens up to the array's closing bracket.
func skipArray(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func flattenProperties(data []byte) ([]Entry, error) {
	f, err := propfile.Parse(data)
	if err != nil {
		return nil, err
	}
	pairs := f.Pairs()
	entries := make([]Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = Entry{Key: p.Key, Value: p.Value}
	}
	return entries, nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
