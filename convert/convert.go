// Package convert migrates JSON content records to YAML.
//
// Every string value is written either as a literal block (multi-line
// text such as code samples) or double-quoted, so that no value changes type
// when read back. Each conversion is verified by decoding the generated YAML
// and comparing it with the original JSON; files that do not round-trip are
// reported and never written.
package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/javaevolved/sitegen/logfields"
)

// ErrMismatch is returned by Verify when the YAML does not decode to the
// same value as the JSON.
var ErrMismatch = errors.New("yaml does not round-trip")

// Options configures Run.
type Options struct {
	// SourceDir holds one subdirectory per category with *.json records.
	SourceDir string
	// TargetDir receives <category>/<slug>.yaml. Empty means verify only.
	TargetDir string
	Logger    *slog.Logger
}

// FileResult is the outcome for one JSON file.
type FileResult struct {
	Source string
	// Target is the written YAML file, "" if nothing was written.
	Target string
	// YAML is the generated document, kept for mismatch reports.
	YAML []byte
	Err  error
}

// Report summarises a Run.
type Report struct {
	Files    []FileResult
	Verified int
	Written  int
	Failed   int
}

// Run converts and verifies every JSON record under opts.SourceDir.
// Per-file problems are recorded in the report; only an unreadable source
// directory is returned as an error.
func Run(opts Options) (*Report, error) {
	logger := logfields.Discard(opts.Logger)

	entries, err := os.ReadDir(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.SourceDir, err)
	}

	report := &Report{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		category := entry.Name()
		catDir := filepath.Join(opts.SourceDir, category)
		logger.Info("Processing category", logfields.Category(category))

		files, err := filepath.Glob(filepath.Join(catDir, "*.json"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)

		for _, src := range files {
			res := convertFile(src, category, opts)
			switch {
			case res.Err != nil:
				report.Failed++
				logger.Warn("Conversion failed", logfields.File(src), logfields.Error(res.Err))
			default:
				report.Verified++
				if res.Target != "" {
					report.Written++
				}
				logger.Debug("Converted and verified", logfields.File(src), logfields.Path(res.Target))
			}
			report.Files = append(report.Files, res)
		}
	}
	return report, nil
}

func convertFile(src, category string, opts Options) FileResult {
	res := FileResult{Source: src}

	data, err := os.ReadFile(src)
	if err != nil {
		res.Err = err
		return res
	}
	out, err := ToYAML(data)
	if err != nil {
		res.Err = err
		return res
	}
	res.YAML = out
	if err := Verify(data, out); err != nil {
		res.Err = err
		return res
	}

	if opts.TargetDir == "" {
		return res
	}
	target := filepath.Join(opts.TargetDir, category, strings.TrimSuffix(filepath.Base(src), ".json")+".yaml")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		res.Err = err
		return res
	}
	if err := os.WriteFile(target, out, 0644); err != nil {
		res.Err = fmt.Errorf("writing %s: %w", target, err)
		return res
	}
	res.Target = target
	return res
}

// ToYAML converts a JSON document to YAML, keeping key order.
func ToYAML(jsonData []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()

	root, err := jsonToNode(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing JSON: unexpected data after document")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func jsonToNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := jsonToNode(dec)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
			}
			_, err := dec.Token()
			return n, err
		case '[':
			n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				val, err := jsonToNode(dec)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, val)
			}
			_, err := dec.Token()
			return n, err
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case string:
		return stringNode(v), nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(v)}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// stringNode writes multi-line text as a literal block and everything else
// double-quoted.
func stringNode(s string) *yaml.Node {
	style := yaml.DoubleQuotedStyle
	if strings.Contains(s, "\n") {
		style = yaml.LiteralStyle
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: style}
}

// Verify checks that yamlData decodes to the same value as jsonData.
// Numbers compare by value.
func Verify(jsonData, yamlData []byte) error {
	var fromJSON, fromYAML any

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&fromJSON); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	if err := yaml.Unmarshal(yamlData, &fromYAML); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	if !reflect.DeepEqual(normalize(fromJSON), normalize(fromYAML)) {
		return ErrMismatch
	}
	return nil
}

// normalize maps decoded JSON and YAML values onto one representation.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return f
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	default:
		return v
	}
}
