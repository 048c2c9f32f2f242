package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleJSON = `{
  "id": 1,
  "slug": "records",
  "jdkVersion": 16,
  "ratio": 1.5,
  "draft": false,
  "prev": null,
  "oldCode": "final class Point {\n    int x;\n}",
  "modernCode": "record Point(int x) {}\n",
  "whyModernWins": [{"icon": "⚡", "title": "yes", "desc": "123"}]
}`

func TestToYAML_Styles(t *testing.T) {
	out, err := ToYAML([]byte(sampleJSON))
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "id: 1\nslug: \"records\"\n"), s)
	assert.Contains(t, s, "jdkVersion: 16\n")
	assert.Contains(t, s, "ratio: 1.5\n")
	assert.Contains(t, s, "draft: false\n")
	assert.Contains(t, s, "oldCode: |-\n  final class Point {\n      int x;\n  }\n")
	assert.Contains(t, s, "modernCode: |\n  record Point(int x) {}\n")
	assert.Contains(t, s, `title: "yes"`, "strings that look like booleans stay quoted")
	assert.Contains(t, s, `desc: "123"`)
	assert.Less(t, strings.Index(s, "slug:"), strings.Index(s, "whyModernWins:"), "key order kept")
}

func TestToYAML_RoundTrips(t *testing.T) {
	out, err := ToYAML([]byte(sampleJSON))
	require.NoError(t, err)
	require.NoError(t, Verify([]byte(sampleJSON), out))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "123", decoded["whyModernWins"].([]any)[0].(map[string]any)["desc"])
	assert.Nil(t, decoded["prev"])
}

func TestToYAML_Invalid(t *testing.T) {
	_, err := ToYAML([]byte(`{"a": `))
	require.Error(t, err)

	_, err = ToYAML([]byte(`{"a": 1} {"b": 2}`))
	require.Error(t, err)
}

func TestVerify_Mismatch(t *testing.T) {
	err := Verify([]byte(`{"a": 1}`), []byte("a: 2\n"))
	require.ErrorIs(t, err, ErrMismatch)

	err = Verify([]byte(`{"a": "1"}`), []byte("a: 1\n"))
	require.ErrorIs(t, err, ErrMismatch, "type change is a mismatch")

	require.NoError(t, Verify([]byte(`{"a": 1}`), []byte("a: 1.0\n")))
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestRun(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "language", "records.json"), sampleJSON)
	writeFile(t, filepath.Join(src, "language", "broken.json"), `{"slug": `)
	writeFile(t, filepath.Join(src, "language", "notes.yaml"), "slug: x\n")
	writeFile(t, filepath.Join(src, "streams", "gatherers.json"), `{"slug": "gatherers"}`)
	writeFile(t, filepath.Join(src, "README.md"), "ignored")

	t.Run("verify only", func(t *testing.T) {
		report, err := Run(Options{SourceDir: src})
		require.NoError(t, err)
		assert.Len(t, report.Files, 3)
		assert.Equal(t, 2, report.Verified)
		assert.Equal(t, 0, report.Written)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, filepath.Join(src, "language", "broken.json"), report.Files[0].Source)
		assert.Error(t, report.Files[0].Err)
	})

	t.Run("write", func(t *testing.T) {
		dst := t.TempDir()
		report, err := Run(Options{SourceDir: src, TargetDir: dst})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Written)

		out := filepath.Join(dst, "language", "records.yaml")
		assert.FileExists(t, out)
		assert.FileExists(t, filepath.Join(dst, "streams", "gatherers.yaml"))
		assert.NoFileExists(t, filepath.Join(dst, "language", "broken.yaml"))

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		require.NoError(t, Verify([]byte(sampleJSON), data))
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := Run(Options{SourceDir: filepath.Join(src, "nope")})
		require.Error(t, err)
	})
}
