package docfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestFind_PrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "en.yaml"), "a: 1\n")
	writeFile(t, filepath.Join(dir, "en.json"), `{"a": 1}`)
	writeFile(t, filepath.Join(dir, "de.yml"), "a: 1\n")

	assert.Equal(t, filepath.Join(dir, "en.json"), Find(dir, "en"))
	assert.Equal(t, filepath.Join(dir, "de.yml"), Find(dir, "de"))
	assert.Empty(t, Find(dir, "fr"))
	assert.Empty(t, Find(filepath.Join(dir, "missing"), "en"))
}

func TestList_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yaml"), "")
	writeFile(t, filepath.Join(dir, "a.json"), "{}")
	writeFile(t, filepath.Join(dir, "c.yml"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.json"), 0755))

	files, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "c.yml"),
	}, files)

	files, err = List(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDecode_ByExtension(t *testing.T) {
	type doc struct {
		Title string `json:"title" yaml:"title"`
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"title": "Records"}`)
	writeFile(t, filepath.Join(dir, "b.yaml"), "title: Text Blocks\n")
	writeFile(t, filepath.Join(dir, "c.json"), `{"title": `)

	var a, b, c doc
	require.NoError(t, Decode(filepath.Join(dir, "a.json"), &a))
	require.NoError(t, Decode(filepath.Join(dir, "b.yaml"), &b))
	assert.Equal(t, "Records", a.Title)
	assert.Equal(t, "Text Blocks", b.Title)

	err := Decode(filepath.Join(dir, "c.json"), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c.json")
}

func TestUnmarshal_UnsupportedExtension(t *testing.T) {
	var v map[string]any
	assert.Error(t, Unmarshal(".toml", []byte("a = 1"), &v))
}
