package config

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

func writeProject(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "html-generators", "categories.properties"),
		"# categories\nlanguage=Language\ncollections=Collections\nstrings=Strings\n")
	writeFile(t, filepath.Join(dir, "html-generators", "locales.properties"),
		"en=🇬🇧 English\nde=🇩🇪 Deutsch\npt-BR=🇧🇷 Português\n")
}

func TestLoadSiteFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		sf, err := LoadSiteFile(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Defaults(), *sf)
	})

	t.Run("overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "base_url: https://example.org/\noutput_dir: public\n")

		sf, err := LoadSiteFile(dir)
		require.NoError(t, err)
		assert.Equal(t, "https://example.org/", sf.BaseURL)
		assert.Equal(t, "public", sf.OutputDir)
		assert.Equal(t, "content", sf.ContentDir)
		assert.Equal(t, "en", sf.BaseLocale)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "")
		sf, err := LoadSiteFile(dir)
		require.NoError(t, err)
		assert.Equal(t, Defaults(), *sf)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "baseurl: https://example.org\n")
		_, err := LoadSiteFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), FileName)
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SITEGEN_BASE_URL", "https://staging.example.org")
	t.Setenv("SITEGEN_OUTPUT_DIR", "/tmp/out")

	sf := Defaults()
	require.NoError(t, sf.ApplyEnv())
	assert.Equal(t, "https://staging.example.org", sf.BaseURL)
	assert.Equal(t, "/tmp/out", sf.OutputDir)
	assert.Equal(t, "java.evolved", sf.SiteName)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir)
	writeFile(t, filepath.Join(dir, FileName), "base_url: https://example.org/\n")

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://example.org", s.BaseURL)
	assert.Equal(t, []string{"language", "collections", "strings"}, s.CategoryKeys())
	assert.Equal(t, []string{"en", "de", "pt-BR"}, s.LocaleCodes())
	assert.Equal(t, filepath.Join(dir, "content"), s.ContentDir)
	assert.Equal(t, filepath.Join(dir, "sitegen.lock"), s.ManifestPath)
	assert.Equal(t, "Collections", s.CategoryDisplay("collections"))
	assert.Equal(t, "unknown", s.CategoryDisplay("unknown"))
	assert.Equal(t, "🇩🇪 Deutsch", s.LocaleName("de"))
	assert.Equal(t, "Français", s.LocaleName("fr"))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing categories file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "categories")
	})

	t.Run("invalid locale code", func(t *testing.T) {
		dir := t.TempDir()
		writeProject(t, dir)
		writeFile(t, filepath.Join(dir, "html-generators", "locales.properties"), "en=English\nnot a locale=Nope\n")
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid locale code")
	})

	t.Run("base locale not listed", func(t *testing.T) {
		dir := t.TempDir()
		writeProject(t, dir)
		writeFile(t, filepath.Join(dir, FileName), "base_locale: fr\n")
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base locale")
	})

	t.Run("relative base url", func(t *testing.T) {
		dir := t.TempDir()
		writeProject(t, dir)
		writeFile(t, filepath.Join(dir, FileName), "base_url: example.org\n")
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_url")
	})
}

func TestLocalePaths(t *testing.T) {
	s := &Site{BaseLocale: "en", OutputDir: "/out", TranslationsDir: "/tr"}

	assert.Equal(t, "", s.LocalePrefix("en"))
	assert.Equal(t, "/de", s.LocalePrefix("de"))
	assert.Equal(t, "/out", s.LocaleOutputDir("en"))
	assert.Equal(t, filepath.Join("/out", "de"), s.LocaleOutputDir("de"))
	assert.Equal(t, filepath.Join("/tr", "strings"), s.StringsDir())
	assert.Equal(t, filepath.Join("/tr", "content", "de"), s.ContentTranslationsDir("de"))
}
