// Package config loads the site configuration.
//
// Settings come from three places, later ones winning:
//
//  1. built-in defaults
//  2. sitegen.yaml in the project root (optional)
//  3. SITEGEN_* environment variables (a .env file is honoured by the CLI)
//
// The ordered category and locale lists are read from two .properties
// files whose paths are part of the settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file name.
const FileName = "sitegen.yaml"

// SiteFile is the sitegen.yaml structure. Relative paths are resolved
// against the project root.
type SiteFile struct {
	BaseURL         string `yaml:"base_url,omitempty"`
	SiteName        string `yaml:"site_name,omitempty"`
	BaseLocale      string `yaml:"base_locale,omitempty"`
	ContentDir      string `yaml:"content_dir,omitempty"`
	TemplatesDir    string `yaml:"templates_dir,omitempty"`
	TranslationsDir string `yaml:"translations_dir,omitempty"`
	OutputDir       string `yaml:"output_dir,omitempty"`
	CategoriesFile  string `yaml:"categories_file,omitempty"`
	LocalesFile     string `yaml:"locales_file,omitempty"`
	ProofDir        string `yaml:"proof_dir,omitempty"`
	ProofExt        string `yaml:"proof_ext,omitempty"`
	ProofURL        string `yaml:"proof_url,omitempty"`
	IssuesURL       string `yaml:"issues_url,omitempty"`
	Manifest        string `yaml:"manifest,omitempty"`
}

// envOverrides lists the settings that may be overridden from the
// environment.
type envOverrides struct {
	BaseURL         string `env:"SITEGEN_BASE_URL"`
	SiteName        string `env:"SITEGEN_SITE_NAME"`
	OutputDir       string `env:"SITEGEN_OUTPUT_DIR"`
	ContentDir      string `env:"SITEGEN_CONTENT_DIR"`
	TemplatesDir    string `env:"SITEGEN_TEMPLATES_DIR"`
	TranslationsDir string `env:"SITEGEN_TRANSLATIONS_DIR"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() SiteFile {
	return SiteFile{
		BaseURL:         "https://javaevolved.github.io",
		SiteName:        "java.evolved",
		BaseLocale:      "en",
		ContentDir:      "content",
		TemplatesDir:    "templates",
		TranslationsDir: "translations",
		OutputDir:       "site",
		CategoriesFile:  "html-generators/categories.properties",
		LocalesFile:     "html-generators/locales.properties",
		ProofDir:        "proof",
		ProofExt:        ".java",
		ProofURL:        "https://github.com/javaevolved/javaevolved.github.io/blob/main/proof",
		IssuesURL:       "https://github.com/javaevolved/javaevolved.github.io/issues/new",
		Manifest:        "sitegen.lock",
	}
}

// LoadSiteFile reads sitegen.yaml from rootDir and fills every unset field
// from Defaults. A missing file is not an error. Unknown keys are rejected.
func LoadSiteFile(rootDir string) (*SiteFile, error) {
	sf := &SiteFile{}

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(sf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	sf.applyDefaults()
	return sf, nil
}

// ApplyEnv overrides settings from SITEGEN_* environment variables.
func (sf *SiteFile) ApplyEnv() error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&sf.BaseURL, ov.BaseURL)
	set(&sf.SiteName, ov.SiteName)
	set(&sf.OutputDir, ov.OutputDir)
	set(&sf.ContentDir, ov.ContentDir)
	set(&sf.TemplatesDir, ov.TemplatesDir)
	set(&sf.TranslationsDir, ov.TranslationsDir)
	return nil
}

func (sf *SiteFile) applyDefaults() {
	def := Defaults()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&sf.BaseURL, def.BaseURL)
	fill(&sf.SiteName, def.SiteName)
	fill(&sf.BaseLocale, def.BaseLocale)
	fill(&sf.ContentDir, def.ContentDir)
	fill(&sf.TemplatesDir, def.TemplatesDir)
	fill(&sf.TranslationsDir, def.TranslationsDir)
	fill(&sf.OutputDir, def.OutputDir)
	fill(&sf.CategoriesFile, def.CategoriesFile)
	fill(&sf.LocalesFile, def.LocalesFile)
	fill(&sf.ProofDir, def.ProofDir)
	fill(&sf.ProofExt, def.ProofExt)
	fill(&sf.ProofURL, def.ProofURL)
	fill(&sf.IssuesURL, def.IssuesURL)
	fill(&sf.Manifest, def.Manifest)
}

func (sf *SiteFile) validate() error {
	if !strings.HasPrefix(sf.BaseURL, "http://") && !strings.HasPrefix(sf.BaseURL, "https://") {
		return fmt.Errorf("base_url %q must be an absolute http(s) URL", sf.BaseURL)
	}
	if sf.ProofExt != "" && !strings.HasPrefix(sf.ProofExt, ".") {
		return fmt.Errorf("proof_ext %q must start with a dot", sf.ProofExt)
	}
	return nil
}
