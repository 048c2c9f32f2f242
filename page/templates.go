package page

import (
	"fmt"
	"os"
	"path/filepath"
)

// Template file names inside the templates directory.
const (
	PageTemplate        = "slug-template.html"
	WhyCardTemplate     = "why-card.html"
	RelatedCardTemplate = "related-card.html"
	SocialShareTemplate = "social-share.html"
	IndexTemplate       = "index.html"
	IndexCardTemplate   = "index-card.html"
	DocLinkTemplate     = "doc-link.html"
)

// TemplateFiles lists every template a build needs.
var TemplateFiles = []string{
	PageTemplate,
	WhyCardTemplate,
	RelatedCardTemplate,
	SocialShareTemplate,
	IndexTemplate,
	IndexCardTemplate,
	DocLinkTemplate,
}

// Templates is the read-only template set for a build.
type Templates struct {
	Page        string
	WhyCard     string
	RelatedCard string
	SocialShare string
	Index       string
	IndexCard   string
	DocLink     string
}

// LoadTemplates reads the full template set from dir. Every template is
// required.
func LoadTemplates(dir string) (*Templates, error) {
	read := func(name string) (string, error) {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("loading template %s: %w", name, err)
		}
		return string(data), nil
	}

	t := &Templates{}
	targets := []struct {
		name string
		dst  *string
	}{
		{PageTemplate, &t.Page},
		{WhyCardTemplate, &t.WhyCard},
		{RelatedCardTemplate, &t.RelatedCard},
		{SocialShareTemplate, &t.SocialShare},
		{IndexTemplate, &t.Index},
		{IndexCardTemplate, &t.IndexCard},
		{DocLinkTemplate, &t.DocLink},
	}
	for _, tgt := range targets {
		text, err := read(tgt.name)
		if err != nil {
			return nil, err
		}
		*tgt.dst = text
	}
	return t, nil
}
