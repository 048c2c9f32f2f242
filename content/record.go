// Package content models snippet records and loads them from the content
// tree:
//
//	content/<category>/<slug>.json
//	content/<category>/<slug>.yaml
//
// Each record describes one old-versus-modern code comparison. Records are
// identified by their "category/slug" key and never change once loaded;
// locale-specific variants are produced as copies (see Record.Clone).
package content

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Version is a platform version marker such as "21". Content files may
// spell it as a JSON number or a string; it is always kept as text.
type Version string

// UnmarshalJSON accepts both 21 and "21".
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Version(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("version must be a string or number, got %s", data)
	}
	*v = Version(n.String())
	return nil
}

// WhyItem is one "why the modern way wins" card.
type WhyItem struct {
	Icon  string `json:"icon" yaml:"icon"`
	Title string `json:"title" yaml:"title"`
	Desc  string `json:"desc" yaml:"desc"`
}

// DocLink points at reference documentation.
type DocLink struct {
	Title string `json:"title" yaml:"title"`
	Href  string `json:"href" yaml:"href"`
}

// Support describes platform availability. State is one of "available",
// "preview" or "experimental"; only Description is prose.
type Support struct {
	State       string `json:"state" yaml:"state"`
	Description string `json:"description" yaml:"description"`
}

// Record is a single snippet.
type Record struct {
	ID             int       `json:"id,omitempty" yaml:"id,omitempty"`
	Slug           string    `json:"slug" yaml:"slug"`
	Title          string    `json:"title" yaml:"title"`
	Category       string    `json:"category" yaml:"category"`
	Difficulty     string    `json:"difficulty" yaml:"difficulty"`
	JDKVersion     Version   `json:"jdkVersion" yaml:"jdkVersion"`
	OldLabel       string    `json:"oldLabel" yaml:"oldLabel"`
	ModernLabel    string    `json:"modernLabel" yaml:"modernLabel"`
	OldCode        string    `json:"oldCode" yaml:"oldCode"`
	ModernCode     string    `json:"modernCode" yaml:"modernCode"`
	Summary        string    `json:"summary" yaml:"summary"`
	Explanation    string    `json:"explanation" yaml:"explanation"`
	WhyModernWins  []WhyItem `json:"whyModernWins" yaml:"whyModernWins"`
	Support        Support   `json:"support" yaml:"support"`
	Prev           string    `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next           string    `json:"next,omitempty" yaml:"next,omitempty"`
	Related        []string  `json:"related,omitempty" yaml:"related,omitempty"`
	Docs           []DocLink `json:"docs,omitempty" yaml:"docs,omitempty"`
	OldApproach    string    `json:"oldApproach" yaml:"oldApproach"`
	ModernApproach string    `json:"modernApproach" yaml:"modernApproach"`

	// jdkNumber is set when the source file spelled jdkVersion as a number.
	jdkNumber bool
}

// UnmarshalJSON decodes a record and remembers how jdkVersion was spelled.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	var raw struct {
		JDKVersion json.RawMessage `json:"jdkVersion"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.jdkNumber = len(raw.JDKVersion) > 0 && raw.JDKVersion[0] != '"' && string(raw.JDKVersion) != "null"
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (r *Record) UnmarshalYAML(n *yaml.Node) error {
	type plain Record
	if err := n.Decode((*plain)(r)); err != nil {
		return err
	}
	r.jdkNumber = false
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != "jdkVersion" {
			continue
		}
		switch n.Content[i+1].ShortTag() {
		case "!!int", "!!float":
			r.jdkNumber = true
		}
	}
	return nil
}

// Key returns the "category/slug" identity of the record.
func (r *Record) Key() string {
	return r.Category + "/" + r.Slug
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	cp := *r
	if r.WhyModernWins != nil {
		cp.WhyModernWins = append([]WhyItem(nil), r.WhyModernWins...)
	}
	if r.Related != nil {
		cp.Related = append([]string(nil), r.Related...)
	}
	if r.Docs != nil {
		cp.Docs = append([]DocLink(nil), r.Docs...)
	}
	return &cp
}

// SearchEntry is the search-index view of a record: everything except the
// browsing structure (prev, next, related). JDKVersion keeps the JSON type
// the source file used, so 21 stays a number and "21" stays a string.
type SearchEntry struct {
	ID             int             `json:"id,omitempty"`
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Category       string          `json:"category"`
	Difficulty     string          `json:"difficulty"`
	JDKVersion     json.RawMessage `json:"jdkVersion"`
	OldLabel       string          `json:"oldLabel"`
	ModernLabel    string          `json:"modernLabel"`
	OldCode        string          `json:"oldCode"`
	ModernCode     string          `json:"modernCode"`
	Summary        string          `json:"summary"`
	Explanation    string          `json:"explanation"`
	WhyModernWins  []WhyItem       `json:"whyModernWins"`
	Support        Support         `json:"support"`
	Docs           []DocLink       `json:"docs,omitempty"`
	OldApproach    string          `json:"oldApproach"`
	ModernApproach string          `json:"modernApproach"`
}

// SearchEntry projects r into its search-index form.
func (r *Record) SearchEntry() SearchEntry {
	why := r.WhyModernWins
	if why == nil {
		why = []WhyItem{}
	}
	return SearchEntry{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Category:       r.Category,
		Difficulty:     r.Difficulty,
		JDKVersion:     r.jdkVersionJSON(),
		OldLabel:       r.OldLabel,
		ModernLabel:    r.ModernLabel,
		OldCode:        r.OldCode,
		ModernCode:     r.ModernCode,
		Summary:        r.Summary,
		Explanation:    r.Explanation,
		WhyModernWins:  why,
		Support:        r.Support,
		Docs:           r.Docs,
		OldApproach:    r.OldApproach,
		ModernApproach: r.ModernApproach,
	}
}

func (r *Record) jdkVersionJSON() json.RawMessage {
	if r.jdkNumber && json.Valid([]byte(r.JDKVersion)) {
		return json.RawMessage(r.JDKVersion)
	}
	data, _ := json.Marshal(string(r.JDKVersion))
	return data
}

// missingField returns the name of the first required field that is empty.
func (r *Record) missingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"slug", r.Slug},
		{"category", r.Category},
		{"title", r.Title},
		{"summary", r.Summary},
		{"difficulty", r.Difficulty},
		{"jdkVersion", string(r.JDKVersion)},
		{"oldLabel", r.OldLabel},
		{"oldCode", r.OldCode},
		{"modernLabel", r.ModernLabel},
		{"modernCode", r.ModernCode},
		{"oldApproach", r.OldApproach},
		{"modernApproach", r.ModernApproach},
		{"explanation", r.Explanation},
		{"support.state", r.Support.State},
	}
	for _, f := range required {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}
