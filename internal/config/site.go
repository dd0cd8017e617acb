package config

import "sort"

// SelectorKind identifies how a selector expression is evaluated.
type SelectorKind string

const (
	KindCSS   SelectorKind = "css"
	KindXPath SelectorKind = "xpath"
	KindRegex SelectorKind = "regex"
)

// SelectorRule is a single extraction attempt within a field's fallback
// chain. Rules are tried in configured order; the first non-empty match
// wins.
type SelectorRule struct {
	// Expression is a CSS selector, XPath expression or regular
	// expression, depending on Kind.
	Expression string `json:"expression"`

	// Attribute names an HTML attribute to extract instead of text
	// content. Empty or "text" means text content; "html" means inner
	// HTML. Ignored for regex rules.
	Attribute string `json:"attribute,omitempty"`

	// Kind selects the evaluation strategy. Defaults to css.
	Kind SelectorKind `json:"kind,omitempty"`

	// Join, when set, concatenates every match with this separator
	// instead of taking the first match. Used for bodies assembled
	// from paragraph elements.
	Join string `json:"join,omitempty"`
}

// URLPatterns restricts which page URLs a site's rules apply to.
type URLPatterns struct {
	// Article, when set, is a regular expression a page URL must match.
	Article string `json:"article,omitempty"`

	// Exclude lists substrings that disqualify a URL (e.g. "video",
	// "gallery").
	Exclude []string `json:"exclude,omitempty"`
}

// SiteConfig describes how to extract articles from one news source.
// It is immutable for the duration of a run.
type SiteConfig struct {
	// ID is the catalogue key; set by the loader.
	ID string `json:"-"`

	// Name is the human-readable source name.
	Name string `json:"name"`

	// Enabled sources are loaded into the catalogue; others are skipped.
	Enabled bool `json:"enabled"`

	// Locale disambiguates numeric date forms: "dmy" or "mdy".
	// Falls back to the engine default when empty.
	Locale string `json:"locale,omitempty"`

	// Timezone is the IANA zone assumed for zone-less dates.
	Timezone string `json:"timezone,omitempty"`

	// Fields maps a logical field name (title, body, author,
	// published_at, ...) to its ordered fallback chain.
	Fields map[string][]SelectorRule `json:"fields"`

	// URLPatterns filters which URLs count as articles for this site.
	URLPatterns URLPatterns `json:"url_patterns,omitempty"`

	// TitleSuffixes are boilerplate endings stripped from titles
	// (e.g. " - CNN", " | Reuters").
	TitleSuffixes []string `json:"title_suffixes,omitempty"`
}

// Catalogue is the immutable set of enabled site configurations, loaded
// once and passed explicitly into the engine.
type Catalogue struct {
	sites map[string]*SiteConfig
}

// NewCatalogue builds a catalogue from sites keyed by ID.
func NewCatalogue(sites map[string]*SiteConfig) *Catalogue {
	return &Catalogue{sites: sites}
}

// Get returns the configuration for a source ID.
func (c *Catalogue) Get(id string) (*SiteConfig, bool) {
	s, ok := c.sites[id]
	return s, ok
}

// IDs returns all source IDs in sorted order.
func (c *Catalogue) IDs() []string {
	ids := make([]string, 0, len(c.sites))
	for id := range c.sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of loaded sources.
func (c *Catalogue) Len() int {
	return len(c.sites)
}
