package settings

import "slices"

const (
	DefaultItemsPerSitemap    = 1000
	DefaultMaxItemsPerSitemap = 50000
	DefaultLocale             = "en_US"
)

// Settings is one immutable snapshot of the sitemap settings file.
type Settings struct {
	SiteName           string   `yaml:"site_name"`
	HomeURL            string   `yaml:"home_url"`
	Locale             string   `yaml:"locale"`
	ItemsPerSitemap    int      `yaml:"items_per_sitemap"`
	MaxItemsPerSitemap int      `yaml:"max_items_per_sitemap"`
	Components         []string `yaml:"components"` // active social components (groups, members)

	Permalinks Permalinks `yaml:"permalinks"`

	TermsEnabled     *bool                   `yaml:"terms_enabled"`
	Taxonomies       map[string]TypeSettings `yaml:"taxonomies"`
	PostTypesEnabled *bool                   `yaml:"post_types_enabled"`
	PostTypes        map[string]TypeSettings `yaml:"post_types"`

	Groups   SocialSettings `yaml:"groups"`
	Profiles SocialSettings `yaml:"profiles"`
	Extras   ExtrasSettings `yaml:"extras"`
	News     NewsSettings   `yaml:"news"`
}

type Permalinks struct {
	Pretty bool              `yaml:"pretty"`
	Bases  map[string]string `yaml:"bases"` // taxonomy -> path prefix
}

// TypeSettings applies to one taxonomy or post type. Declared types are
// included unless Excluded is set.
type TypeSettings struct {
	Excluded   bool     `yaml:"excluded"`
	IgnoreIDs  []int64  `yaml:"ignore_ids"`
	IgnoreURLs []string `yaml:"ignore_urls"`
}

type SocialSettings struct {
	Enabled    bool     `yaml:"enabled"`
	Base       string   `yaml:"base"`
	IgnoreIDs  []int64  `yaml:"ignore_ids"`
	IgnoreURLs []string `yaml:"ignore_urls"`
}

type ExtrasSettings struct {
	Enabled    bool       `yaml:"enabled"`
	URLs       []ExtraURL `yaml:"urls"`
	IgnoreURLs []string   `yaml:"ignore_urls"`
}

type ExtraURL struct {
	URL          string `yaml:"url"`
	LastModified string `yaml:"last_modified"` // RFC 3339 or YYYY-MM-DD
}

// NewsSettings is opt-in: only listed post types produce news sitemaps.
type NewsSettings struct {
	Enabled         bool     `yaml:"enabled"`
	PublicationName string   `yaml:"publication_name"`
	PostTypes       []string `yaml:"post_types"`
	Categories      []int64  `yaml:"categories"`
	ExcludeTerms    []int64  `yaml:"exclude_terms"`
	IgnoreIDs       []int64  `yaml:"ignore_ids"`
	IgnoreURLs      []string `yaml:"ignore_urls"`
}

func (s *Settings) ComponentActive(name string) bool {
	return slices.Contains(s.Components, name)
}

func (s *Settings) TermsOn() bool {
	return s.TermsEnabled == nil || *s.TermsEnabled
}

func (s *Settings) PostTypesOn() bool {
	return s.PostTypesEnabled == nil || *s.PostTypesEnabled
}

// TaxonomyBase returns the pretty-permalink path prefix for a taxonomy.
func (s *Settings) TaxonomyBase(taxonomy string) string {
	if base, ok := s.Permalinks.Bases[taxonomy]; ok && base != "" {
		return base
	}
	switch taxonomy {
	case "category":
		return "category"
	case "post_tag":
		return "tag"
	}
	return taxonomy
}
