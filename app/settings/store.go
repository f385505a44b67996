package settings

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Provider hands out the current settings snapshot. Snapshots are never
// mutated after Load returns them.
type Provider interface {
	Get() *Settings
}

var _ Provider = (*Store)(nil)

type Store struct {
	path    string
	homeURL string
	current *Settings
	mu      sync.RWMutex
}

// NewStore creates a settings store for path. A non-empty homeURL overrides
// home_url from the file.
func NewStore(path string, homeURL string) *Store {
	return &Store{
		path:    path,
		homeURL: homeURL,
	}
}

func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	settings, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if s.homeURL != "" {
		settings.HomeURL = strings.TrimRight(s.homeURL, "/")
	}

	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	slog.Debug("Settings loaded", "file", s.path, "items_per_sitemap", settings.ItemsPerSitemap,
		"taxonomies", len(settings.Taxonomies), "news", settings.News.Enabled)

	return settings, nil
}

func (s *Store) Get() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		panic("settings not loaded - call Load() first")
	}
	return s.current
}

// Parse decodes a settings document and applies defaults.
func Parse(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&settings)
	return &settings, nil
}

func setDefaults(settings *Settings) {
	if settings.ItemsPerSitemap == 0 {
		settings.ItemsPerSitemap = DefaultItemsPerSitemap
	}
	if settings.MaxItemsPerSitemap == 0 {
		settings.MaxItemsPerSitemap = DefaultMaxItemsPerSitemap
	}
	if settings.Locale == "" {
		settings.Locale = DefaultLocale
	}
	if settings.Groups.Base == "" {
		settings.Groups.Base = "groups"
	}
	if settings.Profiles.Base == "" {
		settings.Profiles.Base = "members"
	}
	if settings.News.PublicationName == "" {
		settings.News.PublicationName = settings.SiteName
	}
	settings.HomeURL = strings.TrimRight(settings.HomeURL, "/")
}

func Validate(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings is nil")
	}

	if settings.HomeURL == "" {
		return fmt.Errorf("home URL is required")
	}
	home, err := url.Parse(settings.HomeURL)
	if err != nil || home.Scheme == "" || home.Host == "" {
		return fmt.Errorf("home URL must be absolute: %q", settings.HomeURL)
	}

	nonNegativeFields := map[string]int{
		"items per sitemap":     settings.ItemsPerSitemap,
		"max items per sitemap": settings.MaxItemsPerSitemap,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for _, postType := range settings.News.PostTypes {
		if postType == "" {
			return fmt.Errorf("news post types must not contain empty names")
		}
	}

	return nil
}
