package settings

import (
	"os"
	"path/filepath"
	"testing"
)

const validSettings = `
site_name: "Example News"
home_url: "https://example.com/"
locale: "de_DE"
items_per_sitemap: 10
components: [groups]

permalinks:
  pretty: true
  bases:
    category: topics

taxonomies:
  category:
    ignore_ids: [5]
    ignore_urls: ["https://example.com/?cat=7"]
  post_tag:
    excluded: true

groups:
  enabled: true

extras:
  enabled: true
  urls:
    - url: "https://example.com/landing/"
      last_modified: "2024-01-02"

news:
  enabled: true
  post_types: [post]
  exclude_terms: [3]
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitemap.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStoreLoadValidSettings(t *testing.T) {
	store := NewStore(writeSettings(t, validSettings), "")

	settings, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}

	if settings.HomeURL != "https://example.com" {
		t.Errorf("Expected trailing slash trimmed from home URL, got '%s'", settings.HomeURL)
	}
	if settings.ItemsPerSitemap != 10 {
		t.Errorf("Expected items per sitemap 10, got %d", settings.ItemsPerSitemap)
	}
	if settings.MaxItemsPerSitemap != DefaultMaxItemsPerSitemap {
		t.Errorf("Expected default ceiling %d, got %d", DefaultMaxItemsPerSitemap, settings.MaxItemsPerSitemap)
	}
	if !settings.Taxonomies["post_tag"].Excluded {
		t.Error("Expected post_tag to be excluded")
	}
	if got := settings.Taxonomies["category"].IgnoreIDs; len(got) != 1 || got[0] != 5 {
		t.Errorf("Expected category ignore IDs [5], got %v", got)
	}
	if settings.News.PublicationName != "Example News" {
		t.Errorf("Expected publication name to default to site name, got '%s'", settings.News.PublicationName)
	}
	if settings.Groups.Base != "groups" || settings.Profiles.Base != "members" {
		t.Errorf("Unexpected social bases: %q %q", settings.Groups.Base, settings.Profiles.Base)
	}
	if !settings.ComponentActive("groups") || settings.ComponentActive("members") {
		t.Error("Unexpected component activity")
	}
	if store.Get() != settings {
		t.Error("Get should return the loaded snapshot")
	}
}

func TestStoreHomeURLOverride(t *testing.T) {
	store := NewStore(writeSettings(t, validSettings), "https://override.example.org/")

	settings, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if settings.HomeURL != "https://override.example.org" {
		t.Errorf("Expected override home URL, got '%s'", settings.HomeURL)
	}
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	path := writeSettings(t, validSettings)
	store := NewStore(path, "")

	first, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("home_url: https://example.com\nitems_per_sitemap: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	second, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}

	if first.ItemsPerSitemap != 10 {
		t.Error("Reload must not mutate the previous snapshot")
	}
	if store.Get().ItemsPerSitemap != 50 || second.ItemsPerSitemap != 50 {
		t.Errorf("Expected reloaded items per sitemap 50, got %d", store.Get().ItemsPerSitemap)
	}
}

func TestStoreLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "home_url: [unterminated"},
		{"missing home url", "items_per_sitemap: 10"},
		{"relative home url", "home_url: /blog"},
		{"negative items", "home_url: https://example.com\nitems_per_sitemap: -1"},
		{"empty news post type", "home_url: https://example.com\nnews:\n  post_types: ['']"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(writeSettings(t, tt.content), "")
			if _, err := store.Load(); err == nil {
				t.Error("Expected error, got none")
			}
		})
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.yml"), "")
	if _, err := store.Load(); err == nil {
		t.Error("Expected error for missing settings file")
	}
}

func TestTaxonomyBase(t *testing.T) {
	settings := &Settings{Permalinks: Permalinks{Bases: map[string]string{"category": "topics"}}}

	tests := map[string]string{
		"category": "topics",
		"post_tag": "tag",
		"genre":    "genre",
	}
	for taxonomy, want := range tests {
		if got := settings.TaxonomyBase(taxonomy); got != want {
			t.Errorf("TaxonomyBase(%q) = %q, want %q", taxonomy, got, want)
		}
	}
}

func TestEnableFlagsDefaultOn(t *testing.T) {
	off := false
	settings := &Settings{}
	if !settings.TermsOn() || !settings.PostTypesOn() {
		t.Error("Term and post type sitemaps should be on by default")
	}
	settings.TermsEnabled = &off
	if settings.TermsOn() {
		t.Error("Expected terms to be disabled")
	}
}
