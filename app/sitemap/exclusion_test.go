package sitemap

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/lysyi3m/sitemap-comb/app/database"
	"github.com/lysyi3m/sitemap-comb/app/settings"
)

func TestTaxonomyAlias(t *testing.T) {
	for taxonomy, want := range map[string]string{"category": "cat", "post_tag": "tag", "genre": "genre"} {
		if got := TaxonomyAlias(taxonomy); got != want {
			t.Errorf("TaxonomyAlias(%q) = %q, want %q", taxonomy, got, want)
		}
	}
}

func TestURLVariants(t *testing.T) {
	got := urlVariants([]string{"https://example.com/a/", " https://example.com/b", ""})
	want := []string{"https://example.com/a", "https://example.com/a/", "https://example.com/b", "https://example.com/b/"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	set := newURLSet([]string{"https://example.com/a/"})
	if !set.Contains("https://example.com/a") || !set.Contains("https://example.com/a/") {
		t.Error("expected set to match with and without trailing slash")
	}
	if set.Contains("https://example.com/ab") {
		t.Error("unexpected prefix match")
	}
}

func TestSlugAfterBase(t *testing.T) {
	tests := []struct {
		url  string
		base string
		slug string
		ok   bool
	}{
		{"https://example.com/category/sport/", "category", "sport", true},
		{"https://example.com/blog/category/sport/page/2/", "category", "sport", true},
		{"https://example.com/topics/tags/go", "topics/tags", "go", true},
		{"https://example.com/category/", "category", "", false},
		{"https://example.com/sport/", "category", "", false},
		{"https://example.com/%zz/", "category", "", false},
		{"https://example.com/category/sport/", "", "", false},
	}

	for _, tt := range tests {
		slug, ok := slugAfterBase(tt.url, tt.base)
		if slug != tt.slug || ok != tt.ok {
			t.Errorf("slugAfterBase(%q, %q) = %q, %v; want %q, %v", tt.url, tt.base, slug, ok, tt.slug, tt.ok)
		}
	}
}

func TestExclusionResolver_TermStrategies(t *testing.T) {
	s := baseSettings()
	s.Permalinks.Pretty = true
	env := newTestEnv(t, s)
	ctx := context.Background()
	env.seedTerms(t, 6)

	if err := env.seeder.InsertTerm(ctx, database.Term{ID: 40, Taxonomy: "category", Slug: "canon", PostCount: 1,
		CanonicalURL: "https://example.com/elsewhere/", LastModified: testNow}); err != nil {
		t.Fatalf("InsertTerm: %v", err)
	}

	resolver := NewExclusionResolver(env.terms, database.NewPostRepository(env.db), env.hooks)
	ts := settings.TypeSettings{
		IgnoreIDs: []int64{1},
		IgnoreURLs: []string{
			"?cat=5",                              // query by ID
			"https://example.com/?cat=cat-c",      // query by slug
			"https://example.com/category/cat-d/", // pretty permalink
			"https://example.com/elsewhere",       // canonical override, slash-stripped
			"https://example.com/?cat=999",        // unknown ID
			"http://[::1]:namedport/category/x",   // unparseable
		},
	}

	ids, err := resolver.TermIDs(ctx, env.scope(), "terms", "category", ts)
	if err != nil {
		t.Fatalf("TermIDs: %v", err)
	}
	if want := []int64{1, 3, 4, 5, 40}; !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestExclusionResolver_PrettyDisabled(t *testing.T) {
	env := newTestEnv(t, baseSettings())
	env.seedTerms(t, 4)

	resolver := NewExclusionResolver(env.terms, database.NewPostRepository(env.db), nil)
	ids, err := resolver.TermIDs(context.Background(), env.scope(), "terms", "category",
		settings.TypeSettings{IgnoreURLs: []string{"https://example.com/category/cat-d/"}})
	if err != nil {
		t.Fatalf("TermIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected path strategy to be off without pretty permalinks, got %v", ids)
	}
}

func TestExclusionResolver_PostsAndHook(t *testing.T) {
	env := newTestEnv(t, baseSettings())
	ctx := context.Background()

	for i, p := range []database.Post{
		{ID: 1, PostType: "post", URL: "https://example.com/one/", ModifiedAt: testNow},
		{ID: 2, PostType: "post", URL: "https://example.com/two/", CanonicalURL: "https://example.com/one", ModifiedAt: testNow},
		{ID: 3, PostType: "post", URL: "https://example.com/three/", ModifiedAt: testNow},
	} {
		p.PublishedAt = testNow.Add(-time.Duration(i) * time.Minute)
		if err := env.seeder.InsertPost(ctx, p, "", nil, nil); err != nil {
			t.Fatalf("InsertPost: %v", err)
		}
	}

	env.hooks.AddIDsFilter(ExcludeIDsHook("post_types"), func(ids []int64) []int64 { return append(ids, 3) })

	resolver := NewExclusionResolver(env.terms, database.NewPostRepository(env.db), env.hooks)
	ids, err := resolver.PostIDs(ctx, "post_types", "post", nil, []string{"https://example.com/one"})
	if err != nil {
		t.Fatalf("PostIDs: %v", err)
	}
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}
