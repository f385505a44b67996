package sitemap

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/sitemap-comb/app/cache"
	"github.com/lysyi3m/sitemap-comb/app/database"
	"github.com/lysyi3m/sitemap-comb/app/database/databasetest"
	"github.com/lysyi3m/sitemap-comb/app/settings"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

type staticSettings struct {
	s *settings.Settings
}

func (p staticSettings) Get() *settings.Settings { return p.s }

func baseSettings() *settings.Settings {
	return &settings.Settings{
		SiteName:           "Example",
		HomeURL:            "https://example.com",
		Locale:             "en_US",
		ItemsPerSitemap:    10,
		MaxItemsPerSitemap: settings.DefaultMaxItemsPerSitemap,
		Taxonomies:         map[string]settings.TypeSettings{"category": {}},
		PostTypes:          map[string]settings.TypeSettings{},
	}
}

// countingTerms counts list queries so tests can tell whether the content
// store was touched.
type countingTerms struct {
	database.TermRepository
	lists atomic.Int64
}

func (c *countingTerms) ListTerms(ctx context.Context, taxonomy string, opts database.ListOptions) ([]database.Term, error) {
	c.lists.Add(1)
	return c.TermRepository.ListTerms(ctx, taxonomy, opts)
}

type testEnv struct {
	db           *database.DB
	seeder       *database.Seeder
	terms        *countingTerms
	store        *cache.MemoryStore
	hooks        *Hooks
	orchestrator *Orchestrator
	settings     *settings.Settings
}

func newTestEnv(t *testing.T, s *settings.Settings) *testEnv {
	t.Helper()

	db := databasetest.Open(t)
	terms := &countingTerms{TermRepository: database.NewTermRepository(db)}
	posts := database.NewPostRepository(db)
	hooks := NewHooks()
	exclusions := NewExclusionResolver(terms, posts, hooks)
	store := cache.NewMemoryStore()

	o := NewOrchestrator(store, staticSettings{s}, hooks,
		NewTermSource(terms, exclusions),
		NewPostTypeSource(posts, exclusions),
		NewGroupSource(database.NewGroupRepository(db), exclusions),
		NewProfileSource(database.NewProfileRepository(db), exclusions),
		NewExtrasSource(),
		NewNewsSource(posts, exclusions, hooks),
	)
	o.SetClock(func() time.Time { return testNow })

	return &testEnv{
		db:           db,
		seeder:       database.NewSeeder(db),
		terms:        terms,
		store:        store,
		hooks:        hooks,
		orchestrator: o,
		settings:     s,
	}
}

func (e *testEnv) scope() *Scope {
	return NewScope(e.settings, testNow)
}

func (e *testEnv) source(name string) Source {
	for _, src := range e.orchestrator.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}

// seedTerms inserts count categories whose last-modified times run
// backwards relative to their IDs: term 1 is the newest.
func (e *testEnv) seedTerms(t *testing.T, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		term := database.Term{
			ID:           int64(i),
			Taxonomy:     "category",
			Slug:         "cat-" + string(rune('a'+i-1)),
			Name:         "Category",
			PostCount:    1,
			LastModified: testNow.Add(-time.Duration(i) * time.Hour),
		}
		if err := e.seeder.InsertTerm(context.Background(), term); err != nil {
			t.Fatalf("InsertTerm: %v", err)
		}
	}
}

func locations(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Location()
	}
	return out
}
