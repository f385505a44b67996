package sitemap

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/lysyi3m/sitemap-comb/app/database"
)

// FreshnessWindow bounds how old a news article may be.
const FreshnessWindow = 48 * time.Hour

var _ rowSource = (*NewsSource)(nil)

// NewsSource lists recent articles of the whitelisted post types. Unlike
// the general sources it is opt-in per type.
type NewsSource struct {
	repo       database.PostRepository
	exclusions *ExclusionResolver
	hooks      *Hooks
}

func NewNewsSource(repo database.PostRepository, exclusions *ExclusionResolver, hooks *Hooks) *NewsSource {
	return &NewsSource{repo: repo, exclusions: exclusions, hooks: hooks}
}

func (s *NewsSource) Name() string { return "news" }

func (s *NewsSource) Kind() string { return KindNews }

func (s *NewsSource) SupportedTypes(sc *Scope) []string {
	return sc.Types(s.Name(), func() []string {
		if !sc.Settings.News.Enabled {
			return nil
		}
		var types []string
		for _, t := range sc.Settings.News.PostTypes {
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
		return types
	})
}

func (s *NewsSource) CanHandleType(sc *Scope, typ string) bool {
	return canHandle(s, sc, typ)
}

// query builds the shared filter: the freshness window, the category
// whitelist and exclusions, with excluded terms expanded into their posts.
func (s *NewsSource) query(ctx context.Context, sc *Scope, postType string) (database.PostQuery, error) {
	news := sc.Settings.News

	exclude, err := sc.Exclusions(s.Name()+":"+postType, func() ([]int64, error) {
		termPosts, err := s.exclusions.ExpandTerms(ctx, news.ExcludeTerms)
		if err != nil {
			return nil, err
		}
		ids := append(slices.Clone(news.IgnoreIDs), termPosts...)
		return s.exclusions.PostIDs(ctx, s.Name(), postType, ids, news.IgnoreURLs)
	})
	if err != nil {
		return database.PostQuery{}, err
	}

	return database.PostQuery{
		ListOptions:   database.ListOptions{ExcludeIDs: exclude},
		PostType:      postType,
		ModifiedSince: sc.Now.Add(-FreshnessWindow).Unix(),
		TermIDs:       news.Categories,
	}, nil
}

func (s *NewsSource) GetItems(ctx context.Context, sc *Scope, typ string, page int) ([]*Entry, error) {
	limit, offset, ok := pageWindow(sc, page)
	if !ok || !s.CanHandleType(sc, typ) {
		return nil, nil
	}

	q, err := s.query(ctx, sc, typ)
	if err != nil {
		return nil, err
	}
	q.Limit, q.Offset = limit, offset

	posts, err := s.repo.ListPosts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s news: %w", typ, err)
	}

	lang := s.hooks.ApplyString(NewsLanguageHook, NewsLanguage(sc.Settings.Locale))
	name := sc.Settings.News.PublicationName
	if name == "" {
		name = sc.Settings.SiteName
	}

	entries := make([]*Entry, 0, len(posts))
	for _, post := range posts {
		published := post.PublishedAt
		if published.IsZero() {
			published = post.ModifiedAt
		}

		entries = append(entries, NewEntry(post.URL).
			WithTitle(post.Title).
			WithLastModified(orNow(post.ModifiedAt, sc)).
			WithPublication(Publication{
				Name:         name,
				Time:         orNow(published, sc),
				LanguageCode: lang,
			}))
	}
	return entries, nil
}

func (s *NewsSource) GetItemCount(ctx context.Context, sc *Scope, typ string) (int, error) {
	if !s.CanHandleType(sc, typ) {
		return 0, nil
	}

	q, err := s.query(ctx, sc, typ)
	if err != nil {
		return 0, err
	}
	return s.repo.CountPosts(ctx, q)
}

func (s *NewsSource) GetIndexItems(ctx context.Context, sc *Scope) ([]IndexEntry, error) {
	return buildIndex(ctx, sc, s)
}

func (s *NewsSource) lastModifiedAt(ctx context.Context, sc *Scope, typ string, offset int) (time.Time, error) {
	q, err := s.query(ctx, sc, typ)
	if err != nil {
		return time.Time{}, err
	}
	q.Limit, q.Offset = 1, offset

	posts, err := s.repo.ListPosts(ctx, q)
	if err != nil || len(posts) == 0 {
		return time.Time{}, err
	}
	return posts[0].ModifiedAt, nil
}
