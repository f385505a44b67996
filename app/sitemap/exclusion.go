package sitemap

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/lysyi3m/sitemap-comb/app/database"
	"github.com/lysyi3m/sitemap-comb/app/settings"
)

// TaxonomyAlias returns the query parameter that addresses a taxonomy in
// plain (non-pretty) permalinks.
func TaxonomyAlias(taxonomy string) string {
	switch taxonomy {
	case "category":
		return "cat"
	case "post_tag":
		return "tag"
	}
	return taxonomy
}

// urlVariants returns every listed URL as written, without trailing slashes
// and with exactly one.
func urlVariants(urls []string) []string {
	var variants []string
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		trimmed := strings.TrimRight(raw, "/")
		variants = append(variants, raw, trimmed, trimmed+"/")
	}
	slices.Sort(variants)
	return slices.Compact(variants)
}

type urlSet map[string]struct{}

func newURLSet(urls []string) urlSet {
	set := make(urlSet, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		set[raw] = struct{}{}
		set[strings.TrimRight(raw, "/")] = struct{}{}
	}
	return set
}

func (s urlSet) Contains(location string) bool {
	if _, ok := s[location]; ok {
		return true
	}
	_, ok := s[strings.TrimRight(location, "/")]
	return ok
}

// slugAfterBase returns the path segment that follows base in rawURL.
func slugAfterBase(rawURL, base string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}

	baseSegments := splitPath(base)
	if len(baseSegments) == 0 {
		return "", false
	}

	segments := splitPath(u.Path)
	for i := 0; i+len(baseSegments) < len(segments); i++ {
		if slices.Equal(segments[i:i+len(baseSegments)], baseSegments) {
			slug, err := url.PathUnescape(segments[i+len(baseSegments)])
			if err != nil || slug == "" {
				return "", false
			}
			return slug, true
		}
	}
	return "", false
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// ExclusionResolver turns configured ID lists, URL lists and canonical
// overrides into the set of IDs a source must skip.
type ExclusionResolver struct {
	terms database.TermRepository
	posts database.PostRepository
	hooks *Hooks
}

func NewExclusionResolver(terms database.TermRepository, posts database.PostRepository, hooks *Hooks) *ExclusionResolver {
	return &ExclusionResolver{terms: terms, posts: posts, hooks: hooks}
}

// TermIDs resolves the exclusions of one taxonomy.
func (r *ExclusionResolver) TermIDs(ctx context.Context, sc *Scope, source, taxonomy string, ts settings.TypeSettings) ([]int64, error) {
	ids := slices.Clone(ts.IgnoreIDs)

	for _, raw := range ts.IgnoreURLs {
		id, ok, err := r.termIDForURL(ctx, sc, taxonomy, raw)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, id)
		}
	}

	canonical, err := r.terms.TermIDsByCanonical(ctx, taxonomy, urlVariants(ts.IgnoreURLs))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve canonical term URLs: %w", err)
	}
	ids = append(ids, canonical...)

	return uniqueIDs(r.hooks.ApplyIDs(ExcludeIDsHook(source), ids)), nil
}

// termIDForURL tries the query parameter first, then the pretty permalink
// path. URLs that do not parse are skipped.
func (r *ExclusionResolver) termIDForURL(ctx context.Context, sc *Scope, taxonomy, raw string) (int64, bool, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, nil
	}

	if value := u.Query().Get(TaxonomyAlias(taxonomy)); value != "" {
		if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
			exists, err := r.terms.TermExists(ctx, taxonomy, id)
			if err != nil {
				return 0, false, fmt.Errorf("failed to resolve term id %d: %w", id, err)
			}
			if exists {
				return id, true, nil
			}
		}

		id, ok, err := r.terms.TermIDBySlug(ctx, taxonomy, value)
		if err != nil {
			return 0, false, fmt.Errorf("failed to resolve term slug %q: %w", value, err)
		}
		if ok {
			return id, true, nil
		}
	}

	if sc.Settings.Permalinks.Pretty {
		if slug, ok := slugAfterBase(raw, sc.Settings.TaxonomyBase(taxonomy)); ok {
			id, found, err := r.terms.TermIDBySlug(ctx, taxonomy, slug)
			if err != nil {
				return 0, false, fmt.Errorf("failed to resolve term slug %q: %w", slug, err)
			}
			return id, found, nil
		}
	}

	return 0, false, nil
}

// PostIDs resolves post exclusions: explicit IDs, posts stored under a
// listed URL and posts whose canonical URL is listed.
func (r *ExclusionResolver) PostIDs(ctx context.Context, source, postType string, ignoreIDs []int64, ignoreURLs []string) ([]int64, error) {
	ids := slices.Clone(ignoreIDs)
	variants := urlVariants(ignoreURLs)

	byURL, err := r.posts.PostIDsByURLs(ctx, postType, variants)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve post URLs: %w", err)
	}
	ids = append(ids, byURL...)

	canonical, err := r.posts.PostIDsByCanonical(ctx, postType, variants)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve canonical post URLs: %w", err)
	}
	ids = append(ids, canonical...)

	return uniqueIDs(r.hooks.ApplyIDs(ExcludeIDsHook(source), ids)), nil
}

// ExpandTerms returns every post ID carrying one of the terms.
func (r *ExclusionResolver) ExpandTerms(ctx context.Context, termIDs []int64) ([]int64, error) {
	ids, err := r.posts.PostIDsByTerms(ctx, termIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to expand excluded terms: %w", err)
	}
	return ids, nil
}

// SocialIDs resolves group or profile exclusions. URLs map to a slug through
// the component's path base.
func (r *ExclusionResolver) SocialIDs(ctx context.Context, source string, repo database.SocialRepository, ss settings.SocialSettings) ([]int64, error) {
	ids := slices.Clone(ss.IgnoreIDs)

	for _, raw := range ss.IgnoreURLs {
		slug, ok := slugAfterBase(raw, ss.Base)
		if !ok {
			continue
		}
		id, found, err := repo.IDBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s slug %q: %w", source, slug, err)
		}
		if found {
			ids = append(ids, id)
		}
	}

	canonical, err := repo.IDsByCanonical(ctx, urlVariants(ss.IgnoreURLs))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve canonical %s URLs: %w", source, err)
	}
	ids = append(ids, canonical...)

	return uniqueIDs(r.hooks.ApplyIDs(ExcludeIDsHook(source), ids)), nil
}
