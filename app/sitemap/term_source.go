package sitemap

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/lysyi3m/sitemap-comb/app/database"
	"github.com/lysyi3m/sitemap-comb/app/settings"
)

var _ rowSource = (*TermSource)(nil)

// TermSource lists taxonomy archives. Declared taxonomies are included
// unless flagged excluded.
type TermSource struct {
	repo       database.TermRepository
	exclusions *ExclusionResolver
}

func NewTermSource(repo database.TermRepository, exclusions *ExclusionResolver) *TermSource {
	return &TermSource{repo: repo, exclusions: exclusions}
}

func (s *TermSource) Name() string { return "terms" }

func (s *TermSource) Kind() string { return KindGeneral }

func (s *TermSource) SupportedTypes(sc *Scope) []string {
	return sc.Types(s.Name(), func() []string {
		if !sc.Settings.TermsOn() {
			return nil
		}
		return declaredTypes(sc.Settings.Taxonomies)
	})
}

func (s *TermSource) CanHandleType(sc *Scope, typ string) bool {
	return canHandle(s, sc, typ)
}

func (s *TermSource) excluded(ctx context.Context, sc *Scope, taxonomy string) ([]int64, error) {
	return sc.Exclusions(s.Name()+":"+taxonomy, func() ([]int64, error) {
		return s.exclusions.TermIDs(ctx, sc, s.Name(), taxonomy, sc.Settings.Taxonomies[taxonomy])
	})
}

func (s *TermSource) GetItems(ctx context.Context, sc *Scope, typ string, page int) ([]*Entry, error) {
	limit, offset, ok := pageWindow(sc, page)
	if !ok || !s.CanHandleType(sc, typ) {
		return nil, nil
	}

	exclude, err := s.excluded(ctx, sc, typ)
	if err != nil {
		return nil, err
	}

	terms, err := s.repo.ListTerms(ctx, typ, database.ListOptions{Limit: limit, Offset: offset, ExcludeIDs: exclude})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s terms: %w", typ, err)
	}

	entries := make([]*Entry, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, NewEntry(TermLocation(sc.Settings, term)).
			WithTitle(term.Name).
			WithLastModified(orNow(term.LastModified, sc)))
	}
	return entries, nil
}

func (s *TermSource) GetItemCount(ctx context.Context, sc *Scope, typ string) (int, error) {
	if !s.CanHandleType(sc, typ) {
		return 0, nil
	}

	exclude, err := s.excluded(ctx, sc, typ)
	if err != nil {
		return 0, err
	}
	return s.repo.CountTerms(ctx, typ, exclude)
}

func (s *TermSource) GetIndexItems(ctx context.Context, sc *Scope) ([]IndexEntry, error) {
	return buildIndex(ctx, sc, s)
}

func (s *TermSource) lastModifiedAt(ctx context.Context, sc *Scope, typ string, offset int) (time.Time, error) {
	exclude, err := s.excluded(ctx, sc, typ)
	if err != nil {
		return time.Time{}, err
	}

	terms, err := s.repo.ListTerms(ctx, typ, database.ListOptions{Limit: 1, Offset: offset, ExcludeIDs: exclude})
	if err != nil || len(terms) == 0 {
		return time.Time{}, err
	}
	return terms[0].LastModified, nil
}

// TermLocation builds the archive URL of a term: the pretty permalink when
// enabled, the query form otherwise.
func TermLocation(s *settings.Settings, term database.Term) string {
	if s.Permalinks.Pretty {
		return fmt.Sprintf("%s/%s/%s/", s.HomeURL, strings.Trim(s.TaxonomyBase(term.Taxonomy), "/"),
			url.PathEscape(term.Slug))
	}
	if term.Taxonomy == "category" {
		return fmt.Sprintf("%s/?%s=%d", s.HomeURL, TaxonomyAlias(term.Taxonomy), term.ID)
	}
	return fmt.Sprintf("%s/?%s=%s", s.HomeURL, TaxonomyAlias(term.Taxonomy), url.QueryEscape(term.Slug))
}

// declaredTypes returns the non-excluded keys in sorted order.
func declaredTypes(types map[string]settings.TypeSettings) []string {
	var names []string
	for name, ts := range types {
		if !ts.Excluded {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
