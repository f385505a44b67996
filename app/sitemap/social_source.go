package sitemap

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lysyi3m/sitemap-comb/app/database"
	"github.com/lysyi3m/sitemap-comb/app/settings"
)

var _ rowSource = (*SocialSource)(nil)

// SocialSource lists the records of a social component: groups or member
// profiles. It serves a single type and opts out entirely when the
// component is not active.
type SocialSource struct {
	name       string
	typ        string
	component  string
	settingsOf func(*settings.Settings) settings.SocialSettings
	repo       database.SocialRepository
	exclusions *ExclusionResolver
}

func NewGroupSource(repo database.SocialRepository, exclusions *ExclusionResolver) *SocialSource {
	return &SocialSource{
		name:       "groups",
		typ:        "groups",
		component:  "groups",
		settingsOf: func(s *settings.Settings) settings.SocialSettings { return s.Groups },
		repo:       repo,
		exclusions: exclusions,
	}
}

func NewProfileSource(repo database.SocialRepository, exclusions *ExclusionResolver) *SocialSource {
	return &SocialSource{
		name:       "profiles",
		typ:        "members",
		component:  "members",
		settingsOf: func(s *settings.Settings) settings.SocialSettings { return s.Profiles },
		repo:       repo,
		exclusions: exclusions,
	}
}

func (s *SocialSource) Name() string { return s.name }

func (s *SocialSource) Kind() string { return KindGeneral }

func (s *SocialSource) SupportedTypes(sc *Scope) []string {
	return sc.Types(s.name, func() []string {
		if !sc.Settings.ComponentActive(s.component) || !s.settingsOf(sc.Settings).Enabled {
			return nil
		}
		return []string{s.typ}
	})
}

func (s *SocialSource) CanHandleType(sc *Scope, typ string) bool {
	return canHandle(s, sc, typ)
}

func (s *SocialSource) excluded(ctx context.Context, sc *Scope) ([]int64, error) {
	return sc.Exclusions(s.name, func() ([]int64, error) {
		return s.exclusions.SocialIDs(ctx, s.name, s.repo, s.settingsOf(sc.Settings))
	})
}

func (s *SocialSource) GetItems(ctx context.Context, sc *Scope, typ string, page int) ([]*Entry, error) {
	limit, offset, ok := pageWindow(sc, page)
	if !ok || !s.CanHandleType(sc, typ) {
		return nil, nil
	}

	exclude, err := s.excluded(ctx, sc)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, database.ListOptions{Limit: limit, Offset: offset, ExcludeIDs: exclude})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.name, err)
	}

	base := strings.Trim(s.settingsOf(sc.Settings).Base, "/")
	entries := make([]*Entry, 0, len(records))
	for _, record := range records {
		location := fmt.Sprintf("%s/%s/%s/", sc.Settings.HomeURL, base, url.PathEscape(record.Slug))
		entries = append(entries, NewEntry(location).
			WithTitle(record.Name).
			WithLastModified(orNow(record.ModifiedAt, sc)))
	}
	return entries, nil
}

func (s *SocialSource) GetItemCount(ctx context.Context, sc *Scope, typ string) (int, error) {
	if !s.CanHandleType(sc, typ) {
		return 0, nil
	}

	exclude, err := s.excluded(ctx, sc)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, exclude)
}

func (s *SocialSource) GetIndexItems(ctx context.Context, sc *Scope) ([]IndexEntry, error) {
	return buildIndex(ctx, sc, s)
}

func (s *SocialSource) lastModifiedAt(ctx context.Context, sc *Scope, typ string, offset int) (time.Time, error) {
	exclude, err := s.excluded(ctx, sc)
	if err != nil {
		return time.Time{}, err
	}

	records, err := s.repo.List(ctx, database.ListOptions{Limit: 1, Offset: offset, ExcludeIDs: exclude})
	if err != nil || len(records) == 0 {
		return time.Time{}, err
	}
	return records[0].ModifiedAt, nil
}
