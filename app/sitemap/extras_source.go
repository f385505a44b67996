package sitemap

import (
	"cmp"
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"
)

const ExtraType = "extra"

var _ rowSource = (*ExtrasSource)(nil)

// ExtrasSource lists operator-curated URLs from the settings file.
type ExtrasSource struct{}

func NewExtrasSource() *ExtrasSource {
	return &ExtrasSource{}
}

func (s *ExtrasSource) Name() string { return "extras" }

func (s *ExtrasSource) Kind() string { return KindGeneral }

func (s *ExtrasSource) SupportedTypes(sc *Scope) []string {
	return sc.Types(s.Name(), func() []string {
		if !sc.Settings.Extras.Enabled {
			return nil
		}
		return []string{ExtraType}
	})
}

func (s *ExtrasSource) CanHandleType(sc *Scope, typ string) bool {
	return canHandle(s, sc, typ)
}

type extraItem struct {
	location     string
	lastModified time.Time
}

// items returns every valid, non-ignored URL ordered by last-modified, then
// by URL. Malformed URLs are dropped.
func (s *ExtrasSource) items(sc *Scope) []extraItem {
	ignored := newURLSet(sc.Settings.Extras.IgnoreURLs)
	seen := make(map[string]bool)

	var items []extraItem
	for _, extra := range sc.Settings.Extras.URLs {
		raw := strings.TrimSpace(extra.URL)
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			slog.Debug("Skipping malformed extra URL", "url", extra.URL)
			continue
		}

		location := normalizeLocation(raw)
		if ignored.Contains(location) || seen[location] {
			continue
		}
		seen[location] = true

		items = append(items, extraItem{
			location:     location,
			lastModified: orNow(parseExtraTime(extra.LastModified), sc),
		})
	}

	slices.SortFunc(items, func(a, b extraItem) int {
		return cmp.Or(a.lastModified.Compare(b.lastModified), strings.Compare(a.location, b.location))
	})
	return items
}

func parseExtraTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (s *ExtrasSource) GetItems(ctx context.Context, sc *Scope, typ string, page int) ([]*Entry, error) {
	limit, offset, ok := pageWindow(sc, page)
	if !ok || !s.CanHandleType(sc, typ) {
		return nil, nil
	}

	items := s.items(sc)
	if offset < 0 || offset >= len(items) {
		return nil, nil
	}
	items = items[offset : offset+min(limit, len(items)-offset)]

	entries := make([]*Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, NewEntry(item.location).WithLastModified(item.lastModified))
	}
	return entries, nil
}

func (s *ExtrasSource) GetItemCount(ctx context.Context, sc *Scope, typ string) (int, error) {
	if !s.CanHandleType(sc, typ) {
		return 0, nil
	}
	return len(s.items(sc)), nil
}

func (s *ExtrasSource) GetIndexItems(ctx context.Context, sc *Scope) ([]IndexEntry, error) {
	return buildIndex(ctx, sc, s)
}

func (s *ExtrasSource) lastModifiedAt(ctx context.Context, sc *Scope, typ string, offset int) (time.Time, error) {
	items := s.items(sc)
	if offset < 0 || offset >= len(items) {
		return time.Time{}, nil
	}
	return items[offset].lastModified, nil
}
