package sitemap

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	KindGeneral = "general"
	KindNews    = "news"
)

// Source provides the entries of one content family. Sources hold no
// per-request state; everything request-bound comes through the Scope.
type Source interface {
	Name() string
	Kind() string
	SupportedTypes(sc *Scope) []string
	CanHandleType(sc *Scope, typ string) bool
	// GetItems returns one page of entries ordered by last-modified, then
	// by a stable identifier.
	GetItems(ctx context.Context, sc *Scope, typ string, page int) ([]*Entry, error)
	GetItemCount(ctx context.Context, sc *Scope, typ string) (int, error)
	GetIndexItems(ctx context.Context, sc *Scope) ([]IndexEntry, error)
}

// rowSource can report the last-modified time of the row at an offset of
// its ordered result set, which is all an index row needs.
type rowSource interface {
	Source
	lastModifiedAt(ctx context.Context, sc *Scope, typ string, offset int) (time.Time, error)
}

func kindPrefix(kind string) string {
	if kind == KindNews {
		return "news-"
	}
	return ""
}

// ChildURL returns the location of page of typ. The page suffix is left
// out when the type fits in a single document.
func ChildURL(home, kind, typ string, page, pages int) string {
	suffix := ""
	if pages > 1 {
		suffix = fmt.Sprint(page)
	}
	return fmt.Sprintf("%s/%s%s-sitemap%s.xml", strings.TrimRight(home, "/"), kindPrefix(kind), typ, suffix)
}

// IndexURL returns the location of the index document of kind.
func IndexURL(home, kind string) string {
	return fmt.Sprintf("%s/%ssitemap.xml", strings.TrimRight(home, "/"), kindPrefix(kind))
}

func canHandle(src Source, sc *Scope, typ string) bool {
	return slices.Contains(src.SupportedTypes(sc), typ)
}

// buildIndex emits one row per page of every supported type. Rows are
// ascending, so the last row of a page carries the page's newest time.
func buildIndex(ctx context.Context, sc *Scope, src rowSource) ([]IndexEntry, error) {
	var rows []IndexEntry
	perPage := sc.Pagination.PerPage()

	for _, typ := range src.SupportedTypes(sc) {
		count, err := src.GetItemCount(ctx, sc, typ)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s items: %w", typ, err)
		}

		pages := sc.Pagination.Pages(count)
		for page := 1; page <= pages; page++ {
			last := min(page*perPage, count) - 1
			lastModified, err := src.lastModifiedAt(ctx, sc, typ, last)
			if err != nil {
				return nil, fmt.Errorf("failed to get last-modified of %s page %d: %w", typ, page, err)
			}
			if lastModified.IsZero() {
				lastModified = sc.Now
			}

			rows = append(rows, IndexEntry{
				Location:     ChildURL(sc.Settings.HomeURL, src.Kind(), typ, page, pages),
				LastModified: lastModified,
			})
		}
	}

	return rows, nil
}

func orNow(t time.Time, sc *Scope) time.Time {
	if t.IsZero() {
		return sc.Now
	}
	return t
}

// pageWindow returns limit and offset for fetching page of a rendered
// document. Page 0 and pages past the int range are not documents.
func pageWindow(sc *Scope, page int) (int, int, bool) {
	if !sc.Pagination.Addressable(page) {
		return 0, 0, false
	}
	return sc.Pagination.Limit(page), sc.Pagination.Offset(page), true
}
