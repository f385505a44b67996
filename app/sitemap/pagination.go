package sitemap

import (
	"math"

	"github.com/lysyi3m/sitemap-comb/app/settings"
)

// NoLimit asks for every row. It is used for counting, never for a page
// that gets rendered.
const NoLimit = -1

type Pagination struct {
	perPage int
}

// NewPagination clamps items_per_sitemap into [1, max_items_per_sitemap].
func NewPagination(s *settings.Settings) Pagination {
	perPage := s.ItemsPerSitemap
	if perPage <= 0 {
		perPage = settings.DefaultItemsPerSitemap
	}

	ceiling := s.MaxItemsPerSitemap
	if ceiling <= 0 {
		ceiling = settings.DefaultMaxItemsPerSitemap
	}

	return Pagination{perPage: max(1, min(perPage, ceiling))}
}

func (p Pagination) PerPage() int {
	return p.perPage
}

func (p Pagination) Limit(page int) int {
	if page == 0 || page == NoLimit {
		return NoLimit
	}
	return p.perPage
}

// Addressable reports whether page is a document number whose offset fits
// in an int.
func (p Pagination) Addressable(page int) bool {
	return page >= 1 && page-1 <= math.MaxInt/p.perPage
}

func (p Pagination) Offset(page int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * p.perPage
}

// Pages returns how many documents count rows need.
func (p Pagination) Pages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + p.perPage - 1) / p.perPage
}
