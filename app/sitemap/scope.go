package sitemap

import (
	"time"

	"github.com/lysyi3m/sitemap-comb/app/settings"
)

// Scope is the state of one serve cycle: a settings snapshot, the build
// time and values derived from them. Supported types and exclusion sets are
// computed at most once per scope so that every call made while serving one
// request sees the same answer. A Scope is not safe for concurrent use.
type Scope struct {
	Settings   *settings.Settings
	Now        time.Time
	Pagination Pagination

	types      map[string][]string
	exclusions map[string][]int64
}

func NewScope(s *settings.Settings, now time.Time) *Scope {
	return &Scope{
		Settings:   s,
		Now:        now,
		Pagination: NewPagination(s),
		types:      make(map[string][]string),
		exclusions: make(map[string][]int64),
	}
}

func (sc *Scope) Types(source string, compute func() []string) []string {
	if types, ok := sc.types[source]; ok {
		return types
	}
	types := compute()
	sc.types[source] = types
	return types
}

// Exclusions memoizes a successful exclusion lookup under key.
func (sc *Scope) Exclusions(key string, compute func() ([]int64, error)) ([]int64, error) {
	if ids, ok := sc.exclusions[key]; ok {
		return ids, nil
	}
	ids, err := compute()
	if err != nil {
		return nil, err
	}
	sc.exclusions[key] = ids
	return ids, nil
}
