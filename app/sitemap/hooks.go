package sitemap

import (
	"sync"
)

type EntriesFilter func(entries []*Entry) []*Entry

type IDsFilter func(ids []int64) []int64

type StringFilter func(value string) string

// NewsLanguageHook filters the language code of news publications.
const NewsLanguageHook = "news_language"

// EntriesHook names the filter run over one fetched page of a type.
func EntriesHook(kind, typ string) string {
	return kind + "_" + typ + "_entries"
}

// ExcludeIDsHook names the filter that may extend a source's exclusion IDs.
func ExcludeIDsHook(source string) string {
	return source + "_exclude_ids"
}

// Hooks is a registry of named filters. Filters registered under one name
// run in registration order, each receiving the previous result. A nil
// *Hooks applies nothing.
type Hooks struct {
	entries map[string][]EntriesFilter
	ids     map[string][]IDsFilter
	strings map[string][]StringFilter
	mu      sync.RWMutex
}

func NewHooks() *Hooks {
	return &Hooks{
		entries: make(map[string][]EntriesFilter),
		ids:     make(map[string][]IDsFilter),
		strings: make(map[string][]StringFilter),
	}
}

func (h *Hooks) AddEntriesFilter(name string, f EntriesFilter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[name] = append(h.entries[name], f)
}

func (h *Hooks) AddIDsFilter(name string, f IDsFilter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ids[name] = append(h.ids[name], f)
}

func (h *Hooks) AddStringFilter(name string, f StringFilter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.strings[name] = append(h.strings[name], f)
}

func (h *Hooks) ApplyEntries(name string, entries []*Entry) []*Entry {
	if h == nil {
		return entries
	}
	h.mu.RLock()
	filters := h.entries[name]
	h.mu.RUnlock()

	for _, f := range filters {
		entries = f(entries)
	}
	return entries
}

func (h *Hooks) ApplyIDs(name string, ids []int64) []int64 {
	if h == nil {
		return ids
	}
	h.mu.RLock()
	filters := h.ids[name]
	h.mu.RUnlock()

	for _, f := range filters {
		ids = f(ids)
	}
	return ids
}

func (h *Hooks) ApplyString(name string, value string) string {
	if h == nil {
		return value
	}
	h.mu.RLock()
	filters := h.strings[name]
	h.mu.RUnlock()

	for _, f := range filters {
		value = f(value)
	}
	return value
}
