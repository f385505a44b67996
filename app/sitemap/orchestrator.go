package sitemap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/lysyi3m/sitemap-comb/app/cache"
	"github.com/lysyi3m/sitemap-comb/app/settings"
)

var ErrNotFound = errors.New("sitemap not found")

const (
	ContentTypeXML  = "application/xml; charset=utf-8"
	ContentTypeGzip = "application/x-gzip"
)

// Response is a served sitemap document.
type Response struct {
	Body        []byte
	ContentType string
	CacheHit    bool
}

// Orchestrator serves sitemap requests from the cache, building and storing
// documents on a miss. Concurrent misses on one key each build; the last
// write wins.
type Orchestrator struct {
	sources  []Source
	store    cache.Store
	settings settings.Provider
	hooks    *Hooks
	renderer *Renderer
	now      func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
	builds atomic.Int64
}

func NewOrchestrator(store cache.Store, provider settings.Provider, hooks *Hooks, sources ...Source) *Orchestrator {
	return &Orchestrator{
		sources:  sources,
		store:    store,
		settings: provider,
		hooks:    hooks,
		renderer: NewRenderer(),
		now:      time.Now,
	}
}

// SetClock replaces the build time source.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

func (o *Orchestrator) NewScope() *Scope {
	return NewScope(o.settings.Get(), o.now())
}

func cacheKey(req Request) cache.Key {
	if req.Index {
		return cache.IndexKey(req.Kind)
	}
	return cache.Key{Kind: req.Kind, Type: req.Type, Page: req.Page}
}

func (o *Orchestrator) Serve(ctx context.Context, req Request) (*Response, error) {
	if !req.Index && req.Page < 1 {
		return nil, ErrNotFound
	}

	key := cacheKey(req)
	text, hit, err := o.store.Get(ctx, key)
	if err != nil {
		slog.Warn("Cache lookup failed", "key", key.String(), "error", err)
		hit = false
	}

	if hit {
		o.hits.Add(1)
	} else {
		o.misses.Add(1)

		text, err = o.build(ctx, o.NewScope(), req)
		if err != nil {
			return nil, err
		}

		if err := o.store.Set(ctx, key, text); err != nil {
			slog.Warn("Failed to cache sitemap", "key", key.String(), "error", err)
		}
	}

	resp := &Response{Body: []byte(text), ContentType: ContentTypeXML, CacheHit: hit}
	if req.Gzip {
		compressed, err := compress(text)
		if err != nil {
			return nil, fmt.Errorf("failed to compress sitemap: %w", err)
		}
		resp.Body = compressed
		resp.ContentType = ContentTypeGzip
	}

	return resp, nil
}

func (o *Orchestrator) build(ctx context.Context, sc *Scope, req Request) (string, error) {
	o.builds.Add(1)
	start := time.Now()

	var text string
	var err error
	if req.Index {
		text = o.buildIndex(ctx, sc, req.Kind)
	} else {
		text, err = o.buildPartial(ctx, sc, req)
	}
	if err != nil {
		return "", err
	}

	slog.Debug("Sitemap built", "kind", req.Kind, "type", req.Type, "page", req.Page,
		"duration", time.Since(start))
	return text, nil
}

// buildIndex concatenates the index rows of every source of the kind. A
// failing source is left out of the document.
func (o *Orchestrator) buildIndex(ctx context.Context, sc *Scope, kind string) string {
	var rows []IndexEntry
	for _, src := range o.sources {
		if src.Kind() != kind {
			continue
		}

		items, err := src.GetIndexItems(ctx, sc)
		if err != nil {
			slog.Error("Failed to build index rows", "source", src.Name(), "kind", kind, "error", err)
			continue
		}
		rows = append(rows, items...)
	}
	return o.renderer.RenderIndex(rows)
}

func (o *Orchestrator) buildPartial(ctx context.Context, sc *Scope, req Request) (string, error) {
	src := o.sourceFor(sc, req.Kind, req.Type)
	if src == nil {
		return "", ErrNotFound
	}

	entries, err := src.GetItems(ctx, sc, req.Type, req.Page)
	if err != nil {
		slog.Error("Failed to get sitemap items", "source", src.Name(), "kind", req.Kind,
			"type", req.Type, "page", req.Page, "error", err)
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	entries = o.hooks.ApplyEntries(EntriesHook(req.Kind, req.Type), entries)
	if len(entries) == 0 {
		return "", ErrNotFound
	}

	return o.renderer.RenderEntries(entries), nil
}

// sourceFor returns the first source of kind that handles typ.
func (o *Orchestrator) sourceFor(sc *Scope, kind, typ string) Source {
	for _, src := range o.sources {
		if src.Kind() == kind && src.CanHandleType(sc, typ) {
			return src
		}
	}
	return nil
}

// SourceInfo describes a registered source for the admin API.
type SourceInfo struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Types []string `json:"types"`
}

func (o *Orchestrator) Describe() []SourceInfo {
	sc := o.NewScope()
	infos := make([]SourceInfo, 0, len(o.sources))
	for _, src := range o.sources {
		types := src.SupportedTypes(sc)
		if types == nil {
			types = []string{}
		}
		infos = append(infos, SourceInfo{Name: src.Name(), Kind: src.Kind(), Types: types})
	}
	return infos
}

func (o *Orchestrator) Stats() map[string]interface{} {
	return map[string]interface{}{
		"cache_hits":   o.hits.Load(),
		"cache_misses": o.misses.Load(),
		"builds":       o.builds.Load(),
		"sources":      len(o.sources),
	}
}

func compress(text string) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(text)); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
