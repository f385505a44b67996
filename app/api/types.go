package api

import (
	"context"

	"github.com/lysyi3m/sitemap-comb/app/cache"
	"github.com/lysyi3m/sitemap-comb/app/sitemap"
	"github.com/lysyi3m/sitemap-comb/app/tasks"
)

type SitemapServer interface {
	Serve(ctx context.Context, req sitemap.Request) (*sitemap.Response, error)
	Describe() []sitemap.SourceInfo
	Stats() map[string]interface{}
}

var _ SitemapServer = (*sitemap.Orchestrator)(nil)

// queueReporter is implemented by schedulers that expose their backlog.
type queueReporter interface {
	QueueLength() int
}

type Handler struct {
	sitemaps  SitemapServer
	store     cache.Store
	loader    tasks.SettingsLoader
	scheduler tasks.TaskSchedulerInterface
	version   string
}
