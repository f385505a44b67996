package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/sitemap-comb/app/cache"
	"github.com/lysyi3m/sitemap-comb/app/sitemap"
	"github.com/lysyi3m/sitemap-comb/app/tasks"
)

func NewHandler(sitemaps SitemapServer, store cache.Store, loader tasks.SettingsLoader,
	scheduler tasks.TaskSchedulerInterface, version string) *Handler {
	return &Handler{
		sitemaps:  sitemaps,
		store:     store,
		loader:    loader,
		scheduler: scheduler,
		version:   version,
	}
}

// GetSitemap serves every sitemap URL. It is mounted as the fallback route
// because type names and page numbers share one path segment.
func (h *Handler) GetSitemap(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusNotFound)
		return
	}

	req, ok := sitemap.Classify(c.Request.URL.Path)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	resp, err := h.sitemaps.Serve(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, sitemap.ErrNotFound) {
			slog.Debug("Sitemap not found", "path", c.Request.URL.Path, "error", err)
			c.Status(http.StatusNotFound)
			return
		}
		slog.Error("Sitemap generation error", "path", c.Request.URL.Path, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	cacheStatus := "MISS"
	if resp.CacheHit {
		cacheStatus = "HIT"
	}

	c.Header("X-Sitemap-Cache", cacheStatus)
	c.Header("X-Sitemap-Kind", req.Kind)
	c.Header("Content-Length", strconv.Itoa(len(resp.Body)))
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"cache":     h.store.Health(),
		"sources":   len(h.sitemaps.Describe()),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := h.sitemaps.Stats()
	if q, ok := h.scheduler.(queueReporter); ok {
		stats["queue_length"] = q.QueueLength()
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources := h.sitemaps.Describe()

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIFlushCache(c *gin.Context) {
	kind := c.Query("kind")
	if kind != "" && kind != cache.KindGeneral && kind != cache.KindNews {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sitemap kind", "kind": kind})
		return
	}

	task := tasks.NewFlushCacheTask(kind, h.store, "api")
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue FlushCacheTask", "kind", kind, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to schedule cache flush"})
		return
	}

	if kind == "" {
		kind = "all"
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Cache flush scheduled",
		"kind":    kind,
		"task_id": task.GetID(),
	})
}

func (h *Handler) APIReloadSettings(c *gin.Context) {
	task := tasks.NewReloadSettingsTask(h.loader, h.store)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue ReloadSettingsTask", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to schedule settings reload"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Settings reload scheduled",
		"task_id": task.GetID(),
	})
}
