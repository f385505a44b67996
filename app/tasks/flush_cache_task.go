package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/sitemap-comb/app/cache"
)

// FlushCacheTask drops every cached document of one sitemap kind. An empty
// kind flushes all kinds.
type FlushCacheTask struct {
	Task
	Reason string
	store  cache.Store
}

func NewFlushCacheTask(kind string, store cache.Store, reason string) *FlushCacheTask {
	return &FlushCacheTask{
		Task:   NewTask(TaskTypeFlushCache, kind),
		Reason: reason,
		store:  store,
	}
}

func (t *FlushCacheTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.store.Flush(ctx, t.Target); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}

	kind := t.Target
	if kind == "" {
		kind = "all"
	}

	slog.Info("Task completed",
		"type", string(t.GetType()),
		"kind", kind,
		"reason", t.Reason,
		"duration", t.GetDuration())
	return nil
}
