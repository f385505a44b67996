package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/sitemap-comb/app/cache"
)

// ReloadSettingsTask re-reads the settings file and, once the new snapshot
// is in place, flushes every cached document. A settings file that fails to
// load leaves the previous snapshot and the cache untouched.
type ReloadSettingsTask struct {
	Task
	loader SettingsLoader
	store  cache.Store
}

func NewReloadSettingsTask(loader SettingsLoader, store cache.Store) *ReloadSettingsTask {
	return &ReloadSettingsTask{
		Task:   NewTask(TaskTypeReloadSettings, "settings"),
		loader: loader,
		store:  store,
	}
}

func (t *ReloadSettingsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s, err := t.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to reload settings: %w", err)
	}

	if err := t.store.Flush(ctx, ""); err != nil {
		return fmt.Errorf("failed to flush cache after settings reload: %w", err)
	}

	slog.Info("Task completed",
		"type", string(t.GetType()),
		"items_per_sitemap", s.ItemsPerSitemap,
		"duration", t.GetDuration())
	return nil
}
