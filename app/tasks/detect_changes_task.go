package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/lysyi3m/sitemap-comb/app/cache"
	"github.com/lysyi3m/sitemap-comb/app/database"
)

// tableKinds maps a content table onto the sitemap kinds it feeds.
var tableKinds = map[string][]string{
	"posts":           {cache.KindGeneral, cache.KindNews},
	"terms":           {cache.KindGeneral, cache.KindNews},
	"social_groups":   {cache.KindGeneral},
	"social_profiles": {cache.KindGeneral},
}

// KindsForTables returns the kinds to flush after the tables changed.
func KindsForTables(tables []string) []string {
	var kinds []string
	for _, kind := range []string{cache.KindGeneral, cache.KindNews} {
		for _, table := range tables {
			if slices.Contains(tableKinds[table], kind) {
				kinds = append(kinds, kind)
				break
			}
		}
	}
	return kinds
}

// ChangeTracker remembers the last observed content fingerprints and the
// settings file modification time. The first observation only records a
// baseline.
type ChangeTracker struct {
	settingsPath    string
	stamps          map[string]string
	settingsModTime time.Time
	mu              sync.Mutex
}

func NewChangeTracker(settingsPath string) *ChangeTracker {
	return &ChangeTracker{settingsPath: settingsPath}
}

// Diff records stamps and returns the tables whose stamp moved.
func (t *ChangeTracker) Diff(stamps map[string]string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous := t.stamps
	t.stamps = stamps
	if previous == nil {
		return nil
	}

	var changed []string
	for table, stamp := range stamps {
		if previous[table] != stamp {
			changed = append(changed, table)
		}
	}
	slices.Sort(changed)
	return changed
}

func (t *ChangeTracker) SettingsChanged() (bool, error) {
	if t.settingsPath == "" {
		return false, nil
	}

	info, err := os.Stat(t.settingsPath)
	if err != nil {
		return false, fmt.Errorf("failed to stat settings file: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	previous := t.settingsModTime
	t.settingsModTime = info.ModTime()
	return !previous.IsZero() && !previous.Equal(info.ModTime()), nil
}

// DetectChangesTask polls the content store and the settings file and
// enqueues the invalidation work a change calls for.
type DetectChangesTask struct {
	Task
	tracker   *ChangeTracker
	changes   database.ChangeRepository
	store     cache.Store
	loader    SettingsLoader
	scheduler TaskSchedulerInterface
}

func NewDetectChangesTask(tracker *ChangeTracker, changes database.ChangeRepository, store cache.Store,
	loader SettingsLoader, scheduler TaskSchedulerInterface) *DetectChangesTask {
	return &DetectChangesTask{
		Task:      NewTask(TaskTypeDetectChanges, "content"),
		tracker:   tracker,
		changes:   changes,
		store:     store,
		loader:    loader,
		scheduler: scheduler,
	}
}

func (t *DetectChangesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	settingsChanged, err := t.tracker.SettingsChanged()
	if err != nil {
		slog.Warn("Failed to check settings file", "error", err)
	}
	reloading := false
	if settingsChanged {
		if err := t.scheduler.EnqueueTask(NewReloadSettingsTask(t.loader, t.store)); err != nil {
			slog.Warn("Failed to enqueue ReloadSettingsTask", "error", err)
		} else {
			reloading = true
		}
	}

	stamps, err := t.changes.ChangeStamps(ctx)
	if err != nil {
		return fmt.Errorf("failed to read change stamps: %w", err)
	}

	tables := t.tracker.Diff(stamps)
	if len(tables) == 0 {
		slog.Debug("No content changes detected")
		return nil
	}

	// A settings reload flushes every kind anyway.
	if reloading {
		return nil
	}

	for _, kind := range KindsForTables(tables) {
		task := NewFlushCacheTask(kind, t.store, "content changed")
		if err := t.scheduler.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue FlushCacheTask", "kind", kind, "error", err)
		}
	}

	slog.Info("Task completed",
		"type", string(t.GetType()),
		"tables", tables,
		"duration", t.GetDuration())
	return nil
}
