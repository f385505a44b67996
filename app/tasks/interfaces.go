package tasks

import (
	"github.com/lysyi3m/sitemap-comb/app/settings"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// The API handlers and the event consumer enqueue invalidation work through it.
//
//	scheduler := NewScheduler(changeRepo, store, settingsStore, tracker, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewFlushCacheTask("news", store, "manual"))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// SettingsLoader re-reads the settings file.
type SettingsLoader interface {
	Load() (*settings.Settings, error)
}

var _ SettingsLoader = (*settings.Store)(nil)
