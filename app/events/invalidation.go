package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/sitemap-comb/app/cache"
	"github.com/lysyi3m/sitemap-comb/app/tasks"
)

const (
	EventContent  = "content"
	EventSettings = "settings"
)

// Event is the invalidation message published by content writers, e.g.
//
//	{"type":"content","table":"posts"}
//	{"type":"content","kind":"news"}
//	{"type":"settings"}
type Event struct {
	Type  string `json:"type"`
	Table string `json:"table,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// Valid reports whether the event names something that can be invalidated.
func (e *Event) Valid() bool {
	switch e.Type {
	case EventSettings:
		return true
	case EventContent:
		if e.Kind != "" {
			return e.Kind == cache.KindGeneral || e.Kind == cache.KindNews
		}
		return e.Table == "" || len(tasks.KindsForTables([]string{e.Table})) > 0
	default:
		return false
	}
}

// Invalidator turns events into scheduler tasks.
type Invalidator struct {
	scheduler tasks.TaskSchedulerInterface
	store     cache.Store
	loader    tasks.SettingsLoader
}

func NewInvalidator(scheduler tasks.TaskSchedulerInterface, store cache.Store, loader tasks.SettingsLoader) *Invalidator {
	return &Invalidator{scheduler: scheduler, store: store, loader: loader}
}

// Handle enqueues the work for one event. A content event without kind or
// table flushes every kind.
func (i *Invalidator) Handle(ctx context.Context, event *Event) error {
	if event.Type == EventSettings {
		if err := i.scheduler.EnqueueTask(tasks.NewReloadSettingsTask(i.loader, i.store)); err != nil {
			return fmt.Errorf("failed to enqueue settings reload: %w", err)
		}
		return nil
	}

	kinds := []string{""}
	switch {
	case event.Kind != "":
		kinds = []string{event.Kind}
	case event.Table != "":
		kinds = tasks.KindsForTables([]string{event.Table})
	}

	for _, kind := range kinds {
		if err := i.scheduler.EnqueueTask(tasks.NewFlushCacheTask(kind, i.store, "event")); err != nil {
			return fmt.Errorf("failed to enqueue cache flush: %w", err)
		}
	}
	return nil
}

// MessageHandler wraps the invalidator for the consumer. Malformed events
// are marked and dropped; enqueue failures are redelivered.
func (i *Invalidator) MessageHandler() MessageHandler {
	return &TypedMessageHandler[Event]{
		Validate: func(event *Event) bool {
			if !event.Valid() {
				slog.Warn("Skipping invalid invalidation event", "type", event.Type, "table", event.Table, "kind", event.Kind)
				return false
			}
			return true
		},
		Process:    i.Handle,
		AlwaysMark: true,
	}
}
