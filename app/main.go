package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/sitemap-comb/app/api"
	"github.com/lysyi3m/sitemap-comb/app/cache"
	"github.com/lysyi3m/sitemap-comb/app/cfg"
	"github.com/lysyi3m/sitemap-comb/app/database"
	"github.com/lysyi3m/sitemap-comb/app/events"
	"github.com/lysyi3m/sitemap-comb/app/logger"
	"github.com/lysyi3m/sitemap-comb/app/settings"
	"github.com/lysyi3m/sitemap-comb/app/sitemap"
	"github.com/lysyi3m/sitemap-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logger.Setup(appCfg.Debug)
	slog.Info("Starting Sitemap Comb server", "version", appCfg.Version)

	db, err := openDatabase(appCfg)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", appCfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "driver", db.Driver(), "schema_version", version, "dirty", dirty)

	settingsStore := settings.NewStore(appCfg.SettingsFile, appCfg.BaseUrl)
	s, err := settingsStore.Load()
	if err != nil {
		slog.Error("Failed to load settings", "file", appCfg.SettingsFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Settings loaded", "file", appCfg.SettingsFile, "home_url", s.HomeURL, "items_per_sitemap", s.ItemsPerSitemap)

	store, err := openCache(appCfg)
	if err != nil {
		slog.Error("Failed to connect to cache", "backend", appCfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	termRepo := database.NewTermRepository(db)
	postRepo := database.NewPostRepository(db)
	groupRepo := database.NewGroupRepository(db)
	profileRepo := database.NewProfileRepository(db)

	hooks := sitemap.NewHooks()
	exclusions := sitemap.NewExclusionResolver(termRepo, postRepo, hooks)

	orchestrator := sitemap.NewOrchestrator(store, settingsStore, hooks,
		sitemap.NewTermSource(termRepo, exclusions),
		sitemap.NewPostTypeSource(postRepo, exclusions),
		sitemap.NewGroupSource(groupRepo, exclusions),
		sitemap.NewProfileSource(profileRepo, exclusions),
		sitemap.NewExtrasSource(),
		sitemap.NewNewsSource(postRepo, exclusions, hooks),
	)

	tracker := tasks.NewChangeTracker(appCfg.SettingsFile)
	scheduler := tasks.NewScheduler(database.NewChangeRepository(db), store, settingsStore, tracker,
		time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.WorkerCount)
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler.Start()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	var consumer *events.Consumer
	if appCfg.KafkaEnabled() {
		invalidator := events.NewInvalidator(scheduler, store, settingsStore)
		consumer, err = events.NewConsumer(events.ConsumerConfig{
			Brokers: appCfg.KafkaBrokers,
			Topic:   appCfg.KafkaTopic,
			GroupID: appCfg.KafkaGroupID,
			Handler: invalidator.MessageHandler(),
		})
		if err != nil {
			slog.Error("Failed to create Kafka consumer", "brokers", appCfg.KafkaBrokers, "error", err)
			os.Exit(1)
		}

		go func() {
			if err := consumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
				slog.Error("Kafka consumer failed to start", "error", err)
			}
		}()
	} else {
		slog.Info("Kafka invalidation events disabled")
	}

	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	apiHandler := api.NewHandler(orchestrator, store, settingsStore, scheduler, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "index", "/sitemap.xml", "news_index", "/news-sitemap.xml")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	if consumer != nil {
		stopConsumer()
		if err := consumer.Close(); err != nil {
			slog.Error("Kafka consumer shutdown error", "error", err)
		}
	}

	scheduler.Stop()
	slog.Info("Background scheduler stopped")

	slog.Info("Sitemap Comb server shutdown complete")
}

func openDatabase(c *cfg.Cfg) (*database.DB, error) {
	if c.DBDriver == database.DriverSQLite {
		return database.NewSQLiteConnection(c.DBPath)
	}
	return database.NewConnection(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func openCache(c *cfg.Cfg) (cache.Store, error) {
	if c.CacheBackend == "redis" {
		return cache.NewRedisStore(c.RedisAddr, c.RedisPass, c.RedisDB)
	}
	return cache.NewMemoryStore(), nil
}
