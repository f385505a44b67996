package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/sitemap-comb/app/database"
	"github.com/lysyi3m/sitemap-comb/app/logger"
)

// Options for loading a content fixture into a content store.
type Options struct {
	Fixture    string `long:"fixture" short:"f" required:"true" description:"YAML content fixture"`
	DBDriver   string `long:"db-driver" env:"DB_DRIVER" default:"sqlite" choice:"postgres" choice:"sqlite" description:"Content store driver"`
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"sitemap_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"sitemap_password" description:"Database password"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"sitemap_comb" description:"Database name"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./data/content.db" description:"SQLite database file"`
	Debug      bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	logger.Setup(opts.Debug)

	if err := run(opts); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	data, err := os.ReadFile(opts.Fixture)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	fixture, err := database.ParseFixture(data)
	if err != nil {
		return err
	}

	var db *database.DB
	if opts.DBDriver == database.DriverSQLite {
		db, err = database.NewSQLiteConnection(opts.DBPath)
	} else {
		db, err = database.NewConnection(opts.DBHost, opts.DBPort, opts.DBUser, opts.DBPassword, opts.DBName)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if _, _, err := database.RunMigrations(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	started := time.Now()
	rows, err := database.NewSeeder(db).Apply(ctx, fixture)
	if err != nil {
		return err
	}

	slog.Info("Fixture loaded", "file", opts.Fixture, "rows", rows, "duration", time.Since(started))
	return nil
}
