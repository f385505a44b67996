// Package databasetest opens migrated SQLite content stores for tests of
// packages built on app/database.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/lysyi3m/sitemap-comb/app/database"
)

// Open returns a migrated SQLite content store living in t.TempDir().
func Open(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
