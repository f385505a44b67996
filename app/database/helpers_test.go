package database

import (
	"path/filepath"
	"testing"
)

// openTestDB returns a migrated SQLite content store living in t.TempDir().
func openTestDB(t testing.TB) *DB {
	t.Helper()

	db, err := NewSQLiteConnection(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
