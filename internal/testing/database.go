package testing

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/pyrust/cache"
)

// CreateTestDB creates an in-memory SQLite database with the cache schema
// applied. Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})

	if err := cache.Migrate(db, zaptest.NewLogger(t).Sugar()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestStore returns a translation cache backed by CreateTestDB.
func CreateTestStore(t *testing.T) *cache.Store {
	t.Helper()
	return cache.NewStore(CreateTestDB(t))
}
