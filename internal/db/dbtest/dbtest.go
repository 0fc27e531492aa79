// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"io"
	"testing"

	"threadboard/internal/config"
	"threadboard/internal/db"
	"threadboard/internal/logger"

	"gorm.io/gorm"
)

// Open returns a migrated, empty in-memory SQLite database closed at test cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(config.DriverSQLite, ":memory:", logger.NewWithOutput("error", io.Discard))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}
