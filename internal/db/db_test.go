package db

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"threadboard/internal/config"
	"threadboard/internal/logger"
	"threadboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=1", sqliteDSN(":memory:"))
	assert.Equal(t, "app.db?_foreign_keys=1", sqliteDSN("app.db"))
	assert.Equal(t, "file:app.db?cache=shared&_foreign_keys=1", sqliteDSN("file:app.db?cache=shared"))
	assert.Equal(t, "app.db?_fk=0", sqliteDSN("app.db?_fk=0"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever", logger.NewWithOutput("error", io.Discard))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads.db")
	gdb, err := Open(config.DriverSQLite, path, logger.NewWithOutput("error", io.Discard))
	require.NoError(t, err)
	defer Close(gdb)

	require.NoError(t, Ping(context.Background(), gdb))
	assert.True(t, gdb.Migrator().HasTable(&models.User{}))
	assert.True(t, gdb.Migrator().HasTable(&models.Comment{}))

	// migrating twice is a no-op
	require.NoError(t, Migrate(gdb))
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	gdb, err := Open(config.DriverSQLite, ":memory:", logger.NewWithOutput("error", io.Discard))
	require.NoError(t, err)
	defer Close(gdb)

	err = gdb.Omit("User", "Parent").Create(&models.Comment{Text: "orphan", UserID: 42}).Error
	assert.Error(t, err)
}

func TestUniqueUsernameTranslated(t *testing.T) {
	gdb, err := Open(config.DriverSQLite, ":memory:", logger.NewWithOutput("error", io.Discard))
	require.NoError(t, err)
	defer Close(gdb)

	require.NoError(t, gdb.Create(&models.User{Username: "alice1", Email: "a@example.com", Password: "x"}).Error)
	err = gdb.Create(&models.User{Username: "alice1", Email: "b@example.com", Password: "x"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
