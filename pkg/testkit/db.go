// Package testkit sets up the pieces handler and service tests share: a
// migrated in-memory database, a temp-dir upload disk and request helpers.
package testkit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/shopadmin/pkg/database"
	"github.com/shashiranjanraj/shopadmin/pkg/migration"
	"github.com/shashiranjanraj/shopadmin/pkg/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/shopadmin/database/migrations"
)

// DB opens a private in-memory SQLite database with every migration applied.
// It is closed when the test ends.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db).Up()
	require.NoError(t, err, "testkit: migrate")
	return db
}

// Disk returns a local disk rooted in a fresh temp dir.
func Disk(t testing.TB) *storage.LocalDisk {
	t.Helper()
	disk, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err, "testkit: local disk")
	return disk
}
