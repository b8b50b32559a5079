package test_utils

import (
	"fmt"
	"testing"

	"taskflow/internal/storage"
	cache_utils "taskflow/internal/util/cache"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDatabase opens a private in-memory SQLite database, migrates the
// given models and installs it as the process-wide connection.
func SetupTestDatabase(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// one connection keeps the shared in-memory database from reporting
	// table locks under concurrent access
	if sqlDb, err := db.DB(); err == nil {
		sqlDb.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	storage.SetDbForTests(db)
	cache_utils.DisableForTests()

	t.Cleanup(func() {
		if sqlDb, err := db.DB(); err == nil {
			_ = sqlDb.Close()
		}
	})

	return db
}
