package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate_CreatesIndexesOnce(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	SetDB(db)
	require.NoError(t, Migrate())
	require.True(t, db.Migrator().HasIndex(&models.Notification{}, "idx_notifications_user_task_read"))

	// Second run must skip existing indexes
	require.NoError(t, Migrate())
}
