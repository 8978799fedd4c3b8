package database

import (
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes that the struct tags cannot express.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		table   string
		name    string
		columns string
	}{
		// Due-soon dedup lookup
		{&models.Notification{}, "notifications", "idx_notifications_user_task_read", "user_id, task_id, is_read"},
		// Task history listing
		{&models.TaskHistory{}, "task_history", "idx_task_history_task_changed", "task_id, changed_at"},
		// Collaborator lookups by user
		{&models.TaskCollaborator{}, "task_collaborators", "idx_task_collaborators_user_id", "user_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			logger.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
