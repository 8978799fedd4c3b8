package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// Paginate applies offset/limit from params
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// VisibleTo keeps tasks owned by userID or shared with them as a collaborator.
func VisibleTo(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		shared := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.TaskCollaborator{}).
			Select("1").
			Where("task_collaborators.task_id = tasks.id").
			Where("task_collaborators.user_id = ?", userID)
		return db.Where("tasks.owner_id = ? OR EXISTS (?)", userID, shared)
	}
}

// DueWithin keeps tasks whose due date falls in [from, to). Either bound may be nil.
func DueWithin(from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("tasks.due_date >= ?", *from)
		}
		if to != nil {
			db = db.Where("tasks.due_date < ?", *to)
		}
		return db
	}
}

// UnreadOnly keeps notifications that have not been read yet.
func UnreadOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}
