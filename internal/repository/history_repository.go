package repository

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormHistoryRepository is a GORM implementation of HistoryRepository
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) WithTx(tx *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: tx}
}

func (r *GormHistoryRepository) Create(ctx context.Context, entry *models.TaskHistory) error {
	return r.db.WithContext(ctx).Omit("User").Create(entry).Error
}

func (r *GormHistoryRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("changed_at ASC").
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
