package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/lifecycle"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService handles in-app notifications
type NotificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
		now:  time.Now,
	}
}

// SetClock replaces the time source (used for testing)
func (s *NotificationService) SetClock(now func() time.Time) {
	s.now = now
}

// TriggerDueSoon notifies the task owner when the task is due within the
// due-soon window and no unread due-soon notification exists for it yet.
// When tx is non-nil the check and insert run inside it. Reports whether a
// notification was created.
func (s *NotificationService) TriggerDueSoon(ctx context.Context, tx *gorm.DB, task models.Task, now time.Time) (bool, error) {
	if !lifecycle.IsDueSoon(task.DueDate, now) {
		return false, nil
	}

	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	exists, err := repo.ExistsUnread(ctx, task.OwnerID, task.ID, lifecycle.DueSoonMarker)
	if err != nil {
		return false, fmt.Errorf("failed to check notifications: %w", err)
	}
	if exists {
		return false, nil
	}

	notification := &models.Notification{
		UserID:    task.OwnerID,
		TaskID:    task.ID,
		Message:   lifecycle.DueSoonMessage(task.Title),
		CreatedAt: now,
	}
	if err := repo.Create(ctx, notification); err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}

	return true, nil
}

// ListForUser lists the user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID uint64, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks one of the user's notifications as read. Notifications of
// other users are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint64) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	if notification.UserID != userID {
		return nil, ErrNotificationNotFound
	}

	if !notification.IsRead {
		if err := s.repo.MarkRead(ctx, notification.ID); err != nil {
			return nil, fmt.Errorf("failed to mark notification as read: %w", err)
		}
		notification.IsRead = true
	}

	return notification, nil
}

// MarkAllRead marks every unread notification of the user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return count, nil
}

// PurgeRead deletes read notifications older than retention
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	count, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	return count, nil
}
