package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) TaskRepository

	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update saves every column of a task, leaving associations alone
	Update(ctx context.Context, task *models.Task) error

	// Delete soft deletes a task and removes its history, notifications and collaborators
	Delete(ctx context.Context, id uint64) error

	// AddCollaborators grants collaborator access to the given users
	AddCollaborators(ctx context.Context, taskID uint64, userIDs []uint64) error

	// RemoveCollaborators revokes collaborator access
	RemoveCollaborators(ctx context.Context, taskID uint64, userIDs []uint64) error

	// ListCollaborators lists collaborators of a task with their users
	ListCollaborators(ctx context.Context, taskID uint64) ([]models.TaskCollaborator, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// VisibleTo restricts results to tasks owned by or shared with this user.
	// Nil lists every task.
	VisibleTo     *uint64
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Recurrence    *models.TaskRecurrence
	CategoryID    *uint64
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository

	// Create creates a new category
	Create(ctx context.Context, category *models.Category) error

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uint64) (*models.Category, error)

	// FindByOwnerAndName finds a category by its owner and name
	FindByOwnerAndName(ctx context.Context, ownerID uint64, name string) (*models.Category, error)

	// ListByOwner lists the categories of a user ordered by name
	ListByOwner(ctx context.Context, ownerID uint64) ([]models.Category, error)

	// Update updates a category
	Update(ctx context.Context, category *models.Category) error

	// Delete deletes a category and detaches it from its tasks
	Delete(ctx context.Context, id uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository

	// Create creates a new notification
	Create(ctx context.Context, notification *models.Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uint64) (*models.Notification, error)

	// ExistsUnread reports whether an unread notification for (user, task)
	// whose message contains marker exists. The match is case-insensitive.
	ExistsUnread(ctx context.Context, userID, taskID uint64, marker string) (bool, error)

	// ListByUser lists a user's notifications, newest first
	ListByUser(ctx context.Context, userID uint64, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error)

	// MarkRead flags one notification as read
	MarkRead(ctx context.Context, id uint64) error

	// MarkAllRead flags every unread notification of a user as read
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)

	// DeleteReadBefore removes read notifications created before cutoff
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryRepository defines the interface for task history data access
type HistoryRepository interface {
	WithTx(tx *gorm.DB) HistoryRepository

	// Create appends a history entry
	Create(ctx context.Context, entry *models.TaskHistory) error

	// ListByTask lists the history of a task in chronological order
	ListByTask(ctx context.Context, taskID uint64) ([]models.TaskHistory, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)
}
