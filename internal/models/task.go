package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type TaskRecurrence string

const (
	RecurrenceNone    TaskRecurrence = "none"
	RecurrenceDaily   TaskRecurrence = "daily"
	RecurrenceWeekly  TaskRecurrence = "weekly"
	RecurrenceMonthly TaskRecurrence = "monthly"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	DueDate     time.Time      `gorm:"not null;index" json:"due_date"`
	Priority    TaskPriority   `gorm:"type:varchar(10);not null;default:'low'" json:"priority"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Recurrence  TaskRecurrence `gorm:"type:varchar(10);not null;default:'none'" json:"recurrence"`
	CompletedAt *time.Time     `json:"completed_at"`
	OwnerID     uint64         `gorm:"not null;index" json:"owner_id"`
	CategoryID  *uint64        `gorm:"index" json:"category_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner         User               `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category      *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Collaborators []TaskCollaborator `gorm:"foreignKey:TaskID" json:"collaborators,omitempty"`
}

// HasCollaborator reports whether userID is among the loaded collaborators.
func (t Task) HasCollaborator(userID uint64) bool {
	for _, c := range t.Collaborators {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
