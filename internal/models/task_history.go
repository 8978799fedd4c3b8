package models

import "time"

// TaskHistory is an append-only record of an observed status change.
type TaskHistory struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	TaskID    uint64     `gorm:"not null;index" json:"task_id"`
	UserID    uint64     `gorm:"not null" json:"user_id"`
	Status    TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	ChangedAt time.Time  `gorm:"not null" json:"changed_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TaskHistory) TableName() string {
	return "task_history"
}
