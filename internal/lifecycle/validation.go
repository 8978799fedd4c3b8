package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

const MaxTitleLength = 255

// ValidationError reports a rejected field value, an illegal status
// transition or an edit of a locked completed task.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateTitle rejects blank or oversized titles.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return invalid("title", "Title cannot be empty.")
	}
	if len(trimmed) > MaxTitleLength {
		return invalid("title", "Title must be at most %d characters.", MaxTitleLength)
	}
	return nil
}

// ValidateDueDate requires the due date to lie strictly after now.
func ValidateDueDate(due, now time.Time) error {
	if due.IsZero() {
		return invalid("due_date", "Due date is required.")
	}
	if !due.After(now) {
		return invalid("due_date", "Due date must be in the future.")
	}
	return nil
}

func ValidatePriority(p models.TaskPriority) error {
	switch p {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return nil
	}
	return invalid("priority", "Priority must be low, medium, or high.")
}

func ValidateStatus(s models.TaskStatus) error {
	switch s {
	case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted:
		return nil
	}
	return invalid("status", "Status must be pending, in_progress, or completed.")
}

func ValidateRecurrence(r models.TaskRecurrence) error {
	switch r {
	case models.RecurrenceNone, models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
		return nil
	}
	return invalid("recurrence", "Recurrence must be none, daily, weekly, or monthly.")
}

// Draft is the user-supplied part of a task being created.
type Draft struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    models.TaskPriority
	Status      models.TaskStatus
	Recurrence  models.TaskRecurrence
}

// WithDefaults fills the enum fields left empty by the caller.
func (d Draft) WithDefaults() Draft {
	d.Title = strings.TrimSpace(d.Title)
	if d.Priority == "" {
		d.Priority = models.TaskPriorityLow
	}
	if d.Status == "" {
		d.Status = models.TaskStatusPending
	}
	if d.Recurrence == "" {
		d.Recurrence = models.RecurrenceNone
	}
	return d
}

// ValidateDraft checks a new task. Tasks cannot be born completed.
func ValidateDraft(d Draft, now time.Time) error {
	if err := ValidateTitle(d.Title); err != nil {
		return err
	}
	if err := ValidateDueDate(d.DueDate, now); err != nil {
		return err
	}
	if err := ValidatePriority(d.Priority); err != nil {
		return err
	}
	if err := ValidateRecurrence(d.Recurrence); err != nil {
		return err
	}
	if err := ValidateStatus(d.Status); err != nil {
		return err
	}
	if d.Status == models.TaskStatusCompleted {
		return invalid("status", "New tasks cannot be created with status 'completed'.")
	}
	return nil
}

// Changes is a partial update. Nil fields were absent from the request.
type Changes struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Priority      *models.TaskPriority
	Status        *models.TaskStatus
	Recurrence    *models.TaskRecurrence
	CategoryID    *uint64
	ClearCategory bool
}

// StatusOnly builds the payload used by the mark-* operations.
func StatusOnly(status models.TaskStatus) Changes {
	return Changes{Status: &status}
}

// HasFieldEdits reports whether anything besides status is being changed.
func (c Changes) HasFieldEdits() bool {
	return c.Title != nil ||
		c.Description != nil ||
		c.DueDate != nil ||
		c.Priority != nil ||
		c.Recurrence != nil ||
		c.CategoryID != nil ||
		c.ClearCategory
}

// Validate runs the field-level checks on the fields that are present.
func (c Changes) Validate(now time.Time) error {
	if c.Title != nil {
		if err := ValidateTitle(*c.Title); err != nil {
			return err
		}
	}
	if c.DueDate != nil {
		if err := ValidateDueDate(*c.DueDate, now); err != nil {
			return err
		}
	}
	if c.Priority != nil {
		if err := ValidatePriority(*c.Priority); err != nil {
			return err
		}
	}
	if c.Recurrence != nil {
		if err := ValidateRecurrence(*c.Recurrence); err != nil {
			return err
		}
	}
	if c.Status != nil {
		if err := ValidateStatus(*c.Status); err != nil {
			return err
		}
	}
	if c.CategoryID != nil && c.ClearCategory {
		return invalid("category_id", "Category cannot be set and cleared at once.")
	}
	return nil
}
