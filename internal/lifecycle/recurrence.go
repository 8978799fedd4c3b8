package lifecycle

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// Interval returns the fixed offset between occurrences. Monthly is a flat
// 30 days, not calendar aware.
func Interval(r models.TaskRecurrence) (time.Duration, bool) {
	switch r {
	case models.RecurrenceDaily:
		return 24 * time.Hour, true
	case models.RecurrenceWeekly:
		return 7 * 24 * time.Hour, true
	case models.RecurrenceMonthly:
		return 30 * 24 * time.Hour, true
	}
	return 0, false
}

// NextDueDate shifts due by one recurrence interval. It reports false for non-recurring tasks.
func NextDueDate(r models.TaskRecurrence, due time.Time) (time.Time, bool) {
	interval, ok := Interval(r)
	if !ok {
		return time.Time{}, false
	}
	return due.Add(interval), true
}

// Successor builds the next occurrence of a recurring task. It only yields a
// task when tr moved the task into completed.
func Successor(task models.Task, tr Transition) (*models.Task, bool) {
	if !tr.IntoCompleted() {
		return nil, false
	}
	due, ok := NextDueDate(task.Recurrence, task.DueDate)
	if !ok {
		return nil, false
	}

	var categoryID *uint64
	if task.CategoryID != nil {
		id := *task.CategoryID
		categoryID = &id
	}

	return &models.Task{
		Title:       task.Title,
		Description: task.Description,
		DueDate:     due,
		Priority:    task.Priority,
		Status:      models.TaskStatusPending,
		Recurrence:  task.Recurrence,
		OwnerID:     task.OwnerID,
		CategoryID:  categoryID,
	}, true
}
