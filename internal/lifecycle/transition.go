package lifecycle

import (
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

var allowedTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusPending:    {models.TaskStatusInProgress, models.TaskStatusCompleted},
	models.TaskStatusInProgress: {models.TaskStatusPending, models.TaskStatusCompleted},
	models.TaskStatusCompleted:  {models.TaskStatusPending, models.TaskStatusInProgress},
}

// CanTransition reports whether from -> to is an edge of the status machine.
// Self-loops are never edges.
func CanTransition(from, to models.TaskStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a ValidationError on the status field when from -> to is not allowed.
func CheckTransition(from, to models.TaskStatus) error {
	if !CanTransition(from, to) {
		return invalid("status", "Invalid status transition from %s to %s.", from, to)
	}
	return nil
}

// Transition describes the status movement produced by an update.
type Transition struct {
	From models.TaskStatus
	To   models.TaskStatus
}

// Changed reports whether the status moved at all.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// IntoCompleted reports a move from any other status to completed.
func (t Transition) IntoCompleted() bool {
	return t.From != models.TaskStatusCompleted && t.To == models.TaskStatusCompleted
}

// OutOfCompleted reports a move away from completed.
func (t Transition) OutOfCompleted() bool {
	return t.From == models.TaskStatusCompleted && t.To != models.TaskStatusCompleted
}

// Apply computes the task that results from applying changes to the
// snapshot old at time now. old is never modified. The transition check only
// runs when changes carries a status; a completed task that stays completed
// accepts no other edits.
func Apply(old models.Task, changes Changes, now time.Time) (models.Task, Transition, error) {
	unchanged := Transition{From: old.Status, To: old.Status}

	if err := changes.Validate(now); err != nil {
		return old, unchanged, err
	}

	target := old.Status
	if changes.Status != nil {
		target = *changes.Status
	}

	if old.Status == models.TaskStatusCompleted && target == models.TaskStatusCompleted && changes.HasFieldEdits() {
		return old, unchanged, invalid("status", "Completed tasks cannot be edited unless reverted to pending or in progress.")
	}

	if changes.Status != nil {
		if err := CheckTransition(old.Status, target); err != nil {
			return old, unchanged, err
		}
	}

	tr := Transition{From: old.Status, To: target}
	next := old
	next.Status = target

	switch {
	case tr.IntoCompleted():
		completedAt := now
		next.CompletedAt = &completedAt
	case tr.OutOfCompleted():
		next.CompletedAt = nil
	}

	if changes.Title != nil {
		next.Title = strings.TrimSpace(*changes.Title)
	}
	if changes.Description != nil {
		next.Description = *changes.Description
	}
	if changes.DueDate != nil {
		next.DueDate = *changes.DueDate
	}
	if changes.Priority != nil {
		next.Priority = *changes.Priority
	}
	if changes.Recurrence != nil {
		next.Recurrence = *changes.Recurrence
	}
	if changes.ClearCategory {
		next.CategoryID = nil
		next.Category = nil
	} else if changes.CategoryID != nil {
		id := *changes.CategoryID
		next.CategoryID = &id
		next.Category = nil
	}

	return next, tr, nil
}
