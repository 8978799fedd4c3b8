package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/lifecycle"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

var (
	jsonNull     = []byte("null")
	errNullValue = errors.New("null value")
)

// parseTaskChanges turns a PATCH body into lifecycle.Changes. Absent keys
// stay nil. Read-only and unknown keys are ignored. A null category_id
// detaches the category.
func parseTaskChanges(body map[string]json.RawMessage) (lifecycle.Changes, error) {
	var changes lifecycle.Changes

	if raw, ok := body["title"]; ok {
		var title string
		if err := decodeField(raw, &title); err != nil {
			return changes, fieldError("title", "Title must be a string.")
		}
		changes.Title = &title
	}

	if raw, ok := body["description"]; ok {
		var description string
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &description); err != nil {
				return changes, fieldError("description", "Description must be a string.")
			}
		}
		changes.Description = &description
	}

	if raw, ok := body["due_date"]; ok {
		if isNull(raw) {
			return changes, fieldError("due_date", "Due date is required.")
		}
		var due time.Time
		if err := json.Unmarshal(raw, &due); err != nil {
			return changes, fieldError("due_date", "Due date must be an RFC 3339 timestamp.")
		}
		changes.DueDate = &due
	}

	if raw, ok := body["priority"]; ok {
		var priority models.TaskPriority
		if err := decodeField(raw, &priority); err != nil {
			return changes, fieldError("priority", "Priority must be low, medium, or high.")
		}
		changes.Priority = &priority
	}

	if raw, ok := body["status"]; ok {
		var status models.TaskStatus
		if err := decodeField(raw, &status); err != nil {
			return changes, fieldError("status", "Status must be pending, in_progress, or completed.")
		}
		changes.Status = &status
	}

	if raw, ok := body["recurrence"]; ok {
		var recurrence models.TaskRecurrence
		if err := decodeField(raw, &recurrence); err != nil {
			return changes, fieldError("recurrence", "Recurrence must be none, daily, weekly, or monthly.")
		}
		changes.Recurrence = &recurrence
	}

	if raw, ok := body["category_id"]; ok {
		if isNull(raw) {
			changes.ClearCategory = true
		} else {
			var categoryID uint64
			if err := json.Unmarshal(raw, &categoryID); err != nil || categoryID == 0 {
				return changes, fieldError("category_id", "Category must be a positive integer or null.")
			}
			changes.CategoryID = &categoryID
		}
	}

	return changes, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// decodeField rejects null for non-nullable fields
func decodeField(raw json.RawMessage, v any) error {
	if isNull(raw) {
		return errNullValue
	}
	return json.Unmarshal(raw, v)
}

func fieldError(field, message string) error {
	return &lifecycle.ValidationError{Field: field, Message: message}
}
