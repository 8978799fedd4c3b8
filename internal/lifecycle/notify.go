package lifecycle

import (
	"fmt"
	"time"
)

const (
	// DueSoonWindow is how far ahead of the due date a task counts as due soon.
	DueSoonWindow = 24 * time.Hour
	// DueSoonMarker is the substring identifying due-soon messages.
	DueSoonMarker = "due soon"
)

// IsDueSoon reports whether due falls within the due-soon window of now.
// Overdue tasks count as due soon.
func IsDueSoon(due, now time.Time) bool {
	return due.Sub(now) <= DueSoonWindow
}

// DueSoonMessage formats the notification text for a task title.
func DueSoonMessage(title string) string {
	return fmt.Sprintf("Task '%s' is %s!", title, DueSoonMarker)
}
