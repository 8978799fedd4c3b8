// Package lifecycle holds the pure rules governing a task's life: field
// validation, the status state machine, completion timestamps, recurrence
// successors and the due-soon window. Nothing here touches storage; callers
// pass an explicit snapshot of the task and the clock reading to use.
package lifecycle
