package constants

const (
	// Context and session keys
	ContextKeyUserID    = "user_id"
	ContextKeyTaskID    = "task_id"
	ContextKeyRequestID = "request_id"

	SessionCookieName = "task_session"

	HeaderRequestID = "X-Request-ID"

	MinPasswordLength = 8

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MaxAIGeneratedTasks = 20
)
