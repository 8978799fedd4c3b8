package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Tasks created by users",
		},
	)
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_status_transitions_total",
			Help: "Committed task status transitions",
		},
		[]string{"from", "to"},
	)
	RecurringSuccessors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_recurring_successors_total",
			Help: "Successor tasks spawned by completing a recurring task",
		},
		[]string{"recurrence"},
	)
	DueSoonNotifications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "task_due_soon_notifications_total",
			Help: "Due-soon notifications created",
		},
	)
	NotificationsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_purged_total",
			Help: "Read notifications removed by the retention job",
		},
	)
	RateLimitRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RateLimitBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		TasksCreated,
		StatusTransitions,
		RecurringSuccessors,
		DueSoonNotifications,
		NotificationsPurged,
		RateLimitRequests,
		RateLimitBlocked,
	)
}
