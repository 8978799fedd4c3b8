package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

func newNotificationFixture(t *testing.T) (*NotificationService, *models.User, *models.Task) {
	t.Helper()

	db := newTestDB(t)
	user := createUser(t, db, "alice", false)
	task := &models.Task{
		Title:      "Report",
		DueDate:    testNow.Add(2 * time.Hour),
		Priority:   models.TaskPriorityLow,
		Status:     models.TaskStatusPending,
		Recurrence: models.RecurrenceNone,
		OwnerID:    user.ID,
	}
	require.NoError(t, db.Create(task).Error)

	service := NewNotificationService(repository.NewNotificationRepository(db))
	service.SetClock(func() time.Time { return testNow })
	return service, user, task
}

func TestTriggerDueSoon(t *testing.T) {
	ctx := context.Background()
	service, user, task := newNotificationFixture(t)

	created, err := service.TriggerDueSoon(ctx, nil, *task, testNow)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = service.TriggerDueSoon(ctx, nil, *task, testNow)
	require.NoError(t, err)
	assert.False(t, created, "an unread due-soon notification already exists")

	far := *task
	far.DueDate = testNow.Add(25 * time.Hour)
	created, err = service.TriggerDueSoon(ctx, nil, far, testNow)
	require.NoError(t, err)
	assert.False(t, created)

	notifications, total, err := service.ListForUser(ctx, user.ID, false, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Task 'Report' is due soon!", notifications[0].Message)
}

func TestTriggerDueSoon_OverdueTaskCounts(t *testing.T) {
	service, _, task := newNotificationFixture(t)

	overdue := *task
	overdue.DueDate = testNow.Add(-time.Hour)
	created, err := service.TriggerDueSoon(context.Background(), nil, overdue, testNow)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	service, user, task := newNotificationFixture(t)

	_, err := service.TriggerDueSoon(ctx, nil, *task, testNow)
	require.NoError(t, err)
	notifications, _, err := service.ListForUser(ctx, user.ID, true, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	_, err = service.MarkRead(ctx, notifications[0].ID, user.ID+1)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	_, err = service.MarkRead(ctx, 9999, user.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	read, err := service.MarkRead(ctx, notifications[0].ID, user.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, total, err := service.ListForUser(ctx, user.ID, true, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPurgeRead(t *testing.T) {
	ctx := context.Background()
	service, user, task := newNotificationFixture(t)

	old := testNow.Add(-40 * 24 * time.Hour)
	stale := *task
	stale.DueDate = old.Add(time.Hour)
	_, err := service.TriggerDueSoon(ctx, nil, stale, old)
	require.NoError(t, err)
	count, err := service.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = service.TriggerDueSoon(ctx, nil, *task, testNow)
	require.NoError(t, err)

	purged, err := service.PurgeRead(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, total, err := service.ListForUser(ctx, user.ID, false, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "unread notifications are never purged")
}
