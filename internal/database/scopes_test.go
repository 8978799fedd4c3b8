package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newScopeDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func TestScopes_VisibleToAndDueWithin(t *testing.T) {
	db := newScopeDB(t)

	owner := models.User{Username: "owner", PasswordHash: "x"}
	helper := models.User{Username: "helper", PasswordHash: "x"}
	stranger := models.User{Username: "stranger", PasswordHash: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&helper).Error)
	require.NoError(t, db.Create(&stranger).Error)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	shared := models.Task{Title: "shared", DueDate: base, OwnerID: owner.ID}
	private := models.Task{Title: "private", DueDate: base.Add(48 * time.Hour), OwnerID: owner.ID}
	require.NoError(t, db.Create(&shared).Error)
	require.NoError(t, db.Create(&private).Error)
	require.NoError(t, db.Create(&models.TaskCollaborator{TaskID: shared.ID, UserID: helper.ID}).Error)

	titles := func(scopes ...func(*gorm.DB) *gorm.DB) []string {
		var tasks []models.Task
		require.NoError(t, db.Model(&models.Task{}).Scopes(scopes...).Order("tasks.id").Find(&tasks).Error)
		out := make([]string, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.Title)
		}
		return out
	}

	assert.Equal(t, []string{"shared", "private"}, titles(VisibleTo(owner.ID)))
	assert.Equal(t, []string{"shared"}, titles(VisibleTo(helper.ID)))
	assert.Empty(t, titles(VisibleTo(stranger.ID)))

	from := base.Add(-time.Hour)
	to := base.Add(time.Hour)
	assert.Equal(t, []string{"shared"}, titles(DueWithin(&from, &to)))
	assert.Equal(t, []string{"private"}, titles(DueWithin(&to, nil)))

	assert.Equal(t, []string{"private"}, titles(Paginate(utils.NewPaginationParams(2, 1))))
}
