package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCategoryRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	handler := NewCategoryHandler(services.NewCategoryService(repository.NewCategoryRepository(db)))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Authenticate as the user named in X-User-ID
	r.Use(func(c *gin.Context) {
		var userID uint64
		if err := json.Unmarshal([]byte(c.GetHeader("X-User-ID")), &userID); err == nil {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	})
	r.GET("/api/categories", handler.ListCategories)
	r.POST("/api/categories", handler.CreateCategory)
	r.PUT("/api/categories/:id", handler.RenameCategory)
	r.DELETE("/api/categories/:id", handler.DeleteCategory)

	return r, db
}

func doAs(r http.Handler, userID, method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCategoryHandler(t *testing.T) {
	r, db := setupCategoryRouter(t)
	alice := &models.User{Username: "alice", PasswordHash: "x"}
	bob := &models.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	w := doAs(r, "", http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAs(r, "1", http.MethodPost, "/api/categories", map[string]string{"name": "Work"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Work", created["name"])

	w = doAs(r, "1", http.MethodPost, "/api/categories", map[string]string{"name": "Work"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doAs(r, "2", http.MethodPut, "/api/categories/1", map[string]string{"name": "Stolen"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doAs(r, "1", http.MethodPut, "/api/categories/1", map[string]string{"name": "Office"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doAs(r, "1", http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":[{"id":1,"name":"Office"}]}`, w.Body.String())

	w = doAs(r, "1", http.MethodDelete, "/api/categories/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doAs(r, "1", http.MethodDelete, "/api/categories/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
