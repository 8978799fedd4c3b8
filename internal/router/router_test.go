package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// RouterTestSuite drives the full route table over HTTP
type RouterTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(database.AllModels()...))
	s.db = db

	svc := NewServices(db, services.NewTokenService("test-secret", time.Hour), nil)
	svc.Tasks.SetClock(func() time.Time { return testNow })
	svc.Notifications.SetClock(func() time.Time { return testNow })

	s.router = New(Options{
		DB:           db,
		Services:     svc,
		SessionStore: cookie.NewStore([]byte("secret")),
	})
}

func (s *RouterTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *RouterTestSuite) request(method, path, token string, payload any) (int, map[string]any) {
	var body bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var response map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w.Code, response
}

// signupAndLogin returns the new user's ID and bearer token
func (s *RouterTestSuite) signupAndLogin(username string) (uint64, string) {
	code, _ := s.request(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"password": "supersecret",
	})
	s.Require().Equal(http.StatusCreated, code)

	code, response := s.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "supersecret",
	})
	s.Require().Equal(http.StatusOK, code)

	user := response["user"].(map[string]any)
	return uint64(user["id"].(float64)), response["token"].(string)
}

func (s *RouterTestSuite) TestHealthAndMetrics() {
	code, response := s.request(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, code)
	s.Equal("ok", response["database"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "tasks_created_total")
}

func (s *RouterTestSuite) TestRequiresAuthentication() {
	code, _ := s.request(http.MethodGet, "/api/tasks", "", nil)
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.request(http.MethodGet, "/api/notifications", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, code)
}

// TestRecurringTaskScenario walks a weekly task through its lifecycle
func (s *RouterTestSuite) TestRecurringTaskScenario() {
	_, ownerToken := s.signupAndLogin("owner")
	collaboratorID, collaboratorToken := s.signupAndLogin("helper")
	_, strangerToken := s.signupAndLogin("stranger")

	code, category := s.request(http.MethodPost, "/api/categories", ownerToken, map[string]string{"name": "Home"})
	s.Require().Equal(http.StatusCreated, code)

	due := testNow.Add(10 * time.Hour)
	code, task := s.request(http.MethodPost, "/api/tasks", ownerToken, map[string]any{
		"title":       "Water plants",
		"due_date":    due.Format(time.RFC3339),
		"priority":    "medium",
		"recurrence":  "weekly",
		"category_id": category["id"],
	})
	s.Require().Equal(http.StatusCreated, code)
	taskPath := fmt.Sprintf("/api/tasks/%d", int(task["id"].(float64)))

	// Due within 24h: the owner is notified once
	code, notifications := s.request(http.MethodGet, "/api/notifications?unread=true", ownerToken, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Len(notifications["notifications"], 1)

	code, _ = s.request(http.MethodGet, taskPath, strangerToken, nil)
	s.Equal(http.StatusNotFound, code)

	code, _ = s.request(http.MethodPost, taskPath+"/collaborators", ownerToken, map[string]any{"user_ids": []uint64{collaboratorID}})
	s.Require().Equal(http.StatusOK, code)

	code, updated := s.request(http.MethodPost, taskPath+"/in-progress", collaboratorToken, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("in_progress", updated["status"])

	code, updated = s.request(http.MethodPost, taskPath+"/complete", ownerToken, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("completed", updated["status"])

	code, response := s.request(http.MethodPatch, taskPath, ownerToken, map[string]any{"title": "Edited"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("VALIDATION_ERROR", response["code"])

	code, list := s.request(http.MethodGet, "/api/tasks?sort=due_date", ownerToken, nil)
	s.Require().Equal(http.StatusOK, code)
	tasks := list["tasks"].([]any)
	s.Require().Len(tasks, 2)
	successor := tasks[1].(map[string]any)
	s.Equal("pending", successor["status"])
	s.Equal(due.Add(7*24*time.Hour).Format(time.RFC3339), successor["due_date"])

	code, history := s.request(http.MethodGet, taskPath+"/history", collaboratorToken, nil)
	s.Require().Equal(http.StatusOK, code)
	entries := history["history"].([]any)
	s.Require().Len(entries, 2)
	s.Equal("in_progress", entries[0].(map[string]any)["status"])
	s.Equal("completed", entries[1].(map[string]any)["status"])

	code, _ = s.request(http.MethodDelete, taskPath, collaboratorToken, nil)
	s.Equal(http.StatusForbidden, code)

	code, marked := s.request(http.MethodPost, "/api/notifications/read-all", ownerToken, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(float64(1), marked["updated"])

	code, _ = s.request(http.MethodDelete, taskPath, ownerToken, nil)
	s.Equal(http.StatusOK, code)
	code, _ = s.request(http.MethodGet, taskPath, ownerToken, nil)
	s.Equal(http.StatusNotFound, code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
