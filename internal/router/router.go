// Package router wires repositories, services and handlers into the HTTP
// route table.
package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"gorm.io/gorm"
)

// Services bundles the application services shared by handlers and
// background jobs.
type Services struct {
	Auth          *services.AuthService
	Tokens        *services.TokenService
	Tasks         *services.TaskService
	Categories    *services.CategoryService
	Notifications *services.NotificationService
}

// NewServices builds every service on top of GORM repositories. tokens and
// ai may be nil.
func NewServices(db *gorm.DB, tokens *services.TokenService, ai *services.AIService) *Services {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifications := services.NewNotificationService(notificationRepo)

	return &Services{
		Auth:          services.NewAuthService(userRepo),
		Tokens:        tokens,
		Tasks:         services.NewTaskService(db, taskRepo, userRepo, categoryRepo, historyRepo, notifications, ai),
		Categories:    services.NewCategoryService(categoryRepo),
		Notifications: notifications,
	}
}

type Options struct {
	DB           *gorm.DB
	Services     *Services
	SessionStore sessions.Store
	// AuthLimiter throttles signup and login. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

func New(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.SessionStore))

	svc := opts.Services
	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Tokens)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)
	healthHandler := handlers.NewHealthHandler(opts.DB)

	var tokens middleware.TokenParser
	if svc.Tokens != nil {
		tokens = svc.Tokens
	}
	requireAuth := middleware.RequireAuth(tokens)

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.AuthLimiter != nil {
		limit = opts.AuthLimiter.Middleware()
	}

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", limit, authHandler.Signup)
			auth.POST("/login", limit, authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)

			task := tasks.Group("/:id", middleware.RequireTaskID())
			task.GET("", taskHandler.GetTask)
			task.PATCH("", taskHandler.UpdateTask)
			task.DELETE("", taskHandler.DeleteTask)
			task.POST("/pending", taskHandler.MarkPending)
			task.POST("/in-progress", taskHandler.MarkInProgress)
			task.POST("/complete", taskHandler.MarkComplete)
			task.GET("/history", taskHandler.ListHistory)
			task.POST("/collaborators", taskHandler.AddCollaborators)
			task.DELETE("/collaborators", taskHandler.RemoveCollaborators)
		}

		// Category routes (protected)
		categories := api.Group("/categories")
		categories.Use(requireAuth)
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.RenameCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}
