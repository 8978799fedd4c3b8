package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/lifecycle"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks visible to the current user.
// Supports status, priority, recurrence, category_id, due_today and
// sort=due_date query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		UserID:        userID,
		DueToday:      c.Query("due_today") == "true",
		SortByDueDate: c.Query("sort") == "due_date",
		Page:          params.Page,
		PageSize:      params.Limit,
	}

	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		if err := lifecycle.ValidateStatus(status); err != nil {
			respondServiceError(c, err)
			return
		}
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		if err := lifecycle.ValidatePriority(priority); err != nil {
			respondServiceError(c, err)
			return
		}
		input.Priority = &priority
	}
	if v := c.Query("recurrence"); v != "" {
		recurrence := models.TaskRecurrence(v)
		if err := lifecycle.ValidateRecurrence(recurrence); err != nil {
			respondServiceError(c, err)
			return
		}
		input.Recurrence = &recurrence
	}
	if v := c.Query("category_id"); v != "" {
		categoryID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid category_id")
			return
		}
		input.CategoryID = &categoryID
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := h.identify(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string                `json:"title"`
		Description string                `json:"description"`
		DueDate     *time.Time            `json:"due_date"`
		Priority    models.TaskPriority   `json:"priority"`
		Status      models.TaskStatus     `json:"status"`
		Recurrence  models.TaskRecurrence `json:"recurrence"`
		CategoryID  *uint64               `json:"category_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Recurrence:  req.Recurrence,
		CategoryID:  req.CategoryID,
	}
	if req.DueDate != nil {
		input.DueDate = *req.DueDate
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Only the fields present in the body
// are changed; a status field goes through the transition check.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := h.identify(c)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	changes, err := parseTaskChanges(body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, userID, changes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := h.identify(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) MarkPending(c *gin.Context) {
	h.setStatus(c, models.TaskStatusPending)
}

func (h *TaskHandler) MarkInProgress(c *gin.Context) {
	h.setStatus(c, models.TaskStatusInProgress)
}

func (h *TaskHandler) MarkComplete(c *gin.Context) {
	h.setStatus(c, models.TaskStatusCompleted)
}

func (h *TaskHandler) setStatus(c *gin.Context, status models.TaskStatus) {
	userID, taskID, ok := h.identify(c)
	if !ok {
		return
	}

	task, err := h.taskService.SetStatus(c.Request.Context(), taskID, userID, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListHistory returns the status history of a task, oldest first
func (h *TaskHandler) ListHistory(c *gin.Context) {
	userID, taskID, ok := h.identify(c)
	if !ok {
		return
	}

	entries, err := h.taskService.ListHistory(c.Request.Context(), taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": dto.ToHistoryDTOs(entries)})
}

type collaboratorsRequest struct {
	UserIDs []uint64 `json:"user_ids"`
}

// AddCollaborators grants users access to a task
func (h *TaskHandler) AddCollaborators(c *gin.Context) {
	h.changeCollaborators(c, h.taskService.AddCollaborators)
}

// RemoveCollaborators revokes access
func (h *TaskHandler) RemoveCollaborators(c *gin.Context) {
	h.changeCollaborators(c, h.taskService.RemoveCollaborators)
}

func (h *TaskHandler) changeCollaborators(c *gin.Context, apply func(ctx context.Context, input services.CollaboratorsInput) ([]models.TaskCollaborator, error)) {
	userID, taskID, ok := h.identify(c)
	if !ok {
		return
	}

	var req collaboratorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	collaborators, err := apply(c.Request.Context(), services.CollaboratorsInput{
		TaskID:  taskID,
		ActorID: userID,
		UserIDs: req.UserIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": dto.ToCollaboratorDTOs(collaborators)})
}

// GenerateTasks uses AI to draft tasks from free text. Drafts are returned
// for review and not stored.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:   req.Text,
		UserID: userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": drafts})
}

func (h *TaskHandler) identify(c *gin.Context) (uint64, uint64, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, 0, false
	}
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		taskID, ok = parseIDParam(c, "id", "task ID")
		if !ok {
			return 0, 0, false
		}
	}
	return userID, taskID, true
}
