package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// CollaboratorDTO represents a task collaborator in API responses
type CollaboratorDTO struct {
	User    UserDTO   `json:"user"`
	AddedAt time.Time `json:"added_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	DueDate       time.Time             `json:"due_date"`
	Priority      models.TaskPriority   `json:"priority"`
	Status        models.TaskStatus     `json:"status"`
	Recurrence    models.TaskRecurrence `json:"recurrence"`
	CompletedAt   *time.Time            `json:"completed_at"`
	OwnerID       uint64                `json:"owner_id"`
	CategoryID    *uint64               `json:"category_id"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Owner         *UserDTO              `json:"owner,omitempty"`
	Category      *CategoryDTO          `json:"category,omitempty"`
	Collaborators []CollaboratorDTO     `json:"collaborators,omitempty"`
}

// TaskListItemDTO represents a task in list responses (minimal data)
type TaskListItemDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	DueDate     time.Time           `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	OwnerID     uint64              `json:"owner_id"`
	Owner       *UserDTO            `json:"owner,omitempty"`
	Category    *CategoryDTO        `json:"category,omitempty"`
	CompletedAt *time.Time          `json:"completed_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskListItemDTO        `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// HistoryEntryDTO represents one observed status change
type HistoryEntryDTO struct {
	ID        uint64            `json:"id"`
	Status    models.TaskStatus `json:"status"`
	ChangedAt time.Time         `json:"changed_at"`
	User      *UserDTO          `json:"user,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}
}

func toUserRef(user models.User) *UserDTO {
	if user.ID == 0 {
		return nil
	}
	ref := UserDTO{ID: user.ID, Username: user.Username}
	return &ref
}

// ToCollaboratorDTOs converts collaborator rows with preloaded users
func ToCollaboratorDTOs(collaborators []models.TaskCollaborator) []CollaboratorDTO {
	result := make([]CollaboratorDTO, 0, len(collaborators))
	for _, collaborator := range collaborators {
		user := UserDTO{ID: collaborator.UserID, Username: collaborator.User.Username}
		result = append(result, CollaboratorDTO{User: user, AddedAt: collaborator.CreatedAt})
	}
	return result
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		Recurrence:  task.Recurrence,
		CompletedAt: task.CompletedAt,
		OwnerID:     task.OwnerID,
		CategoryID:  task.CategoryID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Owner:       toUserRef(task.Owner),
	}

	if task.Category != nil {
		category := ToCategoryDTO(*task.Category)
		dto.Category = &category
	}

	if len(task.Collaborators) > 0 {
		dto.Collaborators = ToCollaboratorDTOs(task.Collaborators)
	}

	return dto
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	dto := TaskListItemDTO{
		ID:          task.ID,
		Title:       task.Title,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		OwnerID:     task.OwnerID,
		Owner:       toUserRef(task.Owner),
		CompletedAt: task.CompletedAt,
	}

	if task.Category != nil {
		category := ToCategoryDTO(*task.Category)
		dto.Category = &category
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToHistoryDTOs converts history rows in order
func ToHistoryDTOs(entries []models.TaskHistory) []HistoryEntryDTO {
	result := make([]HistoryEntryDTO, len(entries))
	for i, entry := range entries {
		result[i] = HistoryEntryDTO{
			ID:        entry.ID,
			Status:    entry.Status,
			ChangedAt: entry.ChangedAt,
			User:      toUserRef(entry.User),
		}
	}
	return result
}
