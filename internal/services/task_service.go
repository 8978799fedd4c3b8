package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/lifecycle"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/metrics"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/permissions"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskPermissionDenied   = errors.New("user does not have permission to perform this action on the task")
	ErrNoUserIDsProvided      = errors.New("at least one user ID is required")
	ErrInvalidCollaborator    = errors.New("one or more users do not exist")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// Relations loaded when a task is returned to callers.
var taskDetailPreloads = []string{"Owner", "Category", "Collaborators", "Collaborators.User"}

// TaskService handles task business logic
type TaskService struct {
	db           *gorm.DB
	taskRepo     repository.TaskRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	historyRepo  repository.HistoryRepository
	notifier     *NotificationService
	aiService    *AIService
	now          func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	db *gorm.DB,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	historyRepo repository.HistoryRepository,
	notifier *NotificationService,
	aiService *AIService,
) *TaskService {
	return &TaskService{
		db:           db,
		taskRepo:     taskRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		historyRepo:  historyRepo,
		notifier:     notifier,
		aiService:    aiService,
		now:          time.Now,
	}
}

// SetClock replaces the time source (used for testing)
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID        uint64
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Recurrence    *models.TaskRecurrence
	CategoryID    *uint64
	DueToday      bool
	SortByDueDate bool
	Page          int
	PageSize      int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID     uint64
	Title       string
	Description string
	DueDate     time.Time
	Priority    models.TaskPriority
	Status      models.TaskStatus
	Recurrence  models.TaskRecurrence
	CategoryID  *uint64
}

// CollaboratorsInput represents input for adding or removing collaborators
type CollaboratorsInput struct {
	TaskID  uint64
	ActorID uint64
	UserIDs []uint64
}

// ListTasks returns tasks visible to the user. Admins see every task.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	actor, err := s.loadActor(ctx, input.UserID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		Status:        input.Status,
		Priority:      input.Priority,
		Recurrence:    input.Recurrence,
		CategoryID:    input.CategoryID,
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}
	if !actor.IsAdmin {
		filter.VisibleTo = &actor.ID
	}
	if input.DueToday {
		now := s.now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)
		filter.DueDateFrom = &startOfDay
		filter.DueDateTo = &endOfDay
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data if the actor may view it
func (s *TaskService) GetTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, _, err := s.findAccessibleTask(ctx, s.taskRepo, taskID, *actor, taskDetailPreloads...)
	if err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTask validates and stores a new task owned by input.OwnerID. A
// due-soon notification is emitted in the same transaction when applicable.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	now := s.now()

	draft := lifecycle.Draft{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      input.Status,
		Recurrence:  input.Recurrence,
	}.WithDefaults()
	if err := lifecycle.ValidateDraft(draft, now); err != nil {
		return nil, err
	}

	if _, err := s.loadActor(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Priority:    draft.Priority,
		Status:      draft.Status,
		Recurrence:  draft.Recurrence,
		OwnerID:     input.OwnerID,
		CategoryID:  input.CategoryID,
	}

	var notified bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.CategoryID != nil {
			if err := s.ensureCategory(ctx, s.categoryRepo.WithTx(tx), *input.CategoryID, input.OwnerID); err != nil {
				return err
			}
		}

		if err := s.taskRepo.WithTx(tx).Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		var err error
		notified, err = s.notifier.TriggerDueSoon(ctx, tx, *task, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.TasksCreated.Inc()
	if notified {
		metrics.DueSoonNotifications.Inc()
	}
	logger.Info("task created", "task_id", task.ID, "owner_id", task.OwnerID, "status", task.Status)

	return s.taskRepo.FindByID(ctx, task.ID, taskDetailPreloads...)
}

// UpdateTask runs the update pipeline in one transaction: access check,
// status transition and field edits, successor creation for recurring
// tasks, due-soon notification and history. Any failure leaves the store
// untouched.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID uint64, changes lifecycle.Changes) (*models.Task, error) {
	now := s.now()

	if err := changes.Validate(now); err != nil {
		return nil, err
	}

	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var (
		transition lifecycle.Transition
		successor  *models.Task
		notified   bool
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := s.taskRepo.WithTx(tx)

		current, caps, err := s.findAccessibleTask(ctx, taskRepo, taskID, *actor, "Collaborators")
		if err != nil {
			return err
		}
		if changes.HasFieldEdits() && !caps.Has(permissions.Edit) {
			return ErrTaskPermissionDenied
		}
		if changes.Status != nil && !caps.Has(permissions.ChangeStatus) {
			return ErrTaskPermissionDenied
		}
		if changes.CategoryID != nil {
			if err := s.ensureCategory(ctx, s.categoryRepo.WithTx(tx), *changes.CategoryID, current.OwnerID); err != nil {
				return err
			}
		}

		next, tr, err := lifecycle.Apply(*current, changes, now)
		if err != nil {
			return err
		}
		transition = tr

		if err := taskRepo.Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if succ, ok := lifecycle.Successor(next, tr); ok {
			if err := taskRepo.Create(ctx, succ); err != nil {
				return fmt.Errorf("failed to create recurring successor: %w", err)
			}
			successor = succ
		}

		notified, err = s.notifier.TriggerDueSoon(ctx, tx, next, now)
		if err != nil {
			return err
		}

		if tr.Changed() {
			entry := &models.TaskHistory{
				TaskID:    next.ID,
				UserID:    actor.ID,
				Status:    tr.To,
				ChangedAt: now,
			}
			if err := s.historyRepo.WithTx(tx).Create(ctx, entry); err != nil {
				return fmt.Errorf("failed to record task history: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if transition.Changed() {
		metrics.StatusTransitions.WithLabelValues(string(transition.From), string(transition.To)).Inc()
		logger.Info("task status changed",
			"task_id", taskID,
			"actor_id", actor.ID,
			"from", transition.From,
			"to", transition.To,
		)
	}
	if successor != nil {
		metrics.RecurringSuccessors.WithLabelValues(string(successor.Recurrence)).Inc()
		logger.Info("recurring successor created", "task_id", taskID, "successor_id", successor.ID, "due_date", successor.DueDate)
	}
	if notified {
		metrics.DueSoonNotifications.Inc()
	}

	return s.taskRepo.FindByID(ctx, taskID, taskDetailPreloads...)
}

// SetStatus is UpdateTask with a status-only payload
func (s *TaskService) SetStatus(ctx context.Context, taskID, actorID uint64, status models.TaskStatus) (*models.Task, error) {
	return s.UpdateTask(ctx, taskID, actorID, lifecycle.StatusOnly(status))
}

// DeleteTask deletes a task if the actor owns it or is an admin
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint64) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	_, caps, err := s.findAccessibleTask(ctx, s.taskRepo, taskID, *actor, "Collaborators")
	if err != nil {
		return err
	}
	if !caps.Has(permissions.Delete) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logger.Info("task deleted", "task_id", taskID, "actor_id", actorID)
	return nil
}

// AddCollaborators grants users edit access to a task. The owner is ignored.
func (s *TaskService) AddCollaborators(ctx context.Context, input CollaboratorsInput) ([]models.TaskCollaborator, error) {
	if len(input.UserIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	task, err := s.authorizeCollaboratorChange(ctx, input.TaskID, input.ActorID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(input.UserIDs))
	for _, id := range uniqueUint64(input.UserIDs) {
		if id != task.OwnerID {
			userIDs = append(userIDs, id)
		}
	}

	if len(userIDs) > 0 {
		count, err := s.userRepo.CountByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to verify users: %w", err)
		}
		if int(count) != len(userIDs) {
			return nil, ErrInvalidCollaborator
		}

		if err := s.taskRepo.AddCollaborators(ctx, task.ID, userIDs); err != nil {
			return nil, fmt.Errorf("failed to add collaborators: %w", err)
		}
	}

	return s.taskRepo.ListCollaborators(ctx, task.ID)
}

// RemoveCollaborators revokes collaborator access. Unknown users are ignored
// so stale grants can always be cleaned up.
func (s *TaskService) RemoveCollaborators(ctx context.Context, input CollaboratorsInput) ([]models.TaskCollaborator, error) {
	if len(input.UserIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	task, err := s.authorizeCollaboratorChange(ctx, input.TaskID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.RemoveCollaborators(ctx, task.ID, uniqueUint64(input.UserIDs)); err != nil {
		return nil, fmt.Errorf("failed to remove collaborators: %w", err)
	}

	return s.taskRepo.ListCollaborators(ctx, task.ID)
}

// ListHistory returns the status history of a task the actor may view
func (s *TaskService) ListHistory(ctx context.Context, taskID, actorID uint64) ([]models.TaskHistory, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.findAccessibleTask(ctx, s.taskRepo, taskID, *actor, "Collaborators"); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}
	return entries, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text   string
	UserID uint64
}

// GenerateTasks uses AI to draft tasks from text. Drafts are not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	drafts := filterGeneratedTasks(aiTasks, s.now())
	if len(drafts) == 0 {
		return nil, ErrAINoValidTasks
	}

	logger.Info("AI task drafts generated", "user_id", input.UserID, "count", len(drafts))
	return drafts, nil
}

// filterGeneratedTasks drops untitled drafts and normalizes fields that
// would fail creation: past due dates are cleared, unknown priorities reset.
func filterGeneratedTasks(aiTasks []GeneratedTask, now time.Time) []GeneratedTask {
	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}
		if aiTask.DueDate != nil && lifecycle.ValidateDueDate(*aiTask.DueDate, now) != nil {
			aiTask.DueDate = nil
		}
		if lifecycle.ValidatePriority(aiTask.Priority) != nil {
			aiTask.Priority = models.TaskPriorityLow
		}
		validTasks = append(validTasks, aiTask)
	}
	return validTasks
}

func (s *TaskService) authorizeCollaboratorChange(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, caps, err := s.findAccessibleTask(ctx, s.taskRepo, taskID, *actor, "Collaborators")
	if err != nil {
		return nil, err
	}
	if !caps.Has(permissions.ManageCollaborators) {
		return nil, ErrTaskPermissionDenied
	}
	return task, nil
}

// findAccessibleTask loads a task and the actor's capabilities on it. Tasks
// the actor cannot view are reported as not found. preload must include
// "Collaborators" for collaborator access to count.
func (s *TaskService) findAccessibleTask(ctx context.Context, repo repository.TaskRepository, taskID uint64, actor models.User, preload ...string) (*models.Task, permissions.Set, error) {
	task, err := repo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	caps := permissions.For(actor, *task)
	if !caps.Has(permissions.View) {
		return nil, nil, ErrTaskNotFound
	}
	return task, caps, nil
}

func (s *TaskService) loadActor(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ensureCategory requires the category to exist and belong to ownerID
func (s *TaskService) ensureCategory(ctx context.Context, repo repository.CategoryRepository, categoryID, ownerID uint64) error {
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &lifecycle.ValidationError{Field: "category_id", Message: "Category does not exist."}
		}
		return fmt.Errorf("failed to find category: %w", err)
	}
	if category.OwnerID != ownerID {
		return &lifecycle.ValidationError{Field: "category_id", Message: "Category does not exist."}
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
