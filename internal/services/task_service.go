package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/constants"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/relations"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"github.com/yukikurage/issue-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrNotProjectMember       = errors.New("user is not a member of the project")
	ErrTaskDeleteDenied       = errors.New("only the task creator or the project manager can delete this task")
	ErrTaskNameRequired       = errors.New("name is required")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskType        = errors.New("invalid task type")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
	ErrInvalidEstimate        = errors.New("estimate cannot be negative")
	ErrPerformerNotMember     = errors.New("performer must be a member of the task's project")
	ErrInvalidRelationType    = errors.New("invalid relation type")
	ErrDraftTextRequired      = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	maintenance *MaintenanceService
	drafter     TaskDrafter
}

// NewTaskService creates a new TaskService. drafter may be nil when AI
// drafting is not configured.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, maintenance *MaintenanceService, drafter TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		maintenance: maintenance,
		drafter:     drafter,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID      uint64
	ProjectID   *uint64
	PerformerID *uint64
	CreatorID   *uint64
	Type        *models.TaskType
	Status      *models.TaskStatus
	Pagination  utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID          uint64
	CreatorID          uint64
	Name               string
	Description        string
	AcceptanceCriteria string
	Status             models.TaskStatus
	Type               models.TaskType
	Priority           models.TaskPriority
	EstimateHours      *int
	Deadline           *time.Time
	PerformerID        *uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Name               *string
	Description        *string
	AcceptanceCriteria *string
	Status             *models.TaskStatus
	Type               *models.TaskType
	Priority           *models.TaskPriority
	EstimateHours      *int
	ClearEstimate      bool
	Deadline           *time.Time
	ClearDeadline      bool
	PerformerID        *uint64
	ClearPerformer     bool
}

// ConnectInput describes a new relation from one task to another
type ConnectInput struct {
	FromTaskID   uint64
	ToTaskID     uint64
	RelationType models.RelationType
	UserID       uint64
}

// DraftTasksInput represents input for AI task drafting
type DraftTasksInput struct {
	Text string
}

// ListTasks sweeps overdue tasks and then returns the tasks visible to the
// user. A failed sweep fails the listing.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if _, err := s.maintenance.SweepOverdueTasks(ctx); err != nil {
		return nil, 0, err
	}

	projectIDs, err := s.projectRepo.ListProjectIDsForUser(ctx, input.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch project memberships: %w", err)
	}

	if len(projectIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	filter := repository.TaskFilter{
		ProjectIDs:  projectIDs,
		ProjectID:   input.ProjectID,
		PerformerID: input.PerformerID,
		CreatorID:   input.CreatorID,
		Type:        input.Type,
		Status:      input.Status,
		Pagination:  input.Pagination,
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Creator", "Performer", "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task and assigns its project-scoped number
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTaskNameRequired
	}

	if err := s.ensureProjectMember(ctx, input.ProjectID, input.CreatorID, ErrNotProjectMember); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusBacklog
	}
	if input.Type == "" {
		input.Type = models.TaskTypeWorkItem
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if err := validateTaskEnums(&input.Status, &input.Type, &input.Priority); err != nil {
		return nil, err
	}
	if input.EstimateHours != nil && *input.EstimateHours < 0 {
		return nil, ErrInvalidEstimate
	}
	if input.PerformerID != nil {
		if err := s.ensureProjectMember(ctx, input.ProjectID, *input.PerformerID, ErrPerformerNotMember); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Name:               strings.TrimSpace(input.Name),
		Description:        input.Description,
		AcceptanceCriteria: input.AcceptanceCriteria,
		Status:             input.Status,
		Type:               input.Type,
		Priority:           input.Priority,
		EstimateHours:      input.EstimateHours,
		Deadline:           utcPtr(input.Deadline),
		ProjectID:          input.ProjectID,
		CreatorID:          input.CreatorID,
		PerformerID:        input.PerformerID,
	}

	if err := s.taskRepo.CreateNumbered(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// UpdateTask updates an existing task and stamps its modification time
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.AcceptanceCriteria != nil {
		task.AcceptanceCriteria = *input.AcceptanceCriteria
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Type != nil {
		task.Type = *input.Type
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if err := validateTaskEnums(&task.Status, &task.Type, &task.Priority); err != nil {
		return nil, err
	}
	if input.ClearEstimate {
		task.EstimateHours = nil
	} else if input.EstimateHours != nil {
		if *input.EstimateHours < 0 {
			return nil, ErrInvalidEstimate
		}
		task.EstimateHours = input.EstimateHours
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = utcPtr(input.Deadline)
	}
	if input.ClearPerformer {
		task.PerformerID = nil
	} else if input.PerformerID != nil {
		if err := s.ensureProjectMember(ctx, task.ProjectID, *input.PerformerID, ErrPerformerNotMember); err != nil {
			return nil, err
		}
		task.PerformerID = input.PerformerID
	}

	now := time.Now().UTC()
	task.ModifiedAt = &now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask deletes a task if the actor created it or manages its project
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatorID != actorID {
		member, err := s.projectRepo.FindMember(ctx, task.ProjectID, actorID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to verify membership: %w", err)
		}
		if !IsProjectManager(member) {
			return ErrTaskDeleteDenied
		}
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// RelatedTasks returns the tasks related to taskID grouped by the relation
// as seen from taskID. Tasks in projects userID does not belong to are left out.
func (s *TaskService) RelatedTasks(ctx context.Context, taskID, userID uint64) ([]relations.Category, error) {
	outgoing, err := s.taskRepo.ListOutgoingRelations(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing relations: %w", err)
	}
	incoming, err := s.taskRepo.ListIncomingRelations(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming relations: %w", err)
	}

	projectIDs, err := s.projectRepo.ListProjectIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project memberships: %w", err)
	}
	visible := make(map[uint64]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		visible[id] = struct{}{}
	}

	outgoing = filterRelations(outgoing, func(r models.TaskRelation) uint64 { return r.ToTask.ProjectID }, visible)
	incoming = filterRelations(incoming, func(r models.TaskRelation) uint64 { return r.FromTask.ProjectID }, visible)

	return relations.Group(taskID, outgoing, incoming), nil
}

// filterRelations keeps the edges whose far end sits in a visible project.
func filterRelations(edges []models.TaskRelation, projectOf func(models.TaskRelation) uint64, visible map[uint64]struct{}) []models.TaskRelation {
	kept := edges[:0]
	for _, edge := range edges {
		if _, ok := visible[projectOf(edge)]; ok {
			kept = append(kept, edge)
		}
	}
	return kept
}

// Connect stores a directed relation between two tasks. The target must be
// visible to the user; duplicate edges are accepted.
func (s *TaskService) Connect(ctx context.Context, input ConnectInput) (*models.TaskRelation, error) {
	if !input.RelationType.Valid() {
		return nil, ErrInvalidRelationType
	}

	if _, err := s.taskRepo.FindByID(ctx, input.FromTaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	target, err := s.taskRepo.FindByID(ctx, input.ToTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if err := s.ensureProjectMember(ctx, target.ProjectID, input.UserID, ErrTaskNotFound); err != nil {
		return nil, err
	}

	relation := &models.TaskRelation{
		FromTaskID:   input.FromTaskID,
		ToTaskID:     input.ToTaskID,
		RelationType: input.RelationType,
	}
	if err := s.taskRepo.CreateRelation(ctx, relation); err != nil {
		return nil, fmt.Errorf("failed to create relation: %w", err)
	}
	relation.ToTask = *target

	return relation, nil
}

// DraftTasks asks the AI drafter for task suggestions. Nothing is persisted.
func (s *TaskService) DraftTasks(ctx context.Context, input DraftTasksInput) ([]TaskDraft, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrDraftTextRequired
	}

	drafts, err := s.drafter.DraftTasks(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to draft tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		drafts = drafts[:constants.MaxAIGeneratedTasks]
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Name) == "" {
			continue
		}
		if !models.TaskType(draft.Type).Valid() {
			draft.Type = string(models.TaskTypeWorkItem)
		}
		if !models.TaskPriority(draft.Priority).Valid() {
			draft.Priority = string(models.TaskPriorityMedium)
		}
		if draft.Deadline != nil && draft.Deadline.Before(cutoff) {
			draft.Deadline = nil
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

// ensureProjectMember returns notMember when userID holds no membership in projectID
func (s *TaskService) ensureProjectMember(ctx context.Context, projectID, userID uint64, notMember error) error {
	_, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}

func validateTaskEnums(status *models.TaskStatus, taskType *models.TaskType, priority *models.TaskPriority) error {
	if !status.Valid() {
		return ErrInvalidTaskStatus
	}
	if !taskType.Valid() {
		return ErrInvalidTaskType
	}
	if !priority.Valid() {
		return ErrInvalidTaskPriority
	}
	return nil
}

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
