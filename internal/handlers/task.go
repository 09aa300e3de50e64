package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/issue-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/issue-tracker-api/internal/errors"
	"github.com/yukikurage/issue-tracker-api/internal/middleware"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/services"
	"github.com/yukikurage/issue-tracker-api/internal/utils"
)

// TaskHandler coordinates task endpoints. Routes under /tasks/:id run behind
// middleware.RequireTaskAccess.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks from the caller's projects. Overdue tasks are
// marked before the query runs.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input := services.ListTasksInput{
		UserID:     userID,
		Pagination: utils.GetPaginationParams(c),
	}
	if input.ProjectID, ok = parseUintQuery(c, "project"); !ok {
		return
	}
	if input.PerformerID, ok = parseUintQuery(c, "performer"); !ok {
		return
	}
	if input.CreatorID, ok = parseUintQuery(c, "creator"); !ok {
		return
	}
	if raw := c.Query("type"); raw != "" {
		taskType := models.TaskType(raw)
		if !taskType.Valid() {
			apierrors.BadRequest(c, "Invalid type parameter")
			return
		}
		input.Type = &taskType
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status parameter")
			return
		}
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Pagination, total))
}

// CreateTask creates a task in one of the caller's projects. The task number
// is always computed by the server.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Project            uint64     `json:"project" binding:"required"`
		Name               string     `json:"name" binding:"required,max=255"`
		Description        string     `json:"description"`
		AcceptanceCriteria string     `json:"acceptance_criteria"`
		Status             string     `json:"status"`
		Type               string     `json:"type"`
		Priority           string     `json:"priority"`
		EstimateHours      *int       `json:"estimate_hours"`
		Deadline           *time.Time `json:"deadline"`
		Performer          *uint64    `json:"performer"`
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		ProjectID:          req.Project,
		CreatorID:          userID,
		Name:               req.Name,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Status:             models.TaskStatus(req.Status),
		Type:               models.TaskType(req.Type),
		Priority:           models.TaskPriority(req.Priority),
		EstimateHours:      req.EstimateHours,
		Deadline:           req.Deadline,
		PerformerID:        req.Performer,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task with its creator, performer and project.
func (h *TaskHandler) GetTask(c *gin.Context) {
	current, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), current.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Name               *string              `json:"name" binding:"omitempty,max=255"`
		Description        *string              `json:"description"`
		AcceptanceCriteria *string              `json:"acceptance_criteria"`
		Status             *models.TaskStatus   `json:"status"`
		Type               *models.TaskType     `json:"type"`
		Priority           *models.TaskPriority `json:"priority"`
		EstimateHours      *int                 `json:"estimate_hours"`
		ClearEstimate      bool                 `json:"clear_estimate"`
		Deadline           *time.Time           `json:"deadline"`
		ClearDeadline      bool                 `json:"clear_deadline"`
		Performer          *uint64              `json:"performer"`
		ClearPerformer     bool                 `json:"clear_performer"`
	}

	current, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), current.ID, services.UpdateTaskInput{
		Name:               req.Name,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Status:             req.Status,
		Type:               req.Type,
		Priority:           req.Priority,
		EstimateHours:      req.EstimateHours,
		ClearEstimate:      req.ClearEstimate,
		Deadline:           req.Deadline,
		ClearDeadline:      req.ClearDeadline,
		PerformerID:        req.Performer,
		ClearPerformer:     req.ClearPerformer,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Only its creator or the project manager may.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	current, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), current.ID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RelatedTasks returns the task's relations grouped by relation type.
func (h *TaskHandler) RelatedTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	current, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	categories, err := h.taskService.RelatedTasks(c.Request.Context(), current.ID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRelationCategoryDTOs(categories))
}

// Connect records a relation from the current task to another task.
func (h *TaskHandler) Connect(c *gin.Context) {
	type ConnectRequest struct {
		ToTask       *uint64 `json:"to_task"`
		RelationType *int    `json:"relation_type"`
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	current, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.ToTask == nil {
		apierrors.MissingField(c, "to_task")
		return
	}
	if req.RelationType == nil {
		apierrors.MissingField(c, "relation_type")
		return
	}

	relation, err := h.taskService.Connect(c.Request.Context(), services.ConnectInput{
		FromTaskID:   current.ID,
		ToTaskID:     *req.ToTask,
		RelationType: models.RelationType(*req.RelationType),
		UserID:       userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskRelationDTO(*relation))
}
