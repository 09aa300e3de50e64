package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/issue-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/issue-tracker-api/internal/errors"
	"github.com/yukikurage/issue-tracker-api/internal/middleware"
	"github.com/yukikurage/issue-tracker-api/internal/services"
)

// ProjectHandler coordinates project, membership and drafting endpoints.
// Routes under /projects/:id run behind middleware.RequireProjectAccess.
type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// ListProjects returns the projects the current user belongs to.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjectsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// CreateProject creates a project managed by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string     `json:"name" binding:"required,max=255"`
		ShortCode   string     `json:"short_code" binding:"required"`
		Description string     `json:"description"`
		StartAt     *time.Time `json:"start_at"`
		FinishAt    *time.Time `json:"finish_at"`
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Name:        req.Name,
		ShortCode:   req.ShortCode,
		Description: req.Description,
		StartAt:     req.StartAt,
		FinishAt:    req.FinishAt,
		CreatorID:   userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns the project loaded by the access middleware.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// UpdateProject changes project fields. Manager only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        *string    `json:"name" binding:"omitempty,max=255"`
		ShortCode   *string    `json:"short_code"`
		Description *string    `json:"description"`
		StartAt     *time.Time `json:"start_at"`
		FinishAt    *time.Time `json:"finish_at"`
		ClearFinish bool       `json:"clear_finish"`
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projectService.UpdateProject(c.Request.Context(), project.ID, services.UpdateProjectInput{
		Name:        req.Name,
		ShortCode:   req.ShortCode,
		Description: req.Description,
		StartAt:     req.StartAt,
		FinishAt:    req.FinishAt,
		ClearFinish: req.ClearFinish,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject removes the project and everything in it. Manager only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), project.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers returns the project roster.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), project.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectMemberDTOs(members))
}

// ListCandidates returns users who could be added to the project.
func (h *ProjectHandler) ListCandidates(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	users, err := h.projectService.ListCandidates(c.Request.Context(), project.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetProjectInfo returns the manager and the rest of the roster.
func (h *ProjectHandler) GetProjectInfo(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	info, err := h.projectService.GetProjectInfo(c.Request.Context(), project.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectInfoDTO(project, *info))
}

// AddMembers accepts either a single "user" or a "users" list. A single add
// answers 201 or 409; a bulk add always answers 200 with one outcome per user.
func (h *ProjectHandler) AddMembers(c *gin.Context) {
	type AddMembersRequest struct {
		Role  uint64   `json:"role" binding:"required"`
		User  *uint64  `json:"user"`
		Users []uint64 `json:"users"`
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	var req AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()

	if req.User != nil {
		member, err := h.projectService.AddMember(ctx, project.ID, *req.User, req.Role)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
		return
	}

	outcomes, err := h.projectService.AddMembers(ctx, project.ID, req.Role, req.Users)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberOutcomeDTOs(outcomes))
}

// ChangeMemberRole assigns a new role to a member.
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	type ChangeRoleRequest struct {
		User uint64 `json:"user" binding:"required"`
		Role uint64 `json:"role" binding:"required"`
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.projectService.ChangeMemberRole(c.Request.Context(), project.ID, req.User, req.Role); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member role updated",
	})
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}
	userID, ok := parseIDParam(c, "user_id", "user")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), project.ID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DraftTasks turns free text into suggested tasks without saving them.
func (h *ProjectHandler) DraftTasks(c *gin.Context) {
	type DraftTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req DraftTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.MissingField(c, "text")
		return
	}

	drafts, err := h.taskService.DraftTasks(c.Request.Context(), services.DraftTasksInput{Text: req.Text})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}
