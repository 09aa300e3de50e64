package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/issue-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/issue-tracker-api/internal/errors"
	"github.com/yukikurage/issue-tracker-api/internal/services"
)

// UserHandler serves account endpoints. Every route acts on the caller only.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns a list holding only the current user.
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, []dto.ProfileDTO{dto.ToProfileDTO(*user)})
}

// GetUser returns the current user when :id names them.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// UpdateUser changes the profile of the current user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Email    *string `json:"email" binding:"omitempty,email"`
		Name     *string `json:"name" binding:"omitempty,max=255"`
		Password *string `json:"password"`
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, targetID, services.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// DeleteUser removes the current user's account together with their work.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ProjectRole returns the caller's role in the project given by ?project=.
func (h *UserHandler) ProjectRole(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	raw := c.Query("project")
	if raw == "" {
		apierrors.MissingField(c, "project")
		return
	}
	projectID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project parameter")
		return
	}

	member, err := h.userService.ProjectRole(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectRoleDTO(*member))
}
