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

// ActivityHandler serves comments and time logs nested under a task.
type ActivityHandler struct {
	commentService *services.CommentService
	timeLogService *services.TimeLogService
}

func NewActivityHandler(commentService *services.CommentService, timeLogService *services.TimeLogService) *ActivityHandler {
	return &ActivityHandler{
		commentService: commentService,
		timeLogService: timeLogService,
	}
}

func (h *ActivityHandler) ListComments(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

func (h *ActivityHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		Text string `json:"text"`
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), task.ID, userID, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment written by the caller.
func (h *ActivityHandler) DeleteComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}
	commentID, ok := parseIDParam(c, "comment_id", "comment")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), task.ID, commentID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTimeLogs returns the task's time logs and their total in minutes.
func (h *ActivityHandler) ListTimeLogs(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	logs, total, err := h.timeLogService.ListTimeLogs(c.Request.Context(), task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeLogListResponse(logs, total))
}

func (h *ActivityHandler) CreateTimeLog(c *gin.Context) {
	type CreateTimeLogRequest struct {
		Minutes     int        `json:"minutes"`
		Description string     `json:"description"`
		LoggedAt    *time.Time `json:"logged_at"`
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req CreateTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	log, err := h.timeLogService.CreateTimeLog(c.Request.Context(), services.CreateTimeLogInput{
		TaskID:      task.ID,
		UserID:      userID,
		Minutes:     req.Minutes,
		Description: req.Description,
		LoggedAt:    req.LoggedAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTimeLogDTO(*log))
}

func (h *ActivityHandler) DeleteTimeLog(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}
	logID, ok := parseIDParam(c, "log_id", "time log")
	if !ok {
		return
	}

	if err := h.timeLogService.DeleteTimeLog(c.Request.Context(), task.ID, logID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
