package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/issue-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/issue-tracker-api/internal/errors"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
)

// RequireTaskAccess checks if the user has access to a task
// User must be a member of the task's project
func RequireTaskAccess(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := taskRepo.FindByID(c.Request.Context(), taskID)
		if err != nil {
			abortLookup(c, err, "Task not found")
			return
		}

		member, err := projectRepo.FindMember(c.Request.Context(), task.ProjectID, userID)
		if err != nil {
			// Return 404 instead of 403 to avoid leaking task existence
			abortLookup(c, err, "Task not found")
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Set(constants.ContextKeyMember, *member)
		c.Next()
	}
}

// GetTask returns the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
