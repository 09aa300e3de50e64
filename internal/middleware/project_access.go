package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/issue-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/issue-tracker-api/internal/errors"
	"github.com/yukikurage/issue-tracker-api/internal/logger"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// RequireProjectAccess checks if the user is a member of the project named by
// the :id parameter
func RequireProjectAccess(projectRepo repository.ProjectRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		project, err := projectRepo.FindByID(c.Request.Context(), projectID)
		if err != nil {
			abortLookup(c, err, "Project not found")
			return
		}

		member, err := projectRepo.FindMember(c.Request.Context(), projectID, userID)
		if err != nil {
			// Return 404 instead of 403 to avoid leaking project existence
			abortLookup(c, err, "Project not found")
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Set(constants.ContextKeyMember, *member)
		c.Next()
	}
}

// RequireProjectManager checks that the membership loaded by
// RequireProjectAccess carries the project manager role
func RequireProjectManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetProjectMember(c)
		if !ok {
			apierrors.Forbidden(c, "Project access required")
			c.Abort()
			return
		}

		if member.Role.Name != constants.ProjectManagerRoleName {
			apierrors.Forbidden(c, "Only the project manager can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetProject returns the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}

// GetProjectMember returns the caller's membership loaded by an access middleware
func GetProjectMember(c *gin.Context) (models.ProjectMembership, bool) {
	value, exists := c.Get(constants.ContextKeyMember)
	if !exists {
		return models.ProjectMembership{}, false
	}
	member, ok := value.(models.ProjectMembership)
	return member, ok
}

func abortLookup(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apierrors.NotFound(c, notFound)
	} else {
		logger.ErrorWithFields("Access check failed", map[string]interface{}{
			"error": err.Error(),
			"path":  c.FullPath(),
		})
		apierrors.InternalError(c, "")
	}
	c.Abort()
}
