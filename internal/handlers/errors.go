package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/issue-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/issue-tracker-api/internal/errors"
	"github.com/yukikurage/issue-tracker-api/internal/logger"
	"github.com/yukikurage/issue-tracker-api/internal/services"
)

// respondServiceError maps service sentinel errors onto the API error envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrRoleNameRequired),
		errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrInvalidShortCode),
		errors.Is(err, services.ErrInvalidProjectDates),
		errors.Is(err, services.ErrNoUsersProvided),
		errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskType),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrInvalidEstimate),
		errors.Is(err, services.ErrPerformerNotMember),
		errors.Is(err, services.ErrInvalidRelationType),
		errors.Is(err, services.ErrCommentTextRequired),
		errors.Is(err, services.ErrInvalidMinutes),
		errors.Is(err, services.ErrDraftTextRequired):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())

	case errors.Is(err, services.ErrNotProjectManager),
		errors.Is(err, services.ErrTaskDeleteDenied),
		errors.Is(err, services.ErrNotCommentAuthor),
		errors.Is(err, services.ErrNotTimeLogOwner):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrTimeLogNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrRoleNameTaken),
		errors.Is(err, services.ErrRoleInUse),
		errors.Is(err, services.ErrRoleProtected),
		errors.Is(err, services.ErrAlreadyProjectMember),
		errors.Is(err, services.ErrLastProjectManager):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrProjectManagerRoleMissing):
		apierrors.ConfigurationError(c, services.ErrProjectManagerRoleMissing.Error())

	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity, apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, err.Error()))

	default:
		logger.ErrorWithFields("Unhandled service error", map[string]interface{}{
			"error":      err.Error(),
			"path":       c.FullPath(),
			"request_id": c.GetString(constants.ContextKeyRequestID),
		})
		apierrors.InternalError(c, "")
	}
}
