package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	apierrors "github.com/yukikurage/issue-tracker-api/internal/errors"
	"github.com/yukikurage/issue-tracker-api/internal/services"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", services.ErrInvalidShortCode, http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, apierrors.ErrCodeInvalidCredentials},
		{"delete denied", services.ErrTaskDeleteDenied, http.StatusForbidden, apierrors.ErrCodeForbidden},
		{"non member", services.ErrNotProjectMember, http.StatusNotFound, "Project not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", services.ErrTaskNotFound), http.StatusNotFound, apierrors.ErrCodeNotFound},
		{"role in use", services.ErrRoleInUse, http.StatusConflict, apierrors.ErrCodeConflict},
		{"missing manager role", fmt.Errorf("%w: boom", services.ErrProjectManagerRoleMissing), http.StatusInternalServerError, apierrors.ErrCodeConfigurationError},
		{"ai off", services.ErrAIServiceNotConfigured, http.StatusServiceUnavailable, apierrors.ErrCodeServiceUnavailable},
		{"ai empty", services.ErrAINoValidTasks, http.StatusUnprocessableEntity, apierrors.ErrCodeInvalidInput},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, apierrors.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := parseIDParam(c, "id", "task")
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok = parseIDParam(c, "id", "task")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid task ID")
}
