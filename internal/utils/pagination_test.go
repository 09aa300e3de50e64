package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/issue-tracker-api/internal/constants"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, constants.DefaultPageSize, 0},
		{"explicit", "?page=3&limit=10", 3, 10, 20},
		{"negative page", "?page=-2&limit=5", 1, 5, 0},
		{"limit too large", "?limit=1000", 1, constants.DefaultPageSize, 0},
		{"garbage", "?page=abc&limit=xyz", 1, constants.DefaultPageSize, 0},
		{"huge page", "?page=9223372036854775807&limit=100", constants.MaxPage, 100, (constants.MaxPage - 1) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/tasks"+tt.query, nil)

			params := GetPaginationParams(c)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset)
		})
	}
}

func TestNewPaginationParams_OffsetNeverNegative(t *testing.T) {
	for _, page := range []int{constants.MaxPage, constants.MaxPage + 1, int(^uint(0) >> 1)} {
		params := NewPaginationParams(page, constants.MaxPageSize)
		assert.Equal(t, constants.MaxPage, params.Page)
		assert.GreaterOrEqual(t, params.Offset, 0)
	}
}

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(NewPaginationParams(2, 10), 21)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, int64(21), resp.Total)

	empty := NewPaginationResponse(NewPaginationParams(1, 10), 0)
	assert.Equal(t, 0, empty.TotalPages)
}
