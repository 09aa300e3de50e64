package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/relations"
	"github.com/yukikurage/issue-tracker-api/internal/utils"
)

func TestToTaskDTO_LabelsAndOptionalRelations(t *testing.T) {
	task := models.Task{
		ID:       3,
		Number:   "ABC-2",
		Status:   models.TaskStatusIsDelayed,
		Type:     models.TaskTypeWorkItem,
		Priority: models.TaskPriorityMedium,
	}

	got := ToTaskDTO(task)
	assert.Equal(t, models.TaskStatusIsDelayed, got.Status)
	assert.Equal(t, models.TaskStatusIsDelayed.Label(), got.StatusLabel)
	assert.Equal(t, models.TaskTypeWorkItem.Label(), got.TypeLabel)
	assert.Nil(t, got.Creator)
	assert.Nil(t, got.Performer)
	assert.Nil(t, got.Project)

	task.Creator = models.User{ID: 1, Username: "alice"}
	task.Performer = &models.User{ID: 2, Username: "bob"}
	got = ToTaskDTO(task)
	if assert.NotNil(t, got.Creator) {
		assert.Equal(t, "alice", got.Creator.Username)
	}
	if assert.NotNil(t, got.Performer) {
		assert.Equal(t, "bob", got.Performer.Username)
	}
}

func TestToRelationCategoryDTOs(t *testing.T) {
	categories := []relations.Category{
		{RelationType: models.RelationBlocks, Tasks: []models.Task{{ID: 7, Number: "ABC-7", Status: models.TaskStatusBacklog}}},
		{RelationType: models.RelationRelates, Tasks: []models.Task{}},
	}

	got := ToRelationCategoryDTOs(categories)
	assert.Len(t, got, 2)
	assert.Equal(t, models.RelationBlocks, got[0].RelationType)
	assert.Equal(t, models.RelationBlocks.Label(), got[0].Relation)
	assert.Equal(t, "ABC-7", got[0].Tasks[0].Number)
	assert.Equal(t, models.TaskStatusBacklog.Label(), got[0].Tasks[0].Status)
	assert.Empty(t, got[1].Tasks)
}

func TestToTaskListResponse(t *testing.T) {
	params := utils.NewPaginationParams(2, 10)
	resp := ToTaskListResponse([]models.Task{{ID: 1}}, params, 25)

	assert.Len(t, resp.Tasks, 1)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, int64(25), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}
