package dto

import (
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/relations"
	"github.com/yukikurage/issue-tracker-api/internal/utils"
)

// TaskDTO represents a task in API responses. Enumerated fields carry the
// stored code and a readable label side by side.
type TaskDTO struct {
	ID                 uint64              `json:"id"`
	Number             string              `json:"number"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	AcceptanceCriteria string              `json:"acceptance_criteria"`
	Status             models.TaskStatus   `json:"status"`
	StatusLabel        string              `json:"status_label"`
	Type               models.TaskType     `json:"type"`
	TypeLabel          string              `json:"type_label"`
	Priority           models.TaskPriority `json:"priority"`
	PriorityLabel      string              `json:"priority_label"`
	EstimateHours      *int                `json:"estimate_hours"`
	Deadline           *time.Time          `json:"deadline"`
	ProjectID          uint64              `json:"project_id"`
	CreatorID          uint64              `json:"creator_id"`
	PerformerID        *uint64             `json:"performer_id"`
	CreatedAt          time.Time           `json:"created_at"`
	ModifiedAt         *time.Time          `json:"modified_at"`
	Creator            *UserDTO            `json:"creator,omitempty"`
	Performer          *UserDTO            `json:"performer,omitempty"`
	Project            *ProjectDTO         `json:"project,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// RelatedTaskDTO is a task summary inside a relation category. Every
// enumerated field is rendered as its label.
type RelatedTaskDTO struct {
	ID       uint64 `json:"id"`
	Number   string `json:"number"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// RelationCategoryDTO groups related tasks under one relation as seen from
// the queried task
type RelationCategoryDTO struct {
	RelationType models.RelationType `json:"relation_type"`
	Relation     string              `json:"relation"`
	Tasks        []RelatedTaskDTO    `json:"tasks"`
}

// TaskRelationDTO represents a stored relation edge
type TaskRelationDTO struct {
	ID           uint64              `json:"id"`
	FromTaskID   uint64              `json:"from_task_id"`
	ToTaskID     uint64              `json:"to_task_id"`
	RelationType models.RelationType `json:"relation_type"`
	Relation     string              `json:"relation"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                 task.ID,
		Number:             task.Number,
		Name:               task.Name,
		Description:        task.Description,
		AcceptanceCriteria: task.AcceptanceCriteria,
		Status:             task.Status,
		StatusLabel:        task.Status.Label(),
		Type:               task.Type,
		TypeLabel:          task.Type.Label(),
		Priority:           task.Priority,
		PriorityLabel:      task.Priority.Label(),
		EstimateHours:      task.EstimateHours,
		Deadline:           task.Deadline,
		ProjectID:          task.ProjectID,
		CreatorID:          task.CreatorID,
		PerformerID:        task.PerformerID,
		CreatedAt:          task.CreatedAt,
		ModifiedAt:         task.ModifiedAt,
	}

	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}
	if task.Performer != nil && task.Performer.ID != 0 {
		performer := ToUserDTO(*task.Performer)
		dto.Performer = &performer
	}
	if task.Project.ID != 0 {
		project := ToProjectDTO(task.Project)
		dto.Project = &project
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		result[i] = ToTaskDTO(task)
	}
	return result
}

// ToTaskListResponse wraps one page of tasks
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Pagination: utils.NewPaginationResponse(params, total),
	}
}

// ToRelatedTaskDTO converts a task to its labelled summary
func ToRelatedTaskDTO(task models.Task) RelatedTaskDTO {
	return RelatedTaskDTO{
		ID:       task.ID,
		Number:   task.Number,
		Name:     task.Name,
		Type:     task.Type.Label(),
		Priority: task.Priority.Label(),
		Status:   task.Status.Label(),
	}
}

// ToRelationCategoryDTOs converts grouped relations, keeping their order
func ToRelationCategoryDTOs(categories []relations.Category) []RelationCategoryDTO {
	result := make([]RelationCategoryDTO, len(categories))
	for i, category := range categories {
		tasks := make([]RelatedTaskDTO, len(category.Tasks))
		for j, task := range category.Tasks {
			tasks[j] = ToRelatedTaskDTO(task)
		}
		result[i] = RelationCategoryDTO{
			RelationType: category.RelationType,
			Relation:     category.RelationType.Label(),
			Tasks:        tasks,
		}
	}
	return result
}

// ToTaskRelationDTO converts a relation edge
func ToTaskRelationDTO(relation models.TaskRelation) TaskRelationDTO {
	return TaskRelationDTO{
		ID:           relation.ID,
		FromTaskID:   relation.FromTaskID,
		ToTaskID:     relation.ToTaskID,
		RelationType: relation.RelationType,
		Relation:     relation.RelationType.Label(),
		CreatedAt:    relation.CreatedAt,
	}
}
