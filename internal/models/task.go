package models

import (
	"time"
)

type Task struct {
	ID                 uint64       `gorm:"primarykey" json:"id"`
	Number             string       `gorm:"type:varchar(20);not null;uniqueIndex:idx_tasks_project_number,priority:2" json:"number"`
	Name               string       `gorm:"type:varchar(255);not null" json:"name"`
	Description        string       `gorm:"type:text" json:"description"`
	AcceptanceCriteria string       `gorm:"type:text" json:"acceptance_criteria"`
	Status             TaskStatus   `gorm:"type:varchar(2);not null;default:'BL'" json:"status"`
	Type               TaskType     `gorm:"type:varchar(3);not null;default:'WI'" json:"type"`
	Priority           TaskPriority `gorm:"type:varchar(3);not null;default:'MD'" json:"priority"`
	EstimateHours      *int         `json:"estimate_hours"`
	Deadline           *time.Time   `json:"deadline"`
	ProjectID          uint64       `gorm:"not null;uniqueIndex:idx_tasks_project_number,priority:1" json:"project_id"`
	CreatorID          uint64       `gorm:"not null" json:"creator_id"`
	PerformerID        *uint64      `json:"performer_id"`
	CreatedAt          time.Time    `json:"created_at"`
	ModifiedAt         *time.Time   `json:"modified_at"`

	// Relations
	Project   Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator   User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Performer *User   `gorm:"foreignKey:PerformerID" json:"performer,omitempty"`
}

// TaskRelation is a directed, typed edge between two tasks.
type TaskRelation struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	FromTaskID   uint64       `gorm:"not null" json:"from_task_id"`
	ToTaskID     uint64       `gorm:"not null" json:"to_task_id"`
	RelationType RelationType `gorm:"not null" json:"relation_type"`
	CreatedAt    time.Time    `json:"created_at"`

	// Relations
	FromTask Task `gorm:"foreignKey:FromTaskID" json:"-"`
	ToTask   Task `gorm:"foreignKey:ToTaskID" json:"-"`
}
