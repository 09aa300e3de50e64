package models

import (
	"time"
)

type Project struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	ShortCode   string     `gorm:"type:varchar(4);not null" json:"short_code"`
	Description string     `gorm:"type:text" json:"description"`
	StartAt     time.Time  `gorm:"not null" json:"start_at"`
	FinishAt    *time.Time `json:"finish_at"`
	// TaskSequence is the next task number to hand out; only the numbering
	// transaction in the task repository writes it.
	TaskSequence uint64    `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Members []ProjectMembership `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task              `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
