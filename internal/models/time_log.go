package models

import "time"

// TimeLog records work spent on a task in whole minutes.
type TimeLog struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Minutes     int       `gorm:"not null" json:"minutes"`
	Description string    `gorm:"type:text" json:"description"`
	LoggedAt    time.Time `gorm:"not null" json:"logged_at"`
	TaskID      uint64    `gorm:"not null" json:"task_id"`
	UserID      uint64    `gorm:"not null" json:"user_id"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
