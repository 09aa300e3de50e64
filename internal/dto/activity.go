package dto

import (
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	TaskID    uint64    `json:"task_id"`
	Author    UserDTO   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeLogDTO represents a time log in API responses. Durations are minutes.
type TimeLogDTO struct {
	ID          uint64    `json:"id"`
	Minutes     int       `json:"minutes"`
	Description string    `json:"description"`
	LoggedAt    time.Time `json:"logged_at"`
	TaskID      uint64    `json:"task_id"`
	Performer   UserDTO   `json:"performer"`
}

// TimeLogListResponse lists the time logs of a task with their total
type TimeLogListResponse struct {
	TimeLogs     []TimeLogDTO `json:"time_logs"`
	TotalMinutes int64        `json:"total_minutes"`
}

func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		TaskID:    comment.TaskID,
		Author:    ToUserDTO(comment.User),
		CreatedAt: comment.CreatedAt,
	}
}

func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	result := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		result[i] = ToCommentDTO(comment)
	}
	return result
}

func ToTimeLogDTO(log models.TimeLog) TimeLogDTO {
	return TimeLogDTO{
		ID:          log.ID,
		Minutes:     log.Minutes,
		Description: log.Description,
		LoggedAt:    log.LoggedAt,
		TaskID:      log.TaskID,
		Performer:   ToUserDTO(log.User),
	}
}

func ToTimeLogListResponse(logs []models.TimeLog, total int64) TimeLogListResponse {
	result := TimeLogListResponse{
		TimeLogs:     make([]TimeLogDTO, len(logs)),
		TotalMinutes: total,
	}
	for i, log := range logs {
		result.TimeLogs[i] = ToTimeLogDTO(log)
	}
	return result
}
