package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTimeLogNotFound = errors.New("time log not found")
	ErrInvalidMinutes  = errors.New("minutes must be greater than zero")
	ErrNotTimeLogOwner = errors.New("only the performer can delete this time log")
)

// TimeLogService records work spent on tasks. Durations are whole minutes.
type TimeLogService struct {
	timeLogRepo repository.TimeLogRepository
}

// NewTimeLogService creates a new TimeLogService.
func NewTimeLogService(timeLogRepo repository.TimeLogRepository) *TimeLogService {
	return &TimeLogService{timeLogRepo: timeLogRepo}
}

// CreateTimeLogInput represents input for logging time
type CreateTimeLogInput struct {
	TaskID      uint64
	UserID      uint64
	Minutes     int
	Description string
	LoggedAt    *time.Time
}

// ListTimeLogs returns the logs of a task and their total in minutes.
func (s *TimeLogService) ListTimeLogs(ctx context.Context, taskID uint64) ([]models.TimeLog, int64, error) {
	logs, err := s.timeLogRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time logs: %w", err)
	}
	total, err := s.timeLogRepo.SumMinutesByTask(ctx, taskID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to total time logs: %w", err)
	}
	return logs, total, nil
}

func (s *TimeLogService) CreateTimeLog(ctx context.Context, input CreateTimeLogInput) (*models.TimeLog, error) {
	if input.Minutes <= 0 {
		return nil, ErrInvalidMinutes
	}

	loggedAt := time.Now().UTC()
	if input.LoggedAt != nil {
		loggedAt = input.LoggedAt.UTC()
	}

	log := &models.TimeLog{
		Minutes:     input.Minutes,
		Description: input.Description,
		LoggedAt:    loggedAt,
		TaskID:      input.TaskID,
		UserID:      input.UserID,
	}
	if err := s.timeLogRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create time log: %w", err)
	}

	return s.timeLogRepo.FindByID(ctx, log.ID)
}

// DeleteTimeLog deletes a log of taskID recorded by actorID.
func (s *TimeLogService) DeleteTimeLog(ctx context.Context, taskID, logID, actorID uint64) error {
	log, err := s.timeLogRepo.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeLogNotFound
		}
		return fmt.Errorf("failed to find time log: %w", err)
	}
	if log.TaskID != taskID {
		return ErrTimeLogNotFound
	}
	if log.UserID != actorID {
		return ErrNotTimeLogOwner
	}

	if err := s.timeLogRepo.Delete(ctx, logID); err != nil {
		return fmt.Errorf("failed to delete time log: %w", err)
	}
	return nil
}
