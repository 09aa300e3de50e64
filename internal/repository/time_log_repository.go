package repository

import (
	"context"

	"github.com/yukikurage/issue-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTimeLogRepository is a GORM implementation of TimeLogRepository
type GormTimeLogRepository struct {
	db *gorm.DB
}

// NewTimeLogRepository creates a new TimeLogRepository
func NewTimeLogRepository(db *gorm.DB) TimeLogRepository {
	return &GormTimeLogRepository{db: db}
}

func (r *GormTimeLogRepository) Create(ctx context.Context, log *models.TimeLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(log).Error
}

func (r *GormTimeLogRepository) FindByID(ctx context.Context, id uint64) (*models.TimeLog, error) {
	var log models.TimeLog
	if err := r.db.WithContext(ctx).Preload("User").First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// ListByTask lists the time logs of a task, most recent first
func (r *GormTimeLogRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TimeLog, error) {
	var logs []models.TimeLog
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("logged_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *GormTimeLogRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.TimeLog{}, id).Error
}

// SumMinutesByTask totals the minutes logged against a task
func (r *GormTimeLogRepository) SumMinutesByTask(ctx context.Context, taskID uint64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.TimeLog{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(SUM(minutes), 0)").
		Scan(&total).Error
	return total, err
}
