package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/database"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// createNumberedAttempts bounds the retries when a number collides.
const createNumberedAttempts = 3

// CreateNumbered locks the project row, takes its current sequence value as
// the task number and advances the counter before inserting the task. Two
// concurrent creations in one project serialize on the lock; on stores
// without row locks the unique (project_id, number) index rejects a collision
// and the creation is retried with a fresh number.
func (r *GormTaskRepository) CreateNumbered(ctx context.Context, task *models.Task) error {
	var err error
	for attempt := 0; attempt < createNumberedAttempts; attempt++ {
		err = r.createNumbered(ctx, task)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		task.ID = 0
	}
	return err
}

func (r *GormTaskRepository) createNumbered(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "short_code", "task_sequence").
			First(&project, task.ProjectID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Project{}).
			Where("id = ?", project.ID).
			UpdateColumn("task_sequence", gorm.Expr("task_sequence + ?", 1)).Error; err != nil {
			return err
		}

		task.Number = fmt.Sprintf("%s-%d", project.ShortCode, project.TaskSequence)
		return tx.Omit(clause.Associations).Create(task).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	if len(filter.ProjectIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	query := database.InProjects(filter.ProjectIDs)(r.db.WithContext(ctx).Model(&models.Task{}))

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.PerformerID != nil {
		query = query.Where("tasks.performer_id = ?", *filter.PerformerID)
	}
	if filter.CreatorID != nil {
		query = query.Where("tasks.creator_id = ?", *filter.CreatorID)
	}
	if filter.Type != nil {
		query = query.Where("tasks.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.id ASC")
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Preload("Creator").Preload("Performer").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task. Associations are never written through here.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// Delete deletes a task and its dependents in a transaction
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTasks(tx, []uint64{id})
	})
}

// MarkOverdue runs the overdue transition as one bulk update in its own
// transaction. Tasks already delayed are outside statuses, so repeating it
// changes nothing.
func (r *GormTaskRepository) MarkOverdue(ctx context.Context, now time.Time, statuses []models.TaskStatus) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).
			Where("deadline IS NOT NULL AND deadline <= ?", now).
			Where("status IN ?", statuses).
			UpdateColumns(map[string]interface{}{
				"status":      models.TaskStatusIsDelayed,
				"modified_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// CreateRelation stores a directed relation edge
func (r *GormTaskRepository) CreateRelation(ctx context.Context, relation *models.TaskRelation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(relation).Error
}

// ListOutgoingRelations lists edges starting at the task in insertion order
func (r *GormTaskRepository) ListOutgoingRelations(ctx context.Context, taskID uint64) ([]models.TaskRelation, error) {
	var relations []models.TaskRelation
	if err := r.db.WithContext(ctx).
		Preload("ToTask").
		Where("from_task_id = ?", taskID).
		Order("id ASC").
		Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

// ListIncomingRelations lists edges ending at the task in insertion order
func (r *GormTaskRepository) ListIncomingRelations(ctx context.Context, taskID uint64) ([]models.TaskRelation, error) {
	var relations []models.TaskRelation
	if err := r.db.WithContext(ctx).
		Preload("FromTask").
		Where("to_task_id = ?", taskID).
		Order("id ASC").
		Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

// deleteTasks removes tasks and everything hanging off them using tx.
func deleteTasks(tx *gorm.DB, taskIDs []uint64) error {
	if len(taskIDs) == 0 {
		return nil
	}

	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TimeLog{}).Error; err != nil {
		return err
	}
	if err := tx.Where("from_task_id IN ? OR to_task_id IN ?", taskIDs, taskIDs).Delete(&models.TaskRelation{}).Error; err != nil {
		return err
	}

	return tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error
}
