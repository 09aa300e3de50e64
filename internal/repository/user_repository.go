package repository

import (
	"context"

	"github.com/yukikurage/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the profile fields of a user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("email", "name", "password_hash").
		Updates(user).Error
}

// Delete removes a user in a transaction. Tasks the user created go with
// them; tasks they perform lose their performer.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var createdTaskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("creator_id = ?", id).Pluck("id", &createdTaskIDs).Error; err != nil {
			return err
		}
		if err := deleteTasks(tx, createdTaskIDs); err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("performer_id = ?", id).
			UpdateColumn("performer_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TimeLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// ListNotInProject lists users that hold no membership in the project
func (r *GormUserRepository) ListNotInProject(ctx context.Context, projectID uint64) ([]models.User, error) {
	members := r.db.Model(&models.ProjectMembership{}).
		Select("user_id").
		Where("project_id = ?", projectID)

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", members).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
