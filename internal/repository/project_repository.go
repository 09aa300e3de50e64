package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrManagerRoleMissing is returned when the role granted to project
	// creators does not exist.
	ErrManagerRoleMissing = errors.New("project repository: manager role missing")
	// ErrCreateProject is returned when inserting the project fails inside the creation transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateManagerMembership is returned when binding the manager fails inside the creation transaction.
	ErrCreateManagerMembership = errors.New("project repository: create manager membership failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithManager creates the project and the manager membership atomically,
// so a missing role never leaves a project without a manager.
func (r *GormProjectRepository) CreateWithManager(ctx context.Context, project *models.Project, managerID uint64, managerRole string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("name = ?", managerRole).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", ErrManagerRoleMissing, managerRole)
			}
			return err
		}

		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateProject, err)
		}

		member := &models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    managerID,
			RoleID:    role.ID,
			JoinedAt:  time.Now().UTC(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateManagerMembership, err)
		}

		return nil
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser lists the projects the user holds a membership in
func (r *GormProjectRepository) ListForUser(ctx context.Context, userID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
		Where("project_memberships.user_id = ?", userID).
		Order("projects.id ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update saves the editable fields of a project. The task sequence is owned
// by task creation and never written here.
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).
		Model(project).
		Select("name", "short_code", "description", "start_at", "finish_at").
		Updates(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if err := deleteTasks(tx, taskIDs); err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(ctx context.Context, member *models.ProjectMembership) error {
	return r.db.WithContext(ctx).Omit("Project", "User", "Role").Create(member).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMembership, error) {
	var member models.ProjectMembership
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMemberRole changes the role of an existing member
func (r *GormProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID, roleID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		UpdateColumn("role_id", roleID)
	return result.RowsAffected, result.Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMembership{}).Error
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMembership, error) {
	var members []models.ProjectMembership
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Role").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListProjectIDsForUser returns the IDs of the projects the user belongs to
func (r *GormProjectRepository) ListProjectIDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectMembership{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
