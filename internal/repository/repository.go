package repository

import (
	"context"
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Update saves the profile fields of a user
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user together with everything that cannot outlive them
	Delete(ctx context.Context, id uint64) error

	// ListNotInProject lists users that hold no membership in the project
	ListNotInProject(ctx context.Context, projectID uint64) ([]models.User, error)
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id uint64) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint64) error

	// CountMemberships counts memberships that reference the role
	CountMemberships(ctx context.Context, id uint64) (int64, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithManager creates a project and binds managerID to it with the
	// role named managerRole, in one transaction.
	CreateWithManager(ctx context.Context, project *models.Project, managerID uint64, managerRole string) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// ListForUser lists the projects the user holds a membership in
	ListForUser(ctx context.Context, userID uint64) ([]models.Project, error)

	// Update saves the editable fields of a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and all related data
	Delete(ctx context.Context, id uint64) error

	// AddMember adds a member to a project
	AddMember(ctx context.Context, member *models.ProjectMembership) error

	// FindMember finds a specific project member with its role
	FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMembership, error)

	// UpdateMemberRole changes the role of an existing member and reports
	// how many rows matched
	UpdateMemberRole(ctx context.Context, projectID, userID, roleID uint64) (int64, error)

	// RemoveMember removes a member from a project
	RemoveMember(ctx context.Context, projectID, userID uint64) error

	// ListMembers lists all members of a project with users and roles
	ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMembership, error)

	// ListProjectIDsForUser returns the IDs of the projects the user belongs to
	ListProjectIDsForUser(ctx context.Context, userID uint64) ([]uint64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateNumbered reserves the next number in the task's project and
	// creates the task with it
	CreateNumbered(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task with its comments, time logs and relations
	Delete(ctx context.Context, id uint64) error

	// MarkOverdue moves every task in one of statuses whose deadline is at
	// or before now to the delayed status
	MarkOverdue(ctx context.Context, now time.Time, statuses []models.TaskStatus) (int64, error)

	// CreateRelation stores a directed relation edge
	CreateRelation(ctx context.Context, relation *models.TaskRelation) error

	// ListOutgoingRelations lists edges starting at the task, target preloaded
	ListOutgoingRelations(ctx context.Context, taskID uint64) ([]models.TaskRelation, error)

	// ListIncomingRelations lists edges ending at the task, source preloaded
	ListIncomingRelations(ctx context.Context, taskID uint64) ([]models.TaskRelation, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs  []uint64
	ProjectID   *uint64
	PerformerID *uint64
	CreatorID   *uint64
	Type        *models.TaskType
	Status      *models.TaskStatus
	Pagination  utils.PaginationParams
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)
	ListByTask(ctx context.Context, taskID uint64) ([]models.Comment, error)
	Delete(ctx context.Context, id uint64) error
}

// TimeLogRepository defines the interface for time log data access
type TimeLogRepository interface {
	Create(ctx context.Context, log *models.TimeLog) error
	FindByID(ctx context.Context, id uint64) (*models.TimeLog, error)
	ListByTask(ctx context.Context, taskID uint64) ([]models.TimeLog, error)
	Delete(ctx context.Context, id uint64) error

	// SumMinutesByTask totals the minutes logged against a task
	SumMinutesByTask(ctx context.Context, taskID uint64) (int64, error)
}
