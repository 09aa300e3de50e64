package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/constants"
	"github.com/yukikurage/issue-tracker-api/internal/logger"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidProjectName        = errors.New("project name cannot be empty")
	ErrInvalidShortCode          = errors.New("short code must be 1 to 4 letters or digits")
	ErrInvalidProjectDates       = errors.New("project finish cannot precede its start")
	ErrAlreadyProjectMember      = errors.New("user is already a member of this project")
	ErrNoUsersProvided           = errors.New("at least one user is required")
	ErrNotProjectManager         = errors.New("only the project manager can perform this action")
	ErrProjectManagerRoleMissing = errors.New("project manager role is not configured")
	ErrLastProjectManager        = errors.New("a project must keep at least one project manager")
)

// Outcomes reported per user by a bulk member add.
const (
	MemberOutcomeAdded    = "added"
	MemberOutcomeConflict = "conflict"
	MemberOutcomeNotFound = "not_found"
)

// ProjectService provides business logic for projects and their members.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, roleRepo repository.RoleRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	ShortCode   string
	Description string
	StartAt     *time.Time
	FinishAt    *time.Time
	CreatorID   uint64
}

// UpdateProjectInput holds optional project changes.
type UpdateProjectInput struct {
	Name        *string
	ShortCode   *string
	Description *string
	StartAt     *time.Time
	FinishAt    *time.Time
	ClearFinish bool
}

// MemberOutcome is the result of adding one user during a bulk add.
type MemberOutcome struct {
	UserID uint64
	Status string
}

// ProjectInfo splits the roster into the manager and everybody else.
type ProjectInfo struct {
	Manager *models.ProjectMembership
	Members []models.ProjectMembership
}

// CreateProject creates a project and makes the creator its manager.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}
	code, err := normalizeShortCode(input.ShortCode)
	if err != nil {
		return nil, err
	}

	startAt := time.Now().UTC()
	if input.StartAt != nil {
		startAt = input.StartAt.UTC()
	}
	finishAt := utcPtr(input.FinishAt)
	if finishAt != nil && finishAt.Before(startAt) {
		return nil, ErrInvalidProjectDates
	}

	project := &models.Project{
		Name:        name,
		ShortCode:   code,
		Description: input.Description,
		StartAt:     startAt,
		FinishAt:    finishAt,
	}

	if err := s.projectRepo.CreateWithManager(ctx, project, input.CreatorID, constants.ProjectManagerRoleName); err != nil {
		if errors.Is(err, repository.ErrManagerRoleMissing) {
			logger.ErrorWithFields("Project manager role is missing; seed the roles table", map[string]interface{}{
				"role": constants.ProjectManagerRoleName,
			})
			return nil, fmt.Errorf("%w: %w", ErrProjectManagerRoleMissing, err)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsForUser returns the projects the user belongs to.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProject updates the editable fields of a project.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = name
	}
	if input.ShortCode != nil {
		code, err := normalizeShortCode(*input.ShortCode)
		if err != nil {
			return nil, err
		}
		project.ShortCode = code
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartAt != nil {
		project.StartAt = input.StartAt.UTC()
	}
	if input.ClearFinish {
		project.FinishAt = nil
	} else if input.FinishAt != nil {
		project.FinishAt = utcPtr(input.FinishAt)
	}
	if project.FinishAt != nil && project.FinishAt.Before(project.StartAt) {
		return nil, ErrInvalidProjectDates
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project with its tasks and memberships.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID uint64) error {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListMembers returns the members of a project with their users and roles.
func (s *ProjectService) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMembership, error) {
	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return members, nil
}

// ListCandidates returns the users that could still be added to the project.
func (s *ProjectService) ListCandidates(ctx context.Context, projectID uint64) ([]models.User, error) {
	users, err := s.userRepo.ListNotInProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return users, nil
}

// AddMember binds userID to the project with roleID.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID, roleID uint64) (*models.ProjectMembership, error) {
	role, err := s.findRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return s.addMember(ctx, projectID, userID, role)
}

// AddMembers adds every user independently with the same role. A failure for
// one user is reported in its outcome and does not stop the others.
func (s *ProjectService) AddMembers(ctx context.Context, projectID, roleID uint64, userIDs []uint64) ([]MemberOutcome, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUsersProvided
	}
	role, err := s.findRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]MemberOutcome, 0, len(userIDs))
	for _, userID := range uniqueUint64(userIDs) {
		outcome := MemberOutcome{UserID: userID, Status: MemberOutcomeAdded}
		if _, err := s.addMember(ctx, projectID, userID, role); err != nil {
			switch {
			case errors.Is(err, ErrAlreadyProjectMember):
				outcome.Status = MemberOutcomeConflict
			case errors.Is(err, ErrUserNotFound):
				outcome.Status = MemberOutcomeNotFound
			default:
				return nil, err
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// ChangeMemberRole sets the role of an existing member. Targeting a user who
// is not a member changes nothing and is not an error. The last manager
// cannot be demoted.
func (s *ProjectService) ChangeMemberRole(ctx context.Context, projectID, userID, roleID uint64) error {
	role, err := s.findRole(ctx, roleID)
	if err != nil {
		return err
	}

	member, err := s.findMember(ctx, projectID, userID)
	if err != nil || member == nil {
		return err
	}
	if IsProjectManager(member) && role.Name != constants.ProjectManagerRoleName {
		if err := s.ensureOtherManager(ctx, projectID); err != nil {
			return err
		}
	}

	if _, err := s.projectRepo.UpdateMemberRole(ctx, projectID, userID, roleID); err != nil {
		return fmt.Errorf("failed to change member role: %w", err)
	}
	return nil
}

// RemoveMember removes userID from the project; absent members are ignored.
// The last manager cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	member, err := s.findMember(ctx, projectID, userID)
	if err != nil || member == nil {
		return err
	}
	if IsProjectManager(member) {
		if err := s.ensureOtherManager(ctx, projectID); err != nil {
			return err
		}
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// findMember returns nil without error when userID holds no membership.
func (s *ProjectService) findMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMembership, error) {
	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}

// ensureOtherManager fails with ErrLastProjectManager unless the project has
// more than one manager.
func (s *ProjectService) ensureOtherManager(ctx context.Context, projectID uint64) error {
	members, err := s.ListMembers(ctx, projectID)
	if err != nil {
		return err
	}
	managers := 0
	for i := range members {
		if IsProjectManager(&members[i]) {
			managers++
		}
	}
	if managers < 2 {
		return ErrLastProjectManager
	}
	return nil
}

// GetProjectInfo returns the manager and the remaining members of a project.
func (s *ProjectService) GetProjectInfo(ctx context.Context, projectID uint64) (*ProjectInfo, error) {
	members, err := s.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	info := &ProjectInfo{Members: make([]models.ProjectMembership, 0, len(members))}
	for i := range members {
		if info.Manager == nil && members[i].Role.Name == constants.ProjectManagerRoleName {
			info.Manager = &members[i]
			continue
		}
		info.Members = append(info.Members, members[i])
	}
	return info, nil
}

// IsProjectManager reports whether the membership carries the manager role.
func IsProjectManager(member *models.ProjectMembership) bool {
	return member != nil && member.Role.Name == constants.ProjectManagerRoleName
}

func (s *ProjectService) addMember(ctx context.Context, projectID, userID uint64, role *models.Role) (*models.ProjectMembership, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(ctx, projectID, userID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
		RoleID:    role.ID,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyProjectMember
		}
		return nil, fmt.Errorf("failed to add member to project: %w", err)
	}

	member.User = *user
	member.Role = *role
	return member, nil
}

func (s *ProjectService) findRole(ctx context.Context, roleID uint64) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return role, nil
}

func normalizeShortCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > constants.MaxShortCodeLength {
		return "", ErrInvalidShortCode
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", ErrInvalidShortCode
		}
	}
	return code, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
