package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/issue-tracker-api/internal/constants"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound     = errors.New("role not found")
	ErrRoleNameRequired = errors.New("role name is required")
	ErrRoleNameTaken    = errors.New("role name already exists")
	ErrRoleInUse        = errors.New("role is assigned to project members")
	ErrRoleProtected    = errors.New("the project manager role cannot be renamed or deleted")
)

// RoleService manages the roles members can hold in projects.
type RoleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// RoleInput carries role fields; nil pointers leave a field unchanged on update.
type RoleInput struct {
	Name         *string
	Abbreviation *string
	Description  *string
}

func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) GetRole(ctx context.Context, id uint64) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return role, nil
}

func (s *RoleService) CreateRole(ctx context.Context, input RoleInput) (*models.Role, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, ErrRoleNameRequired
	}

	role := &models.Role{Name: strings.TrimSpace(*input.Name)}
	if input.Abbreviation != nil {
		role.Abbreviation = strings.TrimSpace(*input.Abbreviation)
	}
	if input.Description != nil {
		role.Description = *input.Description
	}

	if err := s.ensureNameFree(ctx, role.Name, 0); err != nil {
		return nil, err
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoleNameTaken
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id uint64, input RoleInput) (*models.Role, error) {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrRoleNameRequired
		}
		if name != role.Name {
			if role.Name == constants.ProjectManagerRoleName {
				return nil, ErrRoleProtected
			}
			if err := s.ensureNameFree(ctx, name, role.ID); err != nil {
				return nil, err
			}
		}
		role.Name = name
	}
	if input.Abbreviation != nil {
		role.Abbreviation = strings.TrimSpace(*input.Abbreviation)
	}
	if input.Description != nil {
		role.Description = *input.Description
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoleNameTaken
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return role, nil
}

// DeleteRole deletes a role no membership refers to.
func (s *RoleService) DeleteRole(ctx context.Context, id uint64) error {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if role.Name == constants.ProjectManagerRoleName {
		return ErrRoleProtected
	}

	count, err := s.roleRepo.CountMemberships(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count role memberships: %w", err)
	}
	if count > 0 {
		return ErrRoleInUse
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

func (s *RoleService) ensureNameFree(ctx context.Context, name string, selfID uint64) error {
	existing, err := s.roleRepo.FindByName(ctx, name)
	if err == nil {
		if existing.ID != selfID {
			return ErrRoleNameTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check role name: %w", err)
	}
	return nil
}
