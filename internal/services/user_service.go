package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/issue-tracker-api/internal/constants"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrMembershipNotFound = errors.New("user is not a member of this project")
)

// UserService manages the profile of the signed-in user. Users only ever see
// and change their own account; other accounts behave as if absent.
type UserService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// UpdateUserInput holds the optional profile changes.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
}

// GetUser returns targetID if it is the actor's own account.
func (s *UserService) GetUser(ctx context.Context, actorID, targetID uint64) (*models.User, error) {
	if actorID != targetID {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUser applies profile changes to the actor's own account.
func (s *UserService) UpdateUser(ctx context.Context, actorID, targetID uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the actor's own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID uint64) error {
	if _, err := s.GetUser(ctx, actorID, targetID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ProjectRole returns the membership, with its role, that userID holds in projectID.
func (s *UserService) ProjectRole(ctx context.Context, userID, projectID uint64) (*models.ProjectMembership, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}
