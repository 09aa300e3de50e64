package dto

import (
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// ProfileDTO is the signed-in user's own account
type ProfileDTO struct {
	UserDTO
	CreatedAt time.Time `json:"created_at"`
}

// RoleDTO represents a role in API responses
type RoleDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Description  string `json:"description,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, user := range users {
		result[i] = ToUserDTO(user)
	}
	return result
}

// ToProfileDTO converts a User model to ProfileDTO
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		UserDTO:   ToUserDTO(user),
		CreatedAt: user.CreatedAt,
	}
}

// ToRoleDTO converts a Role model to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:           role.ID,
		Name:         role.Name,
		Abbreviation: role.Abbreviation,
		Description:  role.Description,
	}
}

// ToRoleDTOs converts a slice of roles
func ToRoleDTOs(roles []models.Role) []RoleDTO {
	result := make([]RoleDTO, len(roles))
	for i, role := range roles {
		result[i] = ToRoleDTO(role)
	}
	return result
}
