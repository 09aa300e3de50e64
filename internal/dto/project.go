package dto

import (
	"time"

	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/services"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	ShortCode   string     `json:"short_code"`
	Description string     `json:"description"`
	StartAt     time.Time  `json:"start_at"`
	FinishAt    *time.Time `json:"finish_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProjectMemberDTO represents a member in a project
type ProjectMemberDTO struct {
	User     UserDTO   `json:"user"`
	Role     RoleDTO   `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectRoleDTO is the caller's role within one project
type ProjectRoleDTO struct {
	ProjectID uint64  `json:"project_id"`
	Role      RoleDTO `json:"role"`
}

// ProjectInfoDTO summarizes who runs a project and who works on it
type ProjectInfoDTO struct {
	Project ProjectDTO         `json:"project"`
	Manager *ProjectMemberDTO  `json:"manager"`
	Members []ProjectMemberDTO `json:"members"`
}

// MemberOutcomeDTO reports what happened to one user in a bulk add
type MemberOutcomeDTO struct {
	UserID uint64 `json:"user_id"`
	Status string `json:"status"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		ShortCode:   project.ShortCode,
		Description: project.Description,
		StartAt:     project.StartAt,
		FinishAt:    project.FinishAt,
		CreatedAt:   project.CreatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	result := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		result[i] = ToProjectDTO(project)
	}
	return result
}

// ToProjectMemberDTO converts a membership to DTO
func ToProjectMemberDTO(member models.ProjectMembership) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     ToRoleDTO(member.Role),
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectMemberDTOs converts a slice of memberships
func ToProjectMemberDTOs(members []models.ProjectMembership) []ProjectMemberDTO {
	result := make([]ProjectMemberDTO, len(members))
	for i, member := range members {
		result[i] = ToProjectMemberDTO(member)
	}
	return result
}

// ToProjectRoleDTO converts a membership to the caller's role view
func ToProjectRoleDTO(member models.ProjectMembership) ProjectRoleDTO {
	return ProjectRoleDTO{
		ProjectID: member.ProjectID,
		Role:      ToRoleDTO(member.Role),
	}
}

// ToProjectInfoDTO converts the manager/members split of a project
func ToProjectInfoDTO(project models.Project, info services.ProjectInfo) ProjectInfoDTO {
	result := ProjectInfoDTO{
		Project: ToProjectDTO(project),
		Members: ToProjectMemberDTOs(info.Members),
	}
	if info.Manager != nil {
		manager := ToProjectMemberDTO(*info.Manager)
		result.Manager = &manager
	}
	return result
}

// ToMemberOutcomeDTOs converts bulk add outcomes
func ToMemberOutcomeDTOs(outcomes []services.MemberOutcome) []MemberOutcomeDTO {
	result := make([]MemberOutcomeDTO, len(outcomes))
	for i, outcome := range outcomes {
		result[i] = MemberOutcomeDTO{UserID: outcome.UserID, Status: outcome.Status}
	}
	return result
}
