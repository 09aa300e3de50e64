package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/issue-tracker-api/internal/constants"
)

func strPtr(s string) *string {
	return &s
}

func TestRoleService_CRUD(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	roles, err := env.roles.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 6)

	role, err := env.roles.CreateRole(ctx, RoleInput{Name: strPtr("Designer"), Abbreviation: strPtr("DSG")})
	require.NoError(t, err)

	_, err = env.roles.CreateRole(ctx, RoleInput{Name: strPtr("Designer")})
	assert.ErrorIs(t, err, ErrRoleNameTaken)

	_, err = env.roles.CreateRole(ctx, RoleInput{})
	assert.ErrorIs(t, err, ErrRoleNameRequired)

	updated, err := env.roles.UpdateRole(ctx, role.ID, RoleInput{Description: strPtr("Draws things")})
	require.NoError(t, err)
	assert.Equal(t, "Draws things", updated.Description)
	assert.Equal(t, "Designer", updated.Name)

	_, err = env.roles.UpdateRole(ctx, role.ID, RoleInput{Name: strPtr("Tester")})
	assert.ErrorIs(t, err, ErrRoleNameTaken)

	require.NoError(t, env.roles.DeleteRole(ctx, role.ID))
	_, err = env.roles.GetRole(ctx, role.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRoleService_ProtectsManagerAndInUseRoles(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	dev := env.createUser(t, "dev")
	project := env.createProject(t, owner, "PRT")
	env.addMember(t, project, dev, "Developer")

	manager := env.role(t, constants.ProjectManagerRoleName)
	assert.ErrorIs(t, env.roles.DeleteRole(ctx, manager.ID), ErrRoleProtected)
	_, err := env.roles.UpdateRole(ctx, manager.ID, RoleInput{Name: strPtr("Boss")})
	assert.ErrorIs(t, err, ErrRoleProtected)

	_, err = env.roles.UpdateRole(ctx, manager.ID, RoleInput{Description: strPtr("Runs the project")})
	require.NoError(t, err)

	assert.ErrorIs(t, env.roles.DeleteRole(ctx, env.role(t, "Developer").ID), ErrRoleInUse)
	require.NoError(t, env.roles.DeleteRole(ctx, env.role(t, "Analyst").ID))
}
