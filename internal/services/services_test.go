package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/issue-tracker-api/internal/database"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type serviceTestEnv struct {
	db          *gorm.DB
	auth        *AuthService
	users       *UserService
	roles       *RoleService
	projects    *ProjectService
	tasks       *TaskService
	comments    *CommentService
	timeLogs    *TimeLogService
	maintenance *MaintenanceService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	maintenance := NewMaintenanceService(taskRepo)

	return serviceTestEnv{
		db:          db,
		auth:        NewAuthService(userRepo),
		users:       NewUserService(userRepo, projectRepo),
		roles:       NewRoleService(roleRepo),
		projects:    NewProjectService(projectRepo, userRepo, roleRepo),
		tasks:       NewTaskService(taskRepo, projectRepo, maintenance, nil),
		comments:    NewCommentService(repository.NewCommentRepository(db)),
		timeLogs:    NewTimeLogService(repository.NewTimeLogRepository(db)),
		maintenance: maintenance,
	}
}

func (env serviceTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env serviceTestEnv) createProject(t *testing.T, owner *models.User, code string) *models.Project {
	t.Helper()
	project, err := env.projects.CreateProject(context.Background(), CreateProjectInput{
		Name:      "Project " + code,
		ShortCode: code,
		CreatorID: owner.ID,
	})
	require.NoError(t, err)
	return project
}

func (env serviceTestEnv) createTask(t *testing.T, project *models.Project, creator *models.User, name string) *models.Task {
	t.Helper()
	task, err := env.tasks.CreateTask(context.Background(), CreateTaskInput{
		ProjectID: project.ID,
		CreatorID: creator.ID,
		Name:      name,
	})
	require.NoError(t, err)
	return task
}

func (env serviceTestEnv) role(t *testing.T, name string) *models.Role {
	t.Helper()
	var role models.Role
	require.NoError(t, env.db.Where("name = ?", name).First(&role).Error)
	return &role
}

func (env serviceTestEnv) addMember(t *testing.T, project *models.Project, user *models.User, roleName string) {
	t.Helper()
	_, err := env.projects.AddMember(context.Background(), project.ID, user.ID, env.role(t, roleName).ID)
	require.NoError(t, err)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
