package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/issue-tracker-api/internal/constants"
	"github.com/yukikurage/issue-tracker-api/internal/database"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProject(t *testing.T, db *gorm.DB, manager *models.User, code string) *models.Project {
	t.Helper()
	project := &models.Project{Name: "Project " + code, ShortCode: code, StartAt: time.Now().UTC()}
	require.NoError(t, NewProjectRepository(db).CreateWithManager(context.Background(), project, manager.ID, constants.ProjectManagerRoleName))
	return project
}

func createTask(t *testing.T, db *gorm.DB, project *models.Project, creator *models.User, name string) *models.Task {
	t.Helper()
	task := &models.Task{
		Name:      name,
		Status:    models.TaskStatusBacklog,
		Type:      models.TaskTypeWorkItem,
		Priority:  models.TaskPriorityMedium,
		ProjectID: project.ID,
		CreatorID: creator.ID,
	}
	require.NoError(t, NewTaskRepository(db).CreateNumbered(context.Background(), task))
	return task
}
