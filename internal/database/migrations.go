package database

import (
	"fmt"

	"github.com/yukikurage/issue-tracker-api/internal/constants"
	"github.com/yukikurage/issue-tracker-api/internal/logger"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every table managed by Migrate, parents before children.
var Models = []interface{}{
	&models.User{},
	&models.Role{},
	&models.Project{},
	&models.ProjectMembership{},
	&models.Task{},
	&models.TaskRelation{},
	&models.Comment{},
	&models.TimeLog{},
}

// SeedRoles are the roles every deployment must have. The project manager
// role is looked up by name whenever a project is created.
var SeedRoles = []models.Role{
	{Name: constants.ProjectManagerRoleName, Abbreviation: "PM", Description: "Owns the project and manages its members"},
	{Name: "Analyst", Abbreviation: "AN", Description: "Writes requirements and acceptance criteria"},
	{Name: "Quality owner", Abbreviation: "QA", Description: "Responsible for quality"},
	{Name: "Dev lead", Abbreviation: "DL", Description: "Leads the developers"},
	{Name: "Tester", Abbreviation: "TST", Description: "Writes and runs test cases"},
	{Name: "Developer", Abbreviation: "DEV", Description: "Implements tasks"},
}

// Migrate creates or updates all tables and secondary indexes.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return err
	}
	logger.Info("Database migrations completed")
	return nil
}

// AddIndexes adds the lookup indexes used by filtering, access checks and the
// overdue sweep. Existing indexes are left alone.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_status_deadline", "status, deadline"},
		{"tasks", "idx_tasks_creator_id", "creator_id"},
		{"tasks", "idx_tasks_performer_id", "performer_id"},
		{"task_relations", "idx_task_relations_from_task_id", "from_task_id"},
		{"task_relations", "idx_task_relations_to_task_id", "to_task_id"},
		{"project_memberships", "idx_project_memberships_user_id", "user_id"},
		{"comments", "idx_comments_task_id", "task_id"},
		{"time_logs", "idx_time_logs_task_id", "task_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			logger.Debugf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Debugf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// Seed inserts the seed roles that do not exist yet, matching by name.
func Seed(db *gorm.DB) error {
	for _, seed := range SeedRoles {
		role := seed
		if err := db.Where(models.Role{Name: role.Name}).
			Attrs(models.Role{Abbreviation: role.Abbreviation, Description: role.Description}).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %q: %w", seed.Name, err)
		}
	}
	return nil
}
